package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	assets "tokendist/contexts/distribution-core/asset-vault/domain/entities"
	"tokendist/contexts/distribution-core/claims-ledger/domain/entities"
	domainerrors "tokendist/contexts/distribution-core/claims-ledger/domain/errors"
	"tokendist/contexts/distribution-core/claims-ledger/ports"
	feeports "tokendist/contexts/finance-core/fee-registry/ports"
	rolesentities "tokendist/contexts/identity-access/access-control/domain/entities"
	accessports "tokendist/contexts/identity-access/access-control/ports"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	sequenceRowID = 1
	feeRateRowID  = 1
	rolesRowID    = 1
)

// Repository backs every module's storage port with one postgres schema. The
// ledger's Atomic scope maps to one database transaction, so an entry, its
// fee accrual, and its room merge commit or roll back together.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) with(db *gorm.DB) *Repository {
	return &Repository{db: db, logger: r.logger}
}

func (r *Repository) Atomic(_ context.Context, fn func(tx ports.Tx) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(r.with(tx))
	})
}

func (r *Repository) AtomicSweep(_ context.Context, fn func(tx feeports.Tx) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(r.with(tx))
	})
}

// --- ledger entries ---

func (r *Repository) NextEntryID(ctx context.Context) (uint64, error) {
	var row ledgerSequenceModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", sequenceRowID).
		First(&row).
		Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, r.logError("ledger_repo_next_entry_id_failed", err)
		}
		row = ledgerSequenceModel{ID: sequenceRowID, NextValue: 0}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return 0, r.logError("ledger_repo_sequence_init_failed", err)
		}
	}

	id := row.NextValue
	if err := r.db.WithContext(ctx).
		Model(&ledgerSequenceModel{}).
		Where("id = ?", sequenceRowID).
		Update("next_value", id+1).
		Error; err != nil {
		return 0, r.logError("ledger_repo_sequence_advance_failed", err)
	}
	return id, nil
}

func (r *Repository) CreateEntry(ctx context.Context, entry entities.Entry) error {
	row, err := entryModelFromEntity(entry)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidDepositInput
		}
		return r.logError("ledger_repo_create_entry_failed", err, "entry_id", entry.ID)
	}
	return nil
}

func (r *Repository) GetEntry(ctx context.Context, entryID uint64) (entities.Entry, error) {
	var row ledgerEntryModel
	err := r.db.WithContext(ctx).
		Where("id = ?", entryID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Entry{}, domainerrors.ErrEntryNotFound
		}
		return entities.Entry{}, r.logError("ledger_repo_get_entry_failed", err, "entry_id", entryID)
	}
	return row.toEntity()
}

func (r *Repository) UpdateEntry(ctx context.Context, entry entities.Entry) error {
	row, err := entryModelFromEntity(entry)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&ledgerEntryModel{}).
		Where("id = ?", entry.ID).
		Updates(map[string]any{
			"remaining":           row.Remaining,
			"allowance_remaining": row.AllowanceRemaining,
			"claimed":             row.Claimed,
			"refunded":            row.Refunded,
			"updated_at":          row.UpdatedAt,
		})
	if result.Error != nil {
		return r.logError("ledger_repo_update_entry_failed", result.Error, "entry_id", entry.ID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrEntryNotFound
	}
	return nil
}

func (r *Repository) ListEntriesByDepositor(ctx context.Context, depositor string) ([]entities.Entry, error) {
	var rows []ledgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("depositor = ?", strings.TrimSpace(depositor)).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_by_depositor_failed", err, "depositor", strings.TrimSpace(depositor))
	}
	return entriesFromModels(rows)
}

func (r *Repository) ListExpiredActive(ctx context.Context, cutoff time.Time, limit int) ([]entities.Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []ledgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("refunded = ?", false).
		Where("deadline < ?", cutoff.UTC()).
		Where("remaining > 0").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_expired_active_failed", err,
			"cutoff", cutoff.UTC().Format(time.RFC3339),
		)
	}
	return entriesFromModels(rows)
}

// --- room pool ---

func (r *Repository) RoomBalance(ctx context.Context, roomID string, assetKey string) (decimal.Decimal, error) {
	var row roomPoolModel
	err := r.db.WithContext(ctx).
		Where("room_id = ?", strings.TrimSpace(roomID)).
		Where("asset_key = ?", strings.TrimSpace(assetKey)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, r.logError("ledger_repo_room_balance_failed", err,
			"room_id", strings.TrimSpace(roomID),
			"asset", strings.TrimSpace(assetKey),
		)
	}
	return row.Balance, nil
}

func (r *Repository) SaveRoomBalance(ctx context.Context, roomID string, assetKey string, balance decimal.Decimal) error {
	row := roomPoolModel{
		RoomID:    strings.TrimSpace(roomID),
		AssetKey:  strings.TrimSpace(assetKey),
		Balance:   balance,
		UpdatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "asset_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return r.logError("ledger_repo_save_room_balance_failed", err,
			"room_id", row.RoomID,
			"asset", row.AssetKey,
		)
	}
	return nil
}

// --- fee registry ---

func (r *Repository) FeeBalance(ctx context.Context, assetKey string) (decimal.Decimal, error) {
	var row feeBalanceModel
	err := r.db.WithContext(ctx).
		Where("asset_key = ?", strings.TrimSpace(assetKey)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, r.logError("ledger_repo_fee_balance_failed", err, "asset", strings.TrimSpace(assetKey))
	}
	return row.Balance, nil
}

func (r *Repository) SaveFeeBalance(ctx context.Context, assetKey string, balance decimal.Decimal) error {
	row := feeBalanceModel{
		AssetKey:  strings.TrimSpace(assetKey),
		Balance:   balance,
		UpdatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return r.logError("ledger_repo_save_fee_balance_failed", err, "asset", row.AssetKey)
	}
	return nil
}

func (r *Repository) ListFeeTokens(ctx context.Context) ([]string, error) {
	var rows []feeBalanceModel
	if err := r.db.WithContext(ctx).
		Where("asset_key LIKE ?", "token:%").
		Where("balance <> 0").
		Order("asset_key ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_fee_tokens_failed", err)
	}
	tokens := make([]string, 0, len(rows))
	for _, row := range rows {
		tokens = append(tokens, assets.ParseKey(row.AssetKey).TokenAddress)
	}
	return tokens, nil
}

func (r *Repository) FeeRateBps(ctx context.Context) (int64, error) {
	var row feeRateModel
	err := r.db.WithContext(ctx).
		Where("id = ?", feeRateRowID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, r.logError("ledger_repo_fee_rate_failed", err)
	}
	return row.Bps, nil
}

func (r *Repository) SaveFeeRateBps(ctx context.Context, bps int64) error {
	row := feeRateModel{ID: feeRateRowID, Bps: bps, UpdatedAt: time.Now().UTC()}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"bps", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return r.logError("ledger_repo_save_fee_rate_failed", err, "bps", bps)
	}
	return nil
}

// --- roles ---

func (r *Repository) GetRoles(ctx context.Context) (rolesentities.Roles, bool, error) {
	var row ledgerRolesModel
	err := r.db.WithContext(ctx).
		Where("id = ?", rolesRowID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rolesentities.Roles{}, false, nil
		}
		return rolesentities.Roles{}, false, r.logError("ledger_repo_get_roles_failed", err)
	}
	return rolesentities.Roles{
		Owner:         row.Owner,
		Withdrawer:    row.Withdrawer,
		InitializedAt: row.InitializedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}, true, nil
}

func (r *Repository) SaveRoles(ctx context.Context, roles rolesentities.Roles) error {
	row := ledgerRolesModel{
		ID:            rolesRowID,
		Owner:         strings.TrimSpace(roles.Owner),
		Withdrawer:    strings.TrimSpace(roles.Withdrawer),
		InitializedAt: roles.InitializedAt.UTC(),
		UpdatedAt:     roles.UpdatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner", "withdrawer", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return r.logError("ledger_repo_save_roles_failed", err)
	}
	return nil
}

// --- outbox ---

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("ledger_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
		)
	}
	row := ledgerOutboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		return domainerrors.ErrInvalidDepositInput
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		return r.logError("ledger_repo_append_outbox_failed", err, "outbox_id", row.OutboxID)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []ledgerOutboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_pending_outbox_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&ledgerOutboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("ledger_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrEntryNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "distribution-core/claims-ledger",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("ledger repository operation failed", fields...)
	return err
}

// --- models ---

type ledgerEntryModel struct {
	ID                 uint64          `gorm:"column:id;primaryKey"`
	AssetKey           string          `gorm:"column:asset_key"`
	Depositor          string          `gorm:"column:depositor"`
	Deadline           time.Time       `gorm:"column:deadline"`
	Mode               string          `gorm:"column:mode"`
	Recipients         []string        `gorm:"column:recipients;type:text[]"`
	RoomID             string          `gorm:"column:room_id"`
	AmountPerShare     decimal.Decimal `gorm:"column:amount_per_share;type:numeric"`
	ShareCount         int64           `gorm:"column:share_count"`
	Total              decimal.Decimal `gorm:"column:total;type:numeric"`
	Remaining          decimal.Decimal `gorm:"column:remaining;type:numeric"`
	Fee                decimal.Decimal `gorm:"column:fee;type:numeric"`
	GasAllowance       decimal.Decimal `gorm:"column:gas_allowance;type:numeric"`
	AllowanceRemaining decimal.Decimal `gorm:"column:allowance_remaining;type:numeric"`
	Claimed            []byte          `gorm:"column:claimed;type:jsonb"`
	Refunded           bool            `gorm:"column:refunded"`
	CreatedAt          time.Time       `gorm:"column:created_at"`
	UpdatedAt          time.Time       `gorm:"column:updated_at"`
}

func (ledgerEntryModel) TableName() string {
	return "ledger_entries"
}

func entryModelFromEntity(entry entities.Entry) (ledgerEntryModel, error) {
	claimed, err := json.Marshal(entry.Claimed)
	if err != nil {
		return ledgerEntryModel{}, err
	}
	return ledgerEntryModel{
		ID:                 entry.ID,
		AssetKey:           entry.Asset.Key(),
		Depositor:          strings.TrimSpace(entry.Depositor),
		Deadline:           entry.Deadline.UTC(),
		Mode:               string(entry.Mode),
		Recipients:         append([]string(nil), entry.Recipients...),
		RoomID:             strings.TrimSpace(entry.RoomID),
		AmountPerShare:     entry.AmountPerShare,
		ShareCount:         entry.ShareCount,
		Total:              entry.Total,
		Remaining:          entry.Remaining,
		Fee:                entry.Fee,
		GasAllowance:       entry.GasAllowance,
		AllowanceRemaining: entry.AllowanceRemaining,
		Claimed:            claimed,
		Refunded:           entry.Refunded,
		CreatedAt:          entry.CreatedAt.UTC(),
		UpdatedAt:          entry.UpdatedAt.UTC(),
	}, nil
}

func (m ledgerEntryModel) toEntity() (entities.Entry, error) {
	claimed := make(map[string]decimal.Decimal)
	if len(m.Claimed) > 0 {
		if err := json.Unmarshal(m.Claimed, &claimed); err != nil {
			return entities.Entry{}, err
		}
	}
	return entities.Entry{
		ID:                 m.ID,
		Asset:              assets.ParseKey(m.AssetKey),
		Depositor:          m.Depositor,
		Deadline:           m.Deadline.UTC(),
		Mode:               entities.Mode(m.Mode),
		Recipients:         append([]string(nil), m.Recipients...),
		RoomID:             m.RoomID,
		AmountPerShare:     m.AmountPerShare,
		ShareCount:         m.ShareCount,
		Total:              m.Total,
		Remaining:          m.Remaining,
		Fee:                m.Fee,
		GasAllowance:       m.GasAllowance,
		AllowanceRemaining: m.AllowanceRemaining,
		Claimed:            claimed,
		Refunded:           m.Refunded,
		CreatedAt:          m.CreatedAt.UTC(),
		UpdatedAt:          m.UpdatedAt.UTC(),
	}, nil
}

func entriesFromModels(rows []ledgerEntryModel) ([]entities.Entry, error) {
	items := make([]entities.Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, entry)
	}
	return items, nil
}

type ledgerSequenceModel struct {
	ID        int    `gorm:"column:id;primaryKey"`
	NextValue uint64 `gorm:"column:next_value"`
}

func (ledgerSequenceModel) TableName() string {
	return "ledger_sequence"
}

type roomPoolModel struct {
	RoomID    string          `gorm:"column:room_id;primaryKey"`
	AssetKey  string          `gorm:"column:asset_key;primaryKey"`
	Balance   decimal.Decimal `gorm:"column:balance;type:numeric"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (roomPoolModel) TableName() string {
	return "room_pools"
}

type feeBalanceModel struct {
	AssetKey  string          `gorm:"column:asset_key;primaryKey"`
	Balance   decimal.Decimal `gorm:"column:balance;type:numeric"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (feeBalanceModel) TableName() string {
	return "fee_balances"
}

type feeRateModel struct {
	ID        int       `gorm:"column:id;primaryKey"`
	Bps       int64     `gorm:"column:bps"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (feeRateModel) TableName() string {
	return "fee_rates"
}

type ledgerRolesModel struct {
	ID            int       `gorm:"column:id;primaryKey"`
	Owner         string    `gorm:"column:owner"`
	Withdrawer    string    `gorm:"column:withdrawer"`
	InitializedAt time.Time `gorm:"column:initialized_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (ledgerRolesModel) TableName() string {
	return "ledger_roles"
}

type ledgerOutboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (ledgerOutboxModel) TableName() string {
	return "ledger_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var (
	_ ports.Repository       = (*Repository)(nil)
	_ ports.Tx               = (*Repository)(nil)
	_ ports.OutboxRepository = (*Repository)(nil)
	_ feeports.Repository    = (*Repository)(nil)
	_ accessports.Store      = (*Repository)(nil)
)
