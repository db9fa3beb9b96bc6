package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

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
)

// Store backs every module's storage port with one in-process state set, the
// way the postgres repository backs them with one database. Atomic snapshots
// the state and restores it when the scoped function fails.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	sequence    uint64
	entries     map[uint64]entities.Entry
	rooms       map[string]decimal.Decimal // roomID|assetKey -> balance
	feeBalances map[string]decimal.Decimal // asset key -> accrued fee
	feeRateBps  int64
	roles       *rolesentities.Roles
	outbox      map[string]outboxRecord
}

type outboxRecord struct {
	Message     ports.OutboxMessage
	Status      string
	PublishedAt *time.Time
}

func NewStore() *Store {
	return &Store{
		entries:     make(map[uint64]entities.Entry),
		rooms:       make(map[string]decimal.Decimal),
		feeBalances: make(map[string]decimal.Decimal),
		outbox:      make(map[string]outboxRecord),
	}
}

// --- atomic scopes ---

func (s *Store) Atomic(_ context.Context, fn func(tx ports.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *Store) AtomicSweep(_ context.Context, fn func(tx feeports.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	sequence    uint64
	entries     map[uint64]entities.Entry
	rooms       map[string]decimal.Decimal
	feeBalances map[string]decimal.Decimal
	feeRateBps  int64
	roles       *rolesentities.Roles
	outbox      map[string]outboxRecord
}

func (s *Store) snapshot() storeSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := storeSnapshot{
		sequence:    s.sequence,
		entries:     make(map[uint64]entities.Entry, len(s.entries)),
		rooms:       make(map[string]decimal.Decimal, len(s.rooms)),
		feeBalances: make(map[string]decimal.Decimal, len(s.feeBalances)),
		feeRateBps:  s.feeRateBps,
		outbox:      make(map[string]outboxRecord, len(s.outbox)),
	}
	for id, entry := range s.entries {
		snap.entries[id] = cloneEntry(entry)
	}
	for key, balance := range s.rooms {
		snap.rooms[key] = balance
	}
	for key, balance := range s.feeBalances {
		snap.feeBalances[key] = balance
	}
	for id, record := range s.outbox {
		snap.outbox[id] = record
	}
	if s.roles != nil {
		roles := *s.roles
		snap.roles = &roles
	}
	return snap
}

func (s *Store) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence = snap.sequence
	s.entries = snap.entries
	s.rooms = snap.rooms
	s.feeBalances = snap.feeBalances
	s.feeRateBps = snap.feeRateBps
	s.roles = snap.roles
	s.outbox = snap.outbox
}

// --- ledger entries ---

func (s *Store) NextEntryID(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.sequence
	s.sequence++
	return id, nil
}

func (s *Store) CreateEntry(_ context.Context, entry entities.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entry.ID]; exists {
		return domainerrors.ErrInvalidDepositInput
	}
	s.entries[entry.ID] = cloneEntry(entry)
	return nil
}

func (s *Store) GetEntry(_ context.Context, entryID uint64) (entities.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[entryID]
	if !ok {
		return entities.Entry{}, domainerrors.ErrEntryNotFound
	}
	return cloneEntry(entry), nil
}

func (s *Store) UpdateEntry(_ context.Context, entry entities.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[entry.ID]; !ok {
		return domainerrors.ErrEntryNotFound
	}
	s.entries[entry.ID] = cloneEntry(entry)
	return nil
}

func (s *Store) ListEntriesByDepositor(_ context.Context, depositor string) ([]entities.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	depositor = strings.TrimSpace(depositor)
	items := make([]entities.Entry, 0)
	for _, entry := range s.entries {
		if entry.Depositor == depositor {
			items = append(items, cloneEntry(entry))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) ListExpiredActive(_ context.Context, cutoff time.Time, limit int) ([]entities.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]entities.Entry, 0)
	for _, entry := range s.entries {
		if !entry.Refunded && cutoff.After(entry.Deadline) && entry.Remaining.IsPositive() {
			items = append(items, cloneEntry(entry))
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// --- room pool ---

func (s *Store) RoomBalance(_ context.Context, roomID string, assetKey string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms[roomKey(roomID, assetKey)], nil
}

func (s *Store) SaveRoomBalance(_ context.Context, roomID string, assetKey string, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[roomKey(roomID, assetKey)] = balance
	return nil
}

// --- fee registry ---

func (s *Store) FeeBalance(_ context.Context, assetKey string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feeBalances[strings.TrimSpace(assetKey)], nil
}

func (s *Store) SaveFeeBalance(_ context.Context, assetKey string, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeBalances[strings.TrimSpace(assetKey)] = balance
	return nil
}

func (s *Store) ListFeeTokens(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tokens := make([]string, 0)
	for key, balance := range s.feeBalances {
		asset := assets.ParseKey(key)
		if asset.IsToken() && !balance.IsZero() {
			tokens = append(tokens, asset.TokenAddress)
		}
	}
	sort.Strings(tokens)
	return tokens, nil
}

func (s *Store) FeeRateBps(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feeRateBps, nil
}

func (s *Store) SaveFeeRateBps(_ context.Context, bps int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feeRateBps = bps
	return nil
}

// --- roles ---

func (s *Store) GetRoles(_ context.Context) (rolesentities.Roles, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.roles == nil {
		return rolesentities.Roles{}, false, nil
	}
	return *s.roles, true, nil
}

func (s *Store) SaveRoles(_ context.Context, roles rolesentities.Roles) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles = &roles
	return nil
}

// --- outbox ---

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		return domainerrors.ErrInvalidDepositInput
	}
	if _, exists := s.outbox[outboxID]; exists {
		return nil
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.outbox[outboxID] = outboxRecord{
		Message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
		Status: outboxStatusPending,
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, record := range s.outbox {
		if record.Status == outboxStatusPending {
			items = append(items, record.Message)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrEntryNotFound
	}
	ts := publishedAt.UTC()
	record.Status = outboxStatusPublished
	record.PublishedAt = &ts
	s.outbox[strings.TrimSpace(outboxID)] = record
	return nil
}

// --- clock / ids ---

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func roomKey(roomID string, assetKey string) string {
	return strings.TrimSpace(roomID) + "|" + strings.TrimSpace(assetKey)
}

func cloneEntry(entry entities.Entry) entities.Entry {
	clone := entry
	clone.Recipients = append([]string(nil), entry.Recipients...)
	clone.Claimed = make(map[string]decimal.Decimal, len(entry.Claimed))
	for recipient, amount := range entry.Claimed {
		clone.Claimed[recipient] = amount
	}
	return clone
}

var (
	_ ports.Repository       = (*Store)(nil)
	_ ports.Tx               = (*Store)(nil)
	_ ports.OutboxRepository = (*Store)(nil)
	_ feeports.Repository    = (*Store)(nil)
	_ accessports.Store      = (*Store)(nil)
)
