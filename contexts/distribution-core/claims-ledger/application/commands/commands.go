package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	assets "tokendist/contexts/distribution-core/asset-vault/domain/entities"
	vaultports "tokendist/contexts/distribution-core/asset-vault/ports"
	application "tokendist/contexts/distribution-core/claims-ledger/application"
	"tokendist/contexts/distribution-core/claims-ledger/domain/entities"
	domainerrors "tokendist/contexts/distribution-core/claims-ledger/domain/errors"
	"tokendist/contexts/distribution-core/claims-ledger/ports"
	roompool "tokendist/contexts/distribution-core/room-pool/application"
	roomerrors "tokendist/contexts/distribution-core/room-pool/domain/errors"
	feeports "tokendist/contexts/finance-core/fee-registry/ports"
)

const (
	eventDeposited = "distribution.deposited"
	eventClaimed   = "distribution.claimed"
	eventRefunded  = "distribution.refunded"

	feeRateDenominatorBps = 10000
)

type DepositDirectCommand struct {
	Depositor          string
	Asset              assets.Asset
	Recipients         []string
	AmountPerRecipient decimal.Decimal
	Deadline           time.Time
	GasAllowance       decimal.Decimal
	// AttachedValue is the native currency attached to the call. It must
	// equal exactly what the deposit requires.
	AttachedValue decimal.Decimal
}

type DepositRoomCommand struct {
	Depositor      string
	Asset          assets.Asset
	RoomID         string
	AmountPerShare decimal.Decimal
	ShareCount     int64
	Deadline       time.Time
	GasAllowance   decimal.Decimal
	AttachedValue  decimal.Decimal
}

type ClaimCommand struct {
	EntryID   uint64
	Recipient string
	// Caller executes the claim. A caller other than the recipient acts as a
	// relayer and is reimbursed from the entry's gas allowance.
	Caller string
	// Amount zero claims the recipient's full open entitlement.
	Amount decimal.Decimal
}

type ClaimResult struct {
	Entry      entities.Entry
	Paid       decimal.Decimal
	Reimbursed decimal.Decimal
}

type RefundCommand struct {
	EntryID uint64
	Caller  string
}

type RefundResult struct {
	Entry             entities.Entry
	Refunded          decimal.Decimal
	AllowanceReturned decimal.Decimal
}

type UseCase struct {
	Repo   ports.Repository
	Vault  ports.Vault
	Rates  feeports.Rates
	Policy ports.ReimbursementPolicy
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger

	// Serial admits one ledger operation at a time: every deposit, claim, and
	// refund fully completes before the next begins.
	Serial *sync.Mutex
}

func (uc UseCase) DepositDirect(ctx context.Context, cmd DepositDirectCommand) (entities.Entry, error) {
	uc.lock()
	defer uc.unlock()

	logger := application.ResolveLogger(uc.Logger)
	now := uc.now()

	depositor := strings.TrimSpace(cmd.Depositor)
	recipients := normalizeRecipients(cmd.Recipients)
	if depositor == "" || !cmd.Asset.Valid() || len(recipients) == 0 ||
		!cmd.AmountPerRecipient.IsPositive() || cmd.GasAllowance.IsNegative() {
		return entities.Entry{}, domainerrors.ErrInvalidDepositInput
	}
	// A deadline in the past is allowed: the entry is born unclaimable and is
	// immediately reclaimable by the depositor.
	if cmd.Deadline.IsZero() {
		return entities.Entry{}, domainerrors.ErrInvalidDeadline
	}

	total := cmd.AmountPerRecipient.Mul(decimal.NewFromInt(int64(len(recipients))))
	fee, err := uc.feeFor(ctx, total)
	if err != nil {
		return entities.Entry{}, err
	}
	if err := uc.checkAttachedValue(cmd.Asset, total, fee, cmd.GasAllowance, cmd.AttachedValue); err != nil {
		return entities.Entry{}, err
	}

	entry := entities.Entry{
		Asset:              cmd.Asset,
		Depositor:          depositor,
		Deadline:           cmd.Deadline.UTC(),
		Mode:               entities.ModeDirect,
		Recipients:         recipients,
		AmountPerShare:     cmd.AmountPerRecipient,
		ShareCount:         int64(len(recipients)),
		Total:              total,
		Remaining:          total,
		Fee:                fee,
		GasAllowance:       cmd.GasAllowance,
		AllowanceRemaining: cmd.GasAllowance,
		Claimed:            make(map[string]decimal.Decimal),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.persistDeposit(ctx, &entry); err != nil {
		return entities.Entry{}, err
	}

	logger.Info("distribution deposit created",
		"event", "ledger_deposit_created",
		"module", "distribution-core/claims-ledger",
		"layer", "application",
		"entry_id", entry.ID,
		"mode", string(entry.Mode),
		"asset", entry.Asset.Key(),
		"depositor", entry.Depositor,
		"total", entry.Total.String(),
		"fee", entry.Fee.String(),
		"recipient_count", len(entry.Recipients),
	)
	return entry, nil
}

func (uc UseCase) DepositRoom(ctx context.Context, cmd DepositRoomCommand) (entities.Entry, error) {
	uc.lock()
	defer uc.unlock()

	logger := application.ResolveLogger(uc.Logger)
	now := uc.now()

	depositor := strings.TrimSpace(cmd.Depositor)
	roomID := strings.TrimSpace(cmd.RoomID)
	if depositor == "" || !cmd.Asset.Valid() || roomID == "" ||
		!cmd.AmountPerShare.IsPositive() || cmd.ShareCount <= 0 || cmd.GasAllowance.IsNegative() {
		return entities.Entry{}, domainerrors.ErrInvalidDepositInput
	}
	if cmd.Deadline.IsZero() {
		return entities.Entry{}, domainerrors.ErrInvalidDeadline
	}

	total := cmd.AmountPerShare.Mul(decimal.NewFromInt(cmd.ShareCount))
	fee, err := uc.feeFor(ctx, total)
	if err != nil {
		return entities.Entry{}, err
	}
	if err := uc.checkAttachedValue(cmd.Asset, total, fee, cmd.GasAllowance, cmd.AttachedValue); err != nil {
		return entities.Entry{}, err
	}

	entry := entities.Entry{
		Asset:              cmd.Asset,
		Depositor:          depositor,
		Deadline:           cmd.Deadline.UTC(),
		Mode:               entities.ModeRoom,
		RoomID:             roomID,
		AmountPerShare:     cmd.AmountPerShare,
		ShareCount:         cmd.ShareCount,
		Total:              total,
		Remaining:          total,
		Fee:                fee,
		GasAllowance:       cmd.GasAllowance,
		AllowanceRemaining: cmd.GasAllowance,
		Claimed:            make(map[string]decimal.Decimal),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.persistDeposit(ctx, &entry); err != nil {
		return entities.Entry{}, err
	}

	logger.Info("distribution deposit created",
		"event", "ledger_deposit_created",
		"module", "distribution-core/claims-ledger",
		"layer", "application",
		"entry_id", entry.ID,
		"mode", string(entry.Mode),
		"asset", entry.Asset.Key(),
		"depositor", entry.Depositor,
		"room_id", entry.RoomID,
		"total", entry.Total.String(),
		"fee", entry.Fee.String(),
	)
	return entry, nil
}

// persistDeposit writes the entry, the fee accrual, and (for room mode) the
// pool merge in one atomic scope, pulling the funds in as the final act so a
// failed transfer leaves no partial state.
func (uc UseCase) persistDeposit(ctx context.Context, entry *entities.Entry) error {
	return uc.Repo.Atomic(ctx, func(tx ports.Tx) error {
		id, err := tx.NextEntryID(ctx)
		if err != nil {
			return err
		}
		entry.ID = id
		if err := tx.CreateEntry(ctx, *entry); err != nil {
			return err
		}

		if entry.Fee.IsPositive() {
			balance, err := tx.FeeBalance(ctx, entry.Asset.Key())
			if err != nil {
				return err
			}
			if err := tx.SaveFeeBalance(ctx, entry.Asset.Key(), balance.Add(entry.Fee)); err != nil {
				return err
			}
		}

		if entry.Mode == entities.ModeRoom {
			pool := roompool.Service{Store: tx, Logger: uc.Logger}
			if _, err := pool.Merge(ctx, entry.RoomID, entry.Asset.Key(), entry.Total); err != nil {
				return err
			}
		}

		if err := uc.appendEvent(ctx, tx, eventDeposited, *entry, map[string]any{
			"entry_id":  entry.ID,
			"mode":      string(entry.Mode),
			"asset":     entry.Asset.Key(),
			"depositor": entry.Depositor,
			"room_id":   entry.RoomID,
			"total":     entry.Total.String(),
			"fee":       entry.Fee.String(),
			"deadline":  entry.Deadline.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}

		return uc.Vault.PullBatch(ctx, depositPulls(*entry))
	})
}

func (uc UseCase) Claim(ctx context.Context, cmd ClaimCommand) (ClaimResult, error) {
	uc.lock()
	defer uc.unlock()

	logger := application.ResolveLogger(uc.Logger)
	now := uc.now()

	recipient := strings.TrimSpace(cmd.Recipient)
	caller := strings.TrimSpace(cmd.Caller)
	if recipient == "" {
		return ClaimResult{}, domainerrors.ErrNotEligible
	}
	if cmd.Amount.IsNegative() {
		return ClaimResult{}, domainerrors.ErrInvalidClaimAmount
	}

	var result ClaimResult
	err := uc.Repo.Atomic(ctx, func(tx ports.Tx) error {
		entry, err := tx.GetEntry(ctx, cmd.EntryID)
		if err != nil {
			return err
		}
		if entry.Refunded {
			return domainerrors.ErrAlreadyRefunded
		}
		if entry.ExpiredAt(now) {
			return domainerrors.ErrExpired
		}
		if !entry.Eligible(recipient) {
			return domainerrors.ErrNotEligible
		}

		entitlement := entry.EntitlementFor(recipient)
		claimed := entry.ClaimedBy(recipient)
		open := entitlement.Sub(claimed)
		if !open.IsPositive() {
			return domainerrors.ErrOverEntitlement
		}

		amount := cmd.Amount
		if amount.IsZero() {
			amount = open
		}
		if amount.GreaterThan(open) {
			return domainerrors.ErrOverEntitlement
		}
		if amount.GreaterThan(entry.Remaining) {
			// Room entries share their pool with sibling deposits but may
			// never distribute past their own contribution.
			return domainerrors.ErrNotEligible
		}

		if entry.Mode == entities.ModeRoom {
			pool := roompool.Service{Store: tx, Logger: uc.Logger}
			if _, err := pool.Draw(ctx, entry.RoomID, entry.Asset.Key(), amount); err != nil {
				if err == roomerrors.ErrInsufficientPool {
					return domainerrors.ErrNotEligible
				}
				return err
			}
		}

		if entry.Claimed == nil {
			entry.Claimed = make(map[string]decimal.Decimal)
		}
		entry.Claimed[recipient] = claimed.Add(amount)
		entry.Remaining = entry.Remaining.Sub(amount)

		reimbursed := decimal.Zero
		if caller != "" && caller != recipient && entry.AllowanceRemaining.IsPositive() && uc.Policy != nil {
			reimbursed = decimal.Min(uc.Policy.Reimburse(entry, amount), entry.AllowanceRemaining)
			if reimbursed.IsNegative() {
				reimbursed = decimal.Zero
			}
			entry.AllowanceRemaining = entry.AllowanceRemaining.Sub(reimbursed)
		}

		entry.UpdatedAt = now
		if err := tx.UpdateEntry(ctx, entry); err != nil {
			return err
		}

		if err := uc.appendEvent(ctx, tx, eventClaimed, entry, map[string]any{
			"entry_id":   entry.ID,
			"asset":      entry.Asset.Key(),
			"recipient":  recipient,
			"caller":     caller,
			"amount":     amount.String(),
			"reimbursed": reimbursed.String(),
			"remaining":  entry.Remaining.String(),
		}); err != nil {
			return err
		}

		pushes := []vaultports.TransferRequest{
			{Party: recipient, Asset: entry.Asset, Amount: amount},
		}
		if reimbursed.IsPositive() {
			pushes = append(pushes, vaultports.TransferRequest{
				Party:  caller,
				Asset:  assets.Native(),
				Amount: reimbursed,
			})
		}
		if err := uc.Vault.PushBatch(ctx, pushes); err != nil {
			return err
		}

		result = ClaimResult{Entry: entry, Paid: amount, Reimbursed: reimbursed}
		return nil
	})
	if err != nil {
		return ClaimResult{}, err
	}

	logger.Info("distribution claimed",
		"event", "ledger_claimed",
		"module", "distribution-core/claims-ledger",
		"layer", "application",
		"entry_id", result.Entry.ID,
		"recipient", recipient,
		"amount", result.Paid.String(),
		"reimbursed", result.Reimbursed.String(),
		"remaining", result.Entry.Remaining.String(),
	)
	return result, nil
}

// ClaimToSender is the post-deadline refund path: the depositor reclaims the
// entry's unclaimed remainder plus any unused gas allowance.
func (uc UseCase) ClaimToSender(ctx context.Context, cmd RefundCommand) (RefundResult, error) {
	uc.lock()
	defer uc.unlock()

	logger := application.ResolveLogger(uc.Logger)
	now := uc.now()
	caller := strings.TrimSpace(cmd.Caller)

	var result RefundResult
	err := uc.Repo.Atomic(ctx, func(tx ports.Tx) error {
		entry, err := tx.GetEntry(ctx, cmd.EntryID)
		if err != nil {
			return err
		}
		if caller == "" || caller != entry.Depositor {
			return domainerrors.ErrNotDepositor
		}
		if entry.Refunded {
			return domainerrors.ErrAlreadyRefunded
		}
		if !entry.ExpiredAt(now) {
			return domainerrors.ErrNotYetExpired
		}

		refund := entry.Remaining
		if entry.Mode == entities.ModeRoom {
			pool := roompool.Service{Store: tx, Logger: uc.Logger}
			balance, err := pool.Balance(ctx, entry.RoomID, entry.Asset.Key())
			if err != nil {
				return err
			}
			// Sibling deposits share the pool; a depositor can only take back
			// what is still pooled.
			refund = decimal.Min(refund, balance)
			if refund.IsPositive() {
				if _, err := pool.Draw(ctx, entry.RoomID, entry.Asset.Key(), refund); err != nil {
					return err
				}
			}
		}

		allowanceReturn := entry.AllowanceRemaining
		entry.Refunded = true
		entry.AllowanceRemaining = decimal.Zero
		entry.UpdatedAt = now
		if err := tx.UpdateEntry(ctx, entry); err != nil {
			return err
		}

		if err := uc.appendEvent(ctx, tx, eventRefunded, entry, map[string]any{
			"entry_id":           entry.ID,
			"asset":              entry.Asset.Key(),
			"depositor":          entry.Depositor,
			"refunded":           refund.String(),
			"allowance_returned": allowanceReturn.String(),
		}); err != nil {
			return err
		}

		var pushes []vaultports.TransferRequest
		if refund.IsPositive() {
			pushes = append(pushes, vaultports.TransferRequest{
				Party:  entry.Depositor,
				Asset:  entry.Asset,
				Amount: refund,
			})
		}
		if allowanceReturn.IsPositive() {
			pushes = append(pushes, vaultports.TransferRequest{
				Party:  entry.Depositor,
				Asset:  assets.Native(),
				Amount: allowanceReturn,
			})
		}
		if err := uc.Vault.PushBatch(ctx, pushes); err != nil {
			return err
		}

		result = RefundResult{Entry: entry, Refunded: refund, AllowanceReturned: allowanceReturn}
		return nil
	})
	if err != nil {
		return RefundResult{}, err
	}

	logger.Info("distribution refunded to depositor",
		"event", "ledger_refunded",
		"module", "distribution-core/claims-ledger",
		"layer", "application",
		"entry_id", result.Entry.ID,
		"depositor", result.Entry.Depositor,
		"refunded", result.Refunded.String(),
		"allowance_returned", result.AllowanceReturned.String(),
	)
	return result, nil
}

// feeFor withholds floor(total × bps / 10000); the truncation remainder stays
// with the depositor.
func (uc UseCase) feeFor(ctx context.Context, total decimal.Decimal) (decimal.Decimal, error) {
	bps, err := uc.Rates.FeeRateBps(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if bps <= 0 {
		return decimal.Zero, nil
	}
	return total.Mul(decimal.NewFromInt(bps)).Div(decimal.NewFromInt(feeRateDenominatorBps)).Floor(), nil
}

// checkAttachedValue enforces the exact-value rule: native deposits attach
// total + fee + allowance; token deposits pull the token amount through the
// allowance pattern and attach only the native gas allowance.
func (uc UseCase) checkAttachedValue(asset assets.Asset, total, fee, allowance, attached decimal.Decimal) error {
	required := allowance
	if !asset.IsToken() {
		required = total.Add(fee).Add(allowance)
	}
	if !attached.Equal(required) {
		return domainerrors.ErrValueMismatch
	}
	return nil
}

func depositPulls(entry entities.Entry) []vaultports.TransferRequest {
	if entry.Asset.IsToken() {
		pulls := []vaultports.TransferRequest{
			{Party: entry.Depositor, Asset: entry.Asset, Amount: entry.Total.Add(entry.Fee)},
		}
		if entry.GasAllowance.IsPositive() {
			pulls = append(pulls, vaultports.TransferRequest{
				Party:  entry.Depositor,
				Asset:  assets.Native(),
				Amount: entry.GasAllowance,
			})
		}
		return pulls
	}
	return []vaultports.TransferRequest{
		{
			Party:  entry.Depositor,
			Asset:  entry.Asset,
			Amount: entry.Total.Add(entry.Fee).Add(entry.GasAllowance),
		},
	}
}

func (uc UseCase) appendEvent(ctx context.Context, tx ports.Tx, eventType string, entry entities.Entry, data map[string]any) error {
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return tx.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          strings.TrimSpace(eventID),
		EventType:        eventType,
		OccurredAt:       uc.now(),
		SourceService:    "claims-ledger",
		TraceID:          strings.TrimSpace(eventID),
		SchemaVersion:    1,
		PartitionKeyPath: "entry_id",
		PartitionKey:     strconv.FormatUint(entry.ID, 10),
		Data:             payload,
	})
}

func normalizeRecipients(recipients []string) []string {
	normalized := make([]string, 0, len(recipients))
	for _, recipient := range recipients {
		recipient = strings.TrimSpace(recipient)
		if recipient == "" {
			return nil
		}
		normalized = append(normalized, recipient)
	}
	return normalized
}

func (uc UseCase) now() time.Time {
	if uc.Clock == nil {
		return time.Now().UTC()
	}
	return uc.Clock.Now().UTC()
}

func (uc UseCase) lock() {
	if uc.Serial != nil {
		uc.Serial.Lock()
	}
}

func (uc UseCase) unlock() {
	if uc.Serial != nil {
		uc.Serial.Unlock()
	}
}
