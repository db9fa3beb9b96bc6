package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	vaultmemory "tokendist/contexts/distribution-core/asset-vault/adapters/memory"
	vaultapp "tokendist/contexts/distribution-core/asset-vault/application"
	assets "tokendist/contexts/distribution-core/asset-vault/domain/entities"
	vaulterrors "tokendist/contexts/distribution-core/asset-vault/domain/errors"
	"tokendist/contexts/distribution-core/claims-ledger/adapters/memory"
	domainerrors "tokendist/contexts/distribution-core/claims-ledger/domain/errors"
)

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time {
	return c.now
}

type fixture struct {
	uc    UseCase
	store *memory.Store
	bank  *vaultmemory.Bank
	clock *stubClock
}

func newFixture(t *testing.T, feeBps int64) *fixture {
	t.Helper()

	store := memory.NewStore()
	if err := store.SaveFeeRateBps(context.Background(), feeBps); err != nil {
		t.Fatalf("seed fee rate: %v", err)
	}
	bank := vaultmemory.NewBank()
	clock := &stubClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	return &fixture{
		uc: UseCase{
			Repo:   store,
			Vault:  vaultapp.Service{Bank: bank},
			Rates:  store,
			Policy: EvenSplitReimbursement{},
			Clock:  clock,
			IDGen:  store,
		},
		store: store,
		bank:  bank,
		clock: clock,
	}
}

func dec(value string) decimal.Decimal {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return amount
}

func (f *fixture) directDeposit(t *testing.T, depositor string, recipients []string, perShare, allowance string) uint64 {
	t.Helper()

	total := dec(perShare).Mul(decimal.NewFromInt(int64(len(recipients))))
	fee, err := f.uc.feeFor(context.Background(), total)
	if err != nil {
		t.Fatalf("fee: %v", err)
	}
	attached := total.Add(fee).Add(dec(allowance))
	f.bank.Credit(depositor, assets.Native(), attached)

	entry, err := f.uc.DepositDirect(context.Background(), DepositDirectCommand{
		Depositor:          depositor,
		Asset:              assets.Native(),
		Recipients:         recipients,
		AmountPerRecipient: dec(perShare),
		Deadline:           f.clock.now.Add(24 * time.Hour),
		GasAllowance:       dec(allowance),
		AttachedValue:      attached,
	})
	if err != nil {
		t.Fatalf("direct deposit failed: %v", err)
	}
	return entry.ID
}

func TestDepositDirectWithholdsFloorFee(t *testing.T) {
	f := newFixture(t, 250)
	f.bank.Credit("alice", assets.Native(), dec("1000"))

	// total 333, 2.5% = 8.325, floor to 8
	entry, err := f.uc.DepositDirect(context.Background(), DepositDirectCommand{
		Depositor:          "alice",
		Asset:              assets.Native(),
		Recipients:         []string{"bob"},
		AmountPerRecipient: dec("333"),
		Deadline:           f.clock.now.Add(time.Hour),
		GasAllowance:       decimal.Zero,
		AttachedValue:      dec("341"),
	})
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if !entry.Fee.Equal(dec("8")) {
		t.Fatalf("expected fee 8, got %s", entry.Fee)
	}
	if !entry.Total.Equal(dec("333")) {
		t.Fatalf("expected total 333, got %s", entry.Total)
	}

	feeBalance, err := f.store.FeeBalance(context.Background(), assets.Native().Key())
	if err != nil {
		t.Fatalf("fee balance: %v", err)
	}
	if !feeBalance.Equal(dec("8")) {
		t.Fatalf("expected accrued fee 8, got %s", feeBalance)
	}
	if !f.bank.Balance("alice", assets.Native()).Equal(dec("659")) {
		t.Fatalf("expected alice debited to 659, got %s", f.bank.Balance("alice", assets.Native()))
	}
}

func TestDepositDirectRejectsValueMismatch(t *testing.T) {
	f := newFixture(t, 0)
	f.bank.Credit("alice", assets.Native(), dec("500"))

	_, err := f.uc.DepositDirect(context.Background(), DepositDirectCommand{
		Depositor:          "alice",
		Asset:              assets.Native(),
		Recipients:         []string{"bob", "carol"},
		AmountPerRecipient: dec("100"),
		Deadline:           f.clock.now.Add(time.Hour),
		GasAllowance:       dec("10"),
		AttachedValue:      dec("200"),
	})
	if !errors.Is(err, domainerrors.ErrValueMismatch) {
		t.Fatalf("expected ErrValueMismatch, got %v", err)
	}
}

func TestDepositDirectRejectsZeroDeadline(t *testing.T) {
	f := newFixture(t, 0)
	f.bank.Credit("alice", assets.Native(), dec("100"))

	_, err := f.uc.DepositDirect(context.Background(), DepositDirectCommand{
		Depositor:          "alice",
		Asset:              assets.Native(),
		Recipients:         []string{"bob"},
		AmountPerRecipient: dec("100"),
		AttachedValue:      dec("100"),
	})
	if !errors.Is(err, domainerrors.ErrInvalidDeadline) {
		t.Fatalf("expected ErrInvalidDeadline, got %v", err)
	}
}

func TestPastDeadlineDepositImmediatelyRefundable(t *testing.T) {
	f := newFixture(t, 0)
	f.bank.Credit("alice", assets.Native(), dec("100"))

	// an already-expired entry is accepted: born unclaimable, instantly
	// reclaimable by the depositor
	entry, err := f.uc.DepositDirect(context.Background(), DepositDirectCommand{
		Depositor:          "alice",
		Asset:              assets.Native(),
		Recipients:         []string{"bob"},
		AmountPerRecipient: dec("100"),
		Deadline:           f.clock.now.Add(-time.Hour),
		AttachedValue:      dec("100"),
	})
	if err != nil {
		t.Fatalf("past-deadline deposit failed: %v", err)
	}

	if _, err := f.uc.Claim(context.Background(), ClaimCommand{
		EntryID:   entry.ID,
		Recipient: "bob",
		Caller:    "bob",
	}); !errors.Is(err, domainerrors.ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}

	result, err := f.uc.ClaimToSender(context.Background(), RefundCommand{EntryID: entry.ID, Caller: "alice"})
	if err != nil {
		t.Fatalf("immediate refund failed: %v", err)
	}
	if !result.Refunded.Equal(dec("100")) {
		t.Fatalf("expected full 100 refunded, got %s", result.Refunded)
	}
	if !f.bank.Balance("alice", assets.Native()).Equal(dec("100")) {
		t.Fatalf("expected alice whole again, got %s", f.bank.Balance("alice", assets.Native()))
	}
}

func TestPastDeadlineRoomDepositImmediatelyRefundable(t *testing.T) {
	f := newFixture(t, 0)
	f.bank.Credit("alice", assets.Native(), dec("100"))

	entry, err := f.uc.DepositRoom(context.Background(), DepositRoomCommand{
		Depositor:      "alice",
		Asset:          assets.Native(),
		RoomID:         "room-9",
		AmountPerShare: dec("50"),
		ShareCount:     2,
		Deadline:       f.clock.now.Add(-time.Minute),
		AttachedValue:  dec("100"),
	})
	if err != nil {
		t.Fatalf("past-deadline room deposit failed: %v", err)
	}

	result, err := f.uc.ClaimToSender(context.Background(), RefundCommand{EntryID: entry.ID, Caller: "alice"})
	if err != nil {
		t.Fatalf("immediate refund failed: %v", err)
	}
	if !result.Refunded.Equal(dec("100")) {
		t.Fatalf("expected 100 drawn back from the pool, got %s", result.Refunded)
	}

	balance, err := f.store.RoomBalance(context.Background(), "room-9", assets.Native().Key())
	if err != nil {
		t.Fatalf("room balance: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected pool emptied, got %s", balance)
	}
}

func TestDepositTokenPullsThroughAllowance(t *testing.T) {
	f := newFixture(t, 100)
	token := assets.Token("0xTOKEN")
	f.bank.Credit("alice", token, dec("1000"))
	f.bank.Credit("alice", assets.Native(), dec("20"))
	f.bank.Approve("alice", "0xTOKEN", dec("202"))

	// total 200, 1% fee 2, gas allowance 20 attached in native
	entry, err := f.uc.DepositDirect(context.Background(), DepositDirectCommand{
		Depositor:          "alice",
		Asset:              token,
		Recipients:         []string{"bob", "carol"},
		AmountPerRecipient: dec("100"),
		Deadline:           f.clock.now.Add(time.Hour),
		GasAllowance:       dec("20"),
		AttachedValue:      dec("20"),
	})
	if err != nil {
		t.Fatalf("token deposit failed: %v", err)
	}
	if !entry.Fee.Equal(dec("2")) {
		t.Fatalf("expected fee 2, got %s", entry.Fee)
	}
	if !f.bank.Balance("alice", token).Equal(dec("798")) {
		t.Fatalf("expected 798 tokens left, got %s", f.bank.Balance("alice", token))
	}
	if !f.bank.Balance("alice", assets.Native()).Equal(decimal.Zero) {
		t.Fatalf("expected native allowance pulled, got %s", f.bank.Balance("alice", assets.Native()))
	}
}

func TestDepositTokenWithoutApprovalLeavesNoState(t *testing.T) {
	f := newFixture(t, 0)
	token := assets.Token("0xTOKEN")
	f.bank.Credit("alice", token, dec("1000"))

	_, err := f.uc.DepositDirect(context.Background(), DepositDirectCommand{
		Depositor:          "alice",
		Asset:              token,
		Recipients:         []string{"bob"},
		AmountPerRecipient: dec("100"),
		Deadline:           f.clock.now.Add(time.Hour),
		AttachedValue:      decimal.Zero,
	})
	if !errors.Is(err, vaulterrors.ErrAllowanceInsufficient) {
		t.Fatalf("expected ErrAllowanceInsufficient, got %v", err)
	}

	if _, err := f.store.GetEntry(context.Background(), 0); !errors.Is(err, domainerrors.ErrEntryNotFound) {
		t.Fatalf("expected rolled-back entry, got %v", err)
	}
	pending, err := f.store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no outbox rows after rollback, got %d", len(pending))
	}
}

func TestEntryIDsAreSequentialFromZero(t *testing.T) {
	f := newFixture(t, 0)

	first := f.directDeposit(t, "alice", []string{"bob"}, "10", "0")
	second := f.directDeposit(t, "alice", []string{"carol"}, "10", "0")
	if first != 0 || second != 1 {
		t.Fatalf("expected ids 0 and 1, got %d and %d", first, second)
	}
}

func TestClaimDefaultsToFullOpenEntitlement(t *testing.T) {
	f := newFixture(t, 0)
	// bob listed twice: two shares
	entryID := f.directDeposit(t, "alice", []string{"bob", "bob", "carol"}, "100", "0")

	result, err := f.uc.Claim(context.Background(), ClaimCommand{
		EntryID:   entryID,
		Recipient: "bob",
		Caller:    "bob",
	})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if !result.Paid.Equal(dec("200")) {
		t.Fatalf("expected 200 paid for two shares, got %s", result.Paid)
	}
	if !f.bank.Balance("bob", assets.Native()).Equal(dec("200")) {
		t.Fatalf("expected bob credited 200, got %s", f.bank.Balance("bob", assets.Native()))
	}
	if !result.Entry.Remaining.Equal(dec("100")) {
		t.Fatalf("expected 100 remaining, got %s", result.Entry.Remaining)
	}
}

func TestClaimPartialThenOverEntitlement(t *testing.T) {
	f := newFixture(t, 0)
	entryID := f.directDeposit(t, "alice", []string{"bob"}, "100", "0")

	if _, err := f.uc.Claim(context.Background(), ClaimCommand{
		EntryID:   entryID,
		Recipient: "bob",
		Caller:    "bob",
		Amount:    dec("60"),
	}); err != nil {
		t.Fatalf("partial claim failed: %v", err)
	}

	_, err := f.uc.Claim(context.Background(), ClaimCommand{
		EntryID:   entryID,
		Recipient: "bob",
		Caller:    "bob",
		Amount:    dec("41"),
	})
	if !errors.Is(err, domainerrors.ErrOverEntitlement) {
		t.Fatalf("expected ErrOverEntitlement, got %v", err)
	}

	result, err := f.uc.Claim(context.Background(), ClaimCommand{
		EntryID:   entryID,
		Recipient: "bob",
		Caller:    "bob",
	})
	if err != nil {
		t.Fatalf("closing claim failed: %v", err)
	}
	if !result.Paid.Equal(dec("40")) {
		t.Fatalf("expected remaining 40 paid, got %s", result.Paid)
	}
}

func TestClaimRejectsUnlistedRecipient(t *testing.T) {
	f := newFixture(t, 0)
	entryID := f.directDeposit(t, "alice", []string{"bob"}, "100", "0")

	_, err := f.uc.Claim(context.Background(), ClaimCommand{
		EntryID:   entryID,
		Recipient: "mallory",
		Caller:    "mallory",
	})
	if !errors.Is(err, domainerrors.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}
}

func TestClaimAllowedAtExactDeadline(t *testing.T) {
	f := newFixture(t, 0)
	entryID := f.directDeposit(t, "alice", []string{"bob"}, "100", "0")

	f.clock.now = f.clock.now.Add(24 * time.Hour)
	if _, err := f.uc.Claim(context.Background(), ClaimCommand{
		EntryID:   entryID,
		Recipient: "bob",
		Caller:    "bob",
	}); err != nil {
		t.Fatalf("claim at deadline should succeed, got %v", err)
	}
}

func TestClaimRejectedAfterDeadline(t *testing.T) {
	f := newFixture(t, 0)
	entryID := f.directDeposit(t, "alice", []string{"bob"}, "100", "0")

	f.clock.now = f.clock.now.Add(24*time.Hour + time.Second)
	_, err := f.uc.Claim(context.Background(), ClaimCommand{
		EntryID:   entryID,
		Recipient: "bob",
		Caller:    "bob",
	})
	if !errors.Is(err, domainerrors.ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestRelayerClaimReimbursedFromGasAllowance(t *testing.T) {
	f := newFixture(t, 0)
	entryID := f.directDeposit(t, "alice", []string{"bob", "carol"}, "100", "10")

	result, err := f.uc.Claim(context.Background(), ClaimCommand{
		EntryID:   entryID,
		Recipient: "bob",
		Caller:    "relayer",
	})
	if err != nil {
		t.Fatalf("relayed claim failed: %v", err)
	}
	// allowance 10 split across 2 shares
	if !result.Reimbursed.Equal(dec("5")) {
		t.Fatalf("expected reimbursement 5, got %s", result.Reimbursed)
	}
	if !f.bank.Balance("relayer", assets.Native()).Equal(dec("5")) {
		t.Fatalf("expected relayer credited 5, got %s", f.bank.Balance("relayer", assets.Native()))
	}
	if !f.bank.Balance("bob", assets.Native()).Equal(dec("100")) {
		t.Fatalf("expected bob credited 100, got %s", f.bank.Balance("bob", assets.Native()))
	}
	if !result.Entry.AllowanceRemaining.Equal(dec("5")) {
		t.Fatalf("expected 5 allowance left, got %s", result.Entry.AllowanceRemaining)
	}
}

func TestPartialRelayedClaimReimbursedProRata(t *testing.T) {
	f := newFixture(t, 0)
	entryID := f.directDeposit(t, "alice", []string{"bob", "carol"}, "100", "10")

	// half a share moved: half the per-share allowance slice, floored
	// (10 / 2 shares = 5 per share, x 50/100 = 2.5 -> 2)
	result, err := f.uc.Claim(context.Background(), ClaimCommand{
		EntryID:   entryID,
		Recipient: "bob",
		Caller:    "relayer",
		Amount:    dec("50"),
	})
	if err != nil {
		t.Fatalf("partial relayed claim failed: %v", err)
	}
	if !result.Reimbursed.Equal(dec("2")) {
		t.Fatalf("expected pro-rated reimbursement 2, got %s", result.Reimbursed)
	}
	if !result.Entry.AllowanceRemaining.Equal(dec("8")) {
		t.Fatalf("expected 8 allowance left, got %s", result.Entry.AllowanceRemaining)
	}
}

func TestSelfClaimNotReimbursed(t *testing.T) {
	f := newFixture(t, 0)
	entryID := f.directDeposit(t, "alice", []string{"bob"}, "100", "10")

	result, err := f.uc.Claim(context.Background(), ClaimCommand{
		EntryID:   entryID,
		Recipient: "bob",
		Caller:    "bob",
	})
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if !result.Reimbursed.IsZero() {
		t.Fatalf("expected no reimbursement for self claim, got %s", result.Reimbursed)
	}
	if !result.Entry.AllowanceRemaining.Equal(dec("10")) {
		t.Fatalf("expected allowance untouched, got %s", result.Entry.AllowanceRemaining)
	}
}

func TestRoomClaimOpenToAnyoneUpToPerShare(t *testing.T) {
	f := newFixture(t, 0)
	f.bank.Credit("alice", assets.Native(), dec("100"))

	entry, err := f.uc.DepositRoom(context.Background(), DepositRoomCommand{
		Depositor:      "alice",
		Asset:          assets.Native(),
		RoomID:         "room-1",
		AmountPerShare: dec("50"),
		ShareCount:     2,
		Deadline:       f.clock.now.Add(time.Hour),
		AttachedValue:  dec("100"),
	})
	if err != nil {
		t.Fatalf("room deposit failed: %v", err)
	}

	result, err := f.uc.Claim(context.Background(), ClaimCommand{
		EntryID:   entry.ID,
		Recipient: "stranger",
		Caller:    "stranger",
	})
	if err != nil {
		t.Fatalf("room claim failed: %v", err)
	}
	if !result.Paid.Equal(dec("50")) {
		t.Fatalf("expected per-share 50 paid, got %s", result.Paid)
	}

	_, err = f.uc.Claim(context.Background(), ClaimCommand{
		EntryID:   entry.ID,
		Recipient: "stranger",
		Caller:    "stranger",
	})
	if !errors.Is(err, domainerrors.ErrOverEntitlement) {
		t.Fatalf("expected ErrOverEntitlement on repeat room claim, got %v", err)
	}

	balance, err := f.store.RoomBalance(context.Background(), "room-1", assets.Native().Key())
	if err != nil {
		t.Fatalf("room balance: %v", err)
	}
	if !balance.Equal(dec("50")) {
		t.Fatalf("expected pool drained to 50, got %s", balance)
	}
}

func TestRoomDepositsMergeIntoSharedPool(t *testing.T) {
	f := newFixture(t, 0)
	f.bank.Credit("alice", assets.Native(), dec("100"))
	f.bank.Credit("dave", assets.Native(), dec("100"))

	for _, depositor := range []string{"alice", "dave"} {
		if _, err := f.uc.DepositRoom(context.Background(), DepositRoomCommand{
			Depositor:      depositor,
			Asset:          assets.Native(),
			RoomID:         "room-2",
			AmountPerShare: dec("100"),
			ShareCount:     1,
			Deadline:       f.clock.now.Add(time.Hour),
			AttachedValue:  dec("100"),
		}); err != nil {
			t.Fatalf("room deposit for %s failed: %v", depositor, err)
		}
	}

	balance, err := f.store.RoomBalance(context.Background(), "room-2", assets.Native().Key())
	if err != nil {
		t.Fatalf("room balance: %v", err)
	}
	if !balance.Equal(dec("200")) {
		t.Fatalf("expected pooled 200, got %s", balance)
	}
}

func TestRefundRequiresExpiredEntryAndDepositor(t *testing.T) {
	f := newFixture(t, 0)
	entryID := f.directDeposit(t, "alice", []string{"bob", "carol"}, "100", "10")

	if _, err := f.uc.ClaimToSender(context.Background(), RefundCommand{EntryID: entryID, Caller: "alice"}); !errors.Is(err, domainerrors.ErrNotYetExpired) {
		t.Fatalf("expected ErrNotYetExpired before deadline, got %v", err)
	}

	f.clock.now = f.clock.now.Add(25 * time.Hour)
	if _, err := f.uc.ClaimToSender(context.Background(), RefundCommand{EntryID: entryID, Caller: "mallory"}); !errors.Is(err, domainerrors.ErrNotDepositor) {
		t.Fatalf("expected ErrNotDepositor, got %v", err)
	}

	result, err := f.uc.ClaimToSender(context.Background(), RefundCommand{EntryID: entryID, Caller: "alice"})
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if !result.Refunded.Equal(dec("200")) {
		t.Fatalf("expected 200 refunded, got %s", result.Refunded)
	}
	if !result.AllowanceReturned.Equal(dec("10")) {
		t.Fatalf("expected 10 allowance returned, got %s", result.AllowanceReturned)
	}
	if !f.bank.Balance("alice", assets.Native()).Equal(dec("210")) {
		t.Fatalf("expected alice credited 210, got %s", f.bank.Balance("alice", assets.Native()))
	}

	if _, err := f.uc.ClaimToSender(context.Background(), RefundCommand{EntryID: entryID, Caller: "alice"}); !errors.Is(err, domainerrors.ErrAlreadyRefunded) {
		t.Fatalf("expected ErrAlreadyRefunded on repeat, got %v", err)
	}
}

func TestRefundReturnsOnlyUnclaimedRemainder(t *testing.T) {
	f := newFixture(t, 0)
	entryID := f.directDeposit(t, "alice", []string{"bob", "carol"}, "100", "0")

	if _, err := f.uc.Claim(context.Background(), ClaimCommand{
		EntryID:   entryID,
		Recipient: "bob",
		Caller:    "bob",
	}); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	f.clock.now = f.clock.now.Add(25 * time.Hour)
	result, err := f.uc.ClaimToSender(context.Background(), RefundCommand{EntryID: entryID, Caller: "alice"})
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if !result.Refunded.Equal(dec("100")) {
		t.Fatalf("expected unclaimed 100 refunded, got %s", result.Refunded)
	}
}

func TestClaimRejectedAfterRefund(t *testing.T) {
	f := newFixture(t, 0)
	entryID := f.directDeposit(t, "alice", []string{"bob"}, "100", "0")

	f.clock.now = f.clock.now.Add(25 * time.Hour)
	if _, err := f.uc.ClaimToSender(context.Background(), RefundCommand{EntryID: entryID, Caller: "alice"}); err != nil {
		t.Fatalf("refund failed: %v", err)
	}

	_, err := f.uc.Claim(context.Background(), ClaimCommand{
		EntryID:   entryID,
		Recipient: "bob",
		Caller:    "bob",
	})
	if !errors.Is(err, domainerrors.ErrAlreadyRefunded) {
		t.Fatalf("expected ErrAlreadyRefunded, got %v", err)
	}
}

func TestFailedPayoutRollsBackClaim(t *testing.T) {
	f := newFixture(t, 0)
	entryID := f.directDeposit(t, "alice", []string{"bob"}, "100", "0")
	f.bank.SetRejecting("bob", true)

	_, err := f.uc.Claim(context.Background(), ClaimCommand{
		EntryID:   entryID,
		Recipient: "bob",
		Caller:    "bob",
	})
	if !errors.Is(err, vaulterrors.ErrTransferRejected) {
		t.Fatalf("expected ErrTransferRejected, got %v", err)
	}

	entry, err := f.store.GetEntry(context.Background(), entryID)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if !entry.Remaining.Equal(dec("100")) {
		t.Fatalf("expected remaining restored to 100, got %s", entry.Remaining)
	}
	if len(entry.Claimed) != 0 {
		t.Fatalf("expected no recorded claims after rollback, got %v", entry.Claimed)
	}
}

func TestDepositEmitsOutboxEvent(t *testing.T) {
	f := newFixture(t, 0)
	f.directDeposit(t, "alice", []string{"bob"}, "100", "0")

	pending, err := f.store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one pending event, got %d", len(pending))
	}
	if pending[0].EventType != "distribution.deposited" {
		t.Fatalf("unexpected event type %s", pending[0].EventType)
	}
	if pending[0].PartitionKey != "0" {
		t.Fatalf("expected partition key 0, got %s", pending[0].PartitionKey)
	}
}
