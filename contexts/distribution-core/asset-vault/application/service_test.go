package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"tokendist/contexts/distribution-core/asset-vault/adapters/memory"
	"tokendist/contexts/distribution-core/asset-vault/domain/entities"
	domainerrors "tokendist/contexts/distribution-core/asset-vault/domain/errors"
	"tokendist/contexts/distribution-core/asset-vault/ports"
)

func dec(value string) decimal.Decimal {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return amount
}

func TestPullFromMovesFundsIntoCustody(t *testing.T) {
	bank := memory.NewBank()
	bank.Credit("alice", entities.Native(), dec("100"))
	svc := Service{Bank: bank}

	if err := svc.PullFrom(context.Background(), "alice", entities.Native(), dec("40")); err != nil {
		t.Fatalf("pull failed: %v", err)
	}
	if !bank.Balance("alice", entities.Native()).Equal(dec("60")) {
		t.Fatalf("expected 60 left, got %s", bank.Balance("alice", entities.Native()))
	}
	custody, err := svc.CustodyBalance(context.Background(), entities.Native())
	if err != nil {
		t.Fatalf("custody balance: %v", err)
	}
	if !custody.Equal(dec("40")) {
		t.Fatalf("expected custody 40, got %s", custody)
	}
}

func TestTokenPullConsumesAllowance(t *testing.T) {
	bank := memory.NewBank()
	token := entities.Token("0xT")
	bank.Credit("alice", token, dec("100"))
	svc := Service{Bank: bank}

	if err := svc.PullFrom(context.Background(), "alice", token, dec("50")); !errors.Is(err, domainerrors.ErrAllowanceInsufficient) {
		t.Fatalf("expected ErrAllowanceInsufficient without approval, got %v", err)
	}

	bank.Approve("alice", "0xT", dec("50"))
	if err := svc.PullFrom(context.Background(), "alice", token, dec("50")); err != nil {
		t.Fatalf("approved pull failed: %v", err)
	}
	if err := svc.PullFrom(context.Background(), "alice", token, dec("1")); !errors.Is(err, domainerrors.ErrAllowanceInsufficient) {
		t.Fatalf("expected allowance spent, got %v", err)
	}
}

func TestZeroAmountTransfersAreNoOps(t *testing.T) {
	bank := memory.NewBank()
	svc := Service{Bank: bank}

	if err := svc.PullFrom(context.Background(), "alice", entities.Native(), decimal.Zero); err != nil {
		t.Fatalf("zero pull should succeed: %v", err)
	}
	if err := svc.PushTo(context.Background(), "alice", entities.Native(), decimal.Zero); err != nil {
		t.Fatalf("zero push should succeed: %v", err)
	}
}

func TestNegativeAmountRejected(t *testing.T) {
	svc := Service{Bank: memory.NewBank()}

	err := svc.PullFrom(context.Background(), "alice", entities.Native(), dec("-1"))
	if !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestInvalidPartyOrAssetRejected(t *testing.T) {
	svc := Service{Bank: memory.NewBank()}

	if err := svc.PullFrom(context.Background(), "  ", entities.Native(), dec("1")); !errors.Is(err, domainerrors.ErrInvalidAsset) {
		t.Fatalf("expected ErrInvalidAsset for blank party, got %v", err)
	}
	if err := svc.PullFrom(context.Background(), "alice", entities.Asset{}, dec("1")); !errors.Is(err, domainerrors.ErrInvalidAsset) {
		t.Fatalf("expected ErrInvalidAsset for zero asset, got %v", err)
	}
}

func TestPullBatchUnwindsOnFailure(t *testing.T) {
	bank := memory.NewBank()
	token := entities.Token("0xT")
	bank.Credit("alice", entities.Native(), dec("100"))
	bank.Credit("alice", token, dec("100"))
	svc := Service{Bank: bank}

	// second pull fails on a missing token approval; first pull must be undone
	err := svc.PullBatch(context.Background(), []ports.TransferRequest{
		{Party: "alice", Asset: entities.Native(), Amount: dec("100")},
		{Party: "alice", Asset: token, Amount: dec("100")},
	})
	if !errors.Is(err, domainerrors.ErrAllowanceInsufficient) {
		t.Fatalf("expected ErrAllowanceInsufficient, got %v", err)
	}
	if !bank.Balance("alice", entities.Native()).Equal(dec("100")) {
		t.Fatalf("expected native restored to 100, got %s", bank.Balance("alice", entities.Native()))
	}
	custody, _ := bank.CustodyBalance(context.Background(), entities.Native())
	if !custody.IsZero() {
		t.Fatalf("expected custody unwound to zero, got %s", custody)
	}
}

func TestPushBatchUnwindsOnFailure(t *testing.T) {
	bank := memory.NewBank()
	bank.Credit("alice", entities.Native(), dec("100"))
	svc := Service{Bank: bank}

	if err := svc.PullFrom(context.Background(), "alice", entities.Native(), dec("100")); err != nil {
		t.Fatalf("seed custody: %v", err)
	}
	bank.SetRejecting("carol", true)

	err := svc.PushBatch(context.Background(), []ports.TransferRequest{
		{Party: "bob", Asset: entities.Native(), Amount: dec("60")},
		{Party: "carol", Asset: entities.Native(), Amount: dec("40")},
	})
	if !errors.Is(err, domainerrors.ErrTransferRejected) {
		t.Fatalf("expected ErrTransferRejected, got %v", err)
	}
	if !bank.Balance("bob", entities.Native()).IsZero() {
		t.Fatalf("expected bob's push unwound, got %s", bank.Balance("bob", entities.Native()))
	}
	custody, _ := bank.CustodyBalance(context.Background(), entities.Native())
	if !custody.Equal(dec("100")) {
		t.Fatalf("expected custody back at 100, got %s", custody)
	}
}

func TestPushBeyondCustodyRejected(t *testing.T) {
	bank := memory.NewBank()
	svc := Service{Bank: bank}

	err := svc.PushTo(context.Background(), "bob", entities.Native(), dec("1"))
	if !errors.Is(err, domainerrors.ErrInsufficientCustody) {
		t.Fatalf("expected ErrInsufficientCustody, got %v", err)
	}
}
