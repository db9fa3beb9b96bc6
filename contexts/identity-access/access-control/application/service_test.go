package application

import (
	"context"
	"errors"
	"testing"

	"tokendist/contexts/identity-access/access-control/domain/entities"
	domainerrors "tokendist/contexts/identity-access/access-control/domain/errors"
)

type mapStore struct {
	roles entities.Roles
	found bool
}

func (s *mapStore) GetRoles(_ context.Context) (entities.Roles, bool, error) {
	return s.roles, s.found, nil
}

func (s *mapStore) SaveRoles(_ context.Context, roles entities.Roles) error {
	s.roles = roles
	s.found = true
	return nil
}

func TestInitializeSetsOwnerAsWithdrawer(t *testing.T) {
	svc := Service{Store: &mapStore{}}

	roles, err := svc.Initialize(context.Background(), "alice")
	if err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if roles.Owner != "alice" || roles.Withdrawer != "alice" {
		t.Fatalf("expected alice to hold both roles, got %+v", roles)
	}

	if _, err := svc.Initialize(context.Background(), "bob"); !errors.Is(err, domainerrors.ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestInitializeRejectsBlankOwner(t *testing.T) {
	svc := Service{Store: &mapStore{}}

	if _, err := svc.Initialize(context.Background(), "  "); !errors.Is(err, domainerrors.ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestTransferOwnershipOwnerOnly(t *testing.T) {
	svc := Service{Store: &mapStore{}}
	if _, err := svc.Initialize(context.Background(), "alice"); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	if _, err := svc.TransferOwnership(context.Background(), "mallory", "mallory"); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	roles, err := svc.TransferOwnership(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if roles.Owner != "bob" {
		t.Fatalf("expected bob as owner, got %s", roles.Owner)
	}
	// withdrawship does not move with ownership
	if roles.Withdrawer != "alice" {
		t.Fatalf("expected alice to stay withdrawer, got %s", roles.Withdrawer)
	}

	if err := svc.RequireOwner(context.Background(), "alice"); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected old owner rejected, got %v", err)
	}
	if err := svc.RequireOwner(context.Background(), "bob"); err != nil {
		t.Fatalf("expected new owner accepted, got %v", err)
	}
}

func TestTransferWithdrawshipOwnerOnly(t *testing.T) {
	svc := Service{Store: &mapStore{}}
	if _, err := svc.Initialize(context.Background(), "alice"); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	// the withdrawer itself cannot reassign the role
	if _, err := svc.TransferWithdrawship(context.Background(), "alice", "carol"); err != nil {
		t.Fatalf("owner transfer failed: %v", err)
	}
	if _, err := svc.TransferWithdrawship(context.Background(), "carol", "mallory"); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-owner, got %v", err)
	}

	if err := svc.RequireWithdrawer(context.Background(), "carol"); err != nil {
		t.Fatalf("expected carol accepted as withdrawer, got %v", err)
	}
	if err := svc.RequireWithdrawer(context.Background(), "alice"); !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected alice rejected as withdrawer, got %v", err)
	}
}

func TestRoleChecksBeforeInitialization(t *testing.T) {
	svc := Service{Store: &mapStore{}}

	if err := svc.RequireOwner(context.Background(), "alice"); !errors.Is(err, domainerrors.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := svc.Roles(context.Background()); !errors.Is(err, domainerrors.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}
