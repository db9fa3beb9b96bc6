package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"tokendist/contexts/identity-access/access-control/domain/entities"
	domainerrors "tokendist/contexts/identity-access/access-control/domain/errors"
	"tokendist/contexts/identity-access/access-control/ports"
)

type Service struct {
	Store  ports.Store
	Clock  ports.Clock
	Logger *slog.Logger
}

// Initialize runs exactly once per deployed instance. The owner address also
// becomes the initial withdrawer until the owner transfers withdrawship.
func (s Service) Initialize(ctx context.Context, owner string) (entities.Roles, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return entities.Roles{}, domainerrors.ErrInvalidAddress
	}

	_, found, err := s.Store.GetRoles(ctx)
	if err != nil {
		return entities.Roles{}, err
	}
	if found {
		return entities.Roles{}, domainerrors.ErrAlreadyInitialized
	}

	now := s.now()
	roles := entities.Roles{
		Owner:         owner,
		Withdrawer:    owner,
		InitializedAt: now,
		UpdatedAt:     now,
	}
	if err := s.Store.SaveRoles(ctx, roles); err != nil {
		return entities.Roles{}, err
	}

	resolveLogger(s.Logger).Info("ledger roles initialized",
		"event", "access_control_initialized",
		"module", "identity-access/access-control",
		"layer", "application",
		"owner", owner,
	)
	return roles, nil
}

func (s Service) TransferOwnership(ctx context.Context, caller string, newOwner string) (entities.Roles, error) {
	newOwner = strings.TrimSpace(newOwner)
	if newOwner == "" {
		return entities.Roles{}, domainerrors.ErrInvalidAddress
	}
	roles, err := s.requireRole(ctx, caller, roleOwner)
	if err != nil {
		return entities.Roles{}, err
	}

	roles.Owner = newOwner
	roles.UpdatedAt = s.now()
	if err := s.Store.SaveRoles(ctx, roles); err != nil {
		return entities.Roles{}, err
	}

	resolveLogger(s.Logger).Info("ledger ownership transferred",
		"event", "access_control_ownership_transferred",
		"module", "identity-access/access-control",
		"layer", "application",
		"owner", newOwner,
	)
	return roles, nil
}

func (s Service) TransferWithdrawship(ctx context.Context, caller string, newWithdrawer string) (entities.Roles, error) {
	newWithdrawer = strings.TrimSpace(newWithdrawer)
	if newWithdrawer == "" {
		return entities.Roles{}, domainerrors.ErrInvalidAddress
	}
	roles, err := s.requireRole(ctx, caller, roleOwner)
	if err != nil {
		return entities.Roles{}, err
	}

	roles.Withdrawer = newWithdrawer
	roles.UpdatedAt = s.now()
	if err := s.Store.SaveRoles(ctx, roles); err != nil {
		return entities.Roles{}, err
	}

	resolveLogger(s.Logger).Info("ledger withdrawship transferred",
		"event", "access_control_withdrawship_transferred",
		"module", "identity-access/access-control",
		"layer", "application",
		"withdrawer", newWithdrawer,
	)
	return roles, nil
}

func (s Service) RequireOwner(ctx context.Context, caller string) error {
	_, err := s.requireRole(ctx, caller, roleOwner)
	return err
}

func (s Service) RequireWithdrawer(ctx context.Context, caller string) error {
	_, err := s.requireRole(ctx, caller, roleWithdrawer)
	return err
}

func (s Service) Roles(ctx context.Context) (entities.Roles, error) {
	roles, found, err := s.Store.GetRoles(ctx)
	if err != nil {
		return entities.Roles{}, err
	}
	if !found {
		return entities.Roles{}, domainerrors.ErrNotInitialized
	}
	return roles, nil
}

type role string

const (
	roleOwner      role = "owner"
	roleWithdrawer role = "withdrawer"
)

func (s Service) requireRole(ctx context.Context, caller string, want role) (entities.Roles, error) {
	caller = strings.TrimSpace(caller)
	roles, err := s.Roles(ctx)
	if err != nil {
		return entities.Roles{}, err
	}

	holder := roles.Owner
	if want == roleWithdrawer {
		holder = roles.Withdrawer
	}
	if caller == "" || caller != holder {
		resolveLogger(s.Logger).Warn("privileged call rejected",
			"event", "access_control_unauthorized",
			"module", "identity-access/access-control",
			"layer", "application",
			"caller", caller,
			"role", string(want),
		)
		return entities.Roles{}, domainerrors.ErrUnauthorized
	}
	return roles, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
