package ports

import (
	"context"
	"time"

	"tokendist/contexts/identity-access/access-control/domain/entities"
)

type Store interface {
	GetRoles(ctx context.Context) (entities.Roles, bool, error)
	SaveRoles(ctx context.Context, roles entities.Roles) error
}

type Clock interface {
	Now() time.Time
}
