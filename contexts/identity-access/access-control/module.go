package accesscontrol

import (
	"log/slog"

	httpadapter "tokendist/contexts/identity-access/access-control/adapters/http"
	"tokendist/contexts/identity-access/access-control/application"
	"tokendist/contexts/identity-access/access-control/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
}

type Dependencies struct {
	Store  ports.Store
	Clock  ports.Clock
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Store:  deps.Store,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}
