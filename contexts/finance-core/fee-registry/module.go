package feeregistry

import (
	"log/slog"

	httpadapter "tokendist/contexts/finance-core/fee-registry/adapters/http"
	"tokendist/contexts/finance-core/fee-registry/application"
	"tokendist/contexts/finance-core/fee-registry/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
}

type Dependencies struct {
	Repository ports.Repository
	Payer      ports.Payer
	Access     ports.AccessChecker
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Payer:  deps.Payer,
		Access: deps.Access,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}
