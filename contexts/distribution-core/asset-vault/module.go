package assetvault

import (
	"log/slog"

	"tokendist/contexts/distribution-core/asset-vault/adapters/memory"
	"tokendist/contexts/distribution-core/asset-vault/application"
	"tokendist/contexts/distribution-core/asset-vault/ports"
)

type Module struct {
	Service application.Service
	Bank    *memory.Bank
}

type Dependencies struct {
	Bank   ports.Bank
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Service: application.Service{
			Bank:   deps.Bank,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	bank := memory.NewBank()
	module := NewModule(Dependencies{Bank: bank, Logger: logger})
	module.Bank = bank
	return module
}
