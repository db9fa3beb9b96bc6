package claimsledger

import (
	"log/slog"
	"sync"

	httpadapter "tokendist/contexts/distribution-core/claims-ledger/adapters/http"
	"tokendist/contexts/distribution-core/claims-ledger/adapters/memory"
	"tokendist/contexts/distribution-core/claims-ledger/application/commands"
	"tokendist/contexts/distribution-core/claims-ledger/application/queries"
	"tokendist/contexts/distribution-core/claims-ledger/ports"
	feeports "tokendist/contexts/finance-core/fee-registry/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Commands commands.UseCase
	Queries  queries.UseCase
	Store    *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Vault      ports.Vault
	Rates      feeports.Rates
	Policy     ports.ReimbursementPolicy
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Serial     *sync.Mutex
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	if deps.Policy == nil {
		deps.Policy = commands.EvenSplitReimbursement{}
	}
	if deps.Serial == nil {
		deps.Serial = &sync.Mutex{}
	}
	commandUseCase := commands.UseCase{
		Repo:   deps.Repository,
		Vault:  deps.Vault,
		Rates:  deps.Rates,
		Policy: deps.Policy,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
		Serial: deps.Serial,
	}
	queryUseCase := queries.UseCase{
		Repo:   deps.Repository,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Commands: commandUseCase,
			Queries:  queryUseCase,
			Logger:   deps.Logger,
		},
		Commands: commandUseCase,
		Queries:  queryUseCase,
	}
}

func NewInMemoryModule(vault ports.Vault, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Vault:      vault,
		Rates:      store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
