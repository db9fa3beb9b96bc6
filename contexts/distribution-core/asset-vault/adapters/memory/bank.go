package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"tokendist/contexts/distribution-core/asset-vault/domain/entities"
	domainerrors "tokendist/contexts/distribution-core/asset-vault/domain/errors"
	"tokendist/contexts/distribution-core/asset-vault/ports"
)

// Bank is an in-process settlement bank used by tests and local wiring. It
// tracks party balances, token allowances granted to the custody account, and
// the custody balance per asset.
type Bank struct {
	mu sync.Mutex

	balances   map[string]map[string]decimal.Decimal // party -> asset key -> balance
	allowances map[string]map[string]decimal.Decimal // owner -> token address -> approved
	custody    map[string]decimal.Decimal            // asset key -> held
	rejecting  map[string]bool                       // parties refusing inbound pushes
}

func NewBank() *Bank {
	return &Bank{
		balances:   make(map[string]map[string]decimal.Decimal),
		allowances: make(map[string]map[string]decimal.Decimal),
		custody:    make(map[string]decimal.Decimal),
		rejecting:  make(map[string]bool),
	}
}

// Credit seeds a party balance.
func (b *Bank) Credit(party string, asset entities.Asset, amount decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.credit(party, asset, amount)
}

// Approve grants the custody account a token allowance on behalf of owner.
func (b *Bank) Approve(owner string, tokenAddress string, amount decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()

	owner = strings.TrimSpace(owner)
	tokenAddress = strings.TrimSpace(tokenAddress)
	if b.allowances[owner] == nil {
		b.allowances[owner] = make(map[string]decimal.Decimal)
	}
	b.allowances[owner][tokenAddress] = amount
}

// SetRejecting makes a party refuse inbound pushes, simulating a destination
// that cannot receive transfers.
func (b *Bank) SetRejecting(party string, rejecting bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rejecting[strings.TrimSpace(party)] = rejecting
}

// Balance reports a party's balance for an asset.
func (b *Bank) Balance(party string, asset entities.Asset) decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[strings.TrimSpace(party)][asset.Key()]
}

func (b *Bank) Pull(_ context.Context, req ports.TransferRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	party := strings.TrimSpace(req.Party)
	key := req.Asset.Key()

	if req.Asset.IsToken() {
		allowance := b.allowances[party][req.Asset.TokenAddress]
		if allowance.LessThan(req.Amount) {
			return domainerrors.ErrAllowanceInsufficient
		}
		b.allowances[party][req.Asset.TokenAddress] = allowance.Sub(req.Amount)
	}

	balance := b.balances[party][key]
	if balance.LessThan(req.Amount) {
		if req.Asset.IsToken() {
			b.allowances[party][req.Asset.TokenAddress] = b.allowances[party][req.Asset.TokenAddress].Add(req.Amount)
		}
		return domainerrors.ErrTransferRejected
	}
	b.balances[party][key] = balance.Sub(req.Amount)
	b.custody[key] = b.custody[key].Add(req.Amount)
	return nil
}

func (b *Bank) Push(_ context.Context, req ports.TransferRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	party := strings.TrimSpace(req.Party)
	key := req.Asset.Key()

	if b.rejecting[party] {
		return domainerrors.ErrTransferRejected
	}
	if b.custody[key].LessThan(req.Amount) {
		return domainerrors.ErrInsufficientCustody
	}
	b.custody[key] = b.custody[key].Sub(req.Amount)
	b.credit(party, req.Asset, req.Amount)
	return nil
}

func (b *Bank) CustodyBalance(_ context.Context, asset entities.Asset) (decimal.Decimal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.custody[asset.Key()], nil
}

func (b *Bank) credit(party string, asset entities.Asset, amount decimal.Decimal) {
	party = strings.TrimSpace(party)
	if b.balances[party] == nil {
		b.balances[party] = make(map[string]decimal.Decimal)
	}
	b.balances[party][asset.Key()] = b.balances[party][asset.Key()].Add(amount)
}

var _ ports.Bank = (*Bank)(nil)
