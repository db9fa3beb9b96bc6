package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store persists pooled balances keyed by (room id, asset key). Rooms are
// created on first save and never deleted.
type Store interface {
	RoomBalance(ctx context.Context, roomID string, assetKey string) (decimal.Decimal, error)
	SaveRoomBalance(ctx context.Context, roomID string, assetKey string, balance decimal.Decimal) error
}
