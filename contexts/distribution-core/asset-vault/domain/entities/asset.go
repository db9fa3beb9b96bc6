package entities

import "strings"

type AssetKind string

const (
	AssetKindNative AssetKind = "native"
	AssetKindToken  AssetKind = "token"
)

// Asset discriminates the two value kinds the ledger can hold. Token assets
// carry the fungible-token contract address; native assets carry nothing.
type Asset struct {
	Kind         AssetKind
	TokenAddress string
}

func Native() Asset {
	return Asset{Kind: AssetKindNative}
}

func Token(address string) Asset {
	return Asset{
		Kind:         AssetKindToken,
		TokenAddress: strings.TrimSpace(address),
	}
}

func (a Asset) IsToken() bool {
	return a.Kind == AssetKindToken
}

func (a Asset) Valid() bool {
	switch a.Kind {
	case AssetKindNative:
		return a.TokenAddress == ""
	case AssetKindToken:
		return strings.TrimSpace(a.TokenAddress) != ""
	default:
		return false
	}
}

// Key is the stable storage key for an asset, used by the room pool and the
// fee registry to scope balances per asset.
func (a Asset) Key() string {
	if a.Kind == AssetKindToken {
		return "token:" + strings.TrimSpace(a.TokenAddress)
	}
	return "native"
}

func ParseKey(key string) Asset {
	key = strings.TrimSpace(key)
	if address, ok := strings.CutPrefix(key, "token:"); ok {
		return Token(address)
	}
	return Native()
}
