// Package assetvault implements the asset abstraction for the tokendist monolith.
//
// The module gives the ledger one transfer-in/transfer-out surface over two
// asset kinds (native currency and fungible tokens) with identical failure
// semantics, plus the custody balance the ledger holds per asset.
package assetvault
