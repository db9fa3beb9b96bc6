// Package feeregistry manages the protocol fee: the owner-set basis-point
// rate applied to every deposit, the per-asset balances accrued by the
// ledger, and the withdrawer-only sweep that pays those balances out.
package feeregistry
