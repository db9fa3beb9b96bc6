// Package roompool tracks the pooled balances shared rooms accumulate across
// deposits. It owns no funds; it only keeps the logical split the claims
// ledger consults and draws down.
package roompool
