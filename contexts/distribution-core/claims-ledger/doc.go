// Package claimsledger implements the distribution ledger for the tokendist
// monolith.
//
// The module owns the distribution entry tables and exposes HTTP command/query
// handlers plus worker entrypoints for outbox relay and deadline expiry
// notification. Deposits pull value in through the asset vault, withhold the
// protocol fee into the fee registry, and either fix a recipient list or merge
// into a shared room pool; claims and post-deadline refunds draw the value
// back out.
package claimsledger
