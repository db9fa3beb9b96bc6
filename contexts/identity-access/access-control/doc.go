// Package accesscontrol owns the two privileged roles of the ledger: the
// owner, who governs the fee rate and role transfers, and the withdrawer, who
// may sweep accrued fee balances.
package accesscontrol
