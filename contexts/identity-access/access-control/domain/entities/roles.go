package entities

import "time"

// Roles is the single process-wide role record. Owner and withdrawer are each
// one address; both start as the address passed to Initialize.
type Roles struct {
	Owner         string
	Withdrawer    string
	InitializedAt time.Time
	UpdatedAt     time.Time
}
