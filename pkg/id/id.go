// Package id generates time-sortable identifiers for orders, positions and
// journal rows.
package id

import "github.com/oklog/ulid/v2"

// New returns a fresh ULID string. ULIDs sort lexicographically by creation
// time, so identifiers double as a stable ordering key in the journal.
func New() string {
	return ulid.Make().String()
}
