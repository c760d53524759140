package sentinel

import "errors"

// Stores return these (optionally wrapped) so services can map them onto domain errors.
//
//   - ErrNotFound: no row, hash or entry for the given id
//   - ErrConflict: an entry with the same id was already written
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
