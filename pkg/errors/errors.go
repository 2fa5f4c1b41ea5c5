package errors

import "errors"

// Sentinels shared between the repository and service layers. The schedule
// entry / child join table is mutated through guarded SQL, so the repository
// is the first place these preconditions can be observed.
var (
	// ErrChildNotLinked is returned when a reassignment names a child that
	// is not linked to the source entry.
	ErrChildNotLinked = errors.New("child is not linked to the source entry")

	// ErrChildAlreadyLinked is returned when a reassignment would create a
	// duplicate child/entry link on the target.
	ErrChildAlreadyLinked = errors.New("child is already linked to the target entry")

	// ErrImportInProgress is returned when a second import is attempted for
	// a semester whose import lock is already held.
	ErrImportInProgress = errors.New("an import is already running for this semester")
)
