package repositories

import "errors"

// Sentinel errors shared across repositories. Handlers translate these
// into HTTP statuses; everything else is treated as a store failure.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrNotOwner       = errors.New("resource not owned by caller")
	ErrNotParticipant = errors.New("caller is not a thread participant")
	ErrSelfReference  = errors.New("cannot target self")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrEmptyMessage   = errors.New("message text is empty")
)
