package port

import "errors"

// Error taxonomy shared by every workflow operation. Callers match with
// errors.Is; implementations wrap these with context via fmt.Errorf.
var (
	// ErrForbidden is an access-policy denial, distinct from a
	// lifecycle violation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState is an illegal status transition or a violated
	// lifecycle precondition.
	ErrInvalidState = errors.New("invalid state")

	// ErrCapacityExceeded means the campaign already carries its
	// maximum number of non-declined assignments.
	ErrCapacityExceeded = errors.New("campaign capacity exceeded")

	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateAssignment means the influencer is already assigned
	// to the campaign.
	ErrDuplicateAssignment = errors.New("influencer already assigned")

	// ErrAlreadyReviewed means the submission reached a terminal review
	// status and cannot be reviewed again.
	ErrAlreadyReviewed = errors.New("submission already reviewed")

	// ErrConcurrentModification is an optimistic-concurrency conflict
	// that persisted after the internal retry.
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrExternalProvider surfaces a payment-provider failure as-is.
	ErrExternalProvider = errors.New("external provider error")
)
