// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Election core sentinels. None of them is retryable.
var (
	// ErrNotFound indicates the referenced voter, candidate or admin does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyVoted indicates the voter has already cast their single vote.
	ErrAlreadyVoted = errors.New("already voted")

	// ErrInvalidCandidate indicates the candidate is absent or not approved.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrVotingNotConfigured indicates no voting window has been set.
	ErrVotingNotConfigured = errors.New("voting not configured")

	// ErrVotingClosed indicates the current time is outside the voting window.
	ErrVotingClosed = errors.New("voting closed")

	// ErrValidation indicates malformed input (empty field, tagline length, end <= start).
	ErrValidation = errors.New("validation")

	// ErrStoreUnavailable wraps opaque infrastructure failures of the backing store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Identity layer sentinels.
var (
	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates failed authentication.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the principal kind may not perform the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrPendingApproval indicates a candidate login before admin approval.
	ErrPendingApproval = errors.New("pending approval")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")
)

// IsDomain reports whether err carries one of the sentinels above.
func IsDomain(err error) bool {
	for _, s := range []error{
		ErrNotFound, ErrAlreadyVoted, ErrInvalidCandidate, ErrVotingNotConfigured,
		ErrVotingClosed, ErrValidation, ErrStoreUnavailable, ErrAlreadyExists,
		ErrUnauthorized, ErrForbidden, ErrPendingApproval, ErrRateLimited,
	} {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}
