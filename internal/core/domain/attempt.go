package domain

import "time"

// AttemptOutcome is the result of one browser resolution.
type AttemptOutcome string

// Attempt outcomes.
const (
	AttemptResolved AttemptOutcome = "resolved"
	AttemptFailed   AttemptOutcome = "failed"
)

// ResolutionAttempt records one navigation made by the resolver.
type ResolutionAttempt struct {
	// RunID groups the attempts made by one batch.
	RunID string

	// URL is the reference URL navigated to.
	URL string

	// FinalURL is the address read after redirection, if any.
	FinalURL string

	// Outcome says whether a coordinate was obtained.
	Outcome AttemptOutcome

	// Coordinate is set when Outcome is AttemptResolved.
	Coordinate Coordinate

	// Error describes the failure when Outcome is AttemptFailed.
	Error string

	// At is when the attempt finished.
	At time.Time
}
