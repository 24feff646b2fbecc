package corpus

// ReindexState tracks a reindex request through its life cycle.
type ReindexState int

const (
	// StateProposed is the initial state of every request.
	StateProposed ReindexState = iota
	// StateValidated means all range checks and the collision lookup
	// passed; the request may be committed.
	StateValidated
	// StateCommitted means the new address was applied atomically.
	StateCommitted
	// StateRejected means validation failed; the request is terminal.
	StateRejected
)

func (s ReindexState) String() string {
	switch s {
	case StateProposed:
		return "proposed"
	case StateValidated:
		return "validated"
	case StateCommitted:
		return "committed"
	case StateRejected:
		return "rejected"
	}
	return "unknown"
}

// ReindexRequest carries a proposed structural address for one verse
// through the reindexing state machine. A request is single-use.
type ReindexRequest struct {
	VerseID int64
	Target  VerseAddress
	State   ReindexState

	// Err holds the rejection cause once State is StateRejected.
	Err error
}

// NewReindexRequest creates a request in the PROPOSED state.
func NewReindexRequest(verseID int64, target VerseAddress) *ReindexRequest {
	return &ReindexRequest{VerseID: verseID, Target: target}
}

// ValidateRanges performs the pure range checks of a proposed address.
// The collision lookup against committed state is the reindexer's job.
func (a VerseAddress) ValidateRanges() error {
	if a.ChapterID < 1 || a.ChapterID > ChapterCount {
		return NewValidationError("chapter id",
			"must be between 1 and %d, got %d", ChapterCount, a.ChapterID)
	}
	if a.PositionInChapter < 1 {
		return NewValidationError("position in chapter",
			"must be 1 or greater, got %d", a.PositionInChapter)
	}
	if a.PositionInMushaf < 1 || a.PositionInMushaf > VerseCount {
		return NewValidationError("position in mushaf",
			"must be between 1 and %d, got %d", VerseCount, a.PositionInMushaf)
	}
	return nil
}
