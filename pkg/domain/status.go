package domain

// Outcome describes what a generation request did to the filesystem.
type Outcome string

// Generation outcomes.
const (
	// OutcomeCreated indicates a new file was written.
	OutcomeCreated Outcome = "created"
	// OutcomeExisting indicates the destination already existed and was only opened.
	OutcomeExisting Outcome = "existing"
	// OutcomeAppended indicates content was appended to an existing mock file.
	OutcomeAppended Outcome = "appended"
	// OutcomeOpenedSource indicates a test file was given and its source was opened.
	OutcomeOpenedSource Outcome = "opened-source"
	// OutcomeCancelled indicates the user dismissed a prompt; nothing was written.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeSkipped indicates the file had nothing to generate for.
	OutcomeSkipped Outcome = "skipped"
)

// Wrote reports whether the outcome changed the filesystem.
func (o Outcome) Wrote() bool {
	return o == OutcomeCreated || o == OutcomeAppended
}
