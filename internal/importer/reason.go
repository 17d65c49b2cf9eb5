package importer

// Reason is the closed set of codes attached to row-level issues. The codes
// are stable identifiers; presentation layers translate them.
type Reason string

// Row-level reasons.
const (
	ReasonTitleRequired   Reason = "title_required"
	ReasonUnknownType     Reason = "unknown_type"
	ReasonInvalidPrice    Reason = "invalid_price"
	ReasonUnknownCurrency Reason = "unknown_currency"
	ReasonUnknownPlatform Reason = "unknown_platform"
	ReasonUnknownGenre    Reason = "unknown_genre"
	ReasonUnknownStatus   Reason = "unknown_status"
	ReasonInvalidDate     Reason = "invalid_date"
)

// Issue is one field-level problem found while validating a row.
type Issue struct {
	Field  Field
	Reason Reason

	// Value is the raw input that caused the issue, if any.
	Value string
}

// Reasons extracts the reason codes of issues, in order.
func Reasons(issues []Issue) []Reason {
	reasons := make([]Reason, 0, len(issues))
	for _, issue := range issues {
		reasons = append(reasons, issue.Reason)
	}
	return reasons
}
