package models

// Section headings recognised in a structured summary.
const (
	SectionTitle       = "Title"
	SectionObjective   = "Objective"
	SectionMethodology = "Methodology"
	SectionResults     = "Results"
	SectionConclusion  = "Conclusion"
)

// SummarySection is one labelled block of a summary. Title is empty for the
// verbatim fallback section.
type SummarySection struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// ParsedSummary is the presentation form of a raw summary string.
type ParsedSummary struct {
	Structured bool             `json:"structured"`
	Sections   []SummarySection `json:"sections"`
}
