package entity

// IssueType is the severity of a validation finding.
type IssueType string

const (
	IssueError   IssueType = "error"
	IssueWarning IssueType = "warning"
	IssueInfo    IssueType = "info"
)

// IssueCategory groups validation findings by the check that produced them.
type IssueCategory string

const (
	IssueHeading       IssueCategory = "heading"
	IssueContent       IssueCategory = "content"
	IssueSEO           IssueCategory = "seo"
	IssueAccessibility IssueCategory = "accessibility"
)

// Issue is an advisory finding produced by a validation run.
type Issue struct {
	Type       IssueType     `json:"type" yaml:"type"`
	Category   IssueCategory `json:"category" yaml:"category"`
	Message    string        `json:"message" yaml:"message"`
	Element    string        `json:"element,omitempty" yaml:"element,omitempty"`
	Suggestion string        `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}
