package entity

// ContentMetrics is computed from the current document on every validation pass.
type ContentMetrics struct {
	WordCount        int         `json:"word_count" yaml:"word_count"`
	ReadingTime      int         `json:"reading_time" yaml:"reading_time"` // minutes
	ReadabilityScore float64     `json:"readability_score" yaml:"readability_score"`
	HeadingCount     map[int]int `json:"heading_count" yaml:"heading_count"` // level -> count
	LinkCount        int         `json:"link_count" yaml:"link_count"`
	ImageCount       int         `json:"image_count" yaml:"image_count"`
}

// ValidationResult is the aggregate output of one validation run.
type ValidationResult struct {
	Source  string         `json:"source,omitempty" yaml:"source,omitempty"`
	Issues  []Issue        `json:"issues" yaml:"issues"`
	Metrics ContentMetrics `json:"metrics" yaml:"metrics"`
}

// Count returns how many issues of the given type the result holds.
func (r ValidationResult) Count(t IssueType) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Type == t {
			n++
		}
	}
	return n
}
