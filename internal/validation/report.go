package validation

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"

	"github.com/user/sitekit/internal/entity"
)

// Format is an output encoding for validation results.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat converts s to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml", s)
	}
}

var categoryOrder = []entity.IssueCategory{
	entity.IssueHeading,
	entity.IssueContent,
	entity.IssueSEO,
	entity.IssueAccessibility,
}

// Encode writes result in the given format. FormatTable delegates to Report.
func Encode(w io.Writer, result entity.ValidationResult, format Format, dev bool) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML:
		out, err := yaml.MarshalWithOptions(result, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return Report(w, result, dev)
	}
}

// Report pretty-prints result grouped by category. Outside development it
// writes nothing.
func Report(w io.Writer, result entity.ValidationResult, dev bool) error {
	if !dev {
		return nil
	}

	source := result.Source
	if source == "" {
		source = "document"
	}
	fmt.Fprintf(w, "Content validation: %s\n", source)
	fmt.Fprintf(w, "  %d errors, %d warnings, %d info\n\n",
		result.Count(entity.IssueError), result.Count(entity.IssueWarning), result.Count(entity.IssueInfo))

	if err := writeMetrics(w, result.Metrics); err != nil {
		return err
	}

	if len(result.Issues) == 0 {
		_, err := fmt.Fprintln(w, "\nNo issues found.")
		return err
	}

	grouped := make(map[entity.IssueCategory][]entity.Issue)
	for _, issue := range result.Issues {
		grouped[issue.Category] = append(grouped[issue.Category], issue)
	}
	for _, category := range categoryOrder {
		issues := grouped[category]
		if len(issues) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d)\n", strings.ToUpper(string(category)), len(issues))
		table := tablewriter.NewTable(w)
		table.Header("Type", "Message", "Element", "Suggestion")
		for _, issue := range issues {
			if err := table.Append(string(issue.Type), issue.Message, dash(issue.Element), dash(issue.Suggestion)); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return nil
}

func writeMetrics(w io.Writer, m entity.ContentMetrics) error {
	levels := make([]int, 0, len(m.HeadingCount))
	for level := range m.HeadingCount {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	var headings []string
	for _, level := range levels {
		headings = append(headings, fmt.Sprintf("H%d:%d", level, m.HeadingCount[level]))
	}

	table := tablewriter.NewTable(w)
	table.Header("Metric", "Value")
	rows := [][]string{
		{"Words", strconv.Itoa(m.WordCount)},
		{"Reading time", fmt.Sprintf("%d min", m.ReadingTime)},
		{"Readability", fmt.Sprintf("%.0f", m.ReadabilityScore)},
		{"Headings", dash(strings.Join(headings, " "))},
		{"Links", strconv.Itoa(m.LinkCount)},
		{"Images", strconv.Itoa(m.ImageCount)},
	}
	for _, row := range rows {
		if err := table.Append(row[0], row[1]); err != nil {
			return err
		}
	}
	return table.Render()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
