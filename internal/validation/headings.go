package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/sitekit/internal/entity"
)

const (
	minHeadingLength = 3
	maxHeadingLength = 60
)

const headingSelector = "h1, h2, h3, h4, h5, h6"

// ValidateHeadings checks the heading outline of sel in document order.
func ValidateHeadings(sel *goquery.Selection) []entity.Issue {
	var issues []entity.Issue
	headings := sel.Find(headingSelector)

	h1Count := headings.Filter("h1").Length()
	switch {
	case h1Count == 0:
		issues = append(issues, entity.Issue{
			Type:       entity.IssueError,
			Category:   entity.IssueHeading,
			Message:    "Missing H1 heading",
			Suggestion: "Add a single H1 that states the page topic",
		})
	case h1Count > 1:
		issues = append(issues, entity.Issue{
			Type:       entity.IssueError,
			Category:   entity.IssueHeading,
			Message:    fmt.Sprintf("Multiple H1 headings found (%d)", h1Count),
			Suggestion: "Keep one H1 per page and demote the others to H2",
		})
	}

	previous := 0
	headings.Each(func(_ int, s *goquery.Selection) {
		level := headingLevel(s)
		text := normalizeSpace(s.Text())
		element := describe(s)

		if previous > 0 && level > previous+1 {
			issues = append(issues, entity.Issue{
				Type:       entity.IssueWarning,
				Category:   entity.IssueHeading,
				Message:    fmt.Sprintf("Heading hierarchy skips from H%d to H%d", previous, level),
				Element:    element,
				Suggestion: fmt.Sprintf("Use H%d here or add the missing level", previous+1),
			})
		}
		previous = level

		n := utf8.RuneCountInString(text)
		switch {
		case n == 0:
			issues = append(issues, entity.Issue{
				Type:       entity.IssueError,
				Category:   entity.IssueHeading,
				Message:    fmt.Sprintf("Empty H%d heading", level),
				Element:    element,
				Suggestion: "Give the heading descriptive text or remove it",
			})
		case n < minHeadingLength:
			issues = append(issues, entity.Issue{
				Type:       entity.IssueWarning,
				Category:   entity.IssueHeading,
				Message:    fmt.Sprintf("H%d heading is too short (%d characters)", level, n),
				Element:    element,
				Suggestion: "Headings should describe the section that follows",
			})
		case n > maxHeadingLength:
			issues = append(issues, entity.Issue{
				Type:       entity.IssueWarning,
				Category:   entity.IssueHeading,
				Message:    fmt.Sprintf("H%d heading is too long (%d characters)", level, n),
				Element:    element,
				Suggestion: fmt.Sprintf("Keep headings under %d characters", maxHeadingLength),
			})
		}
	})

	return issues
}

// headingLevel returns 1-6 for h1-h6 and 0 for anything else.
func headingLevel(s *goquery.Selection) int {
	name := goquery.NodeName(s)
	if len(name) == 2 && name[0] == 'h' && name[1] >= '1' && name[1] <= '6' {
		return int(name[1] - '0')
	}
	return 0
}

func countHeadings(sel *goquery.Selection) map[int]int {
	counts := make(map[int]int)
	sel.Find(headingSelector).Each(func(_ int, s *goquery.Selection) {
		counts[headingLevel(s)]++
	})
	return counts
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// describe renders a short selector-like reference to s, e.g. `h2#pricing "Pricing tiers"`.
func describe(s *goquery.Selection) string {
	var b strings.Builder
	b.WriteString(goquery.NodeName(s))
	if id, ok := s.Attr("id"); ok && id != "" {
		b.WriteString("#" + id)
	}
	text := normalizeSpace(s.Text())
	if r := []rune(text); len(r) > 40 {
		text = string(r[:37]) + "..."
	}
	if text != "" {
		fmt.Fprintf(&b, " %q", text)
	}
	return b.String()
}
