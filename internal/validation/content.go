package validation

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/user/sitekit/internal/entity"
)

const (
	veryShortWordCount  = 50
	shortWordCount      = 300
	minReadability      = 30
	wordsPerHeading     = 300
	longContentNoImages = 500
)

// excludedText lists subtrees whose text is not part of the readable content.
var excludedText = map[string]bool{
	"script":   true,
	"style":    true,
	"nav":      true,
	"header":   true,
	"footer":   true,
	"noscript": true,
	"template": true,
	"head":     true,
}

// VisibleText returns the readable text of sel, skipping chrome and script
// subtrees. Adjacent blocks are separated by a space.
func VisibleText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		case html.ElementNode:
			if excludedText[n.Data] {
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return normalizeSpace(b.String())
}

// ComputeMetrics measures sel.
func ComputeMetrics(sel *goquery.Selection) entity.ContentMetrics {
	text := VisibleText(sel)
	words := len(Words(text))
	return entity.ContentMetrics{
		WordCount:        words,
		ReadingTime:      ReadingTime(words),
		ReadabilityScore: ReadabilityScore(text),
		HeadingCount:     countHeadings(sel),
		LinkCount:        sel.Find("a[href]").Length(),
		ImageCount:       sel.Find("img").Length(),
	}
}

// ValidateContent measures sel and flags thin, hard-to-read or poorly
// structured content.
func ValidateContent(sel *goquery.Selection) ([]entity.Issue, entity.ContentMetrics) {
	m := ComputeMetrics(sel)
	var issues []entity.Issue

	switch {
	case m.WordCount < veryShortWordCount:
		issues = append(issues, entity.Issue{
			Type:       entity.IssueWarning,
			Category:   entity.IssueContent,
			Message:    fmt.Sprintf("Very short content (%d words)", m.WordCount),
			Suggestion: fmt.Sprintf("Pages under %d words rarely rank; expand the copy", veryShortWordCount),
		})
	case m.WordCount < shortWordCount:
		issues = append(issues, entity.Issue{
			Type:       entity.IssueInfo,
			Category:   entity.IssueContent,
			Message:    fmt.Sprintf("Short content (%d words)", m.WordCount),
			Suggestion: fmt.Sprintf("Aim for at least %d words on lesson and guide pages", shortWordCount),
		})
	}

	if m.WordCount > 0 && m.ReadabilityScore < minReadability {
		issues = append(issues, entity.Issue{
			Type:       entity.IssueWarning,
			Category:   entity.IssueContent,
			Message:    fmt.Sprintf("Low readability score (%.0f)", m.ReadabilityScore),
			Suggestion: "Use shorter sentences and simpler words",
		})
	}

	if m.WordCount >= wordsPerHeading {
		headings := 0
		for _, n := range m.HeadingCount {
			headings += n
		}
		if headings < m.WordCount/wordsPerHeading {
			issues = append(issues, entity.Issue{
				Type:       entity.IssueInfo,
				Category:   entity.IssueContent,
				Message:    fmt.Sprintf("Low heading density (%d headings for %d words)", headings, m.WordCount),
				Suggestion: fmt.Sprintf("Break the text up with a heading about every %d words", wordsPerHeading),
			})
		}
	}

	if m.WordCount > longContentNoImages && m.ImageCount == 0 {
		issues = append(issues, entity.Issue{
			Type:       entity.IssueInfo,
			Category:   entity.IssueContent,
			Message:    fmt.Sprintf("No images in long content (%d words)", m.WordCount),
			Suggestion: "Add photos or diagrams to break up long lessons",
		})
	}

	return issues, m
}
