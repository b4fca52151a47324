package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/sitekit/internal/entity"
	"github.com/user/sitekit/pkg/utils"
)

const (
	minDescriptionLength = 120
	maxDescriptionLength = 160
	minTitleLength       = 30
	maxTitleLength       = 60
)

// ValidateSEO checks document-level metadata on doc and image/link attributes
// inside sel. base resolves relative links; it may be nil.
func ValidateSEO(doc *goquery.Document, sel *goquery.Selection, base *url.URL) []entity.Issue {
	var issues []entity.Issue

	description := strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	issues = append(issues, lengthIssues("meta description", description,
		minDescriptionLength, maxDescriptionLength,
		"Add a meta description summarizing the page")...)

	title := normalizeSpace(doc.Find("title").First().Text())
	issues = append(issues, lengthIssues("title", title,
		minTitleLength, maxTitleLength,
		"Add a descriptive <title>")...)

	missingAlt := 0
	sel.Find("img").Each(func(_ int, s *goquery.Selection) {
		if alt, ok := s.Attr("alt"); !ok || strings.TrimSpace(alt) == "" {
			missingAlt++
		}
	})
	if missingAlt > 0 {
		issues = append(issues, entity.Issue{
			Type:       entity.IssueWarning,
			Category:   entity.IssueAccessibility,
			Message:    fmt.Sprintf("%d images missing alt text", missingAlt),
			Suggestion: "Describe each image in its alt attribute",
		})
	}

	unsafeLinks := 0
	sel.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if !utils.IsExternalLink(base, s.AttrOr("href", "")) {
			return
		}
		rel := strings.Fields(strings.ToLower(s.AttrOr("rel", "")))
		if !containsAny(rel, "noopener", "noreferrer") {
			unsafeLinks++
		}
	})
	if unsafeLinks > 0 {
		issues = append(issues, entity.Issue{
			Type:       entity.IssueWarning,
			Category:   entity.IssueSEO,
			Message:    fmt.Sprintf("%d external links missing rel=\"noopener noreferrer\"", unsafeLinks),
			Suggestion: `Add rel="noopener noreferrer" to links leaving the site`,
		})
	}

	return issues
}

func lengthIssues(field, value string, minLen, maxLen int, missingHint string) []entity.Issue {
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0:
		return []entity.Issue{{
			Type:       entity.IssueError,
			Category:   entity.IssueSEO,
			Message:    "Missing " + field,
			Suggestion: missingHint,
		}}
	case n < minLen:
		return []entity.Issue{{
			Type:       entity.IssueWarning,
			Category:   entity.IssueSEO,
			Message:    fmt.Sprintf("%s is too short (%d characters)", capitalize(field), n),
			Suggestion: fmt.Sprintf("Use %d-%d characters", minLen, maxLen),
		}}
	case n > maxLen:
		return []entity.Issue{{
			Type:       entity.IssueWarning,
			Category:   entity.IssueSEO,
			Message:    fmt.Sprintf("%s is too long (%d characters)", capitalize(field), n),
			Suggestion: fmt.Sprintf("Use %d-%d characters", minLen, maxLen),
		}}
	}
	return nil
}

func containsAny(values []string, wanted ...string) bool {
	for _, v := range values {
		for _, w := range wanted {
			if v == w {
				return true
			}
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
