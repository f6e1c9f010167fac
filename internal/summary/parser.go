// Package summary turns a loosely structured summary string into labelled
// sections for display.
package summary

import (
	"regexp"
	"strings"

	"github.com/SAP-F-2025/study-assistant/internal/models"
)

var (
	headingPattern = regexp.MustCompile(`(?i)^(?:\*\*|__)?(title|objective|methodology|results|conclusion)(?:\*\*|__)?\s*[:\-]?\s*(.*)$`)
	// A keyword that runs on into a longer word ("Conclusions") is prose.
	runOnKeyword   = regexp.MustCompile(`(?i)^(?:\*\*|__)?(?:title|objective|methodology|results|conclusion)[\p{L}\p{N}]`)
	leadingMarkers = regexp.MustCompile(`^(?:\*\*|__)+`)
	leadingSeps    = regexp.MustCompile(`^[:\-]+`)

	newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

	canonicalTitles = map[string]string{
		"title":       models.SectionTitle,
		"objective":   models.SectionObjective,
		"methodology": models.SectionMethodology,
		"results":     models.SectionResults,
		"conclusion":  models.SectionConclusion,
	}
)

type section struct {
	title     string
	fragments []string
}

// Parse splits raw into sections keyed by the recognised headings. When no
// heading is found the result is a single untitled section holding raw
// unchanged and Structured is false.
func Parse(raw string) models.ParsedSummary {
	var sections []*section

	for _, line := range strings.Split(newlines.Replace(raw), "\n") {
		if m := matchHeading(line); m != nil {
			sections = append(sections, &section{
				title:     canonicalTitles[strings.ToLower(m[1])],
				fragments: appendFragment(nil, m[2]),
			})
			continue
		}
		if len(sections) == 0 {
			continue
		}
		current := sections[len(sections)-1]
		current.fragments = appendFragment(current.fragments, line)
	}

	if len(sections) == 0 {
		return models.ParsedSummary{
			Structured: false,
			Sections:   []models.SummarySection{{Content: raw}},
		}
	}

	out := models.ParsedSummary{
		Structured: true,
		Sections:   make([]models.SummarySection, 0, len(sections)),
	}
	for _, s := range sections {
		out.Sections = append(out.Sections, models.SummarySection{
			Title:   s.title,
			Content: strings.TrimSpace(strings.Join(s.fragments, " ")),
		})
	}
	return out
}

func matchHeading(line string) []string {
	if runOnKeyword.MatchString(line) {
		return nil
	}
	return headingPattern.FindStringSubmatch(line)
}

func appendFragment(fragments []string, text string) []string {
	cleaned := clean(text)
	if cleaned == "" {
		return fragments
	}
	return append(fragments, cleaned)
}

func clean(text string) string {
	text = strings.TrimSpace(text)
	text = leadingMarkers.ReplaceAllString(text, "")
	text = leadingSeps.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
