package processors

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLCleaner turns posting HTML into plain text suitable for extraction.
// Postings pasted from job boards arrive as full pages; only the posting
// body should reach the prompt.
type HTMLCleaner struct {
	removeTags []string
}

// NewHTMLCleaner creates a new HTML cleaner instance
func NewHTMLCleaner() *HTMLCleaner {
	return &HTMLCleaner{
		removeTags: []string{
			"script", "style", "noscript", "iframe", "object", "embed",
			"form", "input", "button", "select", "textarea",
			"nav", "header", "footer", "aside", "menu",
			"svg", "path", "meta", "link", "title", "base",
		},
	}
}

// postingSelectors are common containers for job posting bodies
var postingSelectors = []string{
	"main", "[role='main']", "#main", ".main",
	".job", ".job-posting", ".job-detail", ".job-description",
	".posting", ".position", ".vacancy", ".opportunity",
	".content", ".description", ".details",
	"article", "section[class*='job']", "section[class*='posting']",
	"[data-testid*='job']", "[data-test*='job']",
}

// ExtractPostingText extracts the text content likely to contain the
// posting from an HTML document.
func (hc *HTMLCleaner) ExtractPostingText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	for _, tag := range hc.removeTags {
		doc.Find(tag).Remove()
	}

	var contentParts []string
	for _, selector := range postingSelectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); len(text) > 50 {
				contentParts = append(contentParts, text)
			}
		})
		if len(contentParts) > 0 {
			break
		}
	}

	// No recognizable posting container: fall back to the whole body
	if len(contentParts) == 0 {
		if bodyText := doc.Find("body").Text(); bodyText != "" {
			contentParts = append(contentParts, bodyText)
		}
	}

	return cleanExtractedText(strings.Join(contentParts, "\n\n")), nil
}

var (
	whitespaceRegex = regexp.MustCompile(`[ \t]+`)
	newlineRegex    = regexp.MustCompile(`\n{3,}`)
)

func cleanExtractedText(text string) string {
	text = whitespaceRegex.ReplaceAllString(text, " ")
	text = newlineRegex.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
