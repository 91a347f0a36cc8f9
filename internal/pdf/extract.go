// Package pdf extracts text and structure from research paper PDFs.
package pdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	numberedHeading = regexp.MustCompile(`^\d+\.?\s*(abstract|introduction|related work|methodology|methods|approach|experiments|results|discussion|conclusion|references|acknowledgments)\b`)
	plainHeading    = regexp.MustCompile(`^(abstract|introduction|related work|methodology|methods|approach|experiments|results|discussion|conclusion|references|acknowledgments)\b`)
	abstractPattern = regexp.MustCompile(`(?is)abstract\s*[:\-]?\s*(.*?)\n\s*(?:keywords|introduction|\d+\.?\s*introduction)`)
	spaceRun        = regexp.MustCompile(`\s+`)
)

// ExtractText reads the whole document. Pages that fail to decode are
// skipped; scanned PDFs without a text layer yield an empty string, not
// an error.
func ExtractText(path string) (string, int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	pages := r.NumPage()
	var builder strings.Builder
	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), pages, nil
}

// ExtractSections splits extracted text on recognizable section
// headings. Content before the first heading lands in "introduction".
func ExtractSections(text string) map[string]string {
	sections := make(map[string]string)
	current := "introduction"
	var content []string

	flush := func() {
		if len(content) > 0 {
			sections[current] = strings.Join(content, "\n")
			content = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		if m := numberedHeading.FindStringSubmatch(lower); m != nil {
			flush()
			current = m[1]
			continue
		}
		if m := plainHeading.FindStringSubmatch(lower); m != nil {
			flush()
			current = m[1]
			continue
		}
		content = append(content, line)
	}
	flush()
	return sections
}

// ExtractTitle takes the first substantial line of the text as the
// title.
func ExtractTitle(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 20 {
		lines = lines[:20]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		if len(line) > 10 && !strings.HasPrefix(lower, "abstract") && !strings.HasPrefix(lower, "keywords") {
			return line
		}
	}
	return ""
}

// ExtractAbstract pulls the abstract paragraph, collapsed to single
// spaces. Returns "" when no abstract heading is found.
func ExtractAbstract(text string) string {
	m := abstractPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(spaceRun.ReplaceAllString(m[1], " "))
}
