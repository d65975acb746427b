package resume

import (
	"regexp"
	"strings"

	"interview-practice-service/internal/domain"
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
)

// Extractor scrapes candidate contact fields out of resume text. This is a
// best-effort heuristic: any field may come back empty and the candidate
// confirms or fills the gaps before the session starts.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract pulls name, email and phone from the uploaded file bytes. Only
// text-like payloads are scanned; binary formats still often carry their
// contact lines as plain text, so the scan is attempted regardless of mime.
func (e *Extractor) Extract(data []byte, _ string) domain.CandidateProfile {
	text := string(data)
	profile := domain.CandidateProfile{
		Email: emailRe.FindString(text),
		Phone: strings.TrimSpace(phoneRe.FindString(text)),
	}
	profile.Name = guessName(text)
	return profile
}

// guessName takes the first short line that looks like a person's name
// rather than a heading or contact detail.
func guessName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.ContainsAny(line, "@0123456789") {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		looksLikeName := true
		for _, w := range words {
			r := rune(w[0])
			if r < 'A' || r > 'Z' {
				looksLikeName = false
				break
			}
		}
		if looksLikeName {
			return line
		}
	}
	return ""
}
