// Package sanitize rewrites scraped text so the source site's identity
// never reaches the output feed.
package sanitize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/homemart/bukkenfeed/internal/profile"
)

// Boilerplate ad annotations occasionally survive the DOM text extraction.
var annotationRe = regexp.MustCompile(`【(?:PR|AD|広告)】`)

// Sanitizer replaces the source company's name, phone number and address
// with the agency's own identity. Clean is pure and idempotent.
type Sanitizer struct {
	identity profile.Identity
	names    []string
	address  string
	phoneRe  *regexp.Regexp
}

// New builds a Sanitizer from a site profile's rewrite rules.
func New(id profile.Identity, rw profile.Rewrite) (*Sanitizer, error) {
	phoneRe, err := regexp.Compile(rw.PhonePattern)
	if err != nil {
		return nil, fmt.Errorf("compile phone pattern: %w", err)
	}
	return &Sanitizer{
		identity: id,
		names:    rw.SourceNames,
		address:  rw.SourceAddress,
		phoneRe:  phoneRe,
	}, nil
}

// Clean rewrites one text field. Applying Clean to already-clean text is a
// no-op: the doubled-name collapse undoes the artifact a second pass would
// otherwise introduce.
func (s *Sanitizer) Clean(text string) string {
	out := text
	for _, name := range s.names {
		out = strings.ReplaceAll(out, name, s.identity.Name)
	}

	// A source name adjacent to an existing agency name leaves the agency
	// name doubled; collapse any run back to a single occurrence.
	doubled := s.identity.Name + s.identity.Name
	for strings.Contains(out, doubled) {
		out = strings.ReplaceAll(out, doubled, s.identity.Name)
	}

	out = s.phoneRe.ReplaceAllString(out, s.identity.Tel)
	if s.address != "" {
		out = strings.ReplaceAll(out, s.address, s.identity.Address)
	}
	out = annotationRe.ReplaceAllString(out, "")

	return strings.TrimSpace(strings.Join(strings.Fields(out), " "))
}

// CleanAll applies Clean to every element of a slice, dropping entries that
// end up empty.
func (s *Sanitizer) CleanAll(texts []string) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		if cleaned := s.Clean(t); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
