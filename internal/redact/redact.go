// Package redact strips sensitive substrings from log message text.
//
// A Pipeline applies its patterns in order, deleting every match, and then
// cleans up the whitespace the deletions leave behind. Cleanup must run after
// removal; run it first and redaction artifacts survive.
package redact

import (
	"fmt"
	"regexp"
	"strings"

	clerrors "github.com/jmurray2011/logid/internal/errors"
)

var (
	horizontalRun = regexp.MustCompile(`[ \t]{2,}`)
	blankLines    = regexp.MustCompile(`\n\s*\n\s*\n`)
)

// DefaultPatterns returns the built-in redaction patterns.
func DefaultPatterns() []string {
	return []string{
		`_compliance_nlp_log`,
		`_compliance_whitelist_log`,
		`_compliance_source=footprint`,
		`(?s)"user_extra":\s*"\{.*?\}"`,
		`(?m)"LogID":\s*"[^"]*"`,
		`(?m)"Addr":\s*"[^"]*"`,
		`(?m)"Client":\s*"[^"]*"`,
	}
}

// Pipeline is an immutable, ordered list of compiled patterns.
// It is safe for concurrent use.
type Pipeline struct {
	patterns []*regexp.Regexp
}

// New compiles patterns in order. Any invalid pattern fails the whole
// pipeline.
func New(patterns []string) (*Pipeline, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, clerrors.FilterConfig(fmt.Sprintf("invalid pattern %q", p), err)
		}
		compiled = append(compiled, re)
	}
	return &Pipeline{patterns: compiled}, nil
}

// Default returns a pipeline over DefaultPatterns.
func Default() *Pipeline {
	p, err := New(DefaultPatterns())
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of patterns.
func (p *Pipeline) Len() int {
	return len(p.patterns)
}

// Redact removes every pattern match, collapses runs of spaces and tabs to
// one space, collapses three or more newlines (with whitespace-only lines
// between them) to two, and trims the result.
func (p *Pipeline) Redact(text string) string {
	for _, re := range p.patterns {
		text = re.ReplaceAllLiteralString(text, "")
	}
	text = horizontalRun.ReplaceAllLiteralString(text, " ")
	text = blankLines.ReplaceAllLiteralString(text, "\n\n")
	return strings.TrimSpace(text)
}
