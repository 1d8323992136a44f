// Package errors defines the typed errors logid surfaces to callers, each
// carrying enough context (region, HTTP status, body) to diagnose a failure
// without re-running the query, plus remediation hints for the CLI.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind classifies an Error.
type Kind int

const (
	KindInternal Kind = iota
	KindUnsupportedRegion
	KindRegionNotConfigured
	KindMissingCredentials
	KindAuthenticationFailed
	KindQueryFailed
	KindNetwork
	KindFilterConfig
)

// String returns a short description of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnsupportedRegion:
		return "unsupported region"
	case KindRegionNotConfigured:
		return "region not configured"
	case KindMissingCredentials:
		return "missing credentials"
	case KindAuthenticationFailed:
		return "authentication failed"
	case KindQueryFailed:
		return "log query failed"
	case KindNetwork:
		return "network request failed"
	case KindFilterConfig:
		return "invalid filter config"
	default:
		return "internal error"
	}
}

// maxBodySnippet bounds how much of a response body Error() prints.
// The full body stays available in Error.Body.
const maxBodySnippet = 512

// Sentinels for errors.Is. Matching is by Kind only.
var (
	ErrUnsupportedRegion    = &Error{Kind: KindUnsupportedRegion}
	ErrRegionNotConfigured  = &Error{Kind: KindRegionNotConfigured}
	ErrMissingCredentials   = &Error{Kind: KindMissingCredentials}
	ErrAuthenticationFailed = &Error{Kind: KindAuthenticationFailed}
	ErrQueryFailed          = &Error{Kind: KindQueryFailed}
	ErrNetwork              = &Error{Kind: KindNetwork}
	ErrFilterConfig         = &Error{Kind: KindFilterConfig}
)

// Error is the single error type returned by logid packages.
type Error struct {
	Kind    Kind
	Region  string
	Status  int
	Body    string
	Message string
	Err     error

	// Suggestions are similar valid values ("did you mean").
	Suggestions []string
	// Hints are remediation steps shown after the message.
	Hints       []string
	HelpCommand string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Region != "" {
		fmt.Fprintf(&b, " [region: %s]", e.Region)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.Status)
		if body := snippet(e.Body); body != "" {
			b.WriteString(": ")
			b.WriteString(body)
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nDid you mean one of these?\n")
		for _, s := range e.Suggestions {
			b.WriteString("  ")
			b.WriteString(s)
			b.WriteString("\n")
		}
	}

	if len(e.Hints) > 0 {
		b.WriteString("\n")
		for _, h := range e.Hints {
			b.WriteString("\n  ")
			b.WriteString(h)
		}
	}

	if e.HelpCommand != "" {
		b.WriteString("\nRun '")
		b.WriteString(e.HelpCommand)
		b.WriteString("' for more information.")
	}

	return b.String()
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain,
// or KindInternal if there is none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func snippet(body string) string {
	body = strings.TrimSpace(body)
	if len(body) > maxBodySnippet {
		cut := maxBodySnippet
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		return body[:cut] + "..."
	}
	return body
}

// UnsupportedRegion reports a region key outside the known set.
func UnsupportedRegion(key string, known []string) error {
	return &Error{
		Kind:        KindUnsupportedRegion,
		Message:     fmt.Sprintf("%q", key),
		Suggestions: findSimilar(key, known, 2),
		Hints:       []string{"Supported regions: " + strings.Join(known, ", ")},
		HelpCommand: "logid regions",
	}
}

// RegionNotConfigured reports a known region that has no log service endpoint.
func RegionNotConfigured(key string) error {
	return &Error{
		Kind:   KindRegionNotConfigured,
		Region: key,
		Hints:  []string{"This region has no log service endpoint yet; ask the log platform team for its configuration."},
	}
}

// MissingCredentials reports that neither the region-specific nor the
// generic session variable is set.
func MissingCredentials(key, sessionVar string) error {
	return &Error{
		Kind:    KindMissingCredentials,
		Region:  key,
		Message: fmt.Sprintf("%s or CAS_SESSION not set", sessionVar),
		Hints: []string{
			"Set the session cookie in the environment or in a .env file, e.g.:",
			fmt.Sprintf("  export %s=your_session_cookie", sessionVar),
		},
	}
}

// AuthenticationFailed reports a rejected token exchange.
func AuthenticationFailed(key string, status int, body string) error {
	return &Error{
		Kind:   KindAuthenticationFailed,
		Region: key,
		Status: status,
		Body:   body,
		Hints:  []string{"Check that the CAS_SESSION value is still valid."},
	}
}

// MissingToken reports a 2xx auth response without a token header.
func MissingToken(key, header string) error {
	return &Error{
		Kind:    KindAuthenticationFailed,
		Region:  key,
		Message: fmt.Sprintf("response has no %s header", header),
		Hints:   []string{"Check that the CAS_SESSION value is still valid."},
	}
}

// QueryFailed reports a non-2xx response from a log endpoint.
func QueryFailed(key string, status int, body string) error {
	return &Error{
		Kind:   KindQueryFailed,
		Region: key,
		Status: status,
		Body:   body,
		Hints:  []string{"Check that the log ID is correct, or retry later."},
	}
}

// MalformedResponse reports a 2xx log response that does not decode into
// the expected model.
func MalformedResponse(key string, err error) error {
	return &Error{
		Kind:    KindQueryFailed,
		Region:  key,
		Message: "malformed response",
		Err:     err,
	}
}

// Network reports a transport-level failure, including timeouts.
func Network(key string, err error) error {
	return &Error{
		Kind:   KindNetwork,
		Region: key,
		Err:    err,
		Hints:  []string{"Check network connectivity and proxy (HTTPS_PROXY / HTTP_PROXY) settings."},
	}
}

// FilterConfig reports an unusable redaction config or pattern.
func FilterConfig(message string, err error) error {
	return &Error{
		Kind:    KindFilterConfig,
		Message: message,
		Err:     err,
	}
}

// Internal wraps an unexpected failure.
func Internal(message string, err error) error {
	return &Error{
		Kind:    KindInternal,
		Message: message,
		Err:     err,
	}
}
