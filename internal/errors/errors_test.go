package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "a", 1},
		{"abc", "abc", 0},
		{"abc", "ab", 1},
		{"abc", "abd", 1},
		{"kitten", "sitting", 3},
		{"i18", "i18n", 1},
		{"usa", "us", 1},
	}

	for _, tc := range tests {
		got := levenshtein(tc.a, tc.b)
		if got != tc.expected {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.expected)
		}
	}
}

func TestFindSimilar(t *testing.T) {
	candidates := []string{"cn", "i18n", "us"}

	tests := []struct {
		target string
		want   string
	}{
		{"i18", "i18n"},
		{"usa", "us"},
		{"CN", "cn"},
	}

	for _, tc := range tests {
		got := findSimilar(tc.target, candidates, 2)
		if len(got) == 0 || got[0] != tc.want {
			t.Errorf("findSimilar(%q) = %v, want first %q", tc.target, got, tc.want)
		}
	}
}

func TestUnsupportedRegionError(t *testing.T) {
	err := UnsupportedRegion("i18", []string{"cn", "i18n", "us"})

	errStr := err.Error()
	if !strings.HasPrefix(errStr, "unsupported region") {
		t.Errorf("unexpected message: %s", errStr)
	}
	if !strings.Contains(errStr, "i18n") {
		t.Errorf("error should suggest similar region: %s", errStr)
	}
	if !strings.Contains(errStr, "logid regions") {
		t.Errorf("error should suggest help command: %s", errStr)
	}
	if !stderrors.Is(err, ErrUnsupportedRegion) {
		t.Error("expected errors.Is to match ErrUnsupportedRegion")
	}
	if stderrors.Is(err, ErrRegionNotConfigured) {
		t.Error("unsupported region must be distinguishable from not configured")
	}
}

func TestQueryFailedCarriesContext(t *testing.T) {
	err := QueryFailed("us", 502, "bad gateway")

	var e *Error
	if !stderrors.As(err, &e) {
		t.Fatal("expected *Error")
	}
	if e.Region != "us" || e.Status != 502 || e.Body != "bad gateway" {
		t.Errorf("unexpected fields: %+v", e)
	}

	msg := err.Error()
	for _, want := range []string{"us", "HTTP 502", "bad gateway"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q should contain %q", msg, want)
		}
	}
}

func TestErrorTruncatesLongBody(t *testing.T) {
	body := strings.Repeat("x", maxBodySnippet*2)
	err := AuthenticationFailed("i18n", 401, body)

	if strings.Contains(err.Error(), body) {
		t.Error("expected body to be truncated in message")
	}
	var e *Error
	stderrors.As(err, &e)
	if e.Body != body {
		t.Error("expected full body to be preserved")
	}
}

func TestSnippetKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"rune straddles the limit", strings.Repeat("a", maxBodySnippet-1) + "中文", strings.Repeat("a", maxBodySnippet-1) + "..."},
		{"rune ends at the limit", strings.Repeat("a", maxBodySnippet-3) + "中文", strings.Repeat("a", maxBodySnippet-3) + "中..."},
		{"short body untouched", "服务错误", "服务错误"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := snippet(tt.body)
			if !utf8.ValidString(got) {
				t.Fatalf("snippet produced invalid UTF-8: %q", got)
			}
			if got != tt.want {
				t.Errorf("snippet() = %q, want %q", got, tt.want)
			}
		})
	}

	msg := QueryFailed("us", 500, strings.Repeat("a", maxBodySnippet-1)+"中文").Error()
	if !utf8.ValidString(msg) {
		t.Errorf("Error() is not valid UTF-8: %q", msg)
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Network("us", stderrors.New("timeout")))

	if got := KindOf(wrapped); got != KindNetwork {
		t.Errorf("KindOf = %v, want %v", got, KindNetwork)
	}
	if got := KindOf(stderrors.New("plain")); got != KindInternal {
		t.Errorf("KindOf(plain) = %v, want %v", got, KindInternal)
	}
}

func TestMissingCredentialsNamesVariable(t *testing.T) {
	err := MissingCredentials("us", "CAS_SESSION_US")
	if !strings.Contains(err.Error(), "CAS_SESSION_US") {
		t.Errorf("error should name the region variable: %s", err)
	}
}
