package auth

import (
	"testing"
	"time"
)

func TestTokenUsable(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tok := NewToken("abc", issued, time.Hour)
	boundary := tok.ExpiresAt.Add(-SafetyMargin)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"just issued", issued, true},
		{"one nanosecond before boundary", boundary.Add(-time.Nanosecond), true},
		{"exactly at boundary", boundary, false},
		{"inside safety margin", boundary.Add(time.Minute), false},
		{"after expiry", tok.ExpiresAt.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tok.Usable(tt.now); got != tt.want {
				t.Errorf("Usable(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestShortLivedTokenNeverUsable(t *testing.T) {
	now := time.Now()
	tok := NewToken("abc", now, 200*time.Second)
	if tok.Usable(now) {
		t.Error("a token living less than the safety margin should not be usable")
	}
}

func TestEmptyTokenNotUsable(t *testing.T) {
	now := time.Now()
	if (Token{ExpiresAt: now.Add(time.Hour)}).Usable(now) {
		t.Error("empty token value should not be usable")
	}
}
