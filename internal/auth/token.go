// Package auth exchanges a region's session cookie for a short-lived bearer
// token and caches that token per region.
package auth

import "time"

// SafetyMargin is subtracted from a token's expiry before it is reused, so a
// token never expires on the remote side while a request is in flight.
const SafetyMargin = 5 * time.Minute

// DefaultLifetime is the nominal lifetime assigned to fetched tokens. The auth
// service does not report one, so this is policy, not server truth.
const DefaultLifetime = time.Hour

// Token is a bearer token and its assumed expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// NewToken returns a token issued at now that expires after lifetime.
func NewToken(value string, now time.Time, lifetime time.Duration) Token {
	return Token{Value: value, ExpiresAt: now.Add(lifetime)}
}

// Usable reports whether the token may be sent at now. The boundary
// now == ExpiresAt-SafetyMargin is not usable.
func (t Token) Usable(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt.Add(-SafetyMargin))
}
