// Package tokenx evaluates the temporal validity of bearer tokens locally,
// without contacting the issuing server and without verifying signatures.
//
// Every helper fails safe: a token that cannot be decoded, or that carries no
// "exp" claim, is treated as expired.
package tokenx

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiryWarning is the threshold used by callers that do not pick one.
const DefaultExpiryWarning = 5 * time.Minute

// Claims is the subset of the access-token payload the console cares about.
type Claims struct {
	jwt.RegisteredClaims

	// Username and Email are informational only; nothing here is verified.
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// segmentParser tolerates padded base64url segments, as some issuers emit them.
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Inspector evaluates tokens against its clock. The zero value uses time.Now.
type Inspector struct {
	Now func() time.Time
}

func (i Inspector) now() time.Time {
	if i.Now != nil {
		return i.Now().UTC()
	}
	return time.Now().UTC()
}

// Decode returns the payload claims of token. It reports false for anything
// that is not three dot-separated segments with a base64url JSON object in the
// middle. Claims are decoded fresh on every call.
func Decode(token string) (*Claims, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, false
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, false
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, false
	}

	return &claims, true
}

// ExpiresAt returns the exp claim, if the token has one.
func ExpiresAt(token string) (time.Time, bool) {
	claims, ok := Decode(token)
	if !ok || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// IsExpired reports whether token is undecodable, lacks exp, or now >= exp.
func (i Inspector) IsExpired(token string) bool {
	exp, ok := ExpiresAt(token)
	if !ok {
		return true
	}
	return !i.now().Before(exp)
}

// Remaining returns the time left before expiry; zero if expired or undecodable.
func (i Inspector) Remaining(token string) time.Duration {
	exp, ok := ExpiresAt(token)
	if !ok {
		return 0
	}

	remaining := exp.Sub(i.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RemainingMillis is Remaining expressed in whole milliseconds.
func (i Inspector) RemainingMillis(token string) int64 {
	return i.Remaining(token).Milliseconds()
}

// IsExpiringSoon reports whether 0 < remaining <= thresholdMinutes. An expired
// token is expired, never "expiring soon".
func (i Inspector) IsExpiringSoon(token string, thresholdMinutes int) bool {
	remaining := i.Remaining(token)
	threshold := time.Duration(thresholdMinutes) * time.Minute

	return remaining > 0 && remaining <= threshold
}

var wallClock Inspector

func IsExpired(token string) bool { return wallClock.IsExpired(token) }

func Remaining(token string) time.Duration { return wallClock.Remaining(token) }

func RemainingMillis(token string) int64 { return wallClock.RemainingMillis(token) }

func IsExpiringSoon(token string, thresholdMinutes int) bool {
	return wallClock.IsExpiringSoon(token, thresholdMinutes)
}
