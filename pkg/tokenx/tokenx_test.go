package tokenx_test

import (
	"encoding/base64"
	"strconv"
	"testing"
	"time"

	"github.com/aussiebroadwan/botadmin/pkg/tokenx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func inspector() tokenx.Inspector {
	return tokenx.Inspector{Now: func() time.Time { return fixedNow }}
}

// signed mints an HS256 token; signatures are never checked by tokenx.
func signed(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

func withPayload(payload string) string {
	return "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid token", func(t *testing.T) {
		tok := signed(t, tokenx.Claims{
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour))},
			Username:         "a@b.com",
		})

		claims, ok := tokenx.Decode(tok)
		require.True(t, ok)
		require.Equal(t, "a@b.com", claims.Username)
		require.Equal(t, fixedNow.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("unicode claims", func(t *testing.T) {
		claims, ok := tokenx.Decode(withPayload(`{"username":"Nguyễn Văn A","exp":1}`))
		require.True(t, ok)
		require.Equal(t, "Nguyễn Văn A", claims.Username)
	})

	t.Run("padded segment", func(t *testing.T) {
		padded := base64.URLEncoding.EncodeToString([]byte(`{"exp":12}`))
		_, ok := tokenx.Decode("h." + padded + ".s")
		require.True(t, ok)
	})

	malformed := map[string]string{
		"empty":           "",
		"one segment":     "abc",
		"two segments":    "abc.def",
		"four segments":   "a.b.c.d",
		"bad base64":      "a.!!!.c",
		"not json":        withPayload("hello"),
		"json non-object": withPayload(`"hello"`),
		"exp wrong type":  withPayload(`{"exp":"tomorrow"}`),
	}
	for name, tok := range malformed {
		t.Run(name, func(t *testing.T) {
			claims, ok := tokenx.Decode(tok)
			require.False(t, ok)
			require.Nil(t, claims)
		})
	}
}

func TestIsExpired(t *testing.T) {
	t.Parallel()
	in := inspector()

	cases := []struct {
		name    string
		token   string
		expired bool
	}{
		{"fewer than three segments", "a.b", true},
		{"no exp claim", withPayload(`{"username":"x"}`), true},
		{"exp in the past", withPayload(`{"exp":` + itoa(fixedNow.Add(-10*time.Second).Unix()) + `}`), true},
		{"exp equals now", withPayload(`{"exp":` + itoa(fixedNow.Unix()) + `}`), true},
		{"exp in the future", withPayload(`{"exp":` + itoa(fixedNow.Add(time.Hour).Unix()) + `}`), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expired, in.IsExpired(tc.token))
		})
	}
}

func TestRemaining(t *testing.T) {
	t.Parallel()
	in := inspector()

	live := withPayload(`{"exp":` + itoa(fixedNow.Add(90*time.Second).Unix()) + `}`)
	require.Equal(t, 90*time.Second, in.Remaining(live))
	require.Equal(t, int64(90000), in.RemainingMillis(live))

	dead := withPayload(`{"exp":` + itoa(fixedNow.Add(-time.Minute).Unix()) + `}`)
	require.Zero(t, in.Remaining(dead))
	require.Zero(t, in.RemainingMillis("garbage"))
}

func TestIsExpiringSoon(t *testing.T) {
	t.Parallel()
	in := inspector()

	at := func(d time.Duration) string {
		return withPayload(`{"exp":` + itoa(fixedNow.Add(d).Unix()) + `}`)
	}

	require.True(t, in.IsExpiringSoon(at(4*time.Minute), 5))
	require.True(t, in.IsExpiringSoon(at(5*time.Minute), 5))
	require.False(t, in.IsExpiringSoon(at(6*time.Minute), 5))
	require.False(t, in.IsExpiringSoon(at(-time.Second), 5))
	require.False(t, in.IsExpiringSoon("garbage", 5))
}

func TestExpiredAndExpiringSoonAreExclusive(t *testing.T) {
	t.Parallel()
	in := inspector()

	for _, offset := range []time.Duration{-time.Hour, -time.Second, 0, time.Second, time.Minute, time.Hour} {
		tok := withPayload(`{"exp":` + itoa(fixedNow.Add(offset).Unix()) + `}`)
		for _, m := range []int{0, 1, 5, 120} {
			if in.IsExpired(tok) {
				require.False(t, in.IsExpiringSoon(tok, m), "offset=%s m=%d", offset, m)
			}
		}
	}
}

func TestWallClockHelpers(t *testing.T) {
	t.Parallel()

	tok := signed(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))})
	require.False(t, tokenx.IsExpired(tok))
	require.Greater(t, tokenx.Remaining(tok), 59*time.Minute)
	require.False(t, tokenx.IsExpiringSoon(tok, 5))
	require.True(t, tokenx.IsExpiringSoon(tok, 61))
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
