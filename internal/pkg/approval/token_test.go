package approval

import (
	"strings"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "approval-secret"

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestService(clock *fakeClock) *TokenService {
	return NewTokenService(testSecret, 7*24*time.Hour, WithClock(clock.Now))
}

func TestGenerateAndVerify(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(clock)

	token, expiresAt, err := svc.Generate("emp-1", 3, "req-1", "Approved")
	require.NoError(t, err)
	assert.Equal(t, clock.t.Add(7*24*time.Hour), expiresAt)

	clock.t = clock.t.Add(6 * 24 * time.Hour)
	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims.EmployeeID)
	assert.Equal(t, 3, claims.RequestIndex)
	assert.Equal(t, "req-1", claims.RequestID)
	assert.Equal(t, "Approved", claims.Action)
	assert.True(t, claims.ExpiresAt.Equal(expiresAt))
}

func TestVerify_Expired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(clock)

	token, _, err := svc.Generate("emp-1", 0, "req-1", "Rejected")
	require.NoError(t, err)

	clock.t = clock.t.Add(7*24*time.Hour + time.Hour)
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Invalid(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTestService(clock)

	token, _, err := svc.Generate("emp-1", 0, "req-1", "Approved")
	require.NoError(t, err)

	other := NewTokenService("another-secret", time.Hour, WithClock(clock.Now))
	foreign, _, err := other.Generate("emp-1", 0, "req-1", "Approved")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, wrongType, err := jwtauth.New("HS256", []byte(testSecret), nil).Encode(map[string]interface{}{
		"employee_id":   "emp-1",
		"request_index": 0,
		"request_id":    "req-1",
		"action":        "Approved",
		"type":          "access",
		"exp":           clock.t.Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, missingClaims, err := jwtauth.New("HS256", []byte(testSecret), nil).Encode(map[string]interface{}{
		"type": tokenType,
		"exp":  clock.t.Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	cases := map[string]string{
		"garbage":        "not-a-token",
		"empty":          "",
		"tampered":       tampered,
		"wrong secret":   foreign,
		"wrong type":     wrongType,
		"missing claims": missingClaims,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Verify(tok)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}
