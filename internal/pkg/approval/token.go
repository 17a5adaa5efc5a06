package approval

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenType = "leave_action"

var (
	ErrTokenInvalid = errors.New("invalid approval token")
	ErrTokenExpired = errors.New("approval token expired")
)

// Claims binds a token to exactly one leave request and one action.
type Claims struct {
	EmployeeID   string
	RequestIndex int
	RequestID    string
	Action       string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

type Service interface {
	Generate(employeeID string, requestIndex int, requestID, action string) (token string, expiresAt time.Time, err error)
	Verify(token string) (Claims, error)
}

type TokenService struct {
	secret    []byte
	ttl       time.Duration
	tokenAuth *jwtauth.JWTAuth
	now       func() time.Time
}

type Option func(*TokenService)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(secret string, ttl time.Duration, opts ...Option) *TokenService {
	s := &TokenService{
		secret:    []byte(secret),
		ttl:       ttl,
		tokenAuth: jwtauth.New("HS256", []byte(secret), nil),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenService) Generate(employeeID string, requestIndex int, requestID, action string) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	_, tokenString, err := s.tokenAuth.Encode(map[string]interface{}{
		"employee_id":   employeeID,
		"request_index": requestIndex,
		"request_id":    requestID,
		"action":        action,
		"type":          tokenType,
		"iat":           issuedAt.Unix(),
		"exp":           expiresAt.Unix(),
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign approval token: %w", err)
	}

	return tokenString, time.Unix(expiresAt.Unix(), 0), nil
}

// Verify checks signature and expiry and returns the embedded claims.
// Expiry is reported as ErrTokenExpired, everything else as ErrTokenInvalid.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	token, err := jwt.Parse([]byte(tokenString), jwt.WithKey(jwa.HS256, s.secret), jwt.WithValidate(false))
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if err := jwt.Validate(token,
		jwt.WithClock(jwt.ClockFunc(s.now)),
		jwt.WithAcceptableSkew(30*time.Second),
		jwt.WithRequiredClaim("exp"),
	); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if t, ok := stringClaim(token, "type"); !ok || t != tokenType {
		return Claims{}, fmt.Errorf("%w: unexpected token type", ErrTokenInvalid)
	}

	claims := Claims{
		IssuedAt:  token.IssuedAt(),
		ExpiresAt: token.Expiration(),
	}
	var ok bool
	if claims.EmployeeID, ok = stringClaim(token, "employee_id"); !ok {
		return Claims{}, fmt.Errorf("%w: missing employee_id", ErrTokenInvalid)
	}
	if claims.RequestID, ok = stringClaim(token, "request_id"); !ok {
		return Claims{}, fmt.Errorf("%w: missing request_id", ErrTokenInvalid)
	}
	if claims.Action, ok = stringClaim(token, "action"); !ok {
		return Claims{}, fmt.Errorf("%w: missing action", ErrTokenInvalid)
	}
	if claims.RequestIndex, ok = intClaim(token, "request_index"); !ok {
		return Claims{}, fmt.Errorf("%w: missing request_index", ErrTokenInvalid)
	}

	return claims, nil
}

func stringClaim(token jwt.Token, name string) (string, bool) {
	v, ok := token.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func intClaim(token jwt.Token, name string) (int, bool) {
	v, ok := token.Get(name)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if n < 0 || n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, n >= 0
	case int64:
		return int(n), n >= 0
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil && i >= 0
	}
	return 0, false
}
