// Package token issues and verifies the JWTs guarding the logs API.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Manager signs and validates JWTs.
type Manager struct {
	method   jwt.SigningMethod
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	leeway   time.Duration
}

// Options configure the token manager.
type Options struct {
	SigningKey []byte
	Issuer     string
	Audience   string
	TTL        time.Duration
	Leeway     time.Duration
	SigningAlg string
}

// Claims holds the registered JWT claims plus token metadata.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type,omitempty"`
}

// IssueInput defines the overridable parameters when issuing a token.
type IssueInput struct {
	Subject   string
	TokenType string
	TTL       time.Duration
}

var (
	// ErrInvalidToken indicates parsing or validation failed.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates the token is past its allowed expiry.
	ErrExpiredToken = errors.New("token expired")
)

// NewManager assembles a JWT manager; HS256 is used when SigningAlg is empty.
func NewManager(opts Options) (*Manager, error) {
	if len(opts.SigningKey) == 0 {
		return nil, fmt.Errorf("signing key is required")
	}
	method := jwt.GetSigningMethod(strings.ToUpper(strings.TrimSpace(opts.SigningAlg)))
	if method == nil {
		method = jwt.SigningMethodHS256
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	leeway := opts.Leeway
	if leeway < 0 {
		leeway = 0
	}
	return &Manager{
		method:   method,
		secret:   append([]byte(nil), opts.SigningKey...),
		issuer:   strings.TrimSpace(opts.Issuer),
		audience: strings.TrimSpace(opts.Audience),
		ttl:      ttl,
		leeway:   leeway,
	}, nil
}

// Issue signs a JWT with the manager defaults plus optional overrides.
func (m *Manager) Issue(input IssueInput) (string, *Claims, error) {
	if m == nil {
		return "", nil, fmt.Errorf("token manager not initialized")
	}
	if strings.TrimSpace(input.Subject) == "" {
		return "", nil, fmt.Errorf("token subject is required")
	}
	ttl := input.TTL
	if ttl <= 0 {
		ttl = m.ttl
	}

	now := time.Now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   input.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: input.TokenType,
	}
	if m.audience != "" {
		claims.Audience = jwt.ClaimStrings{m.audience}
	}

	token := jwt.NewWithClaims(m.method, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse validates a JWT string and returns the decoded claims.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	if m == nil {
		return nil, fmt.Errorf("token manager not initialized")
	}
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{m.method.Alg()}))
	parsed, err := parser.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if err := m.validateClaims(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *Manager) validateClaims(claims *Claims) error {
	now := time.Now().UTC()
	if claims.ExpiresAt == nil || now.After(claims.ExpiresAt.Add(m.leeway)) {
		return ErrExpiredToken
	}
	if claims.IssuedAt != nil && claims.IssuedAt.Time.After(now.Add(m.leeway)) {
		return ErrInvalidToken
	}
	if m.issuer != "" && claims.Issuer != m.issuer {
		return ErrInvalidToken
	}
	if m.audience != "" {
		allowed := false
		for _, aud := range claims.Audience {
			if aud == m.audience {
				allowed = true
				break
			}
		}
		if !allowed {
			return ErrInvalidToken
		}
	}
	return nil
}
