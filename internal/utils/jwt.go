package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

func (k TokenKind) String() string {
	if k == RefreshToken {
		return "refresh"
	}
	return "access"
}

// Principal is what a verified token says about its bearer.
type Principal struct {
	AdminID  uint
	Nickname string
	JTI      string
}

type TokenConfig struct {
	Algorithm     string
	AccessSecret  string
	AccessTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
}

// TokenCodec signs and verifies access and refresh tokens. Each kind has its
// own secret so one can never be accepted as the other.
type TokenCodec struct {
	method  jwt.SigningMethod
	secrets map[TokenKind][]byte
	ttls    map[TokenKind]time.Duration
	now     func() time.Time
}

func NewTokenCodec(cfg TokenConfig) (*TokenCodec, error) {
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported JWT algorithm %q, expected HS256, HS384 or HS512", cfg.Algorithm)
	}
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("token secrets must not be empty")
	}

	return &TokenCodec{
		method: method,
		secrets: map[TokenKind][]byte{
			AccessToken:  []byte(cfg.AccessSecret),
			RefreshToken: []byte(cfg.RefreshSecret),
		},
		ttls: map[TokenKind]time.Duration{
			AccessToken:  cfg.AccessTTL,
			RefreshToken: cfg.RefreshTTL,
		},
		now: time.Now,
	}, nil
}

// SetClock replaces the time source used for iat, exp and verification.
func (tc *TokenCodec) SetClock(now func() time.Time) {
	tc.now = now
}

func (tc *TokenCodec) IssueAccess(adminID uint, nickname, jti string) (string, error) {
	return tc.issue(AccessToken, adminID, nickname, jti)
}

func (tc *TokenCodec) IssueRefresh(adminID uint, nickname, jti string) (string, error) {
	return tc.issue(RefreshToken, adminID, nickname, jti)
}

func (tc *TokenCodec) issue(kind TokenKind, adminID uint, nickname, jti string) (string, error) {
	subject, err := json.Marshal([]interface{}{adminID, nickname})
	if err != nil {
		return "", err
	}

	now := tc.now()
	claims := jwt.RegisteredClaims{
		Subject:   string(subject),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttls[kind])),
		ID:        jti,
	}

	token := jwt.NewWithClaims(tc.method, claims)
	return token.SignedString(tc.secrets[kind])
}

// Decode verifies signature, algorithm and expiry of a token of the given
// kind. Expiry is reported as ErrExpiredToken; every other failure is
// ErrInvalidToken.
func (tc *TokenCodec) Decode(tokenStr string, kind TokenKind) (*Principal, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return tc.secrets[kind], nil
	},
		jwt.WithValidMethods([]string{tc.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tc.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	// The library check above covers well-formed tokens; this one also
	// catches an exp that is present but was not evaluated.
	if claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	if !tc.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrExpiredToken
	}

	adminID, nickname, err := parseSubject(claims.Subject)
	if err != nil || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return &Principal{AdminID: adminID, Nickname: nickname, JTI: claims.ID}, nil
}

func parseSubject(subject string) (uint, string, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal([]byte(subject), &parts); err != nil {
		return 0, "", err
	}
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("subject must have two elements, got %d", len(parts))
	}

	id, err := strconv.ParseUint(string(parts[0]), 10, 64)
	if err != nil {
		return 0, "", err
	}

	var nickname string
	if err := json.Unmarshal(parts[1], &nickname); err != nil {
		return 0, "", err
	}

	return uint(id), nickname, nil
}
