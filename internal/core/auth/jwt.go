package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UID   string `json:"uid"`
	Role  string `json:"role"` // ADMIN / STAFF / CUSTOMER
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the numeric user id; service tokens carry none.
func (c *Claims) UserID() (uint, bool) {
	id, err := strconv.ParseUint(c.UID, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (j *JWTer) Issue(uid, role, email string) (string, error) {
	return j.issue(uid, role, email, j.TTL)
}

// IssueService mints a short-lived ADMIN token for calls one service makes to another
// when there is no end-user token to forward.
func (j *JWTer) IssueService(name string, ttl time.Duration) (string, error) {
	return j.issue("svc:"+name, "ADMIN", "", ttl)
}

func (j *JWTer) issue(uid, role, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:   uid,
		Role:  role,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))

	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

type tokenKey struct{}

// WithToken stores the caller's raw bearer token so outgoing service calls can forward it.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFrom(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey{}).(string)
	return s
}
