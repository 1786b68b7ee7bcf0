package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTer() *JWTer {
	return &JWTer{Secret: []byte("test-secret"), Issuer: "parking", TTL: time.Hour}
}

func TestIssueAndParse(t *testing.T) {
	j := newJWTer()
	tok, err := j.Issue("42", "CUSTOMER", "a@b.c")
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "CUSTOMER", c.Role)
	assert.Equal(t, "a@b.c", c.Email)
	id, ok := c.UserID()
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
}

func TestParseRejectsForeignIssuer(t *testing.T) {
	other := &JWTer{Secret: []byte("test-secret"), Issuer: "someone-else", TTL: time.Hour}
	tok, err := other.Issue("1", "ADMIN", "")
	require.NoError(t, err)

	_, err = newJWTer().Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	other := &JWTer{Secret: []byte("nope"), Issuer: "parking", TTL: time.Hour}
	tok, err := other.Issue("1", "ADMIN", "")
	require.NoError(t, err)

	_, err = newJWTer().Parse(tok)
	assert.Error(t, err)
}

func TestServiceTokenHasNoUserID(t *testing.T) {
	j := newJWTer()
	tok, err := j.IssueService("reservation-service", time.Minute)
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", c.Role)
	_, ok := c.UserID()
	assert.False(t, ok)
}

func TestTokenContext(t *testing.T) {
	ctx := WithToken(context.Background(), "abc")
	assert.Equal(t, "abc", TokenFrom(ctx))
	assert.Equal(t, "", TokenFrom(context.Background()))
}
