// Package client calls the other services over HTTP.
//
// Calls carry the caller's bearer token when the context has one, a short lived
// service token otherwise. Idempotent calls are retried on transport errors and 5xx.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-parking-lot/internal/core/auth"
	"go-parking-lot/internal/core/errs"
)

type Options struct {
	BaseURL string
	Timeout time.Duration // per attempt
	Retries int           // extra attempts for idempotent calls
	Backoff time.Duration // multiplied by the attempt number
	Caller  string        // service name put in service tokens
	// ServiceTokenOnly ignores the caller's token and always signs a service token.
	ServiceTokenOnly bool
	JWT              *auth.JWTer
	ServiceTTL       time.Duration
	HTTP             *http.Client
	Logger           *zap.Logger
}

// MaxCallTime bounds one idempotent call: every attempt timing out plus the
// backoff between attempts. Locks held across a call must outlive it.
func (o Options) MaxCallTime() time.Duration {
	timeout, backoff := o.Timeout, o.Backoff
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	n := max(0, o.Retries)
	return time.Duration(n+1)*timeout + time.Duration(n*(n+1)/2)*backoff
}

type base struct {
	name string // target, for messages
	o    Options
}

func newBase(name string, o Options) base {
	if o.HTTP == nil {
		o.HTTP = &http.Client{}
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	if o.Backoff <= 0 {
		o.Backoff = 100 * time.Millisecond
	}
	if o.ServiceTTL <= 0 {
		o.ServiceTTL = 5 * time.Minute
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	return base{name: name, o: o}
}

// statusError is a non-2xx answer.
type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string { return fmt.Sprintf("status %d: %s", e.code, e.msg) }

func (b *base) call(ctx context.Context, method, path string, in, out any, idempotent bool) error {
	attempts := 1
	if idempotent {
		attempts += max(0, b.o.Retries)
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return errs.Upstream(b.name+" unavailable", ctx.Err())
			case <-time.After(time.Duration(i) * b.o.Backoff):
			}
		}
		err = b.once(ctx, method, path, in, out)
		if err == nil || !retryable(err) {
			break
		}
		b.o.Logger.Warn("service call failed",
			zap.String("target", b.name), zap.String("method", method), zap.String("path", path),
			zap.Int("attempt", i+1), zap.Error(err))
	}
	return b.translate(err)
}

func (b *base) once(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, b.o.Timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, b.o.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tok, err := b.token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	res, err := b.o.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &statusError{code: res.StatusCode, msg: messageOf(raw)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (b *base) token(ctx context.Context) (string, error) {
	if t := auth.TokenFrom(ctx); t != "" && !b.o.ServiceTokenOnly {
		return t, nil
	}
	if b.o.JWT == nil {
		return "", errors.New("no token to forward and no signer configured")
	}
	return b.o.JWT.IssueService(b.o.Caller, b.o.ServiceTTL)
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	var je *json.SyntaxError
	return !errors.As(err, &je)
}

// translate keeps 4xx answers (404 stays a 404) and turns everything else into a 502.
func (b *base) translate(err error) error {
	if err == nil {
		return nil
	}
	var se *statusError
	if errors.As(err, &se) && se.code >= 400 && se.code < 500 {
		msg := se.msg
		if msg == "" {
			msg = b.name + " rejected the request"
		}
		return &errs.Error{Code: se.code, Msg: msg, Err: err}
	}
	return errs.Upstream(b.name+" unavailable", err)
}

func messageOf(raw []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &env) == nil {
		return env.Message
	}
	return ""
}
