package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ErlanBelekov/job-tracker/internal/domain"
	"github.com/ErlanBelekov/job-tracker/internal/token"
	"github.com/golang-jwt/jwt/v5"
)

const testKey = "token-test-secret-at-least-32-chars!"

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc := token.NewService([]byte(testKey), 0)

	tok, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != "user-1" {
		t.Errorf("user id = %q, want user-1", got)
	}
}

func TestVerify_ExpiresThirtyDaysAfterIssue(t *testing.T) {
	issuedAt := time.Unix(1_700_000_000, 0)
	clock := &fakeClock{t: issuedAt}
	svc := token.NewService([]byte(testKey), token.DefaultTTL, token.WithClock(clock.Now))

	tok, err := svc.Issue("user-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for _, offset := range []time.Duration{0, time.Hour, 29 * 24 * time.Hour, token.DefaultTTL - time.Second} {
		clock.t = issuedAt.Add(offset)
		if _, err := svc.Verify(tok); err != nil {
			t.Errorf("at T+%s: unexpected error %v", offset, err)
		}
	}

	for _, offset := range []time.Duration{token.DefaultTTL, token.DefaultTTL + time.Second, 60 * 24 * time.Hour} {
		clock.t = issuedAt.Add(offset)
		if _, err := svc.Verify(tok); !errors.Is(err, domain.ErrTokenExpired) {
			t.Errorf("at T+%s: err = %v, want ErrTokenExpired", offset, err)
		}
	}
}

func TestVerify_WrongKey(t *testing.T) {
	tok, _ := token.NewService([]byte("another-secret-that-is-32-chars!!"), 0).Issue("user-1")

	_, err := token.NewService([]byte(testKey), 0).Verify(tok)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	_, err := token.NewService([]byte(testKey), 0).Verify("not.a.jwt")
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = token.NewService([]byte(testKey), 0).Verify(tok)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))

	_, err := token.NewService([]byte(testKey), 0).Verify(tok)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerify_MissingExpiry(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: "user-1"}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testKey))

	_, err := token.NewService([]byte(testKey), 0).Verify(tok)
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}
