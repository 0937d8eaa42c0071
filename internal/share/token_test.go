package share

import (
	"errors"
	"testing"
	"time"

	"github.com/robalobadob/flaggle/internal/apperr"
	"github.com/robalobadob/flaggle/internal/quiz"
)

func TestSignVerify(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	in := quiz.Result{Score: 8, Total: 10, Passed: true}
	tok, exp, err := s.Sign("quiz-1", in)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry in the past: %v", exp)
	}
	out, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v want %+v", out, in)
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	tok, _, err := NewSigner("one", time.Hour).Sign("q", quiz.Result{Score: 3, Total: 10})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewSigner("two", time.Hour).Verify(tok); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := NewSigner("one", time.Hour).Verify("garbage"); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	s := NewSigner("secret", time.Minute)
	base := time.Now()
	s.now = func() time.Time { return base }
	tok, _, err := s.Sign("q", quiz.Result{Score: 10, Total: 10, Passed: true})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := s.Verify(tok); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}
