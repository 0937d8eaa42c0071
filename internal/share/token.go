// Package share signs and verifies quiz result tokens.
package share

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/flaggle/internal/apperr"
	"github.com/robalobadob/flaggle/internal/quiz"
)

type claims struct {
	Score  int  `json:"score"`
	Total  int  `json:"total"`
	Passed bool `json:"passed"`
	jwt.RegisteredClaims
}

// Signer issues HS256 tokens carrying a quiz result.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign encodes r for the quiz with id.
func (s *Signer) Sign(quizID string, r quiz.Result) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Score:  r.Score,
		Total:  r.Total,
		Passed: r.Passed,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   quizID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign share token: %w", err)
	}
	return ss, exp, nil
}

// Verify returns the result held by tok. Bad signatures, foreign algorithms
// and expired tokens are InvalidInput.
func (s *Signer) Verify(tok string) (quiz.Result, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tok, &c, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return quiz.Result{}, apperr.InvalidInput("share token expired")
		}
		return quiz.Result{}, apperr.InvalidInput("invalid share token")
	}
	return quiz.Result{Score: c.Score, Total: c.Total, Passed: c.Passed}, nil
}
