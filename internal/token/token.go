// Package token issues and verifies HMAC-signed, self-contained attempt
// tokens. Verification needs no storage round-trip; replay protection lives
// with the caller.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"flashcard-quiz-service/internal/domain"
)

const delimiter = ":"

// Service signs attempt tokens binding a question, a user, and an issuance
// time to a server-held secret.
type Service struct {
	secret        []byte
	expiry        time.Duration
	enforceExpiry bool
	now           func() time.Time
}

// NewService builds a token service. The expiry window is always embedded in
// issued tokens via the timestamp but only enforced when enforceExpiry is set.
func NewService(secret []byte, expiry time.Duration, enforceExpiry bool) *Service {
	return NewServiceWithClock(secret, expiry, enforceExpiry, time.Now)
}

// NewServiceWithClock allows deterministic timestamps in tests.
func NewServiceWithClock(secret []byte, expiry time.Duration, enforceExpiry bool, now func() time.Time) *Service {
	return &Service{secret: secret, expiry: expiry, enforceExpiry: enforceExpiry, now: now}
}

// Issue returns a signed token for one attempt at questionID by userID.
// IDs may not contain the payload delimiter.
func (s *Service) Issue(questionID, userID string) (string, error) {
	if strings.Contains(questionID, delimiter) || strings.Contains(userID, delimiter) {
		return "", fmt.Errorf("token fields may not contain %q", delimiter)
	}
	payload := questionID + delimiter + userID + delimiter + strconv.FormatInt(s.now().Unix(), 10)
	return base64.URLEncoding.EncodeToString([]byte(payload + delimiter + s.sign(payload))), nil
}

// Verify checks the token's signature and binding to userID and returns the
// embedded question ID. Failures map onto the domain error taxonomy; callers
// should surface them all as an invalid token without further detail.
func (s *Service) Verify(tok, userID string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(tok)
	if err != nil {
		return "", domain.ErrCorruptToken
	}
	parts := strings.Split(string(decoded), delimiter)
	if len(parts) != 4 {
		return "", domain.ErrCorruptToken
	}
	questionID, tokenUserID, timestamp, signature := parts[0], parts[1], parts[2], parts[3]

	payload := questionID + delimiter + tokenUserID + delimiter + timestamp
	if !hmac.Equal([]byte(signature), []byte(s.sign(payload))) {
		return "", domain.ErrInvalidSignature
	}
	if tokenUserID != userID {
		return "", domain.ErrUserMismatch
	}
	if s.enforceExpiry {
		issuedAt, err := strconv.ParseInt(timestamp, 10, 64)
		if err != nil {
			return "", domain.ErrCorruptToken
		}
		if s.now().Unix()-issuedAt > int64(s.expiry/time.Second) {
			return "", domain.ErrTokenExpired
		}
	}
	return questionID, nil
}

func (s *Service) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
