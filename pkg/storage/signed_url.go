package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidToken = errors.New("invalid blob token")
	ErrTokenExpired = errors.New("blob token expired")
)

// SignedURLSigner issues time-limited tokens that grant read access to one blob.
// The token carries the blob key and the display file name so a collaborator can
// resolve it without consulting the site document.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate returns a token for key and the instant it stops being valid.
func (s *SignedURLSigner) Generate(key, fileName string) (string, time.Time, error) {
	if !ValidKey(key) {
		return "", time.Time{}, fmt.Errorf("%w: malformed blob key", ErrInvalidToken)
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	exp := strconv.FormatInt(expiresAt.Unix(), 10)
	name := base64.RawURLEncoding.EncodeToString([]byte(fileName))
	token := strings.Join([]string{key, exp, name, s.sign(key, exp, name)}, ".")
	return token, expiresAt, nil
}

// Parse validates a token and returns the embedded blob key and file name.
// With allowExpired the expiry check is skipped.
func (s *SignedURLSigner) Parse(token string, allowExpired bool) (key, fileName string, expiresAt time.Time, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", "", time.Time{}, ErrInvalidToken
	}
	key, exp, name, signature := parts[0], parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(s.sign(key, exp, name)), []byte(signature)) {
		return "", "", time.Time{}, ErrInvalidToken
	}
	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return "", "", time.Time{}, ErrInvalidToken
	}
	rawName, err := base64.RawURLEncoding.DecodeString(name)
	if err != nil {
		return "", "", time.Time{}, ErrInvalidToken
	}
	expiresAt = time.Unix(expUnix, 0)
	if !allowExpired && !s.now().Before(expiresAt) {
		return "", "", time.Time{}, ErrTokenExpired
	}
	return key, string(rawName), expiresAt, nil
}

func (s *SignedURLSigner) sign(key, exp, name string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(key + "|" + exp + "|" + name))
	return hex.EncodeToString(mac.Sum(nil))
}
