package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession marks a persisted pointer that fails verification.
var ErrInvalidSession = errors.New("invalid session pointer")

const sessionIssuer = "classroom-core"

// SessionRepository persists the logged-in user pointer as a signed token in the session slot.
type SessionRepository struct {
	store  SlotStore
	secret []byte
}

// NewSessionRepository constructs a session repository signing with secret.
func NewSessionRepository(store SlotStore, secret string) *SessionRepository {
	return &SessionRepository{store: store, secret: []byte(secret)}
}

// Save stores a pointer to email.
func (r *SessionRepository) Save(ctx context.Context, email string) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:  sessionIssuer,
		Subject: email,
	})
	signed, err := token.SignedString(r.secret)
	if err != nil {
		return fmt.Errorf("sign session pointer: %w", err)
	}
	if err := r.store.Write(ctx, SlotSession, []byte(signed)); err != nil {
		return fmt.Errorf("write session pointer: %w", err)
	}
	return nil
}

// Load returns the email the pointer names. It returns ErrSlotEmpty when logged out
// and ErrInvalidSession when the stored token does not verify.
func (r *SessionRepository) Load(ctx context.Context) (string, error) {
	raw, err := r.store.Read(ctx, SlotSession)
	if err != nil {
		return "", err
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(string(raw), claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return r.secret, nil
	}, jwt.WithIssuer(sessionIssuer))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}

// Clear removes the pointer.
func (r *SessionRepository) Clear(ctx context.Context) error {
	if err := r.store.Clear(ctx, SlotSession); err != nil {
		return fmt.Errorf("clear session pointer: %w", err)
	}
	return nil
}
