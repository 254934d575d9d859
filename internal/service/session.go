package service

import (
	"sync"

	"github.com/noah-isme/classroom-core/internal/models"
)

// Session is the explicit login state passed into every operation.
// The zero value is an anonymous session.
type Session struct {
	mu   sync.RWMutex
	user *models.User
}

// NewSession returns an anonymous session.
func NewSession() *Session {
	return &Session{}
}

// User returns a copy of the logged-in user.
func (s *Session) User() (models.User, bool) {
	if s == nil {
		return models.User{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return s.user.Clone(), true
}

func (s *Session) IsLoggedIn() bool {
	_, ok := s.User()
	return ok
}

// IsAdmin is derived from the user role.
func (s *Session) IsAdmin() bool {
	u, ok := s.User()
	return ok && u.Role == models.RoleAdmin
}

// IsApprovedTeacher is derived from the user role and status.
func (s *Session) IsApprovedTeacher() bool {
	u, ok := s.User()
	return ok && u.IsApprovedTeacher()
}

// Email returns the logged-in email or an empty string.
func (s *Session) Email() string {
	u, _ := s.User()
	return u.Email
}

func (s *Session) set(user models.User) {
	u := user.Clone()
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
}

func (s *Session) clear() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

// refresh replaces the cached user record when it still names the same account.
func (s *Session) refresh(users []models.User) {
	email := s.Email()
	if email == "" {
		return
	}
	if idx := models.FindUser(users, email); idx >= 0 {
		s.set(users[idx])
	}
}
