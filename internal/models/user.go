package models

import "strings"

// UserRole represents the available roles.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// Panel returns the capitalised role name used in login panel messages.
func (r UserRole) Panel() string {
	if r == "" {
		return ""
	}
	s := string(r)
	return strings.ToUpper(s[:1]) + s[1:]
}

// UserStatus is only meaningful for teachers; students and admins are always approved.
type UserStatus string

const (
	UserStatusApproved UserStatus = "approved"
	UserStatusPending  UserStatus = "pending"
)

// EnrollmentStatus tracks course access for one user.
type EnrollmentStatus string

const (
	EnrollmentStatusPending  EnrollmentStatus = "pending"
	EnrollmentStatusEnrolled EnrollmentStatus = "enrolled"
)

// Enrollment is a per-user, per-course access record.
type Enrollment struct {
	CourseID int64            `json:"courseId" yaml:"courseId"`
	Status   EnrollmentStatus `json:"status" yaml:"status"`
}

// User is an account record in the users document.
type User struct {
	Name        string       `json:"name" yaml:"name"`
	Email       string       `json:"email" yaml:"email"`
	Password    string       `json:"password" yaml:"-"`
	Role        UserRole     `json:"role" yaml:"role"`
	Status      UserStatus   `json:"status" yaml:"status"`
	Enrollments []Enrollment `json:"enrollments" yaml:"enrollments"`
}

// UserInfo is the outward view of a User. It never carries the password.
type UserInfo struct {
	Name        string       `json:"name" yaml:"name"`
	Email       string       `json:"email" yaml:"email"`
	Role        UserRole     `json:"role" yaml:"role"`
	Status      UserStatus   `json:"status" yaml:"status"`
	Enrollments []Enrollment `json:"enrollments" yaml:"enrollments"`
}

// Info returns the password-free view of u.
func (u User) Info() UserInfo {
	return UserInfo{
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Status:      u.Status,
		Enrollments: append([]Enrollment{}, u.Enrollments...),
	}
}

// NormalizeEmail is the canonical form used for identity comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasEmail compares emails case-insensitively.
func (u *User) HasEmail(email string) bool {
	return NormalizeEmail(u.Email) == NormalizeEmail(email)
}

// IsApprovedTeacher reports whether u may act as a teacher.
func (u *User) IsApprovedTeacher() bool {
	return u.Role == RoleTeacher && u.Status == UserStatusApproved
}

// Enrollment returns the enrollment record for courseID, if any.
func (u *User) Enrollment(courseID int64) (Enrollment, bool) {
	for _, e := range u.Enrollments {
		if e.CourseID == courseID {
			return e, true
		}
	}
	return Enrollment{}, false
}

// IsEnrolled reports whether u has confirmed access to courseID.
func (u *User) IsEnrolled(courseID int64) bool {
	e, ok := u.Enrollment(courseID)
	return ok && e.Status == EnrollmentStatusEnrolled
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	out := u
	out.Enrollments = append(make([]Enrollment, 0, len(u.Enrollments)), u.Enrollments...)
	return out
}

// FindUser returns the index of the user with email, or -1.
func FindUser(users []User, email string) int {
	for i := range users {
		if users[i].HasEmail(email) {
			return i
		}
	}
	return -1
}

// CloneUsers deep-copies a user list, normalising a nil list to empty.
func CloneUsers(users []User) []User {
	out := make([]User, len(users))
	for i, u := range users {
		out[i] = u.Clone()
	}
	return out
}
