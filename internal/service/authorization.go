package service

import (
	"github.com/noah-isme/classroom-core/internal/models"
	appErrors "github.com/noah-isme/classroom-core/pkg/errors"
)

func requireAdmin(sess *Session) error {
	if !sess.IsAdmin() {
		return appErrors.Clone(appErrors.ErrForbidden, "admin privileges required")
	}
	return nil
}

func requireLoggedIn(sess *Session) (models.User, error) {
	user, ok := sess.User()
	if !ok {
		return models.User{}, appErrors.Clone(appErrors.ErrForbidden, "login required")
	}
	return user, nil
}

// requireCourseAuthor admits admins and approved teachers.
func requireCourseAuthor(sess *Session) error {
	if sess.IsAdmin() || sess.IsApprovedTeacher() {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "admin or approved teacher privileges required")
}

// canManageCourse reports whether sess may edit course and its lectures.
func canManageCourse(sess *Session, course models.Course) bool {
	if sess.IsAdmin() {
		return true
	}
	if !sess.IsApprovedTeacher() || course.TeacherEmail == "" {
		return false
	}
	return models.NormalizeEmail(course.TeacherEmail) == models.NormalizeEmail(sess.Email())
}

func requireCourseManager(sess *Session, course models.Course) error {
	if !canManageCourse(sess, course) {
		return appErrors.Clone(appErrors.ErrForbidden, "you cannot manage this course")
	}
	return nil
}
