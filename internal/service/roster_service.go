package service

import (
	"context"
	"sort"
	"strconv"

	"github.com/noah-isme/classroom-core/internal/models"
	"github.com/noah-isme/classroom-core/pkg/export"
)

var rosterHeaders = []string{"Course ID", "Course", "Student", "Email", "Status"}

// Roster tabulates every enrollment the session may see: all courses for an admin,
// owned courses for an approved teacher. Rows are ordered by course then email.
func (s *SiteService) Roster(ctx context.Context, sess *Session) (export.Dataset, error) {
	data := export.Dataset{Title: "Enrollment roster", Headers: rosterHeaders, Rows: [][]string{}}
	err := s.run("roster", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireCourseAuthor(sess); err != nil {
			return err
		}
		users, err := s.loadUsers(ctx)
		if err != nil {
			return err
		}
		data.Title = doc.ClassroomName + " enrollment roster"

		type entry struct {
			course models.Course
			user   models.User
			status models.EnrollmentStatus
		}
		var entries []entry
		for _, u := range users {
			for _, e := range u.Enrollments {
				ci := doc.CourseIndex(e.CourseID)
				if ci < 0 || !canManageCourse(sess, doc.Courses[ci]) {
					continue
				}
				entries = append(entries, entry{course: doc.Courses[ci], user: u, status: e.Status})
			}
		}
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].course.ID != entries[j].course.ID {
				return entries[i].course.ID < entries[j].course.ID
			}
			return entries[i].user.Email < entries[j].user.Email
		})
		for _, e := range entries {
			data.Rows = append(data.Rows, []string{
				strconv.FormatInt(e.course.ID, 10),
				e.course.Name,
				e.user.Name,
				e.user.Email,
				string(e.status),
			})
		}
		return nil
	})
	return data, err
}
