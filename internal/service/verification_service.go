package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-core/internal/dto"
	"github.com/noah-isme/classroom-core/internal/models"
	appErrors "github.com/noah-isme/classroom-core/pkg/errors"
)

// AddVerificationRequest files a course payment for the logged-in user. The user receives a
// pending enrollment and the request is queued for admin review.
func (s *SiteService) AddVerificationRequest(ctx context.Context, sess *Session, in dto.VerificationInput, screenshot *models.FileUpload) (*models.VerificationRequest, error) {
	var created *models.VerificationRequest
	err := s.run("add_verification_request", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		user, err := requireLoggedIn(sess)
		if err != nil {
			return err
		}
		if err := s.validate(in, "invalid verification payload"); err != nil {
			return err
		}
		if !screenshot.Present() {
			return appErrors.Clone(appErrors.ErrValidation, "payment screenshot is required")
		}
		ci := doc.CourseIndex(in.CourseID)
		if ci < 0 {
			return errNoop
		}

		previous, err := s.loadUsers(ctx)
		if err != nil {
			return err
		}
		users := models.CloneUsers(previous)
		ui := models.FindUser(users, user.Email)
		if ui < 0 {
			return appErrors.Clone(appErrors.ErrForbidden, "session user no longer exists")
		}
		// A pending enrollment without a queued request is left over from a users write whose
		// site write never landed. Filing again re-queues the request.
		requeue := false
		if e, exists := users[ui].Enrollment(in.CourseID); exists {
			if e.Status != models.EnrollmentStatusPending || queuedVerificationIndex(doc, users[ui].Email, in.CourseID) >= 0 {
				return appErrors.Clone(appErrors.ErrConflict, "an enrollment for this course already exists")
			}
			requeue = true
		}

		keys, err := s.blobs.upload(ctx, screenshot)
		if err != nil {
			return err
		}
		request := models.VerificationRequest{
			ID:            s.ids.Next(),
			UserName:      users[ui].Name,
			UserEmail:     users[ui].Email,
			CourseID:      in.CourseID,
			CourseName:    doc.Courses[ci].Name,
			TransactionID: in.TransactionID,
			ScreenshotKey: keys[0],
			RequestedAt:   s.now().UTC(),
		}
		doc.PendingVerifications = append(doc.PendingVerifications, request)
		if requeue {
			s.logger.Info("re-queueing verification for orphaned pending enrollment",
				zap.String("email", request.UserEmail), zap.Int64("course_id", in.CourseID))
			err = s.commit(ctx, doc, keys...)
		} else {
			users[ui].Enrollments = append(users[ui].Enrollments, models.Enrollment{CourseID: in.CourseID, Status: models.EnrollmentStatusPending})
			err = s.commitWithUsers(ctx, previous, users, doc, keys...)
		}
		if err != nil {
			return err
		}
		sess.refresh(users)
		created = &request
		return nil
	})
	return created, err
}

func queuedVerificationIndex(doc models.SiteDocument, email string, courseID int64) int {
	for i, request := range doc.PendingVerifications {
		if request.CourseID == courseID && strings.EqualFold(request.UserEmail, email) {
			return i
		}
	}
	return -1
}

func verificationIndex(doc models.SiteDocument, id int64) int {
	for i := range doc.PendingVerifications {
		if doc.PendingVerifications[i].ID == id {
			return i
		}
	}
	return -1
}

// ApproveVerification enrolls the requesting user, drops the request and releases the screenshot.
func (s *SiteService) ApproveVerification(ctx context.Context, sess *Session, verificationID int64) error {
	return s.resolveVerification(ctx, sess, "approve_verification", verificationID, func(user *models.User, courseID int64) bool {
		for i := range user.Enrollments {
			e := &user.Enrollments[i]
			if e.CourseID == courseID && e.Status == models.EnrollmentStatusPending {
				e.Status = models.EnrollmentStatusEnrolled
				return true
			}
		}
		return false
	})
}

// RejectVerification removes the pending enrollment, drops the request and releases the screenshot.
func (s *SiteService) RejectVerification(ctx context.Context, sess *Session, verificationID int64) error {
	return s.resolveVerification(ctx, sess, "reject_verification", verificationID, func(user *models.User, courseID int64) bool {
		kept := user.Enrollments[:0]
		changed := false
		for _, e := range user.Enrollments {
			if e.CourseID == courseID && e.Status == models.EnrollmentStatusPending {
				changed = true
				continue
			}
			kept = append(kept, e)
		}
		user.Enrollments = kept
		return changed
	})
}

func (s *SiteService) resolveVerification(ctx context.Context, sess *Session, name string, verificationID int64, apply func(user *models.User, courseID int64) bool) error {
	return s.run(name, func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireAdmin(sess); err != nil {
			return err
		}
		vi := verificationIndex(doc, verificationID)
		if vi < 0 {
			return errNoop
		}
		request := doc.PendingVerifications[vi]
		doc.PendingVerifications = append(doc.PendingVerifications[:vi], doc.PendingVerifications[vi+1:]...)

		previous, err := s.loadUsers(ctx)
		if err != nil {
			return err
		}
		users := models.CloneUsers(previous)
		changed := false
		if ui := models.FindUser(users, request.UserEmail); ui >= 0 {
			changed = apply(&users[ui], request.CourseID)
		} else {
			s.logger.Warn("verification request names an unknown user", zap.String("email", request.UserEmail), zap.Int64("request_id", request.ID))
		}

		if changed {
			err = s.commitWithUsers(ctx, previous, users, doc)
		} else {
			err = s.commit(ctx, doc)
		}
		if err != nil {
			return err
		}
		sess.refresh(users)
		_ = s.blobs.release(ctx, "payment verification resolved", request.ScreenshotKey)
		return nil
	})
}

func teacherRequestIndex(doc models.SiteDocument, id int64) int {
	for i := range doc.TeacherVerificationRequests {
		if doc.TeacherVerificationRequests[i].ID == id {
			return i
		}
	}
	return -1
}

// ApproveTeacherVerification approves the teacher, publishes a tutor profile carrying the
// request's photo and releases only the payment screenshot.
func (s *SiteService) ApproveTeacherVerification(ctx context.Context, sess *Session, requestID int64) error {
	return s.run("approve_teacher_verification", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireAdmin(sess); err != nil {
			return err
		}
		ri := teacherRequestIndex(doc, requestID)
		if ri < 0 {
			return errNoop
		}
		request := doc.TeacherVerificationRequests[ri]

		previous, err := s.loadUsers(ctx)
		if err != nil {
			return err
		}
		users := models.CloneUsers(previous)
		if ui := models.FindUser(users, request.UserEmail); ui >= 0 {
			users[ui].Status = models.UserStatusApproved
		} else {
			s.logger.Warn("teacher request names an unknown user", zap.String("email", request.UserEmail), zap.Int64("request_id", request.ID))
		}

		doc.Tutors = append(doc.Tutors, models.Tutor{
			ID:             s.ids.Next(),
			Name:           request.UserName,
			Designation:    request.Designation,
			Qualifications: request.Qualifications,
			Experience:     request.Experience,
			PhotoKey:       request.PhotoKey,
		})
		doc.TeacherVerificationRequests = append(doc.TeacherVerificationRequests[:ri], doc.TeacherVerificationRequests[ri+1:]...)
		if err := s.commitWithUsers(ctx, previous, users, doc); err != nil {
			return err
		}
		_ = s.blobs.release(ctx, "teacher verification approved", request.ScreenshotKey)
		return nil
	})
}

// RejectTeacherVerification deletes the pending teacher account, drops the request and
// releases both uploaded files.
func (s *SiteService) RejectTeacherVerification(ctx context.Context, sess *Session, requestID int64) error {
	return s.run("reject_teacher_verification", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireAdmin(sess); err != nil {
			return err
		}
		ri := teacherRequestIndex(doc, requestID)
		if ri < 0 {
			return errNoop
		}
		request := doc.TeacherVerificationRequests[ri]

		previous, err := s.loadUsers(ctx)
		if err != nil {
			return err
		}
		users := make([]models.User, 0, len(previous))
		for _, u := range previous {
			if u.HasEmail(request.UserEmail) && u.Role == models.RoleTeacher && u.Status == models.UserStatusPending {
				continue
			}
			users = append(users, u.Clone())
		}

		doc.TeacherVerificationRequests = append(doc.TeacherVerificationRequests[:ri], doc.TeacherVerificationRequests[ri+1:]...)
		if err := s.commitWithUsers(ctx, previous, users, doc); err != nil {
			return err
		}
		_ = s.blobs.release(ctx, "teacher verification rejected", request.ScreenshotKey, request.PhotoKey)
		return nil
	})
}
