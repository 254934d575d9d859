package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-core/internal/dto"
	"github.com/noah-isme/classroom-core/internal/models"
	appErrors "github.com/noah-isme/classroom-core/pkg/errors"
)

func filePayment(t *testing.T, f *fixture, sess *Session, courseID int64) models.VerificationRequest {
	t.Helper()
	req, err := f.site.AddVerificationRequest(context.Background(), sess, dto.VerificationInput{CourseID: courseID, TransactionID: "UPI-77"}, file("paid.png"))
	require.NoError(t, err)
	require.NotNil(t, req)
	return *req
}

func TestSiteServiceAddVerificationRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.studentSession(t, "s@x.io")
	course := f.doc(t).Courses[0]

	req := filePayment(t, f, student, course.ID)
	assert.Equal(t, course.Name, req.CourseName)
	assert.Equal(t, "s@x.io", req.UserEmail)
	assert.True(t, f.blobs.exists(t, req.ScreenshotKey))

	require.Len(t, f.doc(t).PendingVerifications, 1)
	users := f.storedUsers(t)
	require.Len(t, users, 1)
	assert.Equal(t, []models.Enrollment{{CourseID: course.ID, Status: models.EnrollmentStatusPending}}, users[0].Enrollments)

	cached, _ := student.User()
	assert.Len(t, cached.Enrollments, 1, "session sees the new enrollment")

	access, err := f.site.CourseAccess(ctx, student, course.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CourseAccessPending, access)

	_, err = f.site.AddVerificationRequest(ctx, student, dto.VerificationInput{CourseID: course.ID, TransactionID: "again"}, file("paid.png"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Len(t, f.doc(t).PendingVerifications, 1)
}

func TestSiteServiceAddVerificationRequestRequiresLogin(t *testing.T) {
	f := newFixture(t)
	courseID := f.doc(t).Courses[0].ID

	_, err := f.site.AddVerificationRequest(context.Background(), NewSession(), dto.VerificationInput{CourseID: courseID, TransactionID: "x"}, file("paid.png"))
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))

	student := f.studentSession(t, "s@x.io")
	_, err = f.site.AddVerificationRequest(context.Background(), student, dto.VerificationInput{CourseID: courseID, TransactionID: "x"}, nil)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
	assert.Zero(t, f.blobs.puts)
}

func TestSiteServiceApproveVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.studentSession(t, "s@x.io")
	admin := f.adminSession(t)
	courseID := f.doc(t).Courses[0].ID
	req := filePayment(t, f, student, courseID)

	require.NoError(t, f.site.ApproveVerification(ctx, admin, req.ID))
	require.NoError(t, f.site.ApproveVerification(ctx, admin, req.ID), "stale id is a no-op")

	assert.Empty(t, f.doc(t).PendingVerifications)
	assert.False(t, f.blobs.exists(t, req.ScreenshotKey))
	users := f.storedUsers(t)
	idx := models.FindUser(users, "s@x.io")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, []models.Enrollment{{CourseID: courseID, Status: models.EnrollmentStatusEnrolled}}, users[idx].Enrollments)

	access, err := f.site.CourseAccess(ctx, student, courseID)
	require.NoError(t, err)
	assert.Equal(t, models.CourseAccessEnrolled, access)
}

func TestSiteServiceRejectVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.studentSession(t, "s@x.io")
	admin := f.adminSession(t)
	courseID := f.doc(t).Courses[0].ID
	req := filePayment(t, f, student, courseID)

	err := f.site.RejectVerification(ctx, student, req.ID)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden.Code))

	require.NoError(t, f.site.RejectVerification(ctx, admin, req.ID))
	assert.Empty(t, f.doc(t).PendingVerifications)
	assert.False(t, f.blobs.exists(t, req.ScreenshotKey))

	users := f.storedUsers(t)
	assert.Empty(t, users[models.FindUser(users, "s@x.io")].Enrollments)
	access, err := f.site.CourseAccess(ctx, student, courseID)
	require.NoError(t, err)
	assert.Equal(t, models.CourseAccessNone, access)

	refiled := filePayment(t, f, student, courseID)
	assert.NotEqual(t, req.ID, refiled.ID, "a rejected student may file again")
}

func TestSiteServiceApproveTeacherVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.adminSession(t)
	_, err := f.auth.TeacherSignup(ctx, teacherSignup("t@x.io"), file("pay.png"), file("me.jpg"))
	require.NoError(t, err)
	request := f.doc(t).TeacherVerificationRequests[0]
	tutorsBefore := len(f.doc(t).Tutors)
	deletesBefore := f.blobs.deleteCount()

	require.NoError(t, f.site.ApproveTeacherVerification(ctx, admin, request.ID))
	require.NoError(t, f.site.ApproveTeacherVerification(ctx, admin, request.ID))

	doc := f.doc(t)
	require.Len(t, doc.Tutors, tutorsBefore+1)
	tutor := doc.Tutors[len(doc.Tutors)-1]
	assert.Equal(t, request.PhotoKey, tutor.PhotoKey)
	assert.Equal(t, "Teacher", tutor.Name)
	assert.Equal(t, "Lecturer", tutor.Designation)
	assert.Empty(t, doc.TeacherVerificationRequests)

	assert.Equal(t, deletesBefore+1, f.blobs.deleteCount(), "only the screenshot is released")
	assert.False(t, f.blobs.exists(t, request.ScreenshotKey))
	assert.True(t, f.blobs.exists(t, request.PhotoKey))

	users := f.storedUsers(t)
	assert.Equal(t, models.UserStatusApproved, users[models.FindUser(users, "t@x.io")].Status)
}

func TestSiteServiceRejectTeacherVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.adminSession(t)
	_, err := f.auth.TeacherSignup(ctx, teacherSignup("t@x.io"), file("pay.png"), file("me.jpg"))
	require.NoError(t, err)
	request := f.doc(t).TeacherVerificationRequests[0]

	require.NoError(t, f.site.RejectTeacherVerification(ctx, admin, request.ID))

	assert.Empty(t, f.doc(t).TeacherVerificationRequests)
	assert.Equal(t, -1, models.FindUser(f.storedUsers(t), "t@x.io"))
	assert.False(t, f.blobs.exists(t, request.ScreenshotKey))
	assert.False(t, f.blobs.exists(t, request.PhotoKey))

	_, err = f.auth.Signup(ctx, dto.SignupRequest{Name: "T", Email: "t@x.io", Password: "p", ConfirmPassword: "p"})
	assert.NoError(t, err, "the email is free again")
}

func TestSiteServiceRequeuesOrphanedPendingEnrollment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.studentSession(t, "s@x.io")
	courseID := f.doc(t).Courses[0].ID

	// users landed, the site write did not
	users := f.storedUsers(t)
	idx := models.FindUser(users, "s@x.io")
	users[idx].Enrollments = []models.Enrollment{{CourseID: courseID, Status: models.EnrollmentStatusPending}}
	require.NoError(t, f.docs.SaveUsers(ctx, users))
	require.Empty(t, f.doc(t).PendingVerifications)

	req := filePayment(t, f, student, courseID)
	queued := f.doc(t).PendingVerifications
	require.Len(t, queued, 1)
	assert.Equal(t, req.ID, queued[0].ID)
	stored := f.storedUsers(t)
	assert.Len(t, stored[models.FindUser(stored, "s@x.io")].Enrollments, 1, "no duplicate enrollment")

	_, err := f.site.AddVerificationRequest(ctx, student, dto.VerificationInput{CourseID: courseID, TransactionID: "again"}, file("paid.png"))
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConflict.Code))

	require.NoError(t, f.site.ApproveVerification(ctx, f.adminSession(t), req.ID))
	access, err := f.site.CourseAccess(ctx, student, courseID)
	require.NoError(t, err)
	assert.Equal(t, models.CourseAccessEnrolled, access)
}
