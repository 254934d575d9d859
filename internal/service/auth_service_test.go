package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-core/internal/dto"
	"github.com/noah-isme/classroom-core/internal/models"
	"github.com/noah-isme/classroom-core/internal/repository"
	appErrors "github.com/noah-isme/classroom-core/pkg/errors"
)

func TestAuthServiceSignupThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.auth.Signup(ctx, dto.SignupRequest{Name: "Asha", Email: "Asha@Example.com", Password: "secret", ConfirmPassword: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", created.Email)

	sess := NewSession()
	user, err := f.auth.Login(ctx, sess, dto.LoginRequest{Email: "ASHA@example.com", Password: "secret", Role: models.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Equal(t, models.UserStatusApproved, user.Status)
	assert.True(t, sess.IsLoggedIn())
	assert.False(t, sess.IsAdmin())
	assert.False(t, sess.IsApprovedTeacher())
	assert.Equal(t, []time.Duration{500 * time.Millisecond}, f.slept)

	email, err := f.sessions.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", email)
}

func TestAuthServiceSignupValidation(t *testing.T) {
	f := newFixture(t)
	cases := map[string]dto.SignupRequest{
		"missing name":      {Email: "a@x.io", Password: "p", ConfirmPassword: "p"},
		"bad email":         {Name: "A", Email: "nope", Password: "p", ConfirmPassword: "p"},
		"mismatch":          {Name: "A", Email: "a@x.io", Password: "p", ConfirmPassword: "q"},
		"missing passwords": {Name: "A", Email: "a@x.io"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.auth.Signup(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
	assert.Empty(t, f.storedUsers(t))
}

func TestAuthServiceSignupDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Signup(ctx, dto.SignupRequest{Name: "A", Email: "a@x.io", Password: "p", ConfirmPassword: "p"})
	require.NoError(t, err)

	_, err = f.auth.Signup(ctx, dto.SignupRequest{Name: "B", Email: "A@X.IO", Password: "q", ConfirmPassword: "q"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "An account with this email already exists.", appErr.Message)
	assert.Len(t, f.storedUsers(t), 1)
}

func TestAuthServiceLoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Signup(ctx, dto.SignupRequest{Name: "A", Email: "a@x.io", Password: "p", ConfirmPassword: "p"})
	require.NoError(t, err)

	cases := []struct {
		name    string
		req     dto.LoginRequest
		message string
	}{
		{"wrong password", dto.LoginRequest{Email: "a@x.io", Password: "x", Role: models.RoleStudent}, "Invalid email or password."},
		{"unknown email", dto.LoginRequest{Email: "b@x.io", Password: "p", Role: models.RoleStudent}, "Invalid email or password."},
		{"wrong panel", dto.LoginRequest{Email: "a@x.io", Password: "p", Role: models.RoleTeacher}, "Please use the Student login panel."},
		{"admin panel with other email", dto.LoginRequest{Email: "a@x.io", Password: "p", Role: models.RoleAdmin}, "Only the admin email can be used here."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sess := NewSession()
			_, err := f.auth.Login(ctx, sess, tc.req)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrAuth.Code, appErr.Code)
			assert.Equal(t, tc.message, appErr.Message)
			assert.False(t, sess.IsLoggedIn())
		})
	}
}

func TestAuthServiceAdminBootstrap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess := NewSession()
	_, err := f.auth.Login(ctx, sess, dto.LoginRequest{Email: testAdminEmail, Password: "wrong", Role: models.RoleAdmin})
	require.Error(t, err)
	assert.Equal(t, "Invalid password for admin.", appErrors.FromError(err).Message)
	assert.Empty(t, f.storedUsers(t))

	admin, err := f.auth.Login(ctx, sess, dto.LoginRequest{Email: "Admin@Classroom.Test", Password: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, sess.IsAdmin())
	users := f.storedUsers(t)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Password)
	assert.Equal(t, "Admin", users[0].Name)

	replay := NewSession()
	_, err = f.auth.Login(ctx, replay, dto.LoginRequest{Email: testAdminEmail, Password: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, f.storedUsers(t), 1)

	_, err = f.auth.Login(ctx, NewSession(), dto.LoginRequest{Email: testAdminEmail, Password: "other", Role: models.RoleAdmin})
	require.Error(t, err)
	assert.Equal(t, "Invalid password for admin.", appErrors.FromError(err).Message)
}

func TestAuthServiceAdminEmailWithoutPrivileges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.Signup(ctx, dto.SignupRequest{Name: "S", Email: testAdminEmail, Password: "admin", ConfirmPassword: "admin"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, NewSession(), dto.LoginRequest{Email: testAdminEmail, Password: "admin", Role: models.RoleAdmin})
	require.Error(t, err)
	assert.Equal(t, "This account does not have admin privileges.", appErrors.FromError(err).Message)
}

func TestAuthServiceTeacherPendingUntilApproved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	teacher, err := f.auth.TeacherSignup(ctx, teacherSignup("T@School.io"), file("pay.png"), file("me.jpg"))
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusPending, teacher.Status)
	assert.Equal(t, "t@school.io", teacher.Email)

	login := dto.LoginRequest{Email: "t@school.io", Password: "pw", Role: models.RoleTeacher}
	_, err = f.auth.Login(ctx, NewSession(), login)
	require.Error(t, err)
	assert.Equal(t, "Your teacher account is pending approval.", appErrors.FromError(err).Message)

	requests := f.doc(t).TeacherVerificationRequests
	require.Len(t, requests, 1)
	assert.Equal(t, "t@school.io", requests[0].UserEmail)
	assert.True(t, f.blobs.exists(t, requests[0].ScreenshotKey))
	assert.True(t, f.blobs.exists(t, requests[0].PhotoKey))

	require.NoError(t, f.site.ApproveTeacherVerification(ctx, f.adminSession(t), requests[0].ID))

	sess := NewSession()
	user, err := f.auth.Login(ctx, sess, login)
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusApproved, user.Status)
	assert.True(t, sess.IsApprovedTeacher())
}

func TestAuthServiceTeacherSignupRequiresFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.TeacherSignup(ctx, teacherSignup("t@x.io"), nil, file("me.jpg"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = f.auth.TeacherSignup(ctx, teacherSignup("t@x.io"), file("pay.png"), nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	bad := teacherSignup("t@x.io")
	bad.TransactionID = ""
	_, err = f.auth.TeacherSignup(ctx, bad, file("pay.png"), file("me.jpg"))
	require.Error(t, err)

	assert.Zero(t, f.blobs.puts)
	assert.Empty(t, f.storedUsers(t))
}

func TestAuthServiceTeacherSignupNotLoaded(t *testing.T) {
	f := newUnloadedFixture(t)
	user, err := f.auth.TeacherSignup(context.Background(), teacherSignup("t@x.io"), file("pay.png"), file("me.jpg"))
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Zero(t, f.blobs.puts)
	assert.Empty(t, f.storedUsers(t))
}

func TestAuthServiceTeacherSignupRollsBackOnSiteFailure(t *testing.T) {
	f := newFixture(t)
	f.docs.siteErr = errors.New("disk full")

	_, err := f.auth.TeacherSignup(context.Background(), teacherSignup("t@x.io"), file("pay.png"), file("me.jpg"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStorage.Code, appErrors.FromError(err).Code)

	assert.Empty(t, f.storedUsers(t))
	assert.Empty(t, f.doc(t).TeacherVerificationRequests)
	assert.Zero(t, f.blobs.Len(), "uploaded files are discarded")
}

func TestAuthServiceTeacherSignupPutFailure(t *testing.T) {
	f := newFixture(t)
	f.blobs.putErr = errors.New("quota exceeded")

	_, err := f.auth.TeacherSignup(context.Background(), teacherSignup("t@x.io"), file("pay.png"), file("me.jpg"))
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrStorage.Code))
	assert.Empty(t, f.storedUsers(t))
	assert.Zero(t, f.docs.siteSaves)
}

func TestAuthServiceLogoutAndRestore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.studentSession(t, "s@x.io")

	restored := NewSession()
	user, err := f.auth.Restore(ctx, restored)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "s@x.io", restored.Email())

	f.auth.Logout(ctx, sess)
	assert.False(t, sess.IsLoggedIn())
	_, err = f.sessions.Load(ctx)
	assert.ErrorIs(t, err, repository.ErrSlotEmpty)

	again := NewSession()
	user, err = f.auth.Restore(ctx, again)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.False(t, again.IsLoggedIn())
}

func TestAuthServiceRestoreDanglingPointer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sessions.Save(ctx, "ghost@x.io"))

	sess := NewSession()
	user, err := f.auth.Restore(ctx, sess)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.False(t, sess.IsLoggedIn())
	_, err = f.sessions.Load(ctx)
	assert.ErrorIs(t, err, repository.ErrSlotEmpty, "dangling pointer is cleared")
}

func TestAuthServiceRestoreInvalidPointer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.studentSession(t, "s@x.io")
	require.NoError(t, f.slots.Write(ctx, repository.SlotSession, []byte("s@x.io")))

	sess := NewSession()
	user, err := f.auth.Restore(ctx, sess)
	require.NoError(t, err)
	assert.Nil(t, user)
	_, err = f.slots.Read(ctx, repository.SlotSession)
	assert.ErrorIs(t, err, repository.ErrSlotEmpty)
}
