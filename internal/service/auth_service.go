package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-core/internal/dto"
	"github.com/noah-isme/classroom-core/internal/models"
	"github.com/noah-isme/classroom-core/internal/repository"
	appErrors "github.com/noah-isme/classroom-core/pkg/errors"
	"github.com/noah-isme/classroom-core/pkg/storage"
)

type sessionStore interface {
	Save(ctx context.Context, email string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AdminEmail        string
	BootstrapPassword string
	LoginDelay        time.Duration
}

// AuthService provides authentication use cases.
type AuthService struct {
	users     userStore
	sessions  sessionStore
	state     *SiteState
	blobs     *blobManager
	ids       *IDGenerator
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    AuthConfig
	sleep     func(time.Duration)
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users userStore, sessions sessionStore, state *SiteState, blobs storage.BlobStore, ids *IDGenerator, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if ids == nil {
		ids = NewIDGenerator()
	}
	config.AdminEmail = models.NormalizeEmail(config.AdminEmail)
	return &AuthService{
		users:     users,
		sessions:  sessions,
		state:     state,
		blobs:     newBlobManager(blobs, metrics, logger),
		ids:       ids,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		config:    config,
		sleep:     time.Sleep,
		now:       time.Now,
	}
}

func (s *AuthService) observe(name string, start time.Time, err error) {
	s.metrics.ObserveOperation(name, err, false, time.Since(start))
}

// Login authenticates against one of the three panels and populates sess.
// The fixed delay runs before any check and is not interrupted by ctx.
func (s *AuthService) Login(ctx context.Context, sess *Session, req dto.LoginRequest) (user *models.User, err error) {
	start := time.Now()
	defer func() { s.observe("login", start, err) }()

	s.sleep(s.config.LoginDelay)

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load users")
	}
	email := models.NormalizeEmail(req.Email)

	var found models.User
	if req.Role == models.RoleAdmin {
		found, err = s.loginAdmin(ctx, users, email, req.Password)
	} else {
		found, err = s.loginMember(users, email, req.Password, req.Role)
	}
	if err != nil {
		return nil, err
	}

	sess.set(found)
	if err := s.sessions.Save(ctx, found.Email); err != nil {
		s.logger.Warn("failed to persist session pointer", zap.String("email", found.Email), zap.Error(err))
	}
	s.logger.Info("user logged in", zap.String("email", found.Email), zap.String("role", string(found.Role)))
	return &found, nil
}

func (s *AuthService) loginAdmin(ctx context.Context, users []models.User, email, password string) (models.User, error) {
	if email != s.config.AdminEmail {
		return models.User{}, appErrors.Clone(appErrors.ErrAuth, "Only the admin email can be used here.")
	}
	idx := models.FindUser(users, email)
	if idx < 0 {
		if password != s.config.BootstrapPassword {
			return models.User{}, appErrors.Clone(appErrors.ErrAuth, "Invalid password for admin.")
		}
		admin := models.User{
			Name:        "Admin",
			Email:       email,
			Password:    password,
			Role:        models.RoleAdmin,
			Status:      models.UserStatusApproved,
			Enrollments: []models.Enrollment{},
		}
		if err := s.users.SaveUsers(ctx, append(models.CloneUsers(users), admin)); err != nil {
			return models.User{}, appErrors.Storage(err, "failed to create admin account")
		}
		s.logger.Info("admin account bootstrapped", zap.String("email", email))
		return admin, nil
	}
	admin := users[idx]
	if admin.Password != password {
		return models.User{}, appErrors.Clone(appErrors.ErrAuth, "Invalid password for admin.")
	}
	if admin.Role != models.RoleAdmin {
		return models.User{}, appErrors.Clone(appErrors.ErrAuth, "This account does not have admin privileges.")
	}
	return admin, nil
}

func (s *AuthService) loginMember(users []models.User, email, password string, role models.UserRole) (models.User, error) {
	idx := -1
	for i := range users {
		if users[i].HasEmail(email) && users[i].Password == password {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.User{}, appErrors.Clone(appErrors.ErrAuth, "Invalid email or password.")
	}
	user := users[idx]
	if user.Role != role {
		return models.User{}, appErrors.Clone(appErrors.ErrAuth, fmt.Sprintf("Please use the %s login panel.", user.Role.Panel()))
	}
	if user.Role == models.RoleTeacher && user.Status != models.UserStatusApproved {
		return models.User{}, appErrors.Clone(appErrors.ErrAuth, "Your teacher account is pending approval.")
	}
	return user, nil
}

// Logout clears sess and the persisted pointer. It never fails.
func (s *AuthService) Logout(ctx context.Context, sess *Session) {
	start := time.Now()
	sess.clear()
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear session pointer", zap.Error(err))
	}
	s.observe("logout", start, nil)
}

// Signup registers an approved student account.
func (s *AuthService) Signup(ctx context.Context, req dto.SignupRequest) (user *models.User, err error) {
	start := time.Now()
	defer func() { s.observe("signup", start, err) }()

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}
	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load users")
	}
	if models.FindUser(users, req.Email) >= 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "An account with this email already exists.")
	}
	created := models.User{
		Name:        req.Name,
		Email:       models.NormalizeEmail(req.Email),
		Password:    req.Password,
		Role:        models.RoleStudent,
		Status:      models.UserStatusApproved,
		Enrollments: []models.Enrollment{},
	}
	if err := s.users.SaveUsers(ctx, append(users, created)); err != nil {
		return nil, appErrors.Storage(err, "failed to save users")
	}
	return &created, nil
}

// TeacherSignup registers a pending teacher and queues a verification request for the admin.
// Files are stored first, then the user list, then the site document. It is a no-op while the
// site document is not loaded.
func (s *AuthService) TeacherSignup(ctx context.Context, req dto.TeacherSignupRequest, screenshot, photo *models.FileUpload) (user *models.User, err error) {
	start := time.Now()
	skipped := false
	defer func() { s.metrics.ObserveOperation("teacher_signup", err, skipped, time.Since(start)) }()

	doc, ok := s.state.Snapshot()
	if !ok {
		skipped = true
		return nil, nil
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher signup payload")
	}
	if !screenshot.Present() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "payment screenshot is required")
	}
	if !photo.Present() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "profile photo is required")
	}
	previous, err := s.users.LoadUsers(ctx)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load users")
	}
	if models.FindUser(previous, req.Email) >= 0 {
		return nil, appErrors.Clone(appErrors.ErrConflict, "An account with this email already exists.")
	}

	keys, err := s.blobs.upload(ctx, screenshot, photo)
	if err != nil {
		return nil, err
	}
	email := models.NormalizeEmail(req.Email)
	teacher := models.User{
		Name:        req.Name,
		Email:       email,
		Password:    req.Password,
		Role:        models.RoleTeacher,
		Status:      models.UserStatusPending,
		Enrollments: []models.Enrollment{},
	}
	users := append(models.CloneUsers(previous), teacher)
	if err := s.users.SaveUsers(ctx, users); err != nil {
		s.blobs.discard(ctx, keys...)
		return nil, appErrors.Storage(err, "failed to save users")
	}

	doc.TeacherVerificationRequests = append(doc.TeacherVerificationRequests, models.TeacherVerificationRequest{
		ID:             s.ids.Next(),
		UserName:       req.Name,
		UserEmail:      email,
		Designation:    req.Designation,
		Qualifications: req.Qualifications,
		Experience:     req.Experience,
		TransactionID:  req.TransactionID,
		ScreenshotKey:  keys[0],
		PhotoKey:       keys[1],
		RequestedAt:    s.now().UTC(),
	})
	if err := s.state.Commit(ctx, doc); err != nil {
		if restoreErr := s.users.SaveUsers(ctx, previous); restoreErr != nil {
			s.logger.Error("failed to restore users after site write failure", zap.Error(restoreErr))
		}
		s.blobs.discard(ctx, keys...)
		return nil, appErrors.Storage(err, "failed to save site document")
	}
	return &teacher, nil
}

// Restore resolves the persisted session pointer into sess. A missing, invalid or dangling
// pointer leaves sess anonymous and is cleared.
func (s *AuthService) Restore(ctx context.Context, sess *Session) (*models.User, error) {
	email, err := s.sessions.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSlotEmpty) {
			return nil, nil
		}
		if !errors.Is(err, repository.ErrInvalidSession) {
			return nil, appErrors.Storage(err, "failed to read session pointer")
		}
		s.logger.Info("discarding invalid session pointer")
		s.clearPointer(ctx)
		return nil, nil
	}
	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load users")
	}
	idx := models.FindUser(users, email)
	if idx < 0 {
		s.logger.Info("discarding dangling session pointer", zap.String("email", email))
		s.clearPointer(ctx)
		return nil, nil
	}
	user := users[idx]
	sess.set(user)
	return &user, nil
}

func (s *AuthService) clearPointer(ctx context.Context) {
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear session pointer", zap.Error(err))
	}
}
