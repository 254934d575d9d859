package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-core/internal/dto"
	"github.com/noah-isme/classroom-core/internal/models"
	appErrors "github.com/noah-isme/classroom-core/pkg/errors"
	"github.com/noah-isme/classroom-core/pkg/storage"
)

// errNoop ends an operation early without touching any store.
var errNoop = errors.New("no-op")

type userStore interface {
	LoadUsers(ctx context.Context) ([]models.User, error)
	SaveUsers(ctx context.Context, users []models.User) error
}

// SiteService implements the role-gated mutations of the site document.
type SiteService struct {
	state     *SiteState
	users     userStore
	blobs     *blobManager
	ids       *IDGenerator
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	now       func() time.Time
}

// NewSiteService constructs a SiteService instance.
func NewSiteService(state *SiteState, users userStore, blobs storage.BlobStore, ids *IDGenerator, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *SiteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if ids == nil {
		ids = NewIDGenerator()
	}
	return &SiteService{
		state:     state,
		users:     users,
		blobs:     newBlobManager(blobs, metrics, logger),
		ids:       ids,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Site returns a snapshot of the current document and whether one is loaded.
func (s *SiteService) Site() (models.SiteDocument, bool) {
	return s.state.Snapshot()
}

// Subscribe registers fn for every committed document version.
func (s *SiteService) Subscribe(fn func(models.SiteDocument)) func() {
	return s.state.Subscribe(fn)
}

// run executes one operation and records its outcome. errNoop becomes a nil error.
func (s *SiteService) run(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	skipped := errors.Is(err, errNoop)
	if skipped {
		err = nil
		s.logger.Debug("operation skipped", zap.String("operation", name))
	}
	s.metrics.ObserveOperation(name, err, skipped, time.Since(start))
	return err
}

// snapshot returns the working copy for an operation or errNoop when nothing is loaded.
func (s *SiteService) snapshot() (models.SiteDocument, error) {
	doc, ok := s.state.Snapshot()
	if !ok {
		return models.SiteDocument{}, errNoop
	}
	return doc, nil
}

func (s *SiteService) validate(v interface{}, message string) error {
	if err := s.validator.Struct(v); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	return nil
}

// commit persists doc, discarding fresh blobs when the write fails.
func (s *SiteService) commit(ctx context.Context, doc models.SiteDocument, fresh ...string) error {
	if err := s.state.Commit(ctx, doc); err != nil {
		s.blobs.discard(ctx, fresh...)
		return appErrors.Storage(err, "failed to save site document")
	}
	return nil
}

// commitWithUsers writes the user list first and the site document second. When the
// site write fails the previous user list is restored best-effort.
func (s *SiteService) commitWithUsers(ctx context.Context, previous, users []models.User, doc models.SiteDocument, fresh ...string) error {
	if err := s.users.SaveUsers(ctx, users); err != nil {
		s.blobs.discard(ctx, fresh...)
		return appErrors.Storage(err, "failed to save users")
	}
	if err := s.commit(ctx, doc, fresh...); err != nil {
		if restoreErr := s.users.SaveUsers(ctx, previous); restoreErr != nil {
			s.logger.Error("failed to restore users after site write failure", zap.Error(restoreErr))
		}
		return err
	}
	return nil
}

func (s *SiteService) loadUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.LoadUsers(ctx)
	if err != nil {
		return nil, appErrors.Storage(err, "failed to load users")
	}
	return users, nil
}

// UpdateSettings applies a partial update to the scalar settings.
func (s *SiteService) UpdateSettings(ctx context.Context, sess *Session, update dto.SettingsUpdate) error {
	return s.run("update_settings", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireAdmin(sess); err != nil {
			return err
		}
		if update.Empty() {
			return errNoop
		}
		if update.ClassroomName != nil {
			doc.ClassroomName = *update.ClassroomName
		}
		if update.HomeTitle != nil {
			doc.Home.Title = *update.HomeTitle
		}
		if update.HomeSubtitle != nil {
			doc.Home.Subtitle = *update.HomeSubtitle
		}
		if update.UpiID != nil {
			doc.PaymentDetails.UpiID = *update.UpiID
		}
		if update.UpiNumber != nil {
			doc.PaymentDetails.UpiNumber = *update.UpiNumber
		}
		return s.commit(ctx, doc)
	})
}

// UpdateNavItemsOrder stores items in the given sequence, assigning order by position.
func (s *SiteService) UpdateNavItemsOrder(ctx context.Context, sess *Session, items []models.NavItem) error {
	return s.run("update_nav_items_order", func() error {
		doc, err := s.snapshot()
		if err != nil {
			return err
		}
		if err := requireAdmin(sess); err != nil {
			return err
		}
		ordered := make([]models.NavItem, len(items))
		for i, item := range items {
			item.Order = i
			ordered[i] = item
		}
		doc.NavItems = ordered
		return s.commit(ctx, doc)
	})
}

// CourseAccess reports what sess may do with courseID, reading the freshest user list.
func (s *SiteService) CourseAccess(ctx context.Context, sess *Session, courseID int64) (models.CourseAccess, error) {
	doc, ok := s.state.Snapshot()
	if !ok {
		return models.CourseAccessNone, nil
	}
	idx := doc.CourseIndex(courseID)
	if idx < 0 {
		return models.CourseAccessNone, nil
	}
	if canManageCourse(sess, doc.Courses[idx]) {
		return models.CourseAccessManage, nil
	}
	email := sess.Email()
	if email == "" {
		return models.CourseAccessNone, nil
	}
	users, err := s.loadUsers(ctx)
	if err != nil {
		return models.CourseAccessNone, err
	}
	i := models.FindUser(users, email)
	if i < 0 {
		return models.CourseAccessNone, nil
	}
	enrollment, found := users[i].Enrollment(courseID)
	switch {
	case !found:
		return models.CourseAccessNone, nil
	case enrollment.Status == models.EnrollmentStatusEnrolled:
		return models.CourseAccessEnrolled, nil
	default:
		return models.CourseAccessPending, nil
	}
}

// TeacherCourses lists the courses owned by the logged-in approved teacher.
func (s *SiteService) TeacherCourses(sess *Session) []models.Course {
	doc, ok := s.state.Snapshot()
	if !ok || !sess.IsApprovedTeacher() {
		return []models.Course{}
	}
	email := models.NormalizeEmail(sess.Email())
	courses := make([]models.Course, 0)
	for _, c := range doc.Courses {
		if c.TeacherEmail != "" && models.NormalizeEmail(c.TeacherEmail) == email {
			courses = append(courses, c)
		}
	}
	return courses
}
