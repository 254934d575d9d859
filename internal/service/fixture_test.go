package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-core/internal/dto"
	"github.com/noah-isme/classroom-core/internal/models"
	"github.com/noah-isme/classroom-core/internal/repository"
	"github.com/noah-isme/classroom-core/pkg/storage"
)

const testAdminEmail = "admin@classroom.test"

// stubBlobStore counts calls and can be told to fail.
type stubBlobStore struct {
	*storage.MemoryBlobStore

	mu         sync.Mutex
	puts       int
	deletes    []string
	putErr     error
	deleteErrs map[string]error
	// afterPut runs once a blob is stored, before the caller sees the key.
	afterPut func(key string)
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{MemoryBlobStore: storage.NewMemoryBlobStore(), deleteErrs: map[string]error{}}
}

func (s *stubBlobStore) Put(ctx context.Context, data []byte) (string, error) {
	s.mu.Lock()
	s.puts++
	err := s.putErr
	s.mu.Unlock()
	if err != nil {
		return "", err
	}
	key, err := s.MemoryBlobStore.Put(ctx, data)
	if err == nil && s.afterPut != nil {
		s.afterPut(key)
	}
	return key, err
}

func (s *stubBlobStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	s.deletes = append(s.deletes, key)
	err := s.deleteErrs[key]
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.MemoryBlobStore.Delete(ctx, key)
}

func (s *stubBlobStore) deleteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deletes)
}

func (s *stubBlobStore) exists(t *testing.T, key string) bool {
	_, err := s.MemoryBlobStore.Get(context.Background(), key)
	if errors.Is(err, storage.ErrBlobNotFound) {
		return false
	}
	require.NoError(t, err)
	return true
}

// stubDocuments wraps the real repository so individual writes can be failed.
type stubDocuments struct {
	*repository.DocumentRepository
	siteErr   error
	usersErr  error
	siteSaves int
}

func (d *stubDocuments) SaveSite(ctx context.Context, doc models.SiteDocument) error {
	if d.siteErr != nil {
		return d.siteErr
	}
	d.siteSaves++
	return d.DocumentRepository.SaveSite(ctx, doc)
}

func (d *stubDocuments) SaveUsers(ctx context.Context, users []models.User) error {
	if d.usersErr != nil {
		return d.usersErr
	}
	return d.DocumentRepository.SaveUsers(ctx, users)
}

type fixture struct {
	slots    *repository.MemorySlotStore
	docs     *stubDocuments
	blobs    *stubBlobStore
	sessions *repository.SessionRepository
	state    *SiteState
	metrics  *MetricsService
	site     *SiteService
	auth     *AuthService
	slept    []time.Duration
}

func newUnloadedFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		slots:   repository.NewMemorySlotStore(),
		blobs:   newStubBlobStore(),
		metrics: NewMetricsService(),
	}
	f.docs = &stubDocuments{DocumentRepository: repository.NewDocumentRepository(f.slots)}
	f.sessions = repository.NewSessionRepository(f.slots, "test-secret")
	f.state = NewSiteState(f.docs, zap.NewNop())
	ids := NewIDGenerator()
	f.site = NewSiteService(f.state, f.docs, f.blobs, ids, nil, zap.NewNop(), f.metrics)
	f.auth = NewAuthService(f.docs, f.sessions, f.state, f.blobs, ids, nil, zap.NewNop(), f.metrics, AuthConfig{
		AdminEmail:        testAdminEmail,
		BootstrapPassword: "admin",
		LoginDelay:        500 * time.Millisecond,
	})
	f.auth.sleep = func(d time.Duration) { f.slept = append(f.slept, d) }
	return f
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := newUnloadedFixture(t)
	require.NoError(t, f.state.Load(context.Background()))
	return f
}

func (f *fixture) doc(t *testing.T) models.SiteDocument {
	t.Helper()
	doc, ok := f.state.Snapshot()
	require.True(t, ok)
	return doc
}

func (f *fixture) storedUsers(t *testing.T) []models.User {
	t.Helper()
	users, err := f.docs.LoadUsers(context.Background())
	require.NoError(t, err)
	return users
}

func (f *fixture) adminSession(t *testing.T) *Session {
	t.Helper()
	sess := NewSession()
	_, err := f.auth.Login(context.Background(), sess, dto.LoginRequest{Email: testAdminEmail, Password: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)
	return sess
}

func (f *fixture) studentSession(t *testing.T, email string) *Session {
	t.Helper()
	ctx := context.Background()
	_, err := f.auth.Signup(ctx, dto.SignupRequest{Name: "Student", Email: email, Password: "pw", ConfirmPassword: "pw"})
	require.NoError(t, err)
	sess := NewSession()
	_, err = f.auth.Login(ctx, sess, dto.LoginRequest{Email: email, Password: "pw", Role: models.RoleStudent})
	require.NoError(t, err)
	return sess
}

// approvedTeacherSession registers a teacher, approves the request as admin and logs the teacher in.
func (f *fixture) approvedTeacherSession(t *testing.T, email string) *Session {
	t.Helper()
	ctx := context.Background()
	_, err := f.auth.TeacherSignup(ctx, teacherSignup(email), file("pay.png"), file("me.jpg"))
	require.NoError(t, err)
	requests := f.doc(t).TeacherVerificationRequests
	require.NotEmpty(t, requests)
	require.NoError(t, f.site.ApproveTeacherVerification(ctx, f.adminSession(t), requests[len(requests)-1].ID))

	sess := NewSession()
	_, err = f.auth.Login(ctx, sess, dto.LoginRequest{Email: email, Password: "pw", Role: models.RoleTeacher})
	require.NoError(t, err)
	return sess
}

func teacherSignup(email string) dto.TeacherSignupRequest {
	return dto.TeacherSignupRequest{
		Name:            "Teacher",
		Email:           email,
		Password:        "pw",
		ConfirmPassword: "pw",
		Designation:     "Lecturer",
		Qualifications:  "MSc",
		Experience:      "5 years",
		TransactionID:   "TXN-1",
	}
}

func file(name string) *models.FileUpload {
	return &models.FileUpload{Name: name, Data: []byte("content of " + name)}
}

// courseWithLectures creates a course with an image and n lectures that each carry a video and a pdf.
func (f *fixture) courseWithLectures(t *testing.T, sess *Session, n int) models.Course {
	t.Helper()
	ctx := context.Background()
	course, err := f.site.AddCourse(ctx, sess, dto.CourseInput{Name: "Biology", Instructor: "B", Fee: 100}, file("cover.png"))
	require.NoError(t, err)
	require.NotNil(t, course)
	for i := 0; i < n; i++ {
		_, err := f.site.AddLecture(ctx, sess, course.ID, dto.LectureInput{Title: "Lecture"}, file("v.mp4"), file("notes.pdf"))
		require.NoError(t, err)
	}
	doc := f.doc(t)
	return doc.Courses[doc.CourseIndex(course.ID)]
}
