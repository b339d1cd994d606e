package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulab/lms-backend/internal/app/models"
	"github.com/edulab/lms-backend/internal/app/services"
	"github.com/edulab/lms-backend/internal/pkg/apperrors"
	"github.com/edulab/lms-backend/internal/pkg/certrender"
)

type stubCertStore struct {
	certs map[uuid.UUID]*models.Certificate
}

func (s *stubCertStore) GetTemplateByCourse(ctx context.Context, courseID uuid.UUID) (*models.CertificateTemplate, error) {
	return nil, apperrors.ErrTemplateNotFound
}

func (s *stubCertStore) UpsertTemplate(ctx context.Context, tmpl *models.CertificateTemplate) error {
	return nil
}

func (s *stubCertStore) Create(ctx context.Context, cert *models.Certificate) error {
	return nil
}

func (s *stubCertStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Certificate, error) {
	cert, ok := s.certs[id]
	if !ok {
		return nil, apperrors.ErrCertificateNotFound
	}
	return cert, nil
}

func (s *stubCertStore) GetByCourseAndStudent(ctx context.Context, courseID, studentID uuid.UUID) (*models.Certificate, error) {
	return nil, apperrors.ErrCertificateNotFound
}

func (s *stubCertStore) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Certificate, error) {
	return nil, nil
}

func (s *stubCertStore) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Certificate, error) {
	return nil, nil
}

func (s *stubCertStore) RefreshSnapshot(ctx context.Context, cert *models.Certificate) error {
	return nil
}

func (s *stubCertStore) UpdateRenderResult(ctx context.Context, certID uuid.UUID, status models.RenderStatus, renderError string, filePath *string) error {
	return nil
}

type stubCourseStore struct{}

func (s *stubCourseStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return &models.Course{ID: id, Title: "Intro to Go", Status: models.CourseStatusActive}, nil
}

func (s *stubCourseStore) GetEnrollment(ctx context.Context, courseID, studentID uuid.UUID) (*models.Enrollment, error) {
	return nil, apperrors.ErrEnrollmentNotFound
}

func (s *stubCourseStore) ListEnrollments(ctx context.Context, courseID uuid.UUID, completedOnly bool) ([]*models.Enrollment, error) {
	return nil, nil
}

type stubStaffValidator struct{}

func (s *stubStaffValidator) ValidateCourseStaff(ctx context.Context, courseID, userID uuid.UUID) error {
	return nil
}

func (s *stubStaffValidator) ValidateCertificateAccess(ctx context.Context, cert *models.Certificate, userID uuid.UUID) error {
	return nil
}

type stubRenderer struct{}

func (s *stubRenderer) Render(ctx context.Context, data certrender.Data) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

type stubStorage struct{}

func (s *stubStorage) SaveBytes(content []byte, subPath, filename string) (string, error) {
	return "uploads/" + subPath + "/" + filename, nil
}

func (s *stubStorage) DeleteFile(filePath string) error { return nil }

func (s *stubStorage) GetFullPath(filePath string) string { return filePath }

func newTestRouter(t *testing.T, store *stubCertStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := services.NewCertificateService(
		store,
		&stubCourseStore{},
		&stubStaffValidator{},
		&stubRenderer{},
		&stubStorage{},
		services.CertificateServiceOptions{IssueWorkers: 1},
		zerolog.Nop(),
	)
	ctrl := NewCertificateController(svc, zerolog.Nop())

	userID := uuid.New()
	router := gin.New()
	router.GET("/api/v1/certificates/:certId/public", ctrl.GetPublicCertificate)

	// Authenticated routes get a canned identity instead of real JWT parsing
	authed := router.Group("/api/v1")
	authed.Use(func(c *gin.Context) {
		c.Set("userID", userID)
	})
	authed.POST("/courses/:courseId/certificates/issue", ctrl.Issue)

	return router
}

func TestGetPublicCertificateTokenGate(t *testing.T) {
	certID := uuid.New()
	store := &stubCertStore{certs: map[uuid.UUID]*models.Certificate{
		certID: {
			ID:               certID,
			StudentName:      "Somchai Jaidee",
			CourseName:       "Intro to Go",
			SerialNo:         "CERT-20260115-A1B2C3",
			VerificationCode: "0123456789abcdef0123456789abcdef",
			CompletionDate:   time.Now(),
			RenderStatus:     models.RenderDone,
		},
	}}
	router := newTestRouter(t, store)

	t.Run("matching token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/api/v1/certificates/"+certID.String()+"/public?token=0123456789abcdef0123456789abcdef", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Somchai Jaidee")
		assert.Contains(t, w.Body.String(), "CERT-20260115-A1B2C3")
	})

	t.Run("wrong token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/api/v1/certificates/"+certID.String()+"/public?token=wrong", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusForbidden, w.Code)
		assert.NotContains(t, w.Body.String(), "Somchai Jaidee")
	})

	t.Run("unknown certificate", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/api/v1/certificates/"+uuid.NewString()+"/public?token=whatever", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/certificates/not-a-uuid/public?token=x", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestIssueRejectsMissingTarget(t *testing.T) {
	store := &stubCertStore{certs: map[uuid.UUID]*models.Certificate{}}
	router := newTestRouter(t, store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost,
		"/api/v1/courses/"+uuid.NewString()+"/certificates/issue",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VAL_001")
}
