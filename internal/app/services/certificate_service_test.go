package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/edulab/lms-backend/internal/app/models"
	"github.com/edulab/lms-backend/internal/app/models/dto"
	"github.com/edulab/lms-backend/internal/pkg/apperrors"
	"github.com/edulab/lms-backend/internal/pkg/certrender"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCertStore struct {
	mu        sync.Mutex
	templates map[uuid.UUID]*models.CertificateTemplate
	certs     map[string]*models.Certificate // courseID/studentID
	upserts   int
}

func newFakeCertStore() *fakeCertStore {
	return &fakeCertStore{
		templates: make(map[uuid.UUID]*models.CertificateTemplate),
		certs:     make(map[string]*models.Certificate),
	}
}

func certKey(courseID, studentID uuid.UUID) string {
	return courseID.String() + "/" + studentID.String()
}

func (f *fakeCertStore) GetTemplateByCourse(_ context.Context, courseID uuid.UUID) (*models.CertificateTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tmpl, ok := f.templates[courseID]
	if !ok {
		return nil, apperrors.ErrTemplateNotFound
	}
	cp := *tmpl
	return &cp, nil
}

func (f *fakeCertStore) UpsertTemplate(_ context.Context, tmpl *models.CertificateTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tmpl.ID == uuid.Nil {
		tmpl.ID = uuid.New()
	}
	tmpl.UpdatedAt = time.Now()
	cp := *tmpl
	f.templates[tmpl.CourseID] = &cp
	f.upserts++
	return nil
}

func (f *fakeCertStore) Create(_ context.Context, cert *models.Certificate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := certKey(cert.CourseID, cert.StudentID)
	if _, ok := f.certs[key]; ok {
		return apperrors.ErrCertificateExists
	}
	cert.ID = uuid.New()
	cert.CreatedAt = time.Now()
	cp := *cert
	f.certs[key] = &cp
	return nil
}

func (f *fakeCertStore) GetByID(_ context.Context, id uuid.UUID) (*models.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cert := range f.certs {
		if cert.ID == id {
			cp := *cert
			return &cp, nil
		}
	}
	return nil, apperrors.ErrCertificateNotFound
}

func (f *fakeCertStore) GetByCourseAndStudent(_ context.Context, courseID, studentID uuid.UUID) (*models.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cert, ok := f.certs[certKey(courseID, studentID)]
	if !ok {
		return nil, apperrors.ErrCertificateNotFound
	}
	cp := *cert
	return &cp, nil
}

func (f *fakeCertStore) ListByCourse(_ context.Context, courseID uuid.UUID) ([]*models.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Certificate
	for _, cert := range f.certs {
		if cert.CourseID == courseID {
			cp := *cert
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCertStore) ListByStudent(_ context.Context, studentID uuid.UUID) ([]*models.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Certificate
	for _, cert := range f.certs {
		if cert.StudentID == studentID {
			cp := *cert
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCertStore) RefreshSnapshot(_ context.Context, cert *models.Certificate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.certs[certKey(cert.CourseID, cert.StudentID)]
	if !ok {
		return apperrors.ErrCertificateNotFound
	}
	cp := *cert
	cp.SerialNo = stored.SerialNo
	cp.VerificationCode = stored.VerificationCode
	f.certs[certKey(cert.CourseID, cert.StudentID)] = &cp
	return nil
}

func (f *fakeCertStore) UpdateRenderResult(_ context.Context, certID uuid.UUID, status models.RenderStatus, renderError string, filePath *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, cert := range f.certs {
		if cert.ID == certID {
			cert.RenderStatus = status
			cert.RenderError = renderError
			cert.FilePath = filePath
			f.certs[key] = cert
			return nil
		}
	}
	return apperrors.ErrCertificateNotFound
}

type fakeCourseStore struct {
	course      *models.Course
	enrollments []*models.Enrollment
}

func (f *fakeCourseStore) GetByID(_ context.Context, id uuid.UUID) (*models.Course, error) {
	if f.course == nil || f.course.ID != id {
		return nil, apperrors.ErrCourseNotFound
	}
	return f.course, nil
}

func (f *fakeCourseStore) GetEnrollment(_ context.Context, courseID, studentID uuid.UUID) (*models.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.CourseID == courseID && e.StudentID == studentID {
			return e, nil
		}
	}
	return nil, apperrors.ErrEnrollmentNotFound
}

func (f *fakeCourseStore) ListEnrollments(_ context.Context, courseID uuid.UUID, completedOnly bool) ([]*models.Enrollment, error) {
	var out []*models.Enrollment
	for _, e := range f.enrollments {
		if e.CourseID != courseID {
			continue
		}
		if completedOnly && e.Status != models.EnrollmentCompleted {
			continue
		}
		if e.Status == models.EnrollmentCancelled {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeStaffValidator struct {
	denyStaff bool
}

func (f *fakeStaffValidator) ValidateCourseStaff(context.Context, uuid.UUID, uuid.UUID) error {
	if f.denyStaff {
		return apperrors.ErrNotCourseStaff
	}
	return nil
}

func (f *fakeStaffValidator) ValidateCertificateAccess(context.Context, *models.Certificate, uuid.UUID) error {
	if f.denyStaff {
		return apperrors.ErrNotCourseStaff
	}
	return nil
}

type fakeRenderer struct {
	mu       sync.Mutex
	failFor  map[string]bool // student name -> fail
	failMsg  string
	rendered []string
}

func (f *fakeRenderer) Render(_ context.Context, data certrender.Data) ([]byte, error) {
	f.mu.Lock()
	f.rendered = append(f.rendered, data.StudentName)
	f.mu.Unlock()
	if f.failFor[data.StudentName] {
		msg := f.failMsg
		if msg == "" {
			msg = "renderer exploded"
		}
		return nil, errors.New(msg)
	}
	return []byte("%PDF-1.4 " + data.StudentName), nil
}

type fakeStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string][]byte)}
}

func (f *fakeStorage) SaveBytes(content []byte, subPath, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := "uploads/" + subPath + "/" + filename
	f.files[path] = content
	return path, nil
}

func (f *fakeStorage) DeleteFile(string) error { return nil }

func (f *fakeStorage) GetFullPath(filePath string) string { return "/srv/" + filePath }

type fixture struct {
	svc       *CertificateService
	certs     *fakeCertStore
	courses   *fakeCourseStore
	renderer  *fakeRenderer
	storage   *fakeStorage
	courseID  uuid.UUID
	staffID   uuid.UUID
	students  []*models.User
	validator *fakeStaffValidator
}

func newFixture(t *testing.T, studentCount int) *fixture {
	t.Helper()

	staffID := uuid.New()
	courseID := uuid.New()
	course := &models.Course{
		ID:           courseID,
		Title:        "Applied Cryptography",
		Status:       models.CourseStatusActive,
		InstructorID: staffID,
		Instructor:   &models.User{ID: staffID, FullName: "Dr. Araya Pornpitak"},
	}

	courses := &fakeCourseStore{course: course}
	var students []*models.User
	for i := 0; i < studentCount; i++ {
		student := &models.User{ID: uuid.New(), FullName: fmt.Sprintf("Student %02d", i+1), Role: models.RoleStudent}
		students = append(students, student)
		courses.enrollments = append(courses.enrollments, &models.Enrollment{
			ID:        uuid.New(),
			StudentID: student.ID,
			CourseID:  courseID,
			Status:    models.EnrollmentCompleted,
			Student:   student,
		})
	}

	certs := newFakeCertStore()
	renderer := &fakeRenderer{failFor: make(map[string]bool)}
	storage := newFakeStorage()
	validator := &fakeStaffValidator{}

	svc := NewCertificateService(certs, courses, validator, renderer, storage, CertificateServiceOptions{
		PublicBaseURL: "https://lms.example.com",
		RenderTimeout: 5 * time.Second,
		IssueWorkers:  3,
	}, zerolog.Nop())

	return &fixture{
		svc: svc, certs: certs, courses: courses, renderer: renderer, storage: storage,
		courseID: courseID, staffID: staffID, students: students, validator: validator,
	}
}

func allEnrolledRequest() *dto.IssueRequest {
	return &dto.IssueRequest{IssueForAllEnrolled: true}
}

func TestIssueNewOnlySkipsExistingHolders(t *testing.T) {
	fx := newFixture(t, 3)
	ctx := context.Background()

	first, err := fx.svc.IssueNewOnly(ctx, fx.courseID, fx.staffID, allEnrolledRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, first.Issued)
	assert.Equal(t, 0, first.Skipped)

	serials := make(map[uuid.UUID]string)
	for _, o := range first.Outcomes {
		serials[o.StudentID] = o.SerialNo
	}

	second, err := fx.svc.IssueNewOnly(ctx, fx.courseID, fx.staffID, allEnrolledRequest())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Issued)
	assert.Equal(t, 3, second.Skipped)

	// Serial numbers are stable across repeated runs
	for _, o := range second.Outcomes {
		assert.Equal(t, serials[o.StudentID], o.SerialNo)
	}
}

func TestIssueOrRefreshKeepsSerialAndUpdatesSnapshot(t *testing.T) {
	fx := newFixture(t, 1)
	ctx := context.Background()
	student := fx.students[0]

	first, err := fx.svc.IssueNewOnly(ctx, fx.courseID, fx.staffID, allEnrolledRequest())
	require.NoError(t, err)
	require.Equal(t, 1, first.Issued)
	originalSerial := first.Outcomes[0].SerialNo

	// Student gets renamed, course template gets a title override
	student.FullName = "Student 01 Renamed"
	_, err = fx.svc.UpdateTemplate(ctx, fx.courseID, fx.staffID, &dto.TemplateUpdateRequest{
		CourseTitleOverride: strPtr("Advanced Applied Cryptography"),
	})
	require.NoError(t, err)

	second, err := fx.svc.IssueOrRefresh(ctx, fx.courseID, fx.staffID, allEnrolledRequest())
	require.NoError(t, err)
	require.Equal(t, 1, second.Refreshed)
	assert.Equal(t, originalSerial, second.Outcomes[0].SerialNo)

	cert, err := fx.certs.GetByCourseAndStudent(ctx, fx.courseID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Student 01 Renamed", cert.StudentName)
	assert.Equal(t, "Advanced Applied Cryptography", cert.CourseName)
	assert.Equal(t, originalSerial, cert.SerialNo)
}

func TestIssueBatchContinuesPastRenderFailure(t *testing.T) {
	fx := newFixture(t, 5)
	ctx := context.Background()

	fx.renderer.failFor["Student 03"] = true
	fx.renderer.failMsg = strings.Repeat("boom ", 600) // well over the stored cap

	resp, err := fx.svc.IssueNewOnly(ctx, fx.courseID, fx.staffID, allEnrolledRequest())
	require.NoError(t, err)

	// The row is still issued; only its render failed
	assert.Equal(t, 5, resp.Issued)
	assert.Equal(t, 0, resp.Failed)

	var failedRender int
	for _, o := range resp.Outcomes {
		if o.RenderStatus == string(models.RenderFailed) {
			failedRender++
		}
	}
	assert.Equal(t, 1, failedRender)

	failed := findCert(t, fx, "Student 03")
	assert.Equal(t, models.RenderFailed, failed.RenderStatus)
	assert.NotEmpty(t, failed.RenderError)
	assert.LessOrEqual(t, len(failed.RenderError), models.MaxRenderErrorLen)
	assert.Nil(t, failed.FilePath)

	ok := findCert(t, fx, "Student 01")
	assert.Equal(t, models.RenderDone, ok.RenderStatus)
	require.NotNil(t, ok.FilePath)
	assert.Contains(t, *ok.FilePath, "uploads/certificates/cert_")
}

func findCert(t *testing.T, fx *fixture, studentName string) *models.Certificate {
	t.Helper()
	certs, err := fx.certs.ListByCourse(context.Background(), fx.courseID)
	require.NoError(t, err)
	for _, c := range certs {
		if c.StudentName == studentName {
			return c
		}
	}
	t.Fatalf("no certificate found for %s", studentName)
	return nil
}

func TestIssueRequiresExactlyOneTarget(t *testing.T) {
	fx := newFixture(t, 1)
	ctx := context.Background()

	_, err := fx.svc.IssueNewOnly(ctx, fx.courseID, fx.staffID, &dto.IssueRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNoIssueTarget)

	_, err = fx.svc.IssueNewOnly(ctx, fx.courseID, fx.staffID, &dto.IssueRequest{
		IssueForAllEnrolled: true,
		IssueForStudentIDs:  []uuid.UUID{fx.students[0].ID},
	})
	assert.ErrorIs(t, err, apperrors.ErrNoIssueTarget)
}

func TestIssueExplicitTargets(t *testing.T) {
	fx := newFixture(t, 2)
	ctx := context.Background()

	// Second student has not completed the course; an explicit selection
	// still issues them, only the missing enrollment fails.
	fx.courses.enrollments[1].Status = models.EnrollmentEnrolled
	stranger := uuid.New()

	resp, err := fx.svc.IssueNewOnly(ctx, fx.courseID, fx.staffID, &dto.IssueRequest{
		IssueForStudentIDs: []uuid.UUID{fx.students[0].ID, fx.students[1].ID, stranger},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Issued)
	assert.Equal(t, 0, resp.Skipped)
	assert.Equal(t, 1, resp.Failed)

	byStudent := make(map[uuid.UUID]dto.IssueOutcome)
	for _, o := range resp.Outcomes {
		byStudent[o.StudentID] = o
	}
	assert.Equal(t, dto.IssueOutcomeIssued, byStudent[fx.students[0].ID].Status)
	assert.Equal(t, dto.IssueOutcomeIssued, byStudent[fx.students[1].ID].Status)
	assert.Equal(t, dto.IssueOutcomeFailed, byStudent[stranger].Status)
	assert.Contains(t, byStudent[stranger].Error, "not enrolled")
}

func TestIssueCompletedOnlyFiltersAllEnrolledExpansionOnly(t *testing.T) {
	fx := newFixture(t, 2)
	ctx := context.Background()

	fx.courses.enrollments[1].Status = models.EnrollmentEnrolled

	all, err := fx.svc.IssueNewOnly(ctx, fx.courseID, fx.staffID, allEnrolledRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, all.Issued)
	assert.Equal(t, 1, all.Requested)

	explicit, err := fx.svc.IssueNewOnly(ctx, fx.courseID, fx.staffID, &dto.IssueRequest{
		IssueForStudentIDs: []uuid.UUID{fx.students[1].ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, explicit.Issued)

	cert, err := fx.certs.GetByCourseAndStudent(ctx, fx.courseID, fx.students[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Student 02", cert.StudentName)
}

func TestIssueSnapshotsTemplateIssuerOverInstructor(t *testing.T) {
	fx := newFixture(t, 1)
	ctx := context.Background()
	student := fx.students[0]

	first, err := fx.svc.IssueNewOnly(ctx, fx.courseID, fx.staffID, allEnrolledRequest())
	require.NoError(t, err)
	require.Equal(t, 1, first.Issued)

	// Without an issuer the course instructor is snapshotted
	cert, err := fx.certs.GetByCourseAndStudent(ctx, fx.courseID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Araya Pornpitak", cert.InstructorName)

	_, err = fx.svc.UpdateTemplate(ctx, fx.courseID, fx.staffID, &dto.TemplateUpdateRequest{
		IssuerName: strPtr("EduLab Academy"),
	})
	require.NoError(t, err)

	second, err := fx.svc.IssueOrRefresh(ctx, fx.courseID, fx.staffID, allEnrolledRequest())
	require.NoError(t, err)
	require.Equal(t, 1, second.Refreshed)

	cert, err = fx.certs.GetByCourseAndStudent(ctx, fx.courseID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "EduLab Academy", cert.InstructorName)
}

func TestSaveTemplateAndIssueWithoutTargetSavesTemplateOnly(t *testing.T) {
	fx := newFixture(t, 2)
	ctx := context.Background()

	tmpl, batch, err := fx.svc.SaveTemplateAndIssue(ctx, fx.courseID, fx.staffID, &dto.SaveAndIssueRequest{
		Template: dto.TemplateUpdateRequest{Style: strPtr("modern")},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StyleModern, tmpl.Style)

	// The template was written, nothing was issued
	assert.Equal(t, 1, fx.certs.upserts)
	assert.Equal(t, 0, batch.Requested)
	assert.Empty(t, batch.Outcomes)
	certs, err := fx.certs.ListByCourse(ctx, fx.courseID)
	require.NoError(t, err)
	assert.Empty(t, certs)
}

func TestSaveTemplateAndIssueAbortsOnInvalidTemplate(t *testing.T) {
	fx := newFixture(t, 2)
	ctx := context.Background()

	_, _, err := fx.svc.SaveTemplateAndIssue(ctx, fx.courseID, fx.staffID, &dto.SaveAndIssueRequest{
		Template: dto.TemplateUpdateRequest{Style: strPtr("vintage")},
		Issue:    *allEnrolledRequest(),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidStyle)

	// Nothing was issued and no template was written
	certs, err := fx.certs.ListByCourse(ctx, fx.courseID)
	require.NoError(t, err)
	assert.Empty(t, certs)
	assert.Zero(t, fx.certs.upserts)

	_, _, err = fx.svc.SaveTemplateAndIssue(ctx, fx.courseID, fx.staffID, &dto.SaveAndIssueRequest{
		Template: dto.TemplateUpdateRequest{PrimaryColor: strPtr("881337")}, // missing '#'
		Issue:    *allEnrolledRequest(),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidColor)
}

func TestSaveTemplateAndIssueAppliesTemplateToBatch(t *testing.T) {
	fx := newFixture(t, 2)
	ctx := context.Background()

	tmpl, batch, err := fx.svc.SaveTemplateAndIssue(ctx, fx.courseID, fx.staffID, &dto.SaveAndIssueRequest{
		Template: dto.TemplateUpdateRequest{
			Style:        strPtr("modern"),
			PrimaryColor: strPtr("#0f766e"),
		},
		Issue: *allEnrolledRequest(),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StyleModern, tmpl.Style)
	assert.Equal(t, 2, batch.Issued)
}

func TestPreviewDoesNotPersistTemplate(t *testing.T) {
	fx := newFixture(t, 1)
	ctx := context.Background()

	pdf, err := fx.svc.Preview(ctx, fx.courseID, fx.staffID, &dto.PreviewRequest{
		Template:   dto.TemplateUpdateRequest{Style: strPtr("minimalist")},
		SampleName: "Preview Person",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Contains(t, fx.renderer.rendered, "Preview Person")

	// The patched template was never written
	_, err = fx.certs.GetTemplateByCourse(ctx, fx.courseID)
	assert.ErrorIs(t, err, apperrors.ErrTemplateNotFound)
}

func TestGetPublicCertificateRequiresMatchingToken(t *testing.T) {
	fx := newFixture(t, 1)
	ctx := context.Background()

	resp, err := fx.svc.IssueNewOnly(ctx, fx.courseID, fx.staffID, allEnrolledRequest())
	require.NoError(t, err)
	certID := *resp.Outcomes[0].CertificateID

	cert, err := fx.certs.GetByID(ctx, certID)
	require.NoError(t, err)

	public, err := fx.svc.GetPublicCertificate(ctx, certID, cert.VerificationCode)
	require.NoError(t, err)
	assert.Equal(t, cert.SerialNo, public.SerialNo)
	assert.Equal(t, "Student 01", public.StudentName)

	_, err = fx.svc.GetPublicCertificate(ctx, certID, "wrong-token")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = fx.svc.GetPublicCertificate(ctx, certID, "")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestDownloadRequiresRenderedArtifact(t *testing.T) {
	fx := newFixture(t, 1)
	ctx := context.Background()

	fx.renderer.failFor["Student 01"] = true
	resp, err := fx.svc.IssueNewOnly(ctx, fx.courseID, fx.staffID, allEnrolledRequest())
	require.NoError(t, err)
	certID := *resp.Outcomes[0].CertificateID

	_, _, err = fx.svc.Download(ctx, certID, fx.staffID)
	assert.ErrorIs(t, err, apperrors.ErrRenderFailed)
}

func TestIssueDeniedForNonStaff(t *testing.T) {
	fx := newFixture(t, 1)
	fx.validator.denyStaff = true

	_, err := fx.svc.IssueNewOnly(context.Background(), fx.courseID, uuid.New(), allEnrolledRequest())
	assert.ErrorIs(t, err, apperrors.ErrNotCourseStaff)
}

func strPtr(s string) *string { return &s }
