package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/edulab/lms-backend/internal/app/models"
	"github.com/edulab/lms-backend/internal/app/models/dto"
	"github.com/edulab/lms-backend/internal/pkg/apperrors"
	"github.com/edulab/lms-backend/internal/pkg/certrender"
	"github.com/edulab/lms-backend/internal/pkg/filestorage"
	"github.com/edulab/lms-backend/internal/pkg/helpers"
	"github.com/edulab/lms-backend/internal/pkg/serial"
	"github.com/edulab/lms-backend/internal/pkg/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CertificateStore is the persistence surface the issuance pipeline needs
type CertificateStore interface {
	GetTemplateByCourse(ctx context.Context, courseID uuid.UUID) (*models.CertificateTemplate, error)
	UpsertTemplate(ctx context.Context, tmpl *models.CertificateTemplate) error
	Create(ctx context.Context, cert *models.Certificate) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Certificate, error)
	GetByCourseAndStudent(ctx context.Context, courseID, studentID uuid.UUID) (*models.Certificate, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Certificate, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Certificate, error)
	RefreshSnapshot(ctx context.Context, cert *models.Certificate) error
	UpdateRenderResult(ctx context.Context, certID uuid.UUID, status models.RenderStatus, renderError string, filePath *string) error
}

// CourseStore is the course lookup surface the issuance pipeline needs
type CourseStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	GetEnrollment(ctx context.Context, courseID, studentID uuid.UUID) (*models.Enrollment, error)
	ListEnrollments(ctx context.Context, courseID uuid.UUID, completedOnly bool) ([]*models.Enrollment, error)
}

// StaffValidator guards staff-only and holder-only operations
type StaffValidator interface {
	ValidateCourseStaff(ctx context.Context, courseID, userID uuid.UUID) error
	ValidateCertificateAccess(ctx context.Context, cert *models.Certificate, userID uuid.UUID) error
}

// CertificateServiceOptions carries tunables from configuration
type CertificateServiceOptions struct {
	PublicBaseURL string
	RenderTimeout time.Duration
	IssueWorkers  int
}

// CertificateService handles template management, issuance and rendering
type CertificateService struct {
	certRepo    CertificateStore
	courseRepo  CourseStore
	authService StaffValidator
	renderer    certrender.Renderer
	storage     filestorage.FileStorage
	opts        CertificateServiceOptions
	logger      zerolog.Logger
}

// NewCertificateService creates a new CertificateService
func NewCertificateService(
	certRepo CertificateStore,
	courseRepo CourseStore,
	authService StaffValidator,
	renderer certrender.Renderer,
	storage filestorage.FileStorage,
	opts CertificateServiceOptions,
	logger zerolog.Logger,
) *CertificateService {
	if opts.IssueWorkers < 1 {
		opts.IssueWorkers = 1
	}
	if opts.RenderTimeout <= 0 {
		opts.RenderTimeout = 90 * time.Second
	}
	return &CertificateService{
		certRepo:    certRepo,
		courseRepo:  courseRepo,
		authService: authService,
		renderer:    renderer,
		storage:     storage,
		opts:        opts,
		logger:      logger,
	}
}

// GetTemplate returns a course's template, creating the default row on
// first read
func (s *CertificateService) GetTemplate(ctx context.Context, courseID, userID uuid.UUID) (*models.CertificateTemplate, error) {
	if err := s.authService.ValidateCourseStaff(ctx, courseID, userID); err != nil {
		return nil, err
	}

	tmpl, err := s.certRepo.GetTemplateByCourse(ctx, courseID)
	if err == nil {
		return tmpl, nil
	}
	if !errors.Is(err, apperrors.ErrTemplateNotFound) {
		return nil, err
	}

	tmpl = models.DefaultTemplate(courseID)
	if err := s.certRepo.UpsertTemplate(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// UpdateTemplate applies a partial template update after validating it
func (s *CertificateService) UpdateTemplate(ctx context.Context, courseID, userID uuid.UUID, req *dto.TemplateUpdateRequest) (*models.CertificateTemplate, error) {
	if err := s.authService.ValidateCourseStaff(ctx, courseID, userID); err != nil {
		return nil, err
	}
	return s.saveTemplate(ctx, courseID, userID, req)
}

// saveTemplate validates and persists a template patch. Callers must have
// authorized the user already.
func (s *CertificateService) saveTemplate(ctx context.Context, courseID, userID uuid.UUID, req *dto.TemplateUpdateRequest) (*models.CertificateTemplate, error) {
	if err := validateTemplatePatch(req); err != nil {
		return nil, err
	}

	tmpl, err := s.certRepo.GetTemplateByCourse(ctx, courseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrTemplateNotFound) {
			return nil, err
		}
		tmpl = models.DefaultTemplate(courseID)
	}

	if req.Style != nil {
		tmpl.Style = models.CertificateStyle(*req.Style)
	}
	if req.PrimaryColor != nil {
		tmpl.PrimaryColor = *req.PrimaryColor
	}
	if req.SecondaryColor != nil {
		tmpl.SecondaryColor = *req.SecondaryColor
	}
	if req.CourseTitleOverride != nil {
		if *req.CourseTitleOverride == "" {
			tmpl.CourseTitleOverride = nil
		} else {
			tmpl.CourseTitleOverride = req.CourseTitleOverride
		}
	}
	if req.IssuerName != nil {
		tmpl.IssuerName = *req.IssuerName
	}
	if req.Locale != nil {
		tmpl.Locale = *req.Locale
	}
	tmpl.UpdatedBy = &userID

	if err := s.certRepo.UpsertTemplate(ctx, tmpl); err != nil {
		return nil, err
	}

	s.logger.Info().Str("courseID", courseID.String()).Str("style", string(tmpl.Style)).Msg("Certificate template saved")
	return tmpl, nil
}

// validateTemplatePatch rejects unknown styles and malformed colors
func validateTemplatePatch(req *dto.TemplateUpdateRequest) error {
	if req.Style != nil && !models.ValidStyle(models.CertificateStyle(*req.Style)) {
		return apperrors.ErrInvalidStyle
	}
	if req.PrimaryColor != nil && !validation.IsValidHexColor(*req.PrimaryColor) {
		return apperrors.ErrInvalidColor
	}
	if req.SecondaryColor != nil && !validation.IsValidHexColor(*req.SecondaryColor) {
		return apperrors.ErrInvalidColor
	}
	return nil
}

// issueTarget is one student selected for a batch
type issueTarget struct {
	studentID      uuid.UUID
	studentName    string
	completionDate time.Time
	failReason     string
}

// IssueNewOnly issues certificates to the selected students, skipping anyone
// who already holds one for the course.
func (s *CertificateService) IssueNewOnly(ctx context.Context, courseID, userID uuid.UUID, req *dto.IssueRequest) (*dto.IssueBatchResponse, error) {
	return s.issue(ctx, courseID, userID, req, false)
}

// IssueOrRefresh issues certificates to the selected students, refreshing the
// snapshot of anyone who already holds one. Serial numbers never change.
func (s *CertificateService) IssueOrRefresh(ctx context.Context, courseID, userID uuid.UUID, req *dto.IssueRequest) (*dto.IssueBatchResponse, error) {
	return s.issue(ctx, courseID, userID, req, true)
}

// SaveTemplateAndIssue persists a template update and then runs an
// issue-or-refresh batch. An invalid template aborts before any certificate
// is touched. A request with no issuance target saves the template only and
// returns an empty batch.
func (s *CertificateService) SaveTemplateAndIssue(ctx context.Context, courseID, userID uuid.UUID, req *dto.SaveAndIssueRequest) (*models.CertificateTemplate, *dto.IssueBatchResponse, error) {
	if err := s.authService.ValidateCourseStaff(ctx, courseID, userID); err != nil {
		return nil, nil, err
	}

	tmpl, err := s.saveTemplate(ctx, courseID, userID, &req.Template)
	if err != nil {
		return nil, nil, err
	}

	batch := &dto.IssueBatchResponse{CourseID: courseID, Outcomes: []dto.IssueOutcome{}}
	if req.Issue.IssueForAllEnrolled || len(req.Issue.IssueForStudentIDs) > 0 {
		batch, err = s.issue(ctx, courseID, userID, &req.Issue, true)
		if err != nil {
			return nil, nil, err
		}
	}

	return tmpl, batch, nil
}

func (s *CertificateService) issue(ctx context.Context, courseID, userID uuid.UUID, req *dto.IssueRequest, refresh bool) (*dto.IssueBatchResponse, error) {
	if err := s.authService.ValidateCourseStaff(ctx, courseID, userID); err != nil {
		return nil, err
	}

	hasIDs := len(req.IssueForStudentIDs) > 0
	if hasIDs == req.IssueForAllEnrolled {
		return nil, apperrors.ErrNoIssueTarget
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.templateOrDefault(ctx, courseID)
	if err != nil {
		return nil, err
	}

	targets, err := s.resolveTargets(ctx, courseID, req)
	if err != nil {
		return nil, err
	}

	outcomes := make([]dto.IssueOutcome, len(targets))

	// Bounded worker pool; one worker degenerates to a synchronous loop
	sem := make(chan struct{}, s.opts.IssueWorkers)
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, target issueTarget) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = s.issueOne(ctx, course, tmpl, target, userID, refresh)
		}(i, target)
	}
	wg.Wait()

	resp := &dto.IssueBatchResponse{
		CourseID:  courseID,
		Requested: len(targets),
		Outcomes:  outcomes,
	}
	for _, o := range outcomes {
		switch o.Status {
		case dto.IssueOutcomeIssued:
			resp.Issued++
		case dto.IssueOutcomeRefreshed:
			resp.Refreshed++
		case dto.IssueOutcomeSkipped:
			resp.Skipped++
		case dto.IssueOutcomeFailed:
			resp.Failed++
		}
	}

	s.logger.Info().
		Str("courseID", courseID.String()).
		Int("requested", resp.Requested).
		Int("issued", resp.Issued).
		Int("refreshed", resp.Refreshed).
		Int("skipped", resp.Skipped).
		Int("failed", resp.Failed).
		Msg("Certificate batch finished")

	return resp, nil
}

// templateOrDefault loads a course's template without creating one
func (s *CertificateService) templateOrDefault(ctx context.Context, courseID uuid.UUID) (*models.CertificateTemplate, error) {
	tmpl, err := s.certRepo.GetTemplateByCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTemplateNotFound) {
			return models.DefaultTemplate(courseID), nil
		}
		return nil, err
	}
	return tmpl, nil
}

// resolveTargets expands the issue request into a concrete student list.
// The completed-only filter qualifies the all-enrolled expansion; explicitly
// listed students are issued regardless of completion status.
func (s *CertificateService) resolveTargets(ctx context.Context, courseID uuid.UUID, req *dto.IssueRequest) ([]issueTarget, error) {
	if req.IssueForAllEnrolled {
		enrollments, err := s.courseRepo.ListEnrollments(ctx, courseID, req.CompletedOnly())
		if err != nil {
			return nil, err
		}
		targets := make([]issueTarget, 0, len(enrollments))
		for _, e := range enrollments {
			targets = append(targets, issueTarget{
				studentID:      e.StudentID,
				studentName:    e.Student.FullName,
				completionDate: time.Now(),
			})
		}
		return targets, nil
	}

	targets := make([]issueTarget, 0, len(req.IssueForStudentIDs))
	for _, studentID := range req.IssueForStudentIDs {
		enrollment, err := s.courseRepo.GetEnrollment(ctx, courseID, studentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrEnrollmentNotFound) {
				targets = append(targets, issueTarget{
					studentID:  studentID,
					failReason: "student is not enrolled in this course",
				})
				continue
			}
			return nil, err
		}

		target := issueTarget{
			studentID:      studentID,
			completionDate: time.Now(),
		}
		if enrollment.Student != nil {
			target.studentName = enrollment.Student.FullName
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// issueOne processes a single student: create or refresh the certificate row,
// render the document and record the result. Render failures are captured on
// the certificate and never abort the batch.
func (s *CertificateService) issueOne(ctx context.Context, course *models.Course, tmpl *models.CertificateTemplate, target issueTarget, issuedBy uuid.UUID, refresh bool) dto.IssueOutcome {
	outcome := dto.IssueOutcome{
		StudentID:   target.studentID,
		StudentName: target.studentName,
	}

	if target.failReason != "" {
		outcome.Status = dto.IssueOutcomeFailed
		outcome.Error = target.failReason
		return outcome
	}

	var templateID *uuid.UUID
	if tmpl.ID != uuid.Nil {
		templateID = &tmpl.ID
	}

	existing, err := s.certRepo.GetByCourseAndStudent(ctx, course.ID, target.studentID)
	switch {
	case err == nil && !refresh:
		outcome.Status = dto.IssueOutcomeSkipped
		outcome.CertificateID = &existing.ID
		outcome.SerialNo = existing.SerialNo
		outcome.RenderStatus = string(existing.RenderStatus)
		return outcome

	case err == nil:
		// Refresh in place, keeping serial and verification code
		existing.TemplateID = templateID
		existing.StudentName = target.studentName
		existing.CourseName = certificateCourseName(course, tmpl)
		existing.InstructorName = instructorName(course, tmpl)
		existing.CompletionDate = target.completionDate
		existing.RenderStatus = models.RenderPending
		existing.RenderError = ""
		existing.IssuedAt = time.Now()
		if err := s.certRepo.RefreshSnapshot(ctx, existing); err != nil {
			outcome.Status = dto.IssueOutcomeFailed
			outcome.Error = truncateError(err.Error())
			return outcome
		}
		outcome.Status = dto.IssueOutcomeRefreshed
		outcome.CertificateID = &existing.ID
		outcome.SerialNo = existing.SerialNo
		outcome.RenderStatus = string(s.renderAndStore(ctx, existing, tmpl))
		return outcome

	case !errors.Is(err, apperrors.ErrCertificateNotFound):
		outcome.Status = dto.IssueOutcomeFailed
		outcome.Error = truncateError(err.Error())
		return outcome
	}

	cert := &models.Certificate{
		StudentID:        target.studentID,
		CourseID:         course.ID,
		TemplateID:       templateID,
		SerialNo:         serial.NewSerial(),
		VerificationCode: serial.NewVerificationCode(),
		StudentName:      target.studentName,
		CourseName:       certificateCourseName(course, tmpl),
		InstructorName:   instructorName(course, tmpl),
		CompletionDate:   target.completionDate,
		RenderStatus:     models.RenderPending,
		CreatedBy:        issuedBy,
		IssuedAt:         time.Now(),
	}

	if err := s.certRepo.Create(ctx, cert); err != nil {
		if errors.Is(err, apperrors.ErrCertificateExists) {
			// Lost a race with a concurrent batch; the student holds one now
			outcome.Status = dto.IssueOutcomeSkipped
			return outcome
		}
		outcome.Status = dto.IssueOutcomeFailed
		outcome.Error = truncateError(err.Error())
		return outcome
	}

	outcome.Status = dto.IssueOutcomeIssued
	outcome.CertificateID = &cert.ID
	outcome.SerialNo = cert.SerialNo
	outcome.RenderStatus = string(s.renderAndStore(ctx, cert, tmpl))
	return outcome
}

// renderAndStore renders one certificate, saves the artifact and records the
// outcome on the row. Failures are truncated and stored, never propagated.
func (s *CertificateService) renderAndStore(ctx context.Context, cert *models.Certificate, tmpl *models.CertificateTemplate) models.RenderStatus {
	renderCtx, cancel := context.WithTimeout(ctx, s.opts.RenderTimeout)
	defer cancel()

	pdf, err := s.renderer.Render(renderCtx, s.renderData(cert, tmpl))
	if err == nil {
		var filePath string
		filePath, err = s.storage.SaveBytes(pdf, "certificates", fmt.Sprintf("cert_%s.pdf", cert.ID))
		if err == nil {
			if err := s.certRepo.UpdateRenderResult(ctx, cert.ID, models.RenderDone, "", &filePath); err != nil {
				s.logger.Error().Err(err).Str("certID", cert.ID.String()).Msg("Failed to record render result")
			}
			return models.RenderDone
		}
	}

	renderError := truncateError(err.Error())
	s.logger.Warn().Str("certID", cert.ID.String()).Str("error", renderError).Msg("Certificate render failed")
	if err := s.certRepo.UpdateRenderResult(ctx, cert.ID, models.RenderFailed, renderError, nil); err != nil {
		s.logger.Error().Err(err).Str("certID", cert.ID.String()).Msg("Failed to record render failure")
	}
	return models.RenderFailed
}

// renderData builds the render snapshot for one certificate
func (s *CertificateService) renderData(cert *models.Certificate, tmpl *models.CertificateTemplate) certrender.Data {
	return certrender.Data{
		CertificateID:    cert.ID.String(),
		StudentName:      cert.StudentName,
		CourseName:       cert.CourseName,
		InstructorName:   cert.InstructorName,
		IssuerName:       tmpl.IssuerName,
		CompletionDate:   helpers.FormatCompletionDate(cert.CompletionDate),
		SerialNo:         cert.SerialNo,
		VerificationCode: cert.VerificationCode,
		VerifyURL:        s.verifyURL(cert),
		Style:            string(tmpl.Style),
		PrimaryColor:     tmpl.PrimaryColor,
		SecondaryColor:   tmpl.SecondaryColor,
		Locale:           tmpl.Locale,
	}
}

func (s *CertificateService) verifyURL(cert *models.Certificate) string {
	if s.opts.PublicBaseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/certificates/%s?token=%s", s.opts.PublicBaseURL, cert.ID, cert.VerificationCode)
}

// Preview renders a sample certificate with a template patch applied without
// persisting anything
func (s *CertificateService) Preview(ctx context.Context, courseID, userID uuid.UUID, req *dto.PreviewRequest) ([]byte, error) {
	if err := s.authService.ValidateCourseStaff(ctx, courseID, userID); err != nil {
		return nil, err
	}
	if err := validateTemplatePatch(&req.Template); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.templateOrDefault(ctx, courseID)
	if err != nil {
		return nil, err
	}
	applyPatch(tmpl, &req.Template)

	sampleName := req.SampleName
	if sampleName == "" {
		sampleName = "Somsri Rakrien"
	}

	renderCtx, cancel := context.WithTimeout(ctx, s.opts.RenderTimeout)
	defer cancel()

	pdf, err := s.renderer.Render(renderCtx, certrender.Data{
		CertificateID:  uuid.Nil.String(),
		StudentName:    sampleName,
		CourseName:     certificateCourseName(course, tmpl),
		InstructorName: instructorName(course, tmpl),
		IssuerName:     tmpl.IssuerName,
		CompletionDate: helpers.FormatCompletionDate(time.Now()),
		SerialNo:       "CERT-00000000-SAMPLE",
		Style:          string(tmpl.Style),
		PrimaryColor:   tmpl.PrimaryColor,
		SecondaryColor: tmpl.SecondaryColor,
		Locale:         tmpl.Locale,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrRenderFailed, truncateError(err.Error()))
	}
	return pdf, nil
}

// applyPatch overlays a validated template patch onto a template in memory
func applyPatch(tmpl *models.CertificateTemplate, req *dto.TemplateUpdateRequest) {
	if req.Style != nil {
		tmpl.Style = models.CertificateStyle(*req.Style)
	}
	if req.PrimaryColor != nil {
		tmpl.PrimaryColor = *req.PrimaryColor
	}
	if req.SecondaryColor != nil {
		tmpl.SecondaryColor = *req.SecondaryColor
	}
	if req.CourseTitleOverride != nil && *req.CourseTitleOverride != "" {
		tmpl.CourseTitleOverride = req.CourseTitleOverride
	}
	if req.IssuerName != nil {
		tmpl.IssuerName = *req.IssuerName
	}
	if req.Locale != nil {
		tmpl.Locale = *req.Locale
	}
}

// ListCourseCertificates returns a course's issued certificates. Staff see
// the whole course; everyone else sees only their own certificate.
func (s *CertificateService) ListCourseCertificates(ctx context.Context, courseID, userID uuid.UUID) ([]*models.Certificate, error) {
	if err := s.authService.ValidateCourseStaff(ctx, courseID, userID); err != nil {
		if !errors.Is(err, apperrors.ErrNotCourseStaff) {
			return nil, err
		}
		cert, err := s.certRepo.GetByCourseAndStudent(ctx, courseID, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrCertificateNotFound) {
				return []*models.Certificate{}, nil
			}
			return nil, err
		}
		return []*models.Certificate{cert}, nil
	}
	return s.certRepo.ListByCourse(ctx, courseID)
}

// ListMyCertificates returns the certificates the calling student holds
func (s *CertificateService) ListMyCertificates(ctx context.Context, userID uuid.UUID) ([]*models.Certificate, error) {
	return s.certRepo.ListByStudent(ctx, userID)
}

// GetPublicCertificate is the unauthenticated verification view. The caller
// must present the certificate's verification code.
func (s *CertificateService) GetPublicCertificate(ctx context.Context, certID uuid.UUID, token string) (*dto.PublicCertificateResponse, error) {
	cert, err := s.certRepo.GetByID(ctx, certID)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(cert.VerificationCode), []byte(token)) != 1 {
		return nil, apperrors.ErrPermissionDenied
	}

	tmpl, err := s.templateOrDefault(ctx, cert.CourseID)
	if err != nil {
		return nil, err
	}

	return &dto.PublicCertificateResponse{
		StudentName:      cert.StudentName,
		CourseName:       cert.CourseName,
		InstructorName:   cert.InstructorName,
		CompletionDate:   helpers.FormatCompletionDate(cert.CompletionDate),
		SerialNo:         cert.SerialNo,
		VerificationCode: cert.VerificationCode,
		Template: dto.TemplateSnapshot{
			Style:          string(tmpl.Style),
			PrimaryColor:   tmpl.PrimaryColor,
			SecondaryColor: tmpl.SecondaryColor,
			IssuerName:     tmpl.IssuerName,
			Locale:         tmpl.Locale,
		},
	}, nil
}

// Download returns the stored artifact path for a rendered certificate.
// Holders and course staff only.
func (s *CertificateService) Download(ctx context.Context, certID, userID uuid.UUID) (*models.Certificate, string, error) {
	cert, err := s.certRepo.GetByID(ctx, certID)
	if err != nil {
		return nil, "", err
	}

	if err := s.authService.ValidateCertificateAccess(ctx, cert, userID); err != nil {
		return nil, "", err
	}

	if cert.RenderStatus != models.RenderDone || cert.FilePath == nil {
		return nil, "", apperrors.NewCustomError(apperrors.ErrRenderFailed, "certificate has no rendered document")
	}

	fullPath := s.storage.GetFullPath(*cert.FilePath)
	if fullPath == "" {
		return nil, "", apperrors.NewCustomError(apperrors.ErrRenderFailed, "certificate artifact is missing")
	}

	return cert, fullPath, nil
}

// certificateCourseName applies the template's course title override
func certificateCourseName(course *models.Course, tmpl *models.CertificateTemplate) string {
	if tmpl.CourseTitleOverride != nil && *tmpl.CourseTitleOverride != "" {
		return *tmpl.CourseTitleOverride
	}
	return course.Title
}

// instructorName snapshots the template's issuer when one is configured,
// falling back to the course instructor's full name.
func instructorName(course *models.Course, tmpl *models.CertificateTemplate) string {
	if tmpl.IssuerName != "" {
		return tmpl.IssuerName
	}
	if course.Instructor != nil {
		return course.Instructor.FullName
	}
	return ""
}

// truncateError caps stored render error text
func truncateError(msg string) string {
	if len(msg) > models.MaxRenderErrorLen {
		return msg[:models.MaxRenderErrorLen]
	}
	return msg
}
