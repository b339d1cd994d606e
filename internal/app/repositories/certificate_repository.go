package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/edulab/lms-backend/internal/app/models"
	"github.com/edulab/lms-backend/internal/pkg/apperrors"
	"github.com/edulab/lms-backend/internal/pkg/dberrors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CertificateRepository handles certificate and template database operations
type CertificateRepository struct {
	db *pgxpool.Pool
}

// NewCertificateRepository creates a new CertificateRepository
func NewCertificateRepository(db *pgxpool.Pool) *CertificateRepository {
	return &CertificateRepository{
		db: db,
	}
}

const templateColumns = `id, course_id, style, primary_color, secondary_color, course_title_override, issuer_name, locale, updated_by, updated_at`

func scanTemplate(row pgx.Row) (*models.CertificateTemplate, error) {
	tmpl := &models.CertificateTemplate{}
	err := row.Scan(
		&tmpl.ID, &tmpl.CourseID, &tmpl.Style, &tmpl.PrimaryColor, &tmpl.SecondaryColor,
		&tmpl.CourseTitleOverride, &tmpl.IssuerName, &tmpl.Locale, &tmpl.UpdatedBy, &tmpl.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("error scanning certificate template: %w", err)
	}
	return tmpl, nil
}

// GetTemplateByCourse retrieves a course's certificate template
func (r *CertificateRepository) GetTemplateByCourse(ctx context.Context, courseID uuid.UUID) (*models.CertificateTemplate, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+templateColumns+`
		FROM certificate_templates
		WHERE course_id = $1`,
		courseID)

	return scanTemplate(row)
}

// UpsertTemplate creates or updates the single template row of a course.
// The one-per-course rule is enforced by the unique course_id constraint.
func (r *CertificateRepository) UpsertTemplate(ctx context.Context, tmpl *models.CertificateTemplate) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO certificate_templates
			(course_id, style, primary_color, secondary_color, course_title_override, issuer_name, locale, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (course_id) DO UPDATE SET
			style = EXCLUDED.style,
			primary_color = EXCLUDED.primary_color,
			secondary_color = EXCLUDED.secondary_color,
			course_title_override = EXCLUDED.course_title_override,
			issuer_name = EXCLUDED.issuer_name,
			locale = EXCLUDED.locale,
			updated_by = EXCLUDED.updated_by,
			updated_at = now()
		RETURNING id, updated_at`,
		tmpl.CourseID, tmpl.Style, tmpl.PrimaryColor, tmpl.SecondaryColor,
		tmpl.CourseTitleOverride, tmpl.IssuerName, tmpl.Locale, tmpl.UpdatedBy).
		Scan(&tmpl.ID, &tmpl.UpdatedAt)

	if err != nil {
		return fmt.Errorf("error upserting certificate template: %w", err)
	}

	return nil
}

const certificateColumns = `id, student_id, course_id, template_id, serial_no, verification_code,
		student_name, course_name, instructor_name, completion_date,
		render_status, render_error, file_path, created_by, created_at, issued_at`

func scanCertificate(row pgx.Row) (*models.Certificate, error) {
	cert := &models.Certificate{}
	err := row.Scan(
		&cert.ID, &cert.StudentID, &cert.CourseID, &cert.TemplateID, &cert.SerialNo, &cert.VerificationCode,
		&cert.StudentName, &cert.CourseName, &cert.InstructorName, &cert.CompletionDate,
		&cert.RenderStatus, &cert.RenderError, &cert.FilePath, &cert.CreatedBy, &cert.CreatedAt, &cert.IssuedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCertificateNotFound
		}
		return nil, fmt.Errorf("error scanning certificate: %w", err)
	}
	return cert, nil
}

// Create inserts a new certificate. A concurrent insert for the same
// (course, student) pair surfaces as ErrCertificateExists.
func (r *CertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO certificates
			(student_id, course_id, template_id, serial_no, verification_code,
			 student_name, course_name, instructor_name, completion_date,
			 render_status, render_error, created_by, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`,
		cert.StudentID, cert.CourseID, cert.TemplateID, cert.SerialNo, cert.VerificationCode,
		cert.StudentName, cert.CourseName, cert.InstructorName, cert.CompletionDate,
		cert.RenderStatus, cert.RenderError, cert.CreatedBy, cert.IssuedAt).
		Scan(&cert.ID, &cert.CreatedAt)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCertificateExists
		}
		return fmt.Errorf("error creating certificate: %w", err)
	}

	return nil
}

// GetByID retrieves a certificate by ID
func (r *CertificateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Certificate, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+certificateColumns+`
		FROM certificates
		WHERE id = $1`,
		id)

	return scanCertificate(row)
}

// GetByCourseAndStudent retrieves the certificate of one student in a course
func (r *CertificateRepository) GetByCourseAndStudent(ctx context.Context, courseID, studentID uuid.UUID) (*models.Certificate, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+certificateColumns+`
		FROM certificates
		WHERE course_id = $1 AND student_id = $2`,
		courseID, studentID)

	return scanCertificate(row)
}

// ListByCourse retrieves all certificates issued for a course
func (r *CertificateRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Certificate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+certificateColumns+`
		FROM certificates
		WHERE course_id = $1
		ORDER BY issued_at DESC`,
		courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing certificates: %w", err)
	}
	defer rows.Close()

	var certs []*models.Certificate
	for rows.Next() {
		cert, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}

	return certs, rows.Err()
}

// ListByStudent retrieves all certificates a student holds
func (r *CertificateRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*models.Certificate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+certificateColumns+`
		FROM certificates
		WHERE student_id = $1
		ORDER BY issued_at DESC`,
		studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing certificates: %w", err)
	}
	defer rows.Close()

	var certs []*models.Certificate
	for rows.Next() {
		cert, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}

	return certs, rows.Err()
}

// RefreshSnapshot updates an existing certificate in place. The serial number
// and verification code never change after first issuance.
func (r *CertificateRepository) RefreshSnapshot(ctx context.Context, cert *models.Certificate) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE certificates
		SET template_id = $1, student_name = $2, course_name = $3, instructor_name = $4,
		    completion_date = $5, render_status = $6, render_error = $7, issued_at = $8
		WHERE id = $9`,
		cert.TemplateID, cert.StudentName, cert.CourseName, cert.InstructorName,
		cert.CompletionDate, cert.RenderStatus, cert.RenderError, cert.IssuedAt, cert.ID)

	if err != nil {
		return fmt.Errorf("error refreshing certificate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCertificateNotFound
	}

	return nil
}

// UpdateRenderResult records the outcome of one render attempt
func (r *CertificateRepository) UpdateRenderResult(ctx context.Context, certID uuid.UUID, status models.RenderStatus, renderError string, filePath *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE certificates
		SET render_status = $1, render_error = $2, file_path = $3
		WHERE id = $4`,
		status, renderError, filePath, certID)

	if err != nil {
		return fmt.Errorf("error updating render result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCertificateNotFound
	}

	return nil
}
