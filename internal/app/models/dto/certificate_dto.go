package dto

import (
	"time"

	"github.com/edulab/lms-backend/internal/app/models"
	"github.com/google/uuid"
)

// TemplateResponse represents a course certificate template
type TemplateResponse struct {
	ID                  uuid.UUID `json:"id"`
	CourseID            uuid.UUID `json:"courseId"`
	Style               string    `json:"style" example:"classic"`
	PrimaryColor        string    `json:"primaryColor" example:"#881337"`
	SecondaryColor      string    `json:"secondaryColor" example:"#1f2937"`
	CourseTitleOverride *string   `json:"courseTitleOverride"`
	IssuerName          string    `json:"issuerName"`
	Locale              string    `json:"locale" example:"th"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// TemplateUpdateRequest represents a partial template update. Omitted fields
// keep their current values.
type TemplateUpdateRequest struct {
	Style               *string `json:"style" binding:"omitempty,oneof=classic minimalist modern"`
	PrimaryColor        *string `json:"primaryColor" binding:"omitempty"`
	SecondaryColor      *string `json:"secondaryColor" binding:"omitempty"`
	CourseTitleOverride *string `json:"courseTitleOverride" binding:"omitempty,max=300"`
	IssuerName          *string `json:"issuerName" binding:"omitempty,max=200"`
	Locale              *string `json:"locale" binding:"omitempty,oneof=th en"`
}

// IssueRequest selects which students receive certificates in one batch.
// Exactly one of the target selectors must be set.
type IssueRequest struct {
	IssueForStudentIDs    []uuid.UUID `json:"issueForStudentIds" binding:"omitempty,dive,uuid4"`
	IssueForAllEnrolled   bool        `json:"issueForAllEnrolled"`
	IssueForCompletedOnly *bool       `json:"issueForCompletedOnly"`
}

// CompletedOnly reports whether the all-enrolled expansion is limited to
// completed enrollments. Explicit student ids ignore it. Defaults to true
// when the field is omitted.
func (r *IssueRequest) CompletedOnly() bool {
	if r.IssueForCompletedOnly == nil {
		return true
	}
	return *r.IssueForCompletedOnly
}

// SaveAndIssueRequest combines a template update with a batch issuance.
// The template is validated and saved before any certificate is touched.
type SaveAndIssueRequest struct {
	Template TemplateUpdateRequest `json:"template"`
	Issue    IssueRequest          `json:"issue"`
}

// IssueOutcomeStatus classifies the result of one student in a batch
type IssueOutcomeStatus string

const (
	IssueOutcomeIssued    IssueOutcomeStatus = "issued"
	IssueOutcomeRefreshed IssueOutcomeStatus = "refreshed"
	IssueOutcomeSkipped   IssueOutcomeStatus = "skipped"
	IssueOutcomeFailed    IssueOutcomeStatus = "failed"
)

// IssueOutcome reports the per-student result of a batch issuance
type IssueOutcome struct {
	StudentID     uuid.UUID          `json:"studentId"`
	StudentName   string             `json:"studentName"`
	CertificateID *uuid.UUID         `json:"certificateId,omitempty"`
	SerialNo      string             `json:"serialNo,omitempty"`
	Status        IssueOutcomeStatus `json:"status" example:"issued"`
	RenderStatus  string             `json:"renderStatus,omitempty" example:"done"`
	Error         string             `json:"error,omitempty"`
}

// IssueBatchResponse summarizes a whole batch issuance
type IssueBatchResponse struct {
	CourseID  uuid.UUID      `json:"courseId"`
	Requested int            `json:"requested"`
	Issued    int            `json:"issued"`
	Refreshed int            `json:"refreshed"`
	Skipped   int            `json:"skipped"`
	Failed    int            `json:"failed"`
	Outcomes  []IssueOutcome `json:"outcomes"`
}

// CertificateResponse represents one issued certificate for staff listings
type CertificateResponse struct {
	ID             uuid.UUID `json:"id"`
	StudentID      uuid.UUID `json:"studentId"`
	CourseID       uuid.UUID `json:"courseId"`
	SerialNo       string    `json:"serialNo"`
	StudentName    string    `json:"studentName"`
	CourseName     string    `json:"courseName"`
	InstructorName string    `json:"instructorName"`
	CompletionDate string    `json:"completionDate" example:"14/03/2025"`
	RenderStatus   string    `json:"renderStatus"`
	RenderError    string    `json:"renderError,omitempty"`
	IssuedAt       time.Time `json:"issuedAt"`
}

// PublicCertificateResponse is the token-gated public verification view.
// It never exposes internal identifiers beyond the certificate itself.
type PublicCertificateResponse struct {
	StudentName      string           `json:"studentName"`
	CourseName       string           `json:"courseName"`
	InstructorName   string           `json:"instructorName"`
	CompletionDate   string           `json:"completionDate" example:"14/03/2025"`
	SerialNo         string           `json:"serialNo"`
	VerificationCode string           `json:"verificationCode"`
	Template         TemplateSnapshot `json:"template"`
}

// TemplateSnapshot carries the styling the public view renders with
type TemplateSnapshot struct {
	Style          string `json:"style" example:"classic"`
	PrimaryColor   string `json:"primaryColor" example:"#881337"`
	SecondaryColor string `json:"secondaryColor" example:"#1f2937"`
	IssuerName     string `json:"issuerName"`
	Locale         string `json:"locale" example:"th"`
}

// PreviewRequest renders a sample certificate without persisting anything
type PreviewRequest struct {
	Template   TemplateUpdateRequest `json:"template"`
	SampleName string                `json:"sampleName" binding:"omitempty,max=200"`
}

// ToTemplateResponse maps a template model to its API representation
func ToTemplateResponse(template *models.CertificateTemplate) TemplateResponse {
	return TemplateResponse{
		ID:                  template.ID,
		CourseID:            template.CourseID,
		Style:               string(template.Style),
		PrimaryColor:        template.PrimaryColor,
		SecondaryColor:      template.SecondaryColor,
		CourseTitleOverride: template.CourseTitleOverride,
		IssuerName:          template.IssuerName,
		Locale:              template.Locale,
		UpdatedAt:           template.UpdatedAt,
	}
}

// ToCertificateResponse maps a certificate model to its staff-facing view
func ToCertificateResponse(cert *models.Certificate, completionDate string) CertificateResponse {
	return CertificateResponse{
		ID:             cert.ID,
		StudentID:      cert.StudentID,
		CourseID:       cert.CourseID,
		SerialNo:       cert.SerialNo,
		StudentName:    cert.StudentName,
		CourseName:     cert.CourseName,
		InstructorName: cert.InstructorName,
		CompletionDate: completionDate,
		RenderStatus:   string(cert.RenderStatus),
		RenderError:    cert.RenderError,
		IssuedAt:       cert.IssuedAt,
	}
}
