package models

import (
	"time"

	"github.com/google/uuid"
)

// CertificateStyle identifies one of the built-in certificate layouts
type CertificateStyle string

const (
	StyleClassic    CertificateStyle = "classic"
	StyleMinimalist CertificateStyle = "minimalist"
	StyleModern     CertificateStyle = "modern"
)

// ValidStyle reports whether s is one of the built-in layouts.
func ValidStyle(s CertificateStyle) bool {
	switch s {
	case StyleClassic, StyleMinimalist, StyleModern:
		return true
	}
	return false
}

// RenderStatus tracks the rendering lifecycle of one certificate
type RenderStatus string

const (
	RenderPending RenderStatus = "pending"
	RenderDone    RenderStatus = "done"
	RenderFailed  RenderStatus = "failed"
)

// Default certificate theme values, applied when a course has no template.
const (
	DefaultPrimaryColor   = "#881337"
	DefaultSecondaryColor = "#1f2937"
	DefaultLocale         = "th"
)

// MaxRenderErrorLen caps the stored render error text.
const MaxRenderErrorLen = 2000

// CertificateTemplate holds per-course certificate styling, created lazily the
// first time a course's template is read or written. At most one per course.
type CertificateTemplate struct {
	ID                  uuid.UUID        `json:"id" db:"id"`
	CourseID            uuid.UUID        `json:"courseId" db:"course_id"`
	Style               CertificateStyle `json:"style" db:"style" example:"classic"`
	PrimaryColor        string           `json:"primaryColor" db:"primary_color" example:"#881337"`
	SecondaryColor      string           `json:"secondaryColor" db:"secondary_color" example:"#1f2937"`
	CourseTitleOverride *string          `json:"courseTitleOverride" db:"course_title_override"`
	IssuerName          string           `json:"issuerName" db:"issuer_name"`
	Locale              string           `json:"locale" db:"locale" example:"th"`
	UpdatedBy           *uuid.UUID       `json:"updatedBy,omitempty" db:"updated_by"`
	UpdatedAt           time.Time        `json:"updatedAt" db:"updated_at"`
}

// DefaultTemplate returns the template used for courses that never configured
// one. It is not persisted until first written.
func DefaultTemplate(courseID uuid.UUID) *CertificateTemplate {
	return &CertificateTemplate{
		CourseID:       courseID,
		Style:          StyleClassic,
		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		IssuerName:     "",
		Locale:         DefaultLocale,
	}
}

// Certificate represents one issued credential. Display fields are snapshots
// captured at issuance time; later renames never alter a historical
// certificate. At most one certificate exists per (course, student) pair,
// enforced by a unique constraint.
type Certificate struct {
	ID               uuid.UUID    `json:"id" db:"id"`
	StudentID        uuid.UUID    `json:"studentId" db:"student_id"`
	CourseID         uuid.UUID    `json:"courseId" db:"course_id"`
	TemplateID       *uuid.UUID   `json:"templateId,omitempty" db:"template_id"`
	SerialNo         string       `json:"serialNo" db:"serial_no" example:"CERT-20250314-8KX2QD"`
	VerificationCode string       `json:"verificationCode" db:"verification_code"`
	StudentName      string       `json:"studentName" db:"student_name"`
	CourseName       string       `json:"courseName" db:"course_name"`
	InstructorName   string       `json:"instructorName" db:"instructor_name"`
	CompletionDate   time.Time    `json:"completionDate" db:"completion_date"`
	RenderStatus     RenderStatus `json:"renderStatus" db:"render_status" example:"done"`
	RenderError      string       `json:"renderError,omitempty" db:"render_error"`
	FilePath         *string      `json:"filePath,omitempty" db:"file_path"`
	CreatedBy        uuid.UUID    `json:"createdBy" db:"created_by"`
	CreatedAt        time.Time    `json:"createdAt" db:"created_at"`
	IssuedAt         time.Time    `json:"issuedAt" db:"issued_at"`
}
