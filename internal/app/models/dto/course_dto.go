package dto

import (
	"time"

	"github.com/edulab/lms-backend/internal/app/models"
	"github.com/google/uuid"
)

// CourseCreateRequest represents course creation data
type CourseCreateRequest struct {
	Title       string             `json:"title" binding:"required,min=3,max=200"`
	Description string             `json:"description" binding:"max=5000"`
	Level       models.CourseLevel `json:"level" binding:"required,oneof=beginner intermediate advanced"`
}

// CourseUpdateRequest represents course update data
type CourseUpdateRequest struct {
	Title       *string              `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string              `json:"description" binding:"omitempty,max=5000"`
	Level       *models.CourseLevel  `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Status      *models.CourseStatus `json:"status" binding:"omitempty,oneof=pending active denied archived"`
}

// CourseResponse represents course information
type CourseResponse struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Level       string        `json:"level"`
	Status      string        `json:"status"`
	Instructor  *UserResponse `json:"instructor,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// EnrollmentResponse represents one student's enrollment in a course
type EnrollmentResponse struct {
	ID         uuid.UUID     `json:"id"`
	CourseID   uuid.UUID     `json:"courseId"`
	Status     string        `json:"status"`
	EnrolledAt time.Time     `json:"enrolledAt"`
	Student    *UserResponse `json:"student,omitempty"`
}

// EnrollmentStatusUpdateRequest changes one enrollment's lifecycle state
type EnrollmentStatusUpdateRequest struct {
	Status models.EnrollmentStatus `json:"status" binding:"required,oneof=enrolled completed cancelled"`
}

// ToCourseResponse maps a course model to its API representation
func ToCourseResponse(course *models.Course) CourseResponse {
	resp := CourseResponse{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Level:       string(course.Level),
		Status:      string(course.Status),
		CreatedAt:   course.CreatedAt,
		UpdatedAt:   course.UpdatedAt,
	}
	if course.Instructor != nil {
		instructor := ToUserResponse(course.Instructor)
		resp.Instructor = &instructor
	}
	return resp
}

// ToEnrollmentResponse maps an enrollment model to its API representation
func ToEnrollmentResponse(enrollment *models.Enrollment) EnrollmentResponse {
	resp := EnrollmentResponse{
		ID:         enrollment.ID,
		CourseID:   enrollment.CourseID,
		Status:     string(enrollment.Status),
		EnrolledAt: enrollment.EnrolledAt,
	}
	if enrollment.Student != nil {
		student := ToUserResponse(enrollment.Student)
		resp.Student = &student
	}
	return resp
}
