package models

import (
	"time"

	"github.com/google/uuid"
)

// Course defines the course model based on the 'courses' table
type Course struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	Title        string       `json:"title" db:"title" example:"Introduction to Data Engineering"`
	Description  string       `json:"description" db:"description"`
	Level        CourseLevel  `json:"level" db:"level" example:"beginner"`
	Status       CourseStatus `json:"status" db:"status" example:"active"`
	InstructorID uuid.UUID    `json:"instructorId" db:"instructor_id"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`

	Instructor *User `json:"instructor,omitempty"` // Relation, no db tag
}

// Enrollment defines the enrollment model based on the 'enrollments' table
type Enrollment struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	StudentID  uuid.UUID        `json:"studentId" db:"student_id"`
	CourseID   uuid.UUID        `json:"courseId" db:"course_id"`
	Status     EnrollmentStatus `json:"status" db:"status" example:"completed"`
	EnrolledAt time.Time        `json:"enrolledAt" db:"enrolled_at"`

	Student *User `json:"student,omitempty"` // Relation, no db tag
}
