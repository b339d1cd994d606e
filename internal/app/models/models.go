package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent    RoleType = "STUDENT"
	RoleInstructor RoleType = "INSTRUCTOR"
	RoleAdmin      RoleType = "ADMIN"
)

// CourseStatus defines course lifecycle states
type CourseStatus string

const (
	CourseStatusPending  CourseStatus = "pending"
	CourseStatusActive   CourseStatus = "active"
	CourseStatusDenied   CourseStatus = "denied"
	CourseStatusArchived CourseStatus = "archived"
)

// CourseLevel defines course difficulty levels
type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "beginner"
	CourseLevelIntermediate CourseLevel = "intermediate"
	CourseLevelAdvanced     CourseLevel = "advanced"
)

// EnrollmentStatus defines enrollment lifecycle states
type EnrollmentStatus string

const (
	EnrollmentEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)
