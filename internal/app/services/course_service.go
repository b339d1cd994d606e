package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/edulab/lms-backend/internal/app/auth"
	"github.com/edulab/lms-backend/internal/app/models"
	"github.com/edulab/lms-backend/internal/app/models/dto"
	"github.com/edulab/lms-backend/internal/app/repositories"
	"github.com/edulab/lms-backend/internal/pkg/apperrors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CourseService handles course and enrollment operations
type CourseService struct {
	courseRepo  *repositories.CourseRepository
	userRepo    *repositories.UserRepository
	authService *auth.AuthorizationService
	logger      zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo *repositories.CourseRepository,
	userRepo *repositories.UserRepository,
	authService *auth.AuthorizationService,
	logger zerolog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo:  courseRepo,
		userRepo:    userRepo,
		authService: authService,
		logger:      logger,
	}
}

// CreateCourse creates a new course owned by the calling instructor.
// New courses start in the pending state until approved.
func (s *CourseService) CreateCourse(ctx context.Context, instructorID uuid.UUID, req *dto.CourseCreateRequest) (*models.Course, error) {
	instructor, err := s.userRepo.GetByID(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	if instructor.Role != models.RoleInstructor && instructor.Role != models.RoleAdmin {
		return nil, apperrors.ErrPermissionDenied
	}

	course := &models.Course{
		Title:        req.Title,
		Description:  req.Description,
		Level:        req.Level,
		Status:       models.CourseStatusPending,
		InstructorID: instructorID,
	}
	if instructor.Role == models.RoleAdmin {
		course.Status = models.CourseStatusActive
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		s.logger.Error().Err(err).Str("instructorID", instructorID.String()).Msg("Failed to create course")
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	course.Instructor = instructor
	s.logger.Info().Str("courseID", course.ID.String()).Str("title", course.Title).Msg("Course created")
	return course, nil
}

// GetCourse retrieves a course by ID
func (s *CourseService) GetCourse(ctx context.Context, courseID uuid.UUID) (*models.Course, error) {
	return s.courseRepo.GetByID(ctx, courseID)
}

// ListCourses retrieves courses, optionally filtered by status
func (s *CourseService) ListCourses(ctx context.Context, status models.CourseStatus) ([]*models.Course, error) {
	return s.courseRepo.List(ctx, status)
}

// UpdateCourse applies a partial update. Only course staff may update, and
// only admins may change the status.
func (s *CourseService) UpdateCourse(ctx context.Context, courseID, userID uuid.UUID, req *dto.CourseUpdateRequest) (*models.Course, error) {
	if err := s.authService.ValidateCourseStaff(ctx, courseID, userID); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Status != nil {
		isAdmin, err := s.authService.IsAdmin(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !isAdmin {
			return nil, apperrors.NewForbiddenError("only admins can change course status")
		}
		course.Status = *req.Status
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	return course, nil
}

// EnrollStudent enrolls the calling student into an active course
func (s *CourseService) EnrollStudent(ctx context.Context, courseID, studentID uuid.UUID) (*models.Enrollment, error) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, apperrors.NewForbiddenError("only students can enroll in courses")
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.Status != models.CourseStatusActive {
		return nil, apperrors.NewBadRequestError("course is not open for enrollment")
	}

	enrollment := &models.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		Status:    models.EnrollmentEnrolled,
	}
	if err := s.courseRepo.Enroll(ctx, enrollment); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyEnrolled) {
			return nil, apperrors.ErrAlreadyEnrolled
		}
		s.logger.Error().Err(err).Str("courseID", courseID.String()).Str("studentID", studentID.String()).Msg("Failed to enroll student")
		return nil, err
	}

	enrollment.Student = student
	return enrollment, nil
}

// ListEnrollments returns a course's enrollments to course staff
func (s *CourseService) ListEnrollments(ctx context.Context, courseID, userID uuid.UUID, completedOnly bool) ([]*models.Enrollment, error) {
	if err := s.authService.ValidateCourseStaff(ctx, courseID, userID); err != nil {
		return nil, err
	}
	return s.courseRepo.ListEnrollments(ctx, courseID, completedOnly)
}

// UpdateEnrollmentStatus lets course staff mark an enrollment as completed
// or cancelled
func (s *CourseService) UpdateEnrollmentStatus(ctx context.Context, courseID, enrollmentID, userID uuid.UUID, status models.EnrollmentStatus) error {
	if err := s.authService.ValidateCourseStaff(ctx, courseID, userID); err != nil {
		return err
	}
	return s.courseRepo.UpdateEnrollmentStatus(ctx, enrollmentID, status)
}
