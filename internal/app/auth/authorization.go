package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/edulab/lms-backend/internal/app/models"
	"github.com/edulab/lms-backend/internal/app/repositories"
	"github.com/edulab/lms-backend/internal/pkg/apperrors"
	"github.com/edulab/lms-backend/internal/pkg/logger"
	"github.com/google/uuid"
)

// AuthorizationService handles authorization operations
type AuthorizationService struct {
	userRepo   *repositories.UserRepository
	courseRepo *repositories.CourseRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userRepo *repositories.UserRepository, courseRepo *repositories.CourseRepository) *AuthorizationService {
	return &AuthorizationService{
		userRepo:   userRepo,
		courseRepo: courseRepo,
	}
}

// IsAdmin checks if the user has the admin role
func (s *AuthorizationService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error getting user by ID in IsAdmin")
		return false, err
	}
	return user.Role == models.RoleAdmin, nil
}

// CanManageCourse checks if the user is the course's instructor or an admin
func (s *AuthorizationService) CanManageCourse(ctx context.Context, courseID, userID uuid.UUID) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("userID", userID.String()).Msg("Error getting user by ID in CanManageCourse")
		return false, err
	}
	if user.Role == models.RoleAdmin {
		return true, nil
	}
	if user.Role != models.RoleInstructor {
		return false, nil
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return false, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("courseID", courseID.String()).Msg("Error getting course by ID in CanManageCourse")
		return false, fmt.Errorf("failed to check course ownership: %w", err)
	}

	return course.InstructorID == userID, nil
}

// ValidateCourseStaff validates that the user may manage the course's
// certificates or returns an error
func (s *AuthorizationService) ValidateCourseStaff(ctx context.Context, courseID, userID uuid.UUID) error {
	canManage, err := s.CanManageCourse(ctx, courseID, userID)
	if err != nil {
		return err
	}
	if !canManage {
		return apperrors.ErrNotCourseStaff
	}
	return nil
}

// ValidateCertificateAccess validates that the user may read or download a
// certificate. Holders always may; otherwise course staff access applies.
func (s *AuthorizationService) ValidateCertificateAccess(ctx context.Context, cert *models.Certificate, userID uuid.UUID) error {
	if cert.StudentID == userID {
		return nil
	}
	return s.ValidateCourseStaff(ctx, cert.CourseID, userID)
}
