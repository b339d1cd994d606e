package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edulab/lms-backend/internal/app/models"
	"github.com/edulab/lms-backend/internal/pkg/apperrors"
	"github.com/edulab/lms-backend/internal/pkg/dberrors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CourseRepository handles course and enrollment database operations
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

const courseColumns = `id, title, description, level, status, instructor_id, created_at, updated_at`

func scanCourse(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	err := row.Scan(
		&course.ID, &course.Title, &course.Description, &course.Level, &course.Status,
		&course.InstructorID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error scanning course: %w", err)
	}
	return course, nil
}

// Create creates a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO courses (title, description, level, status, instructor_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		course.Title, course.Description, course.Level, course.Status, course.InstructorID).
		Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)

	if err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID, including its instructor
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	course := &models.Course{Instructor: &models.User{}}
	err := r.db.QueryRow(ctx, `
		SELECT c.id, c.title, c.description, c.level, c.status, c.instructor_id, c.created_at, c.updated_at,
		       u.id, u.email, u.full_name, u.role, u.is_active
		FROM courses c
		JOIN users u ON u.id = c.instructor_id
		WHERE c.id = $1`,
		id).Scan(
		&course.ID, &course.Title, &course.Description, &course.Level, &course.Status,
		&course.InstructorID, &course.CreatedAt, &course.UpdatedAt,
		&course.Instructor.ID, &course.Instructor.Email, &course.Instructor.FullName,
		&course.Instructor.Role, &course.Instructor.IsActive)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error getting course: %w", err)
	}

	return course, nil
}

// List retrieves courses filtered by status. An empty status returns all.
func (r *CourseRepository) List(ctx context.Context, status models.CourseStatus) ([]*models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}

	return courses, rows.Err()
}

// Update updates course fields
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE courses
		SET title = $1, description = $2, level = $3, status = $4, updated_at = $5
		WHERE id = $6`,
		course.Title, course.Description, course.Level, course.Status, time.Now(), course.ID)

	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Enroll adds a student to a course
func (r *CourseRepository) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO enrollments (student_id, course_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, enrolled_at`,
		enrollment.StudentID, enrollment.CourseID, enrollment.Status).
		Scan(&enrollment.ID, &enrollment.EnrolledAt)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	return nil
}

// GetEnrollment retrieves one student's enrollment in a course
func (r *CourseRepository) GetEnrollment(ctx context.Context, courseID, studentID uuid.UUID) (*models.Enrollment, error) {
	enrollment := &models.Enrollment{}
	err := r.db.QueryRow(ctx, `
		SELECT id, student_id, course_id, status, enrolled_at
		FROM enrollments
		WHERE course_id = $1 AND student_id = $2`,
		courseID, studentID).Scan(
		&enrollment.ID, &enrollment.StudentID, &enrollment.CourseID,
		&enrollment.Status, &enrollment.EnrolledAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error getting enrollment: %w", err)
	}

	return enrollment, nil
}

// ListEnrollments retrieves a course's enrollments with student details.
// When completedOnly is set, only completed enrollments are returned.
func (r *CourseRepository) ListEnrollments(ctx context.Context, courseID uuid.UUID, completedOnly bool) ([]*models.Enrollment, error) {
	query := `
		SELECT e.id, e.student_id, e.course_id, e.status, e.enrolled_at,
		       u.id, u.email, u.full_name, u.role, u.is_active
		FROM enrollments e
		JOIN users u ON u.id = e.student_id
		WHERE e.course_id = $1`
	if completedOnly {
		query += ` AND e.status = 'completed'`
	} else {
		query += ` AND e.status <> 'cancelled'`
	}
	query += ` ORDER BY u.full_name`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		enrollment := &models.Enrollment{Student: &models.User{}}
		err := rows.Scan(
			&enrollment.ID, &enrollment.StudentID, &enrollment.CourseID,
			&enrollment.Status, &enrollment.EnrolledAt,
			&enrollment.Student.ID, &enrollment.Student.Email, &enrollment.Student.FullName,
			&enrollment.Student.Role, &enrollment.Student.IsActive)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	return enrollments, rows.Err()
}

// UpdateEnrollmentStatus changes one enrollment's lifecycle state
func (r *CourseRepository) UpdateEnrollmentStatus(ctx context.Context, enrollmentID uuid.UUID, status models.EnrollmentStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE enrollments
		SET status = $1
		WHERE id = $2`,
		status, enrollmentID)

	if err != nil {
		return fmt.Errorf("error updating enrollment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}
