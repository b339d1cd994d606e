package controllers

import (
	"net/http"

	"github.com/edulab/lms-backend/internal/app/models"
	"github.com/edulab/lms-backend/internal/app/models/dto"
	"github.com/edulab/lms-backend/internal/app/services"
	"github.com/edulab/lms-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CourseController handles course and enrollment operations
type CourseController struct {
	courseService *services.CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger,
	}
}

// parseUUIDParam reads a UUID path parameter, writing a 400 on failure
func parseUUIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid identifier").
			WithField(name).
			WithDetails(name + " must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, false
	}
	return id, true
}

// requireUserID reads the authenticated user ID, writing a 401 on failure
func requireUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return uuid.Nil, false
	}
	return userID, true
}

// CreateCourse creates a new course
// @Summary Create a course
// @Description Creates a new course owned by the calling instructor
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CourseCreateRequest true "Course data"
// @Success 201 {object} dto.APIResponse{data=dto.CourseResponse} "Course created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Only instructors can create courses"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CourseCreateRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.ToCourseResponse(course),
	})
}

// GetCourse returns one course
// @Summary Get a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{courseId} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}

	course, err := c.courseService.GetCourse(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ToCourseResponse(course),
	})
}

// ListCourses returns courses, optionally filtered by status
// @Summary List courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, active, denied, archived)
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse} "Courses"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	status := models.CourseStatus(ctx.Query("status"))

	courses, err := c.courseService.ListCourses(ctx.Request.Context(), status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		resp = append(resp, dto.ToCourseResponse(course))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: resp,
	})
}

// UpdateCourse applies a partial course update
// @Summary Update a course
// @Description Course staff may update details; only admins may change status
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param request body dto.CourseUpdateRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Updated course"
// @Failure 403 {object} dto.ErrorResponse "Not course staff"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{courseId} [patch]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}

	var req dto.CourseUpdateRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), courseID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ToCourseResponse(course),
	})
}

// Enroll enrolls the calling student into a course
// @Summary Enroll in a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 201 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Enrolled"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Router /courses/{courseId}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}

	enrollment, err := c.courseService.EnrollStudent(ctx.Request.Context(), courseID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("courseID", courseID.String()).Str("studentID", userID.String()).Msg("Student enrolled")
	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.ToEnrollmentResponse(enrollment),
	})
}

// ListEnrollments returns a course's enrollments to staff
// @Summary List course enrollments
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param completedOnly query bool false "Only completed enrollments"
// @Success 200 {object} dto.APIResponse{data=[]dto.EnrollmentResponse} "Enrollments"
// @Failure 403 {object} dto.ErrorResponse "Not course staff"
// @Router /courses/{courseId}/enrollments [get]
func (c *CourseController) ListEnrollments(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}

	completedOnly := ctx.Query("completedOnly") == "true"

	enrollments, err := c.courseService.ListEnrollments(ctx.Request.Context(), courseID, userID, completedOnly)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		resp = append(resp, dto.ToEnrollmentResponse(enrollment))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: resp,
	})
}

// UpdateEnrollmentStatus lets staff change an enrollment's state
// @Summary Update enrollment status
// @Description Marks an enrollment completed or cancelled
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param enrollmentId path string true "Enrollment ID"
// @Param request body dto.EnrollmentStatusUpdateRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Status updated"
// @Failure 403 {object} dto.ErrorResponse "Not course staff"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /courses/{courseId}/enrollments/{enrollmentId} [patch]
func (c *CourseController) UpdateEnrollmentStatus(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}
	enrollmentID, ok := parseUUIDParam(ctx, "enrollmentId")
	if !ok {
		return
	}

	var req dto.EnrollmentStatusUpdateRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	err := c.courseService.UpdateEnrollmentStatus(ctx.Request.Context(), courseID, enrollmentID, userID, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Enrollment status updated"},
	})
}
