package routes

import (
	"github.com/edulab/lms-backend/internal/app/controllers"
	"github.com/edulab/lms-backend/internal/app/models"
	"github.com/edulab/lms-backend/internal/app/models/dto"
	"github.com/edulab/lms-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	certificateController *controllers.CertificateController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Public certificate verification ---
	// Token-gated by the verification code, no JWT required.
	v1.GET("/certificates/:certId/public", certificateController.GetPublicCertificate)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/me", authController.GetProfile)
		authenticated.PUT("/auth/me", authController.UpdateProfile)

		// Course routes
		courses := authenticated.Group("/courses")
		{
			courses.GET("", courseController.ListCourses)
			courses.GET("/:courseId", courseController.GetCourse)
			courses.PATCH("/:courseId", courseController.UpdateCourse)

			// Course creation is limited to instructors and admins
			coursesInstructorProtected := courses.Group("")
			coursesInstructorProtected.Use(authMiddleware.RoleRequired(
				string(models.RoleInstructor), string(models.RoleAdmin)))
			{
				coursesInstructorProtected.POST("", courseController.CreateCourse)
			}

			// Enrollment routes
			courses.POST("/:courseId/enroll", courseController.Enroll)
			courses.GET("/:courseId/enrollments", courseController.ListEnrollments)
			courses.PATCH("/:courseId/enrollments/:enrollmentId", courseController.UpdateEnrollmentStatus)

			// Certificate routes scoped to a course. Staff checks live in the
			// service layer since ownership depends on the course row.
			certificates := courses.Group("/:courseId/certificates")
			{
				certificates.GET("", certificateController.ListCourseCertificates)
				certificates.GET("/template", certificateController.GetTemplate)
				certificates.PUT("/template", certificateController.UpdateTemplate)
				certificates.PATCH("/template", certificateController.UpdateTemplate)
				certificates.GET("/preview", certificateController.Preview)
				certificates.POST("/preview", certificateController.Preview)
				certificates.POST("/issue", certificateController.Issue)
				certificates.POST("/reissue", certificateController.Reissue)
				certificates.POST("/save-and-issue", certificateController.SaveAndIssue)
			}
		}

		// Certificate routes not scoped to a course
		authenticated.GET("/certificates/mine", certificateController.ListMyCertificates)
		authenticated.GET("/certificates/:certId/download", certificateController.Download)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
