package controllers

import (
	"fmt"
	"net/http"

	"github.com/edulab/lms-backend/internal/app/models/dto"
	"github.com/edulab/lms-backend/internal/app/services"
	"github.com/edulab/lms-backend/internal/middleware"
	"github.com/edulab/lms-backend/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CertificateController handles certificate template, issuance and
// verification operations
type CertificateController struct {
	certService *services.CertificateService
	logger      zerolog.Logger
}

// NewCertificateController creates a new CertificateController
func NewCertificateController(certService *services.CertificateService, logger zerolog.Logger) *CertificateController {
	return &CertificateController{
		certService: certService,
		logger:      logger,
	}
}

// GetTemplate returns a course's certificate template
// @Summary Get certificate template
// @Description Returns the course's template, creating the default on first read
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.TemplateResponse} "Template"
// @Failure 403 {object} dto.ErrorResponse "Not course staff"
// @Router /courses/{courseId}/certificates/template [get]
func (c *CertificateController) GetTemplate(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}

	tmpl, err := c.certService.GetTemplate(ctx.Request.Context(), courseID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ToTemplateResponse(tmpl),
	})
}

// UpdateTemplate applies a partial template update
// @Summary Update certificate template
// @Description Applies a partial update; unknown styles and malformed colors are rejected
// @Tags certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param request body dto.TemplateUpdateRequest true "Template fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.TemplateResponse} "Updated template"
// @Failure 400 {object} dto.ErrorResponse "Unknown style or malformed color"
// @Failure 403 {object} dto.ErrorResponse "Not course staff"
// @Router /courses/{courseId}/certificates/template [put]
func (c *CertificateController) UpdateTemplate(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}

	var req dto.TemplateUpdateRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	tmpl, err := c.certService.UpdateTemplate(ctx.Request.Context(), courseID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ToTemplateResponse(tmpl),
	})
}

// Preview renders a sample certificate without persisting anything
// @Summary Preview a certificate
// @Description Renders a sample PDF; an optional body patches the template in memory only
// @Tags certificates
// @Accept json
// @Produce application/pdf
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param request body dto.PreviewRequest false "Template patch and sample name"
// @Success 200 {file} binary "Sample PDF"
// @Failure 400 {object} dto.ErrorResponse "Unknown style or malformed color"
// @Failure 502 {object} dto.ErrorResponse "Rendering failed"
// @Router /courses/{courseId}/certificates/preview [post]
func (c *CertificateController) Preview(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}

	// GET previews the saved template as is; the body is optional on POST
	var req dto.PreviewRequest
	if ctx.Request.ContentLength > 0 {
		if !middleware.BindJSON(ctx, &req) {
			return
		}
	}

	pdf, err := c.certService.Preview(ctx.Request.Context(), courseID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `inline; filename="certificate_preview.pdf"`)
	ctx.Data(http.StatusOK, "application/pdf", pdf)
}

// Issue runs a new-only issuance batch
// @Summary Issue certificates
// @Description Issues certificates to the selected students, skipping existing holders
// @Tags certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param request body dto.IssueRequest true "Target selection"
// @Success 201 {object} dto.APIResponse{data=dto.IssueBatchResponse} "Batch result"
// @Failure 400 {object} dto.ErrorResponse "No issue target specified"
// @Failure 403 {object} dto.ErrorResponse "Not course staff"
// @Router /courses/{courseId}/certificates/issue [post]
func (c *CertificateController) Issue(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}

	var req dto.IssueRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	batch, err := c.certService.IssueNewOnly(ctx.Request.Context(), courseID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: batch,
	})
}

// Reissue runs an issue-or-refresh batch
// @Summary Issue or refresh certificates
// @Description Issues certificates to the selected students, refreshing existing holders in place
// @Tags certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param request body dto.IssueRequest true "Target selection"
// @Success 200 {object} dto.APIResponse{data=dto.IssueBatchResponse} "Batch result"
// @Failure 400 {object} dto.ErrorResponse "No issue target specified"
// @Failure 403 {object} dto.ErrorResponse "Not course staff"
// @Router /courses/{courseId}/certificates/reissue [post]
func (c *CertificateController) Reissue(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}

	var req dto.IssueRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	batch, err := c.certService.IssueOrRefresh(ctx.Request.Context(), courseID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: batch,
	})
}

// SaveAndIssueResponse pairs the saved template with the batch result and
// the course's full certificate list after the batch
type SaveAndIssueResponse struct {
	Template     dto.TemplateResponse      `json:"template"`
	Batch        dto.IssueBatchResponse    `json:"batch"`
	Certificates []dto.CertificateResponse `json:"certificates"`
}

// SaveAndIssue persists a template update then runs an issue-or-refresh batch
// @Summary Save template and issue certificates
// @Description Validates and saves the template first; an invalid template aborts before any certificate is touched. Without a target selection only the template is saved.
// @Tags certificates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param request body dto.SaveAndIssueRequest true "Template and target selection"
// @Success 200 {object} dto.APIResponse{data=SaveAndIssueResponse} "Template and batch result"
// @Failure 400 {object} dto.ErrorResponse "Invalid template"
// @Failure 403 {object} dto.ErrorResponse "Not course staff"
// @Router /courses/{courseId}/certificates/save-and-issue [post]
func (c *CertificateController) SaveAndIssue(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}

	var req dto.SaveAndIssueRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	tmpl, batch, err := c.certService.SaveTemplateAndIssue(ctx.Request.Context(), courseID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	certs, err := c.certService.ListCourseCertificates(ctx.Request.Context(), courseID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	certResponses := make([]dto.CertificateResponse, 0, len(certs))
	for _, cert := range certs {
		certResponses = append(certResponses, dto.ToCertificateResponse(cert, helpers.FormatCompletionDate(cert.CompletionDate)))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: SaveAndIssueResponse{
			Template:     dto.ToTemplateResponse(tmpl),
			Batch:        *batch,
			Certificates: certResponses,
		},
	})
}

// ListCourseCertificates returns a course's issued certificates
// @Summary List course certificates
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CertificateResponse} "Certificates"
// @Failure 403 {object} dto.ErrorResponse "Not course staff"
// @Router /courses/{courseId}/certificates [get]
func (c *CertificateController) ListCourseCertificates(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseUUIDParam(ctx, "courseId")
	if !ok {
		return
	}

	certs, err := c.certService.ListCourseCertificates(ctx.Request.Context(), courseID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := make([]dto.CertificateResponse, 0, len(certs))
	for _, cert := range certs {
		resp = append(resp, dto.ToCertificateResponse(cert, helpers.FormatCompletionDate(cert.CompletionDate)))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: resp,
	})
}

// ListMyCertificates returns the caller's certificates
// @Summary List own certificates
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CertificateResponse} "Certificates"
// @Router /certificates/mine [get]
func (c *CertificateController) ListMyCertificates(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	certs, err := c.certService.ListMyCertificates(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := make([]dto.CertificateResponse, 0, len(certs))
	for _, cert := range certs {
		resp = append(resp, dto.ToCertificateResponse(cert, helpers.FormatCompletionDate(cert.CompletionDate)))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: resp,
	})
}

// GetPublicCertificate is the unauthenticated, token-gated verification view
// @Summary Public certificate verification
// @Description Returns certificate display data when the verification token matches
// @Tags certificates
// @Produce json
// @Param certId path string true "Certificate ID"
// @Param token query string true "Verification code"
// @Success 200 {object} dto.APIResponse{data=dto.PublicCertificateResponse} "Certificate"
// @Failure 403 {object} dto.ErrorResponse "Token mismatch"
// @Failure 404 {object} dto.ErrorResponse "Certificate not found"
// @Router /certificates/{certId}/public [get]
func (c *CertificateController) GetPublicCertificate(ctx *gin.Context) {
	certID, ok := parseUUIDParam(ctx, "certId")
	if !ok {
		return
	}

	resp, err := c.certService.GetPublicCertificate(ctx.Request.Context(), certID, ctx.Query("token"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: resp,
	})
}

// Download streams a rendered certificate PDF
// @Summary Download a certificate
// @Description Holders and course staff may download the rendered document
// @Tags certificates
// @Produce application/pdf
// @Security BearerAuth
// @Param certId path string true "Certificate ID"
// @Success 200 {file} binary "Certificate PDF"
// @Failure 403 {object} dto.ErrorResponse "Not the holder or course staff"
// @Failure 404 {object} dto.ErrorResponse "Certificate not found"
// @Failure 502 {object} dto.ErrorResponse "Certificate has no rendered document"
// @Router /certificates/{certId}/download [get]
func (c *CertificateController) Download(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	certID, ok := parseUUIDParam(ctx, "certId")
	if !ok {
		return
	}

	cert, fullPath, err := c.certService.Download(ctx.Request.Context(), certID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, cert.SerialNo))
	ctx.FileAttachment(fullPath, cert.SerialNo+".pdf")
}
