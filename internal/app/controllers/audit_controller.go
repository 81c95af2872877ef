package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/app/models/dto"
	"github.com/yigit/degreeaudit/internal/app/services"
	"github.com/yigit/degreeaudit/internal/middleware"
	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
)

// WhatIfRequest lists the areas an advisor wants a student audited against
type WhatIfRequest struct {
	Areas []models.AreaRef `json:"areas" binding:"required,min=1,dive"`
}

// AuditController handles audit operations
type AuditController struct {
	auditService *services.AuditService
}

// NewAuditController creates a new AuditController
func NewAuditController(auditService *services.AuditService) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// Check audits the record in the request body. Must run after ValidateRequest[dto.CheckRequest].
func (c *AuditController) Check(ctx *gin.Context) {
	req, ok := middleware.ValidatedBody[dto.CheckRequest](ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("request body missing"))
		return
	}

	resp, err := c.auditService.CheckRecord(ctx.Request.Context(), req.StudentData())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Record audited"))
}

// AuditStudent audits a stored student against the areas on their record. Students may only
// audit themselves.
func (c *AuditController) AuditStudent(ctx *gin.Context) {
	identifier := ctx.Param("identifier")
	if !c.authorize(ctx, identifier) {
		return
	}

	resp, err := c.auditService.AuditStudent(ctx.Request.Context(), identifier)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Student audited"))
}

// WhatIf audits a stored student against areas chosen by an advisor
func (c *AuditController) WhatIf(ctx *gin.Context) {
	req, ok := middleware.ValidatedBody[WhatIfRequest](ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("request body missing"))
		return
	}

	resp, err := c.auditService.AuditStudent(ctx.Request.Context(), ctx.Param("identifier"), req.Areas...)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Student audited"))
}

// GetAudit returns a stored audit. Students may only read their own; another student's audit
// is reported as not found.
func (c *AuditController) GetAudit(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid audit ID").
			WithDetails("Audit ID must be a UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	claims, ok := middleware.GetClaims(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return
	}

	rec, err := c.auditService.GetAudit(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !claims.CanAudit(rec.StudentIdentifier) {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrAuditNotFound, id.String()))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStoredAuditResponse(rec), "Audit retrieved successfully"))
}

func (c *AuditController) authorize(ctx *gin.Context, identifier string) bool {
	claims, ok := middleware.GetClaims(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenInvalid)
		return false
	}
	if !claims.CanAudit(identifier) {
		middleware.HandleAPIError(ctx, apperrors.NewForbiddenError("students may only view their own audits"))
		return false
	}
	return true
}
