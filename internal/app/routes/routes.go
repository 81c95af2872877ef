package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/degreeaudit/internal/app/controllers"
	"github.com/yigit/degreeaudit/internal/app/models"
	"github.com/yigit/degreeaudit/internal/app/models/dto"
	"github.com/yigit/degreeaudit/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	areaController *controllers.AreaController,
	auditController *controllers.AuditController,
	authMiddleware *middleware.AuthMiddleware,
) error {
	if err := middleware.RegisterValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	areas := v1.Group("/areas")
	{
		areas.GET("", areaController.ListAreas)
		areas.GET("/:type/:name", areaController.GetArea)
	}

	v1.POST("/audits/check", middleware.ValidateRequest[dto.CheckRequest](), auditController.Check)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/students/:identifier/audit", auditController.AuditStudent)
		authenticated.GET("/audits/:id", auditController.GetAudit)

		advisors := authenticated.Group("")
		advisors.Use(authMiddleware.RoleRequired(models.RoleAdvisor))
		{
			advisors.POST("/students/:identifier/audit",
				middleware.ValidateRequest[controllers.WhatIfRequest](),
				auditController.WhatIf)
		}
	}

	// Health check endpoint (public)
	v1.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, "pong"))
	})

	return nil
}
