package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/degreeaudit/internal/app/models/dto"
	"github.com/yigit/degreeaudit/internal/app/services"
	"github.com/yigit/degreeaudit/internal/engine/area"
	"github.com/yigit/degreeaudit/internal/middleware"
)

// AreaController serves the area catalog
type AreaController struct {
	areaService *services.AreaService
}

// NewAreaController creates a new AreaController
func NewAreaController(areaService *services.AreaService) *AreaController {
	return &AreaController{
		areaService: areaService,
	}
}

// ListAreas lists every available area
func (c *AreaController) ListAreas(ctx *gin.Context) {
	defs, err := c.areaService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	summaries := make([]dto.AreaSummary, 0, len(defs))
	for _, d := range defs {
		summaries = append(summaries, dto.NewAreaSummary(d))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summaries, "Areas retrieved successfully"))
}

// GetArea returns one area with its canonical requirements. The optional revision query
// parameter pins a revision.
func (c *AreaController) GetArea(ctx *gin.Context) {
	key := area.Key{
		Type:     ctx.Param("type"),
		Name:     ctx.Param("name"),
		Revision: ctx.Query("revision"),
	}

	d, err := c.areaService.Get(ctx.Request.Context(), key)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewAreaDetail(d), "Area retrieved successfully"))
}
