package controller

import (
	"errors"
	"net/http"

	"math_tutor_backend/internal/service"
	"math_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Admin *service.AdminService
}

func NewAdminController(admin *service.AdminService) *AdminController {
	return &AdminController{Admin: admin}
}

type adminTablesRequest struct {
	Password string `json:"password"`
}

type adminTableDataRequest struct {
	Password string `json:"password"`
	Table    string `json:"table" binding:"required"`
}

type adminInteractionsRequest struct {
	Password string `json:"password"`
	Limit    int    `json:"limit"`
}

// Tables godoc
// @Summary List database tables
// @Tags admin
// @Accept json
// @Produce json
// @Param body body adminTablesRequest true "admin secret"
// @Success 200 {object} map[string][]string
// @Failure 401 {object} map[string]string
// @Router /admin/tables [post]
func (c *AdminController) Tables(ctx *gin.Context) {
	var req adminTablesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Unauthorized(ctx, "Unauthorized")
		return
	}
	if !c.Admin.Authorize(req.Password) {
		util.Unauthorized(ctx, "Unauthorized")
		return
	}

	tables, err := c.Admin.Tables()
	if err != nil {
		util.LogInternalError(ctx, "Failed to list tables", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"tables": tables})
}

// TableData godoc
// @Summary Dump up to 100 rows of one table
// @Tags admin
// @Accept json
// @Produce json
// @Param body body adminTableDataRequest true "admin secret and table name"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /admin/table_data [post]
func (c *AdminController) TableData(ctx *gin.Context) {
	var req adminTableDataRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Missing table name")
		return
	}
	if !c.Admin.Authorize(req.Password) {
		util.Unauthorized(ctx, "Unauthorized")
		return
	}

	columns, rows, err := c.Admin.TableData(req.Table)
	if err != nil {
		if errors.Is(err, util.ErrUnknownTable) {
			util.BadRequest(ctx, "Unknown table")
		} else {
			util.LogInternalError(ctx, "Failed to read table", err)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"columns": columns,
		"rows":    rows,
	})
}

// Interactions godoc
// @Summary List the most recent interaction log rows
// @Tags admin
// @Accept json
// @Produce json
// @Param body body adminInteractionsRequest true "admin secret and optional limit"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /admin/interactions [post]
func (c *AdminController) Interactions(ctx *gin.Context) {
	var req adminInteractionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.Unauthorized(ctx, "Unauthorized")
		return
	}
	if !c.Admin.Authorize(req.Password) {
		util.Unauthorized(ctx, "Unauthorized")
		return
	}

	rows, err := c.Admin.RecentInteractions(req.Limit)
	if err != nil {
		util.LogInternalError(ctx, "Failed to list interactions", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"interactions": rows})
}
