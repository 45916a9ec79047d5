package handler

import (
	"net/http"

	"inventory/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	reportService service.ReportService
}

func NewDashboardHandler(reportService service.ReportService) *DashboardHandler {
	return &DashboardHandler{reportService: reportService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/api/dashboard")
	{
		dashboard.GET("/stats", h.GetStats)
		dashboard.GET("/chart-data", h.GetChartData)
	}
}

// @Summary      Get dashboard statistics
// @Description  Product counts and today's sale and purchase totals
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  service.DashboardStatsResponse
// @Failure      500  {object}  response.ErrorBody
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.reportService.DashboardStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary      Get dashboard chart data
// @Description  Monthly revenue for the last six months and stock value per category
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  service.ChartDataResponse
// @Failure      500  {object}  response.ErrorBody
// @Router       /api/dashboard/chart-data [get]
func (h *DashboardHandler) GetChartData(c *gin.Context) {
	data, err := h.reportService.ChartData(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}
