package handler

import (
	"net/http"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/middleware"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/service"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/session"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/pagination"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
	sessions      *session.Store
}

func NewReportHandler(reportService service.ReportService, sessions *session.Store) *ReportHandler {
	return &ReportHandler{reportService: reportService, sessions: sessions}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	read := middleware.RequireRole(h.sessions, model.RoleUser, model.RoleAdmin, model.RoleSuperadmin)
	write := middleware.RequireRole(h.sessions, model.RoleAdmin, model.RoleSuperadmin)

	reports := router.Group("/api/reports")
	{
		reports.GET("", read, h.GetReports)
		reports.GET("/:id", read, h.GetReport)
		reports.POST("", write, h.CreateReport)
		reports.POST("/:id/submit", write, h.SubmitReport)
		reports.POST("/:id/approve", write, h.ApproveReport)
		reports.POST("/:id/reject", write, h.RejectReport)
	}
}

// GetReports lists reports
// @Summary      List reports
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {object}  response.Response
// @Router       /api/reports [get]
func (h *ReportHandler) GetReports(c *gin.Context) {
	params := pagination.Parse(c)
	reports, total, err := h.reportService.GetReports(c.Request.Context(), params.Page, params.Limit, c.Query("status"))
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged(reports, total, params.Page, params.Limit)))
}

// GetReport fetches one report with its linked transactions
// @Summary      Get report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  response.Response{data=service.ReportResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/reports/{id} [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	report, err := h.reportService.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// CreateReport snapshots chosen transactions into a draft report
// @Summary      Create report
// @Tags         reports
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateReportRequest  true  "Create Report Payload"
// @Success      201      {object}  response.Response{data=service.ReportResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/reports [post]
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req service.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, report))
}

// SubmitReport moves a draft to submitted
// @Summary      Submit report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  response.Response{data=service.ReportResponse}
// @Failure      409  {object}  response.Response
// @Router       /api/reports/{id}/submit [post]
func (h *ReportHandler) SubmitReport(c *gin.Context) {
	report, err := h.reportService.SubmitReport(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// ApproveReport approves a submitted report
// @Summary      Approve report
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  response.Response{data=service.ReportResponse}
// @Failure      409  {object}  response.Response
// @Router       /api/reports/{id}/approve [post]
func (h *ReportHandler) ApproveReport(c *gin.Context) {
	report, err := h.reportService.ApproveReport(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// RejectReport rejects a submitted report with an optional reason
// @Summary      Reject report
// @Tags         reports
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true   "Report ID"
// @Param        payload  body      service.RejectReportRequest  false  "Rejection Payload"
// @Success      200      {object}  response.Response{data=service.ReportResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/reports/{id}/reject [post]
func (h *ReportHandler) RejectReport(c *gin.Context) {
	var req service.RejectReportRequest
	_ = c.ShouldBindJSON(&req) // reason is optional

	report, err := h.reportService.RejectReport(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Reason)
	if err != nil {
		resp := response.FromError(err)
		c.JSON(resp.StatusCode, resp)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
