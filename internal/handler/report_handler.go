package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/masakazoo1979/dailyReport-sub001/internal/middleware"
	"github.com/masakazoo1979/dailyReport-sub001/internal/service"
	"github.com/masakazoo1979/dailyReport-sub001/pkg/pagination"
	"github.com/masakazoo1979/dailyReport-sub001/pkg/response"
)

// reportSortKeys whitelists the sortable columns for report listing.
var reportSortKeys = map[string]string{
	"date_asc":  "report_date ASC",
	"date_desc": "report_date DESC",
	"status":    "status ASC, report_date DESC",
}

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports", middleware.RequireAuth())
	{
		reports.GET("", h.ListReports)
		reports.POST("", h.CreateReport)
		reports.GET("/:id", h.GetReport)
		reports.PUT("/:id", h.UpdateReport)
		reports.DELETE("/:id", h.DeleteReport)
		reports.PUT("/:id/submit", h.SubmitReport)
		reports.PUT("/:id/approve", h.ApproveReport)
		reports.PUT("/:id/reject", h.RejectReport)

		reports.GET("/:id/visits", h.ListVisits)
		reports.POST("/:id/visits", h.AddVisit)
		reports.PUT("/:id/visits/:visitId", h.UpdateVisit)
		reports.DELETE("/:id/visits/:visitId", h.DeleteVisit)

		reports.GET("/:id/comments", h.ListComments)
		reports.POST("/:id/comments", h.PostComment)
	}

	comments := router.Group("/api/comments", middleware.RequireAuth())
	{
		comments.DELETE("/:id", h.DeleteComment)
	}
}

// CreateReport handles POST /api/reports
// @Summary      Create a daily report
// @Description  Creates a report as DRAFT or directly SUBMITTED when visits are supplied
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateReportRequest  true  "Create Report Payload"
// @Success      201      {object}  response.Response{data=service.ReportResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/reports [post]
func (h *ReportHandler) CreateReport(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req service.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error()))
		return
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, report))
}

// ListReports handles GET /api/reports with date range, status, and owner
// filters, scoped to the caller's visibility.
// @Summary      List daily reports
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        date_from  query  string  false  "Start date (YYYY-MM-DD)"
// @Param        date_to    query  string  false  "End date (YYYY-MM-DD)"
// @Param        status     query  string  false  "Report status"
// @Param        owner_id   query  string  false  "Filter by owner (must be visible)"
// @Success      200  {object}  response.Response
// @Router       /api/reports [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	page := pagination.Parse(c)
	filter := service.ReportListFilter{
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		Status:   c.Query("status"),
		OwnerID:  c.Query("owner_id"),
		Page:     page.Page,
		Limit:    page.Limit,
		Sort:     pagination.Sort(c, reportSortKeys, "report_date DESC"),
	}

	reports, total, err := h.reportService.ListReports(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"reports": reports,
		"total":   total,
		"page":    page.Page,
		"limit":   page.Limit,
	}))
}

// GetReport handles GET /api/reports/:id
// @Summary      Get a daily report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  response.Response{data=service.ReportResponse}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/reports/{id} [get]
func (h *ReportHandler) GetReport(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// UpdateReport handles PUT /api/reports/:id. The visit list is replaced
// wholesale; clients must always send the complete list.
// @Summary      Update a daily report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Report ID"
// @Param        payload  body      service.UpdateReportRequest  true  "Update Report Payload"
// @Success      200      {object}  response.Response{data=service.ReportResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/reports/{id} [put]
func (h *ReportHandler) UpdateReport(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req service.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error()))
		return
	}

	report, err := h.reportService.UpdateReport(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// DeleteReport handles DELETE /api/reports/:id (owner only, DRAFT/REJECTED only)
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	if err := h.reportService.DeleteReport(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "report deleted"))
}

// SubmitReport handles PUT /api/reports/:id/submit
// @Summary      Submit a daily report for approval
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  response.Response{data=service.ReportResponse}
// @Failure      409  {object}  response.Response
// @Router       /api/reports/{id}/submit [put]
func (h *ReportHandler) SubmitReport(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	report, err := h.reportService.SubmitReport(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// ApproveReport handles PUT /api/reports/:id/approve (direct manager only)
// @Summary      Approve a submitted report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  response.Response{data=service.ReportResponse}
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/reports/{id}/approve [put]
func (h *ReportHandler) ApproveReport(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	report, err := h.reportService.ApproveReport(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// RejectReport handles PUT /api/reports/:id/reject. A non-empty reason is
// required and is persisted as a marked comment.
// @Summary      Reject a submitted report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Report ID"
// @Param        payload  body      service.RejectReportRequest  true  "Rejection Reason"
// @Success      200      {object}  response.Response{data=service.ReportResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/reports/{id}/reject [put]
func (h *ReportHandler) RejectReport(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req service.RejectReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "VALIDATION_ERROR", "a rejection comment is required"))
		return
	}

	report, err := h.reportService.RejectReport(c.Request.Context(), actor, c.Param("id"), req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// ListVisits handles GET /api/reports/:id/visits
func (h *ReportHandler) ListVisits(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report.Visits))
}

// AddVisit handles POST /api/reports/:id/visits
func (h *ReportHandler) AddVisit(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req service.VisitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error()))
		return
	}

	visit, err := h.reportService.AddVisit(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, visit))
}

// UpdateVisit handles PUT /api/reports/:id/visits/:visitId
func (h *ReportHandler) UpdateVisit(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req service.VisitInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error()))
		return
	}

	visit, err := h.reportService.UpdateVisit(c.Request.Context(), actor, c.Param("id"), c.Param("visitId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, visit))
}

// DeleteVisit handles DELETE /api/reports/:id/visits/:visitId
func (h *ReportHandler) DeleteVisit(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	if err := h.reportService.DeleteVisit(c.Request.Context(), actor, c.Param("id"), c.Param("visitId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "visit deleted"))
}

// ListComments handles GET /api/reports/:id/comments
func (h *ReportHandler) ListComments(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	comments, err := h.reportService.ListComments(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, comments))
}

// PostComment handles POST /api/reports/:id/comments
func (h *ReportHandler) PostComment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req service.PostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "VALIDATION_ERROR", "comment content is required"))
		return
	}

	comment, err := h.reportService.PostComment(c.Request.Context(), actor, c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, comment))
}

// DeleteComment handles DELETE /api/comments/:id (author only)
func (h *ReportHandler) DeleteComment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	if err := h.reportService.DeleteComment(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "comment deleted"))
}
