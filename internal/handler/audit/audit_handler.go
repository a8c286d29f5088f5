// Package audit 提供夜审相关的 HTTP Handler
package audit

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-pms-backend/internal/common/handler"
	"github.com/dumeirei/hotel-pms-backend/internal/common/response"
	auditService "github.com/dumeirei/hotel-pms-backend/internal/service/audit"
)

// Handler 夜审处理器
type Handler struct {
	auditService *auditService.AuditService
}

// NewHandler 创建夜审处理器
func NewHandler(auditSvc *auditService.AuditService) *Handler {
	return &Handler{
		auditService: auditSvc,
	}
}

// GetBusinessDate 获取当前营业日
// @Summary 获取当前营业日
// @Tags 夜审
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Success 200 {object} response.Response{data=models.BusinessDate}
// @Router /api/v1/hotels/{hotel_id}/business-date [get]
func (h *Handler) GetBusinessDate(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	bd, err := h.auditService.GetBusinessDate(c.Request.Context(), hotelID)
	handler.MustSucceed(c, err, bd)
}

// StartRequest 开始夜审请求
type StartRequest struct {
	Resume bool `json:"resume"`
}

// StartAudit 开始夜审
// @Summary 开始夜审
// @Tags 夜审
// @Accept json
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param request body StartRequest false "是否续跑"
// @Success 200 {object} response.Response{data=models.NightAudit}
// @Router /api/v1/hotels/{hotel_id}/night-audit/start [post]
func (h *Handler) StartAudit(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	var req StartRequest
	_ = c.ShouldBindJSON(&req)

	audit, err := h.auditService.StartAudit(c.Request.Context(), hotelID, req.Resume)
	handler.MustSucceed(c, err, audit)
}

// GetChecklist 获取夜审检查清单
// @Summary 获取夜审检查清单
// @Tags 夜审
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Success 200 {object} response.Response{data=[]auditService.ChecklistItem}
// @Router /api/v1/hotels/{hotel_id}/night-audit/checklist [get]
func (h *Handler) GetChecklist(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	items, err := h.auditService.Checklist(c.Request.Context(), hotelID)
	handler.MustSucceed(c, err, items)
}

// PostRoomCharges 批量过房费
// @Summary 批量过房费
// @Tags 夜审
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Success 200 {object} response.Response{data=models.NightAudit}
// @Router /api/v1/hotels/{hotel_id}/night-audit/post-room-charges [post]
func (h *Handler) PostRoomCharges(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	audit, err := h.auditService.PostRoomCharges(c.Request.Context(), hotelID)
	handler.MustSucceed(c, err, audit)
}

// CompleteRequest 完成夜审请求
type CompleteRequest struct {
	Notes string `json:"notes"`
}

// CompleteAudit 完成夜审
// @Summary 完成夜审并推进营业日
// @Tags 夜审
// @Accept json
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param request body CompleteRequest false "备注"
// @Success 200 {object} response.Response{data=auditService.CompleteResult}
// @Router /api/v1/hotels/{hotel_id}/night-audit/complete [post]
func (h *Handler) CompleteAudit(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	var req CompleteRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.auditService.CompleteAudit(c.Request.Context(), hotelID, req.Notes)
	handler.MustSucceed(c, err, result)
}

// GetProgress 获取夜审进度
// @Summary 获取夜审进度
// @Tags 夜审
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Success 200 {object} response.Response{data=auditService.Progress}
// @Router /api/v1/hotels/{hotel_id}/night-audit/progress [get]
func (h *Handler) GetProgress(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	progress, err := h.auditService.GetProgress(c.Request.Context(), hotelID)
	handler.MustSucceed(c, err, progress)
}

// GetCurrent 获取当前营业日夜审
// @Summary 获取当前营业日夜审
// @Tags 夜审
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Success 200 {object} response.Response{data=models.NightAudit}
// @Router /api/v1/hotels/{hotel_id}/night-audit/current [get]
func (h *Handler) GetCurrent(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	audit, err := h.auditService.GetCurrent(c.Request.Context(), hotelID)
	handler.MustSucceed(c, err, audit)
}

// GetHistory 获取夜审历史
// @Summary 获取夜审历史
// @Tags 夜审
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param limit query int false "返回条数"
// @Success 200 {object} response.Response{data=[]models.NightAuditHistory}
// @Router /api/v1/hotels/{hotel_id}/night-audit/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	histories, err := h.auditService.ListHistory(c.Request.Context(), hotelID, limit)
	handler.MustSucceed(c, err, histories)
}

// GetTrend 获取经营指标趋势
// @Summary 获取经营指标趋势
// @Tags 夜审
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param metric query string true "指标名 occupancy_rate/adr/revpar/total_revenue"
// @Param start_date query string true "开始日期"
// @Param end_date query string true "结束日期"
// @Success 200 {object} response.Response{data=[]auditService.TrendPoint}
// @Router /api/v1/hotels/{hotel_id}/night-audit/trend [get]
func (h *Handler) GetTrend(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	metric := c.Query("metric")
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if metric == "" || startDate == "" || endDate == "" {
		response.BadRequest(c, "请指定指标和日期范围")
		return
	}

	points, err := h.auditService.Trend(c.Request.Context(), hotelID, metric, startDate, endDate)
	handler.MustSucceed(c, err, points)
}
