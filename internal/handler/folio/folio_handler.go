// Package folio 提供账夹相关的 HTTP Handler
package folio

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-pms-backend/internal/common/handler"
	"github.com/dumeirei/hotel-pms-backend/internal/common/response"
	folioService "github.com/dumeirei/hotel-pms-backend/internal/service/folio"
)

// Handler 账夹处理器
type Handler struct {
	folioService *folioService.FolioService
}

// NewHandler 创建账夹处理器
func NewHandler(folioSvc *folioService.FolioService) *Handler {
	return &Handler{
		folioService: folioSvc,
	}
}

// GetFolioList 获取账夹列表
// @Summary 获取账夹列表
// @Tags 账夹
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param status query string false "账夹状态"
// @Success 200 {object} response.Response{data=[]models.Folio}
// @Router /api/v1/hotels/{hotel_id}/folios [get]
func (h *Handler) GetFolioList(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	p := handler.BindPagination(c)
	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}

	folios, total, err := h.folioService.List(c.Request.Context(), hotelID, &p, filters)
	handler.MustSucceedPage(c, err, folios, total, p.Page, p.PageSize)
}

// GetFolioDetail 获取账夹详情
// @Summary 获取账夹详情
// @Tags 账夹
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "账夹ID"
// @Success 200 {object} response.Response{data=models.Folio}
// @Router /api/v1/hotels/{hotel_id}/folios/{id} [get]
func (h *Handler) GetFolioDetail(c *gin.Context) {
	hotelID, folioID, ok := handler.ParseHotelAndID(c, "账夹")
	if !ok {
		return
	}

	folio, err := h.folioService.Get(c.Request.Context(), hotelID, folioID)
	handler.MustSucceed(c, err, folio)
}

// AddLineItem 追加账项
// @Summary 追加账项
// @Tags 账夹
// @Accept json
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "账夹ID"
// @Param request body folioService.AddLineItemRequest true "账项信息"
// @Success 200 {object} response.Response{data=models.Folio}
// @Router /api/v1/hotels/{hotel_id}/folios/{id}/items [post]
func (h *Handler) AddLineItem(c *gin.Context) {
	hotelID, folioID, ok := handler.ParseHotelAndID(c, "账夹")
	if !ok {
		return
	}

	var req folioService.AddLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	folio, err := h.folioService.AddLineItem(c.Request.Context(), hotelID, folioID, &req)
	handler.MustSucceed(c, err, folio)
}

// RecordPayment 登记付款
// @Summary 登记付款
// @Tags 账夹
// @Accept json
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "账夹ID"
// @Param request body folioService.RecordPaymentRequest true "付款信息"
// @Success 200 {object} response.Response{data=folioService.PaymentResult}
// @Router /api/v1/hotels/{hotel_id}/folios/{id}/payments [post]
func (h *Handler) RecordPayment(c *gin.Context) {
	hotelID, folioID, ok := handler.ParseHotelAndID(c, "账夹")
	if !ok {
		return
	}

	var req folioService.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.folioService.RecordPayment(c.Request.Context(), hotelID, folioID, &req)
	handler.MustSucceed(c, err, result)
}

// VoidPaymentRequest 冲销付款请求
type VoidPaymentRequest struct {
	Reason string `json:"reason"`
}

// VoidPayment 冲销付款
// @Summary 冲销付款
// @Tags 账夹
// @Accept json
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "账夹ID"
// @Param payment_id path int true "付款ID"
// @Param request body VoidPaymentRequest false "冲销原因"
// @Success 200 {object} response.Response{data=models.Folio}
// @Router /api/v1/hotels/{hotel_id}/folios/{id}/payments/{payment_id}/void [post]
func (h *Handler) VoidPayment(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}
	paymentID, ok := handler.ParseParamID(c, "payment_id", "付款")
	if !ok {
		return
	}

	var req VoidPaymentRequest
	_ = c.ShouldBindJSON(&req)

	folio, err := h.folioService.VoidPayment(c.Request.Context(), hotelID, paymentID, req.Reason)
	handler.MustSucceed(c, err, folio)
}

// ReopenFolio 重开账夹
// @Summary 重开账夹
// @Tags 账夹
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "账夹ID"
// @Success 200 {object} response.Response{data=models.Folio}
// @Router /api/v1/hotels/{hotel_id}/folios/{id}/reopen [post]
func (h *Handler) ReopenFolio(c *gin.Context) {
	hotelID, folioID, ok := handler.ParseHotelAndID(c, "账夹")
	if !ok {
		return
	}

	folio, err := h.folioService.ReopenFolio(c.Request.Context(), hotelID, folioID)
	handler.MustSucceed(c, err, folio)
}

// WriteOffRequest 坏账核销请求
type WriteOffRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// WriteOff 坏账核销
// @Summary 坏账核销
// @Tags 账夹
// @Accept json
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "账夹ID"
// @Param request body WriteOffRequest true "核销原因"
// @Success 200 {object} response.Response{data=models.Folio}
// @Router /api/v1/hotels/{hotel_id}/folios/{id}/write-off [post]
func (h *Handler) WriteOff(c *gin.Context) {
	hotelID, folioID, ok := handler.ParseHotelAndID(c, "账夹")
	if !ok {
		return
	}

	var req WriteOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请填写核销原因")
		return
	}

	folio, err := h.folioService.WriteOff(c.Request.Context(), hotelID, folioID, req.Reason)
	handler.MustSucceed(c, err, folio)
}
