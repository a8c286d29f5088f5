// Package reservation 提供预订相关的 HTTP Handler
package reservation

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-pms-backend/internal/common/handler"
	"github.com/dumeirei/hotel-pms-backend/internal/common/qrcode"
	"github.com/dumeirei/hotel-pms-backend/internal/common/response"
	reservationService "github.com/dumeirei/hotel-pms-backend/internal/service/reservation"
)

// Handler 预订处理器
type Handler struct {
	reservationService *reservationService.ReservationService
}

// NewHandler 创建预订处理器
func NewHandler(reservationSvc *reservationService.ReservationService) *Handler {
	return &Handler{
		reservationService: reservationSvc,
	}
}

// CreateReservation 创建预订
// @Summary 创建预订
// @Tags 预订
// @Accept json
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param request body reservationService.CreateRequest true "预订信息"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/hotels/{hotel_id}/reservations [post]
func (h *Handler) CreateReservation(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	var req reservationService.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	reservation, err := h.reservationService.Create(c.Request.Context(), hotelID, &req)
	handler.MustSucceed(c, err, reservation)
}

// GetReservationList 获取预订列表
// @Summary 获取预订列表
// @Tags 预订
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param status query string false "预订状态"
// @Param check_in_date query string false "到店日期"
// @Success 200 {object} response.Response{data=[]models.Reservation}
// @Router /api/v1/hotels/{hotel_id}/reservations [get]
func (h *Handler) GetReservationList(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	p := handler.BindPagination(c)
	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if date := c.Query("check_in_date"); date != "" {
		filters["check_in_date"] = date
	}

	reservations, total, err := h.reservationService.List(c.Request.Context(), hotelID, &p, filters)
	handler.MustSucceedPage(c, err, reservations, total, p.Page, p.PageSize)
}

// GetReservationDetail 获取预订详情
// @Summary 获取预订详情
// @Tags 预订
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/hotels/{hotel_id}/reservations/{id} [get]
func (h *Handler) GetReservationDetail(c *gin.Context) {
	hotelID, reservationID, ok := handler.ParseHotelAndID(c, "预订")
	if !ok {
		return
	}

	reservation, err := h.reservationService.Get(c.Request.Context(), hotelID, reservationID)
	handler.MustSucceed(c, err, reservation)
}

// GetReservationQRCode 获取预订确认码二维码
// 自助机扫码办理入住使用
// @Summary 获取预订确认码二维码
// @Tags 预订
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=map[string]string}
// @Router /api/v1/hotels/{hotel_id}/reservations/{id}/qrcode [get]
func (h *Handler) GetReservationQRCode(c *gin.Context) {
	hotelID, reservationID, ok := handler.ParseHotelAndID(c, "预订")
	if !ok {
		return
	}

	reservation, err := h.reservationService.Get(c.Request.Context(), hotelID, reservationID)
	if err != nil {
		handler.HandleError(c, err)
		return
	}

	dataURL, err := qrcode.NewGenerator(qrcode.WithSize(256)).GenerateDataURL(reservation.ConfirmationNo)
	if err != nil {
		handler.HandleError(c, err)
		return
	}

	handler.MustSucceed(c, nil, gin.H{
		"confirmation_no": reservation.ConfirmationNo,
		"qrcode":          dataURL,
	})
}

// CheckIn 办理入住
// @Summary 办理入住
// @Tags 预订
// @Accept json
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Param request body reservationService.CheckInRequest true "排房信息"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/hotels/{hotel_id}/reservations/{id}/check-in [post]
func (h *Handler) CheckIn(c *gin.Context) {
	hotelID, reservationID, ok := handler.ParseHotelAndID(c, "预订")
	if !ok {
		return
	}

	var req reservationService.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	reservation, err := h.reservationService.CheckIn(c.Request.Context(), hotelID, reservationID, &req)
	handler.MustSucceed(c, err, reservation)
}

// CheckOut 办理退房
// @Summary 办理退房
// @Tags 预订
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=reservationService.CheckoutResult}
// @Router /api/v1/hotels/{hotel_id}/reservations/{id}/check-out [post]
func (h *Handler) CheckOut(c *gin.Context) {
	hotelID, reservationID, ok := handler.ParseHotelAndID(c, "预订")
	if !ok {
		return
	}

	result, err := h.reservationService.CheckOut(c.Request.Context(), hotelID, reservationID)
	handler.MustSucceed(c, err, result)
}

// CancelRequest 取消预订请求
type CancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel 取消预订
// @Summary 取消预订
// @Tags 预订
// @Accept json
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Param request body CancelRequest false "取消原因"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/hotels/{hotel_id}/reservations/{id}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	hotelID, reservationID, ok := handler.ParseHotelAndID(c, "预订")
	if !ok {
		return
	}

	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	reservation, err := h.reservationService.Cancel(c.Request.Context(), hotelID, reservationID, req.Reason)
	handler.MustSucceed(c, err, reservation)
}

// MarkNoShow 标记未到店
// @Summary 标记未到店
// @Tags 预订
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=models.Reservation}
// @Router /api/v1/hotels/{hotel_id}/reservations/{id}/no-show [post]
func (h *Handler) MarkNoShow(c *gin.Context) {
	hotelID, reservationID, ok := handler.ParseHotelAndID(c, "预订")
	if !ok {
		return
	}

	reservation, err := h.reservationService.MarkNoShow(c.Request.Context(), hotelID, reservationID)
	handler.MustSucceed(c, err, reservation)
}

// MoveRoomRequest 换房请求
type MoveRoomRequest struct {
	SegmentID int64 `json:"segment_id" binding:"required"`
	NewRoomID int64 `json:"new_room_id" binding:"required"`
}

// MoveRoom 在住换房
// @Summary 在住换房
// @Tags 预订
// @Accept json
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "预订ID"
// @Param request body MoveRoomRequest true "换房信息"
// @Success 200 {object} response.Response{data=models.ReservationRoom}
// @Router /api/v1/hotels/{hotel_id}/reservations/{id}/move-room [post]
func (h *Handler) MoveRoom(c *gin.Context) {
	hotelID, _, ok := handler.ParseHotelAndID(c, "预订")
	if !ok {
		return
	}

	var req MoveRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	segment, err := h.reservationService.MoveRoom(c.Request.Context(), hotelID, req.SegmentID, req.NewRoomID)
	handler.MustSucceed(c, err, segment)
}
