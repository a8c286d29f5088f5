// Package room 提供房态相关的 HTTP Handler
package room

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-pms-backend/internal/common/handler"
	"github.com/dumeirei/hotel-pms-backend/internal/common/response"
	roomService "github.com/dumeirei/hotel-pms-backend/internal/service/room"
)

// Handler 房态处理器
type Handler struct {
	roomService *roomService.RoomService
}

// NewHandler 创建房态处理器
func NewHandler(roomSvc *roomService.RoomService) *Handler {
	return &Handler{
		roomService: roomSvc,
	}
}

// CreateRoom 创建房间
// @Summary 创建房间
// @Tags 房态
// @Accept json
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param request body roomService.CreateRoomRequest true "房间信息"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/hotels/{hotel_id}/rooms [post]
func (h *Handler) CreateRoom(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	var req roomService.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.Create(c.Request.Context(), hotelID, &req)
	handler.MustSucceed(c, err, room)
}

// GetRoomList 获取房间列表
// @Summary 获取房间列表
// @Tags 房态
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param status query string false "房态"
// @Param floor query int false "楼层"
// @Success 200 {object} response.Response{data=[]models.Room}
// @Router /api/v1/hotels/{hotel_id}/rooms [get]
func (h *Handler) GetRoomList(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	p := handler.BindPagination(c)
	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if floor := c.Query("floor"); floor != "" {
		filters["floor"] = floor
	}

	rooms, total, err := h.roomService.List(c.Request.Context(), hotelID, &p, filters)
	handler.MustSucceedPage(c, err, rooms, total, p.Page, p.PageSize)
}

// GetRoomDetail 获取房间详情
// @Summary 获取房间详情
// @Tags 房态
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "房间ID"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/hotels/{hotel_id}/rooms/{id} [get]
func (h *Handler) GetRoomDetail(c *gin.Context) {
	hotelID, roomID, ok := handler.ParseHotelAndID(c, "房间")
	if !ok {
		return
	}

	room, err := h.roomService.Get(c.Request.Context(), hotelID, roomID)
	handler.MustSucceed(c, err, room)
}

// SetStatusRequest 房态变更请求
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetRoomStatus 变更房态
// @Summary 变更房态
// @Tags 房态
// @Accept json
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "房间ID"
// @Param request body SetStatusRequest true "目标房态"
// @Success 200 {object} response.Response{data=models.Room}
// @Router /api/v1/hotels/{hotel_id}/rooms/{id}/status [post]
func (h *Handler) SetRoomStatus(c *gin.Context) {
	hotelID, roomID, ok := handler.ParseHotelAndID(c, "房间")
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.SetStatus(c.Request.Context(), hotelID, roomID, req.Status)
	handler.MustSucceed(c, err, room)
}

// GetRoomStats 获取房态统计
// @Summary 获取房态统计
// @Tags 房态
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Success 200 {object} response.Response{data=roomService.RoomStats}
// @Router /api/v1/hotels/{hotel_id}/rooms/stats [get]
func (h *Handler) GetRoomStats(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	stats, err := h.roomService.GetCachedStats(c.Request.Context(), hotelID)
	handler.MustSucceed(c, err, stats)
}
