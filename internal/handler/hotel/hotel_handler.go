// Package hotel 提供酒店主档相关的 HTTP Handler
package hotel

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-pms-backend/internal/common/handler"
	"github.com/dumeirei/hotel-pms-backend/internal/common/response"
	hotelService "github.com/dumeirei/hotel-pms-backend/internal/service/hotel"
)

// Handler 酒店主档处理器
type Handler struct {
	hotelService *hotelService.HotelService
}

// NewHandler 创建酒店主档处理器
func NewHandler(hotelSvc *hotelService.HotelService) *Handler {
	return &Handler{
		hotelService: hotelSvc,
	}
}

// CreateHotel 创建酒店
// @Summary 创建酒店
// @Tags 酒店
// @Accept json
// @Produce json
// @Param request body hotelService.CreateHotelRequest true "酒店信息"
// @Success 200 {object} response.Response{data=models.Hotel}
// @Router /api/v1/hotels [post]
func (h *Handler) CreateHotel(c *gin.Context) {
	var req hotelService.CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	hotel, err := h.hotelService.CreateHotel(c.Request.Context(), &req)
	handler.MustSucceed(c, err, hotel)
}

// GetHotelList 获取酒店列表
// @Summary 获取酒店列表
// @Tags 酒店
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} response.Response{data=[]models.Hotel}
// @Router /api/v1/hotels [get]
func (h *Handler) GetHotelList(c *gin.Context) {
	p := handler.BindPagination(c)
	hotels, total, err := h.hotelService.ListHotels(c.Request.Context(), &p)
	handler.MustSucceedPage(c, err, hotels, total, p.Page, p.PageSize)
}

// GetHotelDetail 获取酒店详情
// @Summary 获取酒店详情
// @Tags 酒店
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Success 200 {object} response.Response{data=models.Hotel}
// @Router /api/v1/hotels/{hotel_id} [get]
func (h *Handler) GetHotelDetail(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	hotel, err := h.hotelService.GetHotel(c.Request.Context(), hotelID)
	handler.MustSucceed(c, err, hotel)
}

// CreateGuest 创建客史
// @Summary 创建客史档案
// @Tags 客史
// @Accept json
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param request body hotelService.CreateGuestRequest true "客史信息"
// @Success 200 {object} response.Response{data=models.Guest}
// @Router /api/v1/hotels/{hotel_id}/guests [post]
func (h *Handler) CreateGuest(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	var req hotelService.CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	guest, err := h.hotelService.CreateGuest(c.Request.Context(), hotelID, &req)
	handler.MustSucceed(c, err, guest)
}

// GetGuestList 获取客史列表
// @Summary 获取客史列表
// @Tags 客史
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param keyword query string false "姓名或手机号"
// @Success 200 {object} response.Response{data=[]models.Guest}
// @Router /api/v1/hotels/{hotel_id}/guests [get]
func (h *Handler) GetGuestList(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	p := handler.BindPagination(c)
	guests, total, err := h.hotelService.ListGuests(c.Request.Context(), hotelID, &p, c.Query("keyword"))
	handler.MustSucceedPage(c, err, guests, total, p.Page, p.PageSize)
}

// GetGuestDetail 获取客史详情
// @Summary 获取客史详情
// @Tags 客史
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "客史ID"
// @Success 200 {object} response.Response{data=models.Guest}
// @Router /api/v1/hotels/{hotel_id}/guests/{id} [get]
func (h *Handler) GetGuestDetail(c *gin.Context) {
	hotelID, guestID, ok := handler.ParseHotelAndID(c, "客史")
	if !ok {
		return
	}

	guest, err := h.hotelService.GetGuest(c.Request.Context(), hotelID, guestID)
	handler.MustSucceed(c, err, guest)
}

// CreateRoomType 创建房型
// @Summary 创建房型
// @Tags 房型
// @Accept json
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param request body hotelService.CreateRoomTypeRequest true "房型信息"
// @Success 200 {object} response.Response{data=models.RoomType}
// @Router /api/v1/hotels/{hotel_id}/room-types [post]
func (h *Handler) CreateRoomType(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	var req hotelService.CreateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	roomType, err := h.hotelService.CreateRoomType(c.Request.Context(), hotelID, &req)
	handler.MustSucceed(c, err, roomType)
}

// GetRoomTypeList 获取房型列表
// @Summary 获取房型列表
// @Tags 房型
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Success 200 {object} response.Response{data=[]models.RoomType}
// @Router /api/v1/hotels/{hotel_id}/room-types [get]
func (h *Handler) GetRoomTypeList(c *gin.Context) {
	hotelID, ok := handler.ParseHotelID(c)
	if !ok {
		return
	}

	roomTypes, err := h.hotelService.ListRoomTypes(c.Request.Context(), hotelID)
	handler.MustSucceed(c, err, roomTypes)
}

// CreateRatePeriod 创建房价时段
// @Summary 创建房价时段
// @Tags 房型
// @Accept json
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "房型ID"
// @Param request body hotelService.CreateRatePeriodRequest true "时段信息"
// @Success 200 {object} response.Response{data=models.RatePeriod}
// @Router /api/v1/hotels/{hotel_id}/room-types/{id}/rate-periods [post]
func (h *Handler) CreateRatePeriod(c *gin.Context) {
	hotelID, roomTypeID, ok := handler.ParseHotelAndID(c, "房型")
	if !ok {
		return
	}

	var req hotelService.CreateRatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	period, err := h.hotelService.CreateRatePeriod(c.Request.Context(), hotelID, roomTypeID, &req)
	handler.MustSucceed(c, err, period)
}

// GetRatePeriodList 获取房价时段列表
// @Summary 获取房价时段列表
// @Tags 房型
// @Produce json
// @Param hotel_id path int true "酒店ID"
// @Param id path int true "房型ID"
// @Success 200 {object} response.Response{data=[]models.RatePeriod}
// @Router /api/v1/hotels/{hotel_id}/room-types/{id}/rate-periods [get]
func (h *Handler) GetRatePeriodList(c *gin.Context) {
	hotelID, roomTypeID, ok := handler.ParseHotelAndID(c, "房型")
	if !ok {
		return
	}

	periods, err := h.hotelService.ListRatePeriods(c.Request.Context(), hotelID, roomTypeID)
	handler.MustSucceed(c, err, periods)
}
