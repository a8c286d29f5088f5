// Package hotel 提供酒店主档、客史与房型价管理服务
package hotel

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/common/crypto"
	"github.com/dumeirei/hotel-pms-backend/internal/common/errors"
	"github.com/dumeirei/hotel-pms-backend/internal/common/logger"
	"github.com/dumeirei/hotel-pms-backend/internal/common/utils"
	"github.com/dumeirei/hotel-pms-backend/internal/models"
	"github.com/dumeirei/hotel-pms-backend/internal/repository"
)

// HotelService 酒店主档服务
type HotelService struct {
	hotelRepo        *repository.HotelRepository
	guestRepo        *repository.GuestRepository
	roomTypeRepo     *repository.RoomTypeRepository
	ratePeriodRepo   *repository.RatePeriodRepository
	businessDateRepo *repository.BusinessDateRepository
}

// NewHotelService 创建酒店主档服务
func NewHotelService(
	hotelRepo *repository.HotelRepository,
	guestRepo *repository.GuestRepository,
	roomTypeRepo *repository.RoomTypeRepository,
	ratePeriodRepo *repository.RatePeriodRepository,
	businessDateRepo *repository.BusinessDateRepository,
) *HotelService {
	return &HotelService{
		hotelRepo:        hotelRepo,
		guestRepo:        guestRepo,
		roomTypeRepo:     roomTypeRepo,
		ratePeriodRepo:   ratePeriodRepo,
		businessDateRepo: businessDateRepo,
	}
}

// CreateHotelRequest 创建酒店请求
type CreateHotelRequest struct {
	Name     string  `json:"name" binding:"required"`
	Code     string  `json:"code" binding:"required"`
	Timezone string  `json:"timezone"`
	Address  *string `json:"address"`
	// OpeningDate 开业营业日，创建时初始化营业日期
	OpeningDate string `json:"opening_date" binding:"required"`
}

// CreateHotel 创建酒店并初始化营业日
func (s *HotelService) CreateHotel(ctx context.Context, req *CreateHotelRequest) (*models.Hotel, error) {
	if !utils.IsValidDate(req.OpeningDate) {
		return nil, errors.ErrInvalidParams.WithMessage("开业日期格式错误")
	}
	if _, err := s.hotelRepo.GetByCode(ctx, req.Code); err == nil {
		return nil, errors.ErrHotelCodeExists
	}

	hotel := &models.Hotel{
		Name:     req.Name,
		Code:     req.Code,
		Timezone: req.Timezone,
		Address:  req.Address,
		Status:   models.HotelStatusActive,
	}
	if hotel.Timezone == "" {
		hotel.Timezone = "Asia/Shanghai"
	}
	if err := s.hotelRepo.Create(ctx, hotel); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if err := s.businessDateRepo.Init(ctx, hotel.ID, req.OpeningDate); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("创建酒店",
		logger.HotelID(hotel.ID),
		logger.String("code", hotel.Code),
		logger.BusinessDate(req.OpeningDate),
	)
	return hotel, nil
}

// GetHotel 获取酒店详情
func (s *HotelService) GetHotel(ctx context.Context, hotelID int64) (*models.Hotel, error) {
	hotel, err := s.hotelRepo.GetByID(ctx, hotelID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrHotelNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return hotel, nil
}

// ListHotels 分页查询酒店
func (s *HotelService) ListHotels(ctx context.Context, pagination *utils.Pagination) ([]*models.Hotel, int64, error) {
	hotels, total, err := s.hotelRepo.List(ctx, pagination.GetOffset(), pagination.GetLimit())
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return hotels, total, nil
}

// CreateGuestRequest 创建客史请求
type CreateGuestRequest struct {
	Name     string  `json:"name" binding:"required"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	IDNumber *string `json:"id_number"`
}

// CreateGuest 创建客史；手机号已存在时返回既有档案
func (s *HotelService) CreateGuest(ctx context.Context, hotelID int64, req *CreateGuestRequest) (*models.Guest, error) {
	if req.Phone != nil && *req.Phone != "" {
		if existing, err := s.guestRepo.GetByPhone(ctx, hotelID, *req.Phone); err == nil {
			return existing, nil
		}
	}

	guest := &models.Guest{
		HotelID:  hotelID,
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		IDNumber: req.IDNumber,
	}
	if err := s.guestRepo.Create(ctx, guest); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("创建客史档案",
		logger.HotelID(hotelID),
		logger.Int64("guest_id", guest.ID),
		logger.String("phone", crypto.MaskPhone(utils.SafeString(guest.Phone))),
	)
	return guest, nil
}

// GetGuest 获取客史详情
func (s *HotelService) GetGuest(ctx context.Context, hotelID, guestID int64) (*models.Guest, error) {
	guest, err := s.guestRepo.GetByID(ctx, guestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrGuestNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if guest.HotelID != hotelID {
		return nil, errors.ErrGuestNotFound
	}
	return guest, nil
}

// ListGuests 分页查询客史，支持姓名/手机号模糊搜索
func (s *HotelService) ListGuests(ctx context.Context, hotelID int64, pagination *utils.Pagination, keyword string) ([]*models.Guest, int64, error) {
	guests, total, err := s.guestRepo.List(ctx, hotelID, pagination.GetOffset(), pagination.GetLimit(), keyword)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return guests, total, nil
}

// CreateRoomTypeRequest 创建房型请求
type CreateRoomTypeRequest struct {
	Name        string          `json:"name" binding:"required"`
	Code        string          `json:"code" binding:"required"`
	BaseRate    decimal.Decimal `json:"base_rate" binding:"required"`
	MaxGuests   int             `json:"max_guests"`
	Description *string         `json:"description"`
}

// CreateRoomType 创建房型
func (s *HotelService) CreateRoomType(ctx context.Context, hotelID int64, req *CreateRoomTypeRequest) (*models.RoomType, error) {
	if req.BaseRate.IsNegative() {
		return nil, errors.ErrInvalidParams.WithMessage("基础房价不能为负数")
	}
	roomType := &models.RoomType{
		HotelID:     hotelID,
		Name:        req.Name,
		Code:        req.Code,
		BaseRate:    req.BaseRate,
		MaxGuests:   req.MaxGuests,
		Description: req.Description,
	}
	if roomType.MaxGuests <= 0 {
		roomType.MaxGuests = 2
	}
	if err := s.roomTypeRepo.Create(ctx, roomType); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return roomType, nil
}

// ListRoomTypes 查询酒店房型
func (s *HotelService) ListRoomTypes(ctx context.Context, hotelID int64) ([]*models.RoomType, error) {
	roomTypes, err := s.roomTypeRepo.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return roomTypes, nil
}

// CreateRatePeriodRequest 创建房价时段请求
type CreateRatePeriodRequest struct {
	Name        string          `json:"name" binding:"required"`
	StartDate   string          `json:"start_date" binding:"required"`
	EndDate     string          `json:"end_date" binding:"required"`
	NightlyRate decimal.Decimal `json:"nightly_rate" binding:"required"`
}

// CreateRatePeriod 创建房价时段
func (s *HotelService) CreateRatePeriod(ctx context.Context, hotelID, roomTypeID int64, req *CreateRatePeriodRequest) (*models.RatePeriod, error) {
	if !utils.IsValidDate(req.StartDate) || !utils.IsValidDate(req.EndDate) {
		return nil, errors.ErrInvalidParams.WithMessage("日期格式错误")
	}
	if req.EndDate < req.StartDate {
		return nil, errors.ErrInvalidParams.WithMessage("结束日期不能早于开始日期")
	}
	if req.NightlyRate.IsNegative() {
		return nil, errors.ErrInvalidParams.WithMessage("房价不能为负数")
	}

	roomType, err := s.roomTypeRepo.GetByID(ctx, roomTypeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomTypeNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if roomType.HotelID != hotelID {
		return nil, errors.ErrRoomTypeNotFound
	}

	period := &models.RatePeriod{
		RoomTypeID:  roomTypeID,
		Name:        req.Name,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		NightlyRate: req.NightlyRate,
	}
	if err := s.ratePeriodRepo.Create(ctx, period); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return period, nil
}

// ListRatePeriods 查询房型价时段
func (s *HotelService) ListRatePeriods(ctx context.Context, hotelID, roomTypeID int64) ([]*models.RatePeriod, error) {
	roomType, err := s.roomTypeRepo.GetByID(ctx, roomTypeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomTypeNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if roomType.HotelID != hotelID {
		return nil, errors.ErrRoomTypeNotFound
	}

	periods, err := s.ratePeriodRepo.ListByRoomType(ctx, roomTypeID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return periods, nil
}
