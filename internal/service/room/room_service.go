// Package room 提供房态管理服务
package room

import (
	"context"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/common/cache"
	"github.com/dumeirei/hotel-pms-backend/internal/common/errors"
	"github.com/dumeirei/hotel-pms-backend/internal/common/logger"
	"github.com/dumeirei/hotel-pms-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-pms-backend/internal/common/utils"
	"github.com/dumeirei/hotel-pms-backend/internal/events"
	"github.com/dumeirei/hotel-pms-backend/internal/models"
	"github.com/dumeirei/hotel-pms-backend/internal/repository"
)

// RoomService 房态服务
type RoomService struct {
	db        *gorm.DB
	roomRepo  *repository.RoomRepository
	publisher events.Publisher
}

// NewRoomService 创建房态服务
func NewRoomService(db *gorm.DB, roomRepo *repository.RoomRepository, publisher events.Publisher) *RoomService {
	return &RoomService{
		db:        db,
		roomRepo:  roomRepo,
		publisher: publisher,
	}
}

// statusTransitions 房态转换表
// occupied 只能转向 dirty/maintenance/out_of_order；入住占房走预订服务的条件更新
var statusTransitions = map[string][]string{
	models.RoomStatusVacant:      {models.RoomStatusDirty, models.RoomStatusMaintenance, models.RoomStatusOutOfOrder},
	models.RoomStatusOccupied:    {models.RoomStatusDirty, models.RoomStatusMaintenance, models.RoomStatusOutOfOrder},
	models.RoomStatusDirty:       {models.RoomStatusVacant, models.RoomStatusMaintenance, models.RoomStatusOutOfOrder},
	models.RoomStatusMaintenance: {models.RoomStatusVacant, models.RoomStatusDirty, models.RoomStatusOutOfOrder},
	models.RoomStatusOutOfOrder:  {models.RoomStatusVacant, models.RoomStatusDirty, models.RoomStatusMaintenance},
}

// canTransition 校验房态转换是否合法
func canTransition(from, to string) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CreateRoomRequest 创建房间请求
type CreateRoomRequest struct {
	RoomNumber string  `json:"room_number" binding:"required"`
	Floor      *int    `json:"floor"`
	RoomTypeID int64   `json:"room_type_id" binding:"required"`
	Notes      *string `json:"notes"`
}

// Create 创建房间
func (s *RoomService) Create(ctx context.Context, hotelID int64, req *CreateRoomRequest) (*models.Room, error) {
	room := &models.Room{
		HotelID:    hotelID,
		RoomNumber: req.RoomNumber,
		Floor:      req.Floor,
		RoomTypeID: req.RoomTypeID,
		Status:     models.RoomStatusVacant,
		Notes:      req.Notes,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return room, nil
}

// Get 获取房间详情
func (s *RoomService) Get(ctx context.Context, hotelID, roomID int64) (*models.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if room.HotelID != hotelID {
		return nil, errors.ErrRoomNotFound
	}
	return room, nil
}

// List 查询房间列表
func (s *RoomService) List(ctx context.Context, hotelID int64, pagination *utils.Pagination, filters map[string]interface{}) ([]*models.Room, int64, error) {
	rooms, total, err := s.roomRepo.List(ctx, hotelID, pagination.GetOffset(), pagination.GetLimit(), filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return rooms, total, nil
}

// SetStatus 设置房态
func (s *RoomService) SetStatus(ctx context.Context, hotelID, roomID int64, newStatus string) (*models.Room, error) {
	if !utils.Contains(models.RoomStatuses, newStatus) {
		return nil, errors.ErrInvalidTransition.WithMessage("未知房态: " + newStatus)
	}
	// 直接置为在住会绕过入住人关联
	if newStatus == models.RoomStatusOccupied {
		return nil, errors.ErrInvalidTransition.WithMessage("不能直接设置为在住")
	}

	room, err := s.Get(ctx, hotelID, roomID)
	if err != nil {
		return nil, err
	}

	fromStatus := room.Status
	if fromStatus == newStatus {
		return room, nil
	}
	if !canTransition(fromStatus, newStatus) {
		return nil, errors.ErrInvalidTransition.WithMessage(fromStatus + " 不能转换为 " + newStatus)
	}
	// 在住房只能在清空占用后才能转空净
	if fromStatus == models.RoomStatusOccupied && room.CurrentGuestID != nil {
		if newStatus == models.RoomStatusVacant {
			return nil, errors.ErrRoomOccupied
		}
	}

	if err := s.roomRepo.UpdateStatus(ctx, roomID, newStatus); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	room.Status = newStatus

	_ = s.publisher.Publish(ctx, events.ChannelRoom, events.NewEvent(events.TypeRoomStatusChanged, hotelID, &events.RoomStatusChangedPayload{
		RoomID:     room.ID,
		RoomNumber: room.RoomNumber,
		FromStatus: fromStatus,
		ToStatus:   newStatus,
	}))

	logger.Info("房态变更",
		logger.HotelID(hotelID),
		logger.RoomID(roomID),
		logger.String("from", fromStatus),
		logger.String("to", newStatus),
	)
	return room, nil
}

// RoomStats 房态统计
type RoomStats struct {
	HotelID       int64            `json:"hotel_id"`
	Total         int64            `json:"total"`
	ByStatus      map[string]int64 `json:"by_status"`
	OccupancyRate float64          `json:"occupancy_rate"`
	ComputedAt    time.Time        `json:"computed_at"`
}

// ComputeStats 统计各房态数量
func (s *RoomService) ComputeStats(ctx context.Context, hotelID int64) (*RoomStats, error) {
	counts, err := s.roomRepo.CountByStatus(ctx, hotelID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	stats := &RoomStats{
		HotelID:    hotelID,
		ByStatus:   counts,
		ComputedAt: time.Now(),
	}
	for _, count := range counts {
		stats.Total += count
	}
	// 出租率分母不含维修房和停用房
	sellable := stats.Total - counts[models.RoomStatusMaintenance] - counts[models.RoomStatusOutOfOrder]
	if sellable > 0 {
		stats.OccupancyRate = float64(counts[models.RoomStatusOccupied]) / float64(sellable) * 100
	}

	metrics.GetMetrics().SetOccupiedRooms(strconv.FormatInt(hotelID, 10), float64(counts[models.RoomStatusOccupied]))
	return stats, nil
}

// GetCachedStats 读取缓存的房态统计，未命中时实时计算
func (s *RoomService) GetCachedStats(ctx context.Context, hotelID int64) (*RoomStats, error) {
	if cache.GetClient() != nil {
		key := cache.BuildKey(cache.KeyPrefixRoomStats, strconv.FormatInt(hotelID, 10))
		var stats RoomStats
		if err := cache.Get(ctx, key, &stats); err == nil {
			metrics.RecordCacheHitGlobal("room_stats")
			return &stats, nil
		}
		metrics.RecordCacheMissGlobal("room_stats")
	}
	return s.ComputeStats(ctx, hotelID)
}

// RefreshStatsCache 重算并写入缓存
func (s *RoomService) RefreshStatsCache(ctx context.Context, hotelID int64) (*RoomStats, error) {
	stats, err := s.ComputeStats(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if cache.GetClient() != nil {
		key := cache.BuildKey(cache.KeyPrefixRoomStats, strconv.FormatInt(hotelID, 10))
		if err := cache.Set(ctx, key, stats, 5*time.Minute); err != nil {
			logger.Warn("写入房态统计缓存失败", logger.HotelID(hotelID), logger.Err(err))
		}
	}
	return stats, nil
}
