// Package scheduler 提供定时任务
package scheduler

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/repository"
	reservationService "github.com/dumeirei/hotel-pms-backend/internal/service/reservation"
	roomService "github.com/dumeirei/hotel-pms-backend/internal/service/room"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	db                 *gorm.DB
	hotelRepo          *repository.HotelRepository
	businessDateRepo   *repository.BusinessDateRepository
	reservationService *reservationService.ReservationService
	roomService        *roomService.RoomService
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(
	db *gorm.DB,
	hotelRepo *repository.HotelRepository,
	businessDateRepo *repository.BusinessDateRepository,
	reservationSvc *reservationService.ReservationService,
	roomSvc *roomService.RoomService,
) *TaskHandler {
	return &TaskHandler{
		db:                 db,
		hotelRepo:          hotelRepo,
		businessDateRepo:   businessDateRepo,
		reservationService: reservationSvc,
		roomService:        roomSvc,
	}
}

// SweepNoShows 按酒店清扫过了宽限期仍未到店的预订
func (h *TaskHandler) SweepNoShows(ctx context.Context) error {
	hotels, err := h.hotelRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	for _, hotel := range hotels {
		bd, err := h.businessDateRepo.Get(ctx, hotel.ID)
		if err != nil {
			// 未初始化营业日的酒店跳过
			continue
		}

		swept, err := h.reservationService.SweepNoShows(ctx, hotel.ID, bd.CurrentDate)
		if err != nil {
			log.Printf("[Task] Failed to sweep no-shows for hotel %d: %v", hotel.ID, err)
			continue
		}
		if swept > 0 {
			log.Printf("[Task] Hotel %d: marked %d reservations as no-show", hotel.ID, swept)
		}
	}

	return nil
}

// RefreshRoomStats 刷新各酒店的房态统计缓存
func (h *TaskHandler) RefreshRoomStats(ctx context.Context) error {
	hotels, err := h.hotelRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	for _, hotel := range hotels {
		if _, err := h.roomService.RefreshStatsCache(ctx, hotel.ID); err != nil {
			log.Printf("[Task] Failed to refresh room stats for hotel %d: %v", hotel.ID, err)
		}
	}

	return nil
}

// SetupTasks 设置所有任务
func SetupTasks(scheduler *Scheduler, handler *TaskHandler) {
	// 每十五分钟清扫未到店预订
	scheduler.AddTask("SweepNoShows", 15*time.Minute, handler.SweepNoShows)

	// 每五分钟刷新房态统计缓存
	scheduler.AddTask("RefreshRoomStats", 5*time.Minute, handler.RefreshRoomStats)
}
