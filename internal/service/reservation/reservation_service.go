// Package reservation 提供预订生命周期服务
package reservation

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/common/clock"
	"github.com/dumeirei/hotel-pms-backend/internal/common/config"
	"github.com/dumeirei/hotel-pms-backend/internal/common/errors"
	"github.com/dumeirei/hotel-pms-backend/internal/common/logger"
	"github.com/dumeirei/hotel-pms-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-pms-backend/internal/common/utils"
	"github.com/dumeirei/hotel-pms-backend/internal/events"
	"github.com/dumeirei/hotel-pms-backend/internal/models"
	"github.com/dumeirei/hotel-pms-backend/internal/repository"
	"github.com/dumeirei/hotel-pms-backend/internal/service/folio"
)

// ReservationService 预订服务
type ReservationService struct {
	db              *gorm.DB
	reservationRepo *repository.ReservationRepository
	roomRepo        *repository.RoomRepository
	folioRepo       *repository.FolioRepository
	folioService    *folio.FolioService
	publisher       events.Publisher
	clock           clock.Clock
	cfg             *config.BusinessConfig
}

// NewReservationService 创建预订服务
func NewReservationService(
	db *gorm.DB,
	reservationRepo *repository.ReservationRepository,
	roomRepo *repository.RoomRepository,
	folioRepo *repository.FolioRepository,
	folioService *folio.FolioService,
	publisher events.Publisher,
	clk clock.Clock,
	cfg *config.BusinessConfig,
) *ReservationService {
	return &ReservationService{
		db:              db,
		reservationRepo: reservationRepo,
		roomRepo:        roomRepo,
		folioRepo:       folioRepo,
		folioService:    folioService,
		publisher:       publisher,
		clock:           clk,
		cfg:             cfg,
	}
}

// SegmentRequest 房间段请求
type SegmentRequest struct {
	RoomTypeID int64  `json:"room_type_id" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
}

// CreateRequest 创建预订请求
type CreateRequest struct {
	GuestID      int64            `json:"guest_id" binding:"required"`
	CheckInDate  string           `json:"check_in_date" binding:"required"`
	CheckOutDate string           `json:"check_out_date" binding:"required"`
	TotalAmount  decimal.Decimal  `json:"total_amount"`
	Source       *string          `json:"source"`
	Remark       *string          `json:"remark"`
	Segments     []SegmentRequest `json:"segments" binding:"required,min=1"`
}

// Create 创建预订
func (s *ReservationService) Create(ctx context.Context, hotelID int64, req *CreateRequest) (*models.Reservation, error) {
	if !utils.IsValidDate(req.CheckInDate) || !utils.IsValidDate(req.CheckOutDate) {
		return nil, errors.ErrInvalidParams.WithMessage("日期格式错误")
	}
	nights, err := utils.DaysBetween(req.CheckInDate, req.CheckOutDate)
	if err != nil || nights <= 0 {
		return nil, errors.ErrInvalidParams.WithMessage("离店日期必须晚于到店日期")
	}

	reservation := &models.Reservation{
		HotelID:        hotelID,
		ConfirmationNo: utils.GenerateConfirmationNo(),
		GuestID:        req.GuestID,
		Status:         models.ReservationStatusConfirmed,
		CheckInDate:    req.CheckInDate,
		CheckOutDate:   req.CheckOutDate,
		TotalAmount:    req.TotalAmount,
		Source:         req.Source,
		Remark:         req.Remark,
	}
	for _, seg := range req.Segments {
		if !utils.IsValidDate(seg.StartDate) || !utils.IsValidDate(seg.EndDate) {
			return nil, errors.ErrInvalidParams.WithMessage("房间段日期格式错误")
		}
		reservation.Rooms = append(reservation.Rooms, models.ReservationRoom{
			RoomTypeID: seg.RoomTypeID,
			StartDate:  seg.StartDate,
			EndDate:    seg.EndDate,
		})
	}

	if err := s.reservationRepo.Create(ctx, reservation); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	_ = s.publisher.Publish(ctx, events.ChannelReservation, events.NewEvent(events.TypeReservationCreated, hotelID, &events.ReservationPayload{
		ReservationID:  reservation.ID,
		ConfirmationNo: reservation.ConfirmationNo,
		GuestID:        reservation.GuestID,
		Status:         reservation.Status,
	}))
	return reservation, nil
}

// Get 获取预订详情
func (s *ReservationService) Get(ctx context.Context, hotelID, reservationID int64) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if reservation.HotelID != hotelID {
		return nil, errors.ErrReservationNotFound
	}
	return reservation, nil
}

// List 查询预订列表
func (s *ReservationService) List(ctx context.Context, hotelID int64, pagination *utils.Pagination, filters map[string]interface{}) ([]*models.Reservation, int64, error) {
	reservations, total, err := s.reservationRepo.List(ctx, hotelID, pagination.GetOffset(), pagination.GetLimit(), filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return reservations, total, nil
}

// CheckInRequest 入住请求
type CheckInRequest struct {
	// Assignments 房间段到客房的分配，key 为段 ID
	Assignments map[int64]int64 `json:"assignments" binding:"required"`
}

// CheckIn 办理入住
// 每个未分配的房间段必须给出客房；任何一间占房失败则整体回滚
func (s *ReservationService) CheckIn(ctx context.Context, hotelID, reservationID int64, req *CheckInRequest) (*models.Reservation, error) {
	reservation, err := s.Get(ctx, hotelID, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.Status != models.ReservationStatusConfirmed {
		if reservation.Status == models.ReservationStatusCheckedIn {
			return nil, errors.ErrAlreadyCheckedIn
		}
		return nil, errors.ErrReservationStatusError
	}

	// 先在事务外校验分配完整性，缺房不产生任何副作用
	segments, err := s.reservationRepo.ListSegments(ctx, reservationID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	type assignment struct {
		segmentID int64
		roomID    int64
	}
	var assignments []assignment
	for _, seg := range segments {
		roomID := utils.SafeInt64(seg.RoomID)
		if assigned, ok := req.Assignments[seg.ID]; ok {
			roomID = assigned
		}
		if roomID == 0 {
			return nil, errors.ErrIncompleteAssignment
		}
		assignments = append(assignments, assignment{segmentID: seg.ID, roomID: roomID})
	}

	var created *models.Folio
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRoomRepo := s.roomRepo.WithTx(tx)
		txReservationRepo := s.reservationRepo.WithTx(tx)
		txFolioRepo := s.folioRepo.WithTx(tx)

		// 1. 条件占房，任何一间失败整体回滚
		for _, a := range assignments {
			ok, err := txRoomRepo.Occupy(ctx, a.roomID, reservation.GuestID, reservationID)
			if err != nil {
				return errors.ErrDatabaseError.WithError(err)
			}
			if !ok {
				return errors.ErrRoomUnavailable
			}
			if err := txReservationRepo.AssignSegmentRoom(ctx, a.segmentID, a.roomID); err != nil {
				return errors.ErrDatabaseError.WithError(err)
			}
		}

		// 2. 预订状态流转
		now := s.clock.Now()
		ok, err := txReservationRepo.UpdateStatus(ctx, reservationID, models.ReservationStatusConfirmed, models.ReservationStatusCheckedIn, map[string]interface{}{
			"checked_in_at": now,
		})
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if !ok {
			return errors.ErrReservationStatusError
		}

		// 3. 开账夹，存在未关账夹时复用
		existing, err := txFolioRepo.GetByReservation(ctx, reservationID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return errors.ErrDatabaseError.WithError(err)
		}
		if err == nil && existing.Status == models.FolioStatusOpen {
			created = existing
			return nil
		}
		created = &models.Folio{
			HotelID:       hotelID,
			FolioNo:       utils.GenerateFolioNo(),
			ReservationID: &reservationID,
			Status:        models.FolioStatusOpen,
		}
		if err := txFolioRepo.Create(ctx, created); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	metrics.GetMetrics().RecordCheckIn(strconv.FormatInt(hotelID, 10))
	logger.Info("办理入住",
		logger.HotelID(hotelID),
		logger.ConfirmationNo(reservation.ConfirmationNo),
		logger.FolioNo(created.FolioNo),
	)
	s.publishStatusChanged(ctx, events.TypeGuestCheckedIn, reservation, models.ReservationStatusCheckedIn)

	return s.Get(ctx, hotelID, reservationID)
}

// CheckoutResult 退房结果
type CheckoutResult struct {
	Reservation *models.Reservation `json:"reservation"`
	Folio       *models.Folio       `json:"folio,omitempty"`
	Outstanding decimal.Decimal     `json:"outstanding"`
	FolioClosed bool                `json:"folio_closed"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// CheckOut 办理退房
// 余额未结时按业务配置决定放行并警告，或直接拒绝
func (s *ReservationService) CheckOut(ctx context.Context, hotelID, reservationID int64) (*CheckoutResult, error) {
	reservation, err := s.Get(ctx, hotelID, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.Status != models.ReservationStatusCheckedIn {
		return nil, errors.ErrNotCheckedIn
	}

	result := &CheckoutResult{Outstanding: decimal.Zero}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRoomRepo := s.roomRepo.WithTx(tx)
		txReservationRepo := s.reservationRepo.WithTx(tx)
		txFolioRepo := s.folioRepo.WithTx(tx)

		// 1. 校验账夹余额
		f, err := txFolioRepo.GetByReservation(ctx, reservationID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return errors.ErrDatabaseError.WithError(err)
		}
		if err == nil {
			result.Folio = f
			result.Outstanding = f.Balance
			if f.Status == models.FolioStatusOpen && !f.Balance.IsZero() {
				if !s.cfg.Folio.AllowCheckoutWithBalance {
					return errors.ErrOutstandingBalance
				}
				result.Warnings = append(result.Warnings, "账夹存在未结余额 "+f.Balance.String()+"，已挂账")
			}
		}

		// 2. 预订状态流转
		now := s.clock.Now()
		ok, err := txReservationRepo.UpdateStatus(ctx, reservationID, models.ReservationStatusCheckedIn, models.ReservationStatusCheckedOut, map[string]interface{}{
			"checked_out_at": now,
		})
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if !ok {
			return errors.ErrReservationStatusError
		}

		// 3. 释放客房转脏房
		segments, err := txReservationRepo.ListSegments(ctx, reservationID)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		for _, seg := range segments {
			if seg.RoomID == nil {
				continue
			}
			if err := txRoomRepo.Release(ctx, *seg.RoomID); err != nil {
				return errors.ErrDatabaseError.WithError(err)
			}
		}

		// 4. 余额为零时关账
		if result.Folio != nil && result.Folio.Status == models.FolioStatusOpen {
			closed, err := s.folioService.CloseIfSettled(ctx, tx, result.Folio)
			if err != nil {
				return err
			}
			result.FolioClosed = closed
		}
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	metrics.GetMetrics().RecordCheckOut(strconv.FormatInt(hotelID, 10))
	logger.Info("办理退房",
		logger.HotelID(hotelID),
		logger.ConfirmationNo(reservation.ConfirmationNo),
		logger.Bool("folio_closed", result.FolioClosed),
	)
	s.publishStatusChanged(ctx, events.TypeGuestCheckedOut, reservation, models.ReservationStatusCheckedOut)

	result.Reservation, err = s.Get(ctx, hotelID, reservationID)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MoveRoom 换房
// 新房占用与旧房释放在同一事务内完成
func (s *ReservationService) MoveRoom(ctx context.Context, hotelID, segmentID, newRoomID int64) (*models.ReservationRoom, error) {
	segment, err := s.reservationRepo.GetSegment(ctx, segmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrSegmentNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	reservation, err := s.Get(ctx, hotelID, segment.ReservationID)
	if err != nil {
		return nil, err
	}
	if reservation.Status != models.ReservationStatusCheckedIn {
		return nil, errors.ErrNotCheckedIn
	}
	if segment.RoomID == nil {
		return nil, errors.ErrRoomNotOccupied
	}
	oldRoomID := *segment.RoomID
	if oldRoomID == newRoomID {
		return segment, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRoomRepo := s.roomRepo.WithTx(tx)
		txReservationRepo := s.reservationRepo.WithTx(tx)

		ok, err := txRoomRepo.Occupy(ctx, newRoomID, reservation.GuestID, reservation.ID)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if !ok {
			return errors.ErrRoomUnavailable
		}
		if err := txReservationRepo.AssignSegmentRoom(ctx, segmentID, newRoomID); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if err := txRoomRepo.Release(ctx, oldRoomID); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("换房完成",
		logger.HotelID(hotelID),
		logger.ConfirmationNo(reservation.ConfirmationNo),
		logger.Int64("from_room", oldRoomID),
		logger.Int64("to_room", newRoomID),
	)
	return s.reservationRepo.GetSegment(ctx, segmentID)
}

// Cancel 取消预订
func (s *ReservationService) Cancel(ctx context.Context, hotelID, reservationID int64, reason string) (*models.Reservation, error) {
	reservation, err := s.Get(ctx, hotelID, reservationID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ok, err := s.reservationRepo.UpdateStatus(ctx, reservationID, models.ReservationStatusConfirmed, models.ReservationStatusCancelled, map[string]interface{}{
		"cancelled_at":  now,
		"cancel_reason": reason,
	})
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !ok {
		if reservation.Status == models.ReservationStatusCheckedIn {
			return nil, errors.ErrAlreadyCheckedIn
		}
		return nil, errors.ErrReservationStatusError
	}

	s.publishStatusChanged(ctx, events.TypeReservationCancel, reservation, models.ReservationStatusCancelled)
	return s.Get(ctx, hotelID, reservationID)
}

// MarkNoShow 标记未到店
func (s *ReservationService) MarkNoShow(ctx context.Context, hotelID, reservationID int64) (*models.Reservation, error) {
	reservation, err := s.Get(ctx, hotelID, reservationID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ok, err := s.reservationRepo.UpdateStatus(ctx, reservationID, models.ReservationStatusConfirmed, models.ReservationStatusNoShow, map[string]interface{}{
		"no_show_at": now,
	})
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if !ok {
		return nil, errors.ErrReservationStatusError
	}

	s.publishStatusChanged(ctx, events.TypeReservationNoShow, reservation, models.ReservationStatusNoShow)
	return s.Get(ctx, hotelID, reservationID)
}

// SweepNoShows 将超过宽限期仍未到店的预订批量标记为 no_show
func (s *ReservationService) SweepNoShows(ctx context.Context, hotelID int64, businessDate string) (int, error) {
	grace := time.Duration(s.cfg.NoShow.GraceHours) * time.Hour
	cutoff := s.clock.Now().Add(-grace)

	// 营业日之前到店仍未入住的才有资格
	overdue, err := s.reservationRepo.ListOverdueConfirmed(ctx, hotelID, businessDate)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}

	swept := 0
	for _, reservation := range overdue {
		checkIn, err := utils.ParseDate(reservation.CheckInDate)
		if err != nil || checkIn.After(cutoff) {
			continue
		}
		ok, err := s.reservationRepo.UpdateStatus(ctx, reservation.ID, models.ReservationStatusConfirmed, models.ReservationStatusNoShow, map[string]interface{}{
			"no_show_at": s.clock.Now(),
		})
		if err != nil {
			logger.Warn("标记未到店失败", logger.HotelID(hotelID), logger.ConfirmationNo(reservation.ConfirmationNo), logger.Err(err))
			continue
		}
		if ok {
			swept++
			s.publishStatusChanged(ctx, events.TypeReservationNoShow, reservation, models.ReservationStatusNoShow)
		}
	}
	return swept, nil
}

// publishStatusChanged 发布预订状态变更事件
func (s *ReservationService) publishStatusChanged(ctx context.Context, eventType string, reservation *models.Reservation, status string) {
	_ = s.publisher.Publish(ctx, events.ChannelReservation, events.NewEvent(eventType, reservation.HotelID, &events.ReservationPayload{
		ReservationID:  reservation.ID,
		ConfirmationNo: reservation.ConfirmationNo,
		GuestID:        reservation.GuestID,
		Status:         status,
	}))
}
