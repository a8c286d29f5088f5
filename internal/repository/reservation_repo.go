package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/models"
)

// ReservationRepository 预订仓储
type ReservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository 创建预订仓储
func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// WithTx 返回使用指定事务的仓储
func (r *ReservationRepository) WithTx(tx *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: tx}
}

// Create 创建预订（含房间段）
func (r *ReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// GetByID 根据 ID 获取预订
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Guest").
		Preload("Rooms").
		First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// GetByConfirmationNo 根据确认号获取预订
func (r *ReservationRepository) GetByConfirmationNo(ctx context.Context, confirmationNo string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Guest").
		Preload("Rooms").
		Where("confirmation_no = ?", confirmationNo).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// List 获取预订列表
func (r *ReservationRepository) List(ctx context.Context, hotelID int64, offset, limit int, filters map[string]interface{}) ([]*models.Reservation, int64, error) {
	var reservations []*models.Reservation
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Reservation{}).Where("hotel_id = ?", hotelID)

	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if guestID, ok := filters["guest_id"].(int64); ok && guestID > 0 {
		query = query.Where("guest_id = ?", guestID)
	}
	if checkInDate, ok := filters["check_in_date"].(string); ok && checkInDate != "" {
		query = query.Where("check_in_date = ?", checkInDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Guest").Order("id DESC").Offset(offset).Limit(limit).Find(&reservations).Error; err != nil {
		return nil, 0, err
	}

	return reservations, total, nil
}

// ListArrivals 获取指定入住日期的已确认预订
func (r *ReservationRepository) ListArrivals(ctx context.Context, hotelID int64, date string) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND check_in_date = ? AND status = ?", hotelID, date, models.ReservationStatusConfirmed).
		Preload("Guest").
		Preload("Rooms").
		Order("id").
		Find(&reservations).Error
	return reservations, err
}

// ListDepartures 获取指定退房日期的在住预订
func (r *ReservationRepository) ListDepartures(ctx context.Context, hotelID int64, date string) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND check_out_date = ? AND status = ?", hotelID, date, models.ReservationStatusCheckedIn).
		Preload("Guest").
		Order("id").
		Find(&reservations).Error
	return reservations, err
}

// ListOverdueConfirmed 获取入住日期已过且仍为已确认状态的预订
// 供未到店处理定时任务扫描
func (r *ReservationRepository) ListOverdueConfirmed(ctx context.Context, hotelID int64, beforeDate string) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND check_in_date < ? AND status = ?", hotelID, beforeDate, models.ReservationStatusConfirmed).
		Order("id").
		Find(&reservations).Error
	return reservations, err
}

// UpdateStatus 条件更新预订状态，返回是否命中
// 状态机流转的并发保护：只有当前状态匹配才会更新
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, fromStatus, toStatus string, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": toStatus}
	for k, v := range extra {
		updates[k] = v
	}

	result := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Update 更新预订
func (r *ReservationRepository) Update(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// GetSegment 获取预订房间段
func (r *ReservationRepository) GetSegment(ctx context.Context, segmentID int64) (*models.ReservationRoom, error) {
	var segment models.ReservationRoom
	err := r.db.WithContext(ctx).First(&segment, segmentID).Error
	if err != nil {
		return nil, err
	}
	return &segment, nil
}

// ListSegments 获取预订的房间段
func (r *ReservationRepository) ListSegments(ctx context.Context, reservationID int64) ([]*models.ReservationRoom, error) {
	var segments []*models.ReservationRoom
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("id").
		Find(&segments).Error
	return segments, err
}

// AssignSegmentRoom 为房间段分配具体客房
func (r *ReservationRepository) AssignSegmentRoom(ctx context.Context, segmentID, roomID int64) error {
	return r.db.WithContext(ctx).Model(&models.ReservationRoom{}).
		Where("id = ?", segmentID).
		Update("room_id", roomID).Error
}

// CountCheckedInSince 统计某时间之后的入住数
func (r *ReservationRepository) CountCheckedInSince(ctx context.Context, hotelID int64, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("hotel_id = ? AND checked_in_at >= ?", hotelID, since).
		Count(&count).Error
	return count, err
}
