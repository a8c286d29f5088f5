package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/models"
)

// RoomRepository 客房仓储
type RoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建客房仓储
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// WithTx 返回使用指定事务的仓储
func (r *RoomRepository) WithTx(tx *gorm.DB) *RoomRepository {
	return &RoomRepository{db: tx}
}

// Create 创建客房
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// GetByID 根据 ID 获取客房
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).Preload("RoomType").First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByHotelAndNumber 根据酒店和房号获取客房
func (r *RoomRepository) GetByHotelAndNumber(ctx context.Context, hotelID int64, roomNumber string) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND room_number = ?", hotelID, roomNumber).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// List 获取酒店客房列表
func (r *RoomRepository) List(ctx context.Context, hotelID int64, offset, limit int, filters map[string]interface{}) ([]*models.Room, int64, error) {
	var rooms []*models.Room
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Room{}).Where("hotel_id = ?", hotelID)

	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if roomTypeID, ok := filters["room_type_id"].(int64); ok && roomTypeID > 0 {
		query = query.Where("room_type_id = ?", roomTypeID)
	}
	if floor, ok := filters["floor"].(int); ok {
		query = query.Where("floor = ?", floor)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("RoomType").Order("room_number").Offset(offset).Limit(limit).Find(&rooms).Error; err != nil {
		return nil, 0, err
	}

	return rooms, total, nil
}

// ListByStatus 获取指定状态的客房
func (r *RoomRepository) ListByStatus(ctx context.Context, hotelID int64, status string) ([]*models.Room, error) {
	var rooms []*models.Room
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND status = ?", hotelID, status).
		Order("room_number").
		Find(&rooms).Error
	return rooms, err
}

// ListOccupied 获取在住客房（含当前预订）
func (r *RoomRepository) ListOccupied(ctx context.Context, hotelID int64) ([]*models.Room, error) {
	var rooms []*models.Room
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND status = ?", hotelID, models.RoomStatusOccupied).
		Preload("RoomType").
		Order("room_number").
		Find(&rooms).Error
	return rooms, err
}

// CountByStatus 按状态统计客房数
func (r *RoomRepository) CountByStatus(ctx context.Context, hotelID int64) (map[string]int64, error) {
	var results []struct {
		Status string
		Count  int64
	}

	err := r.db.WithContext(ctx).Model(&models.Room{}).
		Select("status, count(*) as count").
		Where("hotel_id = ?", hotelID).
		Group("status").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int64)
	for _, row := range results {
		stats[row.Status] = row.Count
	}
	return stats, nil
}

// UpdateStatus 更新客房状态
func (r *RoomRepository) UpdateStatus(ctx context.Context, roomID int64, status string) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("status", status).Error
}

// Occupy 条件占用客房：只有 vacant 或 dirty 状态才能转为在住
// 返回是否占用成功，并发入住同一间客房时只有一个请求能成功
func (r *RoomRepository) Occupy(ctx context.Context, roomID, guestID, reservationID int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("id = ? AND status IN ?", roomID, []string{models.RoomStatusVacant, models.RoomStatusDirty}).
		Updates(map[string]interface{}{
			"status":                 models.RoomStatusOccupied,
			"current_guest_id":       guestID,
			"current_reservation_id": reservationID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Release 释放客房：退房后转为脏房并清空在住信息
func (r *RoomRepository) Release(ctx context.Context, roomID int64) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).
		Where("id = ?", roomID).
		Updates(map[string]interface{}{
			"status":                 models.RoomStatusDirty,
			"current_guest_id":       nil,
			"current_reservation_id": nil,
		}).Error
}

// Update 更新客房
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// Delete 删除客房
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Room{}, id).Error
}
