package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/models"
)

// RoomTypeRepository 房型仓储
type RoomTypeRepository struct {
	db *gorm.DB
}

// NewRoomTypeRepository 创建房型仓储
func NewRoomTypeRepository(db *gorm.DB) *RoomTypeRepository {
	return &RoomTypeRepository{db: db}
}

// Create 创建房型
func (r *RoomTypeRepository) Create(ctx context.Context, roomType *models.RoomType) error {
	return r.db.WithContext(ctx).Create(roomType).Error
}

// GetByID 根据 ID 获取房型
func (r *RoomTypeRepository) GetByID(ctx context.Context, id int64) (*models.RoomType, error) {
	var roomType models.RoomType
	err := r.db.WithContext(ctx).First(&roomType, id).Error
	if err != nil {
		return nil, err
	}
	return &roomType, nil
}

// ListByHotel 获取酒店房型列表
func (r *RoomTypeRepository) ListByHotel(ctx context.Context, hotelID int64) ([]*models.RoomType, error) {
	var roomTypes []*models.RoomType
	err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("id").
		Find(&roomTypes).Error
	return roomTypes, err
}

// Update 更新房型
func (r *RoomTypeRepository) Update(ctx context.Context, roomType *models.RoomType) error {
	return r.db.WithContext(ctx).Save(roomType).Error
}

// Delete 删除房型
func (r *RoomTypeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.RoomType{}, id).Error
}
