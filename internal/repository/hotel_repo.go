package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/models"
)

// HotelRepository 酒店仓储
type HotelRepository struct {
	db *gorm.DB
}

// NewHotelRepository 创建酒店仓储
func NewHotelRepository(db *gorm.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

// Create 创建酒店
func (r *HotelRepository) Create(ctx context.Context, hotel *models.Hotel) error {
	return r.db.WithContext(ctx).Create(hotel).Error
}

// GetByID 根据 ID 获取酒店
func (r *HotelRepository) GetByID(ctx context.Context, id int64) (*models.Hotel, error) {
	var hotel models.Hotel
	err := r.db.WithContext(ctx).First(&hotel, id).Error
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}

// GetByCode 根据编码获取酒店
func (r *HotelRepository) GetByCode(ctx context.Context, code string) (*models.Hotel, error) {
	var hotel models.Hotel
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&hotel).Error
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}

// Update 更新酒店
func (r *HotelRepository) Update(ctx context.Context, hotel *models.Hotel) error {
	return r.db.WithContext(ctx).Save(hotel).Error
}

// List 获取酒店列表
func (r *HotelRepository) List(ctx context.Context, offset, limit int) ([]*models.Hotel, int64, error) {
	var hotels []*models.Hotel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Hotel{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("id").Offset(offset).Limit(limit).Find(&hotels).Error; err != nil {
		return nil, 0, err
	}

	return hotels, total, nil
}

// ListActive 获取启用的酒店
func (r *HotelRepository) ListActive(ctx context.Context) ([]*models.Hotel, error) {
	var hotels []*models.Hotel
	err := r.db.WithContext(ctx).
		Where("status = ?", models.HotelStatusActive).
		Order("id").
		Find(&hotels).Error
	return hotels, err
}
