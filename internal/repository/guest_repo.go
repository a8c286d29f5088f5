package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/models"
)

// GuestRepository 宾客仓储
type GuestRepository struct {
	db *gorm.DB
}

// NewGuestRepository 创建宾客仓储
func NewGuestRepository(db *gorm.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

// Create 创建宾客档案
func (r *GuestRepository) Create(ctx context.Context, guest *models.Guest) error {
	return r.db.WithContext(ctx).Create(guest).Error
}

// GetByID 根据 ID 获取宾客
func (r *GuestRepository) GetByID(ctx context.Context, id int64) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.WithContext(ctx).First(&guest, id).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// GetByPhone 根据手机号查找宾客
func (r *GuestRepository) GetByPhone(ctx context.Context, hotelID int64, phone string) (*models.Guest, error) {
	var guest models.Guest
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND phone = ?", hotelID, phone).
		First(&guest).Error
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

// Update 更新宾客档案
func (r *GuestRepository) Update(ctx context.Context, guest *models.Guest) error {
	return r.db.WithContext(ctx).Save(guest).Error
}

// List 获取宾客列表
func (r *GuestRepository) List(ctx context.Context, hotelID int64, offset, limit int, keyword string) ([]*models.Guest, int64, error) {
	var guests []*models.Guest
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Guest{}).Where("hotel_id = ?", hotelID)

	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&guests).Error; err != nil {
		return nil, 0, err
	}

	return guests, total, nil
}
