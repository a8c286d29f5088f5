package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/models"
)

// StaffRepository 员工仓储
type StaffRepository struct {
	db *gorm.DB
}

// NewStaffRepository 创建员工仓储
func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// Create 创建员工账号
func (r *StaffRepository) Create(ctx context.Context, staff *models.StaffUser) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

// GetByID 根据 ID 获取员工
func (r *StaffRepository) GetByID(ctx context.Context, id int64) (*models.StaffUser, error) {
	var staff models.StaffUser
	err := r.db.WithContext(ctx).First(&staff, id).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// GetByUsername 根据酒店和用户名获取员工
func (r *StaffRepository) GetByUsername(ctx context.Context, hotelID int64, username string) (*models.StaffUser, error) {
	var staff models.StaffUser
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND username = ?", hotelID, username).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// UpdateLastLogin 更新最近登录时间
func (r *StaffRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.StaffUser{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

// UpdatePassword 更新密码哈希
func (r *StaffRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&models.StaffUser{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// ListByHotel 查询酒店员工
func (r *StaffRepository) ListByHotel(ctx context.Context, hotelID int64) ([]*models.StaffUser, error) {
	var staff []*models.StaffUser
	err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("id ASC").
		Find(&staff).Error
	return staff, err
}
