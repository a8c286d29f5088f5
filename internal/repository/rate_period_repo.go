package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/models"
)

// RatePeriodRepository 房价时段仓储
type RatePeriodRepository struct {
	db *gorm.DB
}

// NewRatePeriodRepository 创建房价时段仓储
func NewRatePeriodRepository(db *gorm.DB) *RatePeriodRepository {
	return &RatePeriodRepository{db: db}
}

// Create 创建房价时段
func (r *RatePeriodRepository) Create(ctx context.Context, period *models.RatePeriod) error {
	return r.db.WithContext(ctx).Create(period).Error
}

// ListByRoomType 获取房型的所有房价时段
func (r *RatePeriodRepository) ListByRoomType(ctx context.Context, roomTypeID int64) ([]*models.RatePeriod, error) {
	var periods []*models.RatePeriod
	err := r.db.WithContext(ctx).
		Where("room_type_id = ?", roomTypeID).
		Order("start_date").
		Find(&periods).Error
	return periods, err
}

// FindForDate 查找覆盖指定营业日期的房价时段
// 多个时段重叠时取开始日期最晚的一条
func (r *RatePeriodRepository) FindForDate(ctx context.Context, roomTypeID int64, date string) (*models.RatePeriod, error) {
	var period models.RatePeriod
	err := r.db.WithContext(ctx).
		Where("room_type_id = ? AND start_date <= ? AND end_date >= ?", roomTypeID, date, date).
		Order("start_date DESC").
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

// Delete 删除房价时段
func (r *RatePeriodRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.RatePeriod{}, id).Error
}
