package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/models"
)

// NightAuditRepository 夜审仓储
type NightAuditRepository struct {
	db *gorm.DB
}

// NewNightAuditRepository 创建夜审仓储
func NewNightAuditRepository(db *gorm.DB) *NightAuditRepository {
	return &NightAuditRepository{db: db}
}

// WithTx 返回使用指定事务的仓储
func (r *NightAuditRepository) WithTx(tx *gorm.DB) *NightAuditRepository {
	return &NightAuditRepository{db: tx}
}

// Create 创建夜审记录
// (hotel_id, business_date) 唯一索引保证一个营业日至多一条
func (r *NightAuditRepository) Create(ctx context.Context, audit *models.NightAudit) error {
	return r.db.WithContext(ctx).Create(audit).Error
}

// GetByID 根据 ID 获取夜审记录
func (r *NightAuditRepository) GetByID(ctx context.Context, id int64) (*models.NightAudit, error) {
	var audit models.NightAudit
	err := r.db.WithContext(ctx).First(&audit, id).Error
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

// GetByHotelAndDate 获取酒店指定营业日的夜审记录
func (r *NightAuditRepository) GetByHotelAndDate(ctx context.Context, hotelID int64, businessDate string) (*models.NightAudit, error) {
	var audit models.NightAudit
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND business_date = ?", hotelID, businessDate).
		First(&audit).Error
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

// GetRunning 获取酒店当前进行中的夜审
func (r *NightAuditRepository) GetRunning(ctx context.Context, hotelID int64) (*models.NightAudit, error) {
	var audit models.NightAudit
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND status = ?", hotelID, models.NightAuditStatusInProgress).
		First(&audit).Error
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

// UpdateVersioned 带版本号的 CAS 更新，返回是否命中
// 并发修改同一条夜审记录时只有一个更新能成功
func (r *NightAuditRepository) UpdateVersioned(ctx context.Context, id, version int64, updates map[string]interface{}) (bool, error) {
	updates["version"] = version + 1
	result := r.db.WithContext(ctx).Model(&models.NightAudit{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdatePhase 更新夜审阶段
func (r *NightAuditRepository) UpdatePhase(ctx context.Context, id int64, phase string) error {
	return r.db.WithContext(ctx).Model(&models.NightAudit{}).
		Where("id = ?", id).
		Update("phase", phase).Error
}

// UpdateProgress 更新过账进度
func (r *NightAuditRepository) UpdateProgress(ctx context.Context, id int64, postedRooms, skippedRooms int) error {
	return r.db.WithContext(ctx).Model(&models.NightAudit{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"posted_rooms":  postedRooms,
			"skipped_rooms": skippedRooms,
		}).Error
}

// List 获取夜审记录列表
func (r *NightAuditRepository) List(ctx context.Context, hotelID int64, offset, limit int) ([]*models.NightAudit, int64, error) {
	var audits []*models.NightAudit
	var total int64

	query := r.db.WithContext(ctx).Model(&models.NightAudit{}).Where("hotel_id = ?", hotelID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("business_date DESC").Offset(offset).Limit(limit).Find(&audits).Error; err != nil {
		return nil, 0, err
	}

	return audits, total, nil
}

// CountCompletedSince 统计某时间之后完成的夜审数
func (r *NightAuditRepository) CountCompletedSince(ctx context.Context, hotelID int64, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.NightAudit{}).
		Where("hotel_id = ? AND status = ? AND completed_at >= ?", hotelID, models.NightAuditStatusCompleted, since).
		Count(&count).Error
	return count, err
}
