package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/models"
)

// AuditHistoryRepository 夜审历史仓储
// 历史记录只追加，不提供更新和删除
type AuditHistoryRepository struct {
	db *gorm.DB
}

// NewAuditHistoryRepository 创建夜审历史仓储
func NewAuditHistoryRepository(db *gorm.DB) *AuditHistoryRepository {
	return &AuditHistoryRepository{db: db}
}

// WithTx 返回使用指定事务的仓储
func (r *AuditHistoryRepository) WithTx(tx *gorm.DB) *AuditHistoryRepository {
	return &AuditHistoryRepository{db: tx}
}

// Record 追加夜审历史
// night_audit_id 唯一索引保证一次夜审至多一条历史
func (r *AuditHistoryRepository) Record(ctx context.Context, history *models.NightAuditHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

// GetByBusinessDate 获取指定营业日的历史记录
func (r *AuditHistoryRepository) GetByBusinessDate(ctx context.Context, hotelID int64, businessDate string) (*models.NightAuditHistory, error) {
	var history models.NightAuditHistory
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND business_date = ?", hotelID, businessDate).
		First(&history).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

// ListRecent 获取最近 N 天的历史记录（营业日期降序）
func (r *AuditHistoryRepository) ListRecent(ctx context.Context, hotelID int64, limit int) ([]*models.NightAuditHistory, error) {
	var histories []*models.NightAuditHistory
	err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("business_date DESC").
		Limit(limit).
		Find(&histories).Error
	return histories, err
}

// ListRange 获取指定营业日期区间的历史记录（营业日期升序）
func (r *AuditHistoryRepository) ListRange(ctx context.Context, hotelID int64, startDate, endDate string) ([]*models.NightAuditHistory, error) {
	var histories []*models.NightAuditHistory
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND business_date >= ? AND business_date <= ?", hotelID, startDate, endDate).
		Order("business_date").
		Find(&histories).Error
	return histories, err
}
