package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/models"
)

// BusinessDateRepository 营业日期仓储
type BusinessDateRepository struct {
	db *gorm.DB
}

// NewBusinessDateRepository 创建营业日期仓储
func NewBusinessDateRepository(db *gorm.DB) *BusinessDateRepository {
	return &BusinessDateRepository{db: db}
}

// WithTx 返回使用指定事务的仓储
func (r *BusinessDateRepository) WithTx(tx *gorm.DB) *BusinessDateRepository {
	return &BusinessDateRepository{db: tx}
}

// Init 初始化酒店营业日期（已存在则忽略）
func (r *BusinessDateRepository) Init(ctx context.Context, hotelID int64, date string) error {
	record := &models.BusinessDate{
		HotelID:     hotelID,
		CurrentDate: date,
	}
	return r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		FirstOrCreate(record).Error
}

// Get 获取酒店当前营业日期
func (r *BusinessDateRepository) Get(ctx context.Context, hotelID int64) (*models.BusinessDate, error) {
	var record models.BusinessDate
	err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Advance 带版本号的 CAS 前进营业日期，返回是否命中
// 只有夜审完成流程会调用；并发完成只有一个能成功
func (r *BusinessDateRepository) Advance(ctx context.Context, hotelID int64, fromDate, toDate string, version int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.BusinessDate{}).
		Where("hotel_id = ? AND biz_date = ? AND version = ?", hotelID, fromDate, version).
		Updates(map[string]interface{}{
			"biz_date": toDate,
			"version":  version + 1,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
