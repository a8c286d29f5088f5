package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/models"
)

// FolioRepository 账夹仓储
type FolioRepository struct {
	db *gorm.DB
}

// NewFolioRepository 创建账夹仓储
func NewFolioRepository(db *gorm.DB) *FolioRepository {
	return &FolioRepository{db: db}
}

// WithTx 返回使用指定事务的仓储
func (r *FolioRepository) WithTx(tx *gorm.DB) *FolioRepository {
	return &FolioRepository{db: tx}
}

// Create 创建账夹
func (r *FolioRepository) Create(ctx context.Context, folio *models.Folio) error {
	return r.db.WithContext(ctx).Create(folio).Error
}

// GetByID 根据 ID 获取账夹
func (r *FolioRepository) GetByID(ctx context.Context, id int64) (*models.Folio, error) {
	var folio models.Folio
	err := r.db.WithContext(ctx).First(&folio, id).Error
	if err != nil {
		return nil, err
	}
	return &folio, nil
}

// GetByIDWithDetails 获取账夹及其明细和付款
func (r *FolioRepository) GetByIDWithDetails(ctx context.Context, id int64) (*models.Folio, error) {
	var folio models.Folio
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("Payments").
		First(&folio, id).Error
	if err != nil {
		return nil, err
	}
	return &folio, nil
}

// GetByFolioNo 根据账夹号获取账夹
func (r *FolioRepository) GetByFolioNo(ctx context.Context, folioNo string) (*models.Folio, error) {
	var folio models.Folio
	err := r.db.WithContext(ctx).Where("folio_no = ?", folioNo).First(&folio).Error
	if err != nil {
		return nil, err
	}
	return &folio, nil
}

// GetByReservation 获取预订对应的账夹
func (r *FolioRepository) GetByReservation(ctx context.Context, reservationID int64) (*models.Folio, error) {
	var folio models.Folio
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		First(&folio).Error
	if err != nil {
		return nil, err
	}
	return &folio, nil
}

// List 获取账夹列表
func (r *FolioRepository) List(ctx context.Context, hotelID int64, offset, limit int, filters map[string]interface{}) ([]*models.Folio, int64, error) {
	var folios []*models.Folio
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Folio{}).Where("hotel_id = ?", hotelID)

	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if reservationID, ok := filters["reservation_id"].(int64); ok && reservationID > 0 {
		query = query.Where("reservation_id = ?", reservationID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("id DESC").Offset(offset).Limit(limit).Find(&folios).Error; err != nil {
		return nil, 0, err
	}

	return folios, total, nil
}

// ListOpenWithBalance 获取有未结余额的开立账夹
func (r *FolioRepository) ListOpenWithBalance(ctx context.Context, hotelID int64) ([]*models.Folio, error) {
	var folios []*models.Folio
	err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND status = ? AND balance <> 0", hotelID, models.FolioStatusOpen).
		Order("id").
		Find(&folios).Error
	return folios, err
}

// Update 更新账夹
func (r *FolioRepository) Update(ctx context.Context, folio *models.Folio) error {
	return r.db.WithContext(ctx).Save(folio).Error
}

// CreateLineItem 创建账夹明细
func (r *FolioRepository) CreateLineItem(ctx context.Context, item *models.FolioLineItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// ListLineItems 获取账夹明细
func (r *FolioRepository) ListLineItems(ctx context.Context, folioID int64) ([]*models.FolioLineItem, error) {
	var items []*models.FolioLineItem
	err := r.db.WithContext(ctx).
		Where("folio_id = ?", folioID).
		Order("id").
		Find(&items).Error
	return items, err
}

// ListLineItemsByBusinessDate 获取酒店在指定营业日的全部明细
func (r *FolioRepository) ListLineItemsByBusinessDate(ctx context.Context, hotelID int64, businessDate string) ([]*models.FolioLineItem, error) {
	var items []*models.FolioLineItem
	err := r.db.WithContext(ctx).
		Joins("JOIN folios ON folios.id = folio_line_items.folio_id").
		Where("folios.hotel_id = ? AND folio_line_items.business_date = ?", hotelID, businessDate).
		Find(&items).Error
	return items, err
}

// FindRoomCharge 查找指定过账键的房费明细
// (folio_id, business_date, category=room, room_id) 是夜审过账的幂等键
func (r *FolioRepository) FindRoomCharge(ctx context.Context, folioID int64, businessDate string, roomID int64) (*models.FolioLineItem, error) {
	var item models.FolioLineItem
	err := r.db.WithContext(ctx).
		Where("folio_id = ? AND business_date = ? AND category = ? AND room_id = ?",
			folioID, businessDate, models.LineItemCategoryRoom, roomID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreatePayment 创建付款记录
func (r *FolioRepository) CreatePayment(ctx context.Context, payment *models.FolioPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetPayment 获取付款记录
func (r *FolioRepository) GetPayment(ctx context.Context, paymentID int64) (*models.FolioPayment, error) {
	var payment models.FolioPayment
	err := r.db.WithContext(ctx).First(&payment, paymentID).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListPayments 获取账夹付款记录（含已作废）
func (r *FolioRepository) ListPayments(ctx context.Context, folioID int64) ([]*models.FolioPayment, error) {
	var payments []*models.FolioPayment
	err := r.db.WithContext(ctx).
		Where("folio_id = ?", folioID).
		Order("id").
		Find(&payments).Error
	return payments, err
}

// VoidPayment 条件作废付款：只有未作废的付款才能作废，返回是否命中
func (r *FolioRepository) VoidPayment(ctx context.Context, paymentID int64, updates map[string]interface{}) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.FolioPayment{}).
		Where("id = ? AND voided = ?", paymentID, false).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
