// Package folio 提供客账服务
package folio

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/common/clock"
	"github.com/dumeirei/hotel-pms-backend/internal/common/config"
	"github.com/dumeirei/hotel-pms-backend/internal/common/errors"
	"github.com/dumeirei/hotel-pms-backend/internal/common/logger"
	"github.com/dumeirei/hotel-pms-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-pms-backend/internal/common/utils"
	"github.com/dumeirei/hotel-pms-backend/internal/events"
	"github.com/dumeirei/hotel-pms-backend/internal/models"
	"github.com/dumeirei/hotel-pms-backend/internal/repository"
)

// FolioService 客账服务
type FolioService struct {
	db        *gorm.DB
	folioRepo *repository.FolioRepository
	publisher events.Publisher
	clock     clock.Clock
	cfg       *config.FolioConfig
}

// NewFolioService 创建客账服务
func NewFolioService(db *gorm.DB, folioRepo *repository.FolioRepository, publisher events.Publisher, clk clock.Clock, cfg *config.FolioConfig) *FolioService {
	return &FolioService{
		db:        db,
		folioRepo: folioRepo,
		publisher: publisher,
		clock:     clk,
		cfg:       cfg,
	}
}

// validCategories 合法入账类别
var validCategories = []string{
	models.LineItemCategoryRoom,
	models.LineItemCategoryTax,
	models.LineItemCategoryServiceCharge,
	models.LineItemCategoryFoodBeverage,
	models.LineItemCategoryOther,
}

// Get 获取账单及明细
func (s *FolioService) Get(ctx context.Context, hotelID, folioID int64) (*models.Folio, error) {
	folio, err := s.folioRepo.GetByIDWithDetails(ctx, folioID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrFolioNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if folio.HotelID != hotelID {
		return nil, errors.ErrFolioNotFound
	}
	return folio, nil
}

// List 查询账单列表
func (s *FolioService) List(ctx context.Context, hotelID int64, pagination *utils.Pagination, filters map[string]interface{}) ([]*models.Folio, int64, error) {
	folios, total, err := s.folioRepo.List(ctx, hotelID, pagination.GetOffset(), pagination.GetLimit(), filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return folios, total, nil
}

// AddLineItemRequest 入账请求
type AddLineItemRequest struct {
	Category     string          `json:"category" binding:"required"`
	Description  string          `json:"description" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	BusinessDate *string         `json:"business_date"`
	RoomID       *int64          `json:"room_id"`
}

// AddLineItem 追加账项并在同一事务内重算余额
func (s *FolioService) AddLineItem(ctx context.Context, hotelID, folioID int64, req *AddLineItemRequest) (*models.Folio, error) {
	if !utils.Contains(validCategories, req.Category) {
		return nil, errors.ErrInvalidCategory
	}
	if req.BusinessDate != nil && !utils.IsValidDate(*req.BusinessDate) {
		return nil, errors.ErrInvalidParams.WithMessage("营业日格式错误")
	}

	var folio *models.Folio
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.folioRepo.WithTx(tx)

		var err error
		folio, err = txRepo.GetByID(ctx, folioID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrFolioNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}
		if folio.HotelID != hotelID {
			return errors.ErrFolioNotFound
		}
		if folio.Status != models.FolioStatusOpen {
			return errors.ErrFolioClosed
		}

		item := &models.FolioLineItem{
			FolioID:      folioID,
			Category:     req.Category,
			Description:  req.Description,
			Amount:       req.Amount,
			BusinessDate: req.BusinessDate,
			RoomID:       req.RoomID,
		}
		if err := txRepo.CreateLineItem(ctx, item); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		return s.recomputeTotals(ctx, txRepo, folio)
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	s.publishFolioUpdated(ctx, folio)
	return folio, nil
}

// DeriveCharges 按业务配置费率派生税费与服务费
func (s *FolioService) DeriveCharges(amount decimal.Decimal) (tax, serviceCharge decimal.Decimal) {
	tax = amount.Mul(decimal.NewFromFloat(s.cfg.TaxRate)).Round(2)
	serviceCharge = amount.Mul(decimal.NewFromFloat(s.cfg.ServiceChargeRate)).Round(2)
	return tax, serviceCharge
}

// RecordPaymentRequest 付款请求
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required"`
	Reference *string         `json:"reference"`
}

// PaymentResult 付款结果
type PaymentResult struct {
	Payment  *models.FolioPayment `json:"payment"`
	Folio    *models.Folio        `json:"folio"`
	Warnings []string             `json:"warnings,omitempty"`
}

// RecordPayment 登记付款，允许超额（押金场景）
func (s *FolioService) RecordPayment(ctx context.Context, hotelID, folioID int64, req *RecordPaymentRequest) (*PaymentResult, error) {
	if req.Amount.Sign() <= 0 {
		return nil, errors.ErrInvalidParams.WithMessage("付款金额必须大于零")
	}

	var folio *models.Folio
	var payment *models.FolioPayment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.folioRepo.WithTx(tx)

		var err error
		folio, err = txRepo.GetByID(ctx, folioID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrFolioNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}
		if folio.HotelID != hotelID {
			return errors.ErrFolioNotFound
		}
		if folio.Status != models.FolioStatusOpen {
			return errors.ErrFolioClosed
		}

		payment = &models.FolioPayment{
			FolioID:   folioID,
			Amount:    req.Amount,
			Method:    req.Method,
			Reference: req.Reference,
		}
		if err := txRepo.CreatePayment(ctx, payment); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		return s.recomputeTotals(ctx, txRepo, folio)
	})
	if err != nil {
		metrics.GetMetrics().RecordPayment(req.Method, "failed")
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	metrics.GetMetrics().RecordPayment(req.Method, "success")
	result := &PaymentResult{Payment: payment, Folio: folio}
	if folio.Balance.Sign() < 0 {
		result.Warnings = append(result.Warnings, "账单已超额支付，余额为负")
	}

	_ = s.publisher.Publish(ctx, events.ChannelFolio, events.NewEvent(events.TypePaymentRecorded, folio.HotelID, &events.PaymentPayload{
		FolioID:   folio.ID,
		PaymentID: payment.ID,
		Amount:    payment.Amount,
		Method:    payment.Method,
	}))
	return result, nil
}

// VoidPayment 冲销付款，保留原始记录
func (s *FolioService) VoidPayment(ctx context.Context, hotelID, paymentID int64, reason string) (*models.Folio, error) {
	var folio *models.Folio
	var payment *models.FolioPayment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.folioRepo.WithTx(tx)

		var err error
		payment, err = txRepo.GetPayment(ctx, paymentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrPaymentNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}

		folio, err = txRepo.GetByID(ctx, payment.FolioID)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if folio.HotelID != hotelID {
			return errors.ErrPaymentNotFound
		}

		now := s.clock.Now()
		ok, err := txRepo.VoidPayment(ctx, paymentID, map[string]interface{}{
			"voided":      true,
			"void_reason": reason,
			"voided_at":   now,
		})
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if !ok {
			return errors.ErrPaymentAlreadyVoided
		}

		// 冲销只恢复余额，已关账单保持关闭
		return s.recomputeTotals(ctx, txRepo, folio)
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("付款已冲销",
		logger.HotelID(hotelID),
		logger.Int64("payment_id", paymentID),
		logger.FolioNo(folio.FolioNo),
		logger.String("reason", reason),
	)
	_ = s.publisher.Publish(ctx, events.ChannelFolio, events.NewEvent(events.TypePaymentVoided, folio.HotelID, &events.PaymentPayload{
		FolioID:   folio.ID,
		PaymentID: paymentID,
		Amount:    payment.Amount,
		Method:    payment.Method,
	}))
	return folio, nil
}

// ReopenFolio 重开已关账单
func (s *FolioService) ReopenFolio(ctx context.Context, hotelID, folioID int64) (*models.Folio, error) {
	var folio *models.Folio
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.folioRepo.WithTx(tx)

		var err error
		folio, err = txRepo.GetByID(ctx, folioID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrFolioNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}
		if folio.HotelID != hotelID {
			return errors.ErrFolioNotFound
		}
		if folio.Status == models.FolioStatusOpen {
			return errors.ErrFolioNotClosed
		}

		folio.Status = models.FolioStatusOpen
		folio.ClosedAt = nil
		if err := txRepo.Update(ctx, folio); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	s.publishFolioUpdated(ctx, folio)
	return folio, nil
}

// WriteOff 核销未结余额并关账
func (s *FolioService) WriteOff(ctx context.Context, hotelID, folioID int64, reason string) (*models.Folio, error) {
	if reason == "" {
		return nil, errors.ErrInvalidParams.WithMessage("核销原因不能为空")
	}

	var folio *models.Folio
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.folioRepo.WithTx(tx)

		var err error
		folio, err = txRepo.GetByID(ctx, folioID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrFolioNotFound
			}
			return errors.ErrDatabaseError.WithError(err)
		}
		if folio.HotelID != hotelID {
			return errors.ErrFolioNotFound
		}
		if folio.Status != models.FolioStatusOpen {
			return errors.ErrFolioClosed
		}

		now := s.clock.Now()
		folio.Status = models.FolioStatusClosed
		folio.ClosedAt = &now
		folio.WriteOffReason = &reason
		if err := txRepo.Update(ctx, folio); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("账单已核销",
		logger.HotelID(hotelID),
		logger.FolioNo(folio.FolioNo),
		logger.String("reason", reason),
		logger.String("balance", folio.Balance.String()),
	)
	s.publishFolioUpdated(ctx, folio)
	return folio, nil
}

// CloseIfSettled 余额为零时关账，退房路径调用
func (s *FolioService) CloseIfSettled(ctx context.Context, tx *gorm.DB, folio *models.Folio) (bool, error) {
	if !folio.Balance.IsZero() {
		return false, nil
	}
	now := s.clock.Now()
	folio.Status = models.FolioStatusClosed
	folio.ClosedAt = &now
	if err := s.folioRepo.WithTx(tx).Update(ctx, folio); err != nil {
		return false, errors.ErrDatabaseError.WithError(err)
	}
	return true, nil
}

// RecomputeTotals 在给定事务内重算账单金额
func (s *FolioService) RecomputeTotals(ctx context.Context, tx *gorm.DB, folio *models.Folio) error {
	return s.recomputeTotals(ctx, s.folioRepo.WithTx(tx), folio)
}

// recomputeTotals 由明细和付款重算账单金额
// 余额 = 总额 - 未冲销付款合计，金额在 Go 内累加避免精度问题
func (s *FolioService) recomputeTotals(ctx context.Context, txRepo *repository.FolioRepository, folio *models.Folio) error {
	items, err := txRepo.ListLineItems(ctx, folio.ID)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	payments, err := txRepo.ListPayments(ctx, folio.ID)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	subtotal := decimal.Zero
	tax := decimal.Zero
	serviceCharge := decimal.Zero
	for _, item := range items {
		switch item.Category {
		case models.LineItemCategoryTax:
			tax = tax.Add(item.Amount)
		case models.LineItemCategoryServiceCharge:
			serviceCharge = serviceCharge.Add(item.Amount)
		default:
			subtotal = subtotal.Add(item.Amount)
		}
	}

	paid := decimal.Zero
	for _, payment := range payments {
		if !payment.Voided {
			paid = paid.Add(payment.Amount)
		}
	}

	folio.Subtotal = subtotal
	folio.TaxAmount = tax
	folio.ServiceCharge = serviceCharge
	folio.TotalAmount = subtotal.Add(tax).Add(serviceCharge)
	folio.PaidAmount = paid
	folio.Balance = folio.TotalAmount.Sub(paid)

	if err := txRepo.Update(ctx, folio); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// publishFolioUpdated 发布账单变更事件
func (s *FolioService) publishFolioUpdated(ctx context.Context, folio *models.Folio) {
	_ = s.publisher.Publish(ctx, events.ChannelFolio, events.NewEvent(events.TypeFolioUpdated, folio.HotelID, &events.FolioUpdatedPayload{
		FolioID: folio.ID,
		FolioNo: folio.FolioNo,
		Balance: folio.Balance,
	}))
}
