package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Folio 账夹模型
// 一次住宿（或一个协议单位）的流水账户，余额始终由明细和有效付款重算得出
type Folio struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID          int64           `gorm:"index;not null" json:"hotel_id"`
	FolioNo          string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"folio_no"`
	ReservationID    *int64          `gorm:"index" json:"reservation_id,omitempty"`
	CorporateAccount *string         `gorm:"type:varchar(100)" json:"corporate_account,omitempty"`
	Status           string          `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tax_amount"`
	ServiceCharge    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"service_charge"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	PaidAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	Balance          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`
	ClosedAt         *time.Time      `json:"closed_at,omitempty"`
	WriteOffReason   *string         `gorm:"type:varchar(255)" json:"write_off_reason,omitempty"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Reservation *Reservation    `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
	LineItems   []FolioLineItem `gorm:"foreignKey:FolioID" json:"line_items,omitempty"`
	Payments    []FolioPayment  `gorm:"foreignKey:FolioID" json:"payments,omitempty"`
}

// TableName 表名
func (Folio) TableName() string {
	return "folios"
}

// FolioStatus 账夹状态
const (
	FolioStatusOpen   = "open"   // 开立
	FolioStatusClosed = "closed" // 已关闭
)

// FolioLineItem 账夹明细
// (folio_id, business_date, category, room_id) 部分唯一索引只约束房费，
// 即夜审过账的幂等键；其他类别一天可多笔（如多次小酒吧消费）
type FolioLineItem struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	FolioID      int64           `gorm:"not null;uniqueIndex:idx_items_posting_key,priority:1,where:category = 'room'" json:"folio_id"`
	Category     string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_items_posting_key,priority:3" json:"category"`
	Description  string          `gorm:"type:varchar(255);not null" json:"description"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	BusinessDate *string         `gorm:"type:varchar(10);uniqueIndex:idx_items_posting_key,priority:2" json:"business_date,omitempty"`
	RoomID       *int64          `gorm:"uniqueIndex:idx_items_posting_key,priority:4" json:"room_id,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	Folio *Folio `gorm:"foreignKey:FolioID" json:"folio,omitempty"`
	Room  *Room  `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// TableName 表名
func (FolioLineItem) TableName() string {
	return "folio_line_items"
}

// LineItemCategory 明细分类
const (
	LineItemCategoryRoom          = "room"           // 房费
	LineItemCategoryTax           = "tax"            // 税费
	LineItemCategoryServiceCharge = "service_charge" // 服务费
	LineItemCategoryFoodBeverage  = "food_beverage"  // 餐饮
	LineItemCategoryOther         = "other"          // 其他
)

// FolioPayment 账夹付款
// 付款只追加、只作废，永不删除
type FolioPayment struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	FolioID    int64           `gorm:"index;not null" json:"folio_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method     string          `gorm:"type:varchar(20);not null" json:"method"`
	Reference  *string         `gorm:"type:varchar(100)" json:"reference,omitempty"`
	Voided     bool            `gorm:"not null;default:false;index" json:"voided"`
	VoidReason *string         `gorm:"type:varchar(255)" json:"void_reason,omitempty"`
	VoidedAt   *time.Time      `json:"voided_at,omitempty"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	Folio *Folio `gorm:"foreignKey:FolioID" json:"folio,omitempty"`
}

// TableName 表名
func (FolioPayment) TableName() string {
	return "folio_payments"
}

// PaymentMethod 付款方式
const (
	PaymentMethodCash       = "cash"        // 现金
	PaymentMethodCard       = "card"        // 银行卡
	PaymentMethodWechat     = "wechat"      // 微信
	PaymentMethodAlipay     = "alipay"      // 支付宝
	PaymentMethodTransfer   = "transfer"    // 转账
	PaymentMethodCityLedger = "city_ledger" // 挂账
)
