package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NightAudit 夜审模型
// 每个酒店每个营业日期至多一条记录；IdempotencyToken 在过账开始前写入，
// 过账中断后凭它安全重试
type NightAudit struct {
	ID               int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID          int64      `gorm:"not null;uniqueIndex:idx_audits_hotel_date,priority:1" json:"hotel_id"`
	BusinessDate     string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_audits_hotel_date,priority:2" json:"business_date"`
	Status           string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Phase            string     `gorm:"type:varchar(20);not null;default:'idle'" json:"phase"`
	IdempotencyToken *string    `gorm:"type:varchar(64)" json:"idempotency_token,omitempty"`
	PostedRooms      int        `gorm:"not null;default:0" json:"posted_rooms"`
	SkippedRooms     int        `gorm:"not null;default:0" json:"skipped_rooms"`
	TotalRooms       int        `gorm:"not null;default:0" json:"total_rooms"`
	Version          int64      `gorm:"not null;default:1" json:"version"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	Notes            *string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Hotel *Hotel `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
}

// TableName 表名
func (NightAudit) TableName() string {
	return "night_audits"
}

// NightAuditStatus 夜审状态
const (
	NightAuditStatusPending    = "pending"     // 待开始
	NightAuditStatusInProgress = "in_progress" // 进行中
	NightAuditStatusCompleted  = "completed"   // 已完成
)

// NightAuditPhase 夜审阶段
const (
	AuditPhaseIdle       = "idle"       // 未开始
	AuditPhaseReviewing  = "reviewing"  // 审核对账
	AuditPhaseConfirming = "confirming" // 确认待过账
	AuditPhasePosting    = "posting"    // 过账中
	AuditPhaseSettling   = "settling"   // 结算中
	AuditPhaseCompleting = "completing" // 收尾中
	AuditPhaseComplete   = "complete"   // 已完成
)

// NightAuditHistory 夜审历史（只追加）
// 已关闭营业日的不可变汇总记录，供趋势报表读取
type NightAuditHistory struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID       int64           `gorm:"index;not null" json:"hotel_id"`
	NightAuditID  int64           `gorm:"uniqueIndex;not null" json:"night_audit_id"`
	BusinessDate  string          `gorm:"type:varchar(10);not null;index" json:"business_date"`
	OccupiedRooms int             `gorm:"not null" json:"occupied_rooms"`
	TotalRooms    int             `gorm:"not null" json:"total_rooms"`
	RoomRevenue   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"room_revenue"`
	TotalRevenue  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_revenue"`
	OccupancyRate float64         `gorm:"type:decimal(5,2);not null" json:"occupancy_rate"`
	ADR           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"adr"`
	RevPAR        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"revpar"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 表名
func (NightAuditHistory) TableName() string {
	return "night_audit_histories"
}

// BusinessDate 营业日期（每酒店单行）
// 只在夜审完成时通过版本号 CAS 前进一天
type BusinessDate struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID     int64     `gorm:"uniqueIndex;not null" json:"hotel_id"`
	CurrentDate string    `gorm:"column:biz_date;type:varchar(10);not null" json:"current_date"`
	Version     int64     `gorm:"not null;default:1" json:"version"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (BusinessDate) TableName() string {
	return "business_dates"
}

// OperationLog 操作日志
// 前台关键操作（入住、退房、夜审等）的审计记录
type OperationLog struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID    int64     `gorm:"index;not null" json:"hotel_id"`
	Module     string    `gorm:"type:varchar(30);not null" json:"module"`
	Action     string    `gorm:"type:varchar(30);not null" json:"action"`
	TargetType *string   `gorm:"type:varchar(30)" json:"target_type,omitempty"`
	TargetID   *int64    `json:"target_id,omitempty"`
	Detail     *string   `gorm:"type:text" json:"detail,omitempty"`
	RequestID  *string   `gorm:"type:varchar(64)" json:"request_id,omitempty"`
	IP         *string   `gorm:"type:varchar(50)" json:"ip,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 表名
func (OperationLog) TableName() string {
	return "operation_logs"
}
