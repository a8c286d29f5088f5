package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation 预订模型
type Reservation struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID        int64           `gorm:"index;not null" json:"hotel_id"`
	ConfirmationNo string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"confirmation_no"`
	GuestID        int64           `gorm:"index;not null" json:"guest_id"`
	Status         string          `gorm:"type:varchar(20);not null;default:'confirmed';index" json:"status"`
	CheckInDate    string          `gorm:"type:varchar(10);not null;index" json:"check_in_date"`
	CheckOutDate   string          `gorm:"type:varchar(10);not null" json:"check_out_date"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	Source         *string         `gorm:"type:varchar(30)" json:"source,omitempty"`
	Remark         *string         `gorm:"type:varchar(255)" json:"remark,omitempty"`
	CheckedInAt    *time.Time      `json:"checked_in_at,omitempty"`
	CheckedOutAt   *time.Time      `json:"checked_out_at,omitempty"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason   *string         `gorm:"type:varchar(255)" json:"cancel_reason,omitempty"`
	NoShowAt       *time.Time      `json:"no_show_at,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Hotel *Hotel            `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
	Guest *Guest            `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	Rooms []ReservationRoom `gorm:"foreignKey:ReservationID" json:"rooms,omitempty"`
}

// TableName 表名
func (Reservation) TableName() string {
	return "reservations"
}

// ReservationStatus 预订状态
const (
	ReservationStatusConfirmed  = "confirmed"   // 已确认
	ReservationStatusCheckedIn  = "checked_in"  // 已入住
	ReservationStatusCheckedOut = "checked_out" // 已退房
	ReservationStatusCancelled  = "cancelled"   // 已取消
	ReservationStatusNoShow     = "no_show"     // 未到店
)

// ReservationRoom 预订房间段
// 房型层面的预订请求，入住前解析到具体客房
type ReservationRoom struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationID int64     `gorm:"index;not null" json:"reservation_id"`
	RoomTypeID    int64     `gorm:"not null" json:"room_type_id"`
	RoomID        *int64    `gorm:"index" json:"room_id,omitempty"`
	StartDate     string    `gorm:"type:varchar(10);not null" json:"start_date"`
	EndDate       string    `gorm:"type:varchar(10);not null" json:"end_date"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Reservation *Reservation `gorm:"foreignKey:ReservationID" json:"reservation,omitempty"`
	RoomType    *RoomType    `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
	Room        *Room        `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// TableName 表名
func (ReservationRoom) TableName() string {
	return "reservation_rooms"
}
