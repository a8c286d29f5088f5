// Package models 定义数据库模型
package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Hotel 酒店模型（租户）
type Hotel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Code      string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Timezone  string    `gorm:"type:varchar(50);not null;default:'Asia/Shanghai'" json:"timezone"`
	Address   *string   `gorm:"type:varchar(255)" json:"address,omitempty"`
	Status    int8      `gorm:"type:smallint;not null;default:1" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Rooms []Room `gorm:"foreignKey:HotelID" json:"rooms,omitempty"`
}

// TableName 表名
func (Hotel) TableName() string {
	return "hotels"
}

// HotelStatus 酒店状态
const (
	HotelStatusDisabled = 0 // 禁用
	HotelStatusActive   = 1 // 正常
)

// RoomType 房型模型
type RoomType struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID     int64           `gorm:"index;not null" json:"hotel_id"`
	Name        string          `gorm:"type:varchar(50);not null" json:"name"`
	Code        string          `gorm:"type:varchar(20);not null" json:"code"`
	BaseRate    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_rate"`
	MaxGuests   int             `gorm:"not null;default:2" json:"max_guests"`
	Description *string         `gorm:"type:text" json:"description,omitempty"`
	Images      datatypes.JSON  `gorm:"type:jsonb" json:"images,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Hotel       *Hotel       `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
	RatePeriods []RatePeriod `gorm:"foreignKey:RoomTypeID" json:"rate_periods,omitempty"`
}

// TableName 表名
func (RoomType) TableName() string {
	return "room_types"
}

// RatePeriod 房价时段
// 同一房型的时段按日期范围定价，夜审过账时按营业日期解析房价
type RatePeriod struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomTypeID  int64           `gorm:"index;not null" json:"room_type_id"`
	Name        string          `gorm:"type:varchar(50);not null" json:"name"`
	StartDate   string          `gorm:"type:varchar(10);not null;index" json:"start_date"`
	EndDate     string          `gorm:"type:varchar(10);not null" json:"end_date"`
	NightlyRate decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"nightly_rate"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	RoomType *RoomType `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
}

// TableName 表名
func (RatePeriod) TableName() string {
	return "rate_periods"
}

// Room 客房模型
type Room struct {
	ID                   int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID              int64          `gorm:"not null;uniqueIndex:idx_rooms_hotel_no,priority:1" json:"hotel_id"`
	RoomNumber           string         `gorm:"type:varchar(20);not null;uniqueIndex:idx_rooms_hotel_no,priority:2" json:"room_number"`
	Floor                *int           `json:"floor,omitempty"`
	RoomTypeID           int64          `gorm:"index;not null" json:"room_type_id"`
	Status               string         `gorm:"type:varchar(20);not null;default:'vacant';index" json:"status"`
	CurrentGuestID       *int64         `gorm:"index" json:"current_guest_id,omitempty"`
	CurrentReservationID *int64         `gorm:"index" json:"current_reservation_id,omitempty"`
	Notes                *string        `gorm:"type:varchar(255)" json:"notes,omitempty"`
	Amenities            datatypes.JSON `gorm:"type:jsonb" json:"amenities,omitempty"`
	CreatedAt            time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Hotel        *Hotel       `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
	RoomType     *RoomType    `gorm:"foreignKey:RoomTypeID" json:"room_type,omitempty"`
	CurrentGuest *Guest       `gorm:"foreignKey:CurrentGuestID" json:"current_guest,omitempty"`
	Reservation  *Reservation `gorm:"foreignKey:CurrentReservationID" json:"reservation,omitempty"`
}

// TableName 表名
func (Room) TableName() string {
	return "rooms"
}

// RoomStatus 客房状态
const (
	RoomStatusVacant      = "vacant"       // 空净房
	RoomStatusOccupied    = "occupied"     // 在住
	RoomStatusDirty       = "dirty"        // 脏房（待清扫）
	RoomStatusMaintenance = "maintenance"  // 维修中
	RoomStatusOutOfOrder  = "out_of_order" // 停用
)

// RoomStatuses 所有客房状态
var RoomStatuses = []string{
	RoomStatusVacant,
	RoomStatusOccupied,
	RoomStatusDirty,
	RoomStatusMaintenance,
	RoomStatusOutOfOrder,
}

// Guest 宾客档案
type Guest struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID   int64     `gorm:"index;not null" json:"hotel_id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Phone     *string   `gorm:"type:varchar(20);index" json:"phone,omitempty"`
	Email     *string   `gorm:"type:varchar(100)" json:"email,omitempty"`
	IDNumber  *string   `gorm:"type:varchar(50)" json:"id_number,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (Guest) TableName() string {
	return "guests"
}
