package models

import "time"

// StaffUser 员工账号
type StaffUser struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID      int64      `gorm:"uniqueIndex:idx_staff_hotel_username;not null" json:"hotel_id"`
	Username     string     `gorm:"type:varchar(50);uniqueIndex:idx_staff_hotel_username;not null" json:"username"`
	Name         string     `gorm:"type:varchar(50);not null" json:"name"`
	PasswordHash string     `gorm:"type:varchar(100);not null" json:"-"`
	Role         string     `gorm:"type:varchar(20);not null;default:'front_desk'" json:"role"`
	Status       int8       `gorm:"type:smallint;not null;default:1" json:"status"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (StaffUser) TableName() string {
	return "staff_users"
}

// StaffRole 员工角色
const (
	StaffRoleManager   = "manager"    // 经理
	StaffRoleFrontDesk = "front_desk" // 前台
	StaffRoleAuditor   = "auditor"    // 夜审员
)

// StaffStatus 员工状态
const (
	StaffStatusDisabled = 0 // 禁用
	StaffStatusActive   = 1 // 正常
)
