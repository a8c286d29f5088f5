// Package auth 提供员工认证服务
package auth

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/common/crypto"
	"github.com/dumeirei/hotel-pms-backend/internal/common/errors"
	"github.com/dumeirei/hotel-pms-backend/internal/common/jwt"
	"github.com/dumeirei/hotel-pms-backend/internal/common/logger"
	"github.com/dumeirei/hotel-pms-backend/internal/models"
	"github.com/dumeirei/hotel-pms-backend/internal/repository"
)

// StaffService 员工认证服务
type StaffService struct {
	db         *gorm.DB
	staffRepo  *repository.StaffRepository
	hotelRepo  *repository.HotelRepository
	jwtManager *jwt.Manager
}

// NewStaffService 创建员工认证服务
func NewStaffService(
	db *gorm.DB,
	staffRepo *repository.StaffRepository,
	hotelRepo *repository.HotelRepository,
	jwtManager *jwt.Manager,
) *StaffService {
	return &StaffService{
		db:         db,
		staffRepo:  staffRepo,
		hotelRepo:  hotelRepo,
		jwtManager: jwtManager,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	HotelCode string `json:"hotel_code" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// LoginResult 登录结果
type LoginResult struct {
	Staff *models.StaffUser `json:"staff"`
	Hotel *models.Hotel     `json:"hotel"`
	Token *jwt.TokenPair    `json:"token"`
}

// Login 员工登录
func (s *StaffService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	hotel, err := s.hotelRepo.GetByCode(ctx, req.HotelCode)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPasswordError
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if hotel.Status != models.HotelStatusActive {
		return nil, errors.ErrHotelDisabled
	}

	staff, err := s.staffRepo.GetByUsername(ctx, hotel.ID, req.Username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// 账号不存在与密码错误返回同一错误，避免枚举
			return nil, errors.ErrPasswordError
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if staff.Status != models.StaffStatusActive {
		return nil, errors.ErrStaffDisabled
	}
	if !crypto.VerifyPassword(req.Password, staff.PasswordHash) {
		return nil, errors.ErrPasswordError
	}

	token, err := s.jwtManager.GenerateTokenPair(staff.ID, "staff", staff.Role)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	now := time.Now()
	if err := s.staffRepo.UpdateLastLogin(ctx, staff.ID, now); err != nil {
		logger.Warn("更新登录时间失败", logger.Int64("staff_id", staff.ID), logger.Err(err))
	}
	staff.LastLoginAt = &now

	logger.Info("员工登录",
		logger.HotelID(hotel.ID),
		logger.String("username", staff.Username),
		logger.String("role", staff.Role),
	)
	return &LoginResult{Staff: staff, Hotel: hotel, Token: token}, nil
}

// RefreshToken 刷新令牌
func (s *StaffService) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	token, err := s.jwtManager.RefreshToken(refreshToken)
	if err != nil {
		return nil, errors.ErrInvalidToken
	}
	return token, nil
}

// CreateStaffRequest 创建员工请求
type CreateStaffRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

// CreateStaff 创建员工账号
func (s *StaffService) CreateStaff(ctx context.Context, hotelID int64, req *CreateStaffRequest) (*models.StaffUser, error) {
	if _, err := s.staffRepo.GetByUsername(ctx, hotelID, req.Username); err == nil {
		return nil, errors.ErrUsernameExists
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	staff := &models.StaffUser{
		HotelID:      hotelID,
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
		Status:       models.StaffStatusActive,
	}
	if staff.Role == "" {
		staff.Role = models.StaffRoleFrontDesk
	}
	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return staff, nil
}

// ChangePassword 修改密码
func (s *StaffService) ChangePassword(ctx context.Context, staffID int64, oldPassword, newPassword string) error {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrStaffNotFound
		}
		return errors.ErrDatabaseError.WithError(err)
	}
	if !crypto.VerifyPassword(oldPassword, staff.PasswordHash) {
		return errors.ErrPasswordError
	}
	if len(newPassword) < 6 {
		return errors.ErrInvalidParams.WithMessage("新密码长度不能少于6位")
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return errors.ErrInternalError.WithError(err)
	}
	return s.staffRepo.UpdatePassword(ctx, staffID, hash)
}

// GetProfile 获取员工信息
func (s *StaffService) GetProfile(ctx context.Context, staffID int64) (*models.StaffUser, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrStaffNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return staff, nil
}

// ListStaff 查询酒店员工
func (s *StaffService) ListStaff(ctx context.Context, hotelID int64) ([]*models.StaffUser, error) {
	staff, err := s.staffRepo.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return staff, nil
}
