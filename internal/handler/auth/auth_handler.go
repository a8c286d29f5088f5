// Package auth 提供员工认证相关的 HTTP Handler
package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-pms-backend/internal/common/handler"
	"github.com/dumeirei/hotel-pms-backend/internal/common/response"
	"github.com/dumeirei/hotel-pms-backend/internal/middleware"
	authService "github.com/dumeirei/hotel-pms-backend/internal/service/auth"
)

// Handler 认证处理器
type Handler struct {
	staffService *authService.StaffService
}

// NewHandler 创建认证处理器
func NewHandler(staffSvc *authService.StaffService) *Handler {
	return &Handler{
		staffService: staffSvc,
	}
}

// RegisterRoutes 注册公开路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.RefreshToken)
}

// RegisterProtectedRoutes 注册需要认证的路由
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.GET("/auth/profile", h.GetProfile)
	r.PUT("/auth/password", h.ChangePassword)
}

// Login 员工登录
// @Summary 员工登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body authService.LoginRequest true "登录信息"
// @Success 200 {object} response.Response{data=authService.LoginResult}
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req authService.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.staffService.Login(c.Request.Context(), &req)
	handler.MustSucceed(c, err, result)
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken 刷新令牌
// @Summary 刷新令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "刷新令牌"
// @Success 200 {object} response.Response{data=jwt.TokenPair}
// @Router /api/v1/auth/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	token, err := h.staffService.RefreshToken(c.Request.Context(), req.RefreshToken)
	handler.MustSucceed(c, err, token)
}

// GetProfile 获取当前员工信息
// @Summary 获取当前员工信息
// @Tags 认证
// @Produce json
// @Success 200 {object} response.Response{data=models.StaffUser}
// @Router /api/v1/auth/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	staffID := middleware.GetUserID(c)
	staff, err := h.staffService.GetProfile(c.Request.Context(), staffID)
	handler.MustSucceed(c, err, staff)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "新旧密码"
// @Success 200 {object} response.Response
// @Router /api/v1/auth/password [put]
func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	staffID := middleware.GetUserID(c)
	err := h.staffService.ChangePassword(c.Request.Context(), staffID, req.OldPassword, req.NewPassword)
	handler.MustSucceed(c, err, nil)
}
