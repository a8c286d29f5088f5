// Package middleware 提供 HTTP 中间件
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-pms-backend/internal/common/response"
	"github.com/dumeirei/hotel-pms-backend/internal/models"
)

// PermissionCodes 预定义权限码
const (
	// 夜审
	PermissionAuditRun = "audit:run"

	// 账务
	PermissionFolioWriteOff = "folio:write_off"
	PermissionFolioReopen   = "folio:reopen"

	// 酒店基础数据
	PermissionHotelManage = "hotel:manage"

	// 员工管理
	PermissionStaffManage = "staff:manage"
)

// rolePermissions 角色到权限的静态映射
// 经理拥有全部权限；夜审员只能跑夜审；前台不持有敏感权限
var rolePermissions = map[string]map[string]struct{}{
	models.StaffRoleManager: {
		PermissionAuditRun:      {},
		PermissionFolioWriteOff: {},
		PermissionFolioReopen:   {},
		PermissionHotelManage:   {},
		PermissionStaffManage:   {},
	},
	models.StaffRoleAuditor: {
		PermissionAuditRun: {},
	},
	models.StaffRoleFrontDesk: {},
}

// HasPermission 判断角色是否持有权限
func HasPermission(role, permissionCode string) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = perms[permissionCode]
	return ok
}

// RequirePermission 要求指定权限
func RequirePermission(permissionCode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !HasPermission(role, permissionCode) {
			response.Forbidden(c, "权限不足")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRoles 要求指定角色
func RequireRoles(roles ...string) gin.HandlerFunc {
	roleSet := make(map[string]struct{})
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if _, ok := roleSet[role]; !ok {
			response.Forbidden(c, "权限不足")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireManager 要求经理角色
func RequireManager() gin.HandlerFunc {
	return RequireRoles(models.StaffRoleManager)
}
