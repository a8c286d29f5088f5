// Package errors 定义业务错误码和错误处理
package errors

import (
	"fmt"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 支持 errors.Is 按错误码比较
func (e *AppError) Is(target error) bool {
	if appErr, ok := target.(*AppError); ok {
		return e.Code == appErr.Code
	}
	return false
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown         = New(1000, "未知错误")
	ErrInvalidParams   = New(1001, "参数错误")
	ErrNotFound        = New(1002, "资源不存在")
	ErrAlreadyExists   = New(1003, "资源已存在")
	ErrDatabaseError   = New(1004, "数据库错误")
	ErrCacheError      = New(1005, "缓存错误")
	ErrInternalError   = New(1006, "内部错误")
	ErrExternalService = New(1007, "外部服务错误")
	ErrRateLimitExceed = New(1008, "请求过于频繁")
	ErrOperationFailed = New(1009, "操作失败")
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized     = New(2000, "未登录或登录已过期")
	ErrInvalidToken     = New(2001, "无效的令牌")
	ErrPasswordError    = New(2002, "用户名或密码错误")
	ErrStaffNotFound    = New(2003, "员工不存在")
	ErrStaffDisabled    = New(2004, "员工账号已禁用")
	ErrUsernameExists   = New(2005, "用户名已存在")
	ErrPermissionDenied = New(2006, "无权限执行该操作")
)

// 酒店错误码 (3000-3999)
var (
	ErrHotelNotFound    = New(3000, "酒店不存在")
	ErrHotelDisabled    = New(3001, "酒店已禁用")
	ErrGuestNotFound    = New(3002, "宾客不存在")
	ErrRoomTypeNotFound = New(3003, "房型不存在")
	ErrHotelCodeExists  = New(3004, "酒店代码已存在")
)

// 客房错误码 (4000-4999)
var (
	ErrRoomNotFound      = New(4000, "客房不存在")
	ErrRoomUnavailable   = New(4001, "客房不可用")
	ErrInvalidTransition = New(4002, "非法的状态流转")
	ErrRoomOccupied      = New(4003, "客房在住中")
	ErrRoomNotOccupied   = New(4004, "客房并非在住状态")
)

// 预订错误码 (5000-5999)
var (
	ErrReservationNotFound    = New(5000, "预订不存在")
	ErrReservationStatusError = New(5001, "预订状态异常")
	ErrAlreadyCheckedIn       = New(5002, "预订已办理入住")
	ErrNotCheckedIn           = New(5003, "预订尚未入住")
	ErrIncompleteAssignment   = New(5004, "房间段未全部分配客房")
	ErrSegmentNotFound        = New(5005, "预订房间段不存在")
)

// 账夹错误码 (6000-6999)
var (
	ErrFolioNotFound        = New(6000, "账夹不存在")
	ErrFolioClosed          = New(6001, "账夹已关闭")
	ErrFolioNotClosed       = New(6002, "账夹尚未关闭")
	ErrPaymentNotFound      = New(6003, "付款记录不存在")
	ErrPaymentAlreadyVoided = New(6004, "付款已作废")
	ErrOutstandingBalance   = New(6005, "账夹存在未结余额")
	ErrInvalidCategory      = New(6006, "无效的明细分类")
)

// 夜审错误码 (7000-7999)
var (
	ErrAuditNotFound          = New(7000, "夜审记录不存在")
	ErrAuditAlreadyRunning    = New(7001, "当前营业日夜审已在进行中")
	ErrAuditAlreadyCompleted  = New(7002, "当前营业日夜审已完成")
	ErrAuditNotRunning        = New(7003, "夜审尚未开始")
	ErrConcurrentModification = New(7004, "记录已被其他操作修改，请重试")
	ErrBusinessDateNotFound   = New(7005, "营业日期未初始化")
	ErrDuplicatePosting       = New(7006, "房费已过账")
	ErrAuditPhaseError        = New(7007, "夜审阶段不允许该操作")
	ErrNothingToPost          = New(7008, "该房间无可过账房费")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrUnknown.WithError(err)
}
