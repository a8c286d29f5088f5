// Package middleware 提供 HTTP 中间件
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-pms-backend/internal/models"
	"github.com/dumeirei/hotel-pms-backend/internal/repository"
)

// OperationLogger 操作日志中间件
type OperationLogger struct {
	repo *repository.OperationLogRepository
}

// NewOperationLogger 创建操作日志中间件
func NewOperationLogger(repo *repository.OperationLogRepository) *OperationLogger {
	return &OperationLogger{repo: repo}
}

// OperationConfig 操作配置
type OperationConfig struct {
	Module     string
	Action     string
	TargetType string
}

// moduleActionMap 路由到操作的映射
var moduleActionMap = map[string]OperationConfig{
	"POST /api/v1/hotels/:hotel_id/rooms/:id/status": {
		Module:     "room",
		Action:     "set_status",
		TargetType: "room",
	},
	"POST /api/v1/hotels/:hotel_id/reservations": {
		Module:     "reservation",
		Action:     "create",
		TargetType: "reservation",
	},
	"POST /api/v1/hotels/:hotel_id/reservations/:id/check-in": {
		Module:     "reservation",
		Action:     "check_in",
		TargetType: "reservation",
	},
	"POST /api/v1/hotels/:hotel_id/reservations/:id/check-out": {
		Module:     "reservation",
		Action:     "check_out",
		TargetType: "reservation",
	},
	"POST /api/v1/hotels/:hotel_id/reservations/:id/cancel": {
		Module:     "reservation",
		Action:     "cancel",
		TargetType: "reservation",
	},
	"POST /api/v1/hotels/:hotel_id/reservations/:id/no-show": {
		Module:     "reservation",
		Action:     "mark_no_show",
		TargetType: "reservation",
	},
	"POST /api/v1/hotels/:hotel_id/reservations/:id/move-room": {
		Module:     "reservation",
		Action:     "move_room",
		TargetType: "reservation",
	},
	"POST /api/v1/hotels/:hotel_id/folios/:id/items": {
		Module:     "folio",
		Action:     "add_line_item",
		TargetType: "folio",
	},
	"POST /api/v1/hotels/:hotel_id/folios/:id/payments": {
		Module:     "folio",
		Action:     "record_payment",
		TargetType: "folio",
	},
	"POST /api/v1/hotels/:hotel_id/folios/:id/payments/:payment_id/void": {
		Module:     "folio",
		Action:     "void_payment",
		TargetType: "folio",
	},
	"POST /api/v1/hotels/:hotel_id/folios/:id/reopen": {
		Module:     "folio",
		Action:     "reopen",
		TargetType: "folio",
	},
	"POST /api/v1/hotels/:hotel_id/folios/:id/write-off": {
		Module:     "folio",
		Action:     "write_off",
		TargetType: "folio",
	},
	"POST /api/v1/hotels/:hotel_id/night-audit/start": {
		Module: "night_audit",
		Action: "start",
	},
	"POST /api/v1/hotels/:hotel_id/night-audit/post-room-charges": {
		Module: "night_audit",
		Action: "post_room_charges",
	},
	"POST /api/v1/hotels/:hotel_id/night-audit/complete": {
		Module: "night_audit",
		Action: "complete",
	},
}

// Log 操作日志中间件处理函数
func (l *OperationLogger) Log() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 只记录写操作
		if !l.shouldLog(c) {
			c.Next()
			return
		}

		// 读取请求体
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		// 执行处理
		c.Next()

		// 记录日志（异步）
		go l.logOperation(c.Copy(), requestBody)
	}
}

// shouldLog 判断是否需要记录日志
func (l *OperationLogger) shouldLog(c *gin.Context) bool {
	method := c.Request.Method
	// 只记录写操作
	return method == "POST" || method == "PUT" || method == "DELETE" || method == "PATCH"
}

// logOperation 记录操作日志
func (l *OperationLogger) logOperation(c *gin.Context, requestBody []byte) {
	if l.repo == nil {
		return
	}

	// 租户范围外的写操作不落操作日志
	hotelID, ok := l.getHotelID(c)
	if !ok {
		return
	}

	// 获取路由配置
	path := c.FullPath()
	routeKey := c.Request.Method + " " + path
	config, found := moduleActionMap[routeKey]
	if !found {
		config = l.getDefaultConfig(c)
	}

	log := &models.OperationLog{
		HotelID: hotelID,
		Module:  config.Module,
		Action:  config.Action,
	}

	if ip := c.ClientIP(); ip != "" {
		log.IP = &ip
	}
	if requestID := c.GetString("request_id"); requestID != "" {
		log.RequestID = &requestID
	}

	// 设置目标类型和 ID
	if config.TargetType != "" {
		log.TargetType = &config.TargetType
		log.TargetID = l.getTargetID(c)
	}

	// 设置请求数据
	if len(requestBody) > 0 {
		var data interface{}
		if err := json.Unmarshal(requestBody, &data); err == nil {
			filtered := l.filterSensitiveData(data)
			if encoded, err := json.Marshal(filtered); err == nil {
				detail := string(encoded)
				log.Detail = &detail
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = l.repo.Create(ctx, log)
}

// getHotelID 从路径参数获取酒店 ID
func (l *OperationLogger) getHotelID(c *gin.Context) (int64, bool) {
	idStr := c.Param("hotel_id")
	if idStr == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// getDefaultConfig 获取默认配置
func (l *OperationLogger) getDefaultConfig(c *gin.Context) OperationConfig {
	path := c.FullPath()
	method := c.Request.Method

	// 从路径推断模块
	module := "unknown"
	if strings.Contains(path, "/rooms") {
		module = "room"
	} else if strings.Contains(path, "/reservations") {
		module = "reservation"
	} else if strings.Contains(path, "/folios") {
		module = "folio"
	} else if strings.Contains(path, "/night-audit") {
		module = "night_audit"
	} else if strings.Contains(path, "/guests") {
		module = "guest"
	} else if strings.Contains(path, "/room-types") {
		module = "room_type"
	}

	// 从方法推断操作
	action := "unknown"
	switch method {
	case "POST":
		action = "create"
	case "PUT", "PATCH":
		action = "update"
	case "DELETE":
		action = "delete"
	}

	return OperationConfig{
		Module: module,
		Action: action,
	}
}

// getTargetID 从路径参数获取目标 ID
func (l *OperationLogger) getTargetID(c *gin.Context) *int64 {
	idStr := c.Param("id")
	if idStr == "" {
		return nil
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// filterSensitiveData 过滤敏感数据
func (l *OperationLogger) filterSensitiveData(data interface{}) interface{} {
	sensitiveFields := []string{
		"password", "token", "secret", "api_key",
		"card_number", "id_card", "id_number",
	}

	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{})
		for key, value := range v {
			lowerKey := strings.ToLower(key)
			isSensitive := false
			for _, sf := range sensitiveFields {
				if strings.Contains(lowerKey, sf) {
					isSensitive = true
					break
				}
			}
			if isSensitive {
				result[key] = "***"
			} else {
				result[key] = l.filterSensitiveData(value)
			}
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = l.filterSensitiveData(item)
		}
		return result
	default:
		return data
	}
}
