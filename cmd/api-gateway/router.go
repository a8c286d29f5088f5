// Package main 是应用程序入口
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/common/clock"
	"github.com/dumeirei/hotel-pms-backend/internal/common/config"
	"github.com/dumeirei/hotel-pms-backend/internal/common/jwt"
	commonMiddleware "github.com/dumeirei/hotel-pms-backend/internal/common/middleware"
	"github.com/dumeirei/hotel-pms-backend/internal/events"
	auditHandler "github.com/dumeirei/hotel-pms-backend/internal/handler/audit"
	authHandler "github.com/dumeirei/hotel-pms-backend/internal/handler/auth"
	folioHandler "github.com/dumeirei/hotel-pms-backend/internal/handler/folio"
	hotelHandler "github.com/dumeirei/hotel-pms-backend/internal/handler/hotel"
	reservationHandler "github.com/dumeirei/hotel-pms-backend/internal/handler/reservation"
	roomHandler "github.com/dumeirei/hotel-pms-backend/internal/handler/room"
	"github.com/dumeirei/hotel-pms-backend/internal/middleware"
	"github.com/dumeirei/hotel-pms-backend/internal/repository"
	"github.com/dumeirei/hotel-pms-backend/internal/scheduler"
	auditService "github.com/dumeirei/hotel-pms-backend/internal/service/audit"
	authService "github.com/dumeirei/hotel-pms-backend/internal/service/auth"
	folioService "github.com/dumeirei/hotel-pms-backend/internal/service/folio"
	hotelService "github.com/dumeirei/hotel-pms-backend/internal/service/hotel"
	reservationService "github.com/dumeirei/hotel-pms-backend/internal/service/reservation"
	roomService "github.com/dumeirei/hotel-pms-backend/internal/service/room"
)

// setupRouter 设置路由，返回任务处理器供调度器挂载
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
) *scheduler.TaskHandler {
	// 创建 JWT 管理器
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            cfg.JWT.Secret,
		AccessExpireTime:  cfg.JWT.AccessTokenDuration(),
		RefreshExpireTime: cfg.JWT.RefreshTokenDuration(),
		Issuer:            cfg.JWT.Issuer,
	})

	// 初始化仓储
	hotelRepo := repository.NewHotelRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	roomTypeRepo := repository.NewRoomTypeRepository(db)
	ratePeriodRepo := repository.NewRatePeriodRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	folioRepo := repository.NewFolioRepository(db)
	auditRepo := repository.NewNightAuditRepository(db)
	historyRepo := repository.NewAuditHistoryRepository(db)
	businessDateRepo := repository.NewBusinessDateRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	operationLogRepo := repository.NewOperationLogRepository(db)

	// 事件发布与时钟
	publisher := events.NewRedisPublisher()
	clk := clock.System{}

	// 初始化服务
	staffSvc := authService.NewStaffService(db, staffRepo, hotelRepo, jwtManager)
	hotelSvc := hotelService.NewHotelService(hotelRepo, guestRepo, roomTypeRepo, ratePeriodRepo, businessDateRepo)
	roomSvc := roomService.NewRoomService(db, roomRepo, publisher)
	folioSvc := folioService.NewFolioService(db, folioRepo, publisher, clk, &cfg.Business.Folio)
	reservationSvc := reservationService.NewReservationService(
		db, reservationRepo, roomRepo, folioRepo, folioSvc, publisher, clk, &cfg.Business,
	)
	rateResolver := auditService.NewPeriodRateResolver(ratePeriodRepo, roomTypeRepo)
	auditSvc := auditService.NewAuditService(
		db, auditRepo, historyRepo, businessDateRepo, roomRepo, reservationRepo,
		folioRepo, folioSvc, rateResolver, publisher, clk, &cfg.Business.Audit,
	)

	// 初始化处理器
	authH := authHandler.NewHandler(staffSvc)
	hotelH := hotelHandler.NewHandler(hotelSvc)
	roomH := roomHandler.NewHandler(roomSvc)
	reservationH := reservationHandler.NewHandler(reservationSvc)
	folioH := folioHandler.NewHandler(folioSvc)
	auditH := auditHandler.NewHandler(auditSvc)

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.CORS(nil))
	r.Use(middleware.AccessLog(logger))
	if cfg.Tracing.Enabled {
		r.Use(commonMiddleware.Tracing(&commonMiddleware.TracingConfig{
			ServiceName: cfg.Server.Name,
			SkipPaths:   []string{"/health", "/ping", "/ready"},
		}))
	}

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	opLogger := commonMiddleware.NewOperationLogger(operationLogRepo)

	// API v1 路由组
	v1 := r.Group("/api/v1")
	{
		// 公开接口（无需认证，登录按 IP 限流）
		public := v1.Group("")
		if cfg.RateLimit.Enabled && redisClient != nil {
			public.Use(middleware.LoginRateLimit(redisClient))
		}
		authH.RegisterRoutes(public)

		// 员工端接口（需要员工认证）
		staff := v1.Group("")
		staff.Use(middleware.StaffAuth(jwtManager))
		staff.Use(opLogger.Log())
		{
			authH.RegisterProtectedRoutes(staff)

			// 酒店主档
			staff.POST("/hotels", hotelH.CreateHotel)
			staff.GET("/hotels", hotelH.GetHotelList)
			staff.GET("/hotels/:hotel_id", hotelH.GetHotelDetail)

			hotels := staff.Group("/hotels/:hotel_id")
			{
				// 客史
				hotels.POST("/guests", hotelH.CreateGuest)
				hotels.GET("/guests", hotelH.GetGuestList)
				hotels.GET("/guests/:id", hotelH.GetGuestDetail)

				// 房型与房价
				hotels.POST("/room-types", hotelH.CreateRoomType)
				hotels.GET("/room-types", hotelH.GetRoomTypeList)
				hotels.POST("/room-types/:id/rate-periods", hotelH.CreateRatePeriod)
				hotels.GET("/room-types/:id/rate-periods", hotelH.GetRatePeriodList)

				// 房态
				hotels.POST("/rooms", roomH.CreateRoom)
				hotels.GET("/rooms", roomH.GetRoomList)
				hotels.GET("/rooms/stats", roomH.GetRoomStats)
				hotels.GET("/rooms/:id", roomH.GetRoomDetail)
				hotels.POST("/rooms/:id/status", roomH.SetRoomStatus)

				// 预订与入住
				hotels.POST("/reservations", reservationH.CreateReservation)
				hotels.GET("/reservations", reservationH.GetReservationList)
				hotels.GET("/reservations/:id", reservationH.GetReservationDetail)
				hotels.GET("/reservations/:id/qrcode", reservationH.GetReservationQRCode)
				hotels.POST("/reservations/:id/check-in", reservationH.CheckIn)
				hotels.POST("/reservations/:id/check-out", reservationH.CheckOut)
				hotels.POST("/reservations/:id/cancel", reservationH.Cancel)
				hotels.POST("/reservations/:id/no-show", reservationH.MarkNoShow)
				hotels.POST("/reservations/:id/move-room", reservationH.MoveRoom)

				// 账夹
				hotels.GET("/folios", folioH.GetFolioList)
				hotels.GET("/folios/:id", folioH.GetFolioDetail)
				hotels.POST("/folios/:id/items", folioH.AddLineItem)
				hotels.POST("/folios/:id/payments", folioH.RecordPayment)
				hotels.POST("/folios/:id/payments/:payment_id/void", folioH.VoidPayment)
				hotels.POST("/folios/:id/reopen", middleware.RequirePermission(middleware.PermissionFolioReopen), folioH.ReopenFolio)
				hotels.POST("/folios/:id/write-off", middleware.RequirePermission(middleware.PermissionFolioWriteOff), folioH.WriteOff)

				// 营业日与夜审（夜审操作需要 audit:run 权限）
				hotels.GET("/business-date", auditH.GetBusinessDate)
				hotels.POST("/night-audit/start", middleware.RequirePermission(middleware.PermissionAuditRun), auditH.StartAudit)
				hotels.GET("/night-audit/checklist", auditH.GetChecklist)
				hotels.POST("/night-audit/post-room-charges", middleware.RequirePermission(middleware.PermissionAuditRun), auditH.PostRoomCharges)
				hotels.POST("/night-audit/complete", middleware.RequirePermission(middleware.PermissionAuditRun), auditH.CompleteAudit)
				hotels.GET("/night-audit/progress", auditH.GetProgress)
				hotels.GET("/night-audit/current", auditH.GetCurrent)
				hotels.GET("/night-audit/history", auditH.GetHistory)
				hotels.GET("/night-audit/trend", auditH.GetTrend)
			}
		}
	}

	// 404 处理
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    404,
			"message": "接口不存在",
		})
	})

	// 定时任务处理器
	return scheduler.NewTaskHandler(db, hotelRepo, businessDateRepo, reservationSvc, roomSvc)
}
