// Package audit 提供夜审编排服务
package audit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dumeirei/hotel-pms-backend/internal/common/cache"
	"github.com/dumeirei/hotel-pms-backend/internal/common/clock"
	"github.com/dumeirei/hotel-pms-backend/internal/common/config"
	"github.com/dumeirei/hotel-pms-backend/internal/common/errors"
	"github.com/dumeirei/hotel-pms-backend/internal/common/logger"
	"github.com/dumeirei/hotel-pms-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-pms-backend/internal/common/utils"
	"github.com/dumeirei/hotel-pms-backend/internal/events"
	"github.com/dumeirei/hotel-pms-backend/internal/models"
	"github.com/dumeirei/hotel-pms-backend/internal/repository"
	"github.com/dumeirei/hotel-pms-backend/internal/service/folio"
)

// RateResolver 房价解析接口
type RateResolver interface {
	Resolve(ctx context.Context, roomTypeID int64, date string) (decimal.Decimal, error)
}

// PeriodRateResolver 先查价格时段，无命中回退房型基础价
type PeriodRateResolver struct {
	ratePeriodRepo *repository.RatePeriodRepository
	roomTypeRepo   *repository.RoomTypeRepository
}

// NewPeriodRateResolver 创建房价解析器
func NewPeriodRateResolver(ratePeriodRepo *repository.RatePeriodRepository, roomTypeRepo *repository.RoomTypeRepository) *PeriodRateResolver {
	return &PeriodRateResolver{
		ratePeriodRepo: ratePeriodRepo,
		roomTypeRepo:   roomTypeRepo,
	}
}

// Resolve 解析指定日期的房价
func (r *PeriodRateResolver) Resolve(ctx context.Context, roomTypeID int64, date string) (decimal.Decimal, error) {
	period, err := r.ratePeriodRepo.FindForDate(ctx, roomTypeID, date)
	if err == nil {
		return period.NightlyRate, nil
	}
	if err != gorm.ErrRecordNotFound {
		return decimal.Zero, errors.ErrDatabaseError.WithError(err)
	}

	roomType, err := r.roomTypeRepo.GetByID(ctx, roomTypeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return decimal.Zero, errors.ErrRoomTypeNotFound
		}
		return decimal.Zero, errors.ErrDatabaseError.WithError(err)
	}
	return roomType.BaseRate, nil
}

// AuditService 夜审服务
type AuditService struct {
	db               *gorm.DB
	auditRepo        *repository.NightAuditRepository
	historyRepo      *repository.AuditHistoryRepository
	businessDateRepo *repository.BusinessDateRepository
	roomRepo         *repository.RoomRepository
	reservationRepo  *repository.ReservationRepository
	folioRepo        *repository.FolioRepository
	folioService     *folio.FolioService
	rateResolver     RateResolver
	publisher        events.Publisher
	clock            clock.Clock
	cfg              *config.AuditConfig
}

// NewAuditService 创建夜审服务
func NewAuditService(
	db *gorm.DB,
	auditRepo *repository.NightAuditRepository,
	historyRepo *repository.AuditHistoryRepository,
	businessDateRepo *repository.BusinessDateRepository,
	roomRepo *repository.RoomRepository,
	reservationRepo *repository.ReservationRepository,
	folioRepo *repository.FolioRepository,
	folioService *folio.FolioService,
	rateResolver RateResolver,
	publisher events.Publisher,
	clk clock.Clock,
	cfg *config.AuditConfig,
) *AuditService {
	return &AuditService{
		db:               db,
		auditRepo:        auditRepo,
		historyRepo:      historyRepo,
		businessDateRepo: businessDateRepo,
		roomRepo:         roomRepo,
		reservationRepo:  reservationRepo,
		folioRepo:        folioRepo,
		folioService:     folioService,
		rateResolver:     rateResolver,
		publisher:        publisher,
		clock:            clk,
		cfg:              cfg,
	}
}

// GetBusinessDate 获取当前营业日
func (s *AuditService) GetBusinessDate(ctx context.Context, hotelID int64) (*models.BusinessDate, error) {
	bd, err := s.businessDateRepo.Get(ctx, hotelID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBusinessDateNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return bd, nil
}

// StartAudit 开始夜审
// Redis 锁只做建议性护栏，(hotel_id, business_date) 唯一约束才是硬保证
func (s *AuditService) StartAudit(ctx context.Context, hotelID int64, resume bool) (*models.NightAudit, error) {
	bd, err := s.GetBusinessDate(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	businessDate := bd.CurrentDate

	if cache.GetClient() != nil {
		lockKey := cache.BuildKey(cache.KeyPrefixAuditLock, strconv.FormatInt(hotelID, 10), businessDate)
		ttl := time.Duration(s.cfg.LockTTLSeconds) * time.Second
		acquired, err := cache.SetNX(ctx, lockKey, s.clock.Now().Unix(), ttl)
		if err != nil {
			logger.Warn("获取夜审锁失败", logger.HotelID(hotelID), logger.Err(err))
		} else if !acquired && !resume {
			return nil, errors.ErrAuditAlreadyRunning
		}
	}

	existing, err := s.auditRepo.GetByHotelAndDate(ctx, hotelID, businessDate)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if err == nil {
		if existing.Status == models.NightAuditStatusCompleted {
			return nil, errors.ErrAuditAlreadyCompleted
		}
		// 中断后续跑：显式 resume 时重挂原审计行
		if resume {
			return existing, nil
		}
		return nil, errors.ErrAuditAlreadyRunning
	}

	occupied, err := s.roomRepo.ListOccupied(ctx, hotelID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	now := s.clock.Now()
	token := uuid.NewString()
	audit := &models.NightAudit{
		HotelID:          hotelID,
		BusinessDate:     businessDate,
		Status:           models.NightAuditStatusInProgress,
		Phase:            models.AuditPhaseReviewing,
		IdempotencyToken: &token,
		TotalRooms:       len(occupied),
		Version:          1,
		StartedAt:        &now,
	}
	if err := s.auditRepo.Create(ctx, audit); err != nil {
		// 并发开审时唯一约束兜底
		return nil, errors.ErrAuditAlreadyRunning
	}

	logger.Info("夜审开始",
		logger.HotelID(hotelID),
		logger.BusinessDate(businessDate),
		logger.Int("occupied_rooms", len(occupied)),
	)
	s.publishPhase(ctx, audit)
	return audit, nil
}

// ChecklistItem 审前检查项
type ChecklistItem struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// Checklist 审前检查，全部为提示项，不阻断夜审
func (s *AuditService) Checklist(ctx context.Context, hotelID int64) ([]ChecklistItem, error) {
	bd, err := s.GetBusinessDate(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	date := bd.CurrentDate

	arrivals, err := s.reservationRepo.ListArrivals(ctx, hotelID, date)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	departures, err := s.reservationRepo.ListDepartures(ctx, hotelID, date)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	occupied, err := s.roomRepo.ListOccupied(ctx, hotelID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	counts, err := s.roomRepo.CountByStatus(ctx, hotelID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	openWithBalance, err := s.folioRepo.ListOpenWithBalance(ctx, hotelID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	withoutFolio := 0
	for _, room := range occupied {
		if room.CurrentReservationID == nil {
			withoutFolio++
			continue
		}
		if _, err := s.folioRepo.GetByReservation(ctx, *room.CurrentReservationID); err == gorm.ErrRecordNotFound {
			withoutFolio++
		}
	}

	return []ChecklistItem{
		{Name: "pending_arrivals", Count: len(arrivals), Message: "今日仍有未到店预订，将顺延处理"},
		{Name: "pending_departures", Count: len(departures), Message: "今日仍有未退房预订，房费将继续过账"},
		{Name: "occupied_without_folio", Count: withoutFolio, Message: "在住房缺少账夹，过账时将跳过"},
		{Name: "dirty_rooms", Count: int(counts[models.RoomStatusDirty]), Message: "脏房结转至明日"},
		{Name: "open_folios_with_balance", Count: len(openWithBalance), Message: "未结账夹结转至明日"},
	}, nil
}

// PostRoomCharges 为在住房过房费
// 幂等：同一房晚只会产生一条房费明细，重复调用静默跳过
func (s *AuditService) PostRoomCharges(ctx context.Context, hotelID int64) (*models.NightAudit, error) {
	audit, err := s.requireRunning(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if audit.Phase == models.AuditPhaseComplete || audit.Phase == models.AuditPhaseCompleting {
		return nil, errors.ErrAuditPhaseError
	}

	// 审阅确认后进入过账
	if audit.Phase == models.AuditPhaseReviewing {
		if err := s.auditRepo.UpdatePhase(ctx, audit.ID, models.AuditPhaseConfirming); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		audit.Phase = models.AuditPhaseConfirming
	}
	if audit.Phase != models.AuditPhasePosting {
		if err := s.auditRepo.UpdatePhase(ctx, audit.ID, models.AuditPhasePosting); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		audit.Phase = models.AuditPhasePosting
		s.publishPhase(ctx, audit)
	}

	occupied, err := s.roomRepo.ListOccupied(ctx, hotelID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	batchSize := s.cfg.PostingBatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	hotelLabel := strconv.FormatInt(hotelID, 10)
	posted := 0
	skipped := 0
	sinceFlush := 0
	for _, room := range occupied {
		err := s.postOneRoom(ctx, audit, room)
		if err != nil && err != errors.ErrDuplicatePosting && err != errors.ErrNothingToPost {
			// 瞬时失败重试一次，仍失败则保留 in_progress 供续跑
			err = s.postOneRoom(ctx, audit, room)
		}
		switch err {
		case nil:
			metrics.GetMetrics().RecordRoomChargePosted(hotelLabel)
			posted++
		case errors.ErrDuplicatePosting:
			// 已过账的房晚计入进度，不报错
			metrics.GetMetrics().RecordRoomChargeSkipped(hotelLabel)
			posted++
		case errors.ErrNothingToPost:
			// 无关联预订或无在用账夹的在住房不计入已过账数
			metrics.GetMetrics().RecordRoomChargeSkipped(hotelLabel)
			skipped++
		default:
			_ = s.auditRepo.UpdateProgress(ctx, audit.ID, posted, skipped)
			logger.Error("房费过账失败",
				logger.HotelID(hotelID),
				logger.RoomID(room.ID),
				logger.BusinessDate(audit.BusinessDate),
				logger.Err(err),
			)
			return nil, err
		}

		// 分批落盘，进度查询不必等整轮结束
		sinceFlush++
		if sinceFlush >= batchSize {
			if err := s.auditRepo.UpdateProgress(ctx, audit.ID, posted, skipped); err != nil {
				return nil, errors.ErrDatabaseError.WithError(err)
			}
			sinceFlush = 0
		}
	}

	if err := s.auditRepo.UpdateProgress(ctx, audit.ID, posted, skipped); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if err := s.auditRepo.UpdatePhase(ctx, audit.ID, models.AuditPhaseSettling); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	audit, err = s.auditRepo.GetByID(ctx, audit.ID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	s.publishPhase(ctx, audit)
	return audit, nil
}

// postOneRoom 单房过账，独立事务
func (s *AuditService) postOneRoom(ctx context.Context, audit *models.NightAudit, room *models.Room) error {
	if room.CurrentReservationID == nil {
		// 无关联预订的在住房跳过，审前检查已提示
		return errors.ErrNothingToPost
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txFolioRepo := s.folioRepo.WithTx(tx)

		f, err := txFolioRepo.GetByReservation(ctx, *room.CurrentReservationID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrNothingToPost
			}
			return errors.ErrDatabaseError.WithError(err)
		}
		if f.Status != models.FolioStatusOpen {
			return errors.ErrNothingToPost
		}

		// 幂等键检查
		if _, err := txFolioRepo.FindRoomCharge(ctx, f.ID, audit.BusinessDate, room.ID); err == nil {
			return errors.ErrDuplicatePosting
		} else if err != gorm.ErrRecordNotFound {
			return errors.ErrDatabaseError.WithError(err)
		}

		rate, err := s.rateResolver.Resolve(ctx, room.RoomTypeID, audit.BusinessDate)
		if err != nil {
			return err
		}

		item := &models.FolioLineItem{
			FolioID:      f.ID,
			Category:     models.LineItemCategoryRoom,
			Description:  "房费 " + room.RoomNumber,
			Amount:       rate,
			BusinessDate: &audit.BusinessDate,
			RoomID:       &room.ID,
		}
		if err := txFolioRepo.CreateLineItem(ctx, item); err != nil {
			// 并发过账触发唯一索引，视同已过账
			return errors.ErrDuplicatePosting
		}

		return s.folioService.RecomputeTotals(ctx, tx, f)
	})
}

// AuditStatistics 夜审统计
type AuditStatistics struct {
	BusinessDate  string          `json:"business_date"`
	OccupiedRooms int             `json:"occupied_rooms"`
	TotalRooms    int             `json:"total_rooms"`
	RoomRevenue   decimal.Decimal `json:"room_revenue"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	OccupancyRate float64         `json:"occupancy_rate"`
	ADR           decimal.Decimal `json:"adr"`
	RevPAR        decimal.Decimal `json:"revpar"`
}

// computeStatistics 汇总营业日经营数据
func (s *AuditService) computeStatistics(ctx context.Context, hotelID int64, businessDate string) (*AuditStatistics, error) {
	counts, err := s.roomRepo.CountByStatus(ctx, hotelID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	total := 0
	for _, c := range counts {
		total += int(c)
	}
	occupiedRooms := int(counts[models.RoomStatusOccupied])

	items, err := s.folioRepo.ListLineItemsByBusinessDate(ctx, hotelID, businessDate)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	roomRevenue := decimal.Zero
	totalRevenue := decimal.Zero
	for _, item := range items {
		totalRevenue = totalRevenue.Add(item.Amount)
		if item.Category == models.LineItemCategoryRoom {
			roomRevenue = roomRevenue.Add(item.Amount)
		}
	}

	stats := &AuditStatistics{
		BusinessDate:  businessDate,
		OccupiedRooms: occupiedRooms,
		TotalRooms:    total,
		RoomRevenue:   roomRevenue,
		TotalRevenue:  totalRevenue,
		ADR:           decimal.Zero,
		RevPAR:        decimal.Zero,
	}
	if total > 0 {
		// 百分比口径：6/10 报 60.0
		stats.OccupancyRate = float64(occupiedRooms) / float64(total) * 100
		stats.RevPAR = roomRevenue.Div(decimal.NewFromInt(int64(total))).Round(2)
	}
	if occupiedRooms > 0 {
		stats.ADR = roomRevenue.Div(decimal.NewFromInt(int64(occupiedRooms))).Round(2)
	}
	return stats, nil
}

// CompleteResult 夜审完成结果
type CompleteResult struct {
	Audit       *models.NightAudit `json:"audit"`
	Statistics  *AuditStatistics   `json:"statistics"`
	NewDate     string             `json:"new_business_date"`
	CarriedOver []*models.Folio    `json:"carried_over_folios,omitempty"`
}

// CompleteAudit 完成夜审并推进营业日
// 版本 CAS 保证并发完成只有一个赢家，营业日恰好推进一天
func (s *AuditService) CompleteAudit(ctx context.Context, hotelID int64, notes string) (*CompleteResult, error) {
	audit, err := s.requireRunning(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	// 完成阶段失败后可从 completing 续跑
	if audit.Phase != models.AuditPhaseSettling && audit.Phase != models.AuditPhaseCompleting {
		return nil, errors.ErrAuditPhaseError
	}

	// 未结账夹列出结转，按配置可转为阻断
	carriedOver, err := s.folioRepo.ListOpenWithBalance(ctx, hotelID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if len(carriedOver) > 0 && !s.cfg.AllowCompleteWithOutstanding {
		return nil, errors.ErrOutstandingBalance
	}

	stats, err := s.computeStatistics(ctx, hotelID, audit.BusinessDate)
	if err != nil {
		return nil, err
	}

	bd, err := s.GetBusinessDate(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	newDate, err := utils.NextDay(audit.BusinessDate)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	if audit.Phase == models.AuditPhaseSettling {
		if err := s.auditRepo.UpdatePhase(ctx, audit.ID, models.AuditPhaseCompleting); err != nil {
			return nil, errors.ErrDatabaseError.WithError(err)
		}
		audit.Phase = models.AuditPhaseCompleting
		s.publishPhase(ctx, audit)
	}

	now := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txAuditRepo := s.auditRepo.WithTx(tx)
		txHistoryRepo := s.historyRepo.WithTx(tx)
		txBusinessDateRepo := s.businessDateRepo.WithTx(tx)

		// 1. in_progress -> completed，输家拿到并发冲突
		updates := map[string]interface{}{
			"status":       models.NightAuditStatusCompleted,
			"phase":        models.AuditPhaseComplete,
			"completed_at": now,
		}
		if notes != "" {
			updates["notes"] = notes
		}
		ok, err := txAuditRepo.UpdateVersioned(ctx, audit.ID, audit.Version, updates)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if !ok {
			return errors.ErrConcurrentModification
		}

		// 2. 归档经营快照
		history := &models.NightAuditHistory{
			HotelID:       hotelID,
			NightAuditID:  audit.ID,
			BusinessDate:  audit.BusinessDate,
			OccupiedRooms: stats.OccupiedRooms,
			TotalRooms:    stats.TotalRooms,
			RoomRevenue:   stats.RoomRevenue,
			TotalRevenue:  stats.TotalRevenue,
			OccupancyRate: stats.OccupancyRate,
			ADR:           stats.ADR,
			RevPAR:        stats.RevPAR,
		}
		if err := txHistoryRepo.Record(ctx, history); err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}

		// 3. 营业日 CAS 推进恰好一天
		advanced, err := txBusinessDateRepo.Advance(ctx, hotelID, audit.BusinessDate, newDate, bd.Version)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if !advanced {
			return errors.ErrConcurrentModification
		}
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if cache.GetClient() != nil {
		lockKey := cache.BuildKey(cache.KeyPrefixAuditLock, strconv.FormatInt(hotelID, 10), audit.BusinessDate)
		_ = cache.Delete(ctx, lockKey)
	}

	duration := time.Duration(0)
	if audit.StartedAt != nil {
		duration = now.Sub(*audit.StartedAt)
	}
	metrics.GetMetrics().RecordNightAuditCompleted(strconv.FormatInt(hotelID, 10), duration)

	completed, err := s.auditRepo.GetByID(ctx, audit.ID)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("夜审完成",
		logger.HotelID(hotelID),
		logger.BusinessDate(audit.BusinessDate),
		logger.String("new_business_date", newDate),
		logger.Int("carried_over", len(carriedOver)),
	)
	s.publishPhase(ctx, completed)
	_ = s.publisher.Publish(ctx, events.ChannelAudit, events.NewEvent(events.TypeAuditCompleted, hotelID, &events.AuditPayload{
		AuditID:      completed.ID,
		BusinessDate: completed.BusinessDate,
		Phase:        completed.Phase,
	}))

	return &CompleteResult{
		Audit:       completed,
		Statistics:  stats,
		NewDate:     newDate,
		CarriedOver: carriedOver,
	}, nil
}

// Progress 夜审进度
type Progress struct {
	Audit        *models.NightAudit `json:"audit"`
	PostedRooms  int                `json:"posted_rooms"`
	SkippedRooms int                `json:"skipped_rooms"`
	TotalRooms   int                `json:"total_rooms"`
	Percent      float64            `json:"percent"`
}

// GetProgress 查询夜审进度
func (s *AuditService) GetProgress(ctx context.Context, hotelID int64) (*Progress, error) {
	audit, err := s.GetCurrent(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	progress := &Progress{
		Audit:        audit,
		PostedRooms:  audit.PostedRooms,
		SkippedRooms: audit.SkippedRooms,
		TotalRooms:   audit.TotalRooms,
	}
	if audit.TotalRooms > 0 {
		progress.Percent = float64(audit.PostedRooms+audit.SkippedRooms) / float64(audit.TotalRooms) * 100
	} else if audit.Status == models.NightAuditStatusCompleted {
		progress.Percent = 100
	}
	return progress, nil
}

// GetCurrent 获取当前营业日的夜审记录
func (s *AuditService) GetCurrent(ctx context.Context, hotelID int64) (*models.NightAudit, error) {
	bd, err := s.GetBusinessDate(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	audit, err := s.auditRepo.GetByHotelAndDate(ctx, hotelID, bd.CurrentDate)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// 新营业日尚未开审时回看上一审
			running, err := s.auditRepo.GetRunning(ctx, hotelID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return nil, errors.ErrAuditNotFound
				}
				return nil, errors.ErrDatabaseError.WithError(err)
			}
			return running, nil
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return audit, nil
}

// ListHistory 查询最近的夜审归档
func (s *AuditService) ListHistory(ctx context.Context, hotelID int64, limit int) ([]*models.NightAuditHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	histories, err := s.historyRepo.ListRecent(ctx, hotelID, limit)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return histories, nil
}

// TrendPoint 经营趋势点
type TrendPoint struct {
	BusinessDate string          `json:"business_date"`
	Value        decimal.Decimal `json:"value"`
}

// trendMetrics 可用的趋势指标
var trendMetrics = []string{"occupancy_rate", "adr", "revpar", "total_revenue"}

// Trend 查询指定指标的经营趋势
func (s *AuditService) Trend(ctx context.Context, hotelID int64, metric, startDate, endDate string) ([]TrendPoint, error) {
	if !utils.Contains(trendMetrics, metric) {
		return nil, errors.ErrInvalidParams.WithMessage("未知指标: " + metric)
	}
	if !utils.IsValidDate(startDate) || !utils.IsValidDate(endDate) {
		return nil, errors.ErrInvalidParams.WithMessage("日期格式错误")
	}

	histories, err := s.historyRepo.ListRange(ctx, hotelID, startDate, endDate)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	points := make([]TrendPoint, 0, len(histories))
	for _, h := range histories {
		var value decimal.Decimal
		switch metric {
		case "occupancy_rate":
			value = decimal.NewFromFloat(h.OccupancyRate).Round(2)
		case "adr":
			value = h.ADR
		case "revpar":
			value = h.RevPAR
		case "total_revenue":
			value = h.TotalRevenue
		}
		points = append(points, TrendPoint{BusinessDate: h.BusinessDate, Value: value})
	}
	return points, nil
}

// requireRunning 获取进行中的夜审
func (s *AuditService) requireRunning(ctx context.Context, hotelID int64) (*models.NightAudit, error) {
	audit, err := s.auditRepo.GetRunning(ctx, hotelID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrAuditNotRunning
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return audit, nil
}

// publishPhase 发布夜审阶段变更事件
func (s *AuditService) publishPhase(ctx context.Context, audit *models.NightAudit) {
	_ = s.publisher.Publish(ctx, events.ChannelAudit, events.NewEvent(events.TypeAuditPhaseChanged, audit.HotelID, &events.AuditPayload{
		AuditID:      audit.ID,
		BusinessDate: audit.BusinessDate,
		Phase:        audit.Phase,
	}))
}
