package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dumeirei/hotel-pms-backend/internal/models"
)

func setupHotelTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Hotel{}, &models.RoomType{}, &models.RatePeriod{}, &models.Guest{})
	require.NoError(t, err)

	return db
}

func TestHotelRepository_CreateAndGet(t *testing.T) {
	db := setupHotelTestDB(t)
	repo := NewHotelRepository(db)
	ctx := context.Background()

	hotel := &models.Hotel{Name: "云栖度假酒店", Code: "YUNQI", Timezone: "Asia/Shanghai", Status: models.HotelStatusActive}
	err := repo.Create(ctx, hotel)
	require.NoError(t, err)
	assert.NotZero(t, hotel.ID)

	found, err := repo.GetByID(ctx, hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, "云栖度假酒店", found.Name)

	found, err = repo.GetByCode(ctx, "YUNQI")
	require.NoError(t, err)
	assert.Equal(t, hotel.ID, found.ID)
}

func TestHotelRepository_Create_DuplicateCode(t *testing.T) {
	db := setupHotelTestDB(t)
	repo := NewHotelRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Hotel{Name: "酒店一", Code: "DUP", Status: models.HotelStatusActive}))
	err := repo.Create(ctx, &models.Hotel{Name: "酒店二", Code: "DUP", Status: models.HotelStatusActive})
	assert.Error(t, err)
}

func TestHotelRepository_ListActive(t *testing.T) {
	db := setupHotelTestDB(t)
	repo := NewHotelRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Hotel{Name: "营业中", Code: "A1", Status: models.HotelStatusActive}))
	require.NoError(t, repo.Create(ctx, &models.Hotel{Name: "已停业", Code: "A2", Status: models.HotelStatusDisabled}))

	hotels, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, hotels, 1)
	assert.Equal(t, "营业中", hotels[0].Name)
}

func TestGuestRepository_GetByPhone(t *testing.T) {
	db := setupHotelTestDB(t)
	repo := NewGuestRepository(db)
	ctx := context.Background()

	hotel := &models.Hotel{Name: "测试酒店", Code: "TEST"}
	require.NoError(t, db.Create(hotel).Error)

	phone := "13800138000"
	guest := &models.Guest{HotelID: hotel.ID, Name: "李四", Phone: &phone}
	require.NoError(t, repo.Create(ctx, guest))

	found, err := repo.GetByPhone(ctx, hotel.ID, phone)
	require.NoError(t, err)
	assert.Equal(t, guest.ID, found.ID)

	_, err = repo.GetByPhone(ctx, hotel.ID, "13900000000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGuestRepository_List_Keyword(t *testing.T) {
	db := setupHotelTestDB(t)
	repo := NewGuestRepository(db)
	ctx := context.Background()

	hotel := &models.Hotel{Name: "测试酒店", Code: "TEST"}
	require.NoError(t, db.Create(hotel).Error)

	phone1 := "13800138000"
	phone2 := "13900139000"
	require.NoError(t, repo.Create(ctx, &models.Guest{HotelID: hotel.ID, Name: "王小明", Phone: &phone1}))
	require.NoError(t, repo.Create(ctx, &models.Guest{HotelID: hotel.ID, Name: "赵大力", Phone: &phone2}))

	guests, total, err := repo.List(ctx, hotel.ID, 0, 10, "小明")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, guests, 1)
	assert.Equal(t, "王小明", guests[0].Name)

	// 手机号也参与匹配
	guests, total, err = repo.List(ctx, hotel.ID, 0, 10, "13900")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "赵大力", guests[0].Name)
}

func TestRatePeriodRepository_FindForDate(t *testing.T) {
	db := setupHotelTestDB(t)
	repo := NewRatePeriodRepository(db)
	ctx := context.Background()

	hotel := &models.Hotel{Name: "测试酒店", Code: "TEST"}
	require.NoError(t, db.Create(hotel).Error)
	roomType := &models.RoomType{HotelID: hotel.ID, Name: "标准间", Code: "STD", BaseRate: decimal.NewFromInt(299)}
	require.NoError(t, db.Create(roomType).Error)

	require.NoError(t, repo.Create(ctx, &models.RatePeriod{
		RoomTypeID:  roomType.ID,
		Name:        "平季",
		StartDate:   "2025-06-01",
		EndDate:     "2025-06-30",
		NightlyRate: decimal.NewFromInt(329),
	}))
	require.NoError(t, repo.Create(ctx, &models.RatePeriod{
		RoomTypeID:  roomType.ID,
		Name:        "端午加价",
		StartDate:   "2025-06-14",
		EndDate:     "2025-06-16",
		NightlyRate: decimal.NewFromInt(499),
	}))

	// 多段重叠时取开始日期最晚的一段
	period, err := repo.FindForDate(ctx, roomType.ID, "2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, "端午加价", period.Name)

	period, err = repo.FindForDate(ctx, roomType.ID, "2025-06-20")
	require.NoError(t, err)
	assert.Equal(t, "平季", period.Name)

	_, err = repo.FindForDate(ctx, roomType.ID, "2025-07-15")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoomTypeRepository_ListByHotel(t *testing.T) {
	db := setupHotelTestDB(t)
	repo := NewRoomTypeRepository(db)
	ctx := context.Background()

	hotel := &models.Hotel{Name: "测试酒店", Code: "TEST"}
	require.NoError(t, db.Create(hotel).Error)
	other := &models.Hotel{Name: "其他酒店", Code: "OTHER"}
	require.NoError(t, db.Create(other).Error)

	require.NoError(t, repo.Create(ctx, &models.RoomType{HotelID: hotel.ID, Name: "标准间", Code: "STD", BaseRate: decimal.NewFromInt(299)}))
	require.NoError(t, repo.Create(ctx, &models.RoomType{HotelID: hotel.ID, Name: "豪华套房", Code: "SUITE", BaseRate: decimal.NewFromInt(899)}))
	require.NoError(t, repo.Create(ctx, &models.RoomType{HotelID: other.ID, Name: "标准间", Code: "STD", BaseRate: decimal.NewFromInt(199)}))

	types, err := repo.ListByHotel(ctx, hotel.ID)
	require.NoError(t, err)
	assert.Len(t, types, 2)
}
