// Package repository 客房仓储单元测试
package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dumeirei/hotel-pms-backend/internal/models"
)

func setupRoomTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.Hotel{}, &models.RoomType{}, &models.Room{}, &models.Guest{})
	require.NoError(t, err)

	return db
}

func createRoomFixtures(t *testing.T, db *gorm.DB) (*models.Hotel, *models.RoomType) {
	hotel := &models.Hotel{Name: "测试酒店", Code: "TEST"}
	require.NoError(t, db.Create(hotel).Error)

	roomType := &models.RoomType{
		HotelID:  hotel.ID,
		Name:     "标准大床房",
		Code:     "STD",
		BaseRate: decimal.NewFromInt(299),
	}
	require.NoError(t, db.Create(roomType).Error)

	return hotel, roomType
}

func TestRoomRepository_Create(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	hotel, roomType := createRoomFixtures(t, db)

	room := &models.Room{
		HotelID:    hotel.ID,
		RoomNumber: "8101",
		RoomTypeID: roomType.ID,
		Status:     models.RoomStatusVacant,
	}

	err := repo.Create(ctx, room)
	require.NoError(t, err)
	assert.NotZero(t, room.ID)
}

func TestRoomRepository_Create_DuplicateRoomNumber(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	hotel, roomType := createRoomFixtures(t, db)

	room := &models.Room{HotelID: hotel.ID, RoomNumber: "8101", RoomTypeID: roomType.ID, Status: models.RoomStatusVacant}
	require.NoError(t, repo.Create(ctx, room))

	// 同一酒店同一房号违反唯一索引
	dup := &models.Room{HotelID: hotel.ID, RoomNumber: "8101", RoomTypeID: roomType.ID, Status: models.RoomStatusVacant}
	err := repo.Create(ctx, dup)
	assert.Error(t, err)
}

func TestRoomRepository_GetByHotelAndNumber(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	hotel, roomType := createRoomFixtures(t, db)
	room := &models.Room{HotelID: hotel.ID, RoomNumber: "8102", RoomTypeID: roomType.ID, Status: models.RoomStatusVacant}
	require.NoError(t, db.Create(room).Error)

	found, err := repo.GetByHotelAndNumber(ctx, hotel.ID, "8102")
	require.NoError(t, err)
	assert.Equal(t, room.ID, found.ID)

	_, err = repo.GetByHotelAndNumber(ctx, hotel.ID, "9999")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoomRepository_Occupy(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	hotel, roomType := createRoomFixtures(t, db)
	room := &models.Room{HotelID: hotel.ID, RoomNumber: "8103", RoomTypeID: roomType.ID, Status: models.RoomStatusVacant}
	require.NoError(t, db.Create(room).Error)

	// 空净房可以占用
	ok, err := repo.Occupy(ctx, room.ID, 1, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	found, _ := repo.GetByID(ctx, room.ID)
	assert.Equal(t, models.RoomStatusOccupied, found.Status)
	require.NotNil(t, found.CurrentGuestID)
	assert.Equal(t, int64(1), *found.CurrentGuestID)

	// 在住房不能重复占用
	ok, err = repo.Occupy(ctx, room.ID, 2, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRoomRepository_Occupy_DirtyRoom(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	hotel, roomType := createRoomFixtures(t, db)
	room := &models.Room{HotelID: hotel.ID, RoomNumber: "8104", RoomTypeID: roomType.ID, Status: models.RoomStatusDirty}
	require.NoError(t, db.Create(room).Error)

	// 脏房也允许入住
	ok, err := repo.Occupy(ctx, room.ID, 1, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRoomRepository_Occupy_MaintenanceRoom(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	hotel, roomType := createRoomFixtures(t, db)
	room := &models.Room{HotelID: hotel.ID, RoomNumber: "8105", RoomTypeID: roomType.ID, Status: models.RoomStatusMaintenance}
	require.NoError(t, db.Create(room).Error)

	// 维修房不允许入住
	ok, err := repo.Occupy(ctx, room.ID, 1, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRoomRepository_Release(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	hotel, roomType := createRoomFixtures(t, db)
	room := &models.Room{HotelID: hotel.ID, RoomNumber: "8106", RoomTypeID: roomType.ID, Status: models.RoomStatusVacant}
	require.NoError(t, db.Create(room).Error)

	ok, err := repo.Occupy(ctx, room.ID, 5, 6)
	require.NoError(t, err)
	require.True(t, ok)

	err = repo.Release(ctx, room.ID)
	require.NoError(t, err)

	found, _ := repo.GetByID(ctx, room.ID)
	// 退房后转为脏房并清空在住信息
	assert.Equal(t, models.RoomStatusDirty, found.Status)
	assert.Nil(t, found.CurrentGuestID)
	assert.Nil(t, found.CurrentReservationID)
}

func TestRoomRepository_CountByStatus(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	hotel, roomType := createRoomFixtures(t, db)
	statuses := []string{
		models.RoomStatusVacant,
		models.RoomStatusVacant,
		models.RoomStatusOccupied,
		models.RoomStatusDirty,
		models.RoomStatusOutOfOrder,
	}
	for i, status := range statuses {
		require.NoError(t, db.Create(&models.Room{
			HotelID:    hotel.ID,
			RoomNumber: fmt.Sprintf("82%02d", i+1),
			RoomTypeID: roomType.ID,
			Status:     status,
		}).Error)
	}

	stats, err := repo.CountByStatus(ctx, hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats[models.RoomStatusVacant])
	assert.Equal(t, int64(1), stats[models.RoomStatusOccupied])
	assert.Equal(t, int64(1), stats[models.RoomStatusDirty])
	assert.Equal(t, int64(1), stats[models.RoomStatusOutOfOrder])
}

func TestRoomRepository_List_FilterByStatus(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	hotel, roomType := createRoomFixtures(t, db)
	require.NoError(t, db.Create(&models.Room{HotelID: hotel.ID, RoomNumber: "8301", RoomTypeID: roomType.ID, Status: models.RoomStatusVacant}).Error)
	require.NoError(t, db.Create(&models.Room{HotelID: hotel.ID, RoomNumber: "8302", RoomTypeID: roomType.ID, Status: models.RoomStatusOccupied}).Error)

	rooms, total, err := repo.List(ctx, hotel.ID, 0, 10, map[string]interface{}{
		"status": models.RoomStatusOccupied,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rooms, 1)
	assert.Equal(t, "8302", rooms[0].RoomNumber)
}

func TestRoomRepository_ListByStatus(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	hotel, roomType := createRoomFixtures(t, db)
	require.NoError(t, db.Create(&models.Room{HotelID: hotel.ID, RoomNumber: "8401", RoomTypeID: roomType.ID, Status: models.RoomStatusOccupied}).Error)
	require.NoError(t, db.Create(&models.Room{HotelID: hotel.ID, RoomNumber: "8402", RoomTypeID: roomType.ID, Status: models.RoomStatusOccupied}).Error)
	require.NoError(t, db.Create(&models.Room{HotelID: hotel.ID, RoomNumber: "8403", RoomTypeID: roomType.ID, Status: models.RoomStatusVacant}).Error)

	occupied, err := repo.ListByStatus(ctx, hotel.ID, models.RoomStatusOccupied)
	require.NoError(t, err)
	assert.Len(t, occupied, 2)
}
