package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dumeirei/hotel-pms-backend/internal/common/utils"
	"github.com/dumeirei/hotel-pms-backend/internal/models"
)

func setupReservationTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Hotel{}, &models.RoomType{}, &models.Room{},
		&models.Guest{}, &models.Reservation{}, &models.ReservationRoom{},
	)
	require.NoError(t, err)

	return db
}

func createReservationFixtures(t *testing.T, db *gorm.DB) (*models.Hotel, *models.Guest, *models.RoomType) {
	hotel := &models.Hotel{Name: "测试酒店", Code: "TEST"}
	require.NoError(t, db.Create(hotel).Error)

	guest := &models.Guest{HotelID: hotel.ID, Name: "张三", Phone: utils.StringPtr("13800138000")}
	require.NoError(t, db.Create(guest).Error)

	roomType := &models.RoomType{HotelID: hotel.ID, Name: "标准间", Code: "STD", BaseRate: decimal.NewFromInt(299)}
	require.NoError(t, db.Create(roomType).Error)

	return hotel, guest, roomType
}

func newTestReservation(hotelID, guestID int64, checkIn, checkOut, status string) *models.Reservation {
	return &models.Reservation{
		HotelID:        hotelID,
		ConfirmationNo: utils.GenerateConfirmationNo(),
		GuestID:        guestID,
		Status:         status,
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		TotalAmount:    decimal.NewFromInt(598),
	}
}

func TestReservationRepository_CreateAndGet(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	hotel, guest, roomType := createReservationFixtures(t, db)

	reservation := newTestReservation(hotel.ID, guest.ID, "2025-06-15", "2025-06-17", models.ReservationStatusConfirmed)
	reservation.Rooms = []models.ReservationRoom{
		{RoomTypeID: roomType.ID, StartDate: "2025-06-15", EndDate: "2025-06-17"},
	}

	err := repo.Create(ctx, reservation)
	require.NoError(t, err)
	assert.NotZero(t, reservation.ID)

	found, err := repo.GetByID(ctx, reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, "张三", found.Guest.Name)
	require.Len(t, found.Rooms, 1)
	assert.Equal(t, roomType.ID, found.Rooms[0].RoomTypeID)
}

func TestReservationRepository_GetByConfirmationNo(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	hotel, guest, _ := createReservationFixtures(t, db)
	reservation := newTestReservation(hotel.ID, guest.ID, "2025-06-15", "2025-06-16", models.ReservationStatusConfirmed)
	require.NoError(t, db.Create(reservation).Error)

	found, err := repo.GetByConfirmationNo(ctx, reservation.ConfirmationNo)
	require.NoError(t, err)
	assert.Equal(t, reservation.ID, found.ID)
}

func TestReservationRepository_UpdateStatus(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	hotel, guest, _ := createReservationFixtures(t, db)
	reservation := newTestReservation(hotel.ID, guest.ID, "2025-06-15", "2025-06-16", models.ReservationStatusConfirmed)
	require.NoError(t, db.Create(reservation).Error)

	now := time.Now()
	ok, err := repo.UpdateStatus(ctx, reservation.ID, models.ReservationStatusConfirmed, models.ReservationStatusCheckedIn, map[string]interface{}{
		"checked_in_at": now,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	found, _ := repo.GetByID(ctx, reservation.ID)
	assert.Equal(t, models.ReservationStatusCheckedIn, found.Status)
	assert.NotNil(t, found.CheckedInAt)

	// 状态已变更，再按旧状态更新应失效
	ok, err = repo.UpdateStatus(ctx, reservation.ID, models.ReservationStatusConfirmed, models.ReservationStatusCancelled, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReservationRepository_ListArrivals(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	hotel, guest, _ := createReservationFixtures(t, db)
	require.NoError(t, db.Create(newTestReservation(hotel.ID, guest.ID, "2025-06-15", "2025-06-16", models.ReservationStatusConfirmed)).Error)
	require.NoError(t, db.Create(newTestReservation(hotel.ID, guest.ID, "2025-06-15", "2025-06-17", models.ReservationStatusCancelled)).Error)
	require.NoError(t, db.Create(newTestReservation(hotel.ID, guest.ID, "2025-06-16", "2025-06-18", models.ReservationStatusConfirmed)).Error)

	arrivals, err := repo.ListArrivals(ctx, hotel.ID, "2025-06-15")
	require.NoError(t, err)
	// 只返回当日到店且仍为已确认的预订
	assert.Len(t, arrivals, 1)
}

func TestReservationRepository_ListDepartures(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	hotel, guest, _ := createReservationFixtures(t, db)
	require.NoError(t, db.Create(newTestReservation(hotel.ID, guest.ID, "2025-06-14", "2025-06-15", models.ReservationStatusCheckedIn)).Error)
	require.NoError(t, db.Create(newTestReservation(hotel.ID, guest.ID, "2025-06-14", "2025-06-15", models.ReservationStatusCheckedOut)).Error)
	require.NoError(t, db.Create(newTestReservation(hotel.ID, guest.ID, "2025-06-14", "2025-06-16", models.ReservationStatusCheckedIn)).Error)

	departures, err := repo.ListDepartures(ctx, hotel.ID, "2025-06-15")
	require.NoError(t, err)
	assert.Len(t, departures, 1)
}

func TestReservationRepository_ListOverdueConfirmed(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	hotel, guest, _ := createReservationFixtures(t, db)
	require.NoError(t, db.Create(newTestReservation(hotel.ID, guest.ID, "2025-06-13", "2025-06-15", models.ReservationStatusConfirmed)).Error)
	require.NoError(t, db.Create(newTestReservation(hotel.ID, guest.ID, "2025-06-14", "2025-06-16", models.ReservationStatusConfirmed)).Error)
	require.NoError(t, db.Create(newTestReservation(hotel.ID, guest.ID, "2025-06-15", "2025-06-17", models.ReservationStatusConfirmed)).Error)

	overdue, err := repo.ListOverdueConfirmed(ctx, hotel.ID, "2025-06-15")
	require.NoError(t, err)
	assert.Len(t, overdue, 2)
}

func TestReservationRepository_List_FilterByStatus(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	hotel, guest, _ := createReservationFixtures(t, db)
	require.NoError(t, db.Create(newTestReservation(hotel.ID, guest.ID, "2025-06-15", "2025-06-16", models.ReservationStatusConfirmed)).Error)
	require.NoError(t, db.Create(newTestReservation(hotel.ID, guest.ID, "2025-06-15", "2025-06-16", models.ReservationStatusCancelled)).Error)

	reservations, total, err := repo.List(ctx, hotel.ID, 0, 10, map[string]interface{}{
		"status": models.ReservationStatusCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, reservations, 1)
}

func TestReservationRepository_AssignSegmentRoom(t *testing.T) {
	db := setupReservationTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	hotel, guest, roomType := createReservationFixtures(t, db)
	room := &models.Room{HotelID: hotel.ID, RoomNumber: "8101", RoomTypeID: roomType.ID, Status: models.RoomStatusVacant}
	require.NoError(t, db.Create(room).Error)

	reservation := newTestReservation(hotel.ID, guest.ID, "2025-06-15", "2025-06-17", models.ReservationStatusConfirmed)
	reservation.Rooms = []models.ReservationRoom{
		{RoomTypeID: roomType.ID, StartDate: "2025-06-15", EndDate: "2025-06-17"},
	}
	require.NoError(t, db.Create(reservation).Error)

	segments, err := repo.ListSegments(ctx, reservation.ID)
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Nil(t, segments[0].RoomID)

	err = repo.AssignSegmentRoom(ctx, segments[0].ID, room.ID)
	require.NoError(t, err)

	segment, err := repo.GetSegment(ctx, segments[0].ID)
	require.NoError(t, err)
	require.NotNil(t, segment.RoomID)
	assert.Equal(t, room.ID, *segment.RoomID)
}
