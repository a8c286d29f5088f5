// Package events 定义领域事件及其发布接口
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// 事件频道
const (
	ChannelRoom        = "pms:events:room"
	ChannelReservation = "pms:events:reservation"
	ChannelFolio       = "pms:events:folio"
	ChannelAudit       = "pms:events:audit"
)

// 事件类型
const (
	TypeRoomStatusChanged  = "room.status_changed"
	TypeGuestCheckedIn     = "reservation.checked_in"
	TypeGuestCheckedOut    = "reservation.checked_out"
	TypeReservationCreated = "reservation.created"
	TypeReservationCancel  = "reservation.cancelled"
	TypeReservationNoShow  = "reservation.no_show"
	TypeFolioUpdated       = "folio.updated"
	TypePaymentRecorded    = "folio.payment_recorded"
	TypePaymentVoided      = "folio.payment_voided"
	TypeAuditStarted       = "audit.started"
	TypeAuditPhaseChanged  = "audit.phase_changed"
	TypeAuditCompleted     = "audit.completed"
)

// Event 领域事件信封
type Event struct {
	Type       string      `json:"type"`
	HotelID    int64       `json:"hotel_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// RoomStatusChangedPayload 房态变更事件
type RoomStatusChangedPayload struct {
	RoomID     int64  `json:"room_id"`
	RoomNumber string `json:"room_number"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// ReservationPayload 预订生命周期事件
type ReservationPayload struct {
	ReservationID  int64  `json:"reservation_id"`
	ConfirmationNo string `json:"confirmation_no"`
	GuestID        int64  `json:"guest_id"`
	Status         string `json:"status"`
}

// FolioUpdatedPayload 账单变更事件
type FolioUpdatedPayload struct {
	FolioID int64           `json:"folio_id"`
	FolioNo string          `json:"folio_no"`
	Balance decimal.Decimal `json:"balance"`
}

// PaymentPayload 付款事件
type PaymentPayload struct {
	FolioID   int64           `json:"folio_id"`
	PaymentID int64           `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
}

// AuditPayload 夜审事件
type AuditPayload struct {
	AuditID      int64  `json:"audit_id"`
	BusinessDate string `json:"business_date"`
	Phase        string `json:"phase"`
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, channel string, event *Event) error
}

// NewEvent 构造事件信封
func NewEvent(eventType string, hotelID int64, payload interface{}) *Event {
	return &Event{
		Type:       eventType,
		HotelID:    hotelID,
		OccurredAt: time.Now(),
		Payload:    payload,
	}
}
