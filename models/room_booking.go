package models

import "time"

type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingApproved BookingStatus = "approved"
	BookingRejected BookingStatus = "rejected"
)

type RoomBooking struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	UserID           uint          `gorm:"not null;index" json:"userId"`
	Student          *User         `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"student,omitempty"`
	GuestHostelBlock string        `gorm:"type:varchar(30);not null;default:'GUEST_HOSTEL';index:idx_booking_room_range" json:"guestHostelBlock"`
	VisitorName      string        `gorm:"type:varchar(255);not null" json:"visitorName"`
	Relation         string        `gorm:"type:varchar(100);not null" json:"relation"`
	GuestRoomNO      string        `gorm:"type:varchar(10);not null;index:idx_booking_room_range" json:"guestRoomNO"`
	DateFrom         time.Time     `gorm:"not null;index:idx_booking_room_range" json:"dateFrom"`
	DateTo           time.Time     `gorm:"not null;index:idx_booking_room_range" json:"dateTo"`
	Purpose          string        `gorm:"type:varchar(500)" json:"purpose"`
	Status           BookingStatus `gorm:"type:varchar(15);not null;default:'pending'" json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}
