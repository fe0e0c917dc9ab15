package models

import (
	"fmt"
	"time"
)

const (
	GuestHostelBlock     = "GUEST_HOSTEL"
	GuestRoomCount       = 100
	DefaultGuestCapacity = 2
)

type GuestRoom struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	GuestHostelBlock string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_guest_room_block_no" json:"guestHostelBlock"`
	RoomNo           string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_guest_room_block_no" json:"roomNo"`
	Capacity         int       `gorm:"not null;default:2" json:"capacity"`
	IsActive         bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// GuestRoomNumbers returns the fixed pool "001".."100".
func GuestRoomNumbers() []string {
	nos := make([]string, 0, GuestRoomCount)
	for i := 1; i <= GuestRoomCount; i++ {
		nos = append(nos, GuestRoomNo(i))
	}
	return nos
}

func GuestRoomNo(i int) string {
	return fmt.Sprintf("%03d", i)
}
