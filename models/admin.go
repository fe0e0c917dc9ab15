package models

import "time"

// Admin manages exactly one hostel block.
type Admin struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AdminID     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"adminID"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Email       string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"type:varchar(255);not null" json:"-"`
	HostelBlock string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"hostelBlock"`
	Role        string    `gorm:"type:varchar(20);not null;default:'admin'" json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
