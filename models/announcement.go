package models

import "time"

// GlobalBlock marks an announcement visible in every block.
const GlobalBlock = "All"

type Announcement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	HostelBlock string    `gorm:"type:varchar(20);not null;index" json:"hostelBlock"`
	CreatedBy   uint      `gorm:"not null" json:"createdBy"`
	Author      *Admin    `gorm:"foreignKey:CreatedBy;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"author,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
