package models

import "time"

type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

type RegistrationRequest struct {
	ID              uint               `gorm:"primaryKey" json:"id"`
	FullName        string             `gorm:"type:varchar(255);not null" json:"fullName"`
	StudentID       string             `gorm:"type:varchar(50);not null;index" json:"studentID"`
	Branch          string             `gorm:"type:varchar(100);not null" json:"branch"`
	CollegeEmail    string             `gorm:"type:varchar(255);not null" json:"collegeEmail"`
	HostelBlock     string             `gorm:"type:varchar(20);not null;index:idx_regreq_block_room_status" json:"hostelBlock"`
	RoomNO          string             `gorm:"type:varchar(20);not null;index:idx_regreq_block_room_status" json:"roomNO"`
	Password        string             `gorm:"type:varchar(255);not null" json:"-"`
	Status          RegistrationStatus `gorm:"type:varchar(15);not null;default:'pending';index:idx_regreq_block_room_status" json:"status"`
	RejectionReason *string            `gorm:"type:varchar(500)" json:"rejectionReason"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}
