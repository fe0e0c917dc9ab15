package models

import "time"

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

type MessLeave struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"not null;index" json:"userId"`
	Student     *User       `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"student,omitempty"`
	HostelBlock string      `gorm:"type:varchar(20);not null;index" json:"hostelBlock"`
	StartDate   time.Time   `gorm:"not null" json:"startDate"`
	EndDate     time.Time   `gorm:"not null" json:"endDate"`
	Reason      string      `gorm:"type:text;not null" json:"reason"`
	Status      LeaveStatus `gorm:"type:varchar(15);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
