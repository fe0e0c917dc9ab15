package models

import "time"

// User is an approved student. Rows are only created by approving a
// RegistrationRequest.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FullName     string    `gorm:"type:varchar(255);not null" json:"fullName"`
	StudentID    string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"studentID"`
	Branch       string    `gorm:"type:varchar(100);not null" json:"branch"`
	CollegeEmail string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"collegeEmail"`
	HostelBlock  string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_users_block_room" json:"hostelBlock"`
	RoomNO       string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_users_block_room" json:"roomNO"`
	Password     string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	IsApproved   bool      `gorm:"not null;default:false" json:"isApproved"`
	ApprovedBy   *uint     `json:"approvedBy,omitempty"`
	IsActive     bool      `gorm:"not null;default:true" json:"isActive"`
	ProfilePic   string    `gorm:"type:varchar(512)" json:"profilePic"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// StudentSummary is the subset of a student embedded in admin listings.
type StudentSummary struct {
	ID          uint   `json:"id"`
	StudentID   string `json:"studentID"`
	FullName    string `json:"fullName"`
	RoomNO      string `json:"roomNO"`
	HostelBlock string `json:"hostelBlock"`
}

func (u User) Summary() StudentSummary {
	return StudentSummary{
		ID:          u.ID,
		StudentID:   u.StudentID,
		FullName:    u.FullName,
		RoomNO:      u.RoomNO,
		HostelBlock: u.HostelBlock,
	}
}
