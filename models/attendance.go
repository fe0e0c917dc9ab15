package models

import "time"

type AttendanceStatus string

const (
	Present AttendanceStatus = "present"
	Absent  AttendanceStatus = "absent"
)

// Attendance is unique per (student, calendar day).
type Attendance struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;uniqueIndex:idx_attendance_student_date" json:"userId"`
	Student   *User            `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"student,omitempty"`
	Date      time.Time        `gorm:"not null;uniqueIndex:idx_attendance_student_date" json:"date"`
	Status    AttendanceStatus `gorm:"type:varchar(10);not null" json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
