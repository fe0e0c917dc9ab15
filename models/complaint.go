package models

import "time"

type ComplaintStatus string

const (
	ComplaintPending  ComplaintStatus = "pending"
	ComplaintAccepted ComplaintStatus = "accepted"
	ComplaintResolved ComplaintStatus = "resolved"
)

var complaintRank = map[ComplaintStatus]int{
	ComplaintPending:  0,
	ComplaintAccepted: 1,
	ComplaintResolved: 2,
}

func (s ComplaintStatus) Valid() bool {
	_, ok := complaintRank[s]
	return ok
}

// CanMoveTo reports whether a complaint may go from s to next. Status only
// advances; re-applying the current status is allowed.
func (s ComplaintStatus) CanMoveTo(next ComplaintStatus) bool {
	from, ok1 := complaintRank[s]
	to, ok2 := complaintRank[next]
	return ok1 && ok2 && to >= from
}

var ComplaintCategories = []string{"electricity", "water", "mess", "fans", "lightbulb", "other"}

type Complaint struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"not null;index" json:"userId"`
	Student        *User           `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"student,omitempty"`
	HostelBlock    string          `gorm:"type:varchar(20);not null;index" json:"hostelBlock"`
	Category       string          `gorm:"type:varchar(30);not null" json:"category"`
	Description    string          `gorm:"type:text;not null" json:"description"`
	Status         ComplaintStatus `gorm:"type:varchar(15);not null;default:'pending'" json:"status"`
	ResolutionDate *time.Time      `json:"resolutionDate"`
	ResolutionTime *string         `gorm:"type:varchar(20)" json:"resolutionTime"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
