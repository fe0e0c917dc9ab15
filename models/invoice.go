package models

import "time"

type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
)

// Invoice always targets one student. A broadcast is materialised as one row
// per student sharing a CampaignKey.
type Invoice struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	InvoiceID   string        `gorm:"type:varchar(64);uniqueIndex;not null" json:"invoiceID"`
	UserID      uint          `gorm:"not null;index;uniqueIndex:idx_invoice_campaign_student" json:"userId"`
	Student     *User         `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"student,omitempty"`
	HostelBlock string        `gorm:"type:varchar(20);not null;index" json:"hostelBlock"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Amount      float64       `gorm:"type:decimal(12,2);not null" json:"amount"`
	DueDate     time.Time     `gorm:"not null" json:"dueDate"`
	Status      InvoiceStatus `gorm:"type:varchar(15);not null;default:'pending'" json:"status"`
	CampaignKey *string       `gorm:"type:varchar(64);uniqueIndex:idx_invoice_campaign_student" json:"campaignKey,omitempty"`
	PaidAt      *time.Time    `json:"paidAt,omitempty"`
	PaymentRef  *string       `gorm:"type:varchar(100)" json:"paymentRef,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
