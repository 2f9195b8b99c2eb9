package model

import (
	"time"

	"github.com/google/uuid"
)

// DailyReport status enum constants
const (
	ReportStatusDraft     = "DRAFT"
	ReportStatusSubmitted = "SUBMITTED"
	ReportStatusApproved  = "APPROVED"
	ReportStatusRejected  = "REJECTED"
)

// DailyReport is one salesperson's report for one business day. The composite
// unique index on (sales_person_id, report_date) is the authoritative guard
// against duplicate reports; any application-level pre-check is best effort.
type DailyReport struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SalesPersonID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:uk_person_date" json:"sales_person_id"`
	SalesPerson   *SalesPerson  `gorm:"foreignKey:SalesPersonID" json:"sales_person,omitempty"`
	ReportDate    time.Time     `gorm:"type:date;not null;uniqueIndex:uk_person_date" json:"report_date"`
	Problem       string        `gorm:"type:text" json:"problem"`
	Plan          string        `gorm:"type:text" json:"plan"`
	Status        string        `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	SubmittedAt   *time.Time    `json:"submitted_at"`
	ApprovedAt    *time.Time    `json:"approved_at"`
	ApprovedBy    *uuid.UUID    `gorm:"type:uuid" json:"approved_by"`
	Approver      *SalesPerson  `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	Visits        []VisitRecord `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"visits"`
	Comments      []Comment     `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// VisitRecord is a single customer visit within a daily report. Its lifecycle
// is bound to the parent report: editable only while the report is DRAFT or
// REJECTED, and replaced wholesale when the report is edited.
type VisitRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID   uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"customer,omitempty"`
	VisitTime  string    `gorm:"type:varchar(5);not null" json:"visit_time"` // HH:MM, minute granularity
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
