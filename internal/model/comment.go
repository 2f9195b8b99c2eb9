package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment is an append-only remark on a daily report. Comments can be posted
// regardless of report status and deleted only by their author. Rejection
// reasons are stored here with a marker prefix.
type Comment struct {
	ID        uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"report_id"`
	AuthorID  uuid.UUID    `gorm:"type:uuid;not null" json:"author_id"`
	Author    *SalesPerson `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content   string       `gorm:"type:varchar(1000);not null" json:"content"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
}
