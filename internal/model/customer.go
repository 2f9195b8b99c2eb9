package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Industry enum constants
const (
	IndustryManufacturing = "MANUFACTURING"
	IndustryRetail        = "RETAIL"
	IndustryFinance       = "FINANCE"
	IndustryIT            = "IT"
	IndustryConstruction  = "CONSTRUCTION"
	IndustryOther         = "OTHER"
)

// Customer is a visit target company. It cannot be deleted while any
// VisitRecord still references it.
type Customer struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyName string         `gorm:"type:varchar(255);not null" json:"company_name"`
	ContactName string         `gorm:"type:varchar(100);not null" json:"contact_name"`
	Industry    string         `gorm:"type:varchar(30)" json:"industry"`
	Phone       string         `gorm:"type:varchar(20)" json:"phone"`
	Email       string         `gorm:"type:varchar(255)" json:"email"`
	Address     string         `gorm:"type:varchar(500)" json:"address"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
