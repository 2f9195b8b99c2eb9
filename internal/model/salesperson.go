package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role enum constants
const (
	RoleStaff   = "STAFF"
	RoleManager = "MANAGER"
)

// SalesPerson represents a sales employee. A MANAGER's direct subordinates are
// all SalesPerson rows whose ManagerID equals the manager's ID (one level only).
type SalesPerson struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name       string         `gorm:"type:varchar(100);not null" json:"name"`
	Email      string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Department string         `gorm:"type:varchar(100)" json:"department"`
	Password   string         `gorm:"type:varchar(255);not null" json:"-"` // Omit bcrypt hash from JSON
	Role       string         `gorm:"type:varchar(20);not null" json:"role"` // STAFF, MANAGER
	ManagerID  *uuid.UUID     `gorm:"type:uuid;index" json:"manager_id"`
	Manager    *SalesPerson   `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}
