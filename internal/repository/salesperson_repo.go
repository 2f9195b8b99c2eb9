package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/masakazoo1979/dailyReport-sub001/internal/model"
)

// SalesPersonRepository defines data access for SalesPerson entities.
type SalesPersonRepository interface {
	Create(ctx context.Context, sp *model.SalesPerson) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.SalesPerson, error)
	GetByEmail(ctx context.Context, email string) (*model.SalesPerson, error)
	List(ctx context.Context, page, limit int) ([]model.SalesPerson, int64, error)
	ListSubordinateIDs(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error)
	Update(ctx context.Context, sp *model.SalesPerson) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type salesPersonRepository struct {
	db *gorm.DB
}

func NewSalesPersonRepository(db *gorm.DB) SalesPersonRepository {
	return &salesPersonRepository{db: db}
}

func (r *salesPersonRepository) Create(ctx context.Context, sp *model.SalesPerson) error {
	return GetDB(ctx, r.db).Create(sp).Error
}

func (r *salesPersonRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SalesPerson, error) {
	var sp model.SalesPerson
	if err := GetDB(ctx, r.db).Preload("Manager").First(&sp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *salesPersonRepository) GetByEmail(ctx context.Context, email string) (*model.SalesPerson, error) {
	var sp model.SalesPerson
	if err := GetDB(ctx, r.db).First(&sp, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &sp, nil
}

func (r *salesPersonRepository) List(ctx context.Context, page, limit int) ([]model.SalesPerson, int64, error) {
	var people []model.SalesPerson
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.SalesPerson{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit
	if err := db.Preload("Manager").Order("name ASC").Offset(offset).Limit(limit).Find(&people).Error; err != nil {
		return nil, 0, err
	}

	return people, total, nil
}

func (r *salesPersonRepository) ListSubordinateIDs(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := GetDB(ctx, r.db).Model(&model.SalesPerson{}).
		Where("manager_id = ?", managerID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *salesPersonRepository) Update(ctx context.Context, sp *model.SalesPerson) error {
	return GetDB(ctx, r.db).Save(sp).Error
}

func (r *salesPersonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.SalesPerson{}).Error
}
