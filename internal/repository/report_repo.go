package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/masakazoo1979/dailyReport-sub001/internal/model"
)

// ReportFilter narrows report listings. OwnerIDs is the actor's visibility
// scope (own id plus direct subordinates) and is always applied; OwnerID is
// an optional explicit filter within that scope.
type ReportFilter struct {
	OwnerIDs []uuid.UUID
	OwnerID  *uuid.UUID
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
	Sort     string // whitelisted ORDER BY expression
}

// ReportRepository defines data access for DailyReport and its visit records.
type ReportRepository interface {
	Create(ctx context.Context, report *model.DailyReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.DailyReport, error)
	GetByOwnerAndDate(ctx context.Context, ownerID uuid.UUID, date time.Time) (*model.DailyReport, error)
	List(ctx context.Context, filter ReportFilter) ([]model.DailyReport, int64, error)
	Update(ctx context.Context, report *model.DailyReport) error
	Delete(ctx context.Context, id uuid.UUID) error

	CountVisits(ctx context.Context, reportID uuid.UUID) (int64, error)
	ReplaceVisits(ctx context.Context, reportID uuid.UUID, visits []model.VisitRecord) error
	AddVisit(ctx context.Context, visit *model.VisitRecord) error
	GetVisit(ctx context.Context, visitID uuid.UUID) (*model.VisitRecord, error)
	UpdateVisit(ctx context.Context, visit *model.VisitRecord) error
	DeleteVisit(ctx context.Context, visitID uuid.UUID) error
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func orderedVisits(db *gorm.DB) *gorm.DB {
	return db.Order("visit_time ASC")
}

func (r *reportRepository) Create(ctx context.Context, report *model.DailyReport) error {
	return GetDB(ctx, r.db).Create(report).Error
}

func (r *reportRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DailyReport, error) {
	var report model.DailyReport
	err := GetDB(ctx, r.db).
		Preload("SalesPerson").
		Preload("Approver").
		Preload("Visits", orderedVisits).
		First(&report, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) GetByOwnerAndDate(ctx context.Context, ownerID uuid.UUID, date time.Time) (*model.DailyReport, error) {
	var report model.DailyReport
	err := GetDB(ctx, r.db).
		First(&report, "sales_person_id = ? AND report_date = ?", ownerID, date).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]model.DailyReport, int64, error) {
	var reports []model.DailyReport
	var total int64

	db := GetDB(ctx, r.db)
	build := func() *gorm.DB {
		q := db.Model(&model.DailyReport{}).Where("sales_person_id IN ?", filter.OwnerIDs)
		if filter.OwnerID != nil {
			q = q.Where("sales_person_id = ?", *filter.OwnerID)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.DateFrom != nil {
			q = q.Where("report_date >= ?", *filter.DateFrom)
		}
		if filter.DateTo != nil {
			q = q.Where("report_date <= ?", *filter.DateTo)
		}
		return q
	}

	if err := build().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := filter.Sort
	if sort == "" {
		sort = "report_date DESC"
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	offset := (filter.Page - 1) * filter.Limit
	err := build().
		Preload("SalesPerson").
		Preload("Approver").
		Preload("Visits", orderedVisits).
		Order(sort).
		Offset(offset).
		Limit(filter.Limit).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

func (r *reportRepository) Update(ctx context.Context, report *model.DailyReport) error {
	return GetDB(ctx, r.db).Omit("Visits", "Comments", "SalesPerson", "Approver").Save(report).Error
}

func (r *reportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("report_id = ?", id).Delete(&model.VisitRecord{}).Error; err != nil {
		return err
	}
	if err := db.Where("report_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.DailyReport{}).Error
}

func (r *reportRepository) CountVisits(ctx context.Context, reportID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.VisitRecord{}).
		Where("report_id = ?", reportID).
		Count(&count).Error
	return count, err
}

// ReplaceVisits deletes the report's entire visit set and recreates it. A PUT
// on a report's visit list is a full replace, not a diff; callers must run
// this inside RunInTx so a failure never leaves the report without visits.
func (r *reportRepository) ReplaceVisits(ctx context.Context, reportID uuid.UUID, visits []model.VisitRecord) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("report_id = ?", reportID).Delete(&model.VisitRecord{}).Error; err != nil {
		return err
	}
	if len(visits) == 0 {
		return nil
	}
	for i := range visits {
		visits[i].ReportID = reportID
	}
	return db.Create(&visits).Error
}

func (r *reportRepository) AddVisit(ctx context.Context, visit *model.VisitRecord) error {
	return GetDB(ctx, r.db).Create(visit).Error
}

func (r *reportRepository) GetVisit(ctx context.Context, visitID uuid.UUID) (*model.VisitRecord, error) {
	var visit model.VisitRecord
	if err := GetDB(ctx, r.db).First(&visit, "id = ?", visitID).Error; err != nil {
		return nil, err
	}
	return &visit, nil
}

func (r *reportRepository) UpdateVisit(ctx context.Context, visit *model.VisitRecord) error {
	return GetDB(ctx, r.db).Save(visit).Error
}

func (r *reportRepository) DeleteVisit(ctx context.Context, visitID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", visitID).Delete(&model.VisitRecord{}).Error
}
