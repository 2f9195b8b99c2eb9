package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/masakazoo1979/dailyReport-sub001/internal/model"
	"github.com/masakazoo1979/dailyReport-sub001/internal/repository"
	"github.com/masakazoo1979/dailyReport-sub001/internal/workflow"
	"github.com/masakazoo1979/dailyReport-sub001/pkg/apperr"
)

// StatisticsResponse aggregates report counts over a date range, scoped to
// the actor's visibility.
type StatisticsResponse struct {
	TimeRangeStartDate time.Time `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time `json:"time_range_end_date"`
	TotalReports       int64     `json:"total_reports"`
	DraftCount         int64     `json:"draft_count"`
	SubmittedCount     int64     `json:"submitted_count"`
	ApprovedCount      int64     `json:"approved_count"`
	RejectedCount      int64     `json:"rejected_count"`
	TotalVisits        int64     `json:"total_visits"`
	// ApprovalRate is approved / (approved + rejected), fixed to 4 places.
	ApprovalRate string `json:"approval_rate"`
}

type StatisticsService interface {
	GetStatistics(ctx context.Context, actor workflow.Actor, startDate, endDate time.Time) (StatisticsResponse, error)
}

type statisticsService struct {
	db     *gorm.DB
	people repository.SalesPersonRepository
}

func NewStatisticsService(db *gorm.DB, people repository.SalesPersonRepository) StatisticsService {
	return &statisticsService{db: db, people: people}
}

func (s *statisticsService) GetStatistics(ctx context.Context, actor workflow.Actor, startDate, endDate time.Time) (StatisticsResponse, error) {
	response := StatisticsResponse{
		TimeRangeStartDate: startDate,
		TimeRangeEndDate:   endDate,
		ApprovalRate:       "0.0000",
	}

	ownerIDs := []interface{}{actor.ID}
	if actor.Role == workflow.RoleManager {
		subIDs, err := s.people.ListSubordinateIDs(ctx, actor.ID)
		if err != nil {
			return response, apperr.FromGorm(err, "salesperson")
		}
		for _, id := range subIDs {
			ownerIDs = append(ownerIDs, id)
		}
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	err := s.db.WithContext(ctx).Model(&model.DailyReport{}).
		Select("status, COUNT(*) as count").
		Where("sales_person_id IN ? AND report_date >= ? AND report_date <= ?", ownerIDs, startDate, endDate).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return response, apperr.FromGorm(err, "report")
	}

	for _, c := range counts {
		response.TotalReports += c.Count
		switch c.Status {
		case model.ReportStatusDraft:
			response.DraftCount = c.Count
		case model.ReportStatusSubmitted:
			response.SubmittedCount = c.Count
		case model.ReportStatusApproved:
			response.ApprovedCount = c.Count
		case model.ReportStatusRejected:
			response.RejectedCount = c.Count
		}
	}

	err = s.db.WithContext(ctx).Model(&model.VisitRecord{}).
		Joins("JOIN daily_reports ON daily_reports.id = visit_records.report_id").
		Where("daily_reports.sales_person_id IN ? AND daily_reports.report_date >= ? AND daily_reports.report_date <= ?", ownerIDs, startDate, endDate).
		Count(&response.TotalVisits).Error
	if err != nil {
		return response, apperr.FromGorm(err, "visit")
	}

	decided := response.ApprovedCount + response.RejectedCount
	if decided > 0 {
		rate := decimal.NewFromInt(response.ApprovedCount).
			Div(decimal.NewFromInt(decided))
		response.ApprovalRate = rate.StringFixed(4)
	}

	return response, nil
}
