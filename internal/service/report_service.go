package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/masakazoo1979/dailyReport-sub001/internal/model"
	"github.com/masakazoo1979/dailyReport-sub001/internal/repository"
	"github.com/masakazoo1979/dailyReport-sub001/internal/workflow"
	"github.com/masakazoo1979/dailyReport-sub001/internal/ws"
	"github.com/masakazoo1979/dailyReport-sub001/pkg/apperr"
)

// --- DTOs ---

type VisitInput struct {
	CustomerID string `json:"customer_id" binding:"required"`
	VisitTime  string `json:"visit_time" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

type CreateReportRequest struct {
	ReportDate string       `json:"report_date" binding:"required"`
	Problem    string       `json:"problem"`
	Plan       string       `json:"plan"`
	Status     string       `json:"status" binding:"omitempty,oneof=DRAFT SUBMITTED"`
	Visits     []VisitInput `json:"visits"`
}

type UpdateReportRequest struct {
	Problem string       `json:"problem"`
	Plan    string       `json:"plan"`
	Status  string       `json:"status" binding:"omitempty,oneof=DRAFT SUBMITTED"`
	Visits  []VisitInput `json:"visits"`
}

type RejectReportRequest struct {
	Comment string `json:"comment" binding:"required"`
}

type PostCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// ReportListFilter carries the query-string filters for report listing.
type ReportListFilter struct {
	DateFrom string
	DateTo   string
	Status   string
	OwnerID  string
	Page     int
	Limit    int
	Sort     string
}

type VisitResponse struct {
	ID           string `json:"id"`
	ReportID     string `json:"report_id"`
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name,omitempty"`
	VisitTime    string `json:"visit_time"`
	Content      string `json:"content"`
}

type CommentResponse struct {
	ID         string `json:"id"`
	ReportID   string `json:"report_id"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name,omitempty"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

type ReportResponse struct {
	ID            string          `json:"id"`
	SalesPersonID string          `json:"sales_person_id"`
	OwnerName     string          `json:"owner_name,omitempty"`
	ReportDate    string          `json:"report_date"`
	Problem       string          `json:"problem"`
	Plan          string          `json:"plan"`
	Status        string          `json:"status"`
	SubmittedAt   *string         `json:"submitted_at"`
	ApprovedAt    *string         `json:"approved_at"`
	ApprovedBy    *string         `json:"approved_by"`
	ApproverName  string          `json:"approver_name,omitempty"`
	Visits        []VisitResponse `json:"visits"`
	CreatedAt     string          `json:"created_at"`
}

// --- Interface ---

// ReportService owns the daily-report lifecycle: creation, full-replace
// editing, the submit/approve/reject state machine, visit records, and the
// comment stream. Every mutation runs inside a single transaction.
type ReportService interface {
	CreateReport(ctx context.Context, actor workflow.Actor, req CreateReportRequest) (*ReportResponse, error)
	GetReport(ctx context.Context, actor workflow.Actor, reportID string) (*ReportResponse, error)
	ListReports(ctx context.Context, actor workflow.Actor, filter ReportListFilter) ([]ReportResponse, int64, error)
	UpdateReport(ctx context.Context, actor workflow.Actor, reportID string, req UpdateReportRequest) (*ReportResponse, error)
	DeleteReport(ctx context.Context, actor workflow.Actor, reportID string) error
	SubmitReport(ctx context.Context, actor workflow.Actor, reportID string) (*ReportResponse, error)
	ApproveReport(ctx context.Context, actor workflow.Actor, reportID string) (*ReportResponse, error)
	RejectReport(ctx context.Context, actor workflow.Actor, reportID string, comment string) (*ReportResponse, error)

	AddVisit(ctx context.Context, actor workflow.Actor, reportID string, req VisitInput) (*VisitResponse, error)
	UpdateVisit(ctx context.Context, actor workflow.Actor, reportID, visitID string, req VisitInput) (*VisitResponse, error)
	DeleteVisit(ctx context.Context, actor workflow.Actor, reportID, visitID string) error

	PostComment(ctx context.Context, actor workflow.Actor, reportID string, content string) (*CommentResponse, error)
	ListComments(ctx context.Context, actor workflow.Actor, reportID string) ([]CommentResponse, error)
	DeleteComment(ctx context.Context, actor workflow.Actor, commentID string) error
}

type reportService struct {
	reports  repository.ReportRepository
	comments repository.CommentRepository
	customers repository.CustomerRepository
	people   repository.SalesPersonRepository
	txm      repository.TransactionManager
	hub      *ws.Hub // optional event hub
}

func NewReportService(
	reports repository.ReportRepository,
	comments repository.CommentRepository,
	customers repository.CustomerRepository,
	people repository.SalesPersonRepository,
	txm repository.TransactionManager,
	hub *ws.Hub,
) ReportService {
	return &reportService{
		reports:   reports,
		comments:  comments,
		customers: customers,
		people:    people,
		txm:       txm,
		hub:       hub,
	}
}

// --- Helpers ---

func parseID(s, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid %s id", entity)
	}
	return id, nil
}

func ownerManagerID(report *model.DailyReport) *uuid.UUID {
	if report.SalesPerson != nil {
		return report.SalesPerson.ManagerID
	}
	return nil
}

func (s *reportService) loadReport(ctx context.Context, reportID string) (*model.DailyReport, error) {
	id, err := parseID(reportID, "report")
	if err != nil {
		return nil, err
	}
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromGorm(err, "report")
	}
	return report, nil
}

// buildVisits validates visit inputs and resolves their customers.
func (s *reportService) buildVisits(ctx context.Context, inputs []VisitInput) ([]model.VisitRecord, error) {
	visits := make([]model.VisitRecord, 0, len(inputs))
	for _, in := range inputs {
		customerID, err := parseID(in.CustomerID, "customer")
		if err != nil {
			return nil, err
		}
		if _, err := s.customers.GetByID(ctx, customerID); err != nil {
			return nil, apperr.FromGorm(err, "customer")
		}
		visitTime, err := workflow.ParseVisitTime(in.VisitTime)
		if err != nil {
			return nil, err
		}
		if err := workflow.ValidateVisitContent(in.Content); err != nil {
			return nil, err
		}
		visits = append(visits, model.VisitRecord{
			CustomerID: customerID,
			VisitTime:  visitTime,
			Content:    in.Content,
		})
	}
	return visits, nil
}

func (s *reportService) publish(eventType string, report *model.DailyReport, actor workflow.Actor) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(ws.Event{
		Type:       eventType,
		ReportID:   report.ID.String(),
		OwnerID:    report.SalesPersonID.String(),
		ActorID:    actor.ID.String(),
		Status:     report.Status,
		OccurredAt: time.Now(),
	})
}

// --- Report lifecycle ---

func (s *reportService) CreateReport(ctx context.Context, actor workflow.Actor, req CreateReportRequest) (*ReportResponse, error) {
	reportDate, err := workflow.ParseReportDate(req.ReportDate)
	if err != nil {
		return nil, err
	}

	status := workflow.Status(req.Status)
	if req.Status == "" {
		status = workflow.StatusDraft
	}
	if status != workflow.StatusDraft && status != workflow.StatusSubmitted {
		return nil, apperr.Validation("a report can only be created as DRAFT or SUBMITTED")
	}

	visits, err := s.buildVisits(ctx, req.Visits)
	if err != nil {
		return nil, err
	}
	if status == workflow.StatusSubmitted && len(visits) == 0 {
		return nil, apperr.StateConflict("a report needs at least one visit record to be submitted")
	}

	// Best-effort pre-check; the unique index is the authoritative guard.
	if _, err := s.reports.GetByOwnerAndDate(ctx, actor.ID, reportDate); err == nil {
		return nil, apperr.Duplicate("a report for %s already exists", req.ReportDate)
	}

	report := &model.DailyReport{
		SalesPersonID: actor.ID,
		ReportDate:    reportDate,
		Problem:       req.Problem,
		Plan:          req.Plan,
		Status:        string(status),
		Visits:        visits,
	}
	if status == workflow.StatusSubmitted {
		now := time.Now()
		report.SubmittedAt = &now
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		return apperr.FromGorm(s.reports.Create(txCtx, report), "report")
	})
	if err != nil {
		return nil, err
	}

	created, err := s.reports.GetByID(ctx, report.ID)
	if err != nil {
		return nil, apperr.FromGorm(err, "report")
	}
	if status == workflow.StatusSubmitted {
		s.publish(ws.EventReportSubmitted, created, actor)
	}
	return toReportResponse(created), nil
}

func (s *reportService) GetReport(ctx context.Context, actor workflow.Actor, reportID string) (*ReportResponse, error) {
	report, err := s.loadReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckView(actor, report.SalesPersonID, ownerManagerID(report)); err != nil {
		return nil, err
	}
	return toReportResponse(report), nil
}

// visibleOwnerIDs returns the actor's own id plus, for managers, the ids of
// all direct subordinates.
func (s *reportService) visibleOwnerIDs(ctx context.Context, actor workflow.Actor) ([]uuid.UUID, error) {
	ids := []uuid.UUID{actor.ID}
	if actor.Role == workflow.RoleManager {
		subIDs, err := s.people.ListSubordinateIDs(ctx, actor.ID)
		if err != nil {
			return nil, apperr.FromGorm(err, "salesperson")
		}
		ids = append(ids, subIDs...)
	}
	return ids, nil
}

func (s *reportService) ListReports(ctx context.Context, actor workflow.Actor, filter ReportListFilter) ([]ReportResponse, int64, error) {
	visible, err := s.visibleOwnerIDs(ctx, actor)
	if err != nil {
		return nil, 0, err
	}

	repoFilter := repository.ReportFilter{
		OwnerIDs: visible,
		Status:   filter.Status,
		Page:     filter.Page,
		Limit:    filter.Limit,
		Sort:     filter.Sort,
	}

	if filter.Status != "" && !workflow.Status(filter.Status).Valid() {
		return nil, 0, apperr.Validation("invalid status filter %q", filter.Status)
	}
	if filter.DateFrom != "" {
		from, err := workflow.ParseReportDate(filter.DateFrom)
		if err != nil {
			return nil, 0, err
		}
		repoFilter.DateFrom = &from
	}
	if filter.DateTo != "" {
		to, err := workflow.ParseReportDate(filter.DateTo)
		if err != nil {
			return nil, 0, err
		}
		repoFilter.DateTo = &to
	}
	if filter.OwnerID != "" {
		ownerID, err := parseID(filter.OwnerID, "salesperson")
		if err != nil {
			return nil, 0, err
		}
		found := false
		for _, id := range visible {
			if id == ownerID {
				found = true
				break
			}
		}
		if !found {
			return nil, 0, apperr.Authorization("no access to this salesperson's reports")
		}
		repoFilter.OwnerID = &ownerID
	}

	reports, total, err := s.reports.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, apperr.FromGorm(err, "report")
	}

	result := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		result = append(result, *toReportResponse(&reports[i]))
	}
	return result, total, nil
}

// UpdateReport replaces the report content and its entire visit set. The
// visit list is a full replace, never a diff: callers must always send the
// complete list or lose visits they omitted.
func (s *reportService) UpdateReport(ctx context.Context, actor workflow.Actor, reportID string, req UpdateReportRequest) (*ReportResponse, error) {
	id, err := parseID(reportID, "report")
	if err != nil {
		return nil, err
	}

	target := workflow.Status(req.Status)
	if req.Status == "" {
		target = workflow.StatusDraft
	}
	if target != workflow.StatusDraft && target != workflow.StatusSubmitted {
		return nil, apperr.Validation("an edit can only save the report as DRAFT or SUBMITTED")
	}

	visits, err := s.buildVisits(ctx, req.Visits)
	if err != nil {
		return nil, err
	}

	var submitted bool
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		report, err := s.reports.GetByID(txCtx, id)
		if err != nil {
			return apperr.FromGorm(err, "report")
		}
		if err := workflow.CheckOwnerEdit(actor, report.SalesPersonID); err != nil {
			return err
		}
		current := workflow.Status(report.Status)
		if !current.Editable() {
			return apperr.StateConflict("report is %s and cannot be edited", current)
		}
		if err := workflow.ValidateTransition(current, target); err != nil {
			return err
		}
		if target == workflow.StatusSubmitted && len(visits) == 0 {
			return apperr.StateConflict("a report needs at least one visit record to be submitted")
		}

		// Delete-all-then-recreate, atomic with the field update.
		if err := s.reports.ReplaceVisits(txCtx, report.ID, visits); err != nil {
			return apperr.FromGorm(err, "visit")
		}

		report.Problem = req.Problem
		report.Plan = req.Plan
		report.Status = string(target)
		if target == workflow.StatusSubmitted {
			now := time.Now()
			report.SubmittedAt = &now
			submitted = true
		}
		return apperr.FromGorm(s.reports.Update(txCtx, report), "report")
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromGorm(err, "report")
	}
	if submitted {
		s.publish(ws.EventReportSubmitted, updated, actor)
	}
	return toReportResponse(updated), nil
}

func (s *reportService) DeleteReport(ctx context.Context, actor workflow.Actor, reportID string) error {
	id, err := parseID(reportID, "report")
	if err != nil {
		return err
	}
	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		report, err := s.reports.GetByID(txCtx, id)
		if err != nil {
			return apperr.FromGorm(err, "report")
		}
		if err := workflow.CheckOwnerEdit(actor, report.SalesPersonID); err != nil {
			return err
		}
		if !workflow.Status(report.Status).Editable() {
			return apperr.StateConflict("report is %s and cannot be deleted", report.Status)
		}
		return apperr.FromGorm(s.reports.Delete(txCtx, id), "report")
	})
}

// SubmitReport moves a DRAFT or REJECTED report to SUBMITTED. The visit-count
// guard runs inside the same transaction as the transition.
func (s *reportService) SubmitReport(ctx context.Context, actor workflow.Actor, reportID string) (*ReportResponse, error) {
	id, err := parseID(reportID, "report")
	if err != nil {
		return nil, err
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		report, err := s.reports.GetByID(txCtx, id)
		if err != nil {
			return apperr.FromGorm(err, "report")
		}
		if err := workflow.CheckOwnerEdit(actor, report.SalesPersonID); err != nil {
			return err
		}
		if err := workflow.ValidateTransition(workflow.Status(report.Status), workflow.StatusSubmitted); err != nil {
			return err
		}
		count, err := s.reports.CountVisits(txCtx, report.ID)
		if err != nil {
			return apperr.FromGorm(err, "visit")
		}
		if count == 0 {
			return apperr.StateConflict("a report needs at least one visit record to be submitted")
		}

		now := time.Now()
		report.Status = string(workflow.StatusSubmitted)
		report.SubmittedAt = &now
		return apperr.FromGorm(s.reports.Update(txCtx, report), "report")
	})
	if err != nil {
		return nil, err
	}

	submitted, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromGorm(err, "report")
	}
	s.publish(ws.EventReportSubmitted, submitted, actor)
	return toReportResponse(submitted), nil
}

func (s *reportService) ApproveReport(ctx context.Context, actor workflow.Actor, reportID string) (*ReportResponse, error) {
	id, err := parseID(reportID, "report")
	if err != nil {
		return nil, err
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		report, err := s.reports.GetByID(txCtx, id)
		if err != nil {
			return apperr.FromGorm(err, "report")
		}
		if err := workflow.CheckDecide(actor, report.SalesPersonID, ownerManagerID(report), workflow.Status(report.Status)); err != nil {
			return err
		}

		now := time.Now()
		report.Status = string(workflow.StatusApproved)
		report.ApprovedAt = &now
		report.ApprovedBy = &actor.ID
		return apperr.FromGorm(s.reports.Update(txCtx, report), "report")
	})
	if err != nil {
		return nil, err
	}

	approved, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromGorm(err, "report")
	}
	s.publish(ws.EventReportApproved, approved, actor)
	return toReportResponse(approved), nil
}

// RejectReport moves a SUBMITTED report back to REJECTED. The mandatory
// rejection reason is persisted as a marked comment in the same transaction
// as the status flip.
func (s *reportService) RejectReport(ctx context.Context, actor workflow.Actor, reportID string, comment string) (*ReportResponse, error) {
	id, err := parseID(reportID, "report")
	if err != nil {
		return nil, err
	}
	if err := workflow.ValidateCommentContent(comment); err != nil {
		return nil, err
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		report, err := s.reports.GetByID(txCtx, id)
		if err != nil {
			return apperr.FromGorm(err, "report")
		}
		if err := workflow.CheckDecide(actor, report.SalesPersonID, ownerManagerID(report), workflow.Status(report.Status)); err != nil {
			return err
		}

		report.Status = string(workflow.StatusRejected)
		if err := s.reports.Update(txCtx, report); err != nil {
			return apperr.FromGorm(err, "report")
		}

		reason := &model.Comment{
			ReportID: report.ID,
			AuthorID: actor.ID,
			Content:  workflow.RejectionCommentPrefix + comment,
		}
		return apperr.FromGorm(s.comments.Create(txCtx, reason), "comment")
	})
	if err != nil {
		return nil, err
	}

	rejected, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromGorm(err, "report")
	}
	s.publish(ws.EventReportRejected, rejected, actor)
	return toReportResponse(rejected), nil
}

// --- Visit records ---

func (s *reportService) AddVisit(ctx context.Context, actor workflow.Actor, reportID string, req VisitInput) (*VisitResponse, error) {
	report, err := s.loadReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckEditVisits(actor, report.SalesPersonID, ownerManagerID(report), workflow.Status(report.Status)); err != nil {
		return nil, err
	}

	visits, err := s.buildVisits(ctx, []VisitInput{req})
	if err != nil {
		return nil, err
	}
	visit := visits[0]
	visit.ReportID = report.ID

	if err := s.reports.AddVisit(ctx, &visit); err != nil {
		return nil, apperr.FromGorm(err, "visit")
	}
	return toVisitResponse(&visit), nil
}

func (s *reportService) UpdateVisit(ctx context.Context, actor workflow.Actor, reportID, visitID string, req VisitInput) (*VisitResponse, error) {
	report, err := s.loadReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckEditVisits(actor, report.SalesPersonID, ownerManagerID(report), workflow.Status(report.Status)); err != nil {
		return nil, err
	}

	vid, err := parseID(visitID, "visit")
	if err != nil {
		return nil, err
	}
	visit, err := s.reports.GetVisit(ctx, vid)
	if err != nil {
		return nil, apperr.FromGorm(err, "visit")
	}
	if visit.ReportID != report.ID {
		return nil, apperr.NotFound("visit not found")
	}

	built, err := s.buildVisits(ctx, []VisitInput{req})
	if err != nil {
		return nil, err
	}
	visit.CustomerID = built[0].CustomerID
	visit.VisitTime = built[0].VisitTime
	visit.Content = built[0].Content

	if err := s.reports.UpdateVisit(ctx, visit); err != nil {
		return nil, apperr.FromGorm(err, "visit")
	}
	return toVisitResponse(visit), nil
}

func (s *reportService) DeleteVisit(ctx context.Context, actor workflow.Actor, reportID, visitID string) error {
	report, err := s.loadReport(ctx, reportID)
	if err != nil {
		return err
	}
	if err := workflow.CheckEditVisits(actor, report.SalesPersonID, ownerManagerID(report), workflow.Status(report.Status)); err != nil {
		return err
	}

	vid, err := parseID(visitID, "visit")
	if err != nil {
		return err
	}
	visit, err := s.reports.GetVisit(ctx, vid)
	if err != nil {
		return apperr.FromGorm(err, "visit")
	}
	if visit.ReportID != report.ID {
		return apperr.NotFound("visit not found")
	}
	return apperr.FromGorm(s.reports.DeleteVisit(ctx, vid), "visit")
}

// --- Comments ---

func (s *reportService) PostComment(ctx context.Context, actor workflow.Actor, reportID string, content string) (*CommentResponse, error) {
	report, err := s.loadReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	// Comments are independent of report status.
	if err := workflow.CheckView(actor, report.SalesPersonID, ownerManagerID(report)); err != nil {
		return nil, err
	}
	if err := workflow.ValidateCommentContent(content); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ReportID: report.ID,
		AuthorID: actor.ID,
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperr.FromGorm(err, "comment")
	}
	return toCommentResponse(comment), nil
}

func (s *reportService) ListComments(ctx context.Context, actor workflow.Actor, reportID string) ([]CommentResponse, error) {
	report, err := s.loadReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := workflow.CheckView(actor, report.SalesPersonID, ownerManagerID(report)); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByReport(ctx, report.ID)
	if err != nil {
		return nil, apperr.FromGorm(err, "comment")
	}
	result := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		result = append(result, *toCommentResponse(&comments[i]))
	}
	return result, nil
}

func (s *reportService) DeleteComment(ctx context.Context, actor workflow.Actor, commentID string) error {
	id, err := parseID(commentID, "comment")
	if err != nil {
		return err
	}
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return apperr.FromGorm(err, "comment")
	}
	if err := workflow.CheckDeleteComment(actor, comment.AuthorID); err != nil {
		return err
	}
	return apperr.FromGorm(s.comments.Delete(ctx, id), "comment")
}

// --- Mapping ---

func toVisitResponse(v *model.VisitRecord) *VisitResponse {
	resp := &VisitResponse{
		ID:         v.ID.String(),
		ReportID:   v.ReportID.String(),
		CustomerID: v.CustomerID.String(),
		VisitTime:  v.VisitTime,
		Content:    v.Content,
	}
	if v.Customer != nil {
		resp.CustomerName = v.Customer.CompanyName
	}
	return resp
}

func toCommentResponse(c *model.Comment) *CommentResponse {
	resp := &CommentResponse{
		ID:        c.ID.String(),
		ReportID:  c.ReportID.String(),
		AuthorID:  c.AuthorID.String(),
		Content:   c.Content,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	if c.Author != nil {
		resp.AuthorName = c.Author.Name
	}
	return resp
}

func toReportResponse(r *model.DailyReport) *ReportResponse {
	resp := &ReportResponse{
		ID:            r.ID.String(),
		SalesPersonID: r.SalesPersonID.String(),
		ReportDate:    r.ReportDate.Format("2006-01-02"),
		Problem:       r.Problem,
		Plan:          r.Plan,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.SalesPerson != nil {
		resp.OwnerName = r.SalesPerson.Name
	}
	if r.SubmittedAt != nil {
		s := r.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &s
	}
	if r.ApprovedAt != nil {
		s := r.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	if r.ApprovedBy != nil {
		s := r.ApprovedBy.String()
		resp.ApprovedBy = &s
	}
	if r.Approver != nil {
		resp.ApproverName = r.Approver.Name
	}
	resp.Visits = make([]VisitResponse, 0, len(r.Visits))
	for i := range r.Visits {
		resp.Visits = append(resp.Visits, *toVisitResponse(&r.Visits[i]))
	}
	return resp
}
