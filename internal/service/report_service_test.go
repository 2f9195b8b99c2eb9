package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/masakazoo1979/dailyReport-sub001/internal/model"
	"github.com/masakazoo1979/dailyReport-sub001/internal/repository"
	"github.com/masakazoo1979/dailyReport-sub001/internal/testutil"
	"github.com/masakazoo1979/dailyReport-sub001/internal/workflow"
	"github.com/masakazoo1979/dailyReport-sub001/pkg/apperr"
)

type reportTestEnv struct {
	db       *gorm.DB
	svc      ReportService
	manager  *model.SalesPerson
	staff    *model.SalesPerson
	customer *model.Customer
}

func setupReportTest(t *testing.T) *reportTestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	manager := testutil.SeedSalesPerson(t, db, "Manager Sato", "sato@example.com", "password123", model.RoleManager, nil)
	staff := testutil.SeedSalesPerson(t, db, "Staff Tanaka", "tanaka@example.com", "password123", model.RoleStaff, &manager.ID)
	customer := testutil.SeedCustomer(t, db, "Acme Corp", "John Doe")

	svc := NewReportService(
		repository.NewReportRepository(db),
		repository.NewCommentRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewSalesPersonRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)

	return &reportTestEnv{db: db, svc: svc, manager: manager, staff: staff, customer: customer}
}

func (e *reportTestEnv) staffActor() workflow.Actor {
	return workflow.Actor{ID: e.staff.ID, Role: workflow.RoleStaff}
}

func (e *reportTestEnv) managerActor() workflow.Actor {
	return workflow.Actor{ID: e.manager.ID, Role: workflow.RoleManager}
}

func (e *reportTestEnv) oneVisit() []VisitInput {
	return []VisitInput{{
		CustomerID: e.customer.ID.String(),
		VisitTime:  "10:00",
		Content:    "Quarterly review meeting",
	}}
}

func TestReportLifecycleDraftSubmitApprove(t *testing.T) {
	env := setupReportTest(t)
	ctx := context.Background()

	created, err := env.svc.CreateReport(ctx, env.staffActor(), CreateReportRequest{
		ReportDate: "2026-08-28",
		Problem:    "Pricing pushback",
		Plan:       "Prepare discount proposal",
		Visits:     env.oneVisit(),
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if created.Status != model.ReportStatusDraft {
		t.Errorf("new report status = %s, want DRAFT", created.Status)
	}
	if created.SubmittedAt != nil {
		t.Error("draft should have no submitted_at")
	}

	submitted, err := env.svc.SubmitReport(ctx, env.staffActor(), created.ID)
	if err != nil {
		t.Fatalf("SubmitReport: %v", err)
	}
	if submitted.Status != model.ReportStatusSubmitted {
		t.Errorf("status after submit = %s, want SUBMITTED", submitted.Status)
	}
	if submitted.SubmittedAt == nil {
		t.Error("submitted_at should be set on submission")
	}

	approved, err := env.svc.ApproveReport(ctx, env.managerActor(), created.ID)
	if err != nil {
		t.Fatalf("ApproveReport: %v", err)
	}
	if approved.Status != model.ReportStatusApproved {
		t.Errorf("status after approve = %s, want APPROVED", approved.Status)
	}
	if approved.ApprovedAt == nil {
		t.Error("approved_at should be set on approval")
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != env.manager.ID.String() {
		t.Errorf("approved_by = %v, want manager id", approved.ApprovedBy)
	}

	// APPROVED is terminal: no edits, no resubmission, no re-decision.
	if _, err := env.svc.SubmitReport(ctx, env.staffActor(), created.ID); apperr.KindOf(err) != apperr.KindStateConflict {
		t.Errorf("resubmitting an approved report: got %v, want state conflict", err)
	}
	if _, err := env.svc.ApproveReport(ctx, env.managerActor(), created.ID); apperr.KindOf(err) != apperr.KindStateConflict {
		t.Errorf("re-approving an approved report: got %v, want state conflict", err)
	}
}

func TestSubmitRequiresAtLeastOneVisit(t *testing.T) {
	env := setupReportTest(t)
	ctx := context.Background()

	created, err := env.svc.CreateReport(ctx, env.staffActor(), CreateReportRequest{
		ReportDate: "2026-08-28",
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	_, err = env.svc.SubmitReport(ctx, env.staffActor(), created.ID)
	if apperr.KindOf(err) != apperr.KindStateConflict {
		t.Errorf("submitting with no visits: got %v, want state conflict", err)
	}

	// Creating directly as SUBMITTED with no visits is refused the same way.
	_, err = env.svc.CreateReport(ctx, env.staffActor(), CreateReportRequest{
		ReportDate: "2026-08-29",
		Status:     model.ReportStatusSubmitted,
	})
	if apperr.KindOf(err) != apperr.KindStateConflict {
		t.Errorf("creating SUBMITTED with no visits: got %v, want state conflict", err)
	}
}

func TestRejectPersistsReasonAndAllowsResubmit(t *testing.T) {
	env := setupReportTest(t)
	ctx := context.Background()

	created, err := env.svc.CreateReport(ctx, env.staffActor(), CreateReportRequest{
		ReportDate: "2026-08-28",
		Status:     model.ReportStatusSubmitted,
		Visits:     env.oneVisit(),
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	// Rejection without a reason is refused before any state change.
	if _, err := env.svc.RejectReport(ctx, env.managerActor(), created.ID, "  "); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("rejecting without a reason: got %v, want validation error", err)
	}

	rejected, err := env.svc.RejectReport(ctx, env.managerActor(), created.ID, "訪問内容が不十分です")
	if err != nil {
		t.Fatalf("RejectReport: %v", err)
	}
	if rejected.Status != model.ReportStatusRejected {
		t.Errorf("status after reject = %s, want REJECTED", rejected.Status)
	}

	comments, err := env.svc.ListComments(ctx, env.staffActor(), created.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("comment count = %d, want 1", len(comments))
	}
	if !strings.HasPrefix(comments[0].Content, workflow.RejectionCommentPrefix) {
		t.Errorf("rejection comment %q lacks the marker prefix", comments[0].Content)
	}
	if comments[0].AuthorID != env.manager.ID.String() {
		t.Errorf("rejection comment author = %s, want manager", comments[0].AuthorID)
	}

	// A rejected report can be fixed and resubmitted.
	if _, err := env.svc.SubmitReport(ctx, env.staffActor(), created.ID); err != nil {
		t.Errorf("resubmitting a rejected report: %v", err)
	}
}

func TestEditFrozenAfterSubmission(t *testing.T) {
	env := setupReportTest(t)
	ctx := context.Background()

	created, err := env.svc.CreateReport(ctx, env.staffActor(), CreateReportRequest{
		ReportDate: "2026-08-28",
		Status:     model.ReportStatusSubmitted,
		Visits:     env.oneVisit(),
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	_, err = env.svc.UpdateReport(ctx, env.staffActor(), created.ID, UpdateReportRequest{
		Problem: "changed",
		Visits:  env.oneVisit(),
	})
	if apperr.KindOf(err) != apperr.KindStateConflict {
		t.Errorf("editing a SUBMITTED report: got %v, want state conflict", err)
	}

	_, err = env.svc.AddVisit(ctx, env.staffActor(), created.ID, env.oneVisit()[0])
	if apperr.KindOf(err) != apperr.KindStateConflict {
		t.Errorf("adding a visit to a SUBMITTED report: got %v, want state conflict", err)
	}

	if err := env.svc.DeleteReport(ctx, env.staffActor(), created.ID); apperr.KindOf(err) != apperr.KindStateConflict {
		t.Errorf("deleting a SUBMITTED report: got %v, want state conflict", err)
	}
}

func TestDecisionAuthorization(t *testing.T) {
	env := setupReportTest(t)
	ctx := context.Background()

	created, err := env.svc.CreateReport(ctx, env.staffActor(), CreateReportRequest{
		ReportDate: "2026-08-28",
		Status:     model.ReportStatusSubmitted,
		Visits:     env.oneVisit(),
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	// The owner cannot decide their own report.
	if _, err := env.svc.ApproveReport(ctx, env.staffActor(), created.ID); apperr.KindOf(err) != apperr.KindAuthorization {
		t.Errorf("self-approval: got %v, want authorization error", err)
	}

	// An unrelated manager cannot decide it either.
	other := testutil.SeedSalesPerson(t, env.db, "Manager Suzuki", "suzuki@example.com", "password123", model.RoleManager, nil)
	otherActor := workflow.Actor{ID: other.ID, Role: workflow.RoleManager}
	if _, err := env.svc.ApproveReport(ctx, otherActor, created.ID); apperr.KindOf(err) != apperr.KindAuthorization {
		t.Errorf("unrelated manager approval: got %v, want authorization error", err)
	}

	// A manager submitting a subordinate's report is refused too: submission
	// is owner-only.
	draft := testutil.SeedReport(t, env.db, env.staff.ID, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), model.ReportStatusDraft)
	if _, err := env.svc.SubmitReport(ctx, env.managerActor(), draft.ID.String()); apperr.KindOf(err) != apperr.KindAuthorization {
		t.Errorf("manager submitting subordinate's report: got %v, want authorization error", err)
	}
}

func TestOneReportPerPersonPerDay(t *testing.T) {
	env := setupReportTest(t)
	ctx := context.Background()

	if _, err := env.svc.CreateReport(ctx, env.staffActor(), CreateReportRequest{ReportDate: "2026-08-28"}); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	_, err := env.svc.CreateReport(ctx, env.staffActor(), CreateReportRequest{ReportDate: "2026-08-28"})
	if apperr.KindOf(err) != apperr.KindDuplicate {
		t.Errorf("duplicate create: got %v, want duplicate error", err)
	}

	// Another person may report on the same date.
	if _, err := env.svc.CreateReport(ctx, env.managerActor(), CreateReportRequest{ReportDate: "2026-08-28"}); err != nil {
		t.Errorf("different owner, same date: %v", err)
	}

	// The unique index is the authoritative guard below the app pre-check.
	dup := &model.DailyReport{
		SalesPersonID: env.staff.ID,
		ReportDate:    time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Status:        model.ReportStatusDraft,
	}
	err = env.db.Create(dup).Error
	if apperr.KindOf(apperr.FromGorm(err, "report")) != apperr.KindDuplicate {
		t.Errorf("index-level duplicate: got %v, want gorm.ErrDuplicatedKey translation", err)
	}
}

func TestUpdateReplacesVisitSetWholesale(t *testing.T) {
	env := setupReportTest(t)
	ctx := context.Background()

	other := testutil.SeedCustomer(t, env.db, "Globex Inc", "Jane Roe")

	created, err := env.svc.CreateReport(ctx, env.staffActor(), CreateReportRequest{
		ReportDate: "2026-08-28",
		Visits: []VisitInput{
			{CustomerID: env.customer.ID.String(), VisitTime: "14:00", Content: "Afternoon follow-up"},
			{CustomerID: env.customer.ID.String(), VisitTime: "9:30", Content: "Morning demo"},
		},
	})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	// Visits come back ordered by time of day, zero-padded.
	got, err := env.svc.GetReport(ctx, env.staffActor(), created.ID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if len(got.Visits) != 2 {
		t.Fatalf("visit count = %d, want 2", len(got.Visits))
	}
	if got.Visits[0].VisitTime != "09:30" || got.Visits[1].VisitTime != "14:00" {
		t.Errorf("visit order = %s, %s; want 09:30, 14:00", got.Visits[0].VisitTime, got.Visits[1].VisitTime)
	}

	// An update carries the complete visit list; omitted visits are gone.
	updated, err := env.svc.UpdateReport(ctx, env.staffActor(), created.ID, UpdateReportRequest{
		Problem: "Rescheduled",
		Visits: []VisitInput{
			{CustomerID: other.ID.String(), VisitTime: "16:00", Content: "Contract signing"},
		},
	})
	if err != nil {
		t.Fatalf("UpdateReport: %v", err)
	}
	if len(updated.Visits) != 1 {
		t.Fatalf("visit count after replace = %d, want 1", len(updated.Visits))
	}
	if updated.Visits[0].CustomerID != other.ID.String() {
		t.Errorf("remaining visit customer = %s, want %s", updated.Visits[0].CustomerID, other.ID)
	}

	var stored int64
	env.db.Model(&model.VisitRecord{}).Where("report_id = ?", created.ID).Count(&stored)
	if stored != 1 {
		t.Errorf("stored visit rows = %d, want 1", stored)
	}
}

func TestListReportsVisibility(t *testing.T) {
	env := setupReportTest(t)
	ctx := context.Background()

	peer := testutil.SeedSalesPerson(t, env.db, "Staff Yamada", "yamada@example.com", "password123", model.RoleStaff, &env.manager.ID)

	testutil.SeedReport(t, env.db, env.staff.ID, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), model.ReportStatusSubmitted)
	testutil.SeedReport(t, env.db, peer.ID, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), model.ReportStatusDraft)
	testutil.SeedReport(t, env.db, env.manager.ID, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), model.ReportStatusDraft)

	// Staff sees only their own report.
	reports, total, err := env.svc.ListReports(ctx, env.staffActor(), ReportListFilter{})
	if err != nil {
		t.Fatalf("ListReports as staff: %v", err)
	}
	if total != 1 || len(reports) != 1 {
		t.Fatalf("staff visible reports = %d (total %d), want 1", len(reports), total)
	}
	if reports[0].SalesPersonID != env.staff.ID.String() {
		t.Errorf("staff sees report owned by %s", reports[0].SalesPersonID)
	}

	// The manager sees their own plus both direct subordinates'.
	_, total, err = env.svc.ListReports(ctx, env.managerActor(), ReportListFilter{})
	if err != nil {
		t.Fatalf("ListReports as manager: %v", err)
	}
	if total != 3 {
		t.Errorf("manager visible reports = %d, want 3", total)
	}

	// Filtering by a subordinate narrows the list.
	reports, total, err = env.svc.ListReports(ctx, env.managerActor(), ReportListFilter{OwnerID: peer.ID.String()})
	if err != nil {
		t.Fatalf("ListReports filtered: %v", err)
	}
	if total != 1 || reports[0].SalesPersonID != peer.ID.String() {
		t.Errorf("filtered list = %d reports, owner %s", total, reports[0].SalesPersonID)
	}

	// Staff probing a peer's reports is refused, not silently emptied.
	_, _, err = env.svc.ListReports(ctx, env.staffActor(), ReportListFilter{OwnerID: peer.ID.String()})
	if apperr.KindOf(err) != apperr.KindAuthorization {
		t.Errorf("staff filtering by peer: got %v, want authorization error", err)
	}

	// Status filter.
	_, total, err = env.svc.ListReports(ctx, env.managerActor(), ReportListFilter{Status: model.ReportStatusSubmitted})
	if err != nil {
		t.Fatalf("ListReports by status: %v", err)
	}
	if total != 1 {
		t.Errorf("SUBMITTED reports = %d, want 1", total)
	}
}

func TestStrangerCannotViewReport(t *testing.T) {
	env := setupReportTest(t)
	ctx := context.Background()

	report := testutil.SeedReport(t, env.db, env.staff.ID, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), model.ReportStatusSubmitted)

	stranger := testutil.SeedSalesPerson(t, env.db, "Staff Ito", "ito@example.com", "password123", model.RoleStaff, nil)
	strangerActor := workflow.Actor{ID: stranger.ID, Role: workflow.RoleStaff}

	if _, err := env.svc.GetReport(ctx, strangerActor, report.ID.String()); apperr.KindOf(err) != apperr.KindAuthorization {
		t.Errorf("stranger view: got %v, want authorization error", err)
	}
	if _, err := env.svc.PostComment(ctx, strangerActor, report.ID.String(), "hello"); apperr.KindOf(err) != apperr.KindAuthorization {
		t.Errorf("stranger comment: got %v, want authorization error", err)
	}
}

func TestCommentRoundTrip(t *testing.T) {
	env := setupReportTest(t)
	ctx := context.Background()

	report := testutil.SeedReport(t, env.db, env.staff.ID, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), model.ReportStatusApproved)

	// Comments are allowed on frozen reports.
	posted, err := env.svc.PostComment(ctx, env.managerActor(), report.ID.String(), "来週の方針を相談しましょう")
	if err != nil {
		t.Fatalf("PostComment: %v", err)
	}

	comments, err := env.svc.ListComments(ctx, env.staffActor(), report.ID.String())
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 1 || comments[0].ID != posted.ID {
		t.Fatalf("comment list = %d entries", len(comments))
	}
	if comments[0].AuthorName != env.manager.Name {
		t.Errorf("author name = %q, want %q", comments[0].AuthorName, env.manager.Name)
	}

	// Only the author may delete, even though the owner can view.
	if err := env.svc.DeleteComment(ctx, env.staffActor(), posted.ID); apperr.KindOf(err) != apperr.KindAuthorization {
		t.Errorf("non-author delete: got %v, want authorization error", err)
	}
	if err := env.svc.DeleteComment(ctx, env.managerActor(), posted.ID); err != nil {
		t.Errorf("author delete: %v", err)
	}
}

func TestVisitCrossReportLookupIsNotFound(t *testing.T) {
	env := setupReportTest(t)
	ctx := context.Background()

	reportA, err := env.svc.CreateReport(ctx, env.staffActor(), CreateReportRequest{
		ReportDate: "2026-08-27",
		Visits:     env.oneVisit(),
	})
	if err != nil {
		t.Fatalf("CreateReport A: %v", err)
	}
	reportB, err := env.svc.CreateReport(ctx, env.staffActor(), CreateReportRequest{
		ReportDate: "2026-08-28",
	})
	if err != nil {
		t.Fatalf("CreateReport B: %v", err)
	}

	// Addressing A's visit through B's path must not resolve.
	visitID := reportA.Visits[0].ID
	_, err = env.svc.UpdateVisit(ctx, env.staffActor(), reportB.ID, visitID, env.oneVisit()[0])
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("cross-report visit update: got %v, want not found", err)
	}
}
