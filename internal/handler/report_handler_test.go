package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/masakazoo1979/dailyReport-sub001/internal/model"
	"github.com/masakazoo1979/dailyReport-sub001/internal/repository"
	"github.com/masakazoo1979/dailyReport-sub001/internal/service"
	"github.com/masakazoo1979/dailyReport-sub001/internal/testutil"
)

type reportHandlerEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	manager  *model.SalesPerson
	staff    *model.SalesPerson
	customer *model.Customer
}

func setupReportHandlerTest(t *testing.T) *reportHandlerEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	manager := testutil.SeedSalesPerson(t, db, "Manager Sato", "sato@example.com", "password123", model.RoleManager, nil)
	staff := testutil.SeedSalesPerson(t, db, "Staff Tanaka", "tanaka@example.com", "password123", model.RoleStaff, &manager.ID)
	customer := testutil.SeedCustomer(t, db, "Acme Corp", "John Doe")

	svc := service.NewReportService(
		repository.NewReportRepository(db),
		repository.NewCommentRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewSalesPersonRepository(db),
		repository.NewTransactionManager(db),
		nil,
	)

	router := testutil.SetupRouter()
	NewReportHandler(svc).RegisterRoutes(router.Group(""))

	return &reportHandlerEnv{db: db, router: router, manager: manager, staff: staff, customer: customer}
}

func TestReportRoutesRequireAuthentication(t *testing.T) {
	env := setupReportHandlerTest(t)

	w := testutil.DoRequest(env.router, http.MethodGet, "/api/reports", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}

	w = testutil.DoRequest(env.router, http.MethodGet, "/api/reports", nil, "not-a-jwt")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", w.Code)
	}
}

func TestReportApprovalFlowOverHTTP(t *testing.T) {
	env := setupReportHandlerTest(t)

	staffToken := testutil.GenerateTestToken(env.staff.ID, model.RoleStaff)
	managerToken := testutil.GenerateTestToken(env.manager.ID, model.RoleManager)

	w := testutil.DoRequest(env.router, http.MethodPost, "/api/reports", map[string]interface{}{
		"report_date": "2026-08-28",
		"problem":     "Pricing pushback",
		"visits": []map[string]interface{}{
			{"customer_id": env.customer.ID.String(), "visit_time": "10:00", "content": "Quarterly review"},
		},
	}, staffToken)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", w.Code, w.Body.String())
	}
	body := testutil.ParseResponse(w)
	reportID := body["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(env.router, http.MethodPut, fmt.Sprintf("/api/reports/%s/submit", reportID), nil, staffToken)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: status = %d, body = %s", w.Code, w.Body.String())
	}

	// The owner cannot approve their own report.
	w = testutil.DoRequest(env.router, http.MethodPut, fmt.Sprintf("/api/reports/%s/approve", reportID), nil, staffToken)
	if w.Code != http.StatusForbidden {
		t.Errorf("self-approve: status = %d, want 403", w.Code)
	}

	w = testutil.DoRequest(env.router, http.MethodPut, fmt.Sprintf("/api/reports/%s/approve", reportID), nil, managerToken)
	if w.Code != http.StatusOK {
		t.Fatalf("approve: status = %d, body = %s", w.Code, w.Body.String())
	}
	body = testutil.ParseResponse(w)
	data := body["data"].(map[string]interface{})
	if data["status"] != model.ReportStatusApproved {
		t.Errorf("status after approve = %v, want APPROVED", data["status"])
	}

	// A frozen report rejects edits with a conflict.
	w = testutil.DoRequest(env.router, http.MethodPut, "/api/reports/"+reportID, map[string]interface{}{
		"problem": "changed",
	}, staffToken)
	if w.Code != http.StatusConflict {
		t.Errorf("edit approved report: status = %d, want 409", w.Code)
	}
}

func TestRejectRequiresCommentOverHTTP(t *testing.T) {
	env := setupReportHandlerTest(t)

	staffToken := testutil.GenerateTestToken(env.staff.ID, model.RoleStaff)
	managerToken := testutil.GenerateTestToken(env.manager.ID, model.RoleManager)

	w := testutil.DoRequest(env.router, http.MethodPost, "/api/reports", map[string]interface{}{
		"report_date": "2026-08-28",
		"status":      model.ReportStatusSubmitted,
		"visits": []map[string]interface{}{
			{"customer_id": env.customer.ID.String(), "visit_time": "10:00", "content": "Demo"},
		},
	}, staffToken)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body = %s", w.Code, w.Body.String())
	}
	reportID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(env.router, http.MethodPut, fmt.Sprintf("/api/reports/%s/reject", reportID), map[string]interface{}{}, managerToken)
	if w.Code != http.StatusBadRequest {
		t.Errorf("reject without comment: status = %d, want 400", w.Code)
	}

	w = testutil.DoRequest(env.router, http.MethodPut, fmt.Sprintf("/api/reports/%s/reject", reportID), map[string]interface{}{
		"comment": "訪問内容を追記してください",
	}, managerToken)
	if w.Code != http.StatusOK {
		t.Fatalf("reject: status = %d, body = %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(env.router, http.MethodGet, fmt.Sprintf("/api/reports/%s/comments", reportID), nil, staffToken)
	if w.Code != http.StatusOK {
		t.Fatalf("list comments: status = %d", w.Code)
	}
	comments := testutil.ParseResponse(w)["data"].([]interface{})
	if len(comments) != 1 {
		t.Errorf("comment count = %d, want 1", len(comments))
	}
}

func TestStrangerGetsForbiddenOverHTTP(t *testing.T) {
	env := setupReportHandlerTest(t)

	stranger := testutil.SeedSalesPerson(t, env.db, "Staff Ito", "ito@example.com", "password123", model.RoleStaff, nil)
	strangerToken := testutil.GenerateTestToken(stranger.ID, model.RoleStaff)
	staffToken := testutil.GenerateTestToken(env.staff.ID, model.RoleStaff)

	w := testutil.DoRequest(env.router, http.MethodPost, "/api/reports", map[string]interface{}{
		"report_date": "2026-08-28",
	}, staffToken)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status = %d", w.Code)
	}
	reportID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(env.router, http.MethodGet, "/api/reports/"+reportID, nil, strangerToken)
	if w.Code != http.StatusForbidden {
		t.Errorf("stranger get: status = %d, want 403", w.Code)
	}
}
