package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/masakazoo1979/dailyReport-sub001/internal/model"
	"github.com/masakazoo1979/dailyReport-sub001/internal/repository"
	"github.com/masakazoo1979/dailyReport-sub001/internal/testutil"
	"github.com/masakazoo1979/dailyReport-sub001/pkg/apperr"
	"github.com/masakazoo1979/dailyReport-sub001/pkg/ratelimit"
)

const testJWTSecret = "salesperson-service-test-secret"

func setupSalesPersonTest(t *testing.T) (*gorm.DB, SalesPersonService, *ratelimit.MemoryLimiter) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	limiter := ratelimit.NewMemoryLimiter(3, time.Minute, time.Hour)
	t.Cleanup(limiter.Close)

	svc := NewSalesPersonService(repository.NewSalesPersonRepository(db), limiter, []byte(testJWTSecret))
	return db, svc, limiter
}

func TestLoginIssuesTokenWithIdentityClaims(t *testing.T) {
	db, svc, _ := setupSalesPersonTest(t)
	ctx := context.Background()

	person := testutil.SeedSalesPerson(t, db, "Staff Tanaka", "tanaka@example.com", "correct-horse", model.RoleStaff, nil)

	resp, err := svc.Login(ctx, LoginRequest{Email: "tanaka@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	token, err := jwt.Parse(resp.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("token parse: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != person.ID.String() {
		t.Errorf("sub claim = %v, want %s", claims["sub"], person.ID)
	}
	if claims["role"] != model.RoleStaff {
		t.Errorf("role claim = %v, want STAFF", claims["role"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db, svc, _ := setupSalesPersonTest(t)
	ctx := context.Background()

	testutil.SeedSalesPerson(t, db, "Staff Tanaka", "tanaka@example.com", "correct-horse", model.RoleStaff, nil)

	// Unknown email and wrong password produce the same indistinct error.
	_, err := svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	if apperr.KindOf(err) != apperr.KindAuthentication {
		t.Errorf("unknown email: got %v, want authentication error", err)
	}
	_, err = svc.Login(ctx, LoginRequest{Email: "tanaka@example.com", Password: "wrong"})
	if apperr.KindOf(err) != apperr.KindAuthentication {
		t.Errorf("wrong password: got %v, want authentication error", err)
	}
}

func TestLoginThrottlesAfterRepeatedFailures(t *testing.T) {
	db, svc, _ := setupSalesPersonTest(t)
	ctx := context.Background()

	testutil.SeedSalesPerson(t, db, "Staff Tanaka", "tanaka@example.com", "correct-horse", model.RoleStaff, nil)

	for i := 0; i < 3; i++ {
		svc.Login(ctx, LoginRequest{Email: "tanaka@example.com", Password: "wrong"})
	}

	// Even the correct password is refused while the key is locked.
	_, err := svc.Login(ctx, LoginRequest{Email: "tanaka@example.com", Password: "correct-horse"})
	if apperr.KindOf(err) != apperr.KindAuthentication {
		t.Errorf("locked login: got %v, want authentication error", err)
	}

	// Other accounts are unaffected.
	testutil.SeedSalesPerson(t, db, "Staff Yamada", "yamada@example.com", "correct-horse", model.RoleStaff, nil)
	if _, err := svc.Login(ctx, LoginRequest{Email: "yamada@example.com", Password: "correct-horse"}); err != nil {
		t.Errorf("unrelated account login: %v", err)
	}
}

func TestLoginSuccessResetsFailureCount(t *testing.T) {
	db, svc, limiter := setupSalesPersonTest(t)
	ctx := context.Background()

	testutil.SeedSalesPerson(t, db, "Staff Tanaka", "tanaka@example.com", "correct-horse", model.RoleStaff, nil)

	svc.Login(ctx, LoginRequest{Email: "tanaka@example.com", Password: "wrong"})
	svc.Login(ctx, LoginRequest{Email: "tanaka@example.com", Password: "wrong"})
	if _, err := svc.Login(ctx, LoginRequest{Email: "tanaka@example.com", Password: "correct-horse"}); err != nil {
		t.Fatalf("Login after failures: %v", err)
	}
	if got := limiter.Remaining("tanaka@example.com"); got != 3 {
		t.Errorf("Remaining after success = %d, want full allowance", got)
	}
}

func TestCreateSalesPersonRules(t *testing.T) {
	_, svc, _ := setupSalesPersonTest(t)
	ctx := context.Background()

	manager, err := svc.Create(ctx, CreateSalesPersonRequest{
		Name:     "Manager Sato",
		Email:    "sato@example.com",
		Password: "password123",
		Role:     model.RoleManager,
	})
	if err != nil {
		t.Fatalf("create manager: %v", err)
	}

	staff, err := svc.Create(ctx, CreateSalesPersonRequest{
		Name:      "Staff Tanaka",
		Email:     "tanaka@example.com",
		Password:  "password123",
		Role:      model.RoleStaff,
		ManagerID: manager.ID,
	})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}
	if staff.ManagerID == nil || *staff.ManagerID != manager.ID {
		t.Errorf("staff manager_id = %v, want %s", staff.ManagerID, manager.ID)
	}

	// Email uniqueness.
	_, err = svc.Create(ctx, CreateSalesPersonRequest{
		Name:     "Impostor",
		Email:    "tanaka@example.com",
		Password: "password123",
		Role:     model.RoleStaff,
	})
	if apperr.KindOf(err) != apperr.KindDuplicate {
		t.Errorf("duplicate email: got %v, want duplicate error", err)
	}

	// A STAFF cannot be referenced as a manager.
	_, err = svc.Create(ctx, CreateSalesPersonRequest{
		Name:      "Staff Ito",
		Email:     "ito@example.com",
		Password:  "password123",
		Role:      model.RoleStaff,
		ManagerID: staff.ID,
	})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("staff as manager: got %v, want validation error", err)
	}

	// Self-management is refused on update.
	_, err = svc.Update(ctx, manager.ID, UpdateSalesPersonRequest{ManagerID: &manager.ID})
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("self-management: got %v, want validation error", err)
	}

	// Clearing the manager with an explicit empty string.
	empty := ""
	updated, err := svc.Update(ctx, staff.ID, UpdateSalesPersonRequest{ManagerID: &empty})
	if err != nil {
		t.Fatalf("clear manager: %v", err)
	}
	if updated.ManagerID != nil {
		t.Errorf("manager_id after clear = %v, want nil", updated.ManagerID)
	}
}
