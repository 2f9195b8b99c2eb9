package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/masakazoo1979/dailyReport-sub001/internal/model"
	"github.com/masakazoo1979/dailyReport-sub001/internal/repository"
	"github.com/masakazoo1979/dailyReport-sub001/internal/workflow"
	"github.com/masakazoo1979/dailyReport-sub001/pkg/apperr"
	"github.com/masakazoo1979/dailyReport-sub001/pkg/ratelimit"
)

// --- DTOs ---

type CreateSalesPersonRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Department string `json:"department"`
	Password   string `json:"password" binding:"required,min=8"`
	Role       string `json:"role" binding:"required,oneof=STAFF MANAGER"`
	ManagerID  string `json:"manager_id"`
}

type UpdateSalesPersonRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email" binding:"omitempty,email"`
	Department string  `json:"department"`
	Role       string  `json:"role" binding:"omitempty,oneof=STAFF MANAGER"`
	ManagerID  *string `json:"manager_id"` // nil = unchanged, "" = clear
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type SalesPersonResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Department  string  `json:"department"`
	Role        string  `json:"role"`
	ManagerID   *string `json:"manager_id"`
	ManagerName string  `json:"manager_name,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// --- Interface ---

// SalesPersonService covers authentication and the sales-staff master.
// Master mutations are MANAGER-only, enforced at the route layer.
type SalesPersonService interface {
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	GetByID(ctx context.Context, id string) (*SalesPersonResponse, error)
	List(ctx context.Context, page, limit int) ([]SalesPersonResponse, int64, error)
	Create(ctx context.Context, req CreateSalesPersonRequest) (*SalesPersonResponse, error)
	Update(ctx context.Context, id string, req UpdateSalesPersonRequest) (*SalesPersonResponse, error)
	Delete(ctx context.Context, id string) error
}

type salesPersonService struct {
	repo      repository.SalesPersonRepository
	limiter   ratelimit.Limiter
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewSalesPersonService(repo repository.SalesPersonRepository, limiter ratelimit.Limiter, jwtSecret []byte) SalesPersonService {
	return &salesPersonService{
		repo:      repo,
		limiter:   limiter,
		jwtSecret: jwtSecret,
		tokenTTL:  24 * time.Hour,
	}
}

// --- Implementation ---

func (s *salesPersonService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if !s.limiter.Allow(req.Email) {
		return nil, apperr.Authentication("too many failed attempts, try again later")
	}

	person, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.limiter.Fail(req.Email)
			return nil, apperr.Authentication("invalid email or password")
		}
		return nil, apperr.FromGorm(err, "salesperson")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(person.Password), []byte(req.Password)); err != nil {
		s.limiter.Fail(req.Email)
		return nil, apperr.Authentication("invalid email or password")
	}
	s.limiter.Reset(req.Email)

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  person.ID.String(),
		"role": person.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &TokenResponse{Token: tokenString}, nil
}

func (s *salesPersonService) GetByID(ctx context.Context, id string) (*SalesPersonResponse, error) {
	personID, err := parseID(id, "salesperson")
	if err != nil {
		return nil, err
	}
	person, err := s.repo.GetByID(ctx, personID)
	if err != nil {
		return nil, apperr.FromGorm(err, "salesperson")
	}
	return toSalesPersonResponse(person), nil
}

func (s *salesPersonService) List(ctx context.Context, page, limit int) ([]SalesPersonResponse, int64, error) {
	people, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, apperr.FromGorm(err, "salesperson")
	}
	result := make([]SalesPersonResponse, 0, len(people))
	for i := range people {
		result = append(result, *toSalesPersonResponse(&people[i]))
	}
	return result, total, nil
}

// resolveManager checks the manager-assignment rules: the referenced person
// must exist, must hold the MANAGER role, and must not be the person being
// assigned. Longer cycles are not walked; direct self-management is the only
// cycle this layer prevents.
func (s *salesPersonService) resolveManager(ctx context.Context, managerID string, selfID *uuid.UUID) (*uuid.UUID, error) {
	id, err := parseID(managerID, "manager")
	if err != nil {
		return nil, err
	}
	if selfID != nil && id == *selfID {
		return nil, apperr.Validation("a salesperson cannot be their own manager")
	}
	manager, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromGorm(err, "manager")
	}
	if manager.Role != model.RoleManager {
		return nil, apperr.Validation("the referenced manager must have the MANAGER role")
	}
	return &id, nil
}

func (s *salesPersonService) Create(ctx context.Context, req CreateSalesPersonRequest) (*SalesPersonResponse, error) {
	if !workflow.Role(req.Role).Valid() {
		return nil, apperr.Validation("invalid role: must be STAFF or MANAGER")
	}
	if err := workflow.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Duplicate("email already registered")
	}

	var managerID *uuid.UUID
	if req.ManagerID != "" {
		var err error
		managerID, err = s.resolveManager(ctx, req.ManagerID, nil)
		if err != nil {
			return nil, err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	person := &model.SalesPerson{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Password:   string(hashed),
		Role:       req.Role,
		ManagerID:  managerID,
	}
	if err := s.repo.Create(ctx, person); err != nil {
		return nil, apperr.FromGorm(err, "salesperson")
	}
	return toSalesPersonResponse(person), nil
}

func (s *salesPersonService) Update(ctx context.Context, id string, req UpdateSalesPersonRequest) (*SalesPersonResponse, error) {
	personID, err := parseID(id, "salesperson")
	if err != nil {
		return nil, err
	}
	person, err := s.repo.GetByID(ctx, personID)
	if err != nil {
		return nil, apperr.FromGorm(err, "salesperson")
	}

	if req.Name != "" {
		person.Name = req.Name
	}
	if req.Department != "" {
		person.Department = req.Department
	}
	if req.Role != "" {
		if !workflow.Role(req.Role).Valid() {
			return nil, apperr.Validation("invalid role: must be STAFF or MANAGER")
		}
		person.Role = req.Role
	}
	if req.Email != "" && req.Email != person.Email {
		if err := workflow.ValidateEmail(req.Email); err != nil {
			return nil, err
		}
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			return nil, apperr.Duplicate("email already registered")
		}
		person.Email = req.Email
	}
	if req.ManagerID != nil {
		if *req.ManagerID == "" {
			person.ManagerID = nil
		} else {
			managerID, err := s.resolveManager(ctx, *req.ManagerID, &person.ID)
			if err != nil {
				return nil, err
			}
			person.ManagerID = managerID
		}
		person.Manager = nil
	}

	if err := s.repo.Update(ctx, person); err != nil {
		return nil, apperr.FromGorm(err, "salesperson")
	}

	updated, err := s.repo.GetByID(ctx, personID)
	if err != nil {
		return nil, apperr.FromGorm(err, "salesperson")
	}
	return toSalesPersonResponse(updated), nil
}

func (s *salesPersonService) Delete(ctx context.Context, id string) error {
	personID, err := parseID(id, "salesperson")
	if err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, personID); err != nil {
		return apperr.FromGorm(err, "salesperson")
	}
	return apperr.FromGorm(s.repo.Delete(ctx, personID), "salesperson")
}

// --- Mapping ---

func toSalesPersonResponse(p *model.SalesPerson) *SalesPersonResponse {
	resp := &SalesPersonResponse{
		ID:         p.ID.String(),
		Name:       p.Name,
		Email:      p.Email,
		Department: p.Department,
		Role:       p.Role,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
	if p.ManagerID != nil {
		s := p.ManagerID.String()
		resp.ManagerID = &s
	}
	if p.Manager != nil {
		resp.ManagerName = p.Manager.Name
	}
	return resp
}
