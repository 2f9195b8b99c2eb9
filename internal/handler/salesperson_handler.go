package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/masakazoo1979/dailyReport-sub001/internal/middleware"
	"github.com/masakazoo1979/dailyReport-sub001/internal/model"
	"github.com/masakazoo1979/dailyReport-sub001/internal/service"
	"github.com/masakazoo1979/dailyReport-sub001/pkg/pagination"
	"github.com/masakazoo1979/dailyReport-sub001/pkg/response"
)

type SalesPersonHandler struct {
	salesPersonService service.SalesPersonService
}

func NewSalesPersonHandler(salesPersonService service.SalesPersonService) *SalesPersonHandler {
	return &SalesPersonHandler{salesPersonService: salesPersonService}
}

func (h *SalesPersonHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Public routes
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)

	// Me route (any valid session)
	router.GET("/me", middleware.RequireAuth(), h.GetMe)

	people := router.Group("/api/salespersons")
	{
		people.GET("", middleware.RequireAuth(), h.List)
		people.GET("/:id", middleware.RequireAuth(), h.GetByID)
		// Master mutations are restricted to managers.
		people.POST("", middleware.RequireRole(model.RoleManager), h.Create)
		people.PUT("/:id", middleware.RequireRole(model.RoleManager), h.Update)
		people.DELETE("/:id", middleware.RequireRole(model.RoleManager), h.Delete)
	}
}

// Login handles POST /login
// @Summary      Login
// @Description  Authenticates a salesperson by email and password, returning a JWT session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      401      {object}  response.Response
// @Router       /login [post]
func (h *SalesPersonHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload"))
		return
	}

	tokenRes, err := h.salesPersonService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetTokenCookie(c, tokenRes.Token)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokenRes))
}

// Logout handles POST /logout
func (h *SalesPersonHandler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Logged out"))
}

// GetMe handles GET /me
// @Summary      Get current salesperson
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.SalesPersonResponse}
// @Failure      401  {object}  response.Response
// @Router       /me [get]
func (h *SalesPersonHandler) GetMe(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	person, err := h.salesPersonService.GetByID(c.Request.Context(), actor.ID.String())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, person))
}

// List handles GET /api/salespersons
// @Summary      List salespersons
// @Tags         salespersons
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response
// @Router       /api/salespersons [get]
func (h *SalesPersonHandler) List(c *gin.Context) {
	page := pagination.Parse(c)

	people, total, err := h.salesPersonService.List(c.Request.Context(), page.Page, page.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"salespersons": people,
		"total":        total,
		"page":         page.Page,
		"limit":        page.Limit,
	}))
}

// GetByID handles GET /api/salespersons/:id
func (h *SalesPersonHandler) GetByID(c *gin.Context) {
	person, err := h.salesPersonService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, person))
}

// Create handles POST /api/salespersons (MANAGER only)
// @Summary      Create a salesperson
// @Tags         salespersons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateSalesPersonRequest  true  "Create Salesperson Payload"
// @Success      201      {object}  response.Response{data=service.SalesPersonResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/salespersons [post]
func (h *SalesPersonHandler) Create(c *gin.Context) {
	var req service.CreateSalesPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload: "+err.Error()))
		return
	}

	person, err := h.salesPersonService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, person))
}

// Update handles PUT /api/salespersons/:id (MANAGER only)
func (h *SalesPersonHandler) Update(c *gin.Context) {
	var req service.UpdateSalesPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request payload"))
		return
	}

	person, err := h.salesPersonService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, person))
}

// Delete handles DELETE /api/salespersons/:id (MANAGER only)
func (h *SalesPersonHandler) Delete(c *gin.Context) {
	if err := h.salesPersonService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "salesperson deleted"))
}
