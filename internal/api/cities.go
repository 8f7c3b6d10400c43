// cities.go implements handlers for city CRUD operations. City reads hide
// inactive rows by default; the include_inactive query flag opts in to seeing
// (and mutating) inactive municipalities.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/geodata-registry/geodata-registry/internal/services"
	"github.com/geodata-registry/geodata-registry/internal/validation"
)

// CityHandlers handles city endpoints
type CityHandlers struct {
	cities *services.CityService
}

// NewCityHandlers creates a new CityHandlers instance
func NewCityHandlers(cities *services.CityService) *CityHandlers {
	return &CityHandlers{cities: cities}
}

// CityCreateRequest is the payload for creating a city. IsActive defaults to
// true when omitted, matching the lifecycle of a newly incorporated
// municipality.
type CityCreateRequest struct {
	StateID  int64  `json:"state_id" binding:"required,gt=0"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Code     string `json:"code" binding:"required"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// CityUpdateRequest is the partial payload for updating a city
type CityUpdateRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Code     *string `json:"code,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func includeInactive(c *gin.Context) bool {
	return c.Query("include_inactive") == "true"
}

// @Summary      Create a city
// @Description  Create a new city under an existing state. City codes must be unique among active cities only; an inactive city's code may be reused.
// @Tags         Cities
// @Accept       json
// @Produce      json
// @Param        city  body  CityCreateRequest  true  "City to create"
// @Success      201  {object}  models.City
// @Failure      400  {object}  map[string]interface{}  "Invalid payload or code format"
// @Failure      404  {object}  map[string]interface{}  "State not found"
// @Failure      409  {object}  map[string]interface{}  "Duplicate active city code"
// @Router       /api/v1/cities [post]
// CreateCityHandler creates a city
// POST /api/v1/cities
func (h *CityHandlers) CreateCityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CityCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := validation.ValidateCityCode(req.Code); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		city, err := h.cities.Create(c.Request.Context(),
			services.CityCreateInput{
				StateID:  req.StateID,
				Name:     req.Name,
				Code:     req.Code,
				IsActive: isActive,
			},
			requestInfo(c, req, http.StatusCreated),
		)
		if err != nil {
			respondDomainError(c, err)
			return
		}

		c.JSON(http.StatusCreated, city)
	}
}

// @Summary      Get a city
// @Description  Retrieve a city by id. Inactive cities are reported as not found unless include_inactive=true.
// @Tags         Cities
// @Produce      json
// @Param        id                path   int   true   "City ID"
// @Param        include_inactive  query  bool  false  "Include inactive cities"
// @Success      200  {object}  models.City
// @Failure      404  {object}  map[string]interface{}  "City not found"
// @Router       /api/v1/cities/{id} [get]
// GetCityHandler retrieves a city by id
// GET /api/v1/cities/:id?include_inactive=false
func (h *CityHandlers) GetCityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		city, err := h.cities.Get(c.Request.Context(), id, includeInactive(c))
		if err != nil {
			respondDomainError(c, err)
			return
		}
		if city == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "City not found"})
			return
		}

		c.JSON(http.StatusOK, city)
	}
}

// @Summary      List cities
// @Tags         Cities
// @Produce      json
// @Param        state_id          query  int   false  "Restrict to one state"
// @Param        skip              query  int   false  "Rows to skip (default 0)"
// @Param        limit             query  int   false  "Max rows to return (default 100, max 1000)"
// @Param        include_inactive  query  bool  false  "Include inactive cities"
// @Success      200  {array}  models.City
// @Router       /api/v1/cities [get]
// ListCitiesHandler lists cities in insertion order, optionally filtered by state
// GET /api/v1/cities?state_id=1&skip=0&limit=100&include_inactive=false
func (h *CityHandlers) ListCitiesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		skip, limit, ok := parsePagination(c)
		if !ok {
			return
		}
		stateID, _ := strconv.ParseInt(c.DefaultQuery("state_id", "0"), 10, 64)
		if stateID < 0 {
			stateID = 0
		}

		cities, err := h.cities.List(c.Request.Context(), stateID, skip, limit, includeInactive(c))
		if err != nil {
			respondDomainError(c, err)
			return
		}

		c.JSON(http.StatusOK, cities)
	}
}

// @Summary      Update a city
// @Description  Partial update: only supplied fields change. Setting is_active=false deactivates the city without deleting it; reactivation re-checks the active-code uniqueness rule.
// @Tags         Cities
// @Accept       json
// @Produce      json
// @Param        id                path   int                true   "City ID"
// @Param        include_inactive  query  bool               false  "Allow updating an inactive city"
// @Param        city              body   CityUpdateRequest  true   "Fields to update"
// @Success      200  {object}  models.City
// @Failure      404  {object}  map[string]interface{}  "City not found"
// @Failure      409  {object}  map[string]interface{}  "Duplicate active city code"
// @Router       /api/v1/cities/{id} [put]
// UpdateCityHandler partially updates a city
// PUT /api/v1/cities/:id?include_inactive=false
func (h *CityHandlers) UpdateCityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var req CityUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if req.Code != nil {
			if err := validation.ValidateCityCode(*req.Code); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		city, err := h.cities.Update(c.Request.Context(), id,
			services.CityUpdateInput{Name: req.Name, Code: req.Code, IsActive: req.IsActive},
			requestInfo(c, req, http.StatusOK),
			includeInactive(c),
		)
		if err != nil {
			respondDomainError(c, err)
			return
		}

		c.JSON(http.StatusOK, city)
	}
}

// @Summary      Delete a city
// @Description  Physically remove a city row. Deactivation is an update (is_active=false), not a delete.
// @Tags         Cities
// @Produce      json
// @Param        id                path   int   true   "City ID"
// @Param        include_inactive  query  bool  false  "Allow deleting an inactive city"
// @Success      200  {object}  models.City  "The deleted city"
// @Failure      404  {object}  map[string]interface{}  "City not found"
// @Router       /api/v1/cities/{id} [delete]
// DeleteCityHandler deletes a city
// DELETE /api/v1/cities/:id?include_inactive=false
func (h *CityHandlers) DeleteCityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		city, err := h.cities.Delete(c.Request.Context(), id,
			requestInfo(c, nil, http.StatusOK),
			includeInactive(c),
		)
		if err != nil {
			respondDomainError(c, err)
			return
		}

		c.JSON(http.StatusOK, city)
	}
}
