// states.go implements handlers for state/province CRUD operations and the
// nested city listing.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/geodata-registry/geodata-registry/internal/services"
	"github.com/geodata-registry/geodata-registry/internal/validation"
)

// StateHandlers handles state/province endpoints
type StateHandlers struct {
	states *services.StateService
	cities *services.CityService
}

// NewStateHandlers creates a new StateHandlers instance
func NewStateHandlers(states *services.StateService, cities *services.CityService) *StateHandlers {
	return &StateHandlers{states: states, cities: cities}
}

// StateCreateRequest is the payload for creating a state
type StateCreateRequest struct {
	CountryID int64  `json:"country_id" binding:"required,gt=0"`
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Code      string `json:"code" binding:"required"`
}

// StateUpdateRequest is the partial payload for updating a state
type StateUpdateRequest struct {
	Name *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Code *string `json:"code,omitempty"`
}

// @Summary      Create a state
// @Description  Create a new state/province under an existing country.
// @Tags         States
// @Accept       json
// @Produce      json
// @Param        state  body  StateCreateRequest  true  "State to create"
// @Success      201  {object}  models.State
// @Failure      400  {object}  map[string]interface{}  "Invalid payload or code format"
// @Failure      404  {object}  map[string]interface{}  "Country not found"
// @Failure      409  {object}  map[string]interface{}  "Duplicate state code"
// @Router       /api/v1/states [post]
// CreateStateHandler creates a state
// POST /api/v1/states
func (h *StateHandlers) CreateStateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StateCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		code, err := validation.NormalizeStateCode(req.Code)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.Code = code

		state, err := h.states.Create(c.Request.Context(),
			services.StateCreateInput{CountryID: req.CountryID, Name: req.Name, Code: req.Code},
			requestInfo(c, req, http.StatusCreated),
		)
		if err != nil {
			respondDomainError(c, err)
			return
		}

		c.JSON(http.StatusCreated, state)
	}
}

// @Summary      Get a state
// @Tags         States
// @Produce      json
// @Param        id  path  int  true  "State ID"
// @Success      200  {object}  models.State
// @Failure      404  {object}  map[string]interface{}  "State not found"
// @Router       /api/v1/states/{id} [get]
// GetStateHandler retrieves a state by id
// GET /api/v1/states/:id
func (h *StateHandlers) GetStateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		state, err := h.states.Get(c.Request.Context(), id)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		if state == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "State not found"})
			return
		}

		c.JSON(http.StatusOK, state)
	}
}

// @Summary      List states
// @Tags         States
// @Produce      json
// @Param        country_id  query  int  false  "Restrict to one country"
// @Param        skip        query  int  false  "Rows to skip (default 0)"
// @Param        limit       query  int  false  "Max rows to return (default 100, max 1000)"
// @Success      200  {array}  models.State
// @Router       /api/v1/states [get]
// ListStatesHandler lists states in insertion order, optionally filtered by country
// GET /api/v1/states?country_id=1&skip=0&limit=100
func (h *StateHandlers) ListStatesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		skip, limit, ok := parsePagination(c)
		if !ok {
			return
		}
		countryID, _ := strconv.ParseInt(c.DefaultQuery("country_id", "0"), 10, 64)
		if countryID < 0 {
			countryID = 0
		}

		states, err := h.states.List(c.Request.Context(), countryID, skip, limit)
		if err != nil {
			respondDomainError(c, err)
			return
		}

		c.JSON(http.StatusOK, states)
	}
}

// @Summary      Update a state
// @Description  Partial update: only supplied fields change.
// @Tags         States
// @Accept       json
// @Produce      json
// @Param        id     path  int                 true  "State ID"
// @Param        state  body  StateUpdateRequest  true  "Fields to update"
// @Success      200  {object}  models.State
// @Failure      404  {object}  map[string]interface{}  "State not found"
// @Failure      409  {object}  map[string]interface{}  "Duplicate state code"
// @Router       /api/v1/states/{id} [put]
// UpdateStateHandler partially updates a state
// PUT /api/v1/states/:id
func (h *StateHandlers) UpdateStateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var req StateUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if req.Code != nil {
			code, err := validation.NormalizeStateCode(*req.Code)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			req.Code = &code
		}

		state, err := h.states.Update(c.Request.Context(), id,
			services.StateUpdateInput{Name: req.Name, Code: req.Code},
			requestInfo(c, req, http.StatusOK),
		)
		if err != nil {
			respondDomainError(c, err)
			return
		}

		c.JSON(http.StatusOK, state)
	}
}

// @Summary      Delete a state
// @Description  Delete a state. Refused while cities still reference it.
// @Tags         States
// @Produce      json
// @Param        id  path  int  true  "State ID"
// @Success      200  {object}  models.State  "The deleted state"
// @Failure      400  {object}  map[string]interface{}  "Cities still reference this state"
// @Failure      404  {object}  map[string]interface{}  "State not found"
// @Router       /api/v1/states/{id} [delete]
// DeleteStateHandler deletes a state
// DELETE /api/v1/states/:id
func (h *StateHandlers) DeleteStateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		state, err := h.states.Delete(c.Request.Context(), id,
			requestInfo(c, nil, http.StatusOK),
		)
		if err != nil {
			respondDomainError(c, err)
			return
		}

		c.JSON(http.StatusOK, state)
	}
}

// @Summary      List a state's cities
// @Tags         States
// @Produce      json
// @Param        id                path   int   true   "State ID"
// @Param        skip              query  int   false  "Rows to skip (default 0)"
// @Param        limit             query  int   false  "Max rows to return (default 100, max 1000)"
// @Param        include_inactive  query  bool  false  "Include inactive cities"
// @Success      200  {array}  models.City
// @Failure      404  {object}  map[string]interface{}  "State not found"
// @Router       /api/v1/states/{id}/cities [get]
// ListStateCitiesHandler lists the cities belonging to a state
// GET /api/v1/states/:id/cities
func (h *StateHandlers) ListStateCitiesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		state, err := h.states.Get(c.Request.Context(), id)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		if state == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "State not found"})
			return
		}

		skip, limit, ok := parsePagination(c)
		if !ok {
			return
		}
		includeInactive := c.Query("include_inactive") == "true"

		cities, err := h.cities.List(c.Request.Context(), id, skip, limit, includeInactive)
		if err != nil {
			respondDomainError(c, err)
			return
		}

		c.JSON(http.StatusOK, cities)
	}
}
