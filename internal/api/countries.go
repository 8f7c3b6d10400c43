// countries.go implements handlers for country CRUD operations and the nested
// state listing.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geodata-registry/geodata-registry/internal/services"
	"github.com/geodata-registry/geodata-registry/internal/validation"
)

// CountryHandlers handles country endpoints
type CountryHandlers struct {
	countries *services.CountryService
	states    *services.StateService
}

// NewCountryHandlers creates a new CountryHandlers instance
func NewCountryHandlers(countries *services.CountryService, states *services.StateService) *CountryHandlers {
	return &CountryHandlers{countries: countries, states: states}
}

// CountryCreateRequest is the payload for creating a country
type CountryCreateRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
	Code string `json:"code" binding:"required"`
}

// CountryUpdateRequest is the partial payload for updating a country
type CountryUpdateRequest struct {
	Name *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Code *string `json:"code,omitempty"`
}

// @Summary      Create a country
// @Description  Create a new country and record an event log entry in the same transaction.
// @Tags         Countries
// @Accept       json
// @Produce      json
// @Param        country  body  CountryCreateRequest  true  "Country to create"
// @Success      201  {object}  models.Country
// @Failure      400  {object}  map[string]interface{}  "Invalid payload or code format"
// @Failure      409  {object}  map[string]interface{}  "Duplicate country code"
// @Router       /api/v1/countries [post]
// CreateCountryHandler creates a country
// POST /api/v1/countries
func (h *CountryHandlers) CreateCountryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CountryCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		code, err := validation.NormalizeCountryCode(req.Code)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.Code = code

		country, err := h.countries.Create(c.Request.Context(),
			services.CountryCreateInput{Name: req.Name, Code: req.Code},
			requestInfo(c, req, http.StatusCreated),
		)
		if err != nil {
			respondDomainError(c, err)
			return
		}

		c.JSON(http.StatusCreated, country)
	}
}

// @Summary      Get a country
// @Tags         Countries
// @Produce      json
// @Param        id  path  int  true  "Country ID"
// @Success      200  {object}  models.Country
// @Failure      404  {object}  map[string]interface{}  "Country not found"
// @Router       /api/v1/countries/{id} [get]
// GetCountryHandler retrieves a country by id
// GET /api/v1/countries/:id
func (h *CountryHandlers) GetCountryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		country, err := h.countries.Get(c.Request.Context(), id)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		if country == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Country not found"})
			return
		}

		c.JSON(http.StatusOK, country)
	}
}

// @Summary      List countries
// @Tags         Countries
// @Produce      json
// @Param        skip   query  int  false  "Rows to skip (default 0)"
// @Param        limit  query  int  false  "Max rows to return (default 100, max 1000)"
// @Success      200  {array}  models.Country
// @Router       /api/v1/countries [get]
// ListCountriesHandler lists countries in insertion order
// GET /api/v1/countries?skip=0&limit=100
func (h *CountryHandlers) ListCountriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		skip, limit, ok := parsePagination(c)
		if !ok {
			return
		}

		countries, err := h.countries.List(c.Request.Context(), skip, limit)
		if err != nil {
			respondDomainError(c, err)
			return
		}

		c.JSON(http.StatusOK, countries)
	}
}

// @Summary      Update a country
// @Description  Partial update: only supplied fields change.
// @Tags         Countries
// @Accept       json
// @Produce      json
// @Param        id       path  int                   true  "Country ID"
// @Param        country  body  CountryUpdateRequest  true  "Fields to update"
// @Success      200  {object}  models.Country
// @Failure      404  {object}  map[string]interface{}  "Country not found"
// @Failure      409  {object}  map[string]interface{}  "Duplicate country code"
// @Router       /api/v1/countries/{id} [put]
// UpdateCountryHandler partially updates a country
// PUT /api/v1/countries/:id
func (h *CountryHandlers) UpdateCountryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var req CountryUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if req.Code != nil {
			code, err := validation.NormalizeCountryCode(*req.Code)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			req.Code = &code
		}

		country, err := h.countries.Update(c.Request.Context(), id,
			services.CountryUpdateInput{Name: req.Name, Code: req.Code},
			requestInfo(c, req, http.StatusOK),
		)
		if err != nil {
			respondDomainError(c, err)
			return
		}

		c.JSON(http.StatusOK, country)
	}
}

// @Summary      Delete a country
// @Description  Delete a country. Refused while states still reference it.
// @Tags         Countries
// @Produce      json
// @Param        id  path  int  true  "Country ID"
// @Success      200  {object}  models.Country  "The deleted country"
// @Failure      400  {object}  map[string]interface{}  "States still reference this country"
// @Failure      404  {object}  map[string]interface{}  "Country not found"
// @Router       /api/v1/countries/{id} [delete]
// DeleteCountryHandler deletes a country
// DELETE /api/v1/countries/:id
func (h *CountryHandlers) DeleteCountryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		country, err := h.countries.Delete(c.Request.Context(), id,
			requestInfo(c, nil, http.StatusOK),
		)
		if err != nil {
			respondDomainError(c, err)
			return
		}

		c.JSON(http.StatusOK, country)
	}
}

// @Summary      List a country's states
// @Tags         Countries
// @Produce      json
// @Param        id     path   int  true   "Country ID"
// @Param        skip   query  int  false  "Rows to skip (default 0)"
// @Param        limit  query  int  false  "Max rows to return (default 100, max 1000)"
// @Success      200  {array}  models.State
// @Failure      404  {object}  map[string]interface{}  "Country not found"
// @Router       /api/v1/countries/{id}/states [get]
// ListCountryStatesHandler lists the states belonging to a country
// GET /api/v1/countries/:id/states
func (h *CountryHandlers) ListCountryStatesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		country, err := h.countries.Get(c.Request.Context(), id)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		if country == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Country not found"})
			return
		}

		skip, limit, ok := parsePagination(c)
		if !ok {
			return
		}
		states, err := h.states.List(c.Request.Context(), id, skip, limit)
		if err != nil {
			respondDomainError(c, err)
			return
		}

		c.JSON(http.StatusOK, states)
	}
}
