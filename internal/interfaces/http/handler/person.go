package handler

import (
	"github.com/gin-gonic/gin"
	appbilling "github.com/invoicing/backend/internal/application/billing"
	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/interfaces/http/dto"
	"github.com/invoicing/backend/internal/interfaces/http/middleware"
)

// PersonHandler handles counterparty API endpoints
type PersonHandler struct {
	BaseHandler
	personService *appbilling.PersonService
}

// NewPersonHandler creates a new PersonHandler
func NewPersonHandler(personService *appbilling.PersonService) *PersonHandler {
	return &PersonHandler{personService: personService}
}

// RegisterRoutes registers person routes. The :id segment of the sales and
// purchases routes carries the identification number, not the database ID.
func (h *PersonHandler) RegisterRoutes(rg *gin.RouterGroup) {
	persons := rg.Group("/persons")
	{
		persons.POST("", h.CreatePerson)
		persons.GET("", h.ListPersons)
		persons.GET("/statistics", h.GetStatistics)
		persons.GET("/:id", h.GetPerson)
		persons.PUT("/:id", h.UpdatePerson)
		persons.DELETE("/:id", h.DeletePerson)
		persons.GET("/:id/sales", h.GetSales)
		persons.GET("/:id/purchases", h.GetPurchases)
	}
}

// CreatePerson godoc
// @ID           createPerson
// @Summary      Create a person
// @Tags         persons
// @Accept       json
// @Produce      json
// @Param        person body billing.PersonDTO true "Person"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /persons [post]
func (h *PersonHandler) CreatePerson(c *gin.Context) {
	var req appbilling.PersonDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	person, err := h.personService.CreatePerson(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, person)
}

// ListPersons godoc
// @ID           listPersons
// @Summary      List visible persons
// @Tags         persons
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Name or identification number fragment"
// @Success      200 {object} dto.Response
// @Router       /persons [get]
func (h *PersonHandler) ListPersons(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}
	page, err := h.personService.ListPersons(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetPerson godoc
// @ID           getPerson
// @Summary      Get a person by ID, hidden or not
// @Tags         persons
// @Produce      json
// @Param        id path int true "Person ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /persons/{id} [get]
func (h *PersonHandler) GetPerson(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	person, err := h.personService.GetPerson(c.Request.Context(), req.ID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, person)
}

// UpdatePerson godoc
// @ID           updatePerson
// @Summary      Replace all fields of a person
// @Tags         persons
// @Accept       json
// @Produce      json
// @Param        id path int true "Person ID"
// @Param        person body billing.PersonDTO true "Person"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /persons/{id} [put]
func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	var body appbilling.PersonDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	person, err := h.personService.UpdatePerson(c.Request.Context(), req.ID, body)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, person)
}

// DeletePerson godoc
// @ID           deletePerson
// @Summary      Hide a person
// @Description  Hides the person from listings; its invoices stay untouched.
// @Tags         persons
// @Param        id path int true "Person ID"
// @Success      204
// @Router       /persons/{id} [delete]
func (h *PersonHandler) DeletePerson(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.personService.DeletePerson(c.Request.Context(), req.ID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// GetStatistics godoc
// @ID           getPersonStatistics
// @Summary      Revenue and expenses per visible person
// @Tags         persons
// @Produce      json
// @Param        sortColumn query string false "Sort column: id, name, revenue, expenses"
// @Param        sortDirection query string false "Sort direction: asc or desc"
// @Success      200 {object} dto.Response
// @Router       /persons/statistics [get]
func (h *PersonHandler) GetStatistics(c *gin.Context) {
	sortColumn := c.DefaultQuery("sortColumn", "id")
	sortDirection := c.DefaultQuery("sortDirection", "asc")

	rows, err := h.personService.GetPersonStatistics(c.Request.Context(), sortColumn, sortDirection)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, rows)
}

// GetSales godoc
// @ID           getPersonSales
// @Summary      Invoices the person issued as seller
// @Tags         persons
// @Produce      json
// @Param        id path string true "Identification number"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /persons/{id}/sales [get]
func (h *PersonHandler) GetSales(c *gin.Context) {
	identificationNumber := c.Param("id")

	sales, err := h.personService.GetSalesByPerson(c.Request.Context(), identificationNumber)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, sales)
}

// GetPurchases godoc
// @ID           getPersonPurchases
// @Summary      Invoices the person received as buyer
// @Tags         persons
// @Produce      json
// @Param        id path string true "Identification number"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /persons/{id}/purchases [get]
func (h *PersonHandler) GetPurchases(c *gin.Context) {
	identificationNumber := c.Param("id")

	purchases, err := h.personService.GetPurchasesByPerson(c.Request.Context(), identificationNumber)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, purchases)
}
