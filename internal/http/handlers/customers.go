package handlers

import (
	"net/http"
	"strings"

	"rental/internal/domain/models"
	"rental/internal/http/middleware"
	"rental/internal/repositories"
	"rental/internal/services"
	"rental/internal/utils"

	"github.com/gin-gonic/gin"
)

func customerService(c *gin.Context) services.CustomerService {
	return services.CustomerService{
		Customers:    repositories.CustomerRepository{},
		Reservations: repositories.ReservationRepository{},
		RequestID:    middleware.GetRequestID(c),
	}
}

type customerPayload struct {
	FullName      string `json:"fullName" binding:"required"`
	NationalID    string `json:"nationalId" binding:"required"`
	SecondaryID   string `json:"secondaryId"`
	LicenseNumber string `json:"licenseNumber"`
	LicenseExpiry string `json:"licenseExpiry"`
	LicenseState  string `json:"licenseState"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Notes         string `json:"notes"`
	Status        string `json:"status"`
}

func (p customerPayload) toModel(c *gin.Context) (models.Customer, bool) {
	out := models.Customer{
		FullName:      p.FullName,
		NationalID:    p.NationalID,
		SecondaryID:   p.SecondaryID,
		LicenseNumber: p.LicenseNumber,
		LicenseState:  p.LicenseState,
		Phone:         p.Phone,
		Address:       p.Address,
		Notes:         p.Notes,
		Status:        p.Status,
	}
	if strings.TrimSpace(p.LicenseExpiry) != "" {
		expiry, err := utils.ParseDate(p.LicenseExpiry)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "validade da CNH inválida, use AAAA-MM-DD", err)
			return models.Customer{}, false
		}
		out.LicenseExpiry = &expiry
	}
	return out, true
}

// GET /api/customers?q=maria&include_removed=true
func GetCustomers(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	includeRemoved := c.Query("include_removed") == "true"

	list, err := customerService(c).List(q, includeRemoved)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": list})
}

// GET /api/customers/:id
func GetCustomerByID(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	customer, err := customerService(c).Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// POST /api/customers
func CreateCustomer(c *gin.Context) {
	var req customerPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	customer, ok := req.toModel(c)
	if !ok {
		return
	}
	created, err := customerService(c).Create(customer)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"customer": created})
}

// PUT /api/customers/:id
func UpdateCustomer(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req customerPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	customer, okm := req.toModel(c)
	if !okm {
		return
	}
	customer.ID = id

	updated, err := customerService(c).Update(customer)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": updated})
}

// DELETE /api/customers/:id soft-deletes; history stays intact.
func DeleteCustomer(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	if err := customerService(c).Remove(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cliente removido"})
}
