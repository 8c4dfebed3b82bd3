package handlers

import (
	"net/http"
	"strings"

	"rental/internal/domain/models"
	"rental/internal/http/middleware"
	"rental/internal/repositories"
	"rental/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func fleetService(c *gin.Context) services.FleetService {
	return services.FleetService{
		Vehicles:     repositories.VehicleRepository{},
		Reservations: repositories.ReservationRepository{},
		RequestID:    middleware.GetRequestID(c),
	}
}

type vehiclePayload struct {
	Make               string          `json:"make" binding:"required"`
	Model              string          `json:"model" binding:"required"`
	Plate              string          `json:"plate" binding:"required"`
	Color              string          `json:"color"`
	CurrentKm          int             `json:"currentKm"`
	DailyRate          decimal.Decimal `json:"dailyRate"`
	PerKmRate          decimal.Decimal `json:"perKmRate"`
	ChassisNumber      string          `json:"chassisNumber"`
	RegistrationNumber string          `json:"registrationNumber"`
	ManufactureYear    int             `json:"manufactureYear"`
	OilChangeKm        int             `json:"oilChangeKm"`
	Status             string          `json:"status"`
}

func (p vehiclePayload) toModel() models.Vehicle {
	return models.Vehicle{
		Make:               p.Make,
		Model:              p.Model,
		Plate:              p.Plate,
		Color:              p.Color,
		CurrentKm:          p.CurrentKm,
		DailyRate:          p.DailyRate,
		PerKmRate:          p.PerKmRate,
		ChassisNumber:      p.ChassisNumber,
		RegistrationNumber: p.RegistrationNumber,
		ManufactureYear:    p.ManufactureYear,
		OilChangeKm:        p.OilChangeKm,
		Status:             p.Status,
	}
}

// GET /api/vehicles?q=mobi&include_excluded=true
func GetVehicles(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	includeExcluded := c.Query("include_excluded") == "true"

	list, err := fleetService(c).List(q, includeExcluded)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": list})
}

// GET /api/vehicles/:id
func GetVehicleByID(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	v, err := fleetService(c).Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"vehicle":        v,
		"oil_change_due": services.OilChangeDue(v),
	})
}

// POST /api/vehicles
func CreateVehicle(c *gin.Context) {
	var req vehiclePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	v, err := fleetService(c).Create(req.toModel())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vehicle": v})
}

// PUT /api/vehicles/:id
func UpdateVehicle(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req vehiclePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	v := req.toModel()
	v.ID = id

	updated, err := fleetService(c).Update(v)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": updated})
}

// DELETE /api/vehicles/:id soft-deletes; rental history stays intact.
func DeleteVehicle(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	if err := fleetService(c).Remove(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "veículo excluído"})
}
