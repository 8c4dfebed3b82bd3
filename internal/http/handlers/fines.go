package handlers

import (
	"net/http"

	"rental/internal/http/middleware"
	"rental/internal/repositories"
	"rental/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func fineService(c *gin.Context) services.FineService {
	return services.FineService{
		Fines:        repositories.FineRepository{},
		Reservations: repositories.ReservationRepository{},
		RequestID:    middleware.GetRequestID(c),
	}
}

// GET /api/fines?start=2025-03-01&end=2025-03-31
func GetFines(c *gin.Context) {
	start, ok := queryDate(c, "start")
	if !ok {
		return
	}
	end, ok := queryDate(c, "end")
	if !ok {
		return
	}
	list, err := fineService(c).ListByPeriod(start, end)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fines": list})
}

type finePayload struct {
	ReservationID  int64           `json:"reservationId" binding:"required"`
	InfractionType string          `json:"infractionType" binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
	InfractionAt   string          `json:"infractionAt" binding:"required"`
	Location       string          `json:"location"`
	Notes          string          `json:"notes"`
}

// POST /api/fines
func CreateFine(c *gin.Context) {
	var req finePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	infractionAt, ok := bodyDate(c, "infractionAt", req.InfractionAt, true)
	if !ok {
		return
	}

	fine, err := fineService(c).Register(services.RegisterFineInput{
		ReservationID:  req.ReservationID,
		InfractionType: req.InfractionType,
		Amount:         req.Amount,
		InfractionAt:   infractionAt,
		Location:       req.Location,
		Notes:          req.Notes,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"fine": fine})
}

type fineStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

// PUT /api/fines/:id/status
func UpdateFineStatus(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req fineStatusPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	fine, err := fineService(c).SetStatus(id, req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fine": fine})
}

// GET /api/fines/lookup?date=2025-03-11 lists who held a vehicle on the day.
func LookupFineReservations(c *gin.Context) {
	day, ok := queryDate(c, "date")
	if !ok {
		return
	}
	list, err := fineService(c).LookupByDate(day)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": list})
}
