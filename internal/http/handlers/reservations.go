package handlers

import (
	"net/http"
	"strings"
	"time"

	"rental/internal/http/middleware"
	"rental/internal/repositories"
	"rental/internal/services"
	"rental/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func reservationService(c *gin.Context) services.ReservationService {
	return services.ReservationService{
		Reservations: repositories.ReservationRepository{},
		Vehicles:     repositories.VehicleRepository{},
		Customers:    repositories.CustomerRepository{},
		RequestID:    middleware.GetRequestID(c),
	}
}

func docsService(c *gin.Context) services.DocsService {
	return services.DocsService{
		Reservations: repositories.ReservationRepository{},
		RequestID:    middleware.GetRequestID(c),
	}
}

func queryDate(c *gin.Context, key string) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		RespondError(c, http.StatusBadRequest, "parâmetro "+key+" é obrigatório (AAAA-MM-DD)", nil)
		return time.Time{}, false
	}
	t, err := utils.ParseDate(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "data inválida em "+key+", use AAAA-MM-DD", err)
		return time.Time{}, false
	}
	return t, true
}

func bodyDate(c *gin.Context, field, raw string, required bool) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			RespondError(c, http.StatusBadRequest, "campo "+field+" é obrigatório (AAAA-MM-DD)", nil)
			return time.Time{}, false
		}
		return time.Time{}, true
	}
	t, err := utils.ParseDate(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "data inválida em "+field+", use AAAA-MM-DD", err)
		return time.Time{}, false
	}
	return t, true
}

// GET /api/reservations/availability?start=2025-03-10&end=2025-03-14&allow_turnover=true
func GetAvailability(c *gin.Context) {
	start, ok := queryDate(c, "start")
	if !ok {
		return
	}
	end, ok := queryDate(c, "end")
	if !ok {
		return
	}
	allowTurnover := c.Query("allow_turnover") == "true"

	svc := services.AvailabilityService{Reservations: repositories.ReservationRepository{}}
	vehicles, err := svc.FindAvailable(start, end, allowTurnover)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"vehicles":       vehicles,
		"allow_turnover": allowTurnover,
	})
}

type reservationPayload struct {
	VehicleID      int64           `json:"vehicleId" binding:"required"`
	CustomerID     int64           `json:"customerId" binding:"required"`
	StartDate      string          `json:"startDate" binding:"required"`
	EndDate        string          `json:"endDate" binding:"required"`
	DeliveryTime   string          `json:"deliveryTime"`
	HalfDay        bool            `json:"halfDay"`
	KmAllowance    int             `json:"kmAllowance"`
	Discount       decimal.Decimal `json:"discount"`
	AdvancePayment decimal.Decimal `json:"advancePayment"`
}

// GET /api/reservations?status=Reserved
func GetReservations(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))
	list, err := reservationService(c).List(status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": list})
}

// GET /api/reservations/:id
func GetReservationByID(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	detail, err := reservationService(c).Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": detail})
}

// POST /api/reservations
func CreateReservation(c *gin.Context) {
	var req reservationPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	start, ok := bodyDate(c, "startDate", req.StartDate, true)
	if !ok {
		return
	}
	end, ok := bodyDate(c, "endDate", req.EndDate, true)
	if !ok {
		return
	}

	res, err := reservationService(c).Create(services.CreateReservationInput{
		VehicleID:      req.VehicleID,
		CustomerID:     req.CustomerID,
		StartDate:      start,
		EndDate:        end,
		DeliveryTime:   req.DeliveryTime,
		HalfDay:        req.HalfDay,
		KmAllowance:    req.KmAllowance,
		Discount:       req.Discount,
		AdvancePayment: req.AdvancePayment,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reservation": res})
}

type editReservationPayload struct {
	reservationPayload
	Status           string           `json:"status"`
	ManualDaysCharge *decimal.Decimal `json:"manualDaysCharge"`
}

// PUT /api/reservations/:id
func UpdateReservation(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req editReservationPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	start, ok := bodyDate(c, "startDate", req.StartDate, true)
	if !ok {
		return
	}
	end, ok := bodyDate(c, "endDate", req.EndDate, true)
	if !ok {
		return
	}

	res, err := reservationService(c).Edit(id, services.EditReservationInput{
		VehicleID:        req.VehicleID,
		CustomerID:       req.CustomerID,
		StartDate:        start,
		EndDate:          end,
		DeliveryTime:     req.DeliveryTime,
		Status:           req.Status,
		HalfDay:          req.HalfDay,
		KmAllowance:      req.KmAllowance,
		Discount:         req.Discount,
		AdvancePayment:   req.AdvancePayment,
		ManualDaysCharge: req.ManualDaysCharge,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservation": res})
}

type deliverPayload struct {
	DeliveryDate    string          `json:"deliveryDate"`
	DeliveryTime    string          `json:"deliveryTime"`
	OdometerOut     int             `json:"odometerOut"`
	DeliveryPayment decimal.Decimal `json:"deliveryPayment"`
}

// POST /api/reservations/:id/deliver
func DeliverReservation(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req deliverPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	deliveryDate, ok := bodyDate(c, "deliveryDate", req.DeliveryDate, false)
	if !ok {
		return
	}

	result, err := reservationService(c).Deliver(id, services.DeliverInput{
		DeliveryDate:    deliveryDate,
		DeliveryTime:    req.DeliveryTime,
		OdometerOut:     req.OdometerOut,
		DeliveryPayment: req.DeliveryPayment,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	servePDF(c, result.ContractPDF, result.ContractName)
}

type returnPayload struct {
	ReturnDate    string          `json:"returnDate"`
	OdometerIn    int             `json:"odometerIn" binding:"required"`
	WashCost      decimal.Decimal `json:"washCost"`
	FineCharges   decimal.Decimal `json:"fineCharges"`
	DamageCharges decimal.Decimal `json:"damageCharges"`
	OtherCharges  decimal.Decimal `json:"otherCharges"`
}

// POST /api/reservations/:id/return
func ReturnReservation(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	var req returnPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	returnDate, ok := bodyDate(c, "returnDate", req.ReturnDate, false)
	if !ok {
		return
	}

	result, err := reservationService(c).Return(id, services.ReturnInput{
		ReturnDate:    returnDate,
		OdometerIn:    req.OdometerIn,
		WashCost:      req.WashCost,
		FineCharges:   req.FineCharges,
		DamageCharges: req.DamageCharges,
		OtherCharges:  req.OtherCharges,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reservation": result.Reservation,
		"settlement": gin.H{
			"daysCharge":    result.Settlement.DaysCharge,
			"kmCharge":      result.Settlement.KmCharge,
			"extras":        result.Settlement.Extras,
			"grandTotal":    result.Settlement.GrandTotal,
			"signedBalance": result.Settlement.SignedBalance,
			"balanceDue":    result.Settlement.BalanceDue,
			"refund":        result.Settlement.Refund,
		},
		"receipt": result.ReceiptName,
	})
}

// POST /api/reservations/:id/cancel
func CancelReservation(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	if err := reservationService(c).Cancel(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reserva cancelada"})
}

// GET /api/reservations/pending-delivery
func GetPendingDelivery(c *gin.Context) {
	list, err := reservationService(c).PendingDelivery()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": list})
}

// GET /api/reservations/pending-return
func GetPendingReturn(c *gin.Context) {
	list, err := reservationService(c).PendingReturn()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": list})
}

// GET /api/reservations/:id/contract regenerates the handover contract.
func GetReservationContract(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	pdf, filename, err := docsService(c).GenerateContract(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	servePDF(c, pdf, filename)
}

// GET /api/reservations/:id/receipt regenerates the settlement receipt.
func GetReservationReceipt(c *gin.Context) {
	id, ok := PathID(c)
	if !ok {
		return
	}
	pdf, filename, err := docsService(c).GenerateReceipt(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	servePDF(c, pdf, filename)
}
