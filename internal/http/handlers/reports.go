package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"rental/internal/http/middleware"
	"rental/internal/repositories"
	"rental/internal/services"
	"rental/internal/utils"

	"github.com/gin-gonic/gin"
)

func reportsService(c *gin.Context) services.ReportsService {
	return services.ReportsService{
		Reports:   repositories.ReportsRepository{},
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/reports/dashboard
func GetDashboard(c *gin.Context) {
	snapshot, err := reportsService(c).Dashboard()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboard": snapshot})
}

// GET /api/reports/occupancy?year=2025&month=3
func GetOccupancy(c *gin.Context) {
	today := utils.Today()
	year := today.Year()
	month := int(today.Month())

	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "ano inválido", err)
			return
		}
		year = v
	}
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "mês inválido", err)
			return
		}
		month = v
	}

	report, err := reportsService(c).MonthlyOccupancy(year, month)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"occupancy": report})
}
