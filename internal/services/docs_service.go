package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"rental/internal/domain"
	"rental/internal/repositories"
	"rental/internal/utils"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// DocsService renders the rental contract and the return receipt as PDFs.
type DocsService struct {
	Reservations repositories.ReservationRepository
	RequestID    string
	Loader       func(int64) (rentalDocData, error)
}

type rentalDocData struct {
	ReservationID int64
	CustomerName  string
	NationalID    string
	Phone         string
	VehicleMake   string
	VehicleModel  string
	Plate         string
	StartDate     time.Time
	EndDate       time.Time
	DeliveryTime  string
	OdometerOut   int
	OdometerIn    *int
	KmAllowance   int
	DailyRate     decimal.Decimal
	PerKmRate     decimal.Decimal

	DaysCharge      decimal.Decimal
	KmCharge        decimal.Decimal
	WashCost        decimal.Decimal
	FineCharges     decimal.Decimal
	DamageCharges   decimal.Decimal
	OtherCharges    decimal.Decimal
	Discount        decimal.Decimal
	AdvancePayment  decimal.Decimal
	DeliveryPayment decimal.Decimal
	TotalAmount     decimal.Decimal
	BalanceDue      decimal.Decimal
}

func docDataFromDetail(d repositories.ReservationDetail) rentalDocData {
	return rentalDocData{
		ReservationID:   d.ID,
		CustomerName:    d.CustomerName,
		NationalID:      d.CustomerNationalID,
		Phone:           d.CustomerPhone,
		VehicleMake:     d.VehicleMake,
		VehicleModel:    d.VehicleModel,
		Plate:           d.VehiclePlate,
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		DeliveryTime:    d.DeliveryTime,
		OdometerOut:     d.OdometerOut,
		OdometerIn:      d.OdometerIn,
		KmAllowance:     d.KmAllowance,
		DailyRate:       d.VehicleDailyRate,
		PerKmRate:       d.VehiclePerKmRate,
		DaysCharge:      d.DaysCharge,
		WashCost:        d.WashCost,
		FineCharges:     d.FineCharges,
		DamageCharges:   d.DamageCharges,
		OtherCharges:    d.OtherCharges,
		Discount:        d.Discount,
		AdvancePayment:  d.AdvancePayment,
		DeliveryPayment: d.DeliveryPayment,
		TotalAmount:     d.TotalAmount,
		BalanceDue:      d.BalanceDue,
	}
}

// GenerateContract renders the handover contract for a stored reservation.
func (s DocsService) GenerateContract(reservationID int64) ([]byte, string, error) {
	data, err := s.load(reservationID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_contract", fmt.Sprintf("reservation_id=%d", reservationID))
	return buildContractPDF(data)
}

// GenerateReceipt renders the settlement receipt for a stored reservation.
func (s DocsService) GenerateReceipt(reservationID int64) ([]byte, string, error) {
	data, err := s.load(reservationID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", fmt.Sprintf("reservation_id=%d", reservationID))
	return buildReceiptPDF(data)
}

func (s DocsService) load(reservationID int64) (rentalDocData, error) {
	if s.Loader != nil {
		return s.Loader(reservationID)
	}
	detail, err := s.Reservations.GetDetail(reservationID)
	if err != nil {
		return rentalDocData{}, err
	}
	return docDataFromDetail(detail), nil
}

func buildContractPDF(d rentalDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Contrato de Locacao", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "CONTRATO DE LOCACAO DE VEICULO")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Contrato No     : %d", d.ReservationID),
		fmt.Sprintf("Locatario       : %s", safe(d.CustomerName, "-")),
		fmt.Sprintf("CPF             : %s", safe(d.NationalID, "-")),
		fmt.Sprintf("Telefone        : %s", safe(d.Phone, "-")),
		fmt.Sprintf("Veiculo         : %s %s", safe(d.VehicleMake, "-"), safe(d.VehicleModel, "-")),
		fmt.Sprintf("Placa           : %s", safe(d.Plate, "-")),
		fmt.Sprintf("Retirada        : %s %s", d.StartDate.Format("02/01/2006"), safe(timeHM(d.DeliveryTime), "")),
		fmt.Sprintf("Devolucao       : %s", d.EndDate.Format("02/01/2006")),
		fmt.Sprintf("Km de saida     : %d", d.OdometerOut),
		fmt.Sprintf("Franquia diaria : %d km", d.KmAllowance),
		fmt.Sprintf("Diaria          : %s", utils.FormatBRL(d.DailyRate)),
		fmt.Sprintf("Km excedente    : %s por km", utils.FormatBRL(d.PerKmRate)),
		fmt.Sprintf("Total estimado  : %s", utils.FormatBRL(d.TotalAmount)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "O locatario declara ter recebido o veiculo nas condicoes descritas acima e se compromete a devolve-lo na data acordada.", "", "", false)

	pdf.Ln(16)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(90, 7, "______________________________")
	pdf.Cell(90, 7, "______________________________")
	pdf.Ln(6)
	pdf.Cell(90, 7, "Locadora")
	pdf.Cell(90, 7, "Locatario")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.DocumentError{Doc: "contrato", Err: err}
	}

	filename := fmt.Sprintf("CONTRATO_%d_%s.pdf", d.ReservationID, safeFilenamePart(d.Plate))
	return buf.Bytes(), filename, nil
}

func buildReceiptPDF(d rentalDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Recibo de Devolucao", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "RECIBO DE DEVOLUCAO")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Contrato No : %d", d.ReservationID))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Emitido em  : "+time.Now().Format("02/01/2006 15:04"))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Locatario   : %s", safe(d.CustomerName, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Veiculo     : %s %s (%s)", safe(d.VehicleMake, "-"), safe(d.VehicleModel, "-"), safe(d.Plate, "-")))
	pdf.Ln(10)

	odoIn := "-"
	if d.OdometerIn != nil {
		odoIn = fmt.Sprintf("%d", *d.OdometerIn)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Detalhamento:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	rows := []string{
		fmt.Sprintf("Km saida / retorno : %d / %s", d.OdometerOut, odoIn),
		fmt.Sprintf("Diarias            : %s", utils.FormatBRL(d.DaysCharge)),
		fmt.Sprintf("Km excedente       : %s", utils.FormatBRL(d.KmCharge)),
		fmt.Sprintf("Lavagem            : %s", utils.FormatBRL(d.WashCost)),
		fmt.Sprintf("Multas             : %s", utils.FormatBRL(d.FineCharges)),
		fmt.Sprintf("Avarias            : %s", utils.FormatBRL(d.DamageCharges)),
		fmt.Sprintf("Outros             : %s", utils.FormatBRL(d.OtherCharges)),
		fmt.Sprintf("Adiantamento       : %s", utils.FormatBRL(d.AdvancePayment)),
		fmt.Sprintf("Pago na entrega    : %s", utils.FormatBRL(d.DeliveryPayment)),
	}
	for _, row := range rows {
		pdf.Cell(0, 6, row)
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total geral : "+utils.FormatBRL(d.TotalAmount))
	pdf.Ln(8)
	pdf.Cell(0, 8, "Saldo       : "+utils.FormatBRL(d.BalanceDue))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Recibo emitido na devolucao do veiculo. Valores ja consideram descontos e pagamentos anteriores.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.DocumentError{Doc: "recibo", Err: err}
	}

	filename := fmt.Sprintf("RECIBO_%d_%s.pdf", d.ReservationID, safeFilenamePart(d.Plate))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func timeHM(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 5 {
		return v[:5]
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
