package services

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
)

func sampleDocData(id int64) rentalDocData {
	odoIn := 42350
	return rentalDocData{
		ReservationID:  id,
		CustomerName:   "Maria Souza",
		NationalID:     "123.456.789-00",
		Phone:          "(45) 99999-0000",
		VehicleMake:    "Fiat",
		VehicleModel:   "Mobi",
		Plate:          "ABC1D23",
		StartDate:      day("2025-03-10"),
		EndDate:        day("2025-03-13"),
		DeliveryTime:   "09:00",
		OdometerOut:    42000,
		OdometerIn:     &odoIn,
		KmAllowance:    300,
		DailyRate:      dec("120.00"),
		PerKmRate:      dec("0.80"),
		DaysCharge:     dec("360.00"),
		KmCharge:       dec("40.00"),
		AdvancePayment: dec("100.00"),
		TotalAmount:    dec("400.00"),
		BalanceDue:     dec("300.00"),
		WashCost:       decimal.Zero,
		FineCharges:    decimal.Zero,
		DamageCharges:  decimal.Zero,
		OtherCharges:   decimal.Zero,
		Discount:       decimal.Zero,
	}
}

func TestDocsServiceGenerate(t *testing.T) {
	svc := DocsService{Loader: func(id int64) (rentalDocData, error) {
		return sampleDocData(id), nil
	}}

	contract, name, err := svc.GenerateContract(15)
	if err != nil {
		t.Fatalf("GenerateContract: %v", err)
	}
	if len(contract) == 0 || name != "CONTRATO_15_ABC1D23.pdf" {
		t.Fatalf("contrato inesperado: %d bytes, nome %q", len(contract), name)
	}
	if !bytes.HasPrefix(contract, []byte("%PDF")) {
		t.Fatal("contrato não é um PDF válido")
	}

	receipt, name, err := svc.GenerateReceipt(15)
	if err != nil {
		t.Fatalf("GenerateReceipt: %v", err)
	}
	if len(receipt) == 0 || name != "RECIBO_15_ABC1D23.pdf" {
		t.Fatalf("recibo inesperado: %d bytes, nome %q", len(receipt), name)
	}
}

func TestSafeFilenamePart(t *testing.T) {
	if got := safeFilenamePart("AB C/1*2"); got != "AB_C_1_2" {
		t.Errorf("safeFilenamePart: %q", got)
	}
	if got := safeFilenamePart("  "); got != "NA" {
		t.Errorf("vazio deve virar NA: %q", got)
	}
}
