package models

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{ReservationReserved, ReservationRented, true},
		{ReservationReserved, ReservationCancelled, true},
		{ReservationReserved, ReservationFinalized, false},
		{ReservationRented, ReservationFinalized, true},
		{ReservationRented, ReservationCancelled, false},
		{ReservationFinalized, ReservationRented, false},
		{ReservationCancelled, ReservationReserved, false},
		{ReservationRented, ReservationRented, true},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestReservationTransition(t *testing.T) {
	r := &Reservation{ReservationStatus: ReservationReserved}
	if err := r.Transition(ReservationRented); err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if r.ReservationStatus != ReservationRented {
		t.Fatalf("status = %s, queria %s", r.ReservationStatus, ReservationRented)
	}
	if err := r.Transition(ReservationCancelled); err == nil {
		t.Fatalf("esperava erro em Rented -> Cancelled")
	}
}

func TestVehicleStatusFor(t *testing.T) {
	if got := VehicleStatusFor(ReservationReserved); got != VehicleReserved {
		t.Errorf("VehicleStatusFor(Reserved) = %s", got)
	}
	if got := VehicleStatusFor(ReservationRented); got != VehicleRented {
		t.Errorf("VehicleStatusFor(Rented) = %s", got)
	}
	if got := VehicleStatusFor(ReservationFinalized); got != VehicleAvailable {
		t.Errorf("VehicleStatusFor(Finalized) = %s", got)
	}
}
