package models

import "time"

// Customer status values. Removal is a soft-delete; uniqueness of the
// national id is checked only among non-removed records, so a removed
// customer's id may be registered again.
const (
	CustomerActive   = "Active"
	CustomerInactive = "Inactive"
	CustomerRemoved  = "Removed"
)

type Customer struct {
	ID            int64      `json:"id"`
	FullName      string     `json:"fullName"`
	NationalID    string     `json:"nationalId"`
	SecondaryID   string     `json:"secondaryId,omitempty"`
	LicenseNumber string     `json:"licenseNumber,omitempty"`
	LicenseExpiry *time.Time `json:"licenseExpiry,omitempty"`
	LicenseState  string     `json:"licenseState,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Address       string     `json:"address,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt,omitempty"`
}

// LicenseValidOn reports whether the driver license covers the given date.
// A missing expiry date counts as invalid: delivery requires a checkable CNH.
func (c Customer) LicenseValidOn(day time.Time) bool {
	if c.LicenseExpiry == nil {
		return false
	}
	y1, m1, d1 := c.LicenseExpiry.Date()
	y2, m2, d2 := day.Date()
	exp := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	ref := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return !exp.Before(ref)
}
