package models

import "github.com/shopspring/decimal"

// ApprovalStatus is the approval tag shared by templates and customer assessments.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Valid reports whether s is a known approval status.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// CustomerType selects which weight/score track is used.
type CustomerType string

const (
	CustomerTypeNew      CustomerType = "new"
	CustomerTypeExisting CustomerType = "existing"
)

func (c CustomerType) Valid() bool {
	return c == CustomerTypeNew || c == CustomerTypeExisting
}

// TrackValues holds one number per customer type. Both values are pointers so
// that a missing field can be told apart from an explicit zero.
type TrackValues struct {
	New      *decimal.Decimal `json:"new" validate:"required"`
	Existing *decimal.Decimal `json:"existing" validate:"required"`
}

// For returns the value for the given customer type and whether it was set.
func (v TrackValues) For(ct CustomerType) (decimal.Decimal, bool) {
	var p *decimal.Decimal
	switch ct {
	case CustomerTypeNew:
		p = v.New
	case CustomerTypeExisting:
		p = v.Existing
	}
	if p == nil {
		return decimal.Zero, false
	}
	return *p, true
}

// NewTrackValues builds a TrackValues from two plain numbers.
func NewTrackValues(newValue, existingValue decimal.Decimal) TrackValues {
	return TrackValues{New: &newValue, Existing: &existingValue}
}
