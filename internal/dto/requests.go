package dto

import "github.com/google/uuid"

// EnrollVendorRequest тело POST /campaigns/:id/vendors.
type EnrollVendorRequest struct {
	VendorPlatformID uuid.UUID `json:"vendor_platform_id" binding:"required"`
}

// UpdateEnrollmentRequest тело PATCH /campaigns/:id/vendors/:vendor_id.
type UpdateEnrollmentRequest struct {
	Status string `json:"status" binding:"required"`
}
