package models

import "time"

// InspectionReport is filed by a provider after conducting an inspection for a
// booking. It may surface follow-up work items.
type InspectionReport struct {
	ID         string     `bson:"id" json:"report_id"`
	BookingID  string     `bson:"bookingId" json:"booking_id"`
	ProviderID string     `bson:"providerId" json:"provider_id"`
	Summary    string     `bson:"summary" json:"summary"`
	WorkItems  []WorkItem `bson:"workItems,omitempty" json:"work_items,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt" json:"created_at"`
}

// InspectionReportInput is the payload for filing a report.
type InspectionReportInput struct {
	BookingID  string          `json:"booking_id" binding:"required"`
	ProviderID string          `json:"provider_id" binding:"required"`
	Summary    string          `json:"summary" binding:"required"`
	WorkItems  []WorkItemInput `json:"work_items,omitempty"`
}

// WorkItemInput is one follow-up item in a report payload.
type WorkItemInput struct {
	PackageID       string  `json:"package_id" binding:"required"`
	Description     string  `json:"description" binding:"required"`
	DiscountPercent float64 `json:"discount_percent,omitempty"`
}

// WorkItem is follow-up work surfaced by an inspection, with an optional
// discount applied when the customer books it. A later booking that references
// the item marks it resolved in the same transaction that creates the booking.
type WorkItem struct {
	ID              string     `bson:"id" json:"work_item_id"`
	ReportID        string     `bson:"reportId" json:"report_id"`
	PackageID       string     `bson:"packageId" json:"package_id"`
	Description     string     `bson:"description" json:"description"`
	DiscountPercent float64    `bson:"discountPercent,omitempty" json:"discount_percent,omitempty"`
	Resolved        bool       `bson:"resolved" json:"resolved"`
	ResolvedBy      string     `bson:"resolvedBy,omitempty" json:"resolved_by_booking_id,omitempty"`
	ResolvedAt      *time.Time `bson:"resolvedAt,omitempty" json:"resolved_at,omitempty"`
}
