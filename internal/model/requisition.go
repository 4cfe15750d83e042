package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Requisition statuses.
const (
	RequisitionPending            = "pending"
	RequisitionApproved           = "approved"
	RequisitionRejected           = "rejected"
	RequisitionPartiallyFulfilled = "partially-fulfilled"
	RequisitionFulfilled          = "fulfilled"
	RequisitionCancelled          = "cancelled"
)

// requisitionTransitions defines the workflow: pending goes to a decision,
// approved requisitions move through fulfillment or get cancelled.
var requisitionTransitions = map[string][]string{
	RequisitionPending:            {RequisitionApproved, RequisitionRejected},
	RequisitionApproved:           {RequisitionPartiallyFulfilled, RequisitionFulfilled, RequisitionCancelled},
	RequisitionPartiallyFulfilled: {RequisitionFulfilled, RequisitionCancelled},
}

// CanTransitionRequisition reports whether a requisition may move between statuses.
func CanTransitionRequisition(current, next string) bool {
	for _, allowed := range requisitionTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Requisition request types.
const (
	RequisitionForWorkOrder   = "work-order"
	RequisitionForMaintenance = "maintenance"
	RequisitionGeneral        = "general"
)

// MaterialRequisition is a request to draw materials from stock, optionally
// gated behind approval.
type MaterialRequisition struct {
	ID                 uuid.UUID         `json:"id"`
	RequestNumber      string            `json:"request_number"`
	RequestType        string            `json:"request_type"`
	WorkOrderID        *uuid.UUID        `json:"work_order_id,omitempty"`
	WorkOrderNumber    string            `json:"work_order_number,omitempty"`
	RequestedBy        string            `json:"requested_by"`
	RequestDate        time.Time         `json:"request_date"`
	RequiredBy         time.Time         `json:"required_by"`
	Status             string            `json:"status"`
	Items              []RequisitionItem `json:"items"`
	Justification      string            `json:"justification"`
	TotalEstimatedCost decimal.Decimal   `json:"total_estimated_cost"`
	Urgency            string            `json:"urgency"`
	ApprovalRequired   bool              `json:"approval_required"`
	ApprovedBy         string            `json:"approved_by,omitempty"`
	ApprovedDate       *time.Time        `json:"approved_date,omitempty"`
	RejectionReason    string            `json:"rejection_reason,omitempty"`
	Notes              string            `json:"notes,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// RequisitionItem links one material line to the request.
type RequisitionItem struct {
	ID                uuid.UUID       `json:"id"`
	MaterialID        uuid.UUID       `json:"material_id"`
	MaterialCode      string          `json:"material_code"`
	Description       string          `json:"description"`
	Unit              string          `json:"unit"`
	RequestedQuantity int             `json:"requested_quantity"`
	ApprovedQuantity  int             `json:"approved_quantity"`
	FulfilledQuantity int             `json:"fulfilled_quantity"`
	RemainingQuantity int             `json:"remaining_quantity"`
	Urgency           string          `json:"urgency"`
	Status            string          `json:"status"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	Notes             string          `json:"notes,omitempty"`
}

// Clone returns a deep copy including items.
func (r *MaterialRequisition) Clone() *MaterialRequisition {
	c := *r
	if r.WorkOrderID != nil {
		id := *r.WorkOrderID
		c.WorkOrderID = &id
	}
	c.Items = append([]RequisitionItem(nil), r.Items...)
	return &c
}
