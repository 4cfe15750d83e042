package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateWorkOrder  = "CREATE_WORK_ORDER"
	ActionUpdateWorkOrder  = "UPDATE_WORK_ORDER"
	ActionDeleteWorkOrder  = "DELETE_WORK_ORDER"
	ActionChangeStatus     = "CHANGE_WORK_ORDER_STATUS"
	ActionAddRemark        = "ADD_REMARK"
	ActionUpdateRemark     = "UPDATE_REMARK"
	ActionDeleteRemark     = "DELETE_REMARK"
	ActionAddTask          = "ADD_TASK"
	ActionUpdateTask       = "UPDATE_TASK"
	ActionDeleteTask       = "DELETE_TASK"
	ActionAddIssue         = "ADD_ISSUE"
	ActionUpdateIssue      = "UPDATE_ISSUE"
	ActionDeleteIssue      = "DELETE_ISSUE"
	ActionAssignMaterial   = "ASSIGN_MATERIAL"
	ActionUpdateAssignment = "UPDATE_MATERIAL_ASSIGNMENT"
	ActionRemoveAssignment = "REMOVE_MATERIAL_ASSIGNMENT"

	ActionCreateMaterial = "CREATE_MATERIAL"
	ActionUpdateMaterial = "UPDATE_MATERIAL"
	ActionDeleteMaterial = "DELETE_MATERIAL"
	ActionAdjustStock    = "ADJUST_STOCK"

	ActionSubmitRequisition  = "SUBMIT_REQUISITION"
	ActionApproveRequisition = "APPROVE_REQUISITION"
	ActionRejectRequisition  = "REJECT_REQUISITION"
	ActionFulfillRequisition = "FULFILL_REQUISITION"
	ActionCancelRequisition  = "CANCEL_REQUISITION"

	ActionCreateWarehouse = "CREATE_WAREHOUSE"
	ActionUpdateWarehouse = "UPDATE_WAREHOUSE"

	ActionCreateUser = "CREATE_USER"
	ActionUpdateUser = "UPDATE_USER"
	ActionDeleteUser = "DELETE_USER"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"user_id"` // nil for system-originated entries
	Action     string     `json:"action"`
	EntityID   string     `json:"entity_id"`
	EntityName string     `json:"entity_name,omitempty"`
	Details    string     `json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time  `json:"created_at"`
}

// StatusTransition is one entry in a work order's status history.
type StatusTransition struct {
	ID          uuid.UUID       `json:"id"`
	WorkOrderID uuid.UUID       `json:"work_order_id"`
	FromStatus  WorkOrderStatus `json:"from_status"`
	ToStatus    WorkOrderStatus `json:"to_status"`
	Reason      string          `json:"reason,omitempty"`
	ChangedBy   string          `json:"changed_by"`
	ChangedAt   time.Time       `json:"changed_at"`
}
