package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkOrderStatus is the closed set of lifecycle states a work order can be in.
type WorkOrderStatus string

// Core workflow statuses.
const (
	StatusPending    WorkOrderStatus = "pending"
	StatusInProgress WorkOrderStatus = "in-progress"
	StatusOnHold     WorkOrderStatus = "on-hold"
	StatusCompleted  WorkOrderStatus = "completed"
	StatusCancelled  WorkOrderStatus = "cancelled"
)

// Enterprise statuses carried over from the client's workflow catalogue.
// These are terminal by data design: no outgoing transitions are configured.
const (
	StatusUpdatedAlreadyUDSProblem                       WorkOrderStatus = "updated-already-uds-problem"
	StatusReadyForCompleteCertificateWithRequirement     WorkOrderStatus = "ready-for-complete-certificate-with-requirement"
	StatusReadyForUpdatingUDISProblem                    WorkOrderStatus = "ready-for-updating-udis-problem"
	StatusUpdatedAlreadyNeedRTIOnly                      WorkOrderStatus = "updated-already-need-rti-only"
	StatusUnderCheckingAndSignatures                     WorkOrderStatus = "under-checking-and-signatures"
	StatusPaidWithVAT                                    WorkOrderStatus = "paid-with-vat"
	StatusUpdatedAlreadyRTIAndReceivingInProcess         WorkOrderStatus = "updated-already-rti-and-receiving-in-process"
	StatusNeedDP                                         WorkOrderStatus = "need-dp"
	StatusReadyForCheckingNeedPrepareDocuments           WorkOrderStatus = "ready-for-checking-need-prepare-documents"
	StatusUpdatedAlreadyEngSectionForApproval            WorkOrderStatus = "updated-already-eng-section-for-approval"
	StatusWaitingShutdown                                WorkOrderStatus = "waiting-shutdown"
	StatusInProgressForPermission                        WorkOrderStatus = "in-progress-for-permission"
	StatusCancelWorkOrder                                WorkOrderStatus = "cancel-work-order"
	StatusNeedReplacementEquipment                       WorkOrderStatus = "need-replacement-equipment"
	StatusWaitingFinancial                               WorkOrderStatus = "waiting-financial"
	StatusReadyForChecking                               WorkOrderStatus = "ready-for-checking"
	StatusClosedWithMustakhlasNeed1stApproval            WorkOrderStatus = "closed-with-mustakhlas-need-1st-approval"
	StatusNeedMustakhlasWithoutRequirements              WorkOrderStatus = "need-mustakhlas-without-requirements"
	StatusUpdatedAlreadyNeedReceivingMaterialsOnly       WorkOrderStatus = "updated-already-need-receiving-materials-only"
	StatusCompleteCertificateNeed2ndApproval             WorkOrderStatus = "complete-certificate-need-2nd-approval"
	StatusClosedWithMustakhlasNeed2ndApproval            WorkOrderStatus = "closed-with-mustakhlas-need-2nd-approval"
	StatusMaterialsReceivedNeed155                       WorkOrderStatus = "materials-received-need-155"
	StatusReadyForCompleteCertificateWithoutRequirement  WorkOrderStatus = "ready-for-complete-certificate-without-requirement"
	StatusClosedWithMustakhlasNeed1stApprovalReturnScrap WorkOrderStatus = "closed-with-mustakhlas-need-1st-approval-need-return-sc-scrap"
)

// WorkOrderPriority ranks urgency of a work order.
type WorkOrderPriority string

const (
	PriorityLow      WorkOrderPriority = "low"
	PriorityMedium   WorkOrderPriority = "medium"
	PriorityHigh     WorkOrderPriority = "high"
	PriorityCritical WorkOrderPriority = "critical"
)

// WorkOrder is the aggregate root for a unit of field work: lifecycle state,
// billable items, material assignments, and all tracked sub-records.
type WorkOrder struct {
	ID               uuid.UUID            `json:"id"`
	Details          WorkOrderDetails     `json:"details"`
	EstimatedCost    decimal.Decimal      `json:"estimated_cost"`
	EngineerInCharge *EngineerRef         `json:"engineer_in_charge,omitempty"`
	Items            []WorkOrderItem      `json:"items"`
	Remarks          []WorkOrderRemark    `json:"remarks"`
	Tasks            []Task               `json:"tasks"`
	Issues           []WorkOrderIssue     `json:"issues"`
	Materials        []MaterialAssignment `json:"materials"`
	ActionsNeeded    []ActionItem         `json:"actions_needed"`
	Actions          []WorkOrderAction    `json:"actions"`
	Photos           []WorkOrderPhoto     `json:"photos"`
	Forms            []WorkOrderForm      `json:"forms"`
	Expenses         []WorkOrderExpense   `json:"expenses"`
	Invoices         []WorkOrderInvoice   `json:"invoices"`
	ExpenseBreakdown ExpenseBreakdown     `json:"expense_breakdown"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// WorkOrderDetails groups the scalar header fields of a work order.
type WorkOrderDetails struct {
	WorkOrderNumber      string            `json:"work_order_number"`
	InternalOrderNumber  string            `json:"internal_order_number"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	Client               string            `json:"client"`
	Location             string            `json:"location"`
	Status               WorkOrderStatus   `json:"status"`
	Priority             WorkOrderPriority `json:"priority"`
	Category             string            `json:"category"`
	CompletionPercentage int               `json:"completion_percentage"`
	ReceivedDate         time.Time         `json:"received_date"`
	StartDate            time.Time         `json:"start_date"`
	DueDate              time.Time         `json:"due_date"`
	TargetEndDate        *time.Time        `json:"target_end_date,omitempty"`
	CreatedBy            string            `json:"created_by"`
}

// EngineerRef identifies the engineer in charge.
type EngineerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WorkOrderItem is a billable line item priced against estimated and actual quantities.
type WorkOrderItem struct {
	ID                     uuid.UUID       `json:"id"`
	ItemNumber             string          `json:"item_number"`
	Title                  string          `json:"title"`
	Description            string          `json:"description"`
	Unit                   string          `json:"unit"`
	UnitPrice              decimal.Decimal `json:"unit_price"`
	Status                 string          `json:"status"`
	EstimatedQuantity      decimal.Decimal `json:"estimated_quantity"`
	EstimatedPrice         decimal.Decimal `json:"estimated_price"`
	EstimatedPriceWithVAT  decimal.Decimal `json:"estimated_price_with_vat"`
	ActualQuantity         decimal.Decimal `json:"actual_quantity"`
	ActualPrice            decimal.Decimal `json:"actual_price"`
	ActualPriceWithVAT     decimal.Decimal `json:"actual_price_with_vat"`
	ReasonForFinalQuantity string          `json:"reason_for_final_quantity"`
}

// WorkOrderRemark is a typed note attached to a work order.
type WorkOrderRemark struct {
	ID             uuid.UUID `json:"id"`
	WorkOrderID    uuid.UUID `json:"work_order_id"`
	Content        string    `json:"content"`
	Type           string    `json:"type"` // general, technical, safety, quality
	CreatedBy      string    `json:"created_by"`
	CreatedDate    time.Time `json:"created_date"`
	PeopleInvolved []string  `json:"people_involved,omitempty"`
}

// Task statuses.
const (
	TaskStatusPending             = "pending"
	TaskStatusInProgress          = "in-progress"
	TaskStatusWaitingConfirmation = "waiting-confirmation"
	TaskStatusConfirmed           = "confirmed"
	TaskStatusDelayed             = "delayed"
)

// Task is a unit of scheduled work inside a work order.
type Task struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Priority    WorkOrderPriority `json:"priority,omitempty"`
	Status      string            `json:"status"`
	Completed   bool              `json:"completed"`
	StartDate   *time.Time        `json:"start_date,omitempty"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	CreatedBy   string            `json:"created_by,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Issue statuses.
const (
	IssueStatusOpen       = "open"
	IssueStatusInProgress = "in-progress"
	IssueStatusResolved   = "resolved"
	IssueStatusClosed     = "closed"
)

// WorkOrderIssue is a reported problem tracked against a work order.
type WorkOrderIssue struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Status          string     `json:"status"`
	Priority        string     `json:"priority"`
	Severity        string     `json:"severity"`
	ReportedBy      string     `json:"reported_by"`
	ReportedDate    time.Time  `json:"reported_date"`
	AssignedTo      string     `json:"assigned_to,omitempty"`
	ResolutionDate  *time.Time `json:"resolution_date,omitempty"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
}

// MaterialAssignment links a material to a work order, either as a purchase
// or as client-supplied stock to receive.
type MaterialAssignment struct {
	ID           uuid.UUID            `json:"id"`
	MaterialType MaterialType         `json:"material_type"`
	Purchasable  *PurchasableMaterial `json:"purchasable_material,omitempty"`
	Receivable   *ReceivableMaterial  `json:"receivable_material,omitempty"`
}

// PurchasableMaterial is bought for the work order from a supplier.
type PurchasableMaterial struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Status       string          `json:"status"`
	Supplier     string          `json:"supplier,omitempty"`
	OrderDate    *time.Time      `json:"order_date,omitempty"`
	DeliveryDate *time.Time      `json:"delivery_date,omitempty"`
}

// ReceivableMaterial is issued to the work order from client stock.
type ReceivableMaterial struct {
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Unit              string          `json:"unit"`
	EstimatedQuantity decimal.Decimal `json:"estimated_quantity"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	ActualQuantity    decimal.Decimal `json:"actual_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	ReturnedQuantity  decimal.Decimal `json:"returned_quantity"`
	Status            string          `json:"status"` // pending, ordered, received, used
	ReceivedDate      *time.Time      `json:"received_date,omitempty"`
	ReturnedDate      *time.Time      `json:"returned_date,omitempty"`
}

// ActionItem is a follow-up the work order still needs.
type ActionItem struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"due_date"`
	AssignedTo  string    `json:"assigned_to,omitempty"`
}

// WorkOrderAction is a completed or scheduled intervention on site.
type WorkOrderAction struct {
	ID            uuid.UUID         `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Status        string            `json:"status"` // pending, in-progress, completed
	Priority      WorkOrderPriority `json:"priority"`
	AssignedTo    string            `json:"assigned_to"`
	DueDate       time.Time         `json:"due_date"`
	CompletedDate *time.Time        `json:"completed_date,omitempty"`
	CompletedBy   string            `json:"completed_by,omitempty"`
}

// WorkOrderPhoto records site photography by phase.
type WorkOrderPhoto struct {
	ID           uuid.UUID `json:"id"`
	URL          string    `json:"url"`
	Caption      string    `json:"caption"`
	Type         string    `json:"type"` // before, during, after, issue
	UploadedBy   string    `json:"uploaded_by"`
	UploadedDate time.Time `json:"uploaded_date"`
}

// WorkOrderForm is a checklist or certificate attached to the order.
type WorkOrderForm struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Type          string     `json:"type"` // checklist, inspection, safety, quality, permit, material
	Status        string     `json:"status"`
	SubmittedDate *time.Time `json:"submitted_date,omitempty"`
	SubmittedBy   string     `json:"submitted_by,omitempty"`
	URL           string     `json:"url"`
}

// Expense categories feeding the breakdown rollup.
const (
	ExpenseCategoryMaterials = "materials"
	ExpenseCategoryLabor     = "labor"
	ExpenseCategoryOther     = "other"
)

// WorkOrderExpense is a monetary cost booked against the work order.
type WorkOrderExpense struct {
	ID           uuid.UUID       `json:"id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Category     string          `json:"category"`
	Date         time.Time       `json:"date"`
	SubmittedBy  string          `json:"submitted_by"`
	Status       string          `json:"status"` // pending, approved, rejected
	ApprovedBy   string          `json:"approved_by,omitempty"`
	ApprovedDate *time.Time      `json:"approved_date,omitempty"`
}

// WorkOrderInvoice is a client invoice issued for the order.
type WorkOrderInvoice struct {
	ID        uuid.UUID       `json:"id"`
	Number    string          `json:"number"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	IssueDate time.Time       `json:"issue_date"`
	DueDate   time.Time       `json:"due_date"`
	Status    string          `json:"status"` // draft, sent, paid, overdue, cancelled
	PaidDate  *time.Time      `json:"paid_date,omitempty"`
	PaidBy    string          `json:"paid_by,omitempty"`
	URL       string          `json:"url,omitempty"`
}

// ExpenseBreakdown subtotals expenses by category.
type ExpenseBreakdown struct {
	Materials decimal.Decimal `json:"materials"`
	Labor     decimal.Decimal `json:"labor"`
	Other     decimal.Decimal `json:"other"`
}

// TotalExpense sums all expense amounts; zero when no expenses are booked.
func (w *WorkOrder) TotalExpense() decimal.Decimal {
	total := decimal.Zero
	for _, e := range w.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// ActionsCount counts outstanding follow-ups. ActionsNeeded takes precedence;
// older records only populated Actions, so fall back to it when empty.
func (w *WorkOrder) ActionsCount() int {
	if len(w.ActionsNeeded) > 0 {
		return len(w.ActionsNeeded)
	}
	return len(w.Actions)
}

// ComputeExpenseBreakdown recomputes the materials/labor/other subtotals from
// the current expense list. Unknown categories count as other.
func (w *WorkOrder) ComputeExpenseBreakdown() ExpenseBreakdown {
	b := ExpenseBreakdown{Materials: decimal.Zero, Labor: decimal.Zero, Other: decimal.Zero}
	for _, e := range w.Expenses {
		switch e.Category {
		case ExpenseCategoryMaterials:
			b.Materials = b.Materials.Add(e.Amount)
		case ExpenseCategoryLabor:
			b.Labor = b.Labor.Add(e.Amount)
		default:
			b.Other = b.Other.Add(e.Amount)
		}
	}
	return b
}

// ProgressThresholds buckets a completion percentage into a display class.
type ProgressThresholds struct {
	Alert   int // below this the order is behind
	Caution int // below this the order needs attention
}

// DefaultProgressThresholds matches the dashboard's 30/70 buckets.
var DefaultProgressThresholds = ProgressThresholds{Alert: 30, Caution: 70}

// ProgressColor classifies a completion percentage against the thresholds.
func (t ProgressThresholds) ProgressColor(percentage int) string {
	switch {
	case percentage < t.Alert:
		return "alert"
	case percentage < t.Caution:
		return "caution"
	default:
		return "normal"
	}
}

// Clone returns a deep copy so callers can hand out work orders without
// exposing the store's canonical record.
func (w *WorkOrder) Clone() *WorkOrder {
	c := *w
	if w.EngineerInCharge != nil {
		ref := *w.EngineerInCharge
		c.EngineerInCharge = &ref
	}
	c.Items = append([]WorkOrderItem(nil), w.Items...)
	c.Remarks = make([]WorkOrderRemark, len(w.Remarks))
	for i, r := range w.Remarks {
		r.PeopleInvolved = append([]string(nil), r.PeopleInvolved...)
		c.Remarks[i] = r
	}
	c.Tasks = append([]Task(nil), w.Tasks...)
	c.Issues = append([]WorkOrderIssue(nil), w.Issues...)
	c.Materials = make([]MaterialAssignment, len(w.Materials))
	for i, m := range w.Materials {
		if m.Purchasable != nil {
			p := *m.Purchasable
			m.Purchasable = &p
		}
		if m.Receivable != nil {
			r := *m.Receivable
			m.Receivable = &r
		}
		c.Materials[i] = m
	}
	c.ActionsNeeded = append([]ActionItem(nil), w.ActionsNeeded...)
	c.Actions = append([]WorkOrderAction(nil), w.Actions...)
	c.Photos = append([]WorkOrderPhoto(nil), w.Photos...)
	c.Forms = append([]WorkOrderForm(nil), w.Forms...)
	c.Expenses = append([]WorkOrderExpense(nil), w.Expenses...)
	c.Invoices = append([]WorkOrderInvoice(nil), w.Invoices...)
	return &c
}
