package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/store"
)

// --- DTOs ---

type CreateWorkOrderRequest struct {
	Title                string                  `json:"title" binding:"required"`
	Description          string                  `json:"description"`
	Client               string                  `json:"client"`
	Location             string                  `json:"location"`
	Category             string                  `json:"category"`
	InternalOrderNumber  string                  `json:"internal_order_number"`
	Priority             model.WorkOrderPriority `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	Status               model.WorkOrderStatus   `json:"status"`
	CompletionPercentage int                     `json:"completion_percentage" binding:"min=0,max=100"`
	EstimatedCost        decimal.Decimal         `json:"estimated_cost"`
	ReceivedDate         *time.Time              `json:"received_date"`
	StartDate            *time.Time              `json:"start_date"`
	DueDate              *time.Time              `json:"due_date"`
	TargetEndDate        *time.Time              `json:"target_end_date"`
	EngineerInCharge     *model.EngineerRef      `json:"engineer_in_charge"`
}

// WorkOrderDetailsPatch carries the deep-merged details fields of an update.
// Changing status through a patch is rejected; the status endpoint owns that.
type WorkOrderDetailsPatch struct {
	Title                *string                  `json:"title"`
	Description          *string                  `json:"description"`
	Client               *string                  `json:"client"`
	Location             *string                  `json:"location"`
	Category             *string                  `json:"category"`
	InternalOrderNumber  *string                  `json:"internal_order_number"`
	Priority             *model.WorkOrderPriority `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	Status               *model.WorkOrderStatus   `json:"status"`
	CompletionPercentage *int                     `json:"completion_percentage" binding:"omitempty,min=0,max=100"`
	ReceivedDate         *time.Time               `json:"received_date"`
	StartDate            *time.Time               `json:"start_date"`
	DueDate              *time.Time               `json:"due_date"`
	TargetEndDate        *time.Time               `json:"target_end_date"`
}

type UpdateWorkOrderRequest struct {
	Details          *WorkOrderDetailsPatch `json:"details"`
	EstimatedCost    *decimal.Decimal       `json:"estimated_cost"`
	EngineerInCharge *model.EngineerRef     `json:"engineer_in_charge"`
}

type UpdateStatusRequest struct {
	Status model.WorkOrderStatus `json:"status" binding:"required"`
	Reason string                `json:"reason"`
}

type WorkOrderFilter struct {
	Status string
	Search string
	Page   int
	Limit  int
}

// WorkOrderSummary is the list projection with derived rollups precomputed.
type WorkOrderSummary struct {
	ID                   uuid.UUID               `json:"id"`
	WorkOrderNumber      string                  `json:"work_order_number"`
	Title                string                  `json:"title"`
	Client               string                  `json:"client"`
	Location             string                  `json:"location"`
	Status               model.WorkOrderStatus   `json:"status"`
	Priority             model.WorkOrderPriority `json:"priority"`
	CompletionPercentage int                     `json:"completion_percentage"`
	ProgressColor        string                  `json:"progress_color"`
	TotalExpense         decimal.Decimal         `json:"total_expense"`
	ActionsCount         int                     `json:"actions_count"`
	DueDate              time.Time               `json:"due_date"`
	CreatedAt            time.Time               `json:"created_at"`
}

// --- Interface ---

type WorkOrderService interface {
	List(ctx context.Context, filter WorkOrderFilter) ([]WorkOrderSummary, int64, error)
	Get(ctx context.Context, id string) (*model.WorkOrder, error)
	Create(ctx context.Context, userID string, req CreateWorkOrderRequest) (*model.WorkOrder, error)
	Update(ctx context.Context, userID string, id string, req UpdateWorkOrderRequest) (*model.WorkOrder, error)
	Delete(ctx context.Context, userID string, id string) error
	UpdateStatus(ctx context.Context, userID string, id string, req UpdateStatusRequest) (*model.WorkOrder, error)
	StatusHistory(ctx context.Context, id string) ([]model.StatusTransition, error)

	// Sub-resource operations, implemented in work_order_subresources.go.
	AddRemark(ctx context.Context, userID, workOrderID string, req RemarkRequest) (*model.WorkOrder, error)
	UpdateRemark(ctx context.Context, userID, workOrderID, remarkID string, req RemarkRequest) (*model.WorkOrder, error)
	DeleteRemark(ctx context.Context, userID, workOrderID, remarkID string) (*model.WorkOrder, error)
	AddTask(ctx context.Context, userID, workOrderID string, req TaskRequest) (*model.WorkOrder, error)
	UpdateTask(ctx context.Context, userID, workOrderID, taskID string, req TaskRequest) (*model.WorkOrder, error)
	DeleteTask(ctx context.Context, userID, workOrderID, taskID string) (*model.WorkOrder, error)
	AddIssue(ctx context.Context, userID, workOrderID string, req IssueRequest) (*model.WorkOrder, error)
	UpdateIssue(ctx context.Context, userID, workOrderID, issueID string, req IssueRequest) (*model.WorkOrder, error)
	DeleteIssue(ctx context.Context, userID, workOrderID, issueID string) (*model.WorkOrder, error)
	AssignMaterial(ctx context.Context, userID, workOrderID string, req MaterialAssignmentRequest) (*model.WorkOrder, error)
	UpdateMaterialAssignment(ctx context.Context, userID, workOrderID, assignmentID string, req MaterialAssignmentRequest) (*model.WorkOrder, error)
	RemoveMaterialAssignment(ctx context.Context, userID, workOrderID, assignmentID string) (*model.WorkOrder, error)
	AddExpense(ctx context.Context, userID, workOrderID string, req ExpenseRequest) (*model.WorkOrder, error)
}

type workOrderService struct {
	repo       repository.WorkOrderRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
	seq        *store.Store
	thresholds model.ProgressThresholds
}

func NewWorkOrderService(
	repo repository.WorkOrderRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	seq *store.Store,
	thresholds model.ProgressThresholds,
) WorkOrderService {
	return &workOrderService{
		repo:       repo,
		auditRepo:  auditRepo,
		txManager:  txManager,
		seq:        seq,
		thresholds: thresholds,
	}
}

// --- Implementation ---

func (s *workOrderService) List(ctx context.Context, filter WorkOrderFilter) ([]WorkOrderSummary, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	orders, total, err := s.repo.List(ctx, filter.Page, filter.Limit, filter.Status, filter.Search)
	if err != nil {
		return nil, 0, err
	}

	out := make([]WorkOrderSummary, 0, len(orders))
	for i := range orders {
		wo := &orders[i]
		out = append(out, WorkOrderSummary{
			ID:                   wo.ID,
			WorkOrderNumber:      wo.Details.WorkOrderNumber,
			Title:                wo.Details.Title,
			Client:               wo.Details.Client,
			Location:             wo.Details.Location,
			Status:               wo.Details.Status,
			Priority:             wo.Details.Priority,
			CompletionPercentage: wo.Details.CompletionPercentage,
			ProgressColor:        s.thresholds.ProgressColor(wo.Details.CompletionPercentage),
			TotalExpense:         wo.TotalExpense(),
			ActionsCount:         wo.ActionsCount(),
			DueDate:              wo.Details.DueDate,
			CreatedAt:            wo.CreatedAt,
		})
	}
	return out, total, nil
}

func (s *workOrderService) Get(ctx context.Context, id string) (*model.WorkOrder, error) {
	woID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErrorf("invalid work order id")
	}
	return s.repo.FindByID(ctx, woID)
}

func (s *workOrderService) Create(ctx context.Context, userID string, req CreateWorkOrderRequest) (*model.WorkOrder, error) {
	status := req.Status
	if status == "" {
		status = model.StatusPending
	}
	if !model.IsValidStatus(status) {
		return nil, validationErrorf(fmt.Sprintf("unknown status %q", status))
	}
	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	now := time.Now()
	year := now.Year()
	seq := s.seq.NextSequence(fmt.Sprintf("WO-%d", year))

	wo := &model.WorkOrder{
		ID: uuid.New(),
		Details: model.WorkOrderDetails{
			WorkOrderNumber:      fmt.Sprintf("WO-%d-%03d", year, seq),
			InternalOrderNumber:  req.InternalOrderNumber,
			Title:                req.Title,
			Description:          req.Description,
			Client:               req.Client,
			Location:             req.Location,
			Status:               status,
			Priority:             priority,
			Category:             req.Category,
			CompletionPercentage: req.CompletionPercentage,
			ReceivedDate:         orNow(req.ReceivedDate, now),
			StartDate:            orNow(req.StartDate, now),
			DueDate:              orNow(req.DueDate, now.AddDate(0, 0, 30)),
			TargetEndDate:        req.TargetEndDate,
			CreatedBy:            userID,
		},
		EstimatedCost:    req.EstimatedCost,
		EngineerInCharge: req.EngineerInCharge,
		Items:            []model.WorkOrderItem{},
		Remarks:          []model.WorkOrderRemark{},
		Tasks:            []model.Task{},
		Issues:           []model.WorkOrderIssue{},
		Materials:        []model.MaterialAssignment{},
		ActionsNeeded:    []model.ActionItem{},
		Actions:          []model.WorkOrderAction{},
		Photos:           []model.WorkOrderPhoto{},
		Forms:            []model.WorkOrderForm{},
		Expenses:         []model.WorkOrderExpense{},
		Invoices:         []model.WorkOrderInvoice{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, wo); err != nil {
			return fmt.Errorf("failed to create work order: %w", err)
		}
		if err := s.audit(txCtx, userID, model.ActionCreateWorkOrder, wo.ID.String(), wo.Details.Title, req); err != nil {
			return err
		}
		store.TxFromContext(txCtx).Emit("work_order.created", wo)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wo, nil
}

func (s *workOrderService) Update(ctx context.Context, userID string, id string, req UpdateWorkOrderRequest) (*model.WorkOrder, error) {
	woID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErrorf("invalid work order id")
	}
	if req.Details != nil && req.Details.Status != nil {
		return nil, validationErrorf("status cannot be changed through update; use the status endpoint")
	}

	var updated *model.WorkOrder
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		wo, findErr := s.repo.FindByID(txCtx, woID)
		if findErr != nil {
			return findErr
		}

		mergeDetails(&wo.Details, req.Details)
		if req.EstimatedCost != nil {
			wo.EstimatedCost = *req.EstimatedCost
		}
		if req.EngineerInCharge != nil {
			wo.EngineerInCharge = req.EngineerInCharge
		}
		wo.ExpenseBreakdown = wo.ComputeExpenseBreakdown()
		wo.UpdatedAt = time.Now()

		if saveErr := s.repo.Save(txCtx, wo); saveErr != nil {
			return saveErr
		}
		if auditErr := s.audit(txCtx, userID, model.ActionUpdateWorkOrder, wo.ID.String(), wo.Details.Title, req); auditErr != nil {
			return auditErr
		}
		store.TxFromContext(txCtx).Emit("work_order.updated", wo)
		updated = wo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *workOrderService) Delete(ctx context.Context, userID string, id string) error {
	woID, err := uuid.Parse(id)
	if err != nil {
		return validationErrorf("invalid work order id")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		wo, findErr := s.repo.FindByID(txCtx, woID)
		if findErr != nil {
			return findErr
		}
		if delErr := s.repo.Delete(txCtx, woID); delErr != nil {
			return delErr
		}
		if auditErr := s.audit(txCtx, userID, model.ActionDeleteWorkOrder, id, wo.Details.Title, map[string]any{"deleted": true}); auditErr != nil {
			return auditErr
		}
		store.TxFromContext(txCtx).Emit("work_order.deleted", map[string]string{"id": id})
		return nil
	})
}

// UpdateStatus validates the requested transition against the transition
// table, stamps completion at 100 for completed orders, and records the
// change in the order's status history.
func (s *workOrderService) UpdateStatus(ctx context.Context, userID string, id string, req UpdateStatusRequest) (*model.WorkOrder, error) {
	woID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErrorf("invalid work order id")
	}
	if !model.IsValidStatus(req.Status) {
		return nil, validationErrorf(fmt.Sprintf("unknown status %q", req.Status))
	}

	var updated *model.WorkOrder
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		wo, findErr := s.repo.FindByID(txCtx, woID)
		if findErr != nil {
			return findErr
		}

		from := wo.Details.Status
		if !model.CanTransition(from, req.Status) {
			return &model.InvalidTransitionError{From: from, To: req.Status}
		}

		wo.Details.Status = req.Status
		if req.Status == model.StatusCompleted {
			wo.Details.CompletionPercentage = 100
		}
		wo.UpdatedAt = time.Now()

		if saveErr := s.repo.Save(txCtx, wo); saveErr != nil {
			return saveErr
		}

		entry := model.StatusTransition{
			ID:          uuid.New(),
			WorkOrderID: woID,
			FromStatus:  from,
			ToStatus:    req.Status,
			Reason:      req.Reason,
			ChangedBy:   userID,
			ChangedAt:   time.Now(),
		}
		if histErr := s.repo.AppendStatusHistory(txCtx, entry); histErr != nil {
			return histErr
		}

		detail := map[string]any{"from": from, "to": req.Status}
		if req.Reason != "" {
			detail["reason"] = req.Reason
		}
		if auditErr := s.audit(txCtx, userID, model.ActionChangeStatus, wo.ID.String(), wo.Details.Title, detail); auditErr != nil {
			return auditErr
		}
		store.TxFromContext(txCtx).Emit("work_order.status_changed", entry)
		updated = wo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *workOrderService) StatusHistory(ctx context.Context, id string) ([]model.StatusTransition, error) {
	woID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErrorf("invalid work order id")
	}
	return s.repo.StatusHistory(ctx, woID)
}

func (s *workOrderService) audit(ctx context.Context, userID, action, entityID, entityName string, details any) error {
	return writeAudit(ctx, s.auditRepo, userID, action, entityID, entityName, details)
}

func mergeDetails(d *model.WorkOrderDetails, patch *WorkOrderDetailsPatch) {
	if patch == nil {
		return
	}
	if patch.Title != nil {
		d.Title = *patch.Title
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.Client != nil {
		d.Client = *patch.Client
	}
	if patch.Location != nil {
		d.Location = *patch.Location
	}
	if patch.Category != nil {
		d.Category = *patch.Category
	}
	if patch.InternalOrderNumber != nil {
		d.InternalOrderNumber = *patch.InternalOrderNumber
	}
	if patch.Priority != nil {
		d.Priority = *patch.Priority
	}
	if patch.CompletionPercentage != nil {
		d.CompletionPercentage = *patch.CompletionPercentage
	}
	if patch.ReceivedDate != nil {
		d.ReceivedDate = *patch.ReceivedDate
	}
	if patch.StartDate != nil {
		d.StartDate = *patch.StartDate
	}
	if patch.DueDate != nil {
		d.DueDate = *patch.DueDate
	}
	if patch.TargetEndDate != nil {
		d.TargetEndDate = patch.TargetEndDate
	}
}

func orNow(t *time.Time, fallback time.Time) time.Time {
	if t != nil {
		return *t
	}
	return fallback
}
