package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"backend/internal/model"
	"backend/internal/store"
)

// Sub-resource operations on a work order. Every record carries a stable
// generated id; callers address remarks, tasks, issues and assignments by id,
// never by array position.

// --- DTOs ---

type RemarkRequest struct {
	Content        string   `json:"content" binding:"required"`
	Type           string   `json:"type" binding:"required,oneof=general technical safety quality"`
	CreatedBy      string   `json:"created_by"`
	PeopleInvolved []string `json:"people_involved"`
}

type TaskRequest struct {
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	Priority    model.WorkOrderPriority `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	Status      string                  `json:"status" binding:"omitempty,oneof=pending in-progress waiting-confirmation confirmed delayed"`
	Completed   *bool                   `json:"completed"`
	StartDate   *time.Time              `json:"start_date"`
	DueDate     *time.Time              `json:"due_date"`
}

type IssueRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	Priority        string `json:"priority" binding:"omitempty,oneof=low medium high"`
	Severity        string `json:"severity" binding:"omitempty,oneof=low medium high"`
	Status          string `json:"status" binding:"omitempty,oneof=open in-progress resolved closed"`
	ReportedBy      string `json:"reported_by"`
	AssignedTo      string `json:"assigned_to"`
	ResolutionNotes string `json:"resolution_notes"`
}

type MaterialAssignmentRequest struct {
	MaterialType model.MaterialType         `json:"material_type" binding:"required,oneof=purchasable receivable"`
	Purchasable  *model.PurchasableMaterial `json:"purchasable_material"`
	Receivable   *model.ReceivableMaterial  `json:"receivable_material"`
}

type ExpenseRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category" binding:"omitempty,oneof=materials labor other"`
	SubmittedBy string          `json:"submitted_by"`
}

// mutate loads the work order, applies fn, recomputes rollups and saves,
// all inside one transaction.
func (s *workOrderService) mutate(
	ctx context.Context,
	userID, workOrderID string,
	action string,
	details any,
	fn func(wo *model.WorkOrder) error,
) (*model.WorkOrder, error) {
	woID, err := uuid.Parse(workOrderID)
	if err != nil {
		return nil, validationErrorf("invalid work order id")
	}

	var updated *model.WorkOrder
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		wo, findErr := s.repo.FindByID(txCtx, woID)
		if findErr != nil {
			return findErr
		}
		if applyErr := fn(wo); applyErr != nil {
			return applyErr
		}
		wo.ExpenseBreakdown = wo.ComputeExpenseBreakdown()
		wo.UpdatedAt = time.Now()
		if saveErr := s.repo.Save(txCtx, wo); saveErr != nil {
			return saveErr
		}
		if auditErr := s.audit(txCtx, userID, action, wo.ID.String(), wo.Details.Title, details); auditErr != nil {
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

// --- Remarks ---

func (s *workOrderService) AddRemark(ctx context.Context, userID, workOrderID string, req RemarkRequest) (*model.WorkOrder, error) {
	return s.mutate(ctx, userID, workOrderID, model.ActionAddRemark, req, func(wo *model.WorkOrder) error {
		createdBy := req.CreatedBy
		if createdBy == "" {
			createdBy = userID
		}
		wo.Remarks = append(wo.Remarks, model.WorkOrderRemark{
			ID:             uuid.New(),
			WorkOrderID:    wo.ID,
			Content:        req.Content,
			Type:           req.Type,
			CreatedBy:      createdBy,
			CreatedDate:    time.Now(),
			PeopleInvolved: req.PeopleInvolved,
		})
		return nil
	})
}

func (s *workOrderService) UpdateRemark(ctx context.Context, userID, workOrderID, remarkID string, req RemarkRequest) (*model.WorkOrder, error) {
	id, err := uuid.Parse(remarkID)
	if err != nil {
		return nil, validationErrorf("invalid remark id")
	}
	return s.mutate(ctx, userID, workOrderID, model.ActionUpdateRemark, req, func(wo *model.WorkOrder) error {
		for i := range wo.Remarks {
			if wo.Remarks[i].ID == id {
				wo.Remarks[i].Content = req.Content
				wo.Remarks[i].Type = req.Type
				if req.PeopleInvolved != nil {
					wo.Remarks[i].PeopleInvolved = req.PeopleInvolved
				}
				return nil
			}
		}
		return store.ErrNotFound
	})
}

func (s *workOrderService) DeleteRemark(ctx context.Context, userID, workOrderID, remarkID string) (*model.WorkOrder, error) {
	id, err := uuid.Parse(remarkID)
	if err != nil {
		return nil, validationErrorf("invalid remark id")
	}
	return s.mutate(ctx, userID, workOrderID, model.ActionDeleteRemark, map[string]string{"remark_id": remarkID}, func(wo *model.WorkOrder) error {
		for i := range wo.Remarks {
			if wo.Remarks[i].ID == id {
				wo.Remarks = append(wo.Remarks[:i], wo.Remarks[i+1:]...)
				return nil
			}
		}
		return store.ErrNotFound
	})
}

// --- Tasks ---

func (s *workOrderService) AddTask(ctx context.Context, userID, workOrderID string, req TaskRequest) (*model.WorkOrder, error) {
	return s.mutate(ctx, userID, workOrderID, model.ActionAddTask, req, func(wo *model.WorkOrder) error {
		status := req.Status
		if status == "" {
			status = model.TaskStatusPending
		}
		now := time.Now()
		wo.Tasks = append(wo.Tasks, model.Task{
			ID:          uuid.New(),
			Title:       req.Title,
			Description: req.Description,
			Priority:    req.Priority,
			Status:      status,
			Completed:   req.Completed != nil && *req.Completed,
			StartDate:   req.StartDate,
			DueDate:     req.DueDate,
			CreatedBy:   userID,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		return nil
	})
}

func (s *workOrderService) UpdateTask(ctx context.Context, userID, workOrderID, taskID string, req TaskRequest) (*model.WorkOrder, error) {
	id, err := uuid.Parse(taskID)
	if err != nil {
		return nil, validationErrorf("invalid task id")
	}
	return s.mutate(ctx, userID, workOrderID, model.ActionUpdateTask, req, func(wo *model.WorkOrder) error {
		for i := range wo.Tasks {
			if wo.Tasks[i].ID == id {
				t := &wo.Tasks[i]
				t.Title = req.Title
				t.Description = req.Description
				if req.Priority != "" {
					t.Priority = req.Priority
				}
				if req.Status != "" {
					t.Status = req.Status
				}
				if req.Completed != nil {
					t.Completed = *req.Completed
				}
				if req.StartDate != nil {
					t.StartDate = req.StartDate
				}
				if req.DueDate != nil {
					t.DueDate = req.DueDate
				}
				t.UpdatedAt = time.Now()
				return nil
			}
		}
		return store.ErrNotFound
	})
}

func (s *workOrderService) DeleteTask(ctx context.Context, userID, workOrderID, taskID string) (*model.WorkOrder, error) {
	id, err := uuid.Parse(taskID)
	if err != nil {
		return nil, validationErrorf("invalid task id")
	}
	return s.mutate(ctx, userID, workOrderID, model.ActionDeleteTask, map[string]string{"task_id": taskID}, func(wo *model.WorkOrder) error {
		for i := range wo.Tasks {
			if wo.Tasks[i].ID == id {
				wo.Tasks = append(wo.Tasks[:i], wo.Tasks[i+1:]...)
				return nil
			}
		}
		return store.ErrNotFound
	})
}

// --- Issues ---

func (s *workOrderService) AddIssue(ctx context.Context, userID, workOrderID string, req IssueRequest) (*model.WorkOrder, error) {
	return s.mutate(ctx, userID, workOrderID, model.ActionAddIssue, req, func(wo *model.WorkOrder) error {
		status := req.Status
		if status == "" {
			status = model.IssueStatusOpen
		}
		reportedBy := req.ReportedBy
		if reportedBy == "" {
			reportedBy = userID
		}
		wo.Issues = append(wo.Issues, model.WorkOrderIssue{
			ID:           uuid.New(),
			Title:        req.Title,
			Description:  req.Description,
			Status:       status,
			Priority:     req.Priority,
			Severity:     req.Severity,
			ReportedBy:   reportedBy,
			ReportedDate: time.Now(),
			AssignedTo:   req.AssignedTo,
		})
		return nil
	})
}

func (s *workOrderService) UpdateIssue(ctx context.Context, userID, workOrderID, issueID string, req IssueRequest) (*model.WorkOrder, error) {
	id, err := uuid.Parse(issueID)
	if err != nil {
		return nil, validationErrorf("invalid issue id")
	}
	return s.mutate(ctx, userID, workOrderID, model.ActionUpdateIssue, req, func(wo *model.WorkOrder) error {
		for i := range wo.Issues {
			if wo.Issues[i].ID == id {
				issue := &wo.Issues[i]
				issue.Title = req.Title
				issue.Description = req.Description
				if req.Priority != "" {
					issue.Priority = req.Priority
				}
				if req.Severity != "" {
					issue.Severity = req.Severity
				}
				if req.AssignedTo != "" {
					issue.AssignedTo = req.AssignedTo
				}
				if req.Status != "" && req.Status != issue.Status {
					issue.Status = req.Status
					if req.Status == model.IssueStatusResolved || req.Status == model.IssueStatusClosed {
						now := time.Now()
						issue.ResolutionDate = &now
						issue.ResolutionNotes = req.ResolutionNotes
					}
				}
				return nil
			}
		}
		return store.ErrNotFound
	})
}

func (s *workOrderService) DeleteIssue(ctx context.Context, userID, workOrderID, issueID string) (*model.WorkOrder, error) {
	id, err := uuid.Parse(issueID)
	if err != nil {
		return nil, validationErrorf("invalid issue id")
	}
	return s.mutate(ctx, userID, workOrderID, model.ActionDeleteIssue, map[string]string{"issue_id": issueID}, func(wo *model.WorkOrder) error {
		for i := range wo.Issues {
			if wo.Issues[i].ID == id {
				wo.Issues = append(wo.Issues[:i], wo.Issues[i+1:]...)
				return nil
			}
		}
		return store.ErrNotFound
	})
}

// --- Material assignments ---

func validateAssignment(req MaterialAssignmentRequest) error {
	switch req.MaterialType {
	case model.MaterialPurchasable:
		if req.Purchasable == nil {
			return validationErrorf("purchasable_material is required for a purchasable assignment")
		}
	case model.MaterialReceivable:
		if req.Receivable == nil {
			return validationErrorf("receivable_material is required for a receivable assignment")
		}
	}
	return nil
}

func (s *workOrderService) AssignMaterial(ctx context.Context, userID, workOrderID string, req MaterialAssignmentRequest) (*model.WorkOrder, error) {
	if err := validateAssignment(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, workOrderID, model.ActionAssignMaterial, req, func(wo *model.WorkOrder) error {
		wo.Materials = append(wo.Materials, model.MaterialAssignment{
			ID:           uuid.New(),
			MaterialType: req.MaterialType,
			Purchasable:  req.Purchasable,
			Receivable:   req.Receivable,
		})
		return nil
	})
}

func (s *workOrderService) UpdateMaterialAssignment(ctx context.Context, userID, workOrderID, assignmentID string, req MaterialAssignmentRequest) (*model.WorkOrder, error) {
	id, err := uuid.Parse(assignmentID)
	if err != nil {
		return nil, validationErrorf("invalid assignment id")
	}
	if err := validateAssignment(req); err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, workOrderID, model.ActionUpdateAssignment, req, func(wo *model.WorkOrder) error {
		for i := range wo.Materials {
			if wo.Materials[i].ID == id {
				wo.Materials[i].MaterialType = req.MaterialType
				wo.Materials[i].Purchasable = req.Purchasable
				wo.Materials[i].Receivable = req.Receivable
				return nil
			}
		}
		return store.ErrNotFound
	})
}

func (s *workOrderService) RemoveMaterialAssignment(ctx context.Context, userID, workOrderID, assignmentID string) (*model.WorkOrder, error) {
	id, err := uuid.Parse(assignmentID)
	if err != nil {
		return nil, validationErrorf("invalid assignment id")
	}
	return s.mutate(ctx, userID, workOrderID, model.ActionRemoveAssignment, map[string]string{"assignment_id": assignmentID}, func(wo *model.WorkOrder) error {
		for i := range wo.Materials {
			if wo.Materials[i].ID == id {
				wo.Materials = append(wo.Materials[:i], wo.Materials[i+1:]...)
				return nil
			}
		}
		return store.ErrNotFound
	})
}

// --- Expenses ---

func (s *workOrderService) AddExpense(ctx context.Context, userID, workOrderID string, req ExpenseRequest) (*model.WorkOrder, error) {
	return s.mutate(ctx, userID, workOrderID, model.ActionUpdateWorkOrder, req, func(wo *model.WorkOrder) error {
		category := req.Category
		if category == "" {
			category = model.ExpenseCategoryOther
		}
		currency := req.Currency
		if currency == "" {
			currency = "SAR"
		}
		submittedBy := req.SubmittedBy
		if submittedBy == "" {
			submittedBy = userID
		}
		wo.Expenses = append(wo.Expenses, model.WorkOrderExpense{
			ID:          uuid.New(),
			Description: req.Description,
			Amount:      req.Amount,
			Currency:    currency,
			Category:    category,
			Date:        time.Now(),
			SubmittedBy: submittedBy,
			Status:      "pending",
		})
		return nil
	})
}
