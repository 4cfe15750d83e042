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

type RequisitionItemRequest struct {
	MaterialID string `json:"material_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	Urgency    string `json:"urgency" binding:"omitempty,oneof=low normal high emergency"`
	Notes      string `json:"notes"`
}

type SubmitRequisitionRequest struct {
	RequestType      string                   `json:"request_type" binding:"omitempty,oneof=work-order maintenance general"`
	WorkOrderID      string                   `json:"work_order_id"`
	RequiredBy       *time.Time               `json:"required_by"`
	Urgency          string                   `json:"urgency" binding:"omitempty,oneof=low normal high emergency"`
	Justification    string                   `json:"justification"`
	Notes            string                   `json:"notes"`
	ApprovalRequired *bool                    `json:"approval_required"`
	Items            []RequisitionItemRequest `json:"items" binding:"required,min=1,dive"`
}

type ItemApproval struct {
	ItemID           string `json:"item_id" binding:"required"`
	ApprovedQuantity int    `json:"approved_quantity" binding:"min=0"`
}

// ApproveRequisitionRequest may override per-line quantities; lines without an
// override are approved at the requested quantity.
type ApproveRequisitionRequest struct {
	Items []ItemApproval `json:"items" binding:"omitempty,dive"`
	Notes string         `json:"notes"`
}

type RejectRequisitionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ItemFulfillment struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type FulfillRequisitionRequest struct {
	WarehouseID string            `json:"warehouse_id"`
	Items       []ItemFulfillment `json:"items" binding:"required,min=1,dive"`
}

type RequisitionFilter struct {
	Status string
	Page   int
	Limit  int
}

type RequisitionService interface {
	List(ctx context.Context, filter RequisitionFilter) ([]model.MaterialRequisition, int64, error)
	Get(ctx context.Context, id string) (*model.MaterialRequisition, error)
	Submit(ctx context.Context, userID string, req SubmitRequisitionRequest) (*model.MaterialRequisition, error)
	Approve(ctx context.Context, userID string, id string, req ApproveRequisitionRequest) (*model.MaterialRequisition, error)
	Reject(ctx context.Context, userID string, id string, req RejectRequisitionRequest) (*model.MaterialRequisition, error)
	Fulfill(ctx context.Context, userID string, id string, req FulfillRequisitionRequest) (*model.MaterialRequisition, error)
	Cancel(ctx context.Context, userID string, id string) (*model.MaterialRequisition, error)
}

type requisitionService struct {
	repo       repository.RequisitionRepository
	materials  repository.MaterialRepository
	movements  repository.MovementRepository
	workOrders repository.WorkOrderRepository
	auditRepo  repository.AuditRepository
	txManager  repository.TransactionManager
	seq        *store.Store
}

func NewRequisitionService(
	repo repository.RequisitionRepository,
	materials repository.MaterialRepository,
	movements repository.MovementRepository,
	workOrders repository.WorkOrderRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	seq *store.Store,
) RequisitionService {
	return &requisitionService{
		repo:       repo,
		materials:  materials,
		movements:  movements,
		workOrders: workOrders,
		auditRepo:  auditRepo,
		txManager:  txManager,
		seq:        seq,
	}
}

func (s *requisitionService) List(ctx context.Context, filter RequisitionFilter) ([]model.MaterialRequisition, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter.Status, filter.Page, filter.Limit)
}

func (s *requisitionService) Get(ctx context.Context, id string) (*model.MaterialRequisition, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErrorf("invalid requisition id")
	}
	return s.repo.FindByID(ctx, reqID)
}

// Submit creates a requisition. With approval not required the requisition is
// created pre-approved and every line carries its requested quantity as the
// approved quantity.
func (s *requisitionService) Submit(ctx context.Context, userID string, req SubmitRequisitionRequest) (*model.MaterialRequisition, error) {
	requestType := req.RequestType
	if requestType == "" {
		requestType = model.RequisitionGeneral
	}
	urgency := req.Urgency
	if urgency == "" {
		urgency = "normal"
	}
	approvalRequired := req.ApprovalRequired == nil || *req.ApprovalRequired

	var workOrderID *uuid.UUID
	if req.WorkOrderID != "" {
		id, err := uuid.Parse(req.WorkOrderID)
		if err != nil {
			return nil, validationErrorf("invalid work order id")
		}
		workOrderID = &id
	}

	var requisition *model.MaterialRequisition
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		now := time.Now()
		workOrderNumber := ""
		if workOrderID != nil {
			wo, findErr := s.workOrders.FindByID(txCtx, *workOrderID)
			if findErr != nil {
				return findErr
			}
			workOrderNumber = wo.Details.WorkOrderNumber
		}

		items := make([]model.RequisitionItem, 0, len(req.Items))
		totalCost := decimal.Zero
		for _, line := range req.Items {
			mID, parseErr := uuid.Parse(line.MaterialID)
			if parseErr != nil {
				return validationErrorf("invalid material id in items")
			}
			m, findErr := s.materials.FindByID(txCtx, mID)
			if findErr != nil {
				return findErr
			}

			lineUrgency := line.Urgency
			if lineUrgency == "" {
				lineUrgency = urgency
			}
			cost := m.UnitCost.Mul(decimal.NewFromInt(int64(line.Quantity)))
			item := model.RequisitionItem{
				ID:                uuid.New(),
				MaterialID:        m.ID,
				MaterialCode:      m.Code,
				Description:       m.Description,
				Unit:              m.Unit,
				RequestedQuantity: line.Quantity,
				RemainingQuantity: line.Quantity,
				Urgency:           lineUrgency,
				Status:            model.RequisitionPending,
				EstimatedCost:     cost,
				Notes:             line.Notes,
			}
			if !approvalRequired {
				item.ApprovedQuantity = line.Quantity
				item.Status = model.RequisitionApproved
			}
			items = append(items, item)
			totalCost = totalCost.Add(cost)
		}

		period := fmt.Sprintf("%d%02d", now.Year(), now.Month())
		requisition = &model.MaterialRequisition{
			ID:                 uuid.New(),
			RequestNumber:      fmt.Sprintf("REQ-%s-%04d", period, s.seq.NextSequence("REQ-"+period)),
			RequestType:        requestType,
			WorkOrderID:        workOrderID,
			WorkOrderNumber:    workOrderNumber,
			RequestedBy:        userID,
			RequestDate:        now,
			RequiredBy:         orNow(req.RequiredBy, now.AddDate(0, 0, 7)),
			Status:             model.RequisitionPending,
			Items:              items,
			Justification:      req.Justification,
			TotalEstimatedCost: totalCost,
			Urgency:            urgency,
			ApprovalRequired:   approvalRequired,
			Notes:              req.Notes,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if !approvalRequired {
			requisition.Status = model.RequisitionApproved
			requisition.ApprovedBy = userID
			requisition.ApprovedDate = &now
		}

		if createErr := s.repo.Create(txCtx, requisition); createErr != nil {
			return createErr
		}
		if auditErr := writeAudit(txCtx, s.auditRepo, userID, model.ActionSubmitRequisition, requisition.ID.String(), requisition.RequestNumber, req); auditErr != nil {
			return auditErr
		}
		store.TxFromContext(txCtx).Emit("requisition.submitted", requisition)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return requisition, nil
}

// Approve moves a pending requisition to approved. Approving an already
// approved requisition is a no-op and returns the current record.
func (s *requisitionService) Approve(ctx context.Context, userID string, id string, req ApproveRequisitionRequest) (*model.MaterialRequisition, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErrorf("invalid requisition id")
	}

	var approved *model.MaterialRequisition
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		requisition, findErr := s.repo.FindByID(txCtx, reqID)
		if findErr != nil {
			return findErr
		}

		if requisition.Status == model.RequisitionApproved {
			approved = requisition
			return nil
		}
		if !model.CanTransitionRequisition(requisition.Status, model.RequisitionApproved) {
			return validationErrorf(fmt.Sprintf("requisition in status %q cannot be approved", requisition.Status))
		}

		overrides := make(map[string]int, len(req.Items))
		for _, o := range req.Items {
			overrides[o.ItemID] = o.ApprovedQuantity
		}
		for i := range requisition.Items {
			item := &requisition.Items[i]
			qty, ok := overrides[item.ID.String()]
			if !ok {
				qty = item.RequestedQuantity
			}
			if qty > item.RequestedQuantity {
				return validationErrorf("approved quantity cannot exceed requested quantity")
			}
			item.ApprovedQuantity = qty
			item.RemainingQuantity = qty
			item.Status = model.RequisitionApproved
		}

		now := time.Now()
		requisition.Status = model.RequisitionApproved
		requisition.ApprovedBy = userID
		requisition.ApprovedDate = &now
		if req.Notes != "" {
			requisition.Notes = req.Notes
		}
		requisition.UpdatedAt = now

		if saveErr := s.repo.Save(txCtx, requisition); saveErr != nil {
			return saveErr
		}
		if auditErr := writeAudit(txCtx, s.auditRepo, userID, model.ActionApproveRequisition, requisition.ID.String(), requisition.RequestNumber, req); auditErr != nil {
			return auditErr
		}
		store.TxFromContext(txCtx).Emit("requisition.approved", requisition)
		approved = requisition
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

func (s *requisitionService) Reject(ctx context.Context, userID string, id string, req RejectRequisitionRequest) (*model.MaterialRequisition, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErrorf("invalid requisition id")
	}

	var rejected *model.MaterialRequisition
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		requisition, findErr := s.repo.FindByID(txCtx, reqID)
		if findErr != nil {
			return findErr
		}
		if !model.CanTransitionRequisition(requisition.Status, model.RequisitionRejected) {
			return validationErrorf(fmt.Sprintf("requisition in status %q cannot be rejected", requisition.Status))
		}

		requisition.Status = model.RequisitionRejected
		requisition.RejectionReason = req.Reason
		for i := range requisition.Items {
			requisition.Items[i].Status = model.RequisitionRejected
		}
		requisition.UpdatedAt = time.Now()

		if saveErr := s.repo.Save(txCtx, requisition); saveErr != nil {
			return saveErr
		}
		if auditErr := writeAudit(txCtx, s.auditRepo, userID, model.ActionRejectRequisition, requisition.ID.String(), requisition.RequestNumber, req); auditErr != nil {
			return auditErr
		}
		store.TxFromContext(txCtx).Emit("requisition.rejected", requisition)
		rejected = requisition
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// Fulfill issues stock against approved lines. Every issued line decrements
// the material's stock and appends one issue movement; the requisition lands
// in fulfilled when no line has quantity remaining, partially-fulfilled
// otherwise.
func (s *requisitionService) Fulfill(ctx context.Context, userID string, id string, req FulfillRequisitionRequest) (*model.MaterialRequisition, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErrorf("invalid requisition id")
	}

	var fulfilled *model.MaterialRequisition
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		requisition, findErr := s.repo.FindByID(txCtx, reqID)
		if findErr != nil {
			return findErr
		}
		if requisition.Status != model.RequisitionApproved && requisition.Status != model.RequisitionPartiallyFulfilled {
			return validationErrorf(fmt.Sprintf("requisition in status %q cannot be fulfilled", requisition.Status))
		}

		byID := make(map[string]*model.RequisitionItem, len(requisition.Items))
		for i := range requisition.Items {
			byID[requisition.Items[i].ID.String()] = &requisition.Items[i]
		}

		now := time.Now()
		period := fmt.Sprintf("%d%02d", now.Year(), now.Month())
		for _, line := range req.Items {
			item, ok := byID[line.ItemID]
			if !ok {
				return store.ErrNotFound
			}
			if line.Quantity > item.RemainingQuantity {
				return validationErrorf(fmt.Sprintf("line %s: quantity %d exceeds remaining %d", item.MaterialCode, line.Quantity, item.RemainingQuantity))
			}

			m, matErr := s.materials.FindByID(txCtx, item.MaterialID)
			if matErr != nil {
				return matErr
			}
			if line.Quantity > m.EffectiveStock() {
				return validationErrorf(fmt.Sprintf("insufficient stock for %s: %d requested, %d available", m.Code, line.Quantity, m.EffectiveStock()))
			}

			m.TotalStock -= line.Quantity
			m.AvailableStock -= line.Quantity
			if m.AvailableStock < 0 {
				m.AvailableStock = 0
			}
			m.UpdatedAt = now
			if saveErr := s.materials.Save(txCtx, m); saveErr != nil {
				return saveErr
			}

			item.FulfilledQuantity += line.Quantity
			item.RemainingQuantity -= line.Quantity
			if item.RemainingQuantity == 0 {
				item.Status = model.RequisitionFulfilled
			} else {
				item.Status = model.RequisitionPartiallyFulfilled
			}

			toLocation := model.MovementLocation{Type: "warehouse", ID: req.WarehouseID, Name: req.WarehouseID}
			if requisition.WorkOrderID != nil {
				toLocation = model.MovementLocation{
					Type: "work-order",
					ID:   requisition.WorkOrderID.String(),
					Name: requisition.WorkOrderNumber,
				}
			}
			movement := model.MaterialMovement{
				ID:                  uuid.New(),
				MovementNumber:      fmt.Sprintf("MOV-%s-%04d", period, s.seq.NextSequence("MOV-"+period)),
				MaterialID:          m.ID,
				MaterialCode:        m.Code,
				MaterialDescription: m.Description,
				MovementType:        model.MovementIssue,
				Quantity:            line.Quantity,
				Unit:                m.Unit,
				FromLocation:        model.MovementLocation{Type: "warehouse", ID: req.WarehouseID, Name: req.WarehouseID},
				ToLocation:          toLocation,
				Cost:                m.UnitCost.Mul(decimal.NewFromInt(int64(line.Quantity))),
				PerformedBy:         userID,
				PerformedDate:       now,
				RelatedEntity: model.MovementRef{
					Type:      "requisition",
					ID:        requisition.ID.String(),
					Reference: requisition.RequestNumber,
				},
			}
			if appendErr := s.movements.AppendMovement(txCtx, movement); appendErr != nil {
				return appendErr
			}
		}

		allDone := true
		for i := range requisition.Items {
			if requisition.Items[i].RemainingQuantity > 0 {
				allDone = false
				break
			}
		}
		if allDone {
			requisition.Status = model.RequisitionFulfilled
		} else {
			requisition.Status = model.RequisitionPartiallyFulfilled
		}
		requisition.UpdatedAt = now

		if saveErr := s.repo.Save(txCtx, requisition); saveErr != nil {
			return saveErr
		}
		if auditErr := writeAudit(txCtx, s.auditRepo, userID, model.ActionFulfillRequisition, requisition.ID.String(), requisition.RequestNumber, req); auditErr != nil {
			return auditErr
		}
		store.TxFromContext(txCtx).Emit("requisition.fulfilled", requisition)
		fulfilled = requisition
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fulfilled, nil
}

func (s *requisitionService) Cancel(ctx context.Context, userID string, id string) (*model.MaterialRequisition, error) {
	reqID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErrorf("invalid requisition id")
	}

	var cancelled *model.MaterialRequisition
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		requisition, findErr := s.repo.FindByID(txCtx, reqID)
		if findErr != nil {
			return findErr
		}
		if !model.CanTransitionRequisition(requisition.Status, model.RequisitionCancelled) {
			return validationErrorf(fmt.Sprintf("requisition in status %q cannot be cancelled", requisition.Status))
		}

		requisition.Status = model.RequisitionCancelled
		requisition.UpdatedAt = time.Now()

		if saveErr := s.repo.Save(txCtx, requisition); saveErr != nil {
			return saveErr
		}
		if auditErr := writeAudit(txCtx, s.auditRepo, userID, model.ActionCancelRequisition, requisition.ID.String(), requisition.RequestNumber, map[string]any{"cancelled": true}); auditErr != nil {
			return auditErr
		}
		store.TxFromContext(txCtx).Emit("requisition.cancelled", requisition)
		cancelled = requisition
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}
