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

type AdjustStockRequest struct {
	MaterialID     string `json:"material_id" binding:"required"`
	WarehouseID    string `json:"warehouse_id"`
	AdjustmentType string `json:"adjustment_type" binding:"required,oneof=increase decrease set-absolute"`
	Quantity       int    `json:"quantity" binding:"min=0"`
	Reason         string `json:"reason" binding:"required"`
	Notes          string `json:"notes"`
}

// StockLevel is a material's stock position with its classification attached.
type StockLevel struct {
	Material model.Material    `json:"material"`
	Status   model.StockStatus `json:"status"`
}

type MovementFilter struct {
	MaterialID string
	Page       int
	Limit      int
}

type StockService interface {
	Levels(ctx context.Context) []StockLevel
	Alerts(ctx context.Context) []model.StockAlert
	Adjust(ctx context.Context, userID string, req AdjustStockRequest) (*model.StockAdjustment, error)
	Movements(ctx context.Context, filter MovementFilter) ([]model.MaterialMovement, int64, error)
	Adjustments(ctx context.Context, page, limit int) ([]model.StockAdjustment, int64, error)
}

type stockService struct {
	materials repository.MaterialRepository
	movements repository.MovementRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	seq       *store.Store
}

func NewStockService(
	materials repository.MaterialRepository,
	movements repository.MovementRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	seq *store.Store,
) StockService {
	return &stockService{
		materials: materials,
		movements: movements,
		auditRepo: auditRepo,
		txManager: txManager,
		seq:       seq,
	}
}

// ClassifyStock buckets a material by its effective stock. Out-of-stock wins
// over low stock, low stock over overstock; a material is never in two states.
func ClassifyStock(m *model.Material) model.StockStatus {
	stock := m.EffectiveStock()
	switch {
	case stock <= 0:
		return model.StockOut
	case m.MinimumStock > 0 && stock <= m.MinimumStock:
		return model.StockLow
	case m.MaximumStock > 0 && stock > m.MaximumStock:
		return model.StockOverstocked
	default:
		return model.StockInStock
	}
}

func (s *stockService) Levels(ctx context.Context) []StockLevel {
	catalogue := s.materials.All(ctx)
	out := make([]StockLevel, 0, len(catalogue))
	for i := range catalogue {
		out = append(out, StockLevel{
			Material: catalogue[i],
			Status:   ClassifyStock(&catalogue[i]),
		})
	}
	return out
}

// Alerts derives at most one alert per material from the current stock
// snapshot. Alerts are recomputed on every call, never stored.
func (s *stockService) Alerts(ctx context.Context) []model.StockAlert {
	now := time.Now()
	var alerts []model.StockAlert
	for _, m := range s.materials.All(ctx) {
		alert, ok := alertFor(&m, now)
		if ok {
			alerts = append(alerts, alert)
		}
	}
	return alerts
}

func alertFor(m *model.Material, now time.Time) (model.StockAlert, bool) {
	stock := m.EffectiveStock()
	base := model.StockAlert{
		MaterialID:          m.ID,
		MaterialCode:        m.Code,
		MaterialDescription: m.Description,
		CurrentStock:        stock,
		DateDetected:        now,
		IsActive:            true,
	}

	switch ClassifyStock(m) {
	case model.StockOut:
		base.ID = fmt.Sprintf("alert-out-%s", m.ID)
		base.Type = model.AlertOutOfStock
		base.Severity = model.SeverityCritical
		base.ThresholdValue = m.MinimumStock
		base.Message = fmt.Sprintf("%s (%s) is out of stock", m.Description, m.Code)
		base.ActionRequired = "Reorder immediately"
		return base, true
	case model.StockLow:
		base.ID = fmt.Sprintf("alert-low-%s", m.ID)
		base.Type = model.AlertLowStock
		base.Severity = model.SeverityHigh
		base.ThresholdValue = m.MinimumStock
		base.Message = fmt.Sprintf("%s (%s) is below minimum stock: %d of %d", m.Description, m.Code, stock, m.MinimumStock)
		base.ActionRequired = "Reorder soon"
		return base, true
	case model.StockOverstocked:
		base.ID = fmt.Sprintf("alert-over-%s", m.ID)
		base.Type = model.AlertOverstocked
		base.Severity = model.SeverityMedium
		base.ThresholdValue = m.MaximumStock
		base.Message = fmt.Sprintf("%s (%s) exceeds maximum stock: %d of %d", m.Description, m.Code, stock, m.MaximumStock)
		base.ActionRequired = "Review storage allocation"
		return base, true
	default:
		return model.StockAlert{}, false
	}
}

// Adjust applies a manual stock correction in one transaction: the material's
// levels change, an adjustment record is stored, and exactly one movement is
// appended to the ledger. A decrease past zero is clamped and the movement
// records the quantity actually removed.
func (s *stockService) Adjust(ctx context.Context, userID string, req AdjustStockRequest) (*model.StockAdjustment, error) {
	mID, err := uuid.Parse(req.MaterialID)
	if err != nil {
		return nil, validationErrorf("invalid material id")
	}

	var adjustment *model.StockAdjustment
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		m, findErr := s.materials.FindByID(txCtx, mID)
		if findErr != nil {
			return findErr
		}

		current := m.TotalStock
		adjType := req.AdjustmentType
		quantity := req.Quantity

		// Resolve set-absolute into a plain increase or decrease first.
		if adjType == model.AdjustmentSetAbsolute {
			if quantity >= current {
				adjType = model.AdjustmentIncrease
				quantity = quantity - current
			} else {
				adjType = model.AdjustmentDecrease
				quantity = current - quantity
			}
		}

		var applied int
		switch adjType {
		case model.AdjustmentIncrease:
			applied = quantity
			m.TotalStock = current + quantity
			m.AvailableStock += quantity
		case model.AdjustmentDecrease:
			applied = quantity
			if applied > current {
				applied = current
			}
			m.TotalStock = current - applied
			m.AvailableStock -= applied
			if m.AvailableStock < 0 {
				m.AvailableStock = 0
			}
		}
		m.UpdatedAt = time.Now()

		if saveErr := s.materials.Save(txCtx, m); saveErr != nil {
			return saveErr
		}

		now := time.Now()
		period := fmt.Sprintf("%d%02d", now.Year(), now.Month())
		adjustment = &model.StockAdjustment{
			ID:               uuid.New(),
			AdjustmentNumber: fmt.Sprintf("ADJ-%s-%04d", period, s.seq.NextSequence("ADJ-"+period)),
			MaterialID:       m.ID,
			WarehouseID:      req.WarehouseID,
			AdjustmentType:   adjType,
			Quantity:         applied,
			Reason:           req.Reason,
			Notes:            req.Notes,
			PerformedBy:      userID,
			PerformedDate:    now,
			Status:           "completed",
		}
		if createErr := s.movements.CreateAdjustment(txCtx, adjustment); createErr != nil {
			return createErr
		}

		movement := model.MaterialMovement{
			ID:                  uuid.New(),
			MovementNumber:      fmt.Sprintf("MOV-%s-%04d", period, s.seq.NextSequence("MOV-"+period)),
			MaterialID:          m.ID,
			MaterialCode:        m.Code,
			MaterialDescription: m.Description,
			Quantity:            applied,
			Unit:                m.Unit,
			Cost:                m.UnitCost.Mul(decimal.NewFromInt(int64(applied))),
			PerformedBy:         userID,
			PerformedDate:       now,
			Notes:               req.Reason,
			RelatedEntity: model.MovementRef{
				Type:      "adjustment",
				ID:        adjustment.ID.String(),
				Reference: adjustment.AdjustmentNumber,
			},
		}
		warehouse := model.MovementLocation{Type: "warehouse", ID: req.WarehouseID, Name: req.WarehouseID}
		if adjType == model.AdjustmentIncrease {
			movement.MovementType = model.MovementReceipt
			movement.FromLocation = model.MovementLocation{Type: "supplier", Name: "Stock adjustment"}
			movement.ToLocation = warehouse
		} else {
			movement.MovementType = model.MovementWriteOff
			movement.FromLocation = warehouse
			movement.ToLocation = model.MovementLocation{Type: "supplier", Name: "Stock adjustment"}
		}
		if appendErr := s.movements.AppendMovement(txCtx, movement); appendErr != nil {
			return appendErr
		}

		detail := map[string]any{
			"adjustment_type":    adjType,
			"requested_type":     req.AdjustmentType,
			"requested_quantity": req.Quantity,
			"applied_quantity":   applied,
			"stock_before":       current,
			"stock_after":        m.TotalStock,
		}
		if auditErr := writeAudit(txCtx, s.auditRepo, userID, model.ActionAdjustStock, m.ID.String(), m.Code, detail); auditErr != nil {
			return auditErr
		}
		store.TxFromContext(txCtx).Emit("stock.adjusted", adjustment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return adjustment, nil
}

func (s *stockService) Movements(ctx context.Context, filter MovementFilter) ([]model.MaterialMovement, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	var materialID *uuid.UUID
	if filter.MaterialID != "" {
		id, err := uuid.Parse(filter.MaterialID)
		if err != nil {
			return nil, 0, validationErrorf("invalid material id")
		}
		materialID = &id
	}
	return s.movements.ListMovements(ctx, materialID, filter.Page, filter.Limit)
}

func (s *stockService) Adjustments(ctx context.Context, page, limit int) ([]model.StockAdjustment, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.movements.ListAdjustments(ctx, page, limit)
}
