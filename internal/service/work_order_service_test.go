package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"backend/internal/model"
	"backend/internal/store"
)

func TestCreateWorkOrderAssignsSequentialNumbers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	year := time.Now().Year()

	first := f.createWorkOrder(t, "Replace transformer")
	second := f.createWorkOrder(t, "Cable trench repair")

	require.Equal(t, fmt.Sprintf("WO-%d-001", year), first.Details.WorkOrderNumber)
	require.Equal(t, fmt.Sprintf("WO-%d-002", year), second.Details.WorkOrderNumber)
	require.Equal(t, model.StatusPending, first.Details.Status)
	require.Equal(t, model.PriorityMedium, first.Details.Priority)

	got, err := f.workOrders.Get(ctx, first.ID.String())
	require.NoError(t, err)
	require.Equal(t, "Replace transformer", got.Details.Title)
}

func TestUpdateStatusFollowsWorkflow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wo := f.createWorkOrder(t, "Substation maintenance")

	inProgress, err := f.workOrders.UpdateStatus(ctx, "tester", wo.ID.String(), UpdateStatusRequest{Status: model.StatusInProgress})
	require.NoError(t, err)
	require.Equal(t, model.StatusInProgress, inProgress.Details.Status)

	completed, err := f.workOrders.UpdateStatus(ctx, "tester", wo.ID.String(), UpdateStatusRequest{Status: model.StatusCompleted})
	require.NoError(t, err)
	require.Equal(t, model.StatusCompleted, completed.Details.Status)
	require.Equal(t, 100, completed.Details.CompletionPercentage)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wo := f.createWorkOrder(t, "Feeder inspection")

	_, err := f.workOrders.UpdateStatus(ctx, "tester", wo.ID.String(), UpdateStatusRequest{Status: model.StatusCompleted})
	require.Error(t, err)

	var invalid *model.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, model.StatusPending, invalid.From)
	require.Equal(t, model.StatusCompleted, invalid.To)

	// the failed transition must not leak into state
	got, err := f.workOrders.Get(ctx, wo.ID.String())
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, got.Details.Status)
}

func TestStatusHistoryRecordsEachTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wo := f.createWorkOrder(t, "Pole replacement")

	_, err := f.workOrders.UpdateStatus(ctx, "tester", wo.ID.String(), UpdateStatusRequest{Status: model.StatusInProgress, Reason: "crew dispatched"})
	require.NoError(t, err)
	_, err = f.workOrders.UpdateStatus(ctx, "tester", wo.ID.String(), UpdateStatusRequest{Status: model.StatusOnHold, Reason: "waiting shutdown window"})
	require.NoError(t, err)

	history, err := f.workOrders.StatusHistory(ctx, wo.ID.String())
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, model.StatusPending, history[0].FromStatus)
	require.Equal(t, model.StatusInProgress, history[0].ToStatus)
	require.Equal(t, "crew dispatched", history[0].Reason)
	require.Equal(t, model.StatusOnHold, history[1].ToStatus)
}

func TestUpdateRejectsStatusPatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wo := f.createWorkOrder(t, "Switchgear overhaul")

	status := model.StatusCompleted
	_, err := f.workOrders.Update(ctx, "tester", wo.ID.String(), UpdateWorkOrderRequest{
		Details: &WorkOrderDetailsPatch{Status: &status},
	})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdatePatchesDetails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wo := f.createWorkOrder(t, "Lighting retrofit")

	title := "Lighting retrofit phase 2"
	client := "SEC East"
	cost := decimal.NewFromInt(50000)
	updated, err := f.workOrders.Update(ctx, "tester", wo.ID.String(), UpdateWorkOrderRequest{
		Details:       &WorkOrderDetailsPatch{Title: &title, Client: &client},
		EstimatedCost: &cost,
	})
	require.NoError(t, err)
	require.Equal(t, title, updated.Details.Title)
	require.Equal(t, client, updated.Details.Client)
	require.True(t, cost.Equal(updated.EstimatedCost))
}

func TestDeleteWorkOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wo := f.createWorkOrder(t, "Temporary generator hookup")

	require.NoError(t, f.workOrders.Delete(ctx, "tester", wo.ID.String()))

	_, err := f.workOrders.Get(ctx, wo.ID.String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRemarkLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wo := f.createWorkOrder(t, "Cable fault repair")

	added, err := f.workOrders.AddRemark(ctx, "tester", wo.ID.String(), RemarkRequest{
		Content: "Fault located at joint 3", Type: "technical", CreatedBy: "tester",
	})
	require.NoError(t, err)
	require.Len(t, added.Remarks, 1)
	remarkID := added.Remarks[0].ID.String()

	updated, err := f.workOrders.UpdateRemark(ctx, "tester", wo.ID.String(), remarkID, RemarkRequest{
		Content: "Fault located at joint 3, insulation breakdown", Type: "technical",
	})
	require.NoError(t, err)
	require.Equal(t, "Fault located at joint 3, insulation breakdown", updated.Remarks[0].Content)

	removed, err := f.workOrders.DeleteRemark(ctx, "tester", wo.ID.String(), remarkID)
	require.NoError(t, err)
	require.Empty(t, removed.Remarks)
}

func TestUpdateRemarkUnknownID(t *testing.T) {
	f := newFixture(t)
	wo := f.createWorkOrder(t, "Meter replacement")

	_, err := f.workOrders.UpdateRemark(context.Background(), "tester", wo.ID.String(), uuid.NewString(), RemarkRequest{
		Content: "nope", Type: "general",
	})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTaskLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wo := f.createWorkOrder(t, "Panel upgrade")

	added, err := f.workOrders.AddTask(ctx, "tester", wo.ID.String(), TaskRequest{Title: "Order breakers"})
	require.NoError(t, err)
	require.Len(t, added.Tasks, 1)
	require.Equal(t, model.TaskStatusPending, added.Tasks[0].Status)
	taskID := added.Tasks[0].ID.String()

	done := true
	updated, err := f.workOrders.UpdateTask(ctx, "tester", wo.ID.String(), taskID, TaskRequest{
		Title: "Order breakers", Status: model.TaskStatusConfirmed, Completed: &done,
	})
	require.NoError(t, err)
	require.Equal(t, model.TaskStatusConfirmed, updated.Tasks[0].Status)
	require.True(t, updated.Tasks[0].Completed)

	removed, err := f.workOrders.DeleteTask(ctx, "tester", wo.ID.String(), taskID)
	require.NoError(t, err)
	require.Empty(t, removed.Tasks)
}

func TestResolvingIssueStampsResolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wo := f.createWorkOrder(t, "Transformer oil leak")

	added, err := f.workOrders.AddIssue(ctx, "tester", wo.ID.String(), IssueRequest{
		Title: "Gasket failure", Severity: "high", ReportedBy: "foreman-1",
	})
	require.NoError(t, err)
	require.Equal(t, model.IssueStatusOpen, added.Issues[0].Status)
	issueID := added.Issues[0].ID.String()

	resolved, err := f.workOrders.UpdateIssue(ctx, "tester", wo.ID.String(), issueID, IssueRequest{
		Title: "Gasket failure", Status: model.IssueStatusResolved, ResolutionNotes: "gasket replaced",
	})
	require.NoError(t, err)
	require.Equal(t, model.IssueStatusResolved, resolved.Issues[0].Status)
	require.NotNil(t, resolved.Issues[0].ResolutionDate)
	require.Equal(t, "gasket replaced", resolved.Issues[0].ResolutionNotes)
}

func TestAssignMaterialRequiresMatchingPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wo := f.createWorkOrder(t, "Grounding grid extension")

	_, err := f.workOrders.AssignMaterial(ctx, "tester", wo.ID.String(), MaterialAssignmentRequest{
		MaterialType: model.MaterialPurchasable,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	qty := decimal.NewFromInt(40)
	cost := decimal.NewFromInt(12)
	assigned, err := f.workOrders.AssignMaterial(ctx, "tester", wo.ID.String(), MaterialAssignmentRequest{
		MaterialType: model.MaterialPurchasable,
		Purchasable: &model.PurchasableMaterial{
			Name: "Copper rod 16mm", Quantity: qty, Unit: "pcs", UnitCost: cost,
		},
	})
	require.NoError(t, err)
	require.Len(t, assigned.Materials, 1)
	require.NotNil(t, assigned.Materials[0].Purchasable)

	removed, err := f.workOrders.RemoveMaterialAssignment(ctx, "tester", wo.ID.String(), assigned.Materials[0].ID.String())
	require.NoError(t, err)
	require.Empty(t, removed.Materials)
}

func TestAddExpenseRecomputesBreakdown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wo := f.createWorkOrder(t, "HVAC duct rework")

	_, err := f.workOrders.AddExpense(ctx, "tester", wo.ID.String(), ExpenseRequest{
		Description: "Sheet metal", Amount: decimal.NewFromInt(300), Category: model.ExpenseCategoryMaterials,
	})
	require.NoError(t, err)

	updated, err := f.workOrders.AddExpense(ctx, "tester", wo.ID.String(), ExpenseRequest{
		Description: "Crew overtime", Amount: decimal.NewFromInt(120), Category: model.ExpenseCategoryLabor,
	})
	require.NoError(t, err)

	require.Len(t, updated.Expenses, 2)
	require.True(t, updated.ExpenseBreakdown.Materials.Equal(decimal.NewFromInt(300)))
	require.True(t, updated.ExpenseBreakdown.Labor.Equal(decimal.NewFromInt(120)))
	require.True(t, updated.TotalExpense().Equal(decimal.NewFromInt(420)))
}

func TestListSummariesComputeProgressColor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.workOrders.Create(ctx, "tester", CreateWorkOrderRequest{Title: "Early stage", CompletionPercentage: 10})
	require.NoError(t, err)
	_, err = f.workOrders.Create(ctx, "tester", CreateWorkOrderRequest{Title: "Late stage", CompletionPercentage: 85})
	require.NoError(t, err)

	summaries, total, err := f.workOrders.List(ctx, WorkOrderFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, summaries, 2)

	byTitle := map[string]WorkOrderSummary{}
	for _, s := range summaries {
		byTitle[s.Title] = s
	}
	require.Equal(t, "alert", byTitle["Early stage"].ProgressColor)
	require.Equal(t, "normal", byTitle["Late stage"].ProgressColor)
}

func TestGetRejectsMalformedID(t *testing.T) {
	f := newFixture(t)

	_, err := f.workOrders.Get(context.Background(), "not-a-uuid")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
}
