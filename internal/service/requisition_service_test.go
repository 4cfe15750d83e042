package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"backend/internal/model"
)

func submitRequisition(t *testing.T, f *fixture, m *model.Material, qty int, approvalRequired bool) *model.MaterialRequisition {
	t.Helper()
	req, err := f.requisitions.Submit(context.Background(), "requester", SubmitRequisitionRequest{
		ApprovalRequired: &approvalRequired,
		Items:            []RequisitionItemRequest{{MaterialID: m.ID.String(), Quantity: qty}},
	})
	require.NoError(t, err)
	return req
}

func TestSubmitRequisitionDefaultsToPending(t *testing.T) {
	f := newFixture(t)
	m := f.createMaterial(t, "MAT-R01", 100, 0, 0)

	req, err := f.requisitions.Submit(context.Background(), "requester", SubmitRequisitionRequest{
		Items: []RequisitionItemRequest{{MaterialID: m.ID.String(), Quantity: 8}},
	})
	require.NoError(t, err)

	require.Equal(t, model.RequisitionPending, req.Status)
	require.True(t, req.ApprovalRequired)
	require.Regexp(t, `^REQ-\d{6}-0001$`, req.RequestNumber)
	require.Len(t, req.Items, 1)
	require.Equal(t, 8, req.Items[0].RequestedQuantity)
	require.Equal(t, 0, req.Items[0].ApprovedQuantity)
	require.Equal(t, 8, req.Items[0].RemainingQuantity)
	// unit cost 10 times 8 requested
	require.True(t, req.TotalEstimatedCost.Equal(decimal.NewFromInt(80)))
}

func TestSubmitWithoutApprovalIsPreApproved(t *testing.T) {
	f := newFixture(t)
	m := f.createMaterial(t, "MAT-R02", 100, 0, 0)

	req := submitRequisition(t, f, m, 6, false)

	require.Equal(t, model.RequisitionApproved, req.Status)
	require.Equal(t, "requester", req.ApprovedBy)
	require.NotNil(t, req.ApprovedDate)
	require.Equal(t, model.RequisitionApproved, req.Items[0].Status)
	require.Equal(t, 6, req.Items[0].ApprovedQuantity)
}

func TestSubmitResolvesWorkOrderNumber(t *testing.T) {
	f := newFixture(t)
	m := f.createMaterial(t, "MAT-R03", 100, 0, 0)
	wo := f.createWorkOrder(t, "Cable pulling")

	req, err := f.requisitions.Submit(context.Background(), "requester", SubmitRequisitionRequest{
		RequestType: model.RequisitionForWorkOrder,
		WorkOrderID: wo.ID.String(),
		Items:       []RequisitionItemRequest{{MaterialID: m.ID.String(), Quantity: 2}},
	})
	require.NoError(t, err)
	require.NotNil(t, req.WorkOrderID)
	require.Equal(t, wo.ID, *req.WorkOrderID)
	require.Equal(t, wo.Details.WorkOrderNumber, req.WorkOrderNumber)
}

func TestApproveWithPerLineOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMaterial(t, "MAT-R04", 100, 0, 0)
	req := submitRequisition(t, f, m, 10, true)

	approved, err := f.requisitions.Approve(ctx, "approver", req.ID.String(), ApproveRequisitionRequest{
		Items: []ItemApproval{{ItemID: req.Items[0].ID.String(), ApprovedQuantity: 7}},
	})
	require.NoError(t, err)
	require.Equal(t, model.RequisitionApproved, approved.Status)
	require.Equal(t, "approver", approved.ApprovedBy)
	require.Equal(t, 7, approved.Items[0].ApprovedQuantity)
	require.Equal(t, 7, approved.Items[0].RemainingQuantity)
}

func TestApproveRejectsOverrideAboveRequested(t *testing.T) {
	f := newFixture(t)
	m := f.createMaterial(t, "MAT-R05", 100, 0, 0)
	req := submitRequisition(t, f, m, 5, true)

	_, err := f.requisitions.Approve(context.Background(), "approver", req.ID.String(), ApproveRequisitionRequest{
		Items: []ItemApproval{{ItemID: req.Items[0].ID.String(), ApprovedQuantity: 9}},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestApproveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMaterial(t, "MAT-R06", 100, 0, 0)
	req := submitRequisition(t, f, m, 5, true)

	first, err := f.requisitions.Approve(ctx, "approver", req.ID.String(), ApproveRequisitionRequest{})
	require.NoError(t, err)

	second, err := f.requisitions.Approve(ctx, "someone-else", req.ID.String(), ApproveRequisitionRequest{})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "approver", second.ApprovedBy)
}

func TestRejectRequiresPendingStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMaterial(t, "MAT-R07", 100, 0, 0)

	pending := submitRequisition(t, f, m, 5, true)
	rejected, err := f.requisitions.Reject(ctx, "approver", pending.ID.String(), RejectRequisitionRequest{Reason: "budget exhausted"})
	require.NoError(t, err)
	require.Equal(t, model.RequisitionRejected, rejected.Status)
	require.Equal(t, "budget exhausted", rejected.RejectionReason)
	require.Equal(t, model.RequisitionRejected, rejected.Items[0].Status)

	approved := submitRequisition(t, f, m, 5, false)
	_, err = f.requisitions.Reject(ctx, "approver", approved.ID.String(), RejectRequisitionRequest{Reason: "too late"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestFulfillPartialThenComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMaterial(t, "MAT-R08", 50, 0, 0)
	req := submitRequisition(t, f, m, 10, false)
	itemID := req.Items[0].ID.String()

	partial, err := f.requisitions.Fulfill(ctx, "storekeeper", req.ID.String(), FulfillRequisitionRequest{
		Items: []ItemFulfillment{{ItemID: itemID, Quantity: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, model.RequisitionPartiallyFulfilled, partial.Status)
	require.Equal(t, 4, partial.Items[0].FulfilledQuantity)
	require.Equal(t, 6, partial.Items[0].RemainingQuantity)

	got, err := f.materials.Get(ctx, m.ID.String())
	require.NoError(t, err)
	require.Equal(t, 46, got.TotalStock)

	complete, err := f.requisitions.Fulfill(ctx, "storekeeper", req.ID.String(), FulfillRequisitionRequest{
		Items: []ItemFulfillment{{ItemID: itemID, Quantity: 6}},
	})
	require.NoError(t, err)
	require.Equal(t, model.RequisitionFulfilled, complete.Status)
	require.Equal(t, 0, complete.Items[0].RemainingQuantity)

	got, err = f.materials.Get(ctx, m.ID.String())
	require.NoError(t, err)
	require.Equal(t, 40, got.TotalStock)

	movements, total, err := f.stock.Movements(ctx, MovementFilter{MaterialID: m.ID.String()})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	for _, mv := range movements {
		require.Equal(t, model.MovementIssue, mv.MovementType)
		require.Equal(t, "requisition", mv.RelatedEntity.Type)
	}
}

func TestFulfillRejectsQuantityAboveRemaining(t *testing.T) {
	f := newFixture(t)
	m := f.createMaterial(t, "MAT-R09", 50, 0, 0)
	req := submitRequisition(t, f, m, 3, false)

	_, err := f.requisitions.Fulfill(context.Background(), "storekeeper", req.ID.String(), FulfillRequisitionRequest{
		Items: []ItemFulfillment{{ItemID: req.Items[0].ID.String(), Quantity: 5}},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestFulfillRejectsInsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMaterial(t, "MAT-R10", 2, 0, 0)
	req := submitRequisition(t, f, m, 5, false)

	_, err := f.requisitions.Fulfill(ctx, "storekeeper", req.ID.String(), FulfillRequisitionRequest{
		Items: []ItemFulfillment{{ItemID: req.Items[0].ID.String(), Quantity: 5}},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// stock must not be touched by the failed attempt
	got, err := f.materials.Get(ctx, m.ID.String())
	require.NoError(t, err)
	require.Equal(t, 2, got.TotalStock)
}

func TestFulfillRequiresApprovedStatus(t *testing.T) {
	f := newFixture(t)
	m := f.createMaterial(t, "MAT-R11", 50, 0, 0)
	req := submitRequisition(t, f, m, 3, true)

	_, err := f.requisitions.Fulfill(context.Background(), "storekeeper", req.ID.String(), FulfillRequisitionRequest{
		Items: []ItemFulfillment{{ItemID: req.Items[0].ID.String(), Quantity: 3}},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCancelApprovedRequisition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMaterial(t, "MAT-R12", 50, 0, 0)

	approved := submitRequisition(t, f, m, 3, false)
	cancelled, err := f.requisitions.Cancel(ctx, "approver", approved.ID.String())
	require.NoError(t, err)
	require.Equal(t, model.RequisitionCancelled, cancelled.Status)

	pending := submitRequisition(t, f, m, 3, true)
	_, err = f.requisitions.Cancel(ctx, "approver", pending.ID.String())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestListFiltersByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := f.createMaterial(t, "MAT-R13", 50, 0, 0)

	submitRequisition(t, f, m, 1, true)
	submitRequisition(t, f, m, 2, false)

	pending, total, err := f.requisitions.List(ctx, RequisitionFilter{Status: model.RequisitionPending})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, pending, 1)
	require.Equal(t, model.RequisitionPending, pending[0].Status)
}
