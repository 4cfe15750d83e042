package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionWorkflowEdges(t *testing.T) {
	cases := []struct {
		from, to WorkOrderStatus
		allowed  bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusOnHold, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusOnHold, StatusInProgress, true},
		{StatusOnHold, StatusCancelled, true},
		{StatusOnHold, StatusCompleted, false},
		{StatusCompleted, StatusInProgress, true},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusPending, true},
		{StatusCancelled, StatusInProgress, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestEnterpriseStatusesAreTerminal(t *testing.T) {
	terminal := []WorkOrderStatus{
		StatusUpdatedAlreadyUDSProblem,
		StatusWaitingShutdown,
		StatusPaidWithVAT,
		StatusMaterialsReceivedNeed155,
	}
	for _, s := range terminal {
		require.True(t, IsValidStatus(s), "%s should be recognized", s)
		require.Empty(t, AllowedTransitions(s), "%s should have no outgoing edges", s)
		require.False(t, CanTransition(s, StatusInProgress))
	}
}

func TestIsValidStatusRejectsUnknown(t *testing.T) {
	require.False(t, IsValidStatus("definitely-not-a-status"))
	require.False(t, IsValidStatus(""))
}

func TestInvalidTransitionErrorMessage(t *testing.T) {
	err := &InvalidTransitionError{From: StatusCompleted, To: StatusPending}
	require.Equal(t, "invalid status transition from completed to pending", err.Error())
}

func TestProgressColorBuckets(t *testing.T) {
	th := DefaultProgressThresholds
	require.Equal(t, "alert", th.ProgressColor(0))
	require.Equal(t, "alert", th.ProgressColor(29))
	require.Equal(t, "caution", th.ProgressColor(30))
	require.Equal(t, "caution", th.ProgressColor(69))
	require.Equal(t, "normal", th.ProgressColor(70))
	require.Equal(t, "normal", th.ProgressColor(100))
}

func TestComputeExpenseBreakdown(t *testing.T) {
	wo := &WorkOrder{
		Expenses: []WorkOrderExpense{
			{Category: ExpenseCategoryMaterials, Amount: decimal.NewFromInt(100)},
			{Category: ExpenseCategoryMaterials, Amount: decimal.NewFromInt(50)},
			{Category: ExpenseCategoryLabor, Amount: decimal.NewFromInt(30)},
			{Category: "travel", Amount: decimal.NewFromInt(7)}, // unknown bucket
		},
	}

	b := wo.ComputeExpenseBreakdown()
	require.True(t, b.Materials.Equal(decimal.NewFromInt(150)))
	require.True(t, b.Labor.Equal(decimal.NewFromInt(30)))
	require.True(t, b.Other.Equal(decimal.NewFromInt(7)))
	require.True(t, wo.TotalExpense().Equal(decimal.NewFromInt(187)))
}

func TestActionsCountPrefersActionsNeeded(t *testing.T) {
	wo := &WorkOrder{
		ActionsNeeded: []ActionItem{{}, {}},
		Actions:       []WorkOrderAction{{}, {}, {}},
	}
	require.Equal(t, 2, wo.ActionsCount())

	legacy := &WorkOrder{Actions: []WorkOrderAction{{}, {}, {}}}
	require.Equal(t, 3, legacy.ActionsCount())
}

func TestRequisitionTransitions(t *testing.T) {
	require.True(t, CanTransitionRequisition(RequisitionPending, RequisitionApproved))
	require.True(t, CanTransitionRequisition(RequisitionPending, RequisitionRejected))
	require.False(t, CanTransitionRequisition(RequisitionPending, RequisitionFulfilled))
	require.True(t, CanTransitionRequisition(RequisitionApproved, RequisitionFulfilled))
	require.True(t, CanTransitionRequisition(RequisitionApproved, RequisitionCancelled))
	require.True(t, CanTransitionRequisition(RequisitionPartiallyFulfilled, RequisitionFulfilled))
	require.False(t, CanTransitionRequisition(RequisitionRejected, RequisitionApproved))
	require.False(t, CanTransitionRequisition(RequisitionFulfilled, RequisitionCancelled))
}
