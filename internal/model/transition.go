package model

import "fmt"

// allowedStatusTransitions is the canonical transition table. Only the five
// workflow statuses have outgoing edges; every enterprise status resolves to
// an empty set and is therefore terminal.
var allowedStatusTransitions = map[WorkOrderStatus][]WorkOrderStatus{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusOnHold},
	StatusOnHold:     {StatusInProgress, StatusCancelled},
	StatusCompleted:  {StatusInProgress}, // allow reopening
	StatusCancelled:  {StatusPending},    // allow reactivation
}

// knownStatuses is the full recognized status set, transitions configured or not.
var knownStatuses = map[WorkOrderStatus]bool{
	StatusPending:    true,
	StatusInProgress: true,
	StatusOnHold:     true,
	StatusCompleted:  true,
	StatusCancelled:  true,

	StatusUpdatedAlreadyUDSProblem:                   true,
	StatusReadyForCompleteCertificateWithRequirement: true,
	StatusReadyForUpdatingUDISProblem:                true,
	StatusUpdatedAlreadyNeedRTIOnly:                  true,
	StatusUnderCheckingAndSignatures:                 true,
	StatusPaidWithVAT:                                true,
	StatusUpdatedAlreadyRTIAndReceivingInProcess:     true,
	StatusNeedDP: true,
	StatusReadyForCheckingNeedPrepareDocuments:           true,
	StatusUpdatedAlreadyEngSectionForApproval:            true,
	StatusWaitingShutdown:                                true,
	StatusInProgressForPermission:                        true,
	StatusCancelWorkOrder:                                true,
	StatusNeedReplacementEquipment:                       true,
	StatusWaitingFinancial:                               true,
	StatusReadyForChecking:                               true,
	StatusClosedWithMustakhlasNeed1stApproval:            true,
	StatusNeedMustakhlasWithoutRequirements:              true,
	StatusUpdatedAlreadyNeedReceivingMaterialsOnly:       true,
	StatusCompleteCertificateNeed2ndApproval:             true,
	StatusClosedWithMustakhlasNeed2ndApproval:            true,
	StatusMaterialsReceivedNeed155:                       true,
	StatusReadyForCompleteCertificateWithoutRequirement:  true,
	StatusClosedWithMustakhlasNeed1stApprovalReturnScrap: true,
}

// IsValidStatus reports whether s is a recognized work order status.
func IsValidStatus(s WorkOrderStatus) bool {
	return knownStatuses[s]
}

// CanTransition reports whether the table allows moving from current to next.
// Statuses with no configured edges reject every transition.
func CanTransition(current, next WorkOrderStatus) bool {
	for _, allowed := range allowedStatusTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns a copy of the outgoing edges for a status.
func AllowedTransitions(current WorkOrderStatus) []WorkOrderStatus {
	return append([]WorkOrderStatus(nil), allowedStatusTransitions[current]...)
}

// InvalidTransitionError carries both statuses so the caller can display
// exactly which change was rejected.
type InvalidTransitionError struct {
	From WorkOrderStatus
	To   WorkOrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}
