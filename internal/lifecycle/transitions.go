// Package lifecycle holds the campaign status graph. It has no storage or
// notification dependencies so every writer of campaign status can share it.
package lifecycle

import "github.com/gonggu-lab/gonggu-backend/pkg/enums"

// CanTransition reports whether a campaign may move from one status to
// another. SHIPPED never moves to CANCELLED and terminal statuses never move.
func CanTransition(from, to enums.CampaignStatus) bool {
	switch from {
	case enums.CampaignStatusRecruiting:
		return to == enums.CampaignStatusConfirmed || to == enums.CampaignStatusCancelled
	case enums.CampaignStatusConfirmed:
		return to == enums.CampaignStatusPaymentInProgress || to == enums.CampaignStatusCancelled
	case enums.CampaignStatusPaymentInProgress:
		return to == enums.CampaignStatusOrderPending || to == enums.CampaignStatusCancelled
	case enums.CampaignStatusOrderPending:
		return to == enums.CampaignStatusOrdered || to == enums.CampaignStatusCancelled
	case enums.CampaignStatusOrdered:
		return to == enums.CampaignStatusShipped || to == enums.CampaignStatusCancelled
	case enums.CampaignStatusShipped:
		return to == enums.CampaignStatusCompleted
	case enums.CampaignStatusCancelled, enums.CampaignStatusCompleted:
		return false
	default:
		return false
	}
}

// NextStatuses lists every status reachable from from in one step.
func NextStatuses(from enums.CampaignStatus) []enums.CampaignStatus {
	var out []enums.CampaignStatus
	for _, opt := range enums.CampaignStatusOptions() {
		to := enums.CampaignStatus(opt.Key)
		if CanTransition(from, to) {
			out = append(out, to)
		}
	}
	return out
}

// CanCancel reports whether a campaign in status may be cancelled.
func CanCancel(status enums.CampaignStatus) bool {
	return CanTransition(status, enums.CampaignStatusCancelled)
}

// AcceptsCancelReason reports whether reason is allowed for a campaign
// currently in status. PAYMENT_FAILED is only meaningful once every deposit
// window has closed, which is ORDER_PENDING for manual cancellation.
func AcceptsCancelReason(status enums.CampaignStatus, reason enums.CancelReason) bool {
	if !reason.IsValid() {
		return false
	}
	if reason == enums.CancelReasonPaymentFailed {
		return status == enums.CampaignStatusOrderPending
	}
	return true
}

// ShouldAutoConfirm reports whether a pledge total closes recruitment.
func ShouldAutoConfirm(status enums.CampaignStatus, totalPledged, fixedCount int) bool {
	return status == enums.CampaignStatusRecruiting && fixedCount > 0 && totalPledged >= fixedCount
}

// AcceptsPledgeChanges reports whether participants may join, modify or
// withdraw.
func AcceptsPledgeChanges(status enums.CampaignStatus) bool {
	return status == enums.CampaignStatusRecruiting
}

// AcceptsPaymentConfirmation reports whether deposits may be confirmed.
func AcceptsPaymentConfirmation(status enums.CampaignStatus) bool {
	return status == enums.CampaignStatusPaymentInProgress
}
