package campaigns

import (
	"github.com/gonggu-lab/gonggu-backend/internal/lifecycle"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
	pkgerrors "github.com/gonggu-lab/gonggu-backend/pkg/errors"
)

type transitionDetails struct {
	From    enums.CampaignStatus   `json:"from"`
	To      enums.CampaignStatus   `json:"to"`
	Allowed []enums.CampaignStatus `json:"allowed"`
}

func errCampaignNotFound() error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "campaign not found")
}

func errNotLeader() error {
	return pkgerrors.New(pkgerrors.CodeForbidden, "only the campaign leader may do this")
}

func errTerminal(status enums.CampaignStatus) error {
	return pkgerrors.New(pkgerrors.CodeInvalidState, "campaign status can no longer change").
		WithDetails(map[string]any{"status": status})
}

func errNotCancellable(status enums.CampaignStatus) error {
	return pkgerrors.New(pkgerrors.CodeInvalidState, "campaign cannot be cancelled in its current status").
		WithDetails(map[string]any{"status": status})
}

func errNotEditable(status enums.CampaignStatus, field string) error {
	return pkgerrors.New(pkgerrors.CodeInvalidState, "field cannot be edited in the current status").
		WithDetails(map[string]any{"status": status, "field": field})
}

func errInvalidTransition(from, to enums.CampaignStatus) error {
	return pkgerrors.New(pkgerrors.CodeInvalidTransition, "status transition not allowed").
		WithDetails(transitionDetails{From: from, To: to, Allowed: lifecycle.NextStatuses(from)})
}

func errInvalidCancelReason(status enums.CampaignStatus, reason enums.CancelReason) error {
	msg := "unknown cancel reason"
	if reason == enums.CancelReasonPaymentFailed {
		msg = "payment failure can only cancel a campaign waiting for its order"
	}
	return pkgerrors.New(pkgerrors.CodeInvalidCancelReason, msg).
		WithDetails(map[string]any{"status": status, "reason": reason})
}

func errStatusRace() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "campaign status changed concurrently")
}
