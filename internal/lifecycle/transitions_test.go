package lifecycle

import (
	"testing"

	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
)

func TestCanTransitionTable(t *testing.T) {
	allowed := map[enums.CampaignStatus][]enums.CampaignStatus{
		enums.CampaignStatusRecruiting:        {enums.CampaignStatusConfirmed, enums.CampaignStatusCancelled},
		enums.CampaignStatusConfirmed:         {enums.CampaignStatusPaymentInProgress, enums.CampaignStatusCancelled},
		enums.CampaignStatusPaymentInProgress: {enums.CampaignStatusOrderPending, enums.CampaignStatusCancelled},
		enums.CampaignStatusOrderPending:      {enums.CampaignStatusOrdered, enums.CampaignStatusCancelled},
		enums.CampaignStatusOrdered:           {enums.CampaignStatusShipped, enums.CampaignStatusCancelled},
		enums.CampaignStatusShipped:           {enums.CampaignStatusCompleted},
		enums.CampaignStatusCancelled:         nil,
		enums.CampaignStatusCompleted:         nil,
	}

	all := enums.CampaignStatusOptions()
	for from, targets := range allowed {
		for _, opt := range all {
			to := enums.CampaignStatus(opt.Key)
			want := false
			for _, candidate := range targets {
				if candidate == to {
					want = true
				}
			}
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	if CanTransition("DRAFT", enums.CampaignStatusRecruiting) {
		t.Fatal("unknown source status must not transition")
	}
}

func TestNextStatuses(t *testing.T) {
	got := NextStatuses(enums.CampaignStatusShipped)
	if len(got) != 1 || got[0] != enums.CampaignStatusCompleted {
		t.Fatalf("unexpected next statuses for SHIPPED: %v", got)
	}
	if got := NextStatuses(enums.CampaignStatusCompleted); len(got) != 0 {
		t.Fatalf("terminal status should have no successors: %v", got)
	}
}

func TestCanCancel(t *testing.T) {
	cases := map[enums.CampaignStatus]bool{
		enums.CampaignStatusRecruiting:        true,
		enums.CampaignStatusConfirmed:         true,
		enums.CampaignStatusPaymentInProgress: true,
		enums.CampaignStatusOrderPending:      true,
		enums.CampaignStatusOrdered:           true,
		enums.CampaignStatusShipped:           false,
		enums.CampaignStatusCancelled:         false,
		enums.CampaignStatusCompleted:         false,
	}
	for status, want := range cases {
		if got := CanCancel(status); got != want {
			t.Errorf("CanCancel(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestAcceptsCancelReason(t *testing.T) {
	if !AcceptsCancelReason(enums.CampaignStatusOrderPending, enums.CancelReasonPaymentFailed) {
		t.Fatal("PAYMENT_FAILED should be accepted from ORDER_PENDING")
	}
	if AcceptsCancelReason(enums.CampaignStatusRecruiting, enums.CancelReasonPaymentFailed) {
		t.Fatal("PAYMENT_FAILED should be rejected from RECRUITING")
	}
	if AcceptsCancelReason(enums.CampaignStatusPaymentInProgress, enums.CancelReasonPaymentFailed) {
		t.Fatal("PAYMENT_FAILED should be rejected from PAYMENT_IN_PROGRESS on the manual path")
	}
	if !AcceptsCancelReason(enums.CampaignStatusConfirmed, enums.CancelReasonProductUnavailable) {
		t.Fatal("PRODUCT_UNAVAILABLE should be accepted")
	}
	if AcceptsCancelReason(enums.CampaignStatusConfirmed, "BORED") {
		t.Fatal("unknown reason should be rejected")
	}
}

func TestShouldAutoConfirm(t *testing.T) {
	cases := []struct {
		name   string
		status enums.CampaignStatus
		total  int
		fixed  int
		want   bool
	}{
		{name: "below target", status: enums.CampaignStatusRecruiting, total: 9, fixed: 10, want: false},
		{name: "reaches target", status: enums.CampaignStatusRecruiting, total: 10, fixed: 10, want: true},
		{name: "already confirmed", status: enums.CampaignStatusConfirmed, total: 10, fixed: 10, want: false},
		{name: "zero target", status: enums.CampaignStatusRecruiting, total: 0, fixed: 0, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldAutoConfirm(tc.status, tc.total, tc.fixed); got != tc.want {
				t.Fatalf("ShouldAutoConfirm = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPledgeAndPaymentWindows(t *testing.T) {
	if !AcceptsPledgeChanges(enums.CampaignStatusRecruiting) || AcceptsPledgeChanges(enums.CampaignStatusConfirmed) {
		t.Fatal("pledge changes are only accepted while RECRUITING")
	}
	if !AcceptsPaymentConfirmation(enums.CampaignStatusPaymentInProgress) || AcceptsPaymentConfirmation(enums.CampaignStatusOrderPending) {
		t.Fatal("payment confirmation is only accepted during PAYMENT_IN_PROGRESS")
	}
}
