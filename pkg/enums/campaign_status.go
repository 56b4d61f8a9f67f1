package enums

import "fmt"

// CampaignStatus is the lifecycle status of a group-buying campaign.
type CampaignStatus string

const (
	CampaignStatusRecruiting        CampaignStatus = "RECRUITING"
	CampaignStatusConfirmed         CampaignStatus = "CONFIRMED"
	CampaignStatusPaymentInProgress CampaignStatus = "PAYMENT_IN_PROGRESS"
	CampaignStatusOrderPending      CampaignStatus = "ORDER_PENDING"
	CampaignStatusOrdered           CampaignStatus = "ORDERED"
	CampaignStatusShipped           CampaignStatus = "SHIPPED"
	CampaignStatusCancelled         CampaignStatus = "CANCELLED"
	CampaignStatusCompleted         CampaignStatus = "COMPLETED"
)

var validCampaignStatuses = []CampaignStatus{
	CampaignStatusRecruiting,
	CampaignStatusConfirmed,
	CampaignStatusPaymentInProgress,
	CampaignStatusOrderPending,
	CampaignStatusOrdered,
	CampaignStatusShipped,
	CampaignStatusCancelled,
	CampaignStatusCompleted,
}

var campaignStatusLabels = map[CampaignStatus]string{
	CampaignStatusRecruiting:        "모집 중",
	CampaignStatusConfirmed:         "모집 완료",
	CampaignStatusPaymentInProgress: "입금 진행 중",
	CampaignStatusOrderPending:      "주문 대기",
	CampaignStatusOrdered:           "주문 진행 중",
	CampaignStatusShipped:           "배송 완료",
	CampaignStatusCancelled:         "공구 취소",
	CampaignStatusCompleted:         "공구 완료",
}

func (s CampaignStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the eight lifecycle statuses.
func (s CampaignStatus) IsValid() bool {
	for _, candidate := range validCampaignStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition may leave s.
func (s CampaignStatus) IsTerminal() bool {
	return s == CampaignStatusCancelled || s == CampaignStatusCompleted
}

// Label returns the Korean display label.
func (s CampaignStatus) Label() string {
	return campaignStatusLabels[s]
}

// ParseCampaignStatus converts raw input into a CampaignStatus.
func ParseCampaignStatus(value string) (CampaignStatus, error) {
	for _, candidate := range validCampaignStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid campaign status %q", value)
}

func CampaignStatusOptions() []Option {
	out := make([]Option, 0, len(validCampaignStatuses))
	for _, s := range validCampaignStatuses {
		out = append(out, Option{Key: string(s), Label: s.Label()})
	}
	return out
}
