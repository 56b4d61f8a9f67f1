package enums

import "fmt"

// CancelReason records why a campaign ended in CANCELLED.
type CancelReason string

const (
	CancelReasonLeaderCancelled    CancelReason = "LEADER_CANCELLED"
	CancelReasonRecruitmentFailed  CancelReason = "RECRUITMENT_FAILED"
	CancelReasonPaymentFailed      CancelReason = "PAYMENT_FAILED"
	CancelReasonProductUnavailable CancelReason = "PRODUCT_UNAVAILABLE"
	CancelReasonSystemCancelled    CancelReason = "SYSTEM_CANCELLED"
)

var validCancelReasons = []CancelReason{
	CancelReasonLeaderCancelled,
	CancelReasonRecruitmentFailed,
	CancelReasonPaymentFailed,
	CancelReasonProductUnavailable,
	CancelReasonSystemCancelled,
}

var cancelReasonLabels = map[CancelReason]string{
	CancelReasonLeaderCancelled:    "총대 개인 사유",
	CancelReasonRecruitmentFailed:  "모집 인원 미달",
	CancelReasonPaymentFailed:      "미입금자 발생",
	CancelReasonProductUnavailable: "상품 품절 또는 가격 변동",
	CancelReasonSystemCancelled:    "시스템 자동 취소",
}

func (r CancelReason) IsValid() bool {
	for _, candidate := range validCancelReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsManual reports whether a leader may pick r when cancelling by hand.
// SYSTEM_CANCELLED is reserved for the scheduler.
func (r CancelReason) IsManual() bool {
	switch r {
	case CancelReasonLeaderCancelled,
		CancelReasonPaymentFailed,
		CancelReasonProductUnavailable,
		CancelReasonRecruitmentFailed:
		return true
	default:
		return false
	}
}

func (r CancelReason) Label() string {
	return cancelReasonLabels[r]
}

func ParseCancelReason(value string) (CancelReason, error) {
	for _, candidate := range validCancelReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cancel reason %q", value)
}

func CancelReasonOptions() []Option {
	out := make([]Option, 0, len(validCancelReasons))
	for _, r := range validCancelReasons {
		out = append(out, Option{Key: string(r), Label: r.Label()})
	}
	return out
}
