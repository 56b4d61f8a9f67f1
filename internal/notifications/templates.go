package notifications

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/gonggu-lab/gonggu-backend/pkg/config"
	"github.com/gonggu-lab/gonggu-backend/pkg/db/models"
	"github.com/gonggu-lab/gonggu-backend/pkg/enums"
)

// Composer renders the user-facing text of every campaign notification.
type Composer struct {
	cfg config.NotifyConfig
}

func NewComposer(cfg config.NotifyConfig) *Composer {
	return &Composer{cfg: cfg}
}

func (c *Composer) link(campaign *models.Campaign) string {
	return c.cfg.CampaignLink(campaign.ID.String())
}

func (c *Composer) fanOut(campaign *models.Campaign, typ enums.NotificationType, title, body string, recipients []uuid.UUID) []Message {
	if len(recipients) == 0 {
		return nil
	}
	url := c.link(campaign)
	out := make([]Message, 0, len(recipients))
	for _, recipient := range recipients {
		out = append(out, Message{
			RecipientID: recipient,
			CampaignID:  campaign.ID,
			Type:        typ,
			Title:       title,
			Body:        body,
			URL:         url,
		})
	}
	return out
}

// RecruitmentComplete tells the leader the fixed quantity has been reached.
func (c *Composer) RecruitmentComplete(campaign *models.Campaign) Message {
	return c.fanOut(campaign, enums.NotificationTypeRecruitmentComplete,
		"📢 모집 완료 알림",
		fmt.Sprintf("[%s] 모집이 완료되었어요. 최종 가격을 확정하고 입금 요청을 진행해주세요.", campaign.Title),
		[]uuid.UUID{campaign.LeaderID},
	)[0]
}

// PaymentConfirmed tells the leader one participant reported a deposit.
func (c *Composer) PaymentConfirmed(campaign *models.Campaign, participant *models.Participant) Message {
	return c.fanOut(campaign, enums.NotificationTypePaymentConfirmed,
		"📢 입금 완료 알림",
		fmt.Sprintf("[%s] 참여자(수량 %d개)가 입금을 완료했어요. 확인 후 처리해주세요.", campaign.Title, participant.Count),
		[]uuid.UUID{campaign.LeaderID},
	)[0]
}

// PaymentComplete tells the leader every deposit is in.
func (c *Composer) PaymentComplete(campaign *models.Campaign) Message {
	return c.fanOut(campaign, enums.NotificationTypePaymentComplete,
		"📢 전체 입금 완료 알림",
		fmt.Sprintf("[%s] 모든 참여자의 입금이 확인되었어요. 상품을 주문해주세요.", campaign.Title),
		[]uuid.UUID{campaign.LeaderID},
	)[0]
}

// StatusChanged renders the message sent to participants when the leader
// moves the campaign into status. Statuses without a message return nil.
func (c *Composer) StatusChanged(campaign *models.Campaign, status enums.CampaignStatus, recipients []uuid.UUID) []Message {
	var title, body string
	switch status {
	case enums.CampaignStatusPaymentInProgress:
		title = "📢 입금 요청 시작"
		body = fmt.Sprintf("[%s] 공구의 최종 가격이 [%s]원으로 확정되었어요. 24시간 내에 입금 후 '입금 완료' 버튼을 눌러주세요.",
			campaign.Title, strconv.FormatInt(campaign.EstimatedPrice, 10))
	case enums.CampaignStatusOrdered:
		title = "📢 주문 완료"
		body = fmt.Sprintf("[%s] 총대가 상품 주문을 완료했어요. 배송이 시작되면 다시 알려드릴게요.", campaign.Title)
	case enums.CampaignStatusShipped:
		title = "📢 상품 도착"
		body = fmt.Sprintf("[%s] 주문하신 상품이 도착했어요. 총대가 작성한 픽업 공지를 확인해주세요.", campaign.Title)
	case enums.CampaignStatusCancelled:
		title = "📢 공구 취소"
		body = fmt.Sprintf("[%s] 총대에 의해 공구가 취소되었어요. 자세한 내용은 공지사항을 확인해주세요.", campaign.Title)
	default:
		return nil
	}
	typ := enums.NotificationTypeStatusChange
	if status == enums.CampaignStatusCancelled {
		typ = enums.NotificationTypeCampaignCancelled
	}
	return c.fanOut(campaign, typ, title, body, recipients)
}

// Cancelled renders the leader-initiated cancellation message for reason.
func (c *Composer) Cancelled(campaign *models.Campaign, reason enums.CancelReason, recipients []uuid.UUID) []Message {
	var body string
	switch reason {
	case enums.CancelReasonLeaderCancelled:
		body = fmt.Sprintf("[%s] 총대님이 개인 사정으로 공구를 취소했어요. 자세한 내용은 공지사항을 확인해주세요.", campaign.Title)
	case enums.CancelReasonPaymentFailed:
		body = fmt.Sprintf("[%s] 미입금자가 발생하여 총대님이 공구를 취소했어요. 곧 환불이 진행될 예정이에요.", campaign.Title)
	case enums.CancelReasonProductUnavailable:
		body = fmt.Sprintf("[%s] 상품 품절 또는 가격 변동으로 공구가 취소되었어요. 곧 총대님이 환불을 진행할 예정이에요.", campaign.Title)
	case enums.CancelReasonRecruitmentFailed:
		body = fmt.Sprintf("[%s] 모집 인원이 부족하여 총대님이 공구를 취소했어요.", campaign.Title)
	default:
		return nil
	}
	return c.fanOut(campaign, enums.NotificationTypeCampaignCancelled, "❌ 공구 취소", body, recipients)
}

// AutoCancelled renders the scheduler's cancellation message.
func (c *Composer) AutoCancelled(campaign *models.Campaign, reason enums.CancelReason, recipients []uuid.UUID) []Message {
	var body string
	switch reason {
	case enums.CancelReasonPaymentFailed:
		body = fmt.Sprintf("[%s] 미입금자가 발생하여 공구가 자동으로 취소되었어요. 곧 총대님이 환불을 진행할 예정이에요.", campaign.Title)
	default:
		body = fmt.Sprintf("[%s] 모집이 마감되었지만 목표 수량을 채우지 못해 공구가 취소되었어요.", campaign.Title)
	}
	return c.fanOut(campaign, enums.NotificationTypeCampaignCancelled, "📢 공구 자동 취소 알림", body, recipients)
}

// DepositReminder warns unpaid participants hoursLeft before the deadline.
func (c *Composer) DepositReminder(campaign *models.Campaign, hoursLeft int, recipients []uuid.UUID) []Message {
	return c.fanOut(campaign, enums.NotificationTypeDepositReminder,
		"📢 입금 마감 임박 알림",
		fmt.Sprintf("[%s] 공구 입금 마감이 약 %d시간 남았어요. 서둘러주세요!", campaign.Title, hoursLeft),
		recipients,
	)
}
