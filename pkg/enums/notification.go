package enums

import "fmt"

// NotificationType classifies inbox rows and push payloads.
type NotificationType string

const (
	NotificationTypeStatusChange        NotificationType = "status_change"
	NotificationTypeRecruitmentComplete NotificationType = "recruitment_complete"
	NotificationTypePaymentConfirmed    NotificationType = "payment_confirmed"
	NotificationTypePaymentComplete     NotificationType = "payment_complete"
	NotificationTypeDepositReminder     NotificationType = "deposit_reminder"
	NotificationTypeCampaignCancelled   NotificationType = "campaign_cancelled"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeStatusChange,
	NotificationTypeRecruitmentComplete,
	NotificationTypePaymentConfirmed,
	NotificationTypePaymentComplete,
	NotificationTypeDepositReminder,
	NotificationTypeCampaignCancelled,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
