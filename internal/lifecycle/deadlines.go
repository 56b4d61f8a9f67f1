package lifecycle

import (
	"math"
	"time"
)

const (
	// PaymentWindow runs from the moment a campaign enters PAYMENT_IN_PROGRESS.
	PaymentWindow = 24 * time.Hour
	// ReminderLead is how long before the payment deadline unpaid
	// participants are reminded.
	ReminderLead = 6 * time.Hour
	// CompletionGrace is how long a campaign stays SHIPPED before it is
	// completed automatically.
	CompletionGrace = 72 * time.Hour
)

// PaymentDeadline is the deposit deadline of a campaign whose status last
// changed at updatedAt.
func PaymentDeadline(updatedAt time.Time) time.Time {
	return updatedAt.Add(PaymentWindow)
}

// RecruitmentExpired reports whether a recruiting campaign ended short of its
// target.
func RecruitmentExpired(now, endDate time.Time, totalPledged, fixedCount int) bool {
	return now.After(endDate) && totalPledged < fixedCount
}

// PaymentOverdue reports whether the deposit deadline has passed with money
// still outstanding.
func PaymentOverdue(now, updatedAt time.Time, unpaid int64) bool {
	return now.After(PaymentDeadline(updatedAt)) && unpaid > 0
}

// ReminderDue reports whether the deposit reminder should go out now and, if
// so, how many whole hours (rounded up) remain until the deadline.
func ReminderDue(now, updatedAt time.Time, alreadySent bool) (int, bool) {
	if alreadySent {
		return 0, false
	}
	left := PaymentDeadline(updatedAt).Sub(now)
	if left <= 0 || left > ReminderLead {
		return 0, false
	}
	return int(math.Ceil(left.Hours())), true
}

// CompletionCutoff is the latest updated_at a SHIPPED campaign may carry to be
// completed at now.
func CompletionCutoff(now time.Time) time.Time {
	return now.Add(-CompletionGrace)
}
