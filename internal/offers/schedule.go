package offers

import (
	"time"

	"github.com/curbsidehq/curbside-backend/pkg/db/models"
)

// withinSchedule reports whether the offer's day-of-week and time-of-day
// restrictions admit the given instant. Date windows are filtered in the
// repository query; this only evaluates the intra-week fields.
func withinSchedule(offer models.Offer, now time.Time) bool {
	if len(offer.DaysOfWeek) > 0 {
		day := int64(now.Weekday())
		found := false
		for _, allowed := range offer.DaysOfWeek {
			if allowed == day {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if offer.TimeStart != nil && *offer.TimeStart != "" {
		start, err := time.Parse("15:04", *offer.TimeStart)
		if err == nil {
			minutes := now.Hour()*60 + now.Minute()
			if minutes < start.Hour()*60+start.Minute() {
				return false
			}
		}
	}
	if offer.TimeEnd != nil && *offer.TimeEnd != "" {
		end, err := time.Parse("15:04", *offer.TimeEnd)
		if err == nil {
			minutes := now.Hour()*60 + now.Minute()
			if minutes > end.Hour()*60+end.Minute() {
				return false
			}
		}
	}
	return true
}

// underUsageCaps reports whether the offer still has redemptions left,
// both globally and for the requesting customer.
func underUsageCaps(offer models.Offer, customerUses int) bool {
	if offer.MaxUses != nil && offer.CurrentUses >= *offer.MaxUses {
		return false
	}
	if offer.MaxUsesPerCustomer != nil && customerUses >= *offer.MaxUsesPerCustomer {
		return false
	}
	return true
}
