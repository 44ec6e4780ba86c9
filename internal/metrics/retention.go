package metrics

import (
	"time"

	"github.com/theirongolddev/edupulse/internal/model"
)

// retainedAfterDays is how many calendar days after its cohort start a member
// must still be active to count as retained.
const retainedAfterDays = 7

// RetentionTrend groups members into registration cohorts (Monday weeks for
// day and week aggregation, months otherwise) and returns, per cohort start,
// the percentage of members active at least a week after the cohort began.
func RetentionTrend(members []model.CohortMember, agg Aggregation, loc *time.Location) model.Series {
	cohortAgg := ByWeek
	if agg == ByMonth {
		cohortAgg = ByMonth
	}

	type cohort struct{ total, retained int }
	cohorts := make(map[time.Time]*cohort)
	for _, m := range members {
		if m.RegisteredAt.IsZero() {
			continue
		}
		start := cohortAgg.Bucket(m.RegisteredAt, loc)
		c, ok := cohorts[start]
		if !ok {
			c = &cohort{}
			cohorts[start] = c
		}
		c.total++
		if !m.LastActivityAt.IsZero() && !m.LastActivityAt.Before(start.AddDate(0, 0, retainedAfterDays)) {
			c.retained++
		}
	}

	trend := make(model.Series, len(cohorts))
	for start, c := range cohorts {
		trend[start.Format(model.DateLayout)] = model.RoundMoney(float64(c.retained) / float64(c.total) * 100)
	}
	return trend
}

// RepeatPurchaseRate is the percentage of buyers with more than one order.
func RepeatPurchaseRate(buyers, repeat int64) float64 {
	if buyers == 0 {
		return 0
	}
	return float64(repeat) / float64(buyers) * 100
}
