package metrics

import (
	"sort"
	"time"

	"github.com/theirongolddev/edupulse/internal/model"
)

// Audience buckets activity by agg and computes DAU plus the rolling
// 7 day (WAU) and 30 day (MAU) distinct-user counts over the bucket keys.
func Audience(acts []model.Activity, agg Aggregation, loc *time.Location) model.AudienceMetrics {
	buckets := make(map[time.Time]map[int64]struct{})
	for _, a := range acts {
		if a.At.IsZero() {
			continue
		}
		key := agg.Bucket(a.At, loc)
		users, ok := buckets[key]
		if !ok {
			users = make(map[int64]struct{})
			buckets[key] = users
		}
		users[a.UserID] = struct{}{}
	}

	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	dau := make(model.Series, len(keys))
	for _, k := range keys {
		dau[k.Format(model.DateLayout)] = float64(len(buckets[k]))
	}

	return model.AudienceMetrics{
		DAU: dau,
		WAU: rolling(keys, buckets, 7),
		MAU: rolling(keys, buckets, 30),
	}
}

// rolling counts distinct users over the keys within the last `days` days
// of each key, inclusive.
func rolling(keys []time.Time, buckets map[time.Time]map[int64]struct{}, days int) model.Series {
	out := make(model.Series, len(keys))
	seen := make(map[int64]int) // user -> number of window buckets containing them
	first := 0
	for i, k := range keys {
		windowStart := k.AddDate(0, 0, -(days - 1))
		for first < i && keys[first].Before(windowStart) {
			for u := range buckets[keys[first]] {
				if seen[u]--; seen[u] == 0 {
					delete(seen, u)
				}
			}
			first++
		}
		for u := range buckets[k] {
			seen[u]++
		}
		out[k.Format(model.DateLayout)] = float64(len(seen))
	}
	return out
}
