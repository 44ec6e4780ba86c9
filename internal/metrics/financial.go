package metrics

import "github.com/theirongolddev/edupulse/internal/model"

// DefaultMonthlyMarketingCosts is the marketing spend per 30 days used for CAC.
const DefaultMonthlyMarketingCosts = 50000.0

// ratio divides and rounds half-up to two decimals; 0 when den is 0.
func ratio(num float64, den int64) float64 {
	if den <= 0 {
		return 0
	}
	return model.RoundMoney(num / float64(den))
}

// LTV is all-time revenue per user.
func LTV(totalRevenue float64, users int64) float64 {
	return ratio(totalRevenue, users)
}

// PeriodCosts prorates the monthly marketing spend over days.
func PeriodCosts(monthly float64, days int) float64 {
	return model.RoundMoney(monthly * float64(days) / 30)
}

// CAC is the period's marketing cost per newly registered user.
func CAC(periodCosts float64, newUsers int64) float64 {
	return ratio(periodCosts, newUsers)
}

// ARPPU is the period's revenue per paying user.
func ARPPU(revenue float64, payingUsers int64) float64 {
	return ratio(revenue, payingUsers)
}
