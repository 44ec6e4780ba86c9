package model

import (
	"math"
	"sort"
)

// DateLayout is the key format of every date-keyed series.
const DateLayout = "2006-01-02"

// DashboardStats holds the headline counters for a period.
type DashboardStats struct {
	UserCount    int64   `json:"userCount"`
	CourseCount  int64   `json:"courseCount"`
	OrderCount   int64   `json:"orderCount"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// ProductPerformance holds sales of one course within a period.
type ProductPerformance struct {
	CourseID   int64   `json:"courseId"`
	CourseName string  `json:"courseName"`
	SalesCount int64   `json:"salesCount"`
	Revenue    float64 `json:"revenue"`
}

// Series maps a YYYY-MM-DD date key to a value.
type Series map[string]float64

// Dates returns the keys of s in ascending order.
func (s Series) Dates() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns the values of s ordered by dates, with 0 for missing keys.
func (s Series) Values(dates []string) []float64 {
	out := make([]float64, len(dates))
	for i, d := range dates {
		out[i] = s[d]
	}
	return out
}

// AudienceMetrics holds the active-user series of a period.
type AudienceMetrics struct {
	DAU Series `json:"DAU"`
	WAU Series `json:"WAU"`
	MAU Series `json:"MAU"`
}

// CompleteMetrics is the full dashboard payload served at /api/metrics.
type CompleteMetrics struct {
	DashboardStats     DashboardStats       `json:"dashboardStats"`
	AudienceMetrics    AudienceMetrics      `json:"audienceMetrics"`
	RetentionRate      float64              `json:"retentionRate"`
	LTV                float64              `json:"ltv"`
	CAC                float64              `json:"cac"`
	ARPPU              float64              `json:"arppu"`
	ProductPerformance []ProductPerformance `json:"productPerformance"`
	RetentionTrend     Series               `json:"retentionTrend"`
}

// RoundMoney rounds half away from zero to two decimals.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToMinor converts an amount to integer minor units (kopecks).
func ToMinor(v float64) int64 {
	return int64(math.Round(v * 100))
}

// FromMinor converts integer minor units back to an amount.
func FromMinor(v int64) float64 {
	return float64(v) / 100
}
