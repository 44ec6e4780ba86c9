package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/theirongolddev/edupulse/internal/model"
)

// DefaultTopProducts is how many courses product performance reports.
const DefaultTopProducts = 5

// Source is the read side of the store the metrics are computed from.
// All ranges are half-open.
type Source interface {
	CountUsers(ctx context.Context) (int64, error)
	CountCourses(ctx context.Context) (int64, error)
	CountUsersActiveBetween(ctx context.Context, start, end time.Time) (int64, error)
	CountUsersRegisteredBetween(ctx context.Context, start, end time.Time) (int64, error)
	CountOrdersBetween(ctx context.Context, start, end time.Time) (int64, error)
	CountPayingUsersBetween(ctx context.Context, start, end time.Time) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
	RevenueBetween(ctx context.Context, start, end time.Time) (float64, error)
	ProductPerformance(ctx context.Context, start, end time.Time, limit int) ([]model.ProductPerformance, error)
	ActivityBetween(ctx context.Context, start, end time.Time) ([]model.Activity, error)
	RegisteredBetween(ctx context.Context, start, end time.Time) ([]model.CohortMember, error)
	RepeatPurchasers(ctx context.Context, before time.Time) (buyers, repeat int64, err error)
}

// Options tunes a Service.
type Options struct {
	MonthlyMarketingCosts float64
	TopProducts           int
	Now                   func() time.Time
}

// Service assembles the complete metrics payload.
type Service struct {
	src  Source
	opts Options
}

// NewService creates a Service. Zero options take their defaults.
func NewService(src Source, opts Options) *Service {
	if opts.MonthlyMarketingCosts <= 0 {
		opts.MonthlyMarketingCosts = DefaultMonthlyMarketingCosts
	}
	if opts.TopProducts <= 0 {
		opts.TopProducts = DefaultTopProducts
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{src: src, opts: opts}
}

// Complete computes every metric for the period ending today.
func (s *Service) Complete(ctx context.Context, p Period) (*model.CompleteMetrics, error) {
	return s.CompleteRange(ctx, p.Range(s.opts.Now()))
}

// CompleteRange computes every metric for r.
func (s *Service) CompleteRange(ctx context.Context, r Range) (*model.CompleteMetrics, error) {
	agg := AggregationFor(r)
	loc := r.Start.Location()

	stats, err := s.Stats(ctx, r)
	if err != nil {
		return nil, err
	}

	acts, err := s.src.ActivityBetween(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("loading activity: %w", err)
	}

	buyers, repeat, err := s.src.RepeatPurchasers(ctx, r.End)
	if err != nil {
		return nil, fmt.Errorf("counting repeat purchasers: %w", err)
	}

	members, err := s.src.RegisteredBetween(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("loading cohorts: %w", err)
	}

	products, err := s.src.ProductPerformance(ctx, r.Start, r.End, s.opts.TopProducts)
	if err != nil {
		return nil, fmt.Errorf("loading product performance: %w", err)
	}
	if products == nil {
		products = []model.ProductPerformance{}
	}

	fin, err := s.financials(ctx, r, stats.TotalRevenue)
	if err != nil {
		return nil, err
	}

	return &model.CompleteMetrics{
		DashboardStats:     stats,
		AudienceMetrics:    Audience(acts, agg, loc),
		RetentionRate:      RepeatPurchaseRate(buyers, repeat),
		LTV:                fin.ltv,
		CAC:                fin.cac,
		ARPPU:              fin.arppu,
		ProductPerformance: products,
		RetentionTrend:     RetentionTrend(members, agg, loc),
	}, nil
}

// Stats computes the headline counters for r.
func (s *Service) Stats(ctx context.Context, r Range) (model.DashboardStats, error) {
	var st model.DashboardStats
	var err error
	if st.UserCount, err = s.src.CountUsersActiveBetween(ctx, r.Start, r.End); err != nil {
		return st, fmt.Errorf("counting active users: %w", err)
	}
	if st.CourseCount, err = s.src.CountCourses(ctx); err != nil {
		return st, fmt.Errorf("counting courses: %w", err)
	}
	if st.OrderCount, err = s.src.CountOrdersBetween(ctx, r.Start, r.End); err != nil {
		return st, fmt.Errorf("counting orders: %w", err)
	}
	if st.TotalRevenue, err = s.src.RevenueBetween(ctx, r.Start, r.End); err != nil {
		return st, fmt.Errorf("summing revenue: %w", err)
	}
	return st, nil
}

type financials struct {
	ltv, cac, arppu float64
}

func (s *Service) financials(ctx context.Context, r Range, periodRevenue float64) (financials, error) {
	var f financials

	allRevenue, err := s.src.TotalRevenue(ctx)
	if err != nil {
		return f, fmt.Errorf("summing all revenue: %w", err)
	}
	users, err := s.src.CountUsers(ctx)
	if err != nil {
		return f, fmt.Errorf("counting users: %w", err)
	}
	f.ltv = LTV(allRevenue, users)

	newUsers, err := s.src.CountUsersRegisteredBetween(ctx, r.Start, r.End)
	if err != nil {
		return f, fmt.Errorf("counting new users: %w", err)
	}
	f.cac = CAC(PeriodCosts(s.opts.MonthlyMarketingCosts, r.Days()), newUsers)

	paying, err := s.src.CountPayingUsersBetween(ctx, r.Start, r.End)
	if err != nil {
		return f, fmt.Errorf("counting paying users: %w", err)
	}
	f.arppu = ARPPU(periodRevenue, paying)

	return f, nil
}
