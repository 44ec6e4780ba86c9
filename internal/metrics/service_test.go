package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/edupulse/internal/model"
)

type fakeSource struct {
	users, courses, active, registered, orders, paying int64
	allRevenue, revenue                                float64
	products                                           []model.ProductPerformance
	acts                                               []model.Activity
	members                                            []model.CohortMember
	buyers, repeat                                     int64
	err                                                error

	gotStart, gotEnd time.Time
	gotLimit         int
}

func (f *fakeSource) CountUsers(context.Context) (int64, error)   { return f.users, f.err }
func (f *fakeSource) CountCourses(context.Context) (int64, error) { return f.courses, nil }
func (f *fakeSource) CountUsersActiveBetween(_ context.Context, s, e time.Time) (int64, error) {
	f.gotStart, f.gotEnd = s, e
	return f.active, nil
}
func (f *fakeSource) CountUsersRegisteredBetween(context.Context, time.Time, time.Time) (int64, error) {
	return f.registered, nil
}
func (f *fakeSource) CountOrdersBetween(context.Context, time.Time, time.Time) (int64, error) {
	return f.orders, nil
}
func (f *fakeSource) CountPayingUsersBetween(context.Context, time.Time, time.Time) (int64, error) {
	return f.paying, nil
}
func (f *fakeSource) TotalRevenue(context.Context) (float64, error) { return f.allRevenue, nil }
func (f *fakeSource) RevenueBetween(context.Context, time.Time, time.Time) (float64, error) {
	return f.revenue, nil
}
func (f *fakeSource) ProductPerformance(_ context.Context, _, _ time.Time, limit int) ([]model.ProductPerformance, error) {
	f.gotLimit = limit
	return f.products, nil
}
func (f *fakeSource) ActivityBetween(context.Context, time.Time, time.Time) ([]model.Activity, error) {
	return f.acts, nil
}
func (f *fakeSource) RegisteredBetween(context.Context, time.Time, time.Time) ([]model.CohortMember, error) {
	return f.members, nil
}
func (f *fakeSource) RepeatPurchasers(context.Context, time.Time) (int64, int64, error) {
	return f.buyers, f.repeat, nil
}

func newTestService(src Source) *Service {
	return NewService(src, Options{Now: func() time.Time { return now }})
}

func TestComplete(t *testing.T) {
	src := &fakeSource{
		users: 3, courses: 16, active: 2, registered: 3, orders: 3, paying: 2,
		allRevenue: 10000, revenue: 3500.5,
		buyers: 2, repeat: 1,
		acts: []model.Activity{{UserID: 1, At: at(3, 10, 9)}},
		members: []model.CohortMember{
			{RegisteredAt: at(3, 10, 9), LastActivityAt: at(3, 10, 10)},
		},
	}

	got, err := newTestService(src).Complete(context.Background(), Last30Days)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	want := model.DashboardStats{UserCount: 2, CourseCount: 16, OrderCount: 3, TotalRevenue: 3500.5}
	if got.DashboardStats != want {
		t.Errorf("stats = %+v, want %+v", got.DashboardStats, want)
	}
	if got.LTV != 3333.33 {
		t.Errorf("LTV = %v, want 3333.33", got.LTV)
	}
	if got.CAC != 17222.22 {
		t.Errorf("CAC = %v, want 17222.22", got.CAC)
	}
	if got.ARPPU != 1750.25 {
		t.Errorf("ARPPU = %v, want 1750.25", got.ARPPU)
	}
	if got.RetentionRate != 50 {
		t.Errorf("RetentionRate = %v, want 50", got.RetentionRate)
	}
	if got.AudienceMetrics.DAU["2026-03-09"] != 1 {
		t.Errorf("DAU = %v, want weekly bucket 2026-03-09", got.AudienceMetrics.DAU)
	}
	if v, ok := got.RetentionTrend["2026-03-09"]; !ok || v != 0 {
		t.Errorf("trend = %v", got.RetentionTrend)
	}
	if got.ProductPerformance == nil {
		t.Error("product performance must be an empty list, not nil")
	}
	if src.gotLimit != DefaultTopProducts {
		t.Errorf("product limit = %d, want %d", src.gotLimit, DefaultTopProducts)
	}
	wantStart := time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)
	if !src.gotStart.Equal(wantStart) {
		t.Errorf("range start = %s, want %s", src.gotStart, wantStart)
	}
}

func TestComplete_CustomMarketingCosts(t *testing.T) {
	src := &fakeSource{registered: 10}
	svc := NewService(src, Options{MonthlyMarketingCosts: 3000, Now: func() time.Time { return now }})

	got, err := svc.Complete(context.Background(), Last7Days)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	// 3000 * 8 days / 30 = 800, over 10 new users.
	if got.CAC != 80 {
		t.Fatalf("CAC = %v, want 80", got.CAC)
	}
}

func TestComplete_PropagatesErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	src := &fakeSource{err: boom}

	_, err := newTestService(src).Complete(context.Background(), Last7Days)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}
