package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/edupulse/internal/model"
)

var base = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func day(n int) time.Time { return base.AddDate(0, 0, n) }

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "edupulse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func fixture() Dataset {
	return Dataset{
		Courses: []model.Course{
			{ID: 1, Name: "Go basics", Price: 1000},
			{ID: 2, Name: "SQL deep dive", Price: 2500.5},
			{ID: 3, Name: "Unsold", Price: 10},
		},
		Users: []model.User{
			{ID: 1, Name: "A", RegistrationDate: day(-20), LastActivityDate: day(-1)},
			{ID: 2, Name: "B", RegistrationDate: day(-10), LastActivityDate: day(-5)},
			{ID: 3, Name: "C", RegistrationDate: day(-3)},
		},
		Orders: []model.Order{
			{UserID: 1, CourseID: 1, OrderDate: day(-19), Amount: 1000},
			{UserID: 1, CourseID: 2, OrderDate: day(-2), Amount: 2500.5},
			{UserID: 2, CourseID: 1, OrderDate: day(-4), Amount: 1000},
		},
	}
}

func TestSaveAllAndCounts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SaveAll(ctx, fixture()))

	users, err := s.CountUsers(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, users)

	courses, err := s.CountCourses(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, courses)

	orders, err := s.CountOrders(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 3, orders)

	total, err := s.TotalRevenue(ctx)
	require.NoError(t, err)
	require.InDelta(t, 4500.5, total, 1e-9)
}

func TestRangesAreHalfOpen(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SaveAll(ctx, fixture()))

	// [day(-5), day(-1)) contains user B's activity but not user A's.
	active, err := s.CountUsersActiveBetween(ctx, day(-5), day(-1))
	require.NoError(t, err)
	require.EqualValues(t, 1, active)

	registered, err := s.CountUsersRegisteredBetween(ctx, day(-10), day(0))
	require.NoError(t, err)
	require.EqualValues(t, 2, registered)

	n, err := s.CountOrdersBetween(ctx, day(-4), day(0))
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	revenue, err := s.RevenueBetween(ctx, day(-4), day(0))
	require.NoError(t, err)
	require.InDelta(t, 3500.5, revenue, 1e-9)

	paying, err := s.CountPayingUsersBetween(ctx, day(-4), day(0))
	require.NoError(t, err)
	require.EqualValues(t, 2, paying)
}

func TestEmptyRevenueIsZero(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	revenue, err := s.RevenueBetween(ctx, day(-30), day(0))
	require.NoError(t, err)
	require.Zero(t, revenue)

	top, err := s.ProductPerformance(ctx, day(-30), day(0), 5)
	require.NoError(t, err)
	require.NotNil(t, top)
	require.Empty(t, top)
}

func TestProductPerformance(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SaveAll(ctx, fixture()))

	top, err := s.ProductPerformance(ctx, day(-30), day(0), 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, "Go basics", top[0].CourseName)
	require.EqualValues(t, 2, top[0].SalesCount)
	require.InDelta(t, 2000, top[0].Revenue, 1e-9)
	require.Equal(t, int64(2), top[1].CourseID)

	limited, err := s.ProductPerformance(ctx, day(-30), day(0), 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestActivityAndCohorts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SaveAll(ctx, fixture()))

	acts, err := s.ActivityBetween(ctx, day(-30), day(1))
	require.NoError(t, err)
	require.Len(t, acts, 2)
	require.Equal(t, int64(2), acts[0].UserID)
	require.True(t, acts[0].At.Equal(day(-5)))

	members, err := s.RegisteredBetween(ctx, day(-30), day(1))
	require.NoError(t, err)
	require.Len(t, members, 3)
	require.True(t, members[2].LastActivityAt.IsZero(), "user without activity")
}

func TestRepeatPurchasers(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SaveAll(ctx, fixture()))

	buyers, repeat, err := s.RepeatPurchasers(ctx, day(0))
	require.NoError(t, err)
	require.EqualValues(t, 2, buyers)
	require.EqualValues(t, 1, repeat)

	// Only user A had a first order before day(-10).
	buyers, repeat, err = s.RepeatPurchasers(ctx, day(-10))
	require.NoError(t, err)
	require.EqualValues(t, 1, buyers)
	require.EqualValues(t, 1, repeat)
}

func TestSaveAllRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	ds := fixture()
	ds.Orders = append(ds.Orders, model.Order{UserID: 99, CourseID: 1, OrderDate: day(-1), Amount: 1})
	require.Error(t, s.SaveAll(ctx, ds))

	users, err := s.CountUsers(ctx)
	require.NoError(t, err)
	require.Zero(t, users)
}
