// Package store provides SQLite-backed persistence for users, courses and orders.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/edupulse/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store wraps the analytics database.
type Store struct {
	db *sql.DB
}

// Dataset is a batch of rows written in one transaction.
// Rows with a non-zero ID keep it; orders refer to users and courses by ID.
type Dataset struct {
	Courses []model.Course
	Users   []model.User
	Orders  []model.Order
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// SaveAll writes a dataset atomically.
func (s *Store) SaveAll(ctx context.Context, ds Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range ds.Courses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO courses (id, name, price_minor) VALUES (NULLIF(?, 0), ?, ?)`,
			c.ID, c.Name, model.ToMinor(c.Price)); err != nil {
			return fmt.Errorf("inserting course %q: %w", c.Name, err)
		}
	}

	for _, u := range ds.Users {
		var lastActivity sql.NullString
		if !u.LastActivityDate.IsZero() {
			lastActivity = sql.NullString{String: formatTime(u.LastActivityDate), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, name, registration_date, last_activity_date) VALUES (NULLIF(?, 0), ?, ?, ?)`,
			u.ID, u.Name, formatTime(u.RegistrationDate), lastActivity); err != nil {
			return fmt.Errorf("inserting user %q: %w", u.Name, err)
		}
	}

	for _, o := range ds.Orders {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO orders (id, user_id, course_id, order_date, amount_minor) VALUES (NULLIF(?, 0), ?, ?, ?, ?)`,
			o.ID, o.UserID, o.CourseID, formatTime(o.OrderDate), model.ToMinor(o.Amount)); err != nil {
			return fmt.Errorf("inserting order for user %d: %w", o.UserID, err)
		}
	}

	return tx.Commit()
}

func (s *Store) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// CountUsers returns the number of users.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM users")
}

// CountCourses returns the number of courses.
func (s *Store) CountCourses(ctx context.Context) (int64, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM courses")
}

// CountOrders returns the number of orders.
func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM orders")
}

// CountUsersActiveBetween counts users whose last activity falls in [start, end).
func (s *Store) CountUsersActiveBetween(ctx context.Context, start, end time.Time) (int64, error) {
	return s.count(ctx,
		"SELECT COUNT(*) FROM users WHERE last_activity_date >= ? AND last_activity_date < ?",
		formatTime(start), formatTime(end))
}

// CountUsersRegisteredBetween counts users registered in [start, end).
func (s *Store) CountUsersRegisteredBetween(ctx context.Context, start, end time.Time) (int64, error) {
	return s.count(ctx,
		"SELECT COUNT(*) FROM users WHERE registration_date >= ? AND registration_date < ?",
		formatTime(start), formatTime(end))
}

// CountOrdersBetween counts orders placed in [start, end).
func (s *Store) CountOrdersBetween(ctx context.Context, start, end time.Time) (int64, error) {
	return s.count(ctx,
		"SELECT COUNT(*) FROM orders WHERE order_date >= ? AND order_date < ?",
		formatTime(start), formatTime(end))
}

// CountPayingUsersBetween counts distinct users with an order in [start, end).
func (s *Store) CountPayingUsersBetween(ctx context.Context, start, end time.Time) (int64, error) {
	return s.count(ctx,
		"SELECT COUNT(DISTINCT user_id) FROM orders WHERE order_date >= ? AND order_date < ?",
		formatTime(start), formatTime(end))
}

// TotalRevenue returns the revenue of all orders ever placed.
func (s *Store) TotalRevenue(ctx context.Context) (float64, error) {
	minor, err := s.count(ctx, "SELECT COALESCE(SUM(amount_minor), 0) FROM orders")
	return model.FromMinor(minor), err
}

// RevenueBetween returns the revenue of orders placed in [start, end).
func (s *Store) RevenueBetween(ctx context.Context, start, end time.Time) (float64, error) {
	minor, err := s.count(ctx,
		"SELECT COALESCE(SUM(amount_minor), 0) FROM orders WHERE order_date >= ? AND order_date < ?",
		formatTime(start), formatTime(end))
	return model.FromMinor(minor), err
}

// ProductPerformance returns per-course sales in [start, end), best sellers first.
func (s *Store) ProductPerformance(ctx context.Context, start, end time.Time, limit int) ([]model.ProductPerformance, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT c.id, c.name, COUNT(o.id), SUM(o.amount_minor)
		FROM orders o JOIN courses c ON c.id = o.course_id
		WHERE o.order_date >= ? AND o.order_date < ?
		GROUP BY c.id, c.name
		ORDER BY COUNT(o.id) DESC, c.id
		LIMIT ?`,
		formatTime(start), formatTime(end), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := []model.ProductPerformance{}
	for rows.Next() {
		var p model.ProductPerformance
		var revenueMinor int64
		if err := rows.Scan(&p.CourseID, &p.CourseName, &p.SalesCount, &revenueMinor); err != nil {
			return nil, err
		}
		p.Revenue = model.FromMinor(revenueMinor)
		result = append(result, p)
	}
	return result, rows.Err()
}

// ActivityBetween returns the last activity of every user active in [start, end).
func (s *Store) ActivityBetween(ctx context.Context, start, end time.Time) ([]model.Activity, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, last_activity_date FROM users
		WHERE last_activity_date >= ? AND last_activity_date < ?
		ORDER BY last_activity_date`,
		formatTime(start), formatTime(end))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []model.Activity
	for rows.Next() {
		var a model.Activity
		var at string
		if err := rows.Scan(&a.UserID, &at); err != nil {
			return nil, err
		}
		a.At = parseTime(at)
		result = append(result, a)
	}
	return result, rows.Err()
}

// RegisteredBetween returns the users registered in [start, end).
func (s *Store) RegisteredBetween(ctx context.Context, start, end time.Time) ([]model.CohortMember, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT registration_date, last_activity_date FROM users
		WHERE registration_date >= ? AND registration_date < ?
		ORDER BY registration_date`,
		formatTime(start), formatTime(end))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []model.CohortMember
	for rows.Next() {
		var reg string
		var last sql.NullString
		if err := rows.Scan(&reg, &last); err != nil {
			return nil, err
		}
		m := model.CohortMember{RegisteredAt: parseTime(reg)}
		if last.Valid {
			m.LastActivityAt = parseTime(last.String)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// RepeatPurchasers counts users whose first order is before the cutoff, and
// how many of them have more than one order in total.
func (s *Store) RepeatPurchasers(ctx context.Context, before time.Time) (buyers, repeat int64, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(CASE WHEN n > 1 THEN 1 ELSE 0 END), 0)
		FROM (
			SELECT user_id, COUNT(*) AS n, MIN(order_date) AS first_order
			FROM orders GROUP BY user_id
		)
		WHERE first_order < ?`, formatTime(before)).Scan(&buyers, &repeat)
	return buyers, repeat, err
}
