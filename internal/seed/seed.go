// Package seed generates a realistic demo dataset for an empty database.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/theirongolddev/edupulse/internal/model"
	"github.com/theirongolddev/edupulse/internal/store"
)

// DefaultUsers is the number of generated users when none is configured.
const DefaultUsers = 500

// Behaviour probabilities of a generated user.
const (
	churnRate        = 0.30 // leaves on the day of registration
	earlyBuyRate     = 0.60 // buys within the first 3 days
	delayedBuyRate   = 0.25 // buys one to five weeks later
	repeatBuyRate    = 0.12 // comes back for another course
	returnVisitsRate = 0.70 // buyers who browse again after their last order
)

type catalogEntry struct {
	name   string
	price  float64
	weight int
}

// catalog lists the courses on sale; popular ones have a higher weight.
var catalog = []catalogEntry{
	{"История музыки за 15 минут в день. Балкон", 27900, 10},
	{"История музыки за 15 минут в день. Партер", 56900, 3},
	{"История музыки за 15 минут в день. Ложа", 134780, 3},
	{"Музыка и литература.", 12900, 3},
	{"Музыка и живопись", 5900, 3},
	{"Музыка и литература + живопись + путешествия", 15900, 3},
	{"Великие композиторы", 27000, 7},
	{"Как устроена музыка", 15000, 7},
	{"Великие композиторы и Как устроена музыка", 42000, 3},
	{"Тайны 24-ч тональностей", 10000, 3},
	{"Русская классика для детей. Вершки", 10000, 3},
	{"Русская классика для детей. Вершки и корешки", 20000, 3},
	{"Мой друг Моцарт 2.0. Виртуоз", 55000, 3},
	{"Мой друг Моцарт 3.0. История искусств", 85000, 10},
	{"Семейный просмотр", 141900, 10},
	{"Музыка и рисунки", 10000, 3},
}

// Config controls generation.
type Config struct {
	Users int
	Seed  uint64
	Now   time.Time
}

// Generate builds courses, users and orders over the year before cfg.Now.
// The same config always yields the same dataset.
func Generate(cfg Config) store.Dataset {
	if cfg.Users <= 0 {
		cfg.Users = DefaultUsers
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	now := cfg.Now.UTC().Truncate(time.Second)
	r := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	var ds store.Dataset
	weighted := make([]int64, 0, 100)
	for i, c := range catalog {
		id := int64(i + 1)
		ds.Courses = append(ds.Courses, model.Course{ID: id, Name: c.name, Price: c.price})
		for w := 0; w < c.weight; w++ {
			weighted = append(weighted, id)
		}
	}
	pick := func() model.Course {
		return ds.Courses[weighted[r.IntN(len(weighted))]-1]
	}

	yearAgo := now.AddDate(-1, 0, 0)
	span := int(now.Sub(yearAgo).Hours() / 24)

	for i := 0; i < cfg.Users; i++ {
		reg := yearAgo.AddDate(0, 0, r.IntN(span+1)).
			Add(time.Duration(r.IntN(24))*time.Hour + time.Duration(r.IntN(60))*time.Minute)
		if reg.After(now) {
			reg = now
		}
		u := model.User{
			ID:               int64(i + 1),
			Name:             fmt.Sprintf("User%d", 1000+i),
			RegistrationDate: reg,
		}

		if r.Float64() < churnRate {
			u.LastActivityDate = clamp(reg.Add(time.Duration(r.IntN(24))*time.Hour), now)
			ds.Users = append(ds.Users, u)
			continue
		}

		var orders []model.Order
		buy := func(at time.Time) {
			if at.After(now) {
				return
			}
			c := pick()
			orders = append(orders, model.Order{UserID: u.ID, CourseID: c.ID, OrderDate: at, Amount: c.Price})
		}
		if r.Float64() < earlyBuyRate {
			buy(reg.AddDate(0, 0, r.IntN(4)))
		}
		if r.Float64() < delayedBuyRate {
			buy(reg.AddDate(0, 0, 7+r.IntN(30)))
		}
		if r.Float64() < repeatBuyRate {
			buy(reg.AddDate(0, 0, 20+r.IntN(120)))
		}

		last := reg
		for _, o := range orders {
			if o.OrderDate.After(last) {
				last = o.OrderDate
			}
		}
		if len(orders) > 0 && r.Float64() < returnVisitsRate {
			visits := 1 + r.IntN(5)
			for v := 0; v < visits; v++ {
				visit := last.AddDate(0, 0, 1+r.IntN(89))
				if visit.Before(now) {
					last = visit
				}
			}
		}
		u.LastActivityDate = clamp(last.Add(time.Duration(r.IntN(120))*time.Minute), now)

		ds.Users = append(ds.Users, u)
		ds.Orders = append(ds.Orders, orders...)
	}

	return ds
}

func clamp(t, limit time.Time) time.Time {
	if t.After(limit) {
		return limit
	}
	return t
}

// Target is the store the dataset is written to.
type Target interface {
	CountUsers(ctx context.Context) (int64, error)
	CountCourses(ctx context.Context) (int64, error)
	CountOrders(ctx context.Context) (int64, error)
	SaveAll(ctx context.Context, ds store.Dataset) error
}

// Load writes ds into t unless t already holds any data.
// It reports whether the dataset was written.
func Load(ctx context.Context, t Target, ds store.Dataset) (bool, error) {
	for _, count := range []func(context.Context) (int64, error){t.CountUsers, t.CountCourses, t.CountOrders} {
		n, err := count(ctx)
		if err != nil {
			return false, fmt.Errorf("checking existing data: %w", err)
		}
		if n > 0 {
			log.Printf("edupulse: data already exists, skipping seed")
			return false, nil
		}
	}

	if err := t.SaveAll(ctx, ds); err != nil {
		return false, fmt.Errorf("saving seed data: %w", err)
	}
	log.Printf("edupulse: seeded %d users, %d courses, %d orders", len(ds.Users), len(ds.Courses), len(ds.Orders))
	return true, nil
}
