// Package model defines the core data types for edupulse.
package model

import "time"

// User is a registered learner.
type User struct {
	ID               int64
	Name             string
	RegistrationDate time.Time
	LastActivityDate time.Time // zero when the user never came back
}

// Course is a product on sale.
type Course struct {
	ID    int64
	Name  string
	Price float64
}

// Order is one purchase of a course by a user.
type Order struct {
	ID        int64
	UserID    int64
	CourseID  int64
	OrderDate time.Time
	Amount    float64
}

// Activity is a single (user, last activity) data point.
type Activity struct {
	UserID int64
	At     time.Time
}

// CohortMember holds the registration and last activity of one user.
type CohortMember struct {
	RegisteredAt   time.Time
	LastActivityAt time.Time
}
