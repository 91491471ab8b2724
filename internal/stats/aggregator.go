// Package stats computes per-activity enrollment statistics.
package stats

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"gymroster/internal/activity"
	"gymroster/internal/apperrors"
	"gymroster/internal/client"
	"gymroster/internal/db"
	"gymroster/internal/metrics"
)

type Stats struct {
	ActivityCode     string           `json:"activity_code"`
	EnrolledCount    int              `json:"enrolled_count"`
	AverageAge       float64          `json:"average_age"`
	DominantCategory *client.Category `json:"dominant_category"`
	TotalRevenue     float64          `json:"total_revenue"`
}

// MemberLister returns the clients currently enrolled in an activity.
type MemberLister interface {
	MembersOf(ctx context.Context, activityCode string) ([]client.Client, error)
}

type Aggregator interface {
	ComputeActivityStatistics(ctx context.Context, activityCode string) (*Stats, error)
}

type aggregator struct {
	activities activity.Repository
	members    MemberLister
	tx         db.Transactor
	now        func() time.Time
}

type Option func(*aggregator)

// WithClock fixes the reference used for the current year.
func WithClock(now func() time.Time) Option {
	return func(a *aggregator) { a.now = now }
}

func NewAggregator(activities activity.Repository, members MemberLister, tx db.Transactor, opts ...Option) Aggregator {
	a := &aggregator{
		activities: activities,
		members:    members,
		tx:         tx,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *aggregator) ComputeActivityStatistics(ctx context.Context, activityCode string) (*Stats, error) {
	ctx, span := otel.Tracer("gymroster/stats").Start(ctx, "Aggregator.ComputeActivityStatistics")
	defer span.End()
	span.SetAttributes(attribute.String("activity.code", activityCode))

	start := time.Now()
	defer func() { metrics.RecordStatistics(time.Since(start).Seconds()) }()

	var (
		act     *activity.Activity
		members []client.Client
	)
	err := a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		act, err = a.activities.FindByCode(ctx, activityCode)
		if err != nil {
			return apperrors.Persistence("find activity", err)
		}
		if act == nil {
			return activity.ErrActivityNotFound
		}

		members, err = a.members.MembersOf(ctx, activityCode)
		if err != nil {
			return apperrors.Persistence("list activity members", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Persistence("compute statistics", err)
	}

	s := Compute(act.Price, members, a.now().Year())
	s.ActivityCode = act.Code
	span.SetAttributes(attribute.Int("stats.enrolled", s.EnrolledCount))
	return &s, nil
}

// Compute aggregates members of an activity priced at price.
//
// Ages are currentYear minus birth year; members without a parseable birth
// date are left out of the average. Revenue is accumulated in hundredths of
// the price so the discount table never introduces rounding drift.
func Compute(price int64, members []client.Client, currentYear int) Stats {
	s := Stats{EnrolledCount: len(members)}
	if len(members) == 0 {
		return s
	}

	var (
		ageSum, aged int
		revenue      int64
		counts       = make(map[client.Category]int)
	)
	for _, m := range members {
		if year, ok := m.BirthYear(); ok {
			ageSum += currentYear - year
			aged++
		}
		revenue += price * int64(100-m.Category.DiscountPercent())
		counts[m.Category]++
	}

	if aged > 0 {
		s.AverageAge = float64(ageSum) / float64(aged)
	}
	s.TotalRevenue = float64(revenue) / 100
	s.DominantCategory = dominant(counts)
	return s
}

// dominant picks the most frequent category, the smallest one on ties.
func dominant(counts map[client.Category]int) *client.Category {
	categories := make([]client.Category, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	var best *client.Category
	for i := range categories {
		if best == nil || counts[categories[i]] > counts[*best] {
			best = &categories[i]
		}
	}
	return best
}
