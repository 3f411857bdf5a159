package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"teachjournal/internal/access"
	"teachjournal/internal/auth"
	"teachjournal/internal/core"
	"teachjournal/internal/repository"
)

const (
	recentEntriesLimit = 5
	weekStartLayout    = "Jan 2"
	weekEndLayout      = "Jan 2, 2006"
)

// Dashboard is the overview shown after sign-in.
type Dashboard struct {
	Teacher       core.Teacher        `json:"teacher"`
	RecentEntries []core.JournalEntry `json:"recent_entries"`
	TodayMinutes  int                 `json:"today_minutes"`
	WeekMinutes   int                 `json:"week_minutes"`
	TotalMinutes  int                 `json:"total_minutes"`
	TodayHours    float64             `json:"today_hours"`
	WeekHours     float64             `json:"week_hours"`
	TotalHours    float64             `json:"total_hours"`
	TotalEntries  int                 `json:"total_entries"`
	WeekStart     string              `json:"week_start"`
	WeekEnd       string              `json:"week_end"`
}

// Summary holds the today and this-week figures shown above the journal.
type Summary struct {
	Teacher      core.Teacher `json:"teacher"`
	TodayMinutes int          `json:"today_minutes"`
	WeekMinutes  int          `json:"week_minutes"`
	TodayHours   float64      `json:"today_hours"`
	WeekHours    float64      `json:"week_hours"`
	WeekStart    string       `json:"week_start"`
	WeekEnd      string       `json:"week_end"`
}

type StatsService struct {
	entries repository.EntryStore
	guard   *access.Guard
	now     func() time.Time
}

// NewStatsService uses now as the clock; nil means time.Now.
func NewStatsService(entries repository.EntryStore, guard *access.Guard, now func() time.Time) *StatsService {
	if now == nil {
		now = time.Now
	}
	return &StatsService{entries: entries, guard: guard, now: now}
}

// Dashboard resolves the teacher once and gathers the independent figures
// concurrently. The first failing read cancels the others.
func (s *StatsService) Dashboard(ctx context.Context, id auth.Identity) (Dashboard, error) {
	teacher, err := s.guard.ResolveTeacher(ctx, id)
	if err != nil {
		return Dashboard{}, err
	}

	now := s.now()
	today := core.Today(now)
	weekStart, weekEnd := core.WeekRange(now)

	d := Dashboard{
		Teacher:   teacher,
		WeekStart: weekStart.Format(weekStartLayout),
		WeekEnd:   weekEnd.Format(weekEndLayout),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recent, err := s.entries.ListEntriesForTeacher(gctx, teacher.ID, repository.EntryFilter{Limit: recentEntriesLimit})
		if err != nil {
			return fmt.Errorf("recent entries: %w", err)
		}
		d.RecentEntries = recent
		return nil
	})
	g.Go(func() error {
		entries, err := s.entries.ListEntriesForTeacher(gctx, teacher.ID, repository.OnDate(today))
		if err != nil {
			return fmt.Errorf("today's entries: %w", err)
		}
		d.TodayMinutes = core.MinutesOn(entries, today)
		return nil
	})
	g.Go(func() error {
		entries, err := s.entries.ListEntriesForTeacher(gctx, teacher.ID, repository.Between(weekStart, weekEnd))
		if err != nil {
			return fmt.Errorf("week entries: %w", err)
		}
		d.WeekMinutes = core.MinutesBetween(entries, weekStart, weekEnd)
		return nil
	})
	g.Go(func() error {
		entries, err := s.entries.ListEntriesForTeacher(gctx, teacher.ID, repository.EntryFilter{})
		if err != nil {
			return fmt.Errorf("all entries: %w", err)
		}
		d.TotalMinutes = core.TotalMinutes(entries)
		return nil
	})
	g.Go(func() error {
		n, err := s.entries.CountEntriesForTeacher(gctx, teacher.ID, repository.EntryFilter{})
		if err != nil {
			return fmt.Errorf("count entries: %w", err)
		}
		d.TotalEntries = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	if d.RecentEntries == nil {
		d.RecentEntries = []core.JournalEntry{}
	}
	d.TodayHours = core.HoursRounded(d.TodayMinutes)
	d.WeekHours = core.HoursRounded(d.WeekMinutes)
	d.TotalHours = core.HoursRounded(d.TotalMinutes)
	return d, nil
}

// Summary returns today's and this week's totals for the caller, labelled
// with the week they cover.
func (s *StatsService) Summary(ctx context.Context, id auth.Identity) (Summary, error) {
	teacher, err := s.guard.ResolveTeacher(ctx, id)
	if err != nil {
		return Summary{}, err
	}

	now := s.now()
	today := core.Today(now)
	weekStart, weekEnd := core.WeekRange(now)

	entries, err := s.entries.ListEntriesForTeacher(ctx, teacher.ID, repository.Between(weekStart, weekEnd))
	if err != nil {
		return Summary{}, fmt.Errorf("week entries: %w", err)
	}
	sum := Summary{
		Teacher:   teacher,
		WeekStart: weekStart.Format(weekStartLayout),
		WeekEnd:   weekEnd.Format(weekEndLayout),
	}
	sum.WeekMinutes = core.MinutesBetween(entries, weekStart, weekEnd)
	sum.TodayMinutes = core.MinutesOn(entries, today)
	sum.TodayHours = core.HoursRounded(sum.TodayMinutes)
	sum.WeekHours = core.HoursRounded(sum.WeekMinutes)
	return sum, nil
}
