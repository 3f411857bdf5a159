package storage

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"teachjournal/internal/core"
	"teachjournal/internal/repository"
)

var seedSubjects = []string{
	"Mathematics", "Physics", "Chemistry", "Biology", "Literature", "History",
	"Geography", "Computer Science", "Art", "Music", "Physical Education",
	"English", "Foreign Language",
}

var seedClasses = []string{
	"Grade 9A", "Grade 9B", "Grade 9C",
	"Grade 10A", "Grade 10B", "Grade 10C",
	"Grade 11A", "Grade 11B", "Grade 11C",
	"Grade 12A", "Grade 12B", "Grade 12C",
	"Physics Lab", "Chemistry Lab", "Biology Lab",
	"Computer Lab", "Advanced Math", "Honors Science",
}

var (
	seedStartMinutes = []int{0, 15, 30, 45}
	seedDurations    = []int{30, 45, 60, 90, 120, 150, 180}
)

// SeedTeacher describes a provisioned teacher and how many entries to
// generate for it.
type SeedTeacher struct {
	Teacher  core.Teacher
	Past     int // spread over the last two months
	ThisWeek int
	Today    int
}

// DefaultSeedTeachers are the development accounts.
func DefaultSeedTeachers() []SeedTeacher {
	return []SeedTeacher{
		{
			Teacher:  core.Teacher{Code: "T001", Name: "Dr. Sarah Johnson", Email: "sarah.johnson@school.edu"},
			Past:     15,
			ThisWeek: 3,
			Today:    2,
		},
		{
			Teacher: core.Teacher{Code: "T999", Name: "Prof. Michael Admin", Email: "admin@school.edu", IsAdmin: true},
			Past:    8,
		},
	}
}

// SeedResult counts what Seed created.
type SeedResult struct {
	Teachers int
	Entries  int
}

// Seed provisions teachers that do not exist yet and generates their
// entries. Teachers already present (matched by email) are left alone, so
// running it twice is harmless.
func Seed(ctx context.Context, store repository.Store, teachers []SeedTeacher, now time.Time, rng *rand.Rand) (SeedResult, error) {
	var res SeedResult
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(now.UnixNano()), 0x7e4c))
	}
	weekStart, _ := core.WeekRange(now)
	today := core.Today(now)

	for _, st := range teachers {
		existing, err := store.FindTeacherByEmail(ctx, st.Teacher.Email)
		if err != nil {
			return res, fmt.Errorf("seed lookup %s: %w", st.Teacher.Email, err)
		}
		if existing != nil {
			continue
		}
		t := st.Teacher
		if err := store.CreateTeacher(ctx, &t); err != nil {
			return res, fmt.Errorf("seed teacher %s: %w", t.Code, err)
		}
		res.Teachers++

		var dates []core.Date
		for i := 0; i < st.Past; i++ {
			dates = append(dates, core.Date{Time: today.AddDate(0, 0, -rng.IntN(61))})
		}
		// weekStart..today, never in the future
		span := int(today.Sub(weekStart.Time).Hours()/24) + 1
		for i := 0; i < st.ThisWeek; i++ {
			dates = append(dates, core.Date{Time: weekStart.AddDate(0, 0, rng.IntN(span))})
		}
		for i := 0; i < st.Today; i++ {
			dates = append(dates, today)
		}

		for _, d := range dates {
			e := randomEntry(rng, t.ID, d)
			if err := store.SaveEntry(ctx, &e); err != nil {
				return res, fmt.Errorf("seed entry for %s: %w", t.Code, err)
			}
			res.Entries++
		}
	}
	return res, nil
}

// randomEntry builds a session starting between 07:00 and 15:45. Sessions
// that would run to 18:00 or later are shortened to one hour.
func randomEntry(rng *rand.Rand, teacherID int64, date core.Date) core.JournalEntry {
	start := (7+rng.IntN(9))*60 + seedStartMinutes[rng.IntN(len(seedStartMinutes))]
	dur := seedDurations[rng.IntN(len(seedDurations))]
	if start+dur >= 18*60 {
		dur = 60
	}
	return core.JournalEntry{
		TeacherID: teacherID,
		EntryDate: date,
		ClassName: seedClasses[rng.IntN(len(seedClasses))],
		Subject:   seedSubjects[rng.IntN(len(seedSubjects))],
		StartTime: core.FormatClock(start),
		EndTime:   core.FormatClock(start + dur),
	}
}
