package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// SchedulerService wraps cron-based jobs.
type SchedulerService struct {
	cron *cron.Cron
}

func NewSchedulerService(loc *time.Location) *SchedulerService {
	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn))
	return &SchedulerService{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}
}

// ScheduleDaily registers a daily job at the given HH:MM time string.
func (s *SchedulerService) ScheduleDaily(timeStr string, job func()) (cron.EntryID, error) {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	return s.cron.AddFunc(spec, job)
}

// ScheduleInterval registers a job repeating every interval, counted from Start.
// Sub-second precision is dropped.
func (s *SchedulerService) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if err := ValidateInterval(interval); err != nil {
		return 0, err
	}
	return s.cron.Schedule(cron.Every(interval.Truncate(time.Second)), cron.FuncJob(job)), nil
}

// Next reports when the given entry fires next; zero if it is unknown or not started.
func (s *SchedulerService) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// ValidateDailyTime reports whether timeStr is a valid HH:MM value.
func ValidateDailyTime(timeStr string) error {
	_, err := buildDailySpec(timeStr)
	return err
}

// ValidateInterval reports whether d can drive ScheduleInterval.
func ValidateInterval(d time.Duration) error {
	if d < time.Second {
		return fmt.Errorf("interval %v is shorter than one second", d)
	}
	return nil
}

// buildDailySpec turns "HH:MM" into a seconds-first cron spec. Errors name the
// offending field.
func buildDailySpec(timeStr string) (string, error) {
	rawHour, rawMinute, ok := strings.Cut(timeStr, ":")
	if !ok || strings.Contains(rawMinute, ":") {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := clockField(rawHour, 23)
	if err != nil {
		return "", fmt.Errorf("invalid hour %q in %q: %w", rawHour, timeStr, err)
	}
	minute, err := clockField(rawMinute, 59)
	if err != nil {
		return "", fmt.Errorf("invalid minute %q in %q: %w", rawMinute, timeStr, err)
	}
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}

func clockField(raw string, limit int) (int, error) {
	if raw == "" || len(raw) > 2 {
		return 0, errors.New("want one or two digits")
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0, errors.New("not a number")
		}
	}
	n, _ := strconv.Atoi(raw)
	if n > limit {
		return 0, fmt.Errorf("must be at most %d", limit)
	}
	return n, nil
}
