package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// StartDateLayout is the yyyy-MM-dd format the backend expects.
const StartDateLayout = "2006-01-02"

var (
	ErrEmptyKeywords = errors.New("at least one keyword is required")
	ErrEmptyPlatform = errors.New("at least one platform is required")
	ErrEmptySources  = errors.New("at least one source url is required")
)

func (k KeywordCreate) Validate() error {
	if len(nonBlank(k.Keywords)) == 0 {
		return ErrEmptyKeywords
	}
	if len(nonBlank(k.Platforms)) == 0 {
		return ErrEmptyPlatform
	}
	return nil
}

func (s SourceCreate) Validate() error {
	if len(nonBlank(s.SourceURL)) == 0 {
		return ErrEmptySources
	}
	if len(nonBlank(s.Platforms)) == 0 {
		return ErrEmptyPlatform
	}
	return nil
}

// Normalize defaults the bot type and drops the field the other type uses.
func (s ScheduleInput) Normalize() ScheduleInput {
	s.ScheduleName = strings.TrimSpace(s.ScheduleName)
	s.Cron = strings.TrimSpace(s.Cron)
	if s.BotType == "" {
		s.BotType = BotCron
	}
	switch s.BotType {
	case BotCron:
		s.IntervalSeconds = nil
	case BotInterval:
		s.Cron = ""
	}
	return s
}

// Validate checks the schedule shape. Cron expressions use the six-field
// form (seconds first) the backend scheduler understands.
func (s ScheduleInput) Validate() error {
	if s.ScheduleName == "" {
		return errors.New("schedule name is required")
	}
	if _, err := time.Parse(StartDateLayout, s.StartTime); err != nil {
		return fmt.Errorf("start date must be yyyy-MM-dd, got %q", s.StartTime)
	}

	switch s.BotType {
	case BotCron:
		if n := len(strings.Fields(s.Cron)); n != 6 {
			return fmt.Errorf("cron expression needs 6 fields, got %d", n)
		}
	case BotInterval:
		if s.IntervalSeconds == nil || *s.IntervalSeconds <= 0 {
			return errors.New("interval_seconds must be positive")
		}
	default:
		return fmt.Errorf("unknown bot type %q", s.BotType)
	}
	return nil
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
