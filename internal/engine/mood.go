package engine

import (
	"context"
	"time"

	"zootopia/internal/apperrors"
	"zootopia/internal/catalog"
	"zootopia/internal/mood"
	"zootopia/internal/storage"
)

func (s *Service) today() string {
	return s.now().Format(time.DateOnly)
}

// RecordMood sets today's weather. Recording again the same day overwrites it.
func (s *Service) RecordMood(ctx context.Context, m catalog.WeatherMood) (*storage.MoodRecord, error) {
	if !m.IsValid() {
		return nil, apperrors.ValidationError{Field: "mood", Reason: "is not a known weather"}
	}
	owner, err := s.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.UpsertMoodRecord(ctx, owner, s.today(), m)
	if err != nil {
		return nil, translate("record mood", err)
	}
	return rec, nil
}

// TodayMood returns today's record, or nil when none was recorded.
func (s *Service) TodayMood(ctx context.Context) (*storage.MoodRecord, error) {
	owner, err := s.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.GetMoodRecord(ctx, owner, s.today())
	if err != nil {
		return nil, translate("get mood", err)
	}
	return rec, nil
}

func (s *Service) AnalyzeMood(text string) mood.Report {
	return s.reporter.Analyze(text)
}
