package checkin

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	patientHistoryLimit   = 30
	clinicianReviewLimit  = 100
	recentForInsightLimit = 20
)

// InsightGenerator produces a short narrative summary over recent check-ins.
type InsightGenerator interface {
	Generate(ctx context.Context, checkins []*CheckIn) (string, error)
}

type Service struct {
	repo     Repository
	insights InsightGenerator
	logger   zerolog.Logger
}

// NewService wires the repository and an optional insight generator.
// With a nil generator every listing carries an empty insight.
func NewService(repo Repository, insights InsightGenerator, logger zerolog.Logger) *Service {
	return &Service{repo: repo, insights: insights, logger: logger}
}

// Submit validates and stores a patient's daily check-in.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, c *CheckIn) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.UserID = userID
	return s.repo.Create(ctx, c)
}

// ListForPatient returns the patient's recent check-ins plus a narrative
// insight. The insight is best-effort: on generator failure the check-ins
// are still returned, with an empty insight.
func (s *Service) ListForPatient(ctx context.Context, userID uuid.UUID) ([]*CheckIn, string, error) {
	checkins, err := s.repo.ListByUser(ctx, userID, patientHistoryLimit)
	if err != nil {
		return nil, "", err
	}
	return checkins, s.generateInsight(ctx, checkins), nil
}

// ListForClinician returns recent check-ins across all patients, each
// carrying the patient's display name, plus a narrative insight. A
// non-positive limit falls back to the full review window.
func (s *Service) ListForClinician(ctx context.Context, limit int) ([]*CheckIn, string, error) {
	if limit <= 0 || limit > clinicianReviewLimit {
		limit = clinicianReviewLimit
	}
	checkins, err := s.repo.ListAcrossPatients(ctx, limit)
	if err != nil {
		return nil, "", err
	}
	return checkins, s.generateInsight(ctx, checkins), nil
}

// ListSince exposes the cross-patient window used for risk bucketing.
func (s *Service) ListSince(ctx context.Context, cutoff time.Time) ([]*CheckIn, error) {
	return s.repo.ListSince(ctx, cutoff)
}

func (s *Service) generateInsight(ctx context.Context, checkins []*CheckIn) string {
	if s.insights == nil || len(checkins) == 0 {
		return ""
	}
	recent := checkins
	if len(recent) > recentForInsightLimit {
		recent = recent[:recentForInsightLimit]
	}
	text, err := s.insights.Generate(ctx, recent)
	if err != nil {
		s.logger.Warn().Err(err).Msg("insight generation failed, returning check-ins without narrative")
		return ""
	}
	return text
}
