package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Murugesh1804/revivewell-final/internal/domain/checkin"
	"github.com/Murugesh1804/revivewell-final/internal/domain/meeting"
)

// SliceKey names one independently-refreshable category of dashboard data.
type SliceKey string

const (
	SliceStats        SliceKey = "stats"
	SliceCheckins     SliceKey = "checkins"
	SliceAppointments SliceKey = "appointments"
	SliceMeetings     SliceKey = "meetings"
	SliceInsight      SliceKey = "insight"
)

// defaultSlices are refreshed by Refresh. The insight slice is excluded:
// narrative generation is expensive and must be requested explicitly.
var defaultSlices = []SliceKey{SliceStats, SliceCheckins, SliceAppointments, SliceMeetings}

// SliceState is the per-slice fetch state machine.
type SliceState int

const (
	StateIdle SliceState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s SliceState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

type sliceStatus struct {
	state SliceState
	err   error
	// issued is the newest issue-sequence token handed out for this slice;
	// a fetch commits only if it still holds the newest token, so a stale
	// response can never overwrite a newer committed value.
	issued uint64
}

// Store holds the latest committed value of every slice and folds fetch
// results into fresh snapshots. A failed fetch keeps the slice's last-good
// value and marks the slice degraded; it never blanks other slices.
type Store struct {
	source Source
	logger zerolog.Logger
	clock  func() time.Time

	mu       sync.Mutex
	statuses map[SliceKey]*sliceStatus

	stats        *Stats
	checkins     []*checkin.CheckIn
	appointments []*Appointment
	meetings     []*meeting.Meeting
	insight      string

	version  uint64
	snapshot *Snapshot
}

func NewStore(source Source, logger zerolog.Logger, clock func() time.Time) *Store {
	if clock == nil {
		clock = time.Now
	}
	s := &Store{
		source:   source,
		logger:   logger,
		clock:    clock,
		statuses: make(map[SliceKey]*sliceStatus),
	}
	for _, key := range append(append([]SliceKey{}, defaultSlices...), SliceInsight) {
		s.statuses[key] = &sliceStatus{}
	}
	s.snapshot = s.buildLocked()
	return s
}

// Refresh refetches every slice except the narrative insight, each
// independently. Per-slice failures are absorbed into the slice state; the
// only returned error is context cancellation.
func (s *Store) Refresh(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, key := range defaultSlices {
		wg.Add(1)
		go func(key SliceKey) {
			defer wg.Done()
			s.RefreshSlice(ctx, key)
		}(key)
	}
	wg.Wait()
	return ctx.Err()
}

// RefreshInsight explicitly refetches the narrative insight slice.
func (s *Store) RefreshInsight(ctx context.Context) {
	s.RefreshSlice(ctx, SliceInsight)
}

// RefreshSlice refetches one slice synchronously. A newer refresh issued
// for the same slice while this one is in flight supersedes it: the stale
// result is discarded on arrival. A cancelled context also discards the
// result.
func (s *Store) RefreshSlice(ctx context.Context, key SliceKey) {
	s.mu.Lock()
	st, ok := s.statuses[key]
	if !ok {
		s.mu.Unlock()
		return
	}
	st.issued++
	token := st.issued
	st.state = StateLoading
	s.mu.Unlock()

	commit, err := s.fetch(ctx, key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != st.issued {
		s.logger.Debug().Str("slice", string(key)).Msg("discarding superseded fetch result")
		return
	}
	if ctx.Err() != nil {
		s.logger.Debug().Str("slice", string(key)).Msg("discarding fetch result after cancellation")
		st.state = StateFailed
		st.err = ctx.Err()
		return
	}
	if err != nil {
		// Last-good value stays committed; only the state degrades.
		st.state = StateFailed
		st.err = err
		s.logger.Warn().Err(err).Str("slice", string(key)).Msg("slice refresh failed, keeping last-good value")
		s.commitLocked()
		return
	}

	commit()
	st.state = StateReady
	st.err = nil
	s.commitLocked()
}

// fetch runs outside the lock and returns a closure that applies the
// fetched value under the lock.
func (s *Store) fetch(ctx context.Context, key SliceKey) (func(), error) {
	switch key {
	case SliceStats:
		stats, err := s.source.FetchStats(ctx)
		if err != nil {
			return nil, err
		}
		return func() { s.stats = stats }, nil

	case SliceCheckins:
		checkins, _, err := s.source.FetchCheckins(ctx, false)
		if err != nil {
			return nil, err
		}
		return func() { s.checkins = checkins }, nil

	case SliceAppointments:
		appts, err := s.source.FetchAppointments(ctx)
		if err != nil {
			return nil, err
		}
		return func() { s.appointments = appts }, nil

	case SliceMeetings:
		meetings, err := s.source.FetchMeetings(ctx)
		if err != nil {
			return nil, err
		}
		return func() { s.meetings = meetings }, nil

	default: // SliceInsight
		checkins, insight, err := s.source.FetchCheckins(ctx, true)
		if err != nil {
			return nil, err
		}
		return func() {
			s.insight = insight
			// The insight fetch carries the feed too; fold it in rather
			// than discard a fresher value.
			s.checkins = checkins
		}, nil
	}
}

// commitLocked rebuilds the snapshot from committed slice values. Callers
// hold the lock.
func (s *Store) commitLocked() {
	s.version++
	s.snapshot = s.buildLocked()
}

// Snapshot returns the latest committed snapshot. Never nil, never a
// half-updated intermediate state.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// State reports a slice's fetch state and last error.
func (s *Store) State(key SliceKey) (SliceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.statuses[key]
	if !ok {
		return StateIdle, nil
	}
	return st.state, st.err
}
