package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Murugesh1804/revivewell-final/internal/domain/checkin"
	"github.com/Murugesh1804/revivewell-final/internal/domain/meeting"
)

const (
	fetchTimeout  = 10 * time.Second
	fetchAttempts = 3
	fetchBackoff  = 250 * time.Millisecond
)

// Source fetches the collaborator data the engine aggregates. An empty
// collection is a valid result, not an error.
type Source interface {
	FetchStats(ctx context.Context) (*Stats, error)
	// FetchCheckins returns the check-in feed and, when withInsight is set,
	// the narrative insight text. The default refresh path passes false so
	// routine refreshes never trigger narrative generation implicitly.
	FetchCheckins(ctx context.Context, withInsight bool) ([]*checkin.CheckIn, string, error)
	FetchAppointments(ctx context.Context) ([]*Appointment, error)
	FetchMeetings(ctx context.Context) ([]*meeting.Meeting, error)
}

// HTTPSource talks to the collaborator REST API with a per-request
// timeout and bounded retry with backoff on transient failure. 4xx is
// terminal: retrying a rejected request cannot help.
type HTTPSource struct {
	session Session
	httpc   *http.Client
	norm    *Normalizer
	logger  zerolog.Logger
}

func NewHTTPSource(session Session, logger zerolog.Logger) *HTTPSource {
	return &HTTPSource{
		session: session,
		httpc:   &http.Client{Timeout: fetchTimeout},
		norm:    NewNormalizer(logger),
		logger:  logger,
	}
}

func (s *HTTPSource) FetchStats(ctx context.Context) (*Stats, error) {
	body, err := s.getJSON(ctx, "/api/dashboard-stats")
	if err != nil {
		return nil, err
	}
	return s.norm.Stats(body)
}

func (s *HTTPSource) FetchCheckins(ctx context.Context, withInsight bool) ([]*checkin.CheckIn, string, error) {
	body, err := s.getJSON(ctx, "/api/daily-checkins")
	if err != nil {
		return nil, "", err
	}

	var payload struct {
		Checkins []json.RawMessage `json:"checkins"`
		Insights string            `json:"llm_insights"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, "", fmt.Errorf("decode check-in payload: %w", err)
	}

	insight := ""
	if withInsight {
		insight = payload.Insights
	}
	return s.norm.CheckIns(payload.Checkins), insight, nil
}

func (s *HTTPSource) FetchAppointments(ctx context.Context) ([]*Appointment, error) {
	body, err := s.getJSON(ctx, "/api/appointments")
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode appointment payload: %w", err)
	}
	return s.norm.Appointments(raw), nil
}

func (s *HTTPSource) FetchMeetings(ctx context.Context) ([]*meeting.Meeting, error) {
	body, err := s.getJSON(ctx, "/api/aa-meetings")
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode meeting payload: %w", err)
	}
	return s.norm.Meetings(raw), nil
}

func (s *HTTPSource) getJSON(ctx context.Context, path string) ([]byte, error) {
	url := strings.TrimRight(s.session.BaseURL, "/") + path

	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			backoff := fetchBackoff << (attempt - 1)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, retryable, err := s.once(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
		s.logger.Warn().Err(err).Str("url", url).Int("attempt", attempt+1).Msg("fetch failed, retrying")
	}
	return nil, fmt.Errorf("fetch failed after %d attempts: %w", fetchAttempts, lastErr)
}

func (s *HTTPSource) once(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	if s.session.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+s.session.Token)
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}
	return body, false, nil
}
