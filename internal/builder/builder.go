package builder

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/rainyday-config/internal/domain"
	"github.com/couchcryptid/rainyday-config/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Result is one successful submission: the record and its JSON rendering.
type Result struct {
	Record domain.Record
	JSON   []byte
}

// Service turns submitted forms into configuration records. It keeps no
// state between submissions apart from metrics.
type Service struct {
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	ready   atomic.Bool
}

// New creates a Service. A nil clock uses real time.
func New(logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s := &Service{logger: logger, metrics: metrics, clock: clock}

	n := len(domain.Schema())
	metrics.SchemaFields.Set(float64(n))
	s.ready.Store(n > 0)
	return s
}

// CheckReadiness returns nil once the form schema is loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("form schema not loaded")
	}
	return nil
}

// Submit builds and serializes the record for form. A missing required
// field yields an error wrapping domain.ErrMissingRequiredField.
func (s *Service) Submit(ctx context.Context, form *domain.FormState) (Result, error) {
	start := s.clock.Now()

	rec, err := domain.Build(form)
	if err != nil {
		var mfe *domain.MissingFieldsError
		if errors.As(err, &mfe) {
			s.metrics.Submissions.WithLabelValues("missing").Inc()
			for _, k := range mfe.Missing {
				s.metrics.MissingFields.WithLabelValues(k).Inc()
			}
			s.logger.InfoContext(ctx, "submission rejected", "missing", mfe.Missing)
			return Result{}, err
		}
		s.metrics.Submissions.WithLabelValues("error").Inc()
		return Result{}, err
	}

	data, err := rec.JSON()
	if err != nil {
		s.metrics.Submissions.WithLabelValues("error").Inc()
		s.logger.ErrorContext(ctx, "serialize record failed", "error", err)
		return Result{}, err
	}

	s.metrics.Submissions.WithLabelValues("success").Inc()
	s.metrics.BuildDuration.Observe(s.clock.Since(start).Seconds())
	s.logger.InfoContext(ctx, "configuration generated",
		"scenario", rec[domain.KeyScenarioName],
		"domain_type", rec[domain.KeyDomainType],
		"point_area", rec[domain.KeyPointArea],
		"keys", len(rec),
	)
	return Result{Record: rec, JSON: data}, nil
}
