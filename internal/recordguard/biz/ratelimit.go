package biz

import (
	"context"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/recordguard/internal/model"
	"github.com/kart-io/recordguard/internal/recordguard/store"
	"github.com/kart-io/recordguard/pkg/observability/metrics"
)

// Default rate-limit caps for record generation actions.
const (
	DefaultHourLimit = 10
	DefaultDayLimit  = 50
)

var rateLimitDegraded = metrics.NewCounter(
	"recordguard_ratelimit_degraded_total",
	"Rate-limit checks that failed open because counting was unavailable",
)

func init() {
	metrics.Register(rateLimitDegraded)
}

// RateDecision is the result of one rate-limit check.
type RateDecision struct {
	Outcome   Outcome
	HourCount int64
	DayCount  int64

	// Degraded is true when counting failed and the check allowed by
	// default instead of evaluating the caps.
	Degraded bool
}

// RateLimitService enforces trailing-window caps on sensitive actions by
// counting prior audit entries. The check is advisory: it does not record
// the action itself, the audit trail does once the action completes.
type RateLimitService struct {
	store     store.Factory
	hourLimit int64
	dayLimit  int64

	// now is injectable for tests.
	now func() time.Time
}

// NewRateLimitService creates a RateLimitService with the given caps.
// Non-positive caps fall back to the defaults.
func NewRateLimitService(store store.Factory, hourLimit, dayLimit int64) *RateLimitService {
	if hourLimit <= 0 {
		hourLimit = DefaultHourLimit
	}
	if dayLimit <= 0 {
		dayLimit = DefaultDayLimit
	}
	return &RateLimitService{
		store:     store,
		hourLimit: hourLimit,
		dayLimit:  dayLimit,
		now:       time.Now,
	}
}

// CheckAndCount evaluates both trailing windows for the staff member and
// action. Either window at or over its cap throttles. If counting is
// unavailable the limiter fails open: the action is allowed, the Degraded
// flag is set, and the failure is recorded as an operational event.
func (s *RateLimitService) CheckAndCount(ctx context.Context, staffID uint64, action model.Action) RateDecision {
	now := s.now()

	hourCount, err := s.store.Audit().CountActionsSince(ctx, staffID, action, now.Add(-time.Hour))
	if err != nil {
		return s.degrade(staffID, action, err)
	}

	dayCount, err := s.store.Audit().CountActionsSince(ctx, staffID, action, now.Add(-24*time.Hour))
	if err != nil {
		return s.degrade(staffID, action, err)
	}

	if hourCount >= s.hourLimit || dayCount >= s.dayLimit {
		return RateDecision{Outcome: Throttled, HourCount: hourCount, DayCount: dayCount}
	}
	return RateDecision{Outcome: Allow, HourCount: hourCount, DayCount: dayCount}
}

func (s *RateLimitService) degrade(staffID uint64, action model.Action, err error) RateDecision {
	rateLimitDegraded.Inc()
	logger.Errorw("rate-limit counting unavailable, allowing by default",
		"staff_id", staffID, "action", action, "error", err)
	return RateDecision{Outcome: Allow, Degraded: true}
}
