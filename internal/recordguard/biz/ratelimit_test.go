package biz

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kart-io/recordguard/internal/model"
)

// seedAction inserts one audit entry for the action with an explicit
// timestamp, so window behavior can be tested without sleeping.
func seedAction(t *testing.T, db *gorm.DB, staffID uint64, action model.Action, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&model.AuditEntry{
		ID:        ulid.Make().String(),
		StaffID:   staffID,
		PatientID: 1,
		Action:    action,
		Outcome:   model.OutcomeCompleted,
		CreatedAt: at.UnixMilli(),
	}).Error)
}

func TestCheckAndCount_UnderCaps(t *testing.T) {
	factory, db := newTestFactory(t)
	svc := NewRateLimitService(factory, 10, 50)
	now := time.Now()
	svc.now = func() time.Time { return now }

	for i := 0; i < 9; i++ {
		seedAction(t, db, 5, model.ActionGenerate, now.Add(-time.Duration(i)*time.Minute))
	}

	d := svc.CheckAndCount(context.Background(), 5, model.ActionGenerate)
	assert.Equal(t, Allow, d.Outcome)
	assert.Equal(t, int64(9), d.HourCount)
	assert.Equal(t, int64(9), d.DayCount)
	assert.False(t, d.Degraded)
}

func TestCheckAndCount_HourCapThrottles(t *testing.T) {
	factory, db := newTestFactory(t)
	svc := NewRateLimitService(factory, 10, 50)
	now := time.Now()
	svc.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		seedAction(t, db, 5, model.ActionGenerate, now.Add(-time.Duration(i+1)*time.Minute))
	}

	d := svc.CheckAndCount(context.Background(), 5, model.ActionGenerate)
	assert.Equal(t, Throttled, d.Outcome)
	assert.Equal(t, int64(10), d.HourCount)
}

// Once the window rolls past an hour from the oldest action, the same
// requester is allowed again.
func TestCheckAndCount_WindowRollsOver(t *testing.T) {
	factory, db := newTestFactory(t)
	svc := NewRateLimitService(factory, 10, 50)
	first := time.Now().Add(-2 * time.Hour)

	for i := 0; i < 10; i++ {
		seedAction(t, db, 5, model.ActionGenerate, first.Add(time.Duration(i)*time.Minute))
	}

	// Evaluated just after the tenth action: all ten are inside the hour.
	svc.now = func() time.Time { return first.Add(10 * time.Minute) }
	d := svc.CheckAndCount(context.Background(), 5, model.ActionGenerate)
	assert.Equal(t, Throttled, d.Outcome)

	// An hour past the first action, some have aged out of the window.
	svc.now = func() time.Time { return first.Add(time.Hour + 5*time.Minute) }
	d = svc.CheckAndCount(context.Background(), 5, model.ActionGenerate)
	assert.Equal(t, Allow, d.Outcome)
	assert.Less(t, d.HourCount, int64(10))
}

func TestCheckAndCount_DayCapThrottles(t *testing.T) {
	factory, db := newTestFactory(t)
	svc := NewRateLimitService(factory, 10, 50)
	now := time.Now()
	svc.now = func() time.Time { return now }

	// Spread 50 actions over the day, none inside the last hour.
	for i := 0; i < 50; i++ {
		seedAction(t, db, 5, model.ActionGenerate, now.Add(-2*time.Hour-time.Duration(i)*time.Minute))
	}

	d := svc.CheckAndCount(context.Background(), 5, model.ActionGenerate)
	assert.Equal(t, Throttled, d.Outcome)
	assert.Equal(t, int64(0), d.HourCount)
	assert.Equal(t, int64(50), d.DayCount)
}

func TestCheckAndCount_ScopedToStaffAndAction(t *testing.T) {
	factory, db := newTestFactory(t)
	svc := NewRateLimitService(factory, 10, 50)
	now := time.Now()
	svc.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		seedAction(t, db, 99, model.ActionGenerate, now.Add(-time.Minute))
		seedAction(t, db, 5, model.ActionView, now.Add(-time.Minute))
	}

	// Other staff and other actions do not count against staff 5's
	// generate budget.
	d := svc.CheckAndCount(context.Background(), 5, model.ActionGenerate)
	assert.Equal(t, Allow, d.Outcome)
	assert.Equal(t, int64(0), d.HourCount)
}

// When counting is unavailable the limiter allows and flags the degradation
// instead of blocking traffic.
func TestCheckAndCount_FailsOpen(t *testing.T) {
	svc := NewRateLimitService(brokenFactory(t), 10, 50)

	d := svc.CheckAndCount(context.Background(), 5, model.ActionGenerate)
	assert.Equal(t, Allow, d.Outcome)
	assert.True(t, d.Degraded)
}

func TestNewRateLimitService_DefaultCaps(t *testing.T) {
	factory, _ := newTestFactory(t)
	svc := NewRateLimitService(factory, 0, -1)
	assert.Equal(t, int64(DefaultHourLimit), svc.hourLimit)
	assert.Equal(t, int64(DefaultDayLimit), svc.dayLimit)
}
