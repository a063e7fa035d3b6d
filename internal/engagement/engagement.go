// Package engagement reclassifies users by recency of activity. It is the
// separate process that owns engagement_stage; the onboarding engine only
// reads that column.
package engagement

import (
	"context"
	"time"

	cronlib "github.com/robfig/cron/v3"

	"github.com/careloop/coach/internal/logging"
	"github.com/careloop/coach/internal/onboarding"
)

// Thresholds control the stage boundaries in days since last activity.
type Thresholds struct {
	AtRiskAfterDays   int
	InactiveAfterDays int
}

// Classify maps days-since-last-activity to an engagement stage. Users who
// never progressed past a zero score stay new_user regardless of age.
func Classify(p onboarding.Progress, now time.Time, t Thresholds) string {
	if p.CompletionScore == 0 && p.Stage == onboarding.StageNotStarted {
		return onboarding.EngagementNewUser
	}
	idle := int(now.Sub(p.LastUpdatedAt).Hours() / 24)
	switch {
	case idle >= t.InactiveAfterDays:
		return onboarding.EngagementInactive
	case idle >= t.AtRiskAfterDays:
		return onboarding.EngagementAtRisk
	default:
		return onboarding.EngagementActive
	}
}

// Runner sweeps all progress records on a cron schedule.
type Runner struct {
	store      *onboarding.Store
	thresholds Thresholds
	scheduler  *cronlib.Cron
}

// NewRunner creates an engagement runner over the progress store.
func NewRunner(store *onboarding.Store, t Thresholds) *Runner {
	return &Runner{
		store:      store,
		thresholds: t,
		scheduler:  cronlib.New(),
	}
}

// Start registers the sweep under the given cron spec and starts the
// scheduler. Stop with Stop.
func (r *Runner) Start(spec string) error {
	_, err := r.scheduler.AddFunc(spec, func() {
		if err := r.Sweep(context.Background()); err != nil {
			logging.Errorf("engagement sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	r.scheduler.Start()
	logging.Infof("engagement classifier scheduled (%s)", spec)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (r *Runner) Stop() {
	ctx := r.scheduler.Stop()
	<-ctx.Done()
}

// Sweep reclassifies every user once. Also usable as a one-shot from the
// CLI.
func (r *Runner) Sweep(ctx context.Context) error {
	now := time.Now()
	changed := 0

	for _, stage := range []onboarding.Stage{onboarding.StageNotStarted, onboarding.StageInProgress, onboarding.StageCompleted} {
		records, err := r.store.ListByStage(ctx, stage)
		if err != nil {
			return err
		}
		for _, p := range records {
			next := Classify(p, now, r.thresholds)
			if next == p.EngagementStage {
				continue
			}
			if err := r.store.SetEngagementStage(ctx, p.UserID, next); err != nil {
				return err
			}
			changed++
		}
	}

	logging.Infof("engagement sweep done, %d user(s) reclassified", changed)
	return nil
}
