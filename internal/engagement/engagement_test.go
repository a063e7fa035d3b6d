package engagement

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/careloop/coach/internal/db"
	"github.com/careloop/coach/internal/db/migrations"
	"github.com/careloop/coach/internal/logging"
	"github.com/careloop/coach/internal/onboarding"
)

var testThresholds = Thresholds{AtRiskAfterDays: 7, InactiveAfterDays: 21}

func TestClassify(t *testing.T) {
	now := time.Now()
	daysAgo := func(d int) time.Time { return now.AddDate(0, 0, -d) }

	tests := []struct {
		name string
		p    onboarding.Progress
		want string
	}{
		{
			name: "never progressed stays new_user regardless of age",
			p:    onboarding.Progress{Stage: onboarding.StageNotStarted, LastUpdatedAt: daysAgo(60)},
			want: onboarding.EngagementNewUser,
		},
		{
			name: "recent activity is active",
			p:    onboarding.Progress{Stage: onboarding.StageInProgress, CompletionScore: 30, LastUpdatedAt: daysAgo(2)},
			want: onboarding.EngagementActive,
		},
		{
			name: "a week idle is at risk",
			p:    onboarding.Progress{Stage: onboarding.StageInProgress, CompletionScore: 30, LastUpdatedAt: daysAgo(8)},
			want: onboarding.EngagementAtRisk,
		},
		{
			name: "three weeks idle is inactive",
			p:    onboarding.Progress{Stage: onboarding.StageCompleted, CompletionScore: 90, LastUpdatedAt: daysAgo(25)},
			want: onboarding.EngagementInactive,
		},
		{
			name: "boundary day lands in the later stage",
			p:    onboarding.Progress{Stage: onboarding.StageInProgress, CompletionScore: 30, LastUpdatedAt: daysAgo(7)},
			want: onboarding.EngagementAtRisk,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.p, now, testThresholds); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSweepReclassifies(t *testing.T) {
	logging.Disable()
	migrations.QuietMode = true

	store, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	defer store.Close()

	progress := onboarding.NewStore(store.DB())
	ctx := context.Background()

	// An in-progress user whose last activity is stale.
	if _, err := progress.GetOrCreate(ctx, "stale-user"); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	score := 30
	stage := onboarding.StageInProgress
	if err := progress.Update(ctx, "stale-user", &onboarding.Patch{
		Stage:           &stage,
		CompletionScore: &score,
	}, -1); err != nil {
		t.Fatalf("Update: %v", err)
	}
	// Backdate last_updated_at past the at-risk threshold.
	_, err = store.DB().ExecContext(ctx,
		`UPDATE onboarding_progress SET last_updated_at = ? WHERE user_id = ?`,
		time.Now().AddDate(0, 0, -10).Unix(), "stale-user")
	if err != nil {
		t.Fatalf("backdate: %v", err)
	}

	r := NewRunner(progress, testThresholds)
	if err := r.Sweep(ctx); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	p, err := progress.Get(ctx, "stale-user")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.EngagementStage != onboarding.EngagementAtRisk {
		t.Errorf("engagement = %s, want %s", p.EngagementStage, onboarding.EngagementAtRisk)
	}
}
