// Package svc wires shared dependencies for handlers and background jobs.
package svc

import (
	"github.com/careloop/coach/internal/config"
	"github.com/careloop/coach/internal/conversations"
	"github.com/careloop/coach/internal/db"
	"github.com/careloop/coach/internal/engagement"
	"github.com/careloop/coach/internal/logging"
	"github.com/careloop/coach/internal/onboarding"
	"github.com/careloop/coach/internal/onboarding/briefing"
	"github.com/careloop/coach/internal/summarizer"
	"github.com/careloop/coach/internal/todos"
)

// ServiceContext is the single owner of the database connection and the
// stores built on top of it.
type ServiceContext struct {
	Config config.Config

	Store         *db.Store
	Progress      *onboarding.Store
	Conversations *conversations.Store
	Todos         *todos.Store

	Engine     *onboarding.Engine
	Summarizer summarizer.Summarizer // nil when disabled
	Engagement *engagement.Runner
}

// NewServiceContext opens the database and builds all stores and the
// engine. Returns nil on database failure (callers check and exit).
func NewServiceContext(c config.Config) *ServiceContext {
	store, err := db.Open(c.Database.SQLitePath)
	if err != nil {
		logging.Errorf("failed to open database: %v", err)
		return nil
	}

	progress := onboarding.NewStore(store.DB())

	svcCtx := &ServiceContext{
		Config:        c,
		Store:         store,
		Progress:      progress,
		Conversations: conversations.NewStore(store.DB()),
		Todos:         todos.NewStore(store.DB()),
		Engine:        onboarding.NewEngine(progress, briefing.Assemble),
		Engagement: engagement.NewRunner(progress, engagement.Thresholds{
			AtRiskAfterDays:   c.Engagement.AtRiskAfterDays,
			InactiveAfterDays: c.Engagement.InactiveAfterDays,
		}),
	}

	if c.Summarizer.Enabled && c.Summarizer.APIKey != "" {
		svcCtx.Summarizer = summarizer.NewOpenAI(c.Summarizer.APIKey, c.Summarizer.Model)
	} else {
		logging.Warnf("summarizer disabled; transcript ingestion will reject requests")
	}

	return svcCtx
}

// Close releases the database connection.
func (s *ServiceContext) Close() {
	if s.Store != nil {
		_ = s.Store.Close()
	}
}
