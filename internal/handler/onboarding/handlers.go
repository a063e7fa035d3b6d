// Package onboarding exposes the progress engine over HTTP.
package onboarding

import (
	"errors"
	"net/http"

	"github.com/careloop/coach/internal/httputil"
	"github.com/careloop/coach/internal/logging"
	"github.com/careloop/coach/internal/onboarding"
	"github.com/careloop/coach/internal/svc"
	"github.com/careloop/coach/internal/types"
)

// ProcessSignalsHandler folds a pre-summarized conversation into the
// user's progress record. Called once per completed conversation.
func ProcessSignalsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := httputil.PathVar(r, "userID")
		if userID == "" {
			httputil.BadRequest(w, "missing user id")
			return
		}

		var req types.ProcessSignalsRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, "invalid request body")
			return
		}

		updated, score, err := svcCtx.Engine.ProcessConversationSignals(ctx, userID, req.Summary)
		if err != nil {
			if errors.Is(err, onboarding.ErrConflict) {
				httputil.Conflict(w, "progress record busy, retry")
				return
			}
			logging.Errorf("process signals for %s: %v", userID, err)
			httputil.InternalError(w, "failed to process signals")
			return
		}

		httputil.OkJSON(w, types.ProcessSignalsResponse{Updated: updated, NewScore: score})
	}
}

// GetCallContextHandler builds the briefing for the next conversation.
// The caller posts whatever profile fields it has; recent summaries and
// active todos are fetched server-side.
func GetCallContextHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := httputil.PathVar(r, "userID")
		if userID == "" {
			httputil.BadRequest(w, "missing user id")
			return
		}

		var req types.CallContextRequest
		if r.ContentLength > 0 {
			if err := httputil.ParseJSON(r, &req); err != nil {
				httputil.BadRequest(w, "invalid request body")
				return
			}
		}

		recent, err := svcCtx.Conversations.RecentSummaries(ctx, userID, 7, 3)
		if err != nil {
			logging.Errorf("recent summaries for %s: %v", userID, err)
			httputil.InternalError(w, "failed to load conversation history")
			return
		}
		active, err := svcCtx.Todos.ActiveForUser(ctx, userID)
		if err != nil {
			logging.Errorf("active todos for %s: %v", userID, err)
			httputil.InternalError(w, "failed to load action items")
			return
		}

		result, err := svcCtx.Engine.GetCallContext(ctx, userID, onboarding.Aux{
			Profile:         req.Profile,
			RecentSummaries: recent,
			ActiveTodos:     active,
		})
		if err != nil {
			logging.Errorf("call context for %s: %v", userID, err)
			httputil.InternalError(w, "failed to build call context")
			return
		}

		httputil.OkJSON(w, types.CallContextResponse{
			Mode:            result.Mode,
			ContextText:     result.ContextText,
			CompletionScore: result.CompletionScore,
		})
	}
}

// GetProgressHandler returns the raw progress record plus missing areas.
func GetProgressHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := httputil.PathVar(r, "userID")
		if userID == "" {
			httputil.BadRequest(w, "missing user id")
			return
		}

		p, err := svcCtx.Engine.Progress(ctx, userID)
		if err != nil {
			logging.Errorf("get progress for %s: %v", userID, err)
			httputil.InternalError(w, "failed to load progress")
			return
		}
		if p == nil {
			httputil.NotFound(w, "no progress record for user")
			return
		}

		httputil.OkJSON(w, types.ProgressResponse{
			Progress:     p,
			MissingAreas: onboarding.MissingAreas(p),
		})
	}
}
