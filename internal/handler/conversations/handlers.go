// Package conversations handles transcript ingestion: summarize, persist,
// create todos, then feed the onboarding engine.
package conversations

import (
	"net/http"

	"github.com/careloop/coach/internal/httputil"
	"github.com/careloop/coach/internal/logging"
	"github.com/careloop/coach/internal/svc"
	"github.com/careloop/coach/internal/types"
)

// IngestConversationHandler runs the post-conversation pipeline for a raw
// transcript. Signal processing failures after a successful summary are
// logged but do not fail the request; that turn's signals are simply lost
// (at-most-once).
func IngestConversationHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := httputil.PathVar(r, "userID")
		if userID == "" {
			httputil.BadRequest(w, "missing user id")
			return
		}
		if svcCtx.Summarizer == nil {
			httputil.ErrorWithCode(w, http.StatusServiceUnavailable, "summarizer not configured")
			return
		}

		var req types.IngestConversationRequest
		if err := httputil.ParseJSON(r, &req); err != nil {
			httputil.BadRequest(w, "invalid request body")
			return
		}
		if len(req.Transcript) == 0 {
			httputil.BadRequest(w, "empty transcript")
			return
		}
		channel := req.Channel
		if channel == "" {
			channel = "voice"
		}

		summary, err := svcCtx.Summarizer.Summarize(ctx, req.UserName, req.Transcript)
		if err != nil {
			logging.Errorf("summarize conversation for %s: %v", userID, err)
			httputil.InternalError(w, "failed to summarize conversation")
			return
		}

		convID, err := svcCtx.Conversations.Add(ctx, userID, channel, summary)
		if err != nil {
			logging.Errorf("store conversation for %s: %v", userID, err)
			httputil.InternalError(w, "failed to store conversation")
			return
		}

		todosCreated := 0
		if len(summary.Todos) > 0 {
			todosCreated, err = svcCtx.Todos.CreateFromExtraction(ctx, userID, summary.Todos)
			if err != nil {
				logging.Errorf("create todos for %s: %v", userID, err)
			}
		}

		updated, score, err := svcCtx.Engine.ProcessConversationSignals(ctx, userID, summary)
		if err != nil {
			logging.Errorf("process signals for %s: %v", userID, err)
		}

		httputil.OkJSON(w, types.IngestConversationResponse{
			ConversationID: convID,
			Summary:        summary.SummaryText,
			TodosCreated:   todosCreated,
			Updated:        updated,
			NewScore:       score,
		})
	}
}

// ListConversationsHandler returns stored conversation records.
func ListConversationsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := httputil.PathVar(r, "userID")
		if userID == "" {
			httputil.BadRequest(w, "missing user id")
			return
		}

		limit := httputil.QueryInt(r, "limit", 50)
		records, err := svcCtx.Conversations.ListForUser(ctx, userID, limit)
		if err != nil {
			logging.Errorf("list conversations for %s: %v", userID, err)
			httputil.InternalError(w, "failed to list conversations")
			return
		}

		httputil.OkJSON(w, types.ListConversationsResponse{Conversations: records})
	}
}
