// Package todos exposes action items over HTTP.
package todos

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/careloop/coach/internal/httputil"
	"github.com/careloop/coach/internal/logging"
	"github.com/careloop/coach/internal/svc"
	"github.com/careloop/coach/internal/types"
)

// ListTodosHandler returns a user's todos, newest first.
func ListTodosHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := httputil.PathVar(r, "userID")
		if userID == "" {
			httputil.BadRequest(w, "missing user id")
			return
		}

		items, err := svcCtx.Todos.ListForUser(ctx, userID)
		if err != nil {
			logging.Errorf("list todos for %s: %v", userID, err)
			httputil.InternalError(w, "failed to list todos")
			return
		}

		httputil.OkJSON(w, types.ListTodosResponse{Todos: items})
	}
}

// CheckInTodoHandler increments a todo's progress counter.
func CheckInTodoHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		todoID := httputil.PathVar(r, "todoID")
		if todoID == "" {
			httputil.BadRequest(w, "missing todo id")
			return
		}

		todo, err := svcCtx.Todos.CheckIn(ctx, todoID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				httputil.NotFound(w, "todo not found or already completed")
				return
			}
			logging.Errorf("check in todo %s: %v", todoID, err)
			httputil.InternalError(w, "failed to check in")
			return
		}

		httputil.OkJSON(w, types.TodoResponse{Todo: todo})
	}
}
