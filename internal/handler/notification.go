package handler

import (
	"net/http"
	"strconv"

	"github.com/travelsaas/travel-warnings/internal/domain"
)

// NotificationPage is the paged response for the notification history.
type NotificationPage struct {
	Data       []domain.Notification `json:"data"`
	Pagination Pagination            `json:"pagination"`
}

// Pagination echoes the effective page parameters and the total row count.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ListNotifications handles GET /api/v1/notifications?email=.
// With ?days=N the last N days are returned unpaged; otherwise the history
// is paged via ?page= and ?limit=.
func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeBadRequest(w, "email query parameter is required")
		return
	}

	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days < 1 {
			writeBadRequest(w, "days must be a positive integer")
			return
		}
		records, err := s.notifications.ListRecentByEmail(r.Context(), email, days)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
		return
	}

	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))
	records, total, err := s.notifications.ListByEmail(r.Context(), email, params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NotificationPage{
		Data: records,
		Pagination: Pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int(total),
		},
	})
}

// queryInt parses an optional integer query parameter; absent or malformed
// values yield nil so defaults apply.
func queryInt(r *http.Request, name string) *int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
