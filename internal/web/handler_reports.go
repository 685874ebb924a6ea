package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/Belkadi-hamza/Inventory-Management-System/internal/auth"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/report"
	"github.com/Belkadi-hamza/Inventory-Management-System/internal/service"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	data, err := s.inventory.Dashboard(r.Context(), sess.UserID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to build dashboard")
		s.logger.Error("dashboard failed", "user_id", sess.UserID, "error", err)
		return
	}
	s.respondJSON(w, http.StatusOK, data)
}

// weekStartParam parses the optional start=YYYY-MM-DD query parameter.
// Absent, the week containing today is used, anchored on Sunday.
func weekStartParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("start")
	if raw == "" {
		now := time.Now().UTC()
		return now.AddDate(0, 0, -int(now.Weekday())), nil
	}
	return time.Parse("2006-01-02", raw)
}

type weeklyReportResponse struct {
	Summary      report.WeeklySummary  `json:"summary"`
	Transactions []transactionResponse `json:"transactions"`
}

func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	weekStart, err := weekStartParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, codeValidation, "start must be a YYYY-MM-DD date")
		return
	}

	data, err := s.inventory.WeeklyReport(r.Context(), sess.UserID, weekStart)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to build weekly report")
		s.logger.Error("weekly report failed", "user_id", sess.UserID, "error", err)
		return
	}
	s.respondJSON(w, http.StatusOK, weeklyReportResponse{
		Summary:      data.Summary,
		Transactions: toTransactionResponses(data.Transactions),
	})
}

func (s *Server) handleWeeklyExport(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	weekStart, err := weekStartParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, codeValidation, "start must be a YYYY-MM-DD date")
		return
	}

	format := service.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = service.ExportJSON
	}
	if format != service.ExportJSON && format != service.ExportPages {
		s.respondError(w, http.StatusBadRequest, codeValidation, "format must be json or pages")
		return
	}

	data, contentType, err := s.inventory.ExportWeekly(r.Context(), sess.UserID, weekStart, format)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to export weekly report")
		s.logger.Error("weekly export failed", "user_id", sess.UserID, "error", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("write export failed", "user_id", sess.UserID, "error", err)
	}
}

func (s *Server) handleWeeklyInsights(w http.ResponseWriter, r *http.Request, sess *auth.Session) {
	weekStart, err := weekStartParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, codeValidation, "start must be a YYYY-MM-DD date")
		return
	}

	text, err := s.inventory.WeeklyInsights(r.Context(), sess.UserID, weekStart)
	switch {
	case errors.Is(err, service.ErrInsightsDisabled):
		s.respondError(w, http.StatusServiceUnavailable, codeUnavailable, "insights backend is not configured")
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, codeInternal, "failed to generate insights")
		s.logger.Error("weekly insights failed", "user_id", sess.UserID, "error", err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"insights": text})
}
