package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/travelsaas/travel-warnings/internal/domain"
	"github.com/travelsaas/travel-warnings/internal/mail"
	"github.com/travelsaas/travel-warnings/internal/metrics"
	"github.com/travelsaas/travel-warnings/internal/repo"
)

// severityColors maps a severity to the header color of its alert email.
var severityColors = map[domain.Severity]string{
	domain.SeverityCritical: "#dc3545",
	domain.SeveritySevere:   "#fd7e14",
	domain.SeverityModerate: "#ffc107",
	domain.SeverityMinor:    "#17a2b8",
	domain.SeverityNone:     "#6c757d",
}

// DispatcherService sends one alert email per (warning version, trip) pair
// and records every attempt in the notification store. Deduplication is
// two-layered: a read-side check for the common case, and the store's
// uniqueness constraint for the racing case.
type DispatcherService struct {
	notifications repo.NotificationRepo
	sender        mail.Sender
	content       *ContentService
	log           *slog.Logger

	now func() time.Time
}

// NewDispatcherService constructs a DispatcherService.
func NewDispatcherService(notifications repo.NotificationRepo, sender mail.Sender, content *ContentService, log *slog.Logger) *DispatcherService {
	return &DispatcherService{
		notifications: notifications,
		sender:        sender,
		content:       content,
		log:           log,
		now:           time.Now,
	}
}

// SendAlert emails the trip owner about the given warning unless this exact
// warning version was already delivered for this trip. Returns true when a
// new alert went out. A send failure is recorded (Successful=false) and
// returned; the failed version stays eligible for the next tick.
func (s *DispatcherService) SendAlert(ctx context.Context, w domain.Warning, t domain.Trip) (bool, error) {
	sent, err := s.notifications.ExistsSuccessful(ctx, t.ID, w.ContentID, w.LastModified)
	if err != nil {
		return false, fmt.Errorf("service.DispatcherService.SendAlert: %w", err)
	}
	if sent {
		metrics.AlertsDeduplicated.Inc()
		return false, nil
	}

	subject := fmt.Sprintf("[%s] Travel Alert: %s - %s",
		strings.ToUpper(w.Severity().DisplayName()), w.CountryName, t.Name)
	sendErr := s.sender.Send(ctx, t.Email, subject, s.renderBody(w, t))

	record := domain.Notification{
		TripID:              t.ID,
		Email:               t.Email,
		WarningContentID:    w.ContentID,
		CountryCode:         w.CountryCode,
		CountryName:         w.CountryName,
		Severity:            w.Severity(),
		SentAt:              s.now(),
		Successful:          sendErr == nil,
		WarningLastModified: w.LastModified,
	}
	if sendErr != nil {
		record.ErrorMessage = sendErr.Error()
	}

	if _, err := s.notifications.Append(ctx, record); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// A concurrent tick recorded this version first.
			metrics.AlertsDeduplicated.Inc()
			return false, nil
		}
		return false, fmt.Errorf("service.DispatcherService.SendAlert: %w", err)
	}

	if sendErr != nil {
		metrics.AlertsFailed.Inc()
		s.log.ErrorContext(ctx, "alert send failed",
			slog.String("email", t.Email),
			slog.String("content_id", w.ContentID),
			slog.String("error", sendErr.Error()))
		return false, fmt.Errorf("service.DispatcherService.SendAlert: %w", sendErr)
	}

	metrics.AlertsSent.Inc()
	s.log.InfoContext(ctx, "alert sent",
		slog.String("email", t.Email),
		slog.String("content_id", w.ContentID),
		slog.String("country_code", w.CountryCode),
		slog.String("severity", w.Severity().String()))
	return true, nil
}

// renderBody builds the HTML alert email.
func (s *DispatcherService) renderBody(w domain.Warning, t domain.Trip) string {
	sev := w.Severity()
	color := severityColors[sev]

	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset='utf-8'><style>")
	b.WriteString("body{font-family:Arial,sans-serif;color:#333;margin:0;padding:0}")
	b.WriteString(".container{max-width:600px;margin:0 auto;padding:20px}")
	fmt.Fprintf(&b, ".header{background-color:%s;color:#fff;padding:20px;text-align:center}", color)
	b.WriteString(".section{margin:20px 0}")
	b.WriteString(".section-title{font-weight:bold;font-size:16px;margin-bottom:8px}")
	b.WriteString(".info-box{background-color:#f8f9fa;border-left:4px solid " + color + ";padding:12px}")
	b.WriteString(".footer{font-size:12px;color:#6c757d;border-top:1px solid #dee2e6;padding-top:12px;margin-top:24px}")
	b.WriteString("</style></head><body><div class='container'>")

	fmt.Fprintf(&b, "<div class='header'><h1>%s Travel Warning</h1><h2>%s</h2></div>", sev.DisplayName(), w.CountryName)

	b.WriteString("<div class='section'><div class='section-title'>Your Trip:</div><div class='info-box'>")
	fmt.Fprintf(&b, "<p><strong>%s</strong></p>", t.Name)
	fmt.Fprintf(&b, "<p>%s (%s)</p>", t.CountryName, t.CountryCode)
	fmt.Fprintf(&b, "<p>%s &ndash; %s</p>", t.StartDate.Format("02 Jan 2006"), t.EndDate.Format("02 Jan 2006"))
	b.WriteString("</div></div>")

	b.WriteString(s.content.SummaryHTML(w))

	b.WriteString("<div class='section'><div class='section-title'>Warning Status:</div><ul>")
	fmt.Fprintf(&b, "<li>Full travel warning: %s</li>", yesNo(w.Warning))
	fmt.Fprintf(&b, "<li>Partial travel warning: %s</li>", yesNo(w.PartialWarning))
	fmt.Fprintf(&b, "<li>Situational warning: %s</li>", yesNo(w.SituationWarning))
	fmt.Fprintf(&b, "<li>Partial situational warning: %s</li>", yesNo(w.SituationPartial))
	b.WriteString("</ul></div>")

	b.WriteString("<div class='section'><div class='section-title'>Recommended Actions:</div><ul>")
	b.WriteString("<li>Review the full travel advisory before departure.</li>")
	b.WriteString("<li>Register with your embassy if you proceed with the trip.</li>")
	b.WriteString("<li>Check your travel insurance coverage for this destination.</li>")
	if sev.Level() >= domain.SeveritySevere.Level() {
		b.WriteString("<li><strong>Consider cancelling or postponing your trip.</strong></li>")
	}
	b.WriteString("</ul></div>")

	if w.Content != "" {
		s.writeCategories(&b, w.Content)
	}

	b.WriteString("<div class='footer'>")
	fmt.Fprintf(&b, "<p>Warning last updated: %s</p>", time.UnixMilli(w.LastModified).UTC().Format("02 Jan 2006 15:04 MST"))
	b.WriteString("<p>Source: German Federal Foreign Office travel advisories.</p>")
	b.WriteString("<p>You receive this alert because notifications are enabled for this trip.</p>")
	b.WriteString("</div>")

	b.WriteString("</div></body></html>")
	return b.String()
}

// writeCategories appends the categorized advisory sections, skipping
// categories the content does not cover.
func (s *DispatcherService) writeCategories(b *strings.Builder, content string) {
	cats := s.content.Categorize(content)
	if cats.IsEmpty() {
		return
	}

	sections := []struct{ title, text string }{
		{"Security", cats.Security},
		{"Nature and Climate", cats.NatureAndClimate},
		{"Travel Information", cats.TravelInfo},
		{"Entry and Customs", cats.DocumentsAndCustoms},
		{"Health", cats.Health},
	}
	for _, sec := range sections {
		if sec.text == "" {
			continue
		}
		fmt.Fprintf(b, "<div class='section'><div class='section-title'>%s:</div><p>%s</p></div>",
			sec.title, truncate(sec.text, 600))
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// truncate shortens long section text for the email body without cutting a
// rune in half.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
