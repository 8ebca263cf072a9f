// Package service contains the business logic for the travel warnings service.
// Services validate inputs, enforce business rules, and orchestrate repo,
// provider, and mail calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/travelsaas/travel-warnings/internal/domain"
)

// Categories holds the warning content split into named sections.
// Sections whose heading was not found in the content are empty strings.
type Categories struct {
	Security            string `json:"security"`
	NatureAndClimate    string `json:"nature_and_climate"`
	TravelInfo          string `json:"travel_info"`
	DocumentsAndCustoms string `json:"documents_and_customs"`
	Health              string `json:"health"`
	Others              string `json:"others"`
}

// IsEmpty reports whether no section was extracted.
func (c Categories) IsEmpty() bool {
	return c.Security == "" && c.NatureAndClimate == "" && c.TravelInfo == "" &&
		c.DocumentsAndCustoms == "" && c.Health == "" && c.Others == ""
}

// The provider publishes warning content as German HTML with h2/h3 section
// headings. Each category is located by the first heading keyword that matches.
var categoryKeywords = struct {
	security, nature, travel, documents, health []string
}{
	security:  []string{"Sicherheit", "Terrorismus", "Kriminalität", "Innenpolitische Lage", "Konflikte"},
	nature:    []string{"Natur und Klima", "Naturkatastrophen", "Erdbeben", "Vulkan", "Überschwemmung", "Hurrikane"},
	travel:    []string{"Reiseinfos", "Infrastruktur", "Verkehr", "Führerschein", "Kommunikation"},
	documents: []string{"Einreise und Zoll", "Visum", "Reisepass", "Zollvorschriften", "Einfuhr"},
	health:    []string{"Gesundheit", "Medizinische Hinweise", "Impfschutz", "HIV/AIDS", "Medizinische Versorgung"},
}

var (
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ContentService extracts structured information from warning HTML content and
// builds the "what's new" summary block for alert emails. Pure computation:
// no stores, no side effects.
type ContentService struct{}

// NewContentService constructs a ContentService.
func NewContentService() *ContentService {
	return &ContentService{}
}

// Categorize splits warning HTML content into named sections.
// An empty input yields all-empty categories — content is optional on a
// warning (only present after a successful detail fetch).
func (s *ContentService) Categorize(content string) Categories {
	if content == "" {
		return Categories{}
	}

	return Categories{
		Security:            extractSection(content, categoryKeywords.security),
		NatureAndClimate:    extractSection(content, categoryKeywords.nature),
		TravelInfo:          extractSection(content, categoryKeywords.travel),
		DocumentsAndCustoms: extractSection(content, categoryKeywords.documents),
		Health:              extractSection(content, categoryKeywords.health),
	}
}

// SummaryHTML builds the "What's New" block of the alert email: a short human
// summary chosen by flag priority (full > partial > situational), followed by
// the severity level.
func (s *ContentService) SummaryHTML(w domain.Warning) string {
	var b strings.Builder

	b.WriteString("<div class='section'>")
	b.WriteString("<div class='section-title'>What's New:</div>")
	b.WriteString("<div class='info-box'>")

	switch {
	case w.Warning:
		fmt.Fprintf(&b, "<p><strong>A full travel warning has been issued for %s.</strong> Travelers are advised against all travel to this destination.</p>", w.CountryName)
	case w.PartialWarning:
		fmt.Fprintf(&b, "<p><strong>A partial travel warning is active for certain regions in %s.</strong> Some areas may be unsafe for travel.</p>", w.CountryName)
	case w.SituationWarning:
		fmt.Fprintf(&b, "<p><strong>A situation-specific travel warning is in effect for %s.</strong> Special precautions are required.</p>", w.CountryName)
	}

	fmt.Fprintf(&b, "<p><strong>Severity Level:</strong> %s</p>", w.Severity().DisplayName())

	b.WriteString("</div></div>")
	return b.String()
}

// extractSection returns the cleaned text between the first h2/h3 heading
// matching any of the keywords and the next h2/h3 heading (or end of content).
func extractSection(content string, keywords []string) string {
	for _, keyword := range keywords {
		re := regexp.MustCompile(`(?is)<h[23][^>]*>` + regexp.QuoteMeta(keyword) + `.*?</h[23]>(.*?)(?:<h[23]|$)`)
		if m := re.FindStringSubmatch(content); m != nil {
			return cleanHTML(m[1])
		}
	}
	return ""
}

// cleanHTML strips tags and collapses whitespace for plain-text extraction.
func cleanHTML(html string) string {
	text := tagRe.ReplaceAllString(html, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}
