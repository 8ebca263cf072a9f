package domain

// Severity is the ordered severity scale for travel warnings.
// The zero value is SeverityNone.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMinor
	SeverityModerate
	SeveritySevere
	SeverityCritical
)

// Level returns the numeric rank of the severity (NONE=0 .. CRITICAL=4).
// Used for ordered comparisons like "severe or worse".
func (s Severity) Level() int {
	return int(s)
}

// DisplayName returns the human-readable name used in emails and API responses.
func (s Severity) DisplayName() string {
	switch s {
	case SeverityCritical:
		return "Critical"
	case SeveritySevere:
		return "Severe"
	case SeverityModerate:
		return "Moderate"
	case SeverityMinor:
		return "Minor"
	}
	return "No Warning"
}

// String implements fmt.Stringer.
func (s Severity) String() string {
	return s.DisplayName()
}

// MarshalText makes Severity render as its display name in JSON responses.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.DisplayName()), nil
}

// UnmarshalText parses a display name back into a Severity.
func (s *Severity) UnmarshalText(b []byte) error {
	*s = ParseSeverity(string(b))
	return nil
}

// ParseSeverity maps a display name back to a Severity.
// Unknown names map to SeverityNone, matching the zero value.
func ParseSeverity(name string) Severity {
	switch name {
	case "Critical":
		return SeverityCritical
	case "Severe":
		return SeveritySevere
	case "Moderate":
		return SeverityModerate
	case "Minor":
		return SeverityMinor
	}
	return SeverityNone
}
