// Package intent classifies raw user input into a coarse action category.
//
// It understands two shapes of input:
//   - commands: "#calendar lunch morgen 12:00", "#taak rapport afmaken"
//   - chat: "plan een meeting met Jan", "herinner me aan de huur"
//
// Detection is a pure function over the text: no network, no store. Besides
// the category it reports an explicitly mentioned calendar provider and rough
// date/time hints resolved against the Europe/Amsterdam clock. Anything
// beyond that (titles, attendees, exact times) is left to the assistant.
package intent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Type is the detected action category.
type Type string

const (
	CalendarCreate   Type = "calendar:create"
	CalendarList     Type = "calendar:list"
	CalendarReminder Type = "calendar:reminder"
	CalendarUpdate   Type = "calendar:update"
	CalendarDelete   Type = "calendar:delete"
	TaskCreate       Type = "task:create"
	TaskList         Type = "task:list"
	NoteCreate       Type = "note:create"
	Unknown          Type = "unknown"
)

// Detected is the result of one detection pass.
type Detected struct {
	Type       Type    `json:"intent_type"`
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
	Source     string  `json:"source"`     // "command" or "chat"
	Provider   string  `json:"provider,omitempty"`
	RawInput   string  `json:"raw_input"`
	// Params holds rough hints extracted without the assistant:
	// date_hint (YYYY-MM-DD), date_type (the word that produced it)
	// and time_hint (HH:MM).
	Params map[string]string `json:"extracted_params"`
	// NeedsExtraction is true when the assistant should still parse
	// title, attendees and exact times out of the text.
	NeedsExtraction bool `json:"needs_claude_extraction"`
}

// commandPatterns maps command prefixes to their intent. Checked in order,
// first prefix match wins.
var commandPatterns = []struct {
	prefix string
	typ    Type
}{
	{"#calendar", CalendarCreate},
	{"#afspraak", CalendarCreate},
	{"#agenda", CalendarList},
	{"#reminder", CalendarReminder},
	{"#herinner", CalendarReminder},
	{"#task", TaskCreate},
	{"#taak", TaskCreate},
	{"#note", NoteCreate},
	{"#notitie", NoteCreate},
}

// providerPatterns maps provider names to the keywords that select them.
// Checked in order, first keyword match wins.
var providerPatterns = []struct {
	provider string
	keywords []string
}{
	{"google", []string{"google", "gcal", "google calendar", "google agenda"}},
	{"microsoft", []string{"microsoft", "outlook", "o365", "office 365", "office", "office agenda"}},
}

// Calendar and reminder keywords, Dutch and English mixed.
var calendarKeywords = []string{
	"afspraak", "meeting", "vergadering", "lunch", "diner", "ontbijt",
	"appointment", "event", "agenda", "calendar", "plannen", "inplannen",
	"schedule", "plan", "boek", "reserveer", "book",
}

var reminderKeywords = []string{
	"herinner", "remind", "reminder", "herinnering", "onthoud",
	"vergeet niet", "don't forget", "alert",
}

// listWords turn a calendar intent into a list instead of a create.
var listWords = []string{"wat", "welke", "toon", "show", "list", "bekijk"}

// daysNL maps Dutch weekday names to their offset from Monday.
var daysNL = []struct {
	name string
	day  int
}{
	{"maandag", 0}, {"dinsdag", 1}, {"woensdag", 2}, {"donderdag", 3},
	{"vrijdag", 4}, {"zaterdag", 5}, {"zondag", 6},
}

var (
	timeColonPattern = regexp.MustCompile(`(\d{1,2})[:.](\d{2})`) // 12:00 or 12.00
	timeHourPattern  = regexp.MustCompile(`(\d{1,2})\s*(?:u|uur)`) // 12u or 12 uur
)

// Detector performs intent detection against the Amsterdam clock.
type Detector struct {
	tz  *time.Location
	now func() time.Time
}

// New returns a Detector resolving date hints in Europe/Amsterdam.
func New() *Detector {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		loc = time.UTC
	}
	return &Detector{tz: loc, now: time.Now}
}

// Detect classifies one input. Inputs starting with "#" take the command
// path (explicit, confidence 1.0); everything else takes the chat path.
func (d *Detector) Detect(input string) Detected {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(strings.ToLower(trimmed), "#") {
		return d.detectCommand(input, trimmed)
	}
	return d.detectChat(input)
}

func (d *Detector) detectCommand(input, trimmed string) Detected {
	lower := strings.ToLower(trimmed)

	for _, p := range commandPatterns {
		if !strings.HasPrefix(lower, p.prefix) {
			continue
		}
		rest := strings.TrimSpace(trimmed[len(p.prefix):])
		return Detected{
			Type:       p.typ,
			Confidence: 1.0, // commands are explicit
			Source:     "command",
			Provider:   detectProvider(rest),
			RawInput:   input,
			Params:     d.extractBasicParams(rest),
			// The assistant still parses title, exact date and time.
			NeedsExtraction: true,
		}
	}

	return Detected{
		Type:     Unknown,
		Source:   "command",
		RawInput: input,
		Params:   map[string]string{},
	}
}

func (d *Detector) detectChat(input string) Detected {
	lower := strings.ToLower(input)
	provider := detectProvider(input)

	// Reminder keywords first, they are more specific than calendar ones.
	if containsAny(lower, reminderKeywords) {
		return Detected{
			Type:            CalendarReminder,
			Confidence:      0.8,
			Source:          "chat",
			Provider:        provider,
			RawInput:        input,
			Params:          d.extractBasicParams(input),
			NeedsExtraction: true,
		}
	}

	if containsAny(lower, calendarKeywords) {
		typ := CalendarCreate
		if containsAny(lower, listWords) {
			typ = CalendarList
		}
		return Detected{
			Type:            typ,
			Confidence:      0.7,
			Source:          "chat",
			Provider:        provider,
			RawInput:        input,
			Params:          d.extractBasicParams(input),
			NeedsExtraction: true,
		}
	}

	return Detected{
		Type:     Unknown,
		Source:   "chat",
		Provider: provider,
		RawInput: input,
		Params:   map[string]string{},
	}
}

// detectProvider reports an explicitly mentioned provider, or "".
func detectProvider(text string) string {
	lower := strings.ToLower(text)
	for _, p := range providerPatterns {
		for _, kw := range p.keywords {
			if strings.Contains(lower, kw) {
				return p.provider
			}
		}
	}
	return ""
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// extractBasicParams pulls date and time hints out of the text. Relative
// words resolve against now in the detector's timezone; a named weekday
// always resolves strictly forward (1 to 7 days ahead, never today).
func (d *Detector) extractBasicParams(text string) map[string]string {
	params := map[string]string{}
	lower := strings.ToLower(text)
	now := d.now().In(d.tz)

	switch {
	case strings.Contains(lower, "overmorgen"):
		params["date_hint"] = now.AddDate(0, 0, 2).Format("2006-01-02")
		params["date_type"] = "overmorgen"
	case strings.Contains(lower, "morgen"):
		params["date_hint"] = now.AddDate(0, 0, 1).Format("2006-01-02")
		params["date_type"] = "morgen"
	case strings.Contains(lower, "vandaag"):
		params["date_hint"] = now.Format("2006-01-02")
		params["date_type"] = "vandaag"
	default:
		for _, wd := range daysNL {
			if !strings.Contains(lower, wd.name) {
				continue
			}
			daysAhead := wd.day - mondayIndexed(now.Weekday())
			if daysAhead <= 0 {
				daysAhead += 7
			}
			params["date_hint"] = now.AddDate(0, 0, daysAhead).Format("2006-01-02")
			params["date_type"] = wd.name
			break
		}
	}

	if m := timeColonPattern.FindStringSubmatch(lower); m != nil {
		hour, _ := strconv.Atoi(m[1])
		params["time_hint"] = fmt.Sprintf("%02d:%s", hour, m[2])
	} else if m := timeHourPattern.FindStringSubmatch(lower); m != nil {
		hour, _ := strconv.Atoi(m[1])
		params["time_hint"] = fmt.Sprintf("%02d:00", hour)
	}

	return params
}

// mondayIndexed converts time.Weekday (Sunday=0) to Monday=0 .. Sunday=6.
func mondayIndexed(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
