package intent

import "time"

// DateContext is a snapshot of today plus a 7-day forward window. It is
// embedded verbatim into assistant prompts so date arithmetic never has to
// be done by the model.
type DateContext struct {
	Now       string    `json:"now"`
	Today     string    `json:"today"`
	TodayName string    `json:"today_name"`
	Week      []DayInfo `json:"week"`
	Timezone  string    `json:"timezone"`
}

// DayInfo describes one day in the window.
type DayInfo struct {
	Day   string `json:"day"`
	Date  string `json:"date"` // DD-MM-YYYY
	ISO   string `json:"iso"`  // YYYY-MM-DD
	Label string `json:"label"`
}

var dutchDays = []string{
	"maandag", "dinsdag", "woensdag", "donderdag", "vrijdag", "zaterdag", "zondag",
}

// DateContext returns the current date window. Side-effect free.
func (d *Detector) DateContext() DateContext {
	now := d.now().In(d.tz)

	week := make([]DayInfo, 0, 7)
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, i)
		label := ""
		switch i {
		case 0:
			label = "VANDAAG"
		case 1:
			label = "MORGEN"
		}
		week = append(week, DayInfo{
			Day:   dutchDays[mondayIndexed(day.Weekday())],
			Date:  day.Format("02-01-2006"),
			ISO:   day.Format("2006-01-02"),
			Label: label,
		})
	}

	return DateContext{
		Now:       now.Format(time.RFC3339),
		Today:     now.Format("2006-01-02"),
		TodayName: dutchDays[mondayIndexed(now.Weekday())],
		Week:      week,
		Timezone:  "Europe/Amsterdam",
	}
}
