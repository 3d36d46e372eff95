package weather

import "strings"

const (
	maxForecastDays = 5
	middayTime      = "12:00:00"
)

// dailyMidday picks the 12:00 reading of each calendar date, first seen
// wins, stopping after limit dates.
func dailyMidday(items []forecastItem, limit int) []DailyForecast {
	out := make([]DailyForecast, 0, limit)
	seen := make(map[string]bool)
	for _, it := range items {
		date, clock, ok := strings.Cut(it.DtTxt, " ")
		if !ok || clock != middayTime || seen[date] {
			continue
		}
		seen[date] = true
		cond := firstCondition(it.Weather)
		out = append(out, DailyForecast{
			Date:        date,
			Temperature: it.Main.Temp,
			Description: cond.Description,
			Icon:        cond.Icon,
		})
		if len(out) >= limit {
			break
		}
	}
	return out
}
