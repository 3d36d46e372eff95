package weather

// OpenWeather payloads, trimmed to the fields we read.

type condition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type mainBlock struct {
	Temp float64 `json:"temp"`
}

type currentResponse struct {
	Name    string      `json:"name"`
	Main    mainBlock   `json:"main"`
	Weather []condition `json:"weather"`
}

type forecastItem struct {
	DtTxt   string      `json:"dt_txt"`
	Main    mainBlock   `json:"main"`
	Weather []condition `json:"weather"`
}

type forecastResponse struct {
	List []forecastItem `json:"list"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Current is what the API returns for current conditions.
type Current struct {
	CityName    string  `json:"city_name"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

type DailyForecast struct {
	Date        string  `json:"date"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

type Forecast struct {
	CityName  string          `json:"city_name"`
	Forecasts []DailyForecast `json:"forecasts"`
}

func firstCondition(cs []condition) condition {
	if len(cs) == 0 {
		return condition{}
	}
	return cs[0]
}
