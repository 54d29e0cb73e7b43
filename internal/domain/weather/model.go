package weather

import "time"

// Snapshot is the normalized current/hourly/daily bundle for one location.
type Snapshot struct {
	LocationName string  `json:"locationName"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Current      Current `json:"current"`
	Hourly       Hourly  `json:"hourly"`
	Daily        Daily   `json:"daily"`
}

// Current holds the instantaneous readings.
type Current struct {
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"windSpeed"`
	WindDirection float64 `json:"windDirection"`
	WeatherCode   int     `json:"weatherCode"`
	IsDay         int     `json:"isDay"`
	Time          string  `json:"time"`
}

// Hourly mirrors the Open-Meteo hourly arrays.
type Hourly struct {
	Time          []string  `json:"time"`
	Temperature2m []float64 `json:"temperature_2m"`
	WeatherCode   []int     `json:"weather_code"`
}

// Daily mirrors the Open-Meteo daily arrays.
type Daily struct {
	Time             []string  `json:"time"`
	WeatherCode      []int     `json:"weather_code"`
	Temperature2mMax []float64 `json:"temperature_2m_max"`
	Temperature2mMin []float64 `json:"temperature_2m_min"`
}

// Today returns the first day's max/min temperatures when present.
func (d Daily) Today() (maxTemp, minTemp float64, ok bool) {
	if len(d.Temperature2mMax) == 0 || len(d.Temperature2mMin) == 0 {
		return 0, 0, false
	}
	return d.Temperature2mMax[0], d.Temperature2mMin[0], true
}

// Location is a geocoding hit.
type Location struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1,omitempty"`
}

// CityReport is the compact summary handed to the model by the weather tool.
type CityReport struct {
	Location      string         `json:"location"`
	Country       string         `json:"country"`
	Coordinates   Coordinates    `json:"coordinates"`
	Current       CityConditions `json:"current"`
	DailyForecast DayRange       `json:"dailyForecast"`
}

// Coordinates is a lat/lon pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CityConditions is the current block of a CityReport.
type CityConditions struct {
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"windSpeed"`
	ConditionCode int     `json:"conditionCode"`
	Condition     string  `json:"condition"`
	IsDay         bool    `json:"isDay"`
	Time          string  `json:"time"`
}

// DayRange carries today's extremes.
type DayRange struct {
	TodayMax float64 `json:"todayMax"`
	TodayMin float64 `json:"todayMin"`
}

// Config wires runtime knobs for the weather domain.
type Config struct {
	ForecastDays int
	CacheTTL     time.Duration
	SearchLimit  int
}
