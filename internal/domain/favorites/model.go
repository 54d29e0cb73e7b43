package favorites

import (
	"fmt"
	"strings"
)

// Location is a saved place shown in the favorites list.
type Location struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country,omitempty"`
	Admin1    string  `json:"admin1,omitempty"`
}

// LocationID derives the stable key "<name>-<lat>-<lon>" with two-decimal coordinates.
func LocationID(name string, lat, lon float64) string {
	return fmt.Sprintf("%s-%.2f-%.2f", strings.TrimSpace(name), lat, lon)
}

// ToggleResult reports the outcome of Toggle.
type ToggleResult struct {
	Added    bool     `json:"added"`
	Location Location `json:"location"`
}
