package weather

// Condition is a WMO weather code with its display labels.
type Condition struct {
	Label   string
	LabelID string
}

var unknownCondition = Condition{Label: "Unknown", LabelID: "Tidak diketahui"}

var conditions = map[int]Condition{
	0:  {Label: "Clear sky", LabelID: "Cerah"},
	1:  {Label: "Mainly clear", LabelID: "Sebagian besar cerah"},
	2:  {Label: "Partly cloudy", LabelID: "Berawan sebagian"},
	3:  {Label: "Overcast", LabelID: "Mendung"},
	45: {Label: "Fog", LabelID: "Kabut"},
	48: {Label: "Depositing rime fog", LabelID: "Kabut beku"},
	51: {Label: "Light drizzle", LabelID: "Gerimis ringan"},
	53: {Label: "Moderate drizzle", LabelID: "Gerimis sedang"},
	55: {Label: "Dense drizzle", LabelID: "Gerimis lebat"},
	61: {Label: "Slight rain", LabelID: "Hujan ringan"},
	63: {Label: "Moderate rain", LabelID: "Hujan sedang"},
	65: {Label: "Heavy rain", LabelID: "Hujan lebat"},
	71: {Label: "Slight snow", LabelID: "Salju ringan"},
	73: {Label: "Moderate snow", LabelID: "Salju sedang"},
	75: {Label: "Heavy snow", LabelID: "Salju lebat"},
	77: {Label: "Snow grains", LabelID: "Butiran salju"},
	80: {Label: "Slight rain showers", LabelID: "Hujan lokal ringan"},
	81: {Label: "Moderate rain showers", LabelID: "Hujan lokal sedang"},
	82: {Label: "Violent rain showers", LabelID: "Hujan lokal sangat lebat"},
	85: {Label: "Slight snow showers", LabelID: "Hujan salju ringan"},
	86: {Label: "Heavy snow showers", LabelID: "Hujan salju lebat"},
	95: {Label: "Thunderstorm", LabelID: "Badai petir"},
	96: {Label: "Thunderstorm with hail", LabelID: "Badai petir dengan hujan es"},
	99: {Label: "Thunderstorm with heavy hail", LabelID: "Badai petir dengan hujan es lebat"},
}

// DescribeCode resolves a WMO code, falling back to an "Unknown" label.
func DescribeCode(code int) Condition {
	if c, ok := conditions[code]; ok {
		return c
	}
	return unknownCondition
}
