package memory

import "github.com/riskibarqy/subway-lines/internal/domain/station"

// SeedStations returns a small set of stations for local development.
func SeedStations() []station.Station {
	return []station.Station{
		{ID: 1, Name: "Gangnam"},
		{ID: 2, Name: "Yeoksam"},
		{ID: 3, Name: "Seolleung"},
		{ID: 4, Name: "Jamsil"},
		{ID: 5, Name: "Pangyo"},
		{ID: 6, Name: "Jeongja"},
	}
}
