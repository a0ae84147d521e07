package score

import (
	"math"
	"strings"
)

type coord struct {
	lat float64
	lon float64
}

// cityCoords holds approximate centroids for major Texas cities, used to
// estimate in-state distance when the candidate is outside the target city.
var cityCoords = map[string]coord{
	"houston":         {29.76, -95.37},
	"san antonio":     {29.42, -98.49},
	"dallas":          {32.78, -96.80},
	"austin":          {30.27, -97.74},
	"fort worth":      {32.76, -97.33},
	"el paso":         {31.76, -106.49},
	"arlington":       {32.74, -97.11},
	"corpus christi":  {27.80, -97.40},
	"plano":           {33.02, -96.70},
	"laredo":          {27.51, -99.51},
	"lubbock":         {33.58, -101.86},
	"garland":         {32.91, -96.64},
	"irving":          {32.81, -96.95},
	"amarillo":        {35.19, -101.85},
	"brownsville":     {25.90, -97.50},
	"mckinney":        {33.20, -96.62},
	"frisco":          {33.15, -96.82},
	"waco":            {31.55, -97.15},
	"midland":         {32.00, -102.08},
	"abilene":         {32.45, -99.73},
	"beaumont":        {30.08, -94.13},
	"round rock":      {30.51, -97.68},
	"odessa":          {31.85, -102.37},
	"tyler":           {32.35, -95.30},
	"college station": {30.63, -96.33},
	"denton":          {33.21, -97.13},
	"killeen":         {31.12, -97.73},
	"pearland":        {29.56, -95.29},
	"sugar land":      {29.62, -95.63},
	"longview":        {32.50, -94.74},
}

// Assumed when either city is not in the coordinate table. Yields a
// mid-range geography factor rather than penalizing unknown cities to the
// floor.
const defaultDistanceMiles = 150.0

const earthRadiusMiles = 3958.8

// distanceMiles estimates great-circle distance between two cities by name.
func distanceMiles(cityA, cityB string) float64 {
	a, okA := cityCoords[strings.ToLower(strings.TrimSpace(cityA))]
	b, okB := cityCoords[strings.ToLower(strings.TrimSpace(cityB))]
	if !okA || !okB {
		return defaultDistanceMiles
	}
	return haversine(a, b)
}

func haversine(a, b coord) float64 {
	latA := a.lat * math.Pi / 180
	latB := b.lat * math.Pi / 180
	dLat := latB - latA
	dLon := (b.lon - a.lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(h))
}
