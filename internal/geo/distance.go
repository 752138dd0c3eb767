// Package geo computes distances and paces from workout GPS routes.
package geo

import (
	"fmt"
	"math"

	"github.com/claude/notionfit/internal/models"
)

const earthRadiusMeters = 6371e3

// Haversine returns the great-circle distance in meters between two
// latitude/longitude points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// RouteDistanceKm sums the segment distances of a GPS route in kilometers.
// Routes with fewer than two points have zero distance.
func RouteDistanceKm(route []models.RoutePoint) float64 {
	if len(route) < 2 {
		return 0
	}
	var total float64
	for i := 0; i < len(route)-1; i++ {
		total += Haversine(
			route[i].Latitude, route[i].Longitude,
			route[i+1].Latitude, route[i+1].Longitude,
		)
	}
	return total / 1000
}

// FormatPace renders an average pace as "MM:SS" minutes per kilometer.
// Returns ok=false when distance or duration is missing or non-positive.
func FormatPace(distanceKm, durationMinutes float64) (string, bool) {
	if distanceKm <= 0 || durationMinutes <= 0 {
		return "", false
	}
	minutesPerKm := durationMinutes / distanceKm
	minutes := int(minutesPerKm)
	seconds := int(math.Round((minutesPerKm - float64(minutes)) * 60))
	if seconds == 60 {
		minutes++
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds), true
}

// SumQty totals the qty fields of a series of samples (step count segments).
func SumQty(points []models.QtyPoint) float64 {
	var sum float64
	for _, p := range points {
		sum += p.Qty
	}
	return sum
}
