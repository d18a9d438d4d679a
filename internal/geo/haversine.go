// Package geo computes great-circle distances. The Go and SQL forms use the
// same formula and radius so that a radius filter and the distance shown for
// a row never disagree.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by both forms
const EarthRadiusKm = 6371.0

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Haversine returns the distance in kilometers between two points given in degrees
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push a just outside [0, 1] near the antipodes
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// HaversineSQL renders Haversine for PostgreSQL. latArg and lonArg are SQL
// expressions for the query point (placeholders or literals); latCol and lonCol
// are the row's coordinate columns. NULL coordinates yield NULL.
func HaversineSQL(latArg, lonArg, latCol, lonCol string) string {
	dLat := fmt.Sprintf("RADIANS(%s - %s)", latCol, latArg)
	dLon := fmt.Sprintf("RADIANS(%s - %s)", lonCol, lonArg)
	a := fmt.Sprintf(
		"LEAST(1, GREATEST(0, SIN(%[1]s / 2) * SIN(%[1]s / 2) + COS(RADIANS(%[3]s)) * COS(RADIANS(%[4]s)) * SIN(%[2]s / 2) * SIN(%[2]s / 2)))",
		dLat, dLon, latArg, latCol,
	)
	return fmt.Sprintf("(%g * 2 * ATAN2(SQRT(%[2]s), SQRT(1 - %[2]s)))", EarthRadiusKm, a)
}
