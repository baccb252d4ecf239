package loadbalancer

import (
	"math"

	"github.com/Varun984/Sparkathon-by-Walmart/pkg/db/models"
)

// Target score weights. Distance counts inversely, the rest directly.
const (
	distanceWeight = 0.18
	demandWeight   = 0.25
	forecastWeight = 0.18
	freeWeight     = 0.15
)

const (
	// demandWindow is how many recent demand samples make up current demand.
	demandWindow   = 7
	forecastGrowth = 1.2
	earthRadiusKm  = 6371.0
)

// AlertThreshold is the load an inventory may carry before it breaches:
// available volume less what is reserved.
func AlertThreshold(inv models.Inventory) float64 {
	return inv.VolumeAvailable - inv.VolumeReserved
}

// ThresholdExceeded reports whether occupied volume is above AlertThreshold.
func ThresholdExceeded(inv models.Inventory) bool {
	return inv.VolumeOccupied > AlertThreshold(inv)
}

// Excess is the load above AlertThreshold, zero when within it.
func Excess(inv models.Inventory) float64 {
	return math.Max(inv.VolumeOccupied-AlertThreshold(inv), 0)
}

// Score ranks a relocation target. Closer inventories with more demand and
// more free volume score higher.
func Score(distanceKm float64, currentDemand, forecastDemand int, free float64) float64 {
	return distanceWeight*(1/(distanceKm+1)) +
		demandWeight*float64(currentDemand) +
		forecastWeight*float64(forecastDemand) +
		freeWeight*free
}

// ForecastDemand projects current demand forward by the fixed growth factor.
func ForecastDemand(currentDemand int) int {
	return int(float64(currentDemand) * forecastGrowth)
}

// RelocatableAmount is how many whole units can move to a target: the
// excess, capped by the target's headroom under its own threshold and by its
// free volume. Zero means the target cannot take anything.
func RelocatableAmount(excess float64, target models.Inventory) int {
	headroom := AlertThreshold(target) - target.VolumeOccupied
	amount := math.Floor(math.Min(excess, math.Min(headroom, target.VolumeAvailable)))
	if amount <= 0 || math.IsNaN(amount) {
		return 0
	}
	return int(amount)
}

// DistanceKm is the great-circle distance between two locations.
func DistanceKm(a, b models.Location) float64 {
	lat1, lat2 := radians(a.Latitude), radians(b.Latitude)
	dLat := lat2 - lat1
	dLon := radians(b.Longitude - a.Longitude)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
