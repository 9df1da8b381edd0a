package model

// CarbonEquivalents holds human-relatable conversions of a carbon quantity,
// supplied by the backend alongside a measurement.
type CarbonEquivalents struct {
	CoffeeCups   int64 `json:"coffeeCups"`
	EvKm         int64 `json:"evKm"`
	PhoneCharges int64 `json:"phoneCharges"`
	Trees        int64 `json:"trees"`
}

// ResourcePercentage is one row of the per-resource-type weight breakdown.
type ResourcePercentage struct {
	ResourceType string  `json:"resourceType"`
	Size         int64   `json:"size"`
	Percentage   float64 `json:"percentage"`
}

// MeasurementResult is the backend's answer to a completed measurement.
// Equivalents is a pointer because the backend may omit the block entirely;
// renderers must degrade to placeholders, never panic.
type MeasurementResult struct {
	MeasuredAt        string               `json:"measuredAt"`
	URL               string               `json:"url"`
	TotalByteWeight   int64                `json:"total_byte_weight"`
	ResourceBreakdown []ResourcePercentage `json:"resourcePercentage"`
	Equivalents       *CarbonEquivalents   `json:"carbonEquivalents"`
	CarbonEmission    float64              `json:"carbonEmission"`
	KBWeight          float64              `json:"kbWeight"`
	Grade             string               `json:"grade"`
	GlobalAvgCarbon   float64              `json:"globalAvgCarbon"`
	CleanerThan       int                  `json:"cleanerThan"`
}

// MBWeight returns the page weight in megabytes.
func (m MeasurementResult) MBWeight() float64 {
	return m.KBWeight / 1024
}

// TopEmissionPlace is one leaderboard row. Rank is assigned by the server
// and is authoritative; clients must not re-rank by emission.
type TopEmissionPlace struct {
	Rank           int     `json:"rank"`
	PlaceName      string  `json:"placeName"`
	Country        string  `json:"country"`
	URL            string  `json:"url"`
	CarbonEmission float64 `json:"carbonEmission"`
	Grade          string  `json:"grade"`
}

// Ranking is a leaderboard snapshot, ordered rank-ascending.
type Ranking struct {
	UpdatedAt         string             `json:"updatedAt"`
	TopEmissionPlaces []TopEmissionPlace `json:"topEmissionPlaces"`
}

// EmissionMapMarker is the geospatial projection of a ranked place.
type EmissionMapMarker struct {
	PlaceName      string  `json:"placeName"`
	CarbonEmission float64 `json:"carbonEmission"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	URL            string  `json:"url"`
}

// InBounds reports whether the marker's coordinates are plausible
// (latitude in [-90,90], longitude in [-180,180]).
func (m EmissionMapMarker) InBounds() bool {
	return m.Latitude >= -90 && m.Latitude <= 90 &&
		m.Longitude >= -180 && m.Longitude <= 180
}

// CountryCarbonAvg is one row of the per-country average breakdown.
type CountryCarbonAvg struct {
	Country       string  `json:"country"`
	AverageCarbon float64 `json:"averageCarbon"`
}

// GlobalStats is the aggregate statistics payload for one week/category.
type GlobalStats struct {
	WeekStartDate              string              `json:"weekStartDate"`
	PlaceCategory              string              `json:"placeCategory"`
	TopEmissionPlaces          []TopEmissionPlace  `json:"topEmissionPlaces"`
	AverageEmissionOfTopPlaces float64             `json:"averageEmissionOfTopPlaces"`
	CountryCarbonAvgs          []CountryCarbonAvg  `json:"countryCarbonAvgs"`
	EmissionMapMarkers         []EmissionMapMarker `json:"emissionMapMarkers"`
}

// WeeklySavings is one point of the weekly savings time series.
type WeeklySavings struct {
	WeekStartDate  string  `json:"weekStartDate"`
	SavingsInGrams float64 `json:"savingsInGrams"`
}

// ImageOptimization describes one image conversion performed by the
// optimizer behind the savings numbers.
type ImageOptimization struct {
	OriginalFileName   string `json:"originalFileName"`
	Success            bool   `json:"success"`
	OriginalSizeBytes  int64  `json:"originalSizeBytes"`
	OptimizedSizeBytes int64  `json:"optimizedSizeBytes"`
	OptimizedFileName  string `json:"optimizedFileName"`
}

// ResourceSavings is one row of the savings-by-resource-type breakdown.
type ResourceSavings struct {
	ResourceType      string  `json:"resourceType"`
	OriginalSize      int64   `json:"originalSize"`
	OptimizedSize     int64   `json:"optimizedSize"`
	SavingsSize       int64   `json:"savingsSize"`
	SavingsPercentage float64 `json:"savingsPercentage"`
}

// CarbonSavings is the savings dashboard payload for one site.
type CarbonSavings struct {
	URL                 string              `json:"url"`
	TotalSavingsInGrams float64             `json:"totalSavingsInGrams"`
	WeeklySavingsGraph  []WeeklySavings     `json:"weeklySavingsGraph"`
	ImageOptimizations  []ImageOptimization `json:"imageOptimizations"`
	ResourceSavingsData []ResourceSavings   `json:"resourceSavingsData"`
}

// UserInfo is the identity record returned by the session probe.
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Picture  string `json:"picture,omitempty"`
}

// DateReductionBytes is one point of the byte-reduction time series.
type DateReductionBytes struct {
	Date          string `json:"date"`
	ReductionByte int64  `json:"reductionByte"`
}

// DateReductionCount is one point of the reduction-event-count series.
type DateReductionCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// UserPage is the per-user history payload. Field names follow the wire
// format, which uses snake_case for this endpoint only.
type UserPage struct {
	ReductionBytesGraph []DateReductionBytes `json:"reduction_bytes_graph"`
	ReductionCountGraph []DateReductionCount `json:"reduction_count_graph"`
	TotalReductionBytes int64                `json:"total_reduction_bytes"`
	TotalReductionCount int64                `json:"total_reduction_count"`
}

// GramsFromBytes converts a byte reduction into its CO2-gram equivalent.
// The dashboard uses the 1 MB ~ 1 g approximation everywhere.
func GramsFromBytes(b int64) float64 {
	return float64(b) / (1024 * 1024)
}

// PlaceCategory is the backend's category enum for ranked places.
type PlaceCategory string

const (
	CategoryUniversity        PlaceCategory = "UNIVERSITY"
	CategoryPublicInstitution PlaceCategory = "PUBLIC_INSTITUTION"
)

// GuidelineItem is one static W3C Web Sustainability Guidelines entry,
// bundled with the client rather than fetched.
type GuidelineItem struct {
	CategoryName string `json:"categoryName"`
	Guideline    string `json:"guideline"`
}
