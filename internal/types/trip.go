package types

import (
	"time"

	"github.com/google/uuid"
)

// TripRequest is the immutable input for one planning run.
type TripRequest struct {
	OriginIATA      string    `json:"origin_iata"`
	DestinationCity string    `json:"destination_city"`
	VacationType    string    `json:"vacation_type"`
	Adults          int       `json:"adults"`
	Children        int       `json:"children"`
	DurationDays    int       `json:"duration_days"`
	StartDate       time.Time `json:"start_date"`
	Budget          float64   `json:"budget"`
	BudgetCurrency  string    `json:"budget_currency"`
}

// ReturnDate is the start date plus the trip duration.
func (r TripRequest) ReturnDate() time.Time {
	return r.StartDate.AddDate(0, 0, r.DurationDays)
}

// LocationCode is the resolved pair of codes for a destination city.
type LocationCode struct {
	IATA    string `json:"iata"`
	Country string `json:"country"`
}

// FlightSegment is one leg of an itinerary. Duration carries the
// itinerary-level duration, not a per-segment value.
type FlightSegment struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Departure    string `json:"departure"`
	Arrival      string `json:"arrival"`
	Carrier      string `json:"carrier"`
	FlightNumber string `json:"flight_number"`
	Duration     string `json:"duration"`
}

// FlightItinerary is an ordered sequence of segments (outbound or return).
type FlightItinerary struct {
	Segments []FlightSegment `json:"segments"`
}

// FlightOption is one priced offer with outbound and optional return itineraries.
type FlightOption struct {
	Itineraries []FlightItinerary `json:"itineraries"`
	TotalPrice  float64           `json:"total_price"`
}

// Stops counts the stops on the outbound itinerary.
func (f FlightOption) Stops() int {
	if len(f.Itineraries) == 0 {
		return 0
	}
	n := len(f.Itineraries[0].Segments) - 1
	if n < 0 {
		return 0
	}
	return n
}

// HotelOption is one hotel candidate with a resolved room rate.
type HotelOption struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	Stars       int     `json:"stars"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}

// WeatherDay is one summarized forecast day.
type WeatherDay struct {
	Date        string  `json:"date"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
}

// WeatherSummary holds up to three distinct forecast days for a city plus
// the rendered text used for display.
type WeatherSummary struct {
	City     string       `json:"city"`
	Days     []WeatherDay `json:"days"`
	Rendered string       `json:"rendered"`
}

// Attraction is one point of interest near the destination.
type Attraction struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	Categories []string `json:"categories"`
}

// TripContext is the merged snapshot of all provider results for one run.
// Built once by the aggregator and never mutated afterwards; every display
// field is populated with either real data or an explicit placeholder.
type TripContext struct {
	Request     TripRequest  `json:"request"`
	Destination LocationCode `json:"destination"`
	ReturnDate  time.Time    `json:"return_date"`

	Flights     []FlightOption `json:"flights"`
	Hotels      []HotelOption  `json:"hotels"`
	Weather     WeatherSummary `json:"weather"`
	Attractions []Attraction   `json:"attractions"`

	// BudgetEUR is the request budget expressed in the plan currency.
	// Equal to the raw budget when no conversion was needed or possible.
	BudgetEUR float64 `json:"budget_eur"`

	// Pre-rendered display lines per category.
	FlightDetails   string   `json:"flight_details"`
	HotelDetails    string   `json:"hotel_details"`
	WeatherDetails  string   `json:"weather_details"`
	AttractionNames []string `json:"attraction_names"`
}

// PlanResult is the final output of one planning run.
type PlanResult struct {
	ID       uuid.UUID   `json:"id"`
	PlanText string      `json:"plan_text"`
	Context  TripContext `json:"context"`
}
