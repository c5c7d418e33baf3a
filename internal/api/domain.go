package api

// PlanRequest is the JSON body accepted by the plan endpoint. Dates travel
// as YYYY-MM-DD strings on the wire.
type PlanRequest struct {
	OriginIATA      string  `json:"origin_iata" example:"ARN"`
	DestinationCity string  `json:"destination_city" example:"Lisbon"`
	VacationType    string  `json:"vacation_type" example:"Relaxing"`
	Adults          int     `json:"adults" example:"2"`
	Children        int     `json:"children" example:"0"`
	DurationDays    int     `json:"duration_days" example:"7"`
	StartDate       string  `json:"start_date" example:"2026-10-10"`
	Budget          float64 `json:"budget" example:"3000"`
	BudgetCurrency  string  `json:"budget_currency,omitempty" example:"EUR"`
}

// Response represents a generic API response for success or error messages.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Operation successful"`
	Error   string `json:"error,omitempty" example:"Resource not found"`
}
