package planner

import (
	"fmt"
	"strings"

	"github.com/Alik192/AI-Travel-Planner/internal/types"
)

// buildPlanPrompt renders the fixed-structure generation request. The model
// is instructed to output exactly six labeled sections in a fixed order and
// nothing else; the presentation layer splits on those markers.
func buildPlanPrompt(tc types.TripContext) string {
	req := tc.Request

	attractionBullets := make([]string, 0, len(tc.AttractionNames))
	for _, name := range tc.AttractionNames {
		attractionBullets = append(attractionBullets, "    *   "+name)
	}

	return fmt.Sprintf(`
    You are a travel agent. A user wants to go on a %s vacation to %s.
    They are traveling with %d adults and %d children. The trip will last %d days,
    starting on %s. The budget is %.0f EUR.

    Here's some information to help you create a detailed vacation plan. If any information says 'No data found' or 'unavailable', you must state that you could not find specific options but should still suggest a reasonable budget for that category based on the overall trip budget.

    Flight Options from %s to %s:
    %s

    Hotel Options in %s:
    %s

    Weather Forecast:
    %s

    Based on this information, generate ONLY the following sections with the exact formatting as shown below. Do not include any extra text, disclaimers, or explanations.

    **Destination Overview: %s**

    **Flights**
    Flight Option 1:** [Price] EUR per person (Total: [Total Price] EUR), with [Number] stop(s).

    **Accommodation**
    Hotel:** [If a hotel was found, list its name. If not, state 'A suitable hotel within your budget.']
    Address:** [If a hotel was found, list its address. If not, state 'N/A']
    Price:** [If a hotel was found, list its price. If not, estimate a reasonable price for %d nights based on the total budget.]

    **Weather**
    [Provide a brief summary of the weather based on the forecast data provided.]

    **Top Attractions**
%s

    **Cost Breakdown**
    Flights:** [Flight Cost] EUR
    Accommodation:** [Accommodation Cost] EUR
    Food:** [Food Cost] EUR
    Activities/Entrance Fees:** [Activities Cost] EUR
    Transportation:** [Transportation Cost] EUR
    Buffer/Miscellaneous:** [Buffer Cost] EUR

    **Total Estimated Cost:** [Total Cost] EUR
    `,
		req.VacationType, req.DestinationCity,
		req.Adults, req.Children, req.DurationDays,
		req.StartDate.Format("2006-01-02"), tc.BudgetEUR,
		req.OriginIATA, tc.Destination.IATA,
		tc.FlightDetails,
		req.DestinationCity,
		tc.HotelDetails,
		tc.WeatherDetails,
		req.DestinationCity,
		req.DurationDays,
		strings.Join(attractionBullets, "\n"),
	)
}
