package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlan = `**Destination Overview: Lisbon**
Lisbon is a sunny coastal capital with historic neighborhoods.

**Flights**
Flight Option 1:** 389.90 EUR per person (Total: 779.80 EUR), with 0 stop(s).

**Accommodation**
Hotel:** Hotel Tejo
Address:** Rua Augusta 1
Price:** 620.00 EUR

**Weather**
Expect mild, mostly clear days around 21°C.

**Top Attractions**
    *   Castelo de São Jorge
    *   Torre de Belém

**Cost Breakdown**
Flights:** 780 EUR
Accommodation:** 620 EUR
Food:** 450 EUR
Activities/Entrance Fees:** 200 EUR
Transportation:** 120 EUR
Buffer/Miscellaneous:** 150 EUR

**Total Estimated Cost:** 2,320 EUR
`

func TestSplitSections(t *testing.T) {
	sections := SplitSections(samplePlan)

	assert.Contains(t, sections.Overview, "**Destination Overview: Lisbon**")
	assert.Contains(t, sections.Overview, "sunny coastal capital")
	assert.True(t, len(sections.Flights) > 0)
	assert.Contains(t, sections.Flights, "389.90 EUR")
	assert.Contains(t, sections.Accommodation, "Hotel Tejo")
	assert.Contains(t, sections.Weather, "mostly clear")
	assert.Contains(t, sections.Attractions, "Torre de Belém")
	assert.Contains(t, sections.Cost, "Buffer/Miscellaneous")
	assert.Contains(t, sections.Cost, "Total Estimated Cost")
}

func TestSplitSections_MarkerKeptWithFollowingPart(t *testing.T) {
	sections := SplitSections(samplePlan)

	assert.True(t, strings.HasPrefix(sections.Flights, "**Flights**"))
	assert.True(t, strings.HasPrefix(sections.Cost, "**Cost Breakdown**"))
}

func TestSplitSections_MissingSectionsStayEmpty(t *testing.T) {
	sections := SplitSections("**Destination Overview: Oslo**\nA fjord city.\n\n**Weather**\nCold.")

	assert.Contains(t, sections.Overview, "Oslo")
	assert.Contains(t, sections.Weather, "Cold")
	assert.Empty(t, sections.Flights)
	assert.Empty(t, sections.Accommodation)
	assert.Empty(t, sections.Attractions)
	assert.Empty(t, sections.Cost)
}

func TestSplitSections_MalformedTextNeverPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		SplitSections("")
		SplitSections("no markers at all")
		SplitSections("**Flights****Weather**")
	})
}

func TestParseCostBreakdown(t *testing.T) {
	sections := SplitSections(samplePlan)
	costs := ParseCostBreakdown(sections.Cost)

	require.NotEmpty(t, costs)
	assert.Equal(t, 780.0, costs["Flights"])
	assert.Equal(t, 620.0, costs["Accommodation"])
	assert.Equal(t, 450.0, costs["Food"])
	assert.Equal(t, 200.0, costs["Activities/Entrance Fees"])
	assert.Equal(t, 120.0, costs["Transportation"])
	assert.Equal(t, 150.0, costs["Buffer/Miscellaneous"])
}

func TestParseCostBreakdown_ThousandsSeparatorAndBoldLabels(t *testing.T) {
	costs := ParseCostBreakdown("**Total Estimated Cost:** 2,320.50 EUR")
	assert.Equal(t, 2320.50, costs["Total Estimated Cost"])
}

func TestParseCostBreakdown_IgnoresNonCostLines(t *testing.T) {
	costs := ParseCostBreakdown("These numbers are indicative.\nFlights:** 300 EUR\nEnjoy your trip!")
	assert.Equal(t, map[string]float64{"Flights": 300}, costs)
}
