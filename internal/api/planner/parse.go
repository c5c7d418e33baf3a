package planner

import (
	"regexp"
	"strconv"
	"strings"
)

// PlanSections is the generated plan split by its six fixed section markers.
// Sections the model omitted stay empty; parsing is defensive and never
// fails, since output structure is not validated at generation time.
type PlanSections struct {
	Overview      string `json:"overview"`
	Flights       string `json:"flights"`
	Accommodation string `json:"accommodation"`
	Weather       string `json:"weather"`
	Attractions   string `json:"attractions"`
	Cost          string `json:"cost"`
}

var sectionMarkers = []string{
	"**Flights**",
	"**Accommodation**",
	"**Weather**",
	"**Top Attractions**",
	"**Cost Breakdown**",
}

// SplitSections splits planText at each known section marker and assigns the
// parts by their leading marker.
func SplitSections(planText string) PlanSections {
	parts := splitBeforeMarkers(planText, sectionMarkers)

	var sections PlanSections
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(trimmed, "**Destination Overview:"):
			sections.Overview = trimmed
		case strings.HasPrefix(trimmed, "**Flights**"):
			sections.Flights = trimmed
		case strings.HasPrefix(trimmed, "**Accommodation**"):
			sections.Accommodation = trimmed
		case strings.HasPrefix(trimmed, "**Weather**"):
			sections.Weather = trimmed
		case strings.HasPrefix(trimmed, "**Top Attractions**"):
			sections.Attractions = trimmed
		case strings.HasPrefix(trimmed, "**Cost Breakdown**"):
			sections.Cost = trimmed
		}
	}
	return sections
}

// splitBeforeMarkers cuts text before every occurrence of any marker,
// keeping the marker with the following part.
func splitBeforeMarkers(text string, markers []string) []string {
	cuts := []int{0}
	for _, marker := range markers {
		from := 0
		for {
			i := strings.Index(text[from:], marker)
			if i < 0 {
				break
			}
			cuts = append(cuts, from+i)
			from += i + len(marker)
		}
	}
	// Cut positions found marker-by-marker are not ordered yet.
	for i := 1; i < len(cuts); i++ {
		for j := i; j > 0 && cuts[j] < cuts[j-1]; j-- {
			cuts[j], cuts[j-1] = cuts[j-1], cuts[j]
		}
	}

	parts := make([]string, 0, len(cuts))
	for i, start := range cuts {
		end := len(text)
		if i+1 < len(cuts) {
			end = cuts[i+1]
		}
		if start < end {
			parts = append(parts, text[start:end])
		}
	}
	return parts
}

var costLinePattern = regexp.MustCompile(`(?m)^\s*(.*?):\**\s*([\d,]+\.?\d*)\s*EUR`)

// ParseCostBreakdown extracts `<label>: <number> EUR` lines from the cost
// section into a label → amount map.
func ParseCostBreakdown(costSection string) map[string]float64 {
	costs := make(map[string]float64)
	for _, match := range costLinePattern.FindAllStringSubmatch(costSection, -1) {
		label := strings.TrimSpace(strings.Trim(strings.TrimSpace(match[1]), "*"))
		value, err := strconv.ParseFloat(strings.ReplaceAll(match[2], ",", ""), 64)
		if err != nil {
			continue
		}
		costs[label] = value
	}
	return costs
}
