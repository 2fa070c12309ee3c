package packing

import (
	"fmt"
	"strings"

	"github.com/pkordes/packlist/internal/domain"
	"github.com/pkordes/packlist/internal/weather"
)

const systemPrompt = "You are a smart travel assistant that writes detailed, practical packing lists."

// maxPrior caps how many earlier checklists go into the prompt.
const maxPrior = 3

// BuildPrompt renders the user prompt for a generation request.
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("Create a detailed packing list for a trip with these parameters:\n\n")
	fmt.Fprintf(&b, "Destination: %s\n", req.Destination)
	fmt.Fprintf(&b, "Purpose: %s (category: %s)\n", req.PurposeText, req.PurposeCategory)
	fmt.Fprintf(&b, "Duration: %d days\n", req.DurationDays)
	fmt.Fprintf(&b, "Start date: %s\n\n", req.StartDate.Format(domain.DateLayout))

	b.WriteString("Weather for the trip period:\n")
	if req.Weather == nil {
		b.WriteString("Weather information is not available.\n")
	} else if lines := weather.SummaryLines(*req.Weather); len(lines) == 0 {
		b.WriteString("Weather information is not available.\n")
	} else {
		for _, l := range lines {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}

	prior := req.Prior
	if len(prior) > maxPrior {
		prior = prior[:maxPrior]
	}
	if len(prior) > 0 {
		b.WriteString("\nThe user previously created these packing lists:\n")
		for i, p := range prior {
			fmt.Fprintf(&b, "\nList %d:\n", i+1)
			fmt.Fprintf(&b, "- Destination: %s\n", orUnknown(p.Destination))
			fmt.Fprintf(&b, "- Purpose: %s\n", orUnknown(p.Purpose))
			fmt.Fprintf(&b, "- Duration: %d days\n", p.DurationDays)
			if len(p.Groups) > 0 {
				b.WriteString("- Items:\n")
				for _, g := range p.Groups {
					fmt.Fprintf(&b, "  * %s: %s\n", g.Name, strings.Join(g.Items, ", "))
				}
			}
		}
	}

	b.WriteString(`
Make the list practical and complete, split into categories. Include the
basics as well as items specific to this trip's weather, purpose and length.
If the user has earlier lists, take their habits into account.

Answer strictly in JSON:
{"categories": {"Category 1": ["Item 1", "Item 2"], "Category 2": ["Item 1"]}}
`)
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
