package planner

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed prompts/system.md
var systemPrompt string

//go:embed prompts/example_picnic.md
var picnicPlan string

//go:embed prompts/example_pool_party.md
var poolPartyPlan string

// example is a worked brief→plan pair shown to the model before the real brief.
type example struct {
	Brief EventBrief
	Plan  string
}

var examples = []example{
	{
		Brief: EventBrief{
			EventType:             "Picnic",
			GuestCount:            10,
			Budget:                200,
			Theme:                 "Cottagecore",
			Duration:              "3 hours",
			SpecialConsiderations: "park setting; shade preferred; vegetarian options",
		},
		Plan: picnicPlan,
	},
	{
		Brief: EventBrief{
			EventType:             "Pool Party",
			GuestCount:            50,
			Budget:                500,
			Theme:                 "4th of July",
			Duration:              "4 hours",
			SpecialConsiderations: "outdoors; safety supervision; simple DIY décor",
		},
		Plan: poolPartyPlan,
	},
}

// FormatBrief renders a brief in the shape used for both the examples and the user request.
func FormatBrief(b EventBrief) string {
	var sb strings.Builder
	sb.WriteString("# New Event Brief\n")
	fmt.Fprintf(&sb, "Event Type: %s\n", b.EventType)
	fmt.Fprintf(&sb, "Guest Count: %d\n", b.GuestCount)
	fmt.Fprintf(&sb, "Budget: $%s\n", FormatAmount(b.Budget))
	fmt.Fprintf(&sb, "Theme/Style: %s\n", b.Theme)
	fmt.Fprintf(&sb, "Duration: %s\n", b.Duration)
	fmt.Fprintf(&sb, "Special Considerations: %s\n\n", b.SpecialConsiderations)
	sb.WriteString("Please generate a fully structured plan following the required sections.")
	return sb.String()
}

// BuildPrompt assembles system instruction, both examples and the user's brief, separated
// by blank lines. Only the last part depends on b.
func BuildPrompt(b EventBrief) string {
	parts := []string{systemPrompt}
	for _, ex := range examples {
		parts = append(parts, FormatBrief(ex.Brief), ex.Plan)
	}
	parts = append(parts, FormatBrief(b))
	return strings.Join(parts, "\n\n")
}
