package guide

import "strings"

// DefaultTip is returned for labels without a dedicated tip.
const DefaultTip = "Perform regular vehicle check-ups for best performance."

var tips = map[string]string{
	"battery replacement": "Check battery terminals, clean corrosion, and replace battery every 3–4 years.",
	"engine repair":       "Change oil regularly, monitor engine noise, and visit a mechanic if warning lights appear.",
	"towing":              "Use proper tow hooks, avoid exceeding weight limits, and ensure brake lights work.",
	"brake service":       "Inspect brake pads regularly and replace them if they are thin or squealing.",
	"oil change":          "Replace oil every 5000 km or as recommended by the manufacturer.",
	"tire service":        "Check tire pressure monthly and replace worn or punctured tires.",
	"general_service":     DefaultTip,
}

// For returns the maintenance tip for a service category, case-insensitively.
func For(label string) string {
	if tip, ok := tips[strings.ToLower(label)]; ok {
		return tip
	}
	return DefaultTip
}
