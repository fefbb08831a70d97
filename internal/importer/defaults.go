package importer

// Category-specific fallbacks applied when a source row carries no
// services or operating hours. Pure lookup tables, no side effects.

var defaultServicesByCategory = map[string][]string{
	"hvac-services":        {"AC Repair", "AC Installation", "Heating Repair", "Duct Cleaning", "Seasonal Tune-Up"},
	"plumbing-services":    {"Drain Cleaning", "Water Heater Repair", "Leak Detection", "Fixture Installation"},
	"electrical-services":  {"Panel Upgrades", "Outlet Installation", "Lighting Installation", "Wiring Repair"},
	"roofing-services":     {"Roof Inspection", "Roof Repair", "Tile Replacement", "Leak Repair"},
	"pest-control":         {"General Pest Treatment", "Termite Inspection", "Scorpion Control", "Rodent Removal"},
	"pool-services":        {"Weekly Cleaning", "Equipment Repair", "Acid Wash", "Green Pool Recovery"},
	"landscaping":          {"Lawn Maintenance", "Tree Trimming", "Irrigation Repair", "Desert Landscaping"},
	"garage-door-services": {"Spring Replacement", "Opener Repair", "New Door Installation"},
	"cleaning-services":    {"Residential Cleaning", "Deep Cleaning", "Move-Out Cleaning"},
}

var universalServices = []string{"General Services", "Free Estimates"}

// Trade businesses in the region near-universally run early hours on
// weekdays and close Sundays.
var defaultHoursByCategory = map[string]map[string]string{
	"hvac-services": {
		"monday": "7:00 AM - 6:00 PM", "tuesday": "7:00 AM - 6:00 PM", "wednesday": "7:00 AM - 6:00 PM",
		"thursday": "7:00 AM - 6:00 PM", "friday": "7:00 AM - 6:00 PM", "saturday": "8:00 AM - 2:00 PM",
		"sunday": "Closed",
	},
	"pool-services": {
		"monday": "6:00 AM - 4:00 PM", "tuesday": "6:00 AM - 4:00 PM", "wednesday": "6:00 AM - 4:00 PM",
		"thursday": "6:00 AM - 4:00 PM", "friday": "6:00 AM - 4:00 PM", "saturday": "Closed",
		"sunday": "Closed",
	},
	"landscaping": {
		"monday": "6:00 AM - 3:00 PM", "tuesday": "6:00 AM - 3:00 PM", "wednesday": "6:00 AM - 3:00 PM",
		"thursday": "6:00 AM - 3:00 PM", "friday": "6:00 AM - 3:00 PM", "saturday": "6:00 AM - 12:00 PM",
		"sunday": "Closed",
	},
}

var universalHours = map[string]string{
	"monday": "8:00 AM - 5:00 PM", "tuesday": "8:00 AM - 5:00 PM", "wednesday": "8:00 AM - 5:00 PM",
	"thursday": "8:00 AM - 5:00 PM", "friday": "8:00 AM - 5:00 PM", "saturday": "Closed",
	"sunday": "Closed",
}

// DefaultServices returns the fallback service list for a category.
func DefaultServices(categorySlug string) []string {
	if s, ok := defaultServicesByCategory[categorySlug]; ok {
		return append([]string(nil), s...)
	}
	return append([]string(nil), universalServices...)
}

// DefaultHours returns the fallback operating hours for a category.
func DefaultHours(categorySlug string) map[string]string {
	src := universalHours
	if h, ok := defaultHoursByCategory[categorySlug]; ok {
		src = h
	}
	out := make(map[string]string, len(src))
	for d, v := range src {
		out[d] = v
	}
	return out
}
