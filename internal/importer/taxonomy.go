package importer

import (
	"fmt"
	"sort"
)

// Category is one taxonomy entry. Higher priority wins when keywords
// from multiple entries appear in the same text.
type Category struct {
	Slug        string
	DisplayName string
	Keywords    []string
	Priority    int
}

// taxonomy is the fixed list of service categories. Order here is not
// load-bearing: the list is priority-sorted at init and the unique-slug
// invariant is enforced there.
var taxonomy = []Category{
	{
		Slug:        "hvac-services",
		DisplayName: "HVAC Services",
		Keywords:    []string{"hvac", "air conditioning", "heating", "cooling", "ac repair", "furnace", "heat pump", "refrigeration"},
		Priority:    100,
	},
	{
		Slug:        "plumbing-services",
		DisplayName: "Plumbing Services",
		Keywords:    []string{"plumber", "plumbing", "drain", "water heater", "sewer", "leak repair", "repipe"},
		Priority:    95,
	},
	{
		Slug:        "electrical-services",
		DisplayName: "Electrical Services",
		Keywords:    []string{"electrician", "electrical", "wiring", "panel upgrade", "lighting install"},
		Priority:    90,
	},
	{
		Slug:        "roofing-services",
		DisplayName: "Roofing Services",
		Keywords:    []string{"roofing", "roofer", "roof repair", "shingle", "tile roof", "flat roof"},
		Priority:    85,
	},
	{
		Slug:        "pest-control",
		DisplayName: "Pest Control",
		Keywords:    []string{"pest control", "exterminator", "termite", "scorpion", "rodent", "bed bug"},
		Priority:    80,
	},
	{
		Slug:        "pool-services",
		DisplayName: "Pool Services",
		Keywords:    []string{"pool service", "pool cleaning", "pool repair", "pool maintenance", "spa repair"},
		Priority:    75,
	},
	{
		Slug:        "landscaping",
		DisplayName: "Landscaping",
		Keywords:    []string{"landscaping", "landscape", "lawn care", "tree trimming", "irrigation", "xeriscape"},
		Priority:    70,
	},
	{
		Slug:        "garage-door-services",
		DisplayName: "Garage Door Services",
		Keywords:    []string{"garage door", "garage opener", "overhead door"},
		Priority:    65,
	},
	{
		Slug:        "cleaning-services",
		DisplayName: "Cleaning Services",
		Keywords:    []string{"cleaning", "maid", "janitorial", "carpet clean", "window wash"},
		Priority:    60,
	},
	{
		Slug:        "handyman-services",
		DisplayName: "Handyman Services",
		Keywords:    []string{"handyman", "home repair", "general repair", "remodel"},
		Priority:    55,
	},
}

var maxPriority int

func init() {
	seen := make(map[string]bool, len(taxonomy))
	for _, c := range taxonomy {
		if seen[c.Slug] {
			panic(fmt.Sprintf("importer: duplicate taxonomy slug %q", c.Slug))
		}
		seen[c.Slug] = true
		if c.Priority > maxPriority {
			maxPriority = c.Priority
		}
	}
	sort.SliceStable(taxonomy, func(i, j int) bool {
		return taxonomy[i].Priority > taxonomy[j].Priority
	})
}

// Taxonomy returns the priority-sorted category list.
func Taxonomy() []Category { return taxonomy }

// CategoryBySlug looks up a taxonomy entry by slug.
func CategoryBySlug(slug string) (Category, bool) {
	for _, c := range taxonomy {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}
