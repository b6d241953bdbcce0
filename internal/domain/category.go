package domain

import (
	"slices"
	"strings"
)

// Known category identifiers.
const (
	CategoryWriting   = "writing"
	CategoryCoding    = "coding"
	CategoryArt       = "art"
	CategoryFun       = "fun"
	CategoryBusiness  = "business"
	CategoryEducation = "education"

	// DefaultCategory is the profile used for any unrecognized category.
	DefaultCategory = CategoryFun
)

// CategoryProfile holds the role framing and the one-shot example used when
// composing an instruction for a category.
type CategoryProfile struct {
	RoleInstruction string
	ExampleDocument string
}

// Catalog is a read-only lookup table from category identifier to profile.
// A Catalog is never mutated after construction and is safe for concurrent use.
type Catalog struct {
	profiles map[string]CategoryProfile
	order    []string
	fallback string
}

var defaultCatalog = newDefaultCatalog()

// DefaultCatalog returns the process-wide catalog of the six known categories.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// NormalizeCategory trims surrounding whitespace and lower-cases the identifier.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// ResolveProfile returns the profile for category. Lookup is case- and
// whitespace-insensitive; unknown categories resolve to the default profile.
func (c *Catalog) ResolveProfile(category string) CategoryProfile {
	if profile, ok := c.profiles[NormalizeCategory(category)]; ok {
		return profile
	}
	return c.profiles[c.fallback]
}

// IsKnown reports whether category names one of the catalog's profiles.
func (c *Catalog) IsKnown(category string) bool {
	_, ok := c.profiles[NormalizeCategory(category)]
	return ok
}

// Categories returns the known identifiers in display order.
func (c *Catalog) Categories() []string {
	return slices.Clone(c.order)
}

// Default returns the identifier whose profile backs unknown categories.
func (c *Catalog) Default() string {
	return c.fallback
}

func newDefaultCatalog() *Catalog {
	profiles := map[string]CategoryProfile{
		CategoryWriting: {
			RoleInstruction: "You are an expert creative writer. Generate engaging writing prompts for narratives, essays, or analyses.",
			ExampleDocument: `{
  "title": "Dystopian City Story",
  "prompt": "Write a narrative set in a futuristic dystopian city where technology controls daily life. Explore themes of resistance, freedom, and identity.",
  "category": "writing"
}`,
		},
		CategoryCoding: {
			RoleInstruction: "You are an expert software engineer. Generate prompts for coding projects, algorithms, or system design tasks.",
			ExampleDocument: `{
  "title": "Weather App with React",
  "prompt": "Build a weather application using React and OpenWeather API. Include features like location-based forecasts, error handling, and responsive design.",
  "category": "coding"
}`,
		},
		CategoryArt: {
			RoleInstruction: "You are an expert artist. Generate prompts for digital art, illustrations, or creative designs.",
			ExampleDocument: `{
  "title": "Futuristic Cyberpunk Portrait",
  "prompt": "Create a digital artwork of a cyberpunk-inspired character with neon lights, futuristic armor, and a vibrant city background.",
  "category": "art"
}`,
		},
		CategoryFun: {
			RoleInstruction: "You are an expert game designer. Generate prompts for playful or interactive experiences.",
			ExampleDocument: `{
  "title": "Escape Room Challenge",
  "prompt": "Design a puzzle for a virtual escape room where players must solve math and logic challenges to unlock the next stage.",
  "category": "fun"
}`,
		},
		CategoryBusiness: {
			RoleInstruction: "You are a business strategist. Generate prompts for business plans, pitches, or strategy development.",
			ExampleDocument: `{
  "title": "AI Startup Business Plan",
  "prompt": "Develop a business plan for a startup leveraging AI to optimize supply chain logistics. Include market analysis, key features, and revenue strategy.",
  "category": "business"
}`,
		},
		CategoryEducation: {
			RoleInstruction: "You are an educator. Generate prompts for courses, lessons, or educational activities.",
			ExampleDocument: `{
  "title": "Intro to Machine Learning Course",
  "prompt": "Design a 6-week course introducing students to machine learning basics with Python. Include weekly topics, practical exercises, and assessments.",
  "category": "education"
}`,
		},
	}

	return &Catalog{
		profiles: profiles,
		order: []string{
			CategoryWriting,
			CategoryCoding,
			CategoryArt,
			CategoryFun,
			CategoryBusiness,
			CategoryEducation,
		},
		fallback: DefaultCategory,
	}
}
