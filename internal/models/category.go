package models

import "strings"

// Category is a business-service category. Slug is the stored value,
// Label is what the conversation shows and the extractor infers.
type Category struct {
	Slug  string
	Label string
}

// Categories lists the current service categories
var Categories = []Category{
	{"meeting_management", "Calendar Management"},
	{"email_management", "Email Management"},
	{"research_data_collection", "Research & Analysis"},
	{"travel_planning", "Travel Planning"},
	{"project_management", "Project Management"},
	{"client_relationship_management", "Customer Support"},
	{"administrative_tasks", "Administrative Support"},
	{"social_media_management", "Social Media Management"},
	{"content_creation", "Content Creation"},
	{"technical_support", "Technical Support"},
	{"general_support", "General Support"},
	{"data_processing", "Data Processing"},
	{"financial_tasks", "Financial Tasks"},
}

// LegacyTaskTypes are the categories accepted by older clients
var LegacyTaskTypes = []string{"meeting", "reminder", "support", "scheduling", "other"}

// DefaultCategory is stored when a submission names no category
const DefaultCategory = "general_support"

// labelAliases maps alternative labels onto slugs
var labelAliases = map[string]string{
	"meeting management":             "meeting_management",
	"research & data collection":     "research_data_collection",
	"client relationship management": "client_relationship_management",
	"administrative tasks":           "administrative_tasks",
}

// NormalizeCategory maps a slug, legacy type or label (any case) onto its
// stored slug. Unknown values are returned trimmed and unchanged so the
// boundary validator can reject them.
func NormalizeCategory(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	lower := strings.ToLower(v)
	for _, c := range Categories {
		if lower == c.Slug || lower == strings.ToLower(c.Label) {
			return c.Slug
		}
	}
	for _, legacy := range LegacyTaskTypes {
		if lower == legacy {
			return legacy
		}
	}
	if slug, ok := labelAliases[lower]; ok {
		return slug
	}
	return v
}

// IsValidCategory reports whether slug is a current or legacy category
func IsValidCategory(slug string) bool {
	for _, c := range Categories {
		if slug == c.Slug {
			return true
		}
	}
	return IsLegacyTaskType(slug)
}

// IsLegacyTaskType reports whether t is one of the legacy task types
func IsLegacyTaskType(t string) bool {
	for _, legacy := range LegacyTaskTypes {
		if t == legacy {
			return true
		}
	}
	return false
}

// CategoryLabel returns the display label for a slug, or the slug itself
func CategoryLabel(slug string) string {
	for _, c := range Categories {
		if c.Slug == slug {
			return c.Label
		}
	}
	return slug
}

// ServiceSelectionMessage is the utterance a chat client sends when the user
// picks a service shortcut instead of typing
func ServiceSelectionMessage(label string) string {
	return "I need help with " + label
}
