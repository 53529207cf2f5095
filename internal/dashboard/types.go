package dashboard

import "github.com/kalambet/pathcraft/internal/career"

// Section identifies a part of the dashboard page.
type Section string

const (
	SectionForm         Section = "form-section"
	SectionResults      Section = "results-section"
	SectionTestimonials Section = "testimonials-section"
)

// NavItem is an entry of the sidebar navigation.
type NavItem struct {
	ID    Section
	Label string
}

// Navigation lists the sidebar entries in display order.
var Navigation = []NavItem{
	{ID: SectionForm, Label: "Career Analysis"},
	{ID: SectionResults, Label: "AI Recommendations"},
	{ID: SectionTestimonials, Label: "Success Stories"},
}

func validSection(s Section) bool {
	for _, n := range Navigation {
		if n.ID == s {
			return true
		}
	}
	return false
}

// View is a snapshot of the dashboard state. It shares no memory with the
// controller, so callers may keep or modify it freely.
type View struct {
	Profile         career.Profile         `json:"profile"`
	Recommendations career.Recommendations `json:"recommendations"`
	ActiveSection   Section                `json:"active_section"`
	SidebarOpen     bool                   `json:"sidebar_open"`
	DarkMode        bool                   `json:"dark_mode"`
	LoggedIn        bool                   `json:"logged_in"`
	Loading         bool                   `json:"loading"`
}
