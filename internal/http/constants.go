package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageTrips    = "trips"
	PageTripForm = "trip-form"
	PageProfile  = "profile"
)

// Template paths used for loading templates in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates; avoids per-call allocations
var contentTemplates = map[string]string{
	PageTrips:    "trips-content",
	PageTripForm: "trip-form-content",
	PageProfile:  "profile-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to trips-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "trips-content"
}
