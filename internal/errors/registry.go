package errors

import "sort"

// Template defines a registered error code.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

var registry = map[string]Template{
	// ============================================
	// Routing and hooks (V100-V199)
	// ============================================

	"V100": {
		Category: CategoryRouting,
		Message:  "Invalid route table",
		Detail:   "Every route needs a Render function. Patterns are compiled once when the app starts.",
	},
	"V101": {
		Category: CategoryHook,
		Message:  "Loader failed",
		Detail:   "A loader returned an error. The request is answered with a 500 page and remaining loaders are skipped.",
	},
	"V102": {
		Category: CategoryHook,
		Message:  "Action failed",
		Detail:   "An action returned an error. The user is redirected back with a failure flash.",
	},
	"V103": {
		Category: CategoryRender,
		Message:  "Render failed",
		Detail:   "The view of the matched route could not be rendered.",
	},
	"V104": {
		Category: CategoryHook,
		Message:  "Hook panicked",
		Detail:   "A loader, action or render function panicked. The panic was recovered.",
	},
	"V105": {
		Category: CategorySecurity,
		Message:  "CSRF verification failed",
		Detail:   "The form token did not match the CSRF cookie, or the request origin was not allowed.",
	},

	// ============================================
	// Configuration (V200-V299)
	// ============================================

	"V200": {
		Category: CategoryConfig,
		Message:  "Config file unreadable",
		Detail:   "The configuration file exists but could not be read.",
	},
	"V201": {
		Category: CategoryConfig,
		Message:  "Config file invalid",
		Detail:   "The configuration file could not be parsed. vitrio.json must be JSON and vitrio.yaml must be YAML.",
	},
	"V202": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "The port must be between 1 and 65535.",
	},
	"V203": {
		Category: CategoryConfig,
		Message:  "Invalid base path",
		Detail:   "The base path must start with '/' and must not end with '/'.",
	},
	"V204": {
		Category: CategoryConfig,
		Message:  "Invalid origin",
		Detail:   "The origin must be an absolute http or https URL without a path, e.g. https://example.com.",
	},
	"V205": {
		Category: CategoryConfig,
		Message:  "Conflicting asset sources",
		Detail:   "Configure either an assets directory or an S3 bucket, not both.",
	},

	// ============================================
	// Assets (V300-V399)
	// ============================================

	"V300": {
		Category: CategoryAssets,
		Message:  "Asset not found",
	},
	"V301": {
		Category: CategoryAssets,
		Message:  "Asset store failure",
		Detail:   "The asset store returned an error other than not-found.",
	},
	"V302": {
		Category: CategoryAssets,
		Message:  "Invalid asset manifest",
		Detail:   "The asset manifest must be a JSON object mapping source names to fingerprinted names.",
	},
}

// Codes returns all registered error codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template for an error code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
