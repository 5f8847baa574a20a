package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	DocURL   string
}

const docBase = "https://vango.dev/docs/connect/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		DocURL:   docBase + "E120",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		DocURL:   docBase + "E122",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		DocURL:   docBase + "E141",
	},

	// ============================================
	// Binding Errors (E200-E219)
	// ============================================

	"E200": {
		Category: CategoryBinding,
		Message:  "Invalid stream spec",
		DocURL:   docBase + "E200",
	},
	"E210": {
		Category: CategoryBinding,
		Message:  "Stream binding setup failed",
		DocURL:   docBase + "E210",
	},
	"E211": {
		Category: CategoryStream,
		Message:  "Stream delivered an error",
		DocURL:   docBase + "E211",
	},
	"E212": {
		Category: CategoryRuntime,
		Message:  "Component panicked during render",
		DocURL:   docBase + "E212",
	},

	// ============================================
	// Runtime Errors (E220-E239)
	// ============================================

	"E220": {
		Category: CategoryRuntime,
		Message:  "Session closed",
		DocURL:   docBase + "E220",
	},
	"E221": {
		Category: CategoryRuntime,
		Message:  "Dispatched callback panicked",
		DocURL:   docBase + "E221",
	},

	// ============================================
	// Asset Errors (E300-E319)
	// ============================================

	"E300": {
		Category: CategoryAsset,
		Message:  "Asset not found",
		DocURL:   docBase + "E300",
	},
	"E301": {
		Category: CategoryAsset,
		Message:  "Asset backend failed",
		DocURL:   docBase + "E301",
	},

	// ============================================
	// CLI Errors (E400-E419)
	// ============================================

	"E400": {
		Category: CategoryCLI,
		Message:  "Invalid command usage",
		DocURL:   docBase + "E400",
	},
	"E401": {
		Category: CategoryCLI,
		Message:  "Unknown demo component",
		DocURL:   docBase + "E401",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
