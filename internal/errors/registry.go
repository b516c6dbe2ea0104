package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Warnings (W001-W099)
	// ============================================

	"W001": {
		Category: CategoryRender,
		Message:  "Keyed list sibling missing key",
		Detail:   "A child in a list that is diffed by key has no key. The pair is compared by position instead, which may recreate or patch the wrong node when the list is reordered.",
	},
	"W002": {
		Category: CategoryRender,
		Message:  "Duplicate key in keyed list",
		Detail:   "Two siblings share the same key. Only the last one is matched by key; the others are unmounted and remounted.",
	},

	// ============================================
	// Reactivity Errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryReactivity,
		Message:  "Cannot wrap a nil map",
		Detail:   "Reactive targets must wrap a non-nil map[string]any.",
	},
	"E002": {
		Category: CategoryReactivity,
		Message:  "Effect function is nil",
		Detail:   "An effect needs a function to run and track.",
	},

	// ============================================
	// Config Errors (E101-E119)
	// ============================================

	"E101": {
		Category: CategoryConfig,
		Message:  "Failed to read config file",
		Detail:   "The configuration file could not be read.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Failed to parse config file",
		Detail:   "The configuration file is not valid JSON or TOML.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A configuration value is out of range.",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No vmini.json or vmini.toml was found.",
	},

	// ============================================
	// Render Errors (E201-E299)
	// ============================================

	"E201": {
		Category: CategoryRender,
		Message:  "Unknown vnode shape",
		Detail:   "The vnode is neither a text or fragment marker nor an element or stateful component.",
	},
	"E202": {
		Category: CategoryHost,
		Message:  "Host adapter returned a nil node",
		Detail:   "CreateElement and CreateText must return a non-nil host node.",
	},
	"E203": {
		Category: CategoryRender,
		Message:  "Component has no render function",
		Detail:   "A component needs a Render function, or a Setup function returning one.",
	},
	"E204": {
		Category: CategoryRender,
		Message:  "App is already mounted",
		Detail:   "Mount was called on an app that is mounted. Unmount it first.",
	},
	"E205": {
		Category: CategoryRender,
		Message:  "App is not mounted",
		Detail:   "Unmount was called on an app that was never mounted or is already unmounted.",
	},

	// ============================================
	// Scheduler Errors (E301-E399)
	// ============================================

	"E301": {
		Category: CategoryScheduler,
		Message:  "Job panicked during flush",
		Detail:   "A queued job panicked. The panic was recovered and the remaining jobs of the pass still ran.",
	},
	"E302": {
		Category: CategoryScheduler,
		Message:  "Recursive update limit exceeded",
		Detail:   "Jobs kept re-queueing themselves across flush passes. This usually means a render writes state it also reads.",
	},

	// ============================================
	// CLI Errors (E401-E499)
	// ============================================

	"E401": {
		Category: CategoryCLI,
		Message:  "Invalid flag value",
		Detail:   "A command line flag has an invalid value.",
	},
}

// Codes returns every registered code in no particular order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
