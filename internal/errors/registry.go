package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Configuration errors (B001-B099)

	"B001": {
		Category: CategoryConfig,
		Message:  "Invalid host pattern",
		Detail:   "Virtual host patterns must be valid regular expressions. They are matched as full anchored expressions against a single request attribute.",
	},
	"B002": {
		Category: CategoryConfig,
		Message:  "Malformed root URI",
		Detail:   "Directory roots must be absolute URIs such as file:///srv/data/ or s3://bucket/prefix/.",
	},
	"B003": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No berth.json was found in the working directory or at the given path.",
	},
	"B004": {
		Category: CategoryConfig,
		Message:  "Config file is not valid JSON",
	},
	"B005": {
		Category: CategoryConfig,
		Message:  "Unknown comparator",
		Detail:   "Supported listing comparators are \"alphanumeric\" and \"lexical\".",
	},
	"B006": {
		Category: CategoryConfig,
		Message:  "Host has no attachments",
		Detail:   "A virtual host needs at least one attachment or a default attachment to route anything.",
	},

	// Storage errors (B100-B199)

	"B100": {
		Category: CategoryStorage,
		Message:  "Unable to access the directory's resource",
	},
	"B101": {
		Category: CategoryStorage,
		Message:  "Unsupported root scheme",
		Detail:   "No entry store is registered for the root's URI scheme.",
	},

	// CLI errors (B200-B299)

	"B200": {
		Category: CategoryCLI,
		Message:  "Missing required argument",
	},
}
