package config

const (
	// MaxFolderNameLength is the maximum length for folder names, counted
	// in characters after trimming surrounding whitespace.
	MaxFolderNameLength = 100

	// MaxImageNameLength is the maximum length for image names.
	// Same as folder names for consistency.
	MaxImageNameLength = 100

	// DefaultMaxUploadBytes caps a single image upload (10 MiB).
	DefaultMaxUploadBytes int64 = 10 << 20

	// MaxJSONBodyBytes caps JSON request bodies.
	MaxJSONBodyBytes int64 = 1 << 20
)
