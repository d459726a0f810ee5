package ingest

// Options represents ingest validation options
type Options struct {
	AllowedTypes []string `json:"allowed_types"` // Allowed sniffed MIME types
	MaxSize      int64    `json:"max_size"`      // Max file size in bytes
}

// DefaultOptions returns default ingest options
func DefaultOptions() *Options {
	return &Options{
		AllowedTypes: []string{
			"image/jpeg",
			"image/png",
			"image/gif",
			"image/webp",
			"image/bmp",
			"image/tiff",
		},
		MaxSize: 10 * 1024 * 1024, // 10MB
	}
}

// MergeOptions merges custom options with defaults
func MergeOptions(custom *Options) *Options {
	defaults := DefaultOptions()

	if custom == nil {
		return defaults
	}

	if len(custom.AllowedTypes) > 0 {
		defaults.AllowedTypes = custom.AllowedTypes
	}
	if custom.MaxSize > 0 {
		defaults.MaxSize = custom.MaxSize
	}

	return defaults
}

func (o *Options) allows(mediaType string) bool {
	for _, t := range o.AllowedTypes {
		if t == mediaType {
			return true
		}
	}
	return false
}
