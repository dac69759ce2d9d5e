package config

const (
	// MaxPageTitleLength is the maximum length for page titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxPageTitleLength = 255

	// MinPageTitleLength is the minimum length for page titles.
	MinPageTitleLength = 1
)
