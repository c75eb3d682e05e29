package helpers

// OutputFormat represents different output formats
type OutputFormat string

const (
	OutputFormatAuto OutputFormat = "auto"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatTUI  OutputFormat = "tui"
)
