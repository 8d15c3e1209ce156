package logger

// Structured field names shared by every component.
const (
	FieldRunID = "run_id"

	// provider pipeline
	FieldProvider  = "provider"
	FieldIndex     = "index"
	FieldKind      = "kind"
	FieldPhase     = "phase"
	FieldLocator   = "locator"
	FieldSymbol    = "symbol"
	FieldLanguage  = "language"
	FieldOperation = "operation"

	FieldDurationMS = "duration_ms"
	FieldError      = "error"
	FieldCount      = "count"
	FieldSize       = "size"

	// files
	FieldFile      = "file"
	FieldPath      = "path"
	FieldOutputDir = "output_dir"
	FieldSource    = "source"
)
