package log

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldFile      = "file"
	FieldSheet     = "sheet"
	FieldRow       = "row"
	FieldReason    = "reason"
	FieldCount     = "count"
	FieldPartnerID = "partner_id"
	FieldPaymentID = "payment_id"
	FieldMode      = "mode"
	FieldPath      = "path"
)

// Component names.
const (
	ComponentApp      = "app"
	ComponentImporter = "importer"
	ComponentStore    = "store"
	ComponentCommands = "commands"
)

// Operation names.
const (
	OpIngest  = "ingest"
	OpLoad    = "load"
	OpAppend  = "append"
	OpReplace = "replace"
	OpDelete  = "delete"
	OpClear   = "clear"
	OpMigrate = "migrate"
)
