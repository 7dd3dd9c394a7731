package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldRequestID    = "request_id"
	FieldClientIP     = "client_ip"
	FieldMethod       = "method"
	FieldPath         = "path"
	FieldStatusCode   = "status_code"
	FieldDuration     = "duration_ms"
	FieldError        = "error"
	FieldExpenseID    = "expense_id"
	FieldExpenseTitle = "expense_title"
	FieldAmount       = "amount"
	FieldCategory     = "category"
	FieldDate         = "date"
	FieldBalance      = "balance"
	FieldExpenseCount = "expense_count"
	FieldStorageKey   = "storage_key"
	FieldBackend      = "backend"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentStore   = "store"
	ComponentStorage = "storage"
	ComponentCache   = "cache"
)
