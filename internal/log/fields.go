package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldSender        = "sender"
	FieldChatID        = "chat_id"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldErrorType     = "error_type"
	FieldOperation     = "operation"
	FieldIntent        = "intent"
	FieldEntryKind     = "entry_kind"
	FieldDescription   = "description"
	FieldAmountCents   = "amount_cents"
	FieldCategory      = "category"
	FieldAccount       = "account"
	FieldDate          = "date"
	FieldInstallment   = "installment"
	FieldInstallments  = "installments"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentDispatch  = "dispatch"
	ComponentTelegram  = "telegram"
	ComponentDigest    = "digest"
	ComponentRateLimit = "rate_limit"
	ComponentTrace     = "trace"
	ComponentBackend   = "backend"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithRequestID adds request ID field
func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

// WithError adds error and error type fields
func (f LogFields) WithError(err error, errorType string) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorType] = errorType
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithIntent adds the classified intent name
func (f LogFields) WithIntent(name string) LogFields {
	f[FieldIntent] = name
	return f
}

// WithEntry adds ledger entry fields
func (f LogFields) WithEntry(kind, desc string, amountCents int64, date string) LogFields {
	f[FieldEntryKind] = kind
	f[FieldDescription] = desc
	f[FieldAmountCents] = amountCents
	f[FieldDate] = date
	return f
}

// WithExpenseDetails adds the expense-only entry fields
func (f LogFields) WithExpenseDetails(category, account string, installment bool, installments int) LogFields {
	f[FieldCategory] = category
	f[FieldAccount] = account
	f[FieldInstallment] = installment
	f[FieldInstallments] = installments
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, clientIP, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldClientIP] = clientIP
	f[FieldUserAgent] = userAgent
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64, success bool) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = success
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
