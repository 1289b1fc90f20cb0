package hit

// Fields maps friendly source keys to the backend field names used in queries
type Fields map[string]string

// DefaultFields returns the built-in rename table
func DefaultFields() Fields {
	return Fields{
		"timestamp":     "@timestamp",
		"eventDataset":  "event.dataset",
		"logLevel":      "log.level",
		"logLogger":     "log.logger",
		"serviceName":   "service.name",
		"transactionId": "transaction.id",
		"traceId":       "trace.id",
	}
}

// NewFields merges overrides over the built-in table
func NewFields(overrides map[string]string) Fields {
	fields := DefaultFields()
	for name, target := range overrides {
		fields[name] = target
	}

	return fields
}

// Backend returns the backend name for key, or key itself when unmapped
func (f Fields) Backend(key string) string {
	if target, ok := f[key]; ok {
		return target
	}

	return key
}
