package dto

// Envelope is the common response wrapper for every endpoint.
type Envelope struct {
	Success          bool       `json:"success"`
	Data             any        `json:"data,omitempty"`
	Error            *ErrorBody `json:"error,omitempty"`
	ProcessingTimeMs int64      `json:"processing_time_ms"`
}

// ErrorBody pairs a machine-readable kind with a human-readable message.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
