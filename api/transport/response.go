package transport

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// SpendPointsResponse is the success payload of a point redemption.
type SpendPointsResponse struct {
	Spent      int64 `json:"spent"`
	NewBalance int64 `json:"newBalance"`
}

// SpendTimeResponse is the success payload of a time redemption.
type SpendTimeResponse struct {
	Spent          int64  `json:"spent"`
	NewTimeBalance int64  `json:"newTimeBalance"`
	Activity       string `json:"activity,omitempty"`
}

// DeleteResponse acknowledges a hard delete.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}
