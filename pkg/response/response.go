package response

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Warning    string      `json:"warning,omitempty"` // operation applied, but follow-up needed
	Error      string      `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// SuccessWithWarning returns a success response carrying a warning for the
// caller, e.g. an approval that was recorded while its cascading effect failed.
func SuccessWithWarning(statusCode int, data interface{}, warning string) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
		Warning:    warning,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}
