// Package response defines the JSON envelope every API handler returns.
package response

// Response is the uniform wire envelope. Status discriminates success from
// error; Data and Error are mutually exclusive.
type Response struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Success wraps data in a success envelope.
func Success(statusCode int, data any) Response {
	return Response{Status: "success", StatusCode: statusCode, Data: data}
}

// Error wraps a message in an error envelope.
func Error(statusCode int, message string) Response {
	return Response{Status: "error", StatusCode: statusCode, Error: message}
}
