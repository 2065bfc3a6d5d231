package response

import "fmt"

// statusText is the verbatim response-code description table from
// spec.md §6. Every implementer is required to reproduce it exactly.
var statusText = map[int]string{
	100: "Continue",
	200: "OK",
	201: "Created",
	202: "Accepted",
	204: "No content",
	300: "Multiple choices",
	301: "Moved permanently",
	302: "Found",
	400: "Bad request",
	403: "Forbidden",
	404: "Not found",
	405: "Method not allowed",
	408: "Request timeout",
	409: "Conflict",
	410: "Gone",
	411: "Length required",
	413: "Payload too large",
	417: "Expectation failed",
	500: "Internal server error",
	501: "Not implemented",
	503: "Service unavailable",
}

// StatusText returns the verbatim description for code, or
// "Unknown response code <n>" for anything not in the table.
func StatusText(code int) string {
	if s, ok := statusText[code]; ok {
		return s
	}
	return fmt.Sprintf("Unknown response code %d", code)
}
