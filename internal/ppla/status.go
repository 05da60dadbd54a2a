package ppla

import "fmt"

// StatusError wraps a non-zero status code returned by a vendor driver
// call. The code-to-message table is static; unknown codes get a generic
// message.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ppla: %s failed: %s (code %d)", e.Op, statusMessage(e.Code), e.Code)
}

// statusMessages maps the vendor driver's documented return codes.
var statusMessages = map[int]string{
	0:  "success",
	1:  "port is not open",
	2:  "port is already open",
	3:  "open port failed",
	4:  "write to port failed",
	5:  "read from port failed",
	10: "invalid parameter",
	11: "buffer too small",
	20: "no device at index",
	21: "device path not found",
	30: "printer not ready",
	31: "printer out of media",
	32: "printer head open",
}

func statusMessage(code int) string {
	if msg, ok := statusMessages[code]; ok {
		return msg
	}
	return "unknown driver error"
}

// statusErr converts a driver return code to an error, treating zero as
// success.
func statusErr(op string, code int) error {
	if code == 0 {
		return nil
	}
	return &StatusError{Op: op, Code: code}
}
