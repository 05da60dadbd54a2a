// Package ppla binds the Argox PPLA vendor driver (Winppla.dll) and
// generates PPLA command streams for driverless transports.
package ppla

import "errors"

// Port selectors accepted by OpenIndex. These mirror the vendor driver's
// port selection values.
const (
	SelectorUSB = 1
	SelectorLPT = 2
	SelectorCOM = 3
)

// ErrDriverUnavailable is returned by every operation when the vendor DLL
// cannot be loaded on this platform.
var ErrDriverUnavailable = errors.New("ppla: vendor driver not available on this platform")

// Driver is the capability surface this engine consumes from the vendor
// DLL. The driver tracks its own session state internally; Open* and Close
// are one-shot calls with no observable intermediate state, and at most one
// session is assumed active at a time.
type Driver interface {
	// BufferLength reports the buffer size required to enumerate attached
	// devices. Zero means nothing is enumerable through the driver.
	BufferLength() (int, error)

	// EnumDevices fills buf with device names delimited by "\r\n".
	EnumDevices(buf []byte) error

	// DeviceInfo returns the display name and connection path for the
	// device at the given 1-based index. A non-nil error means no device
	// is present at that index.
	DeviceInfo(index int) (name, path string, err error)

	// OpenPath opens a session using an OS device interface path
	// (\\?\USB#VID_xxxx&PID_xxxx#serial#{guid}).
	OpenPath(path string) error

	// OpenIndex opens a session by port selector and 1-based index.
	OpenIndex(selector, index int) error

	// Write sends a raw PPLA command stream through the open session.
	Write(data []byte) (int, error)

	// Close ends the current session. Safe to call without an open session.
	Close() error
}
