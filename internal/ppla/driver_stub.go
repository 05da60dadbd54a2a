//go:build !windows

package ppla

// stubDriver stands in for the vendor DLL on platforms where it cannot be
// loaded. Every operation reports ErrDriverUnavailable so discovery falls
// through to the other strategies.
type stubDriver struct{}

// NewDriver returns a driver whose operations all fail with
// ErrDriverUnavailable. The vendor DLL only exists for Windows.
func NewDriver() Driver {
	return stubDriver{}
}

func (stubDriver) BufferLength() (int, error)              { return 0, ErrDriverUnavailable }
func (stubDriver) EnumDevices(buf []byte) error            { return ErrDriverUnavailable }
func (stubDriver) DeviceInfo(int) (string, string, error)  { return "", "", ErrDriverUnavailable }
func (stubDriver) OpenPath(string) error                   { return ErrDriverUnavailable }
func (stubDriver) OpenIndex(int, int) error                { return ErrDriverUnavailable }
func (stubDriver) Write([]byte) (int, error)               { return 0, ErrDriverUnavailable }
func (stubDriver) Close() error                            { return nil }
