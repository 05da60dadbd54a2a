package discovery

import (
	"context"
	"strings"
)

// RawDevice is one entry from the OS device inventory.
type RawDevice struct {
	Name       string
	InstanceID string
}

// DeviceLister queries the OS device inventory. The real implementation
// spawns one external process per call; tests inject a fake.
type DeviceLister interface {
	List(ctx context.Context) ([]RawDevice, error)
}

// ListerFunc adapts a function to the DeviceLister interface.
type ListerFunc func(ctx context.Context) ([]RawDevice, error)

// List calls f.
func (f ListerFunc) List(ctx context.Context) ([]RawDevice, error) {
	return f(ctx)
}

// parseDeviceLines splits line-oriented "name<TAB>instanceID" inventory
// output. Malformed lines are dropped, not fatal.
func parseDeviceLines(out string) []RawDevice {
	var devices []RawDevice

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			continue
		}

		name := strings.TrimSpace(fields[0])
		id := strings.TrimSpace(fields[1])
		if name == "" || id == "" {
			continue
		}

		devices = append(devices, RawDevice{Name: name, InstanceID: id})
	}

	return devices
}
