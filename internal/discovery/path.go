package discovery

import "strings"

// PathFromInstanceID reconstructs a device interface path from an OS
// device instance identifier by replacing the hierarchy separators and
// appending the interface GUID:
//
//	USB\VID_1664&PID_2010\21GA0DA58205
//	-> \\?\USB#VID_1664&PID_2010#21GA0DA58205#{a5dcbf10-...}
//
// This is a best-effort transform. It matches what Windows builds for the
// USB device interface class, but it is not guaranteed for every class or
// OS version; paths that the driver rejects simply fail the open and the
// caller moves on.
func PathFromInstanceID(instanceID, interfaceGUID string) string {
	return `\\?\` + strings.ReplaceAll(instanceID, `\`, "#") + "#" + interfaceGUID
}

// instanceClass returns the device class prefix of an instance identifier
// (the segment before the first separator).
func instanceClass(instanceID string) string {
	if i := strings.IndexByte(instanceID, '\\'); i >= 0 {
		return instanceID[:i]
	}
	return instanceID
}
