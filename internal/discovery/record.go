// Package discovery locates attached PPLA printers, trying the vendor
// driver's own enumeration surface before falling back to the OS device
// inventory.
package discovery

// DeviceRecord is one discovered candidate printer. A fresh list is
// produced on every discovery pass; records are not cached.
type DeviceRecord struct {
	// DisplayName is the vendor- or OS-supplied label. Not unique.
	DisplayName string

	// ConnectionPath is the OS device interface path used to open the
	// device directly. May be empty for records found by index probing.
	ConnectionPath string

	// OrdinalIndex is the 1-based position within this discovery pass.
	// It is only meaningful as a fallback connection key until the next
	// pass.
	OrdinalIndex int
}
