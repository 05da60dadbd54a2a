package discovery

import "time"

// Config carries the discovery constants. Defaults match the Argox PPLA
// hardware this engine was written for; tests substitute their own.
type Config struct {
	// VendorSubstring filters OS device inventory results by friendly
	// name.
	VendorSubstring string

	// ProbeLimit bounds the direct index probe (strategy 2).
	ProbeLimit int

	// IndexOpenLimit bounds the index-based connect fallback.
	IndexOpenLimit int

	// InterfaceGUID is appended when reconstructing a device interface
	// path from an OS instance identifier. The value is the standard USB
	// device interface class.
	InterfaceGUID string

	// AllowedClasses restricts OS inventory results to these device
	// class prefixes of the instance identifier.
	AllowedClasses []string

	// QueryTimeout bounds the external OS inventory query.
	QueryTimeout time.Duration
}

// DefaultConfig returns the production discovery configuration.
func DefaultConfig() Config {
	return Config{
		VendorSubstring: "Argox",
		ProbeLimit:      5,
		IndexOpenLimit:  3,
		InterfaceGUID:   "{a5dcbf10-6530-11d2-901f-00c04fb951ed}",
		AllowedClasses:  []string{"USB", "USBPRINT"},
		QueryTimeout:    10 * time.Second,
	}
}
