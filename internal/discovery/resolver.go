package discovery

import (
	"context"
	"log"
	"strings"

	"github.com/labelbridge/ppla-engine/internal/ppla"
)

// Resolver produces a best-effort list of attached PPLA printers. It
// tries the vendor driver's own enumeration first (cheap, no process
// spawn), then direct index probing, then the OS device inventory. The
// first strategy that yields at least one record wins; later strategies
// are never run in the same pass.
//
// Discover never fails: every per-strategy error is logged and treated as
// "this strategy found nothing", so an empty result can mean either no
// hardware or broken discovery. Callers that need to tell these apart
// have to probe a connection.
type Resolver struct {
	driver ppla.Driver
	lister DeviceLister
	cfg    Config
}

// NewResolver creates a Resolver over the given driver and OS lister.
func NewResolver(driver ppla.Driver, lister DeviceLister, cfg Config) *Resolver {
	return &Resolver{
		driver: driver,
		lister: lister,
		cfg:    cfg,
	}
}

// Config returns the discovery configuration.
func (r *Resolver) Config() Config {
	return r.cfg
}

// Discover runs the strategy chain and returns the first non-empty device
// list. Records are assigned dense 1-based ordinals valid only for this
// pass.
func (r *Resolver) Discover(ctx context.Context) []DeviceRecord {
	if records, err := r.nativeEnum(); err != nil {
		log.Printf("Warning: native enumeration failed: %v", err)
	} else if len(records) > 0 {
		return records
	}

	// The info-by-index call can succeed even when the buffer-size call
	// reports nothing, depending on which driver stack owns the device.
	if records, err := r.indexProbe(); err != nil {
		log.Printf("Warning: index probe failed: %v", err)
	} else if len(records) > 0 {
		return records
	}

	records, err := r.osQuery(ctx)
	if err != nil {
		log.Printf("Warning: OS device query failed: %v", err)
		return nil
	}
	return records
}

// nativeEnum asks the driver for its delimited device-name list and
// resolves each slot to a name/path pair. Only records that carry a
// connection path are kept.
func (r *Resolver) nativeEnum() ([]DeviceRecord, error) {
	size, err := r.driver.BufferLength()
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		// Nothing enumerable through the driver here.
		return nil, nil
	}

	buf := make([]byte, size+1)
	if err := r.driver.EnumDevices(buf); err != nil {
		return nil, err
	}

	names := splitNames(buf)

	var records []DeviceRecord
	for i := range names {
		name, path, err := r.driver.DeviceInfo(i + 1)
		if err != nil {
			// No device at this index.
			continue
		}
		if path == "" {
			continue
		}
		if name == "" {
			name = names[i]
		}

		records = append(records, DeviceRecord{
			DisplayName:    name,
			ConnectionPath: path,
			OrdinalIndex:   len(records) + 1,
		})
	}

	return records, nil
}

// indexProbe queries device info for ordinals 1..ProbeLimit directly,
// stopping at the first failure.
func (r *Resolver) indexProbe() ([]DeviceRecord, error) {
	var records []DeviceRecord

	for i := 1; i <= r.cfg.ProbeLimit; i++ {
		name, path, err := r.driver.DeviceInfo(i)
		if err != nil {
			break
		}

		records = append(records, DeviceRecord{
			DisplayName:    name,
			ConnectionPath: path,
			OrdinalIndex:   i,
		})
	}

	return records, nil
}

// osQuery asks the OS device inventory and reconstructs connection paths
// from instance identifiers.
func (r *Resolver) osQuery(ctx context.Context) ([]DeviceRecord, error) {
	if r.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.QueryTimeout)
		defer cancel()
	}

	devices, err := r.lister.List(ctx)
	if err != nil {
		return nil, err
	}

	vendor := strings.ToLower(r.cfg.VendorSubstring)

	var records []DeviceRecord
	for _, d := range devices {
		if vendor != "" && !strings.Contains(strings.ToLower(d.Name), vendor) {
			continue
		}
		if !r.classAllowed(instanceClass(d.InstanceID)) {
			continue
		}

		records = append(records, DeviceRecord{
			DisplayName:    d.Name,
			ConnectionPath: PathFromInstanceID(d.InstanceID, r.cfg.InterfaceGUID),
			OrdinalIndex:   len(records) + 1,
		})
	}

	return records, nil
}

func (r *Resolver) classAllowed(class string) bool {
	if len(r.cfg.AllowedClasses) == 0 {
		return true
	}
	for _, allowed := range r.cfg.AllowedClasses {
		if strings.EqualFold(class, allowed) {
			return true
		}
	}
	return false
}

// splitNames splits the driver's "\r\n"-delimited name buffer, dropping
// trailing NULs and empty tokens.
func splitNames(buf []byte) []string {
	end := len(buf)
	for end > 0 && buf[end-1] == 0 {
		end--
	}

	var names []string
	for _, tok := range strings.Split(string(buf[:end]), "\r\n") {
		if tok = strings.TrimSpace(tok); tok != "" {
			names = append(names, tok)
		}
	}
	return names
}
