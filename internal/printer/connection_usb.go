package printer

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/gousb"

	"github.com/labelbridge/ppla-engine/internal/ppla"
)

// USBConnection represents a direct USB printer connection
type USBConnection struct {
	ctx      *gousb.Context
	device   *gousb.Device
	iface    *gousb.Interface
	endpoint *gousb.OutEndpoint
	mu       sync.Mutex
}

// ConnectUSB connects to a USB printer.
// Returns error if USB support is not available (libusb not installed)
func ConnectUSB(vid, pid uint16) (*USBConnection, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("failed to open USB device: %w", err)
	}

	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("device not found: %04X:%04X", vid, pid)
	}

	// Most Argox models expose their bulk OUT endpoint on interface 0,
	// alt setting 0, so try the simple route first
	iface, done, err := dev.DefaultInterface()
	if err != nil {
		dev.SetAutoDetach(true)
		iface, done, err = dev.DefaultInterface()
	}
	if err == nil {
		if ep := findOutEndpoint(iface); ep != nil {
			_ = done // released on Close
			return &USBConnection{ctx: ctx, device: dev, iface: iface, endpoint: ep}, nil
		}
		iface.Close()
	}

	// Fall back to walking every configuration and interface
	desc := dev.Desc
	var lastErr error

	for _, cfgDesc := range desc.Configs {
		cfg, err := dev.Config(cfgDesc.Number)
		if err != nil {
			lastErr = fmt.Errorf("failed to set config %d: %w", cfgDesc.Number, err)
			continue
		}

		for _, ifaceDesc := range cfgDesc.Interfaces {
			iface, err := cfg.Interface(ifaceDesc.Number, 0)
			if err != nil {
				// Some devices need a moment after a failed claim
				time.Sleep(100 * time.Millisecond)
				iface, err = cfg.Interface(ifaceDesc.Number, 0)
				if err != nil {
					lastErr = fmt.Errorf("failed to claim interface %d: %w", ifaceDesc.Number, err)
					continue
				}
			}

			if ep := findOutEndpoint(iface); ep != nil {
				return &USBConnection{ctx: ctx, device: dev, iface: iface, endpoint: ep}, nil
			}

			iface.Close()
		}

		cfg.Close()
	}

	dev.Close()
	ctx.Close()

	if lastErr != nil {
		return nil, fmt.Errorf("failed to connect to USB printer: %w", lastErr)
	}
	return nil, fmt.Errorf("no suitable interface/endpoint found for USB printer %04X:%04X", vid, pid)
}

func findOutEndpoint(iface *gousb.Interface) *gousb.OutEndpoint {
	for _, epDesc := range iface.Setting.Endpoints {
		if epDesc.Direction == gousb.EndpointDirectionOut {
			if ep, err := iface.OutEndpoint(epDesc.Number); err == nil {
				return ep
			}
		}
	}
	return nil
}

// Write sends data to the USB printer
func (c *USBConnection) Write(data []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.endpoint.Write(data)
}

// Print prints an image to the USB printer
func (c *USBConnection) Print(img image.Image, opts ppla.JobOptions) error {
	data := ppla.EncodeJob(img, opts)

	_, err := c.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write to USB printer: %w", err)
	}

	return nil
}

// Close closes the USB connection
func (c *USBConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.iface != nil {
		c.iface.Close()
	}

	if c.device != nil {
		c.device.Close()
	}

	if c.ctx != nil {
		c.ctx.Close()
	}

	return nil
}
