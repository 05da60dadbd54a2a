package printer

import (
	"fmt"
	"image"
	"sync"

	"github.com/labelbridge/ppla-engine/internal/ppla"
)

// DriverConnection represents a printer opened through the vendor driver
type DriverConnection struct {
	driver ppla.Driver
	mu     sync.Mutex
}

// ConnectDriver opens a printer through the vendor driver. Every known
// interface path is tried in order first, since a path pins the exact
// device. When no path opens, the USB ports are tried by index from 1 up
// to indexLimit.
func ConnectDriver(driver ppla.Driver, paths []string, indexLimit int) (*DriverConnection, error) {
	var lastErr error

	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := driver.OpenPath(path); err != nil {
			lastErr = err
			continue
		}
		return &DriverConnection{driver: driver}, nil
	}

	for i := 1; i <= indexLimit; i++ {
		if err := driver.OpenIndex(ppla.SelectorUSB, i); err != nil {
			lastErr = err
			continue
		}
		return &DriverConnection{driver: driver}, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("failed to open driver printer: %w", lastErr)
	}
	return nil, fmt.Errorf("no driver printer could be opened")
}

// Write sends raw command data to the printer
func (c *DriverConnection) Write(data []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.driver.Write(data)
}

// Print prints an image to the printer
func (c *DriverConnection) Print(img image.Image, opts ppla.JobOptions) error {
	data := ppla.EncodeJob(img, opts)

	_, err := c.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write to driver printer: %w", err)
	}

	return nil
}

// Close closes the driver port
func (c *DriverConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.driver.Close()
}
