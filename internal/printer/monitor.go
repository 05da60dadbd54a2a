package printer

import (
	"context"
	"fmt"
	"time"
)

// Monitor continuously monitors for printer changes
type Monitor struct {
	manager  *Manager
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewMonitor creates a new printer monitor
func NewMonitor(manager *Manager, interval time.Duration) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())

	return &Monitor{
		manager:  manager,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins monitoring for printer changes
func (m *Monitor) Start() {
	// Store initial state
	previousPrinters := make(map[string]*Printer)

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-m.ctx.Done():
				return
			case <-ticker.C:
				m.checkChanges(previousPrinters)
			}
		}
	}()
}

// Stop stops the monitor
func (m *Monitor) Stop() {
	m.cancel()
}

func (m *Monitor) checkChanges(previousPrinters map[string]*Printer) {
	// Detect current printers
	currentPrinters, err := m.manager.DetectPrinters()
	if err != nil {
		fmt.Printf("Warning: printer detection failed: %v\n", err)
		return
	}

	// Build current map
	currentMap := make(map[string]*Printer)
	for _, p := range currentPrinters {
		currentMap[p.ID] = p
	}

	added, removed := diffPrinters(previousPrinters, currentMap)

	for _, p := range added {
		fmt.Printf("Printer added: %s (%s)\n", p.Description, printerDetail(p))
		if m.manager.onPrinterAdded != nil {
			m.manager.onPrinterAdded(p)
		}
	}

	for _, p := range removed {
		fmt.Printf("Printer removed: %s (%s)\n", p.Description, printerDetail(p))
		if m.manager.onPrinterRemoved != nil {
			m.manager.onPrinterRemoved(p.ID)
		}
	}

	// Update previous state
	for id := range previousPrinters {
		delete(previousPrinters, id)
	}
	for id, p := range currentMap {
		previousPrinters[id] = p
	}
}

// diffPrinters compares two detection snapshots by printer ID.
func diffPrinters(previous, current map[string]*Printer) (added, removed []*Printer) {
	for id, p := range current {
		if _, exists := previous[id]; !exists {
			added = append(added, p)
		}
	}
	for id, p := range previous {
		if _, exists := current[id]; !exists {
			removed = append(removed, p)
		}
	}
	return added, removed
}

// printerDetail returns the transport-specific address of a printer for
// log lines.
func printerDetail(p *Printer) string {
	switch p.Type {
	case "driver":
		if p.Path != "" {
			return p.Path
		}
		return fmt.Sprintf("driver index %d", p.Index)
	case "usb":
		return fmt.Sprintf("usb %04x:%04x", p.VID, p.PID)
	case "serial":
		return p.Device
	case "network":
		return fmt.Sprintf("%s:%d", p.Host, p.Port)
	}
	return p.Type
}
