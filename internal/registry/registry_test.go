package registry

import (
	"os"
	"testing"
)

func TestNew(t *testing.T) {
	tmpFile := "/tmp/test_registry.json"
	defer os.Remove(tmpFile)

	reg, err := New(tmpFile)
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}

	if reg == nil {
		t.Fatal("Registry is nil")
	}
}

func TestGetPrinterID_Driver(t *testing.T) {
	tmpFile := "/tmp/test_registry_driver.json"
	defer os.Remove(tmpFile)

	reg, _ := New(tmpFile)

	info := PrinterInfo{
		Type:        "driver",
		Path:        `\\?\USB#VID_1664&PID_2010#21GA0DA58205#{a5dcbf10-6530-11d2-901f-00c04fb951ed}`,
		Description: "Argox OS-214 plus",
	}

	// First call should create new ID
	id1 := reg.GetPrinterID(info)
	if id1 == "" {
		t.Error("Expected non-empty printer ID")
	}

	// Second call with same info should return same ID
	id2 := reg.GetPrinterID(info)
	if id1 != id2 {
		t.Errorf("Expected same ID for same printer: %s != %s", id1, id2)
	}
}

func TestGetPrinterID_USB(t *testing.T) {
	tmpFile := "/tmp/test_registry_usb.json"
	defer os.Remove(tmpFile)

	reg, _ := New(tmpFile)

	info := PrinterInfo{
		Type:        "usb",
		VID:         0x1664,
		PID:         0x2010,
		Description: "Argox label printer",
	}

	id1 := reg.GetPrinterID(info)
	if id1 == "" {
		t.Error("Expected non-empty printer ID")
	}

	id2 := reg.GetPrinterID(info)
	if id1 != id2 {
		t.Errorf("Expected same ID for same printer: %s != %s", id1, id2)
	}
}

func TestGetPrinterID_Network(t *testing.T) {
	tmpFile := "/tmp/test_registry_network.json"
	defer os.Remove(tmpFile)

	reg, _ := New(tmpFile)

	info := PrinterInfo{
		Type:        "network",
		Host:        "192.168.1.100",
		Port:        9100,
		Description: "Network Printer",
	}

	id := reg.GetPrinterID(info)
	if id == "" {
		t.Error("Expected non-empty printer ID")
	}
}

func TestSetAndGetPrinterName(t *testing.T) {
	tmpFile := "/tmp/test_registry_name.json"
	defer os.Remove(tmpFile)

	reg, _ := New(tmpFile)

	info := PrinterInfo{
		Type:        "usb",
		VID:         0x1664,
		PID:         0x2010,
		Description: "Test Printer",
	}

	id := reg.GetPrinterID(info)

	success := reg.SetPrinterName(id, "Warehouse Printer")
	if !success {
		t.Error("Expected successful name set")
	}

	name := reg.GetPrinterName(id)
	if name != "Warehouse Printer" {
		t.Errorf("Expected 'Warehouse Printer', got '%s'", name)
	}
}

func TestGetPrinterInfo(t *testing.T) {
	tmpFile := "/tmp/test_registry_info.json"
	defer os.Remove(tmpFile)

	reg, _ := New(tmpFile)

	info := PrinterInfo{
		Type:        "driver",
		Path:        `\\?\USB#VID_1664&PID_2010#XYZ#{a5dcbf10-6530-11d2-901f-00c04fb951ed}`,
		Description: "Test Printer",
	}

	id := reg.GetPrinterID(info)
	reg.SetPrinterName(id, "Shipping Desk")

	entry := reg.GetPrinterInfo(id)
	if entry == nil {
		t.Fatal("Expected printer info, got nil")
	}

	if entry.Type != "driver" {
		t.Errorf("Expected type 'driver', got '%s'", entry.Type)
	}
	if entry.Path != info.Path {
		t.Errorf("Expected path to be stored, got '%s'", entry.Path)
	}
	if entry.Name != "Shipping Desk" {
		t.Errorf("Expected name 'Shipping Desk', got '%s'", entry.Name)
	}
}

func TestRemovePrinter(t *testing.T) {
	tmpFile := "/tmp/test_registry_remove.json"
	defer os.Remove(tmpFile)

	reg, _ := New(tmpFile)

	info := PrinterInfo{
		Type:        "usb",
		VID:         0x1234,
		PID:         0x5678,
		Description: "Test",
	}

	id := reg.GetPrinterID(info)

	success := reg.RemovePrinter(id)
	if !success {
		t.Error("Expected successful removal")
	}

	entry := reg.GetPrinterInfo(id)
	if entry != nil {
		t.Error("Expected nil after removal")
	}
}

func TestPersistence(t *testing.T) {
	tmpFile := "/tmp/test_registry_persist.json"
	defer os.Remove(tmpFile)

	// Create registry and add printer
	reg1, _ := New(tmpFile)
	info := PrinterInfo{
		Type:        "driver",
		Path:        `\\?\USB#VID_1664&PID_2010#PERSIST#{a5dcbf10-6530-11d2-901f-00c04fb951ed}`,
		Description: "Persistent Printer",
	}
	id1 := reg1.GetPrinterID(info)
	reg1.SetPrinterName(id1, "Persistent Name")

	// Create new registry instance (simulating app restart)
	reg2, _ := New(tmpFile)

	// Should get same ID
	id2 := reg2.GetPrinterID(info)
	if id1 != id2 {
		t.Errorf("Expected same ID after reload: %s != %s", id1, id2)
	}

	// Should have same name
	name := reg2.GetPrinterName(id2)
	if name != "Persistent Name" {
		t.Errorf("Expected name to persist, got '%s'", name)
	}
}

func TestGetAll(t *testing.T) {
	tmpFile := "/tmp/test_registry_getall.json"
	defer os.Remove(tmpFile)

	reg, _ := New(tmpFile)

	info1 := PrinterInfo{Type: "usb", VID: 0x1664, PID: 0x2010, Description: "Printer 1"}
	info2 := PrinterInfo{Type: "serial", Device: "/dev/tty1", Description: "Printer 2"}

	reg.GetPrinterID(info1)
	reg.GetPrinterID(info2)

	all := reg.GetAll()
	if len(all) != 2 {
		t.Errorf("Expected 2 printers, got %d", len(all))
	}
}
