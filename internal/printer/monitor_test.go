package printer

import "testing"

func TestDiffPrintersDetectsChanges(t *testing.T) {
	previous := map[string]*Printer{
		"a": {ID: "a", Description: "Gone"},
		"b": {ID: "b", Description: "Stays"},
	}
	current := map[string]*Printer{
		"b": {ID: "b", Description: "Stays"},
		"c": {ID: "c", Description: "New"},
	}

	added, removed := diffPrinters(previous, current)

	if len(added) != 1 || added[0].ID != "c" {
		t.Errorf("Expected only printer c to be added, got %v", added)
	}
	if len(removed) != 1 || removed[0].ID != "a" {
		t.Errorf("Expected only printer a to be removed, got %v", removed)
	}
}

func TestDiffPrintersNoChanges(t *testing.T) {
	snapshot := map[string]*Printer{"a": {ID: "a"}}

	added, removed := diffPrinters(snapshot, snapshot)

	if len(added) != 0 || len(removed) != 0 {
		t.Errorf("Expected no changes, got added=%v removed=%v", added, removed)
	}
}

func TestPrinterDetail(t *testing.T) {
	cases := []struct {
		printer *Printer
		want    string
	}{
		{&Printer{Type: "driver", Path: `\\?\usb#vid_1664&pid_2010#21GA0DA58205#{a5dcbf10-6530-11d2-901f-00c04fb951ed}`},
			`\\?\usb#vid_1664&pid_2010#21GA0DA58205#{a5dcbf10-6530-11d2-901f-00c04fb951ed}`},
		{&Printer{Type: "driver", Index: 2}, "driver index 2"},
		{&Printer{Type: "usb", VID: 0x1664, PID: 0x2010}, "usb 1664:2010"},
		{&Printer{Type: "serial", Device: "/dev/ttyUSB0"}, "/dev/ttyUSB0"},
		{&Printer{Type: "network", Host: "192.168.1.50", Port: 9100}, "192.168.1.50:9100"},
	}

	for _, c := range cases {
		if got := printerDetail(c.printer); got != c.want {
			t.Errorf("Expected detail %q for %s printer, got %q", c.want, c.printer.Type, got)
		}
	}
}
