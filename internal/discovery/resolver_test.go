package discovery

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// fakeDriver simulates the vendor driver's enumeration surface.
type fakeDriver struct {
	bufferLen int
	bufferErr error
	enumText  string
	enumErr   error

	// devices maps a 1-based index to a name/path pair.
	devices map[int][2]string

	infoCalls int
}

func (d *fakeDriver) BufferLength() (int, error) {
	return d.bufferLen, d.bufferErr
}

func (d *fakeDriver) EnumDevices(buf []byte) error {
	if d.enumErr != nil {
		return d.enumErr
	}
	copy(buf, d.enumText)
	return nil
}

func (d *fakeDriver) DeviceInfo(index int) (string, string, error) {
	d.infoCalls++
	dev, ok := d.devices[index]
	if !ok {
		return "", "", errors.New("no device at index")
	}
	return dev[0], dev[1], nil
}

func (d *fakeDriver) OpenPath(string) error     { return errors.New("not open for business") }
func (d *fakeDriver) OpenIndex(int, int) error  { return errors.New("not open for business") }
func (d *fakeDriver) Write([]byte) (int, error) { return 0, errors.New("no session") }
func (d *fakeDriver) Close() error              { return nil }

// countingLister records how many times the OS inventory was queried.
type countingLister struct {
	devices []RawDevice
	err     error
	calls   int
}

func (l *countingLister) List(ctx context.Context) ([]RawDevice, error) {
	l.calls++
	return l.devices, l.err
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.QueryTimeout = 0
	return cfg
}

func TestDiscoverNoDevices(t *testing.T) {
	driver := &fakeDriver{}
	lister := &countingLister{}

	r := NewResolver(driver, lister, testConfig())
	records := r.Discover(context.Background())

	if len(records) != 0 {
		t.Errorf("Expected no records, got %d", len(records))
	}
}

func TestDiscoverNativeEnumeration(t *testing.T) {
	driver := &fakeDriver{
		bufferLen: 64,
		enumText:  "Argox P4-250\r\nArgox A-200",
		devices: map[int][2]string{
			1: {"Argox P4-250", `\\?\USB#VID_1664&PID_2010#21GA0DA58205#{guid}`},
			2: {"Argox A-200", `\\?\USB#VID_1664&PID_3230#33XB0011#{guid}`},
		},
	}
	lister := &countingLister{}

	r := NewResolver(driver, lister, testConfig())
	records := r.Discover(context.Background())

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	// One device-info lookup per name token.
	if driver.infoCalls != 2 {
		t.Errorf("Expected 2 device-info lookups, got %d", driver.infoCalls)
	}

	// The OS inventory must never be queried when native enumeration
	// succeeds.
	if lister.calls != 0 {
		t.Errorf("Expected no OS inventory calls, got %d", lister.calls)
	}

	for i, rec := range records {
		if rec.OrdinalIndex != i+1 {
			t.Errorf("Expected dense ordinals, record %d has ordinal %d", i, rec.OrdinalIndex)
		}
		if rec.ConnectionPath == "" {
			t.Errorf("Record %d missing connection path", i)
		}
	}
}

func TestDiscoverNativeSkipsPathlessSlots(t *testing.T) {
	driver := &fakeDriver{
		bufferLen: 64,
		enumText:  "Argox P4-250\r\nGhost Device",
		devices: map[int][2]string{
			1: {"Argox P4-250", `\\?\USB#VID_1664&PID_2010#21GA0DA58205#{guid}`},
			2: {"Ghost Device", ""},
		},
	}

	r := NewResolver(driver, &countingLister{}, testConfig())
	records := r.Discover(context.Background())

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].OrdinalIndex != 1 {
		t.Errorf("Expected dense ordinal 1, got %d", records[0].OrdinalIndex)
	}
}

func TestDiscoverIndexProbeFallback(t *testing.T) {
	// Buffer-size call reports nothing but info-by-index still works.
	driver := &fakeDriver{
		bufferLen: 0,
		devices: map[int][2]string{
			1: {"Argox P4-250", `\\?\USB#VID_1664&PID_2010#21GA0DA58205#{guid}`},
		},
	}
	lister := &countingLister{}

	r := NewResolver(driver, lister, testConfig())
	records := r.Discover(context.Background())

	if len(records) != 1 {
		t.Fatalf("Expected 1 record from index probe, got %d", len(records))
	}
	if lister.calls != 0 {
		t.Errorf("Expected no OS inventory calls, got %d", lister.calls)
	}
}

func TestDiscoverIndexProbeHonorsLimit(t *testing.T) {
	devices := make(map[int][2]string)
	for i := 1; i <= 10; i++ {
		devices[i] = [2]string{"Argox", "path"}
	}
	driver := &fakeDriver{devices: devices}

	cfg := testConfig()
	cfg.ProbeLimit = 5

	r := NewResolver(driver, &countingLister{}, cfg)
	records := r.Discover(context.Background())

	if len(records) != 5 {
		t.Errorf("Expected probe to stop at 5 records, got %d", len(records))
	}
}

func TestDiscoverOSQueryFallback(t *testing.T) {
	driver := &fakeDriver{}
	lister := &countingLister{
		devices: []RawDevice{
			{Name: "Argox P4-250 PPLA", InstanceID: `USB\VID_1664&PID_2010\21GA0DA58205`},
			{Name: "Some Webcam", InstanceID: `USB\VID_046D&PID_0825\AABBCC`},
			{Name: "Argox on weird bus", InstanceID: `SWD\PRINTENUM\XYZ`},
		},
	}

	r := NewResolver(driver, lister, testConfig())
	records := r.Discover(context.Background())

	if len(records) != 1 {
		t.Fatalf("Expected 1 record after vendor and class filtering, got %d", len(records))
	}

	want := `\\?\USB#VID_1664&PID_2010#21GA0DA58205#{a5dcbf10-6530-11d2-901f-00c04fb951ed}`
	if records[0].ConnectionPath != want {
		t.Errorf("Expected reconstructed path %q, got %q", want, records[0].ConnectionPath)
	}
	if lister.calls != 1 {
		t.Errorf("Expected exactly one OS inventory call, got %d", lister.calls)
	}
}

func TestDiscoverListerFailureDegradesToEmpty(t *testing.T) {
	driver := &fakeDriver{}
	lister := &countingLister{err: errors.New("powershell not found")}

	r := NewResolver(driver, lister, testConfig())
	records := r.Discover(context.Background())

	if len(records) != 0 {
		t.Errorf("Expected empty result on lister failure, got %d records", len(records))
	}
}

func TestDiscoverIdempotent(t *testing.T) {
	driver := &fakeDriver{
		bufferLen: 64,
		enumText:  "Argox P4-250",
		devices: map[int][2]string{
			1: {"Argox P4-250", `\\?\USB#VID_1664&PID_2010#21GA0DA58205#{guid}`},
		},
	}

	r := NewResolver(driver, &countingLister{}, testConfig())

	first := r.Discover(context.Background())
	second := r.Discover(context.Background())

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results across passes:\n%v\n%v", first, second)
	}
}

func TestParseDeviceLines(t *testing.T) {
	out := "Argox P4-250 PPLA\tUSB\\VID_1664&PID_2010\\21GA0DA58205\r\n" +
		"malformed line without delimiter\r\n" +
		"\t\r\n" +
		"Argox A-200\tUSB\\VID_1664&PID_3230\\33XB0011\r\n"

	devices := parseDeviceLines(out)

	if len(devices) != 2 {
		t.Fatalf("Expected 2 devices, got %d", len(devices))
	}
	if devices[0].Name != "Argox P4-250 PPLA" {
		t.Errorf("Unexpected name: %q", devices[0].Name)
	}
	if devices[1].InstanceID != `USB\VID_1664&PID_3230\33XB0011` {
		t.Errorf("Unexpected instance ID: %q", devices[1].InstanceID)
	}
}
