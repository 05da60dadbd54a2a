package labelformat

import (
	"strings"
	"testing"
)

func TestParseMinimalLabel(t *testing.T) {
	data := []byte(`{
		"version": "1.0",
		"commands": [
			{"type": "text", "value": "Hello"}
		]
	}`)

	label, err := Parse(data)
	if err != nil {
		t.Fatalf("Failed to parse label: %v", err)
	}

	if label.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", label.Version)
	}
	if len(label.Commands) != 1 {
		t.Fatalf("Expected 1 command, got %d", len(label.Commands))
	}
	if label.Commands[0].Value != "Hello" {
		t.Errorf("Expected value 'Hello', got '%s'", label.Commands[0].Value)
	}
}

func TestParseFullLabel(t *testing.T) {
	data := []byte(`{
		"version": "1.0",
		"name": "Shipping Label",
		"width_mm": 104,
		"height_mm": 74,
		"dpi": 203,
		"darkness": 10,
		"speed": "C",
		"copies": 2,
		"commands": [
			{"type": "text", "value": "ACME Corp", "size": 32, "align": "center"},
			{"type": "barcode", "value": "4712345678901", "format": "CODE128", "height": 80},
			{"type": "qrcode", "value": "https://example.com/track/1", "error_correction": "M"},
			{"type": "line", "length": 400, "thickness": 2},
			{"type": "feed", "lines": 1}
		]
	}`)

	label, err := Parse(data)
	if err != nil {
		t.Fatalf("Failed to parse label: %v", err)
	}

	if label.WidthMM != 104 {
		t.Errorf("Expected width 104mm, got %v", label.WidthMM)
	}
	if label.Copies != 2 {
		t.Errorf("Expected 2 copies, got %d", label.Copies)
	}
	if len(label.Commands) != 5 {
		t.Errorf("Expected 5 commands, got %d", len(label.Commands))
	}
}

func TestValidateMissingVersion(t *testing.T) {
	_, err := Parse([]byte(`{"commands": [{"type": "text", "value": "x"}]}`))
	if err == nil {
		t.Fatal("Expected error for missing version")
	}
	if !strings.Contains(err.Error(), "version is required") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestValidateUnsupportedVersion(t *testing.T) {
	_, err := Parse([]byte(`{"version": "2.0", "commands": [{"type": "text", "value": "x"}]}`))
	if err == nil {
		t.Fatal("Expected error for unsupported version")
	}
}

func TestValidateNoCommands(t *testing.T) {
	_, err := Parse([]byte(`{"version": "1.0", "commands": []}`))
	if err == nil {
		t.Fatal("Expected error for empty command list")
	}
}

func TestValidateUnknownCommandType(t *testing.T) {
	_, err := Parse([]byte(`{
		"version": "1.0",
		"commands": [{"type": "teleport"}]
	}`))
	if err == nil {
		t.Fatal("Expected error for unknown command type")
	}
	if !strings.Contains(err.Error(), "unknown command type") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestValidateTextRequiresValue(t *testing.T) {
	_, err := Parse([]byte(`{
		"version": "1.0",
		"commands": [{"type": "text"}]
	}`))
	if err == nil {
		t.Fatal("Expected error for text command without value")
	}
}

func TestValidateBarcodeFormat(t *testing.T) {
	_, err := Parse([]byte(`{
		"version": "1.0",
		"commands": [{"type": "barcode", "value": "123", "format": "MAXICODE"}]
	}`))
	if err == nil {
		t.Fatal("Expected error for invalid barcode format")
	}
}

func TestValidateQRCodeErrorCorrection(t *testing.T) {
	_, err := Parse([]byte(`{
		"version": "1.0",
		"commands": [{"type": "qrcode", "value": "x", "error_correction": "Z"}]
	}`))
	if err == nil {
		t.Fatal("Expected error for invalid error correction level")
	}
}

func TestValidateImageSource(t *testing.T) {
	_, err := Parse([]byte(`{
		"version": "1.0",
		"commands": [{"type": "image"}]
	}`))
	if err == nil {
		t.Fatal("Expected error for image command without a source")
	}

	_, err = Parse([]byte(`{
		"version": "1.0",
		"commands": [{"type": "image", "path": "a.png", "base64": "aGk="}]
	}`))
	if err == nil {
		t.Fatal("Expected error for image command with both sources")
	}
}

func TestValidateDarknessRange(t *testing.T) {
	_, err := Parse([]byte(`{
		"version": "1.0",
		"darkness": 42,
		"commands": [{"type": "text", "value": "x"}]
	}`))
	if err == nil {
		t.Fatal("Expected error for out-of-range darkness")
	}
}

func TestValidateUnit(t *testing.T) {
	_, err := Parse([]byte(`{
		"version": "1.0",
		"unit": "furlong",
		"commands": [{"type": "text", "value": "x"}]
	}`))
	if err == nil {
		t.Fatal("Expected error for unknown unit")
	}

	_, err = Parse([]byte(`{
		"version": "1.0",
		"unit": "inch",
		"commands": [{"type": "text", "value": "x"}]
	}`))
	if err != nil {
		t.Fatalf("Expected inch unit to validate, got %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	label := &Label{
		Version: "1.0",
		Name:    "Test",
		Commands: []Command{
			{Type: "text", Value: "Hello", Size: 24},
		},
	}

	data, err := label.ToJSON()
	if err != nil {
		t.Fatalf("Failed to marshal label: %v", err)
	}

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Failed to re-parse label: %v", err)
	}

	if parsed.Name != "Test" || len(parsed.Commands) != 1 {
		t.Errorf("Round trip mismatch: %+v", parsed)
	}
}
