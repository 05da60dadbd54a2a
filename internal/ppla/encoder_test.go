package ppla

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestEncoderLabelFraming(t *testing.T) {
	e := NewEncoder()
	e.SetMetric()
	e.StartLabel()
	e.Text(50, 100, 1, 3, 1, 1, "HELLO")
	e.Quantity(2)
	e.EndLabel()

	data := e.Bytes()

	if data[0] != STX || data[1] != 'm' {
		t.Errorf("Expected stream to start with STX m, got % X", data[:2])
	}

	s := string(data)
	if !strings.Contains(s, "13110100005") {
		// rotation=1 font=3 hmul=1 vmul=1 y=0100 x=0050
		t.Errorf("Expected text record in stream, got %q", s)
	}
	if !strings.Contains(s, "Q0002\r") {
		t.Errorf("Expected quantity record Q0002, got %q", s)
	}
	if !strings.HasSuffix(s, "E\r") {
		t.Errorf("Expected stream to end with E, got %q", s)
	}
}

func TestEncoderTextRecord(t *testing.T) {
	e := NewEncoder()
	e.Text(10, 20, 1, 2, 1, 1, "ABC")

	want := "121100200010ABC\r"
	if got := string(e.Bytes()); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestEncoderBarcodeRecord(t *testing.T) {
	e := NewEncoder()
	e.Barcode(100, 200, 1, 'e', 2, 4, 80, "12345678")

	want := "1e2408002000100" + "12345678\r"
	if got := string(e.Bytes()); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestEncoderDarknessClamped(t *testing.T) {
	e := NewEncoder()
	e.SetDarkness(99)

	want := append([]byte{STX}, []byte("H20\r")...)
	if !bytes.Equal(e.Bytes(), want) {
		t.Errorf("Expected darkness clamped to 20, got %q", e.Bytes())
	}
}

func TestEncodeImageSkipsBlankRows(t *testing.T) {
	// 8x2 image: top row black, bottom row white
	img := image.NewGray(image.Rect(0, 0, 8, 2))
	for x := 0; x < 8; x++ {
		img.SetGray(x, 0, color.Gray{Y: 0})
		img.SetGray(x, 1, color.Gray{Y: 255})
	}

	e := NewEncoder()
	e.Image(0, 0, img)

	s := string(e.Bytes())
	if !strings.Contains(s, "G00000000FF") {
		t.Errorf("Expected one graphics record for the black row, got %q", s)
	}
	if strings.Count(s, "G") != 1 {
		t.Errorf("Expected blank row to be skipped, got %q", s)
	}
}

func blackRow() image.Image {
	img := image.NewGray(image.Rect(0, 0, 8, 1))
	for x := 0; x < 8; x++ {
		img.SetGray(x, 0, color.Gray{Y: 0})
	}
	return img
}

func TestEncodeJobSetupRecords(t *testing.T) {
	data := EncodeJob(blackRow(), JobOptions{Copies: 2, Darkness: 15, Speed: 'C'})
	s := string(data)

	if !strings.Contains(s, "\x02H15\r") {
		t.Errorf("Expected darkness record H15, got %q", s)
	}
	if !strings.Contains(s, "\x02SC\r") {
		t.Errorf("Expected speed record SC, got %q", s)
	}
	if strings.Index(s, "\x02H15") > strings.Index(s, "\x02L") {
		t.Errorf("Expected setup records before the label format, got %q", s)
	}
	if !strings.Contains(s, "Q0002\r") {
		t.Errorf("Expected quantity record Q0002, got %q", s)
	}
}

func TestEncodeJobDefaultSetup(t *testing.T) {
	s := string(EncodeImage(blackRow(), 2))

	if !strings.HasPrefix(s, "\x02m\r") {
		t.Errorf("Expected metric mode by default, got %q", s)
	}
	if strings.Contains(s, "\x02H") {
		t.Errorf("Expected no darkness record without document setup, got %q", s)
	}
	if strings.Contains(s, "\x02S") {
		t.Errorf("Expected no speed record without document setup, got %q", s)
	}
}

func TestEncodeJobInchMode(t *testing.T) {
	s := string(EncodeJob(blackRow(), JobOptions{Copies: 1, Inch: true}))

	if !strings.HasPrefix(s, "\x02n\r") {
		t.Errorf("Expected inch mode record, got %q", s)
	}
}

func TestStatusError(t *testing.T) {
	if err := statusErr("A_EnumUSB", 0); err != nil {
		t.Errorf("Expected nil for status 0, got %v", err)
	}

	err := statusErr("A_CreatePrn", 3)
	if err == nil {
		t.Fatal("Expected error for non-zero status")
	}
	if !strings.Contains(err.Error(), "open port failed") {
		t.Errorf("Expected mapped message, got %q", err.Error())
	}

	unknown := statusErr("A_EnumUSB", 9999)
	if !strings.Contains(unknown.Error(), "unknown driver error") {
		t.Errorf("Expected generic message for unknown code, got %q", unknown.Error())
	}
}
