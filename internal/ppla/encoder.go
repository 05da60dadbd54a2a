package ppla

import (
	"bytes"
	"fmt"
	"image"
)

// PPLA control bytes.
const (
	STX byte = 0x02
	CR  byte = 0x0D
)

// Encoder builds a PPLA command stream. The same stream is accepted by the
// vendor driver's raw write call and by serial/network transports.
type Encoder struct {
	buf *bytes.Buffer
}

// NewEncoder creates a new PPLA encoder.
func NewEncoder() *Encoder {
	return &Encoder{
		buf: new(bytes.Buffer),
	}
}

// SetMetric switches coordinates to metric units.
func (e *Encoder) SetMetric() {
	e.buf.WriteByte(STX)
	e.buf.WriteByte('m')
	e.buf.WriteByte(CR)
}

// SetInch switches coordinates to inch units.
func (e *Encoder) SetInch() {
	e.buf.WriteByte(STX)
	e.buf.WriteByte('n')
	e.buf.WriteByte(CR)
}

// SetDarkness sets the print darkness, clamped to 0-20.
func (e *Encoder) SetDarkness(level int) {
	if level < 0 {
		level = 0
	}
	if level > 20 {
		level = 20
	}

	e.buf.WriteByte(STX)
	fmt.Fprintf(e.buf, "H%02d", level)
	e.buf.WriteByte(CR)
}

// SetSpeed sets the print speed class (vendor letters 'A' fastest through
// 'K' slowest).
func (e *Encoder) SetSpeed(speed byte) {
	if speed < 'A' || speed > 'K' {
		speed = 'C'
	}

	e.buf.WriteByte(STX)
	e.buf.WriteByte('S')
	e.buf.WriteByte(speed)
	e.buf.WriteByte(CR)
}

// StartLabel enters label formatting mode.
func (e *Encoder) StartLabel() {
	e.buf.WriteByte(STX)
	e.buf.WriteByte('L')
	e.buf.WriteByte(CR)

	// Dot size 1x1
	e.buf.WriteString("D11")
	e.buf.WriteByte(CR)
}

// Text emits a text record at the given dot position. rotation is 1-4
// (quarter turns), font selects the vendor font bank, hmul/vmul are the
// horizontal and vertical multipliers 1-9.
func (e *Encoder) Text(x, y, rotation, font, hmul, vmul int, data string) {
	fmt.Fprintf(e.buf, "%d%d%d%d%04d%04d%s",
		clampDigit(rotation), clampDigit(font), clampDigit(hmul), clampDigit(vmul),
		clampCoord(y), clampCoord(x), data)
	e.buf.WriteByte(CR)
}

// Barcode emits a barcode record. kind is the vendor's barcode type letter
// ('a' Code39, 'e' Code128, 'f' EAN-13 in the human-readable series).
func (e *Encoder) Barcode(x, y, rotation int, kind byte, narrow, wide, height int, data string) {
	fmt.Fprintf(e.buf, "%d%c%d%d%03d%04d%04d%s",
		clampDigit(rotation), kind, clampDigit(narrow), clampDigit(wide),
		height, clampCoord(y), clampCoord(x), data)
	e.buf.WriteByte(CR)
}

// Line emits a filled line (or box) record in dots.
func (e *Encoder) Line(x, y, w, h int) {
	fmt.Fprintf(e.buf, "1X11%04d%04dl%04d%04d", clampCoord(y), clampCoord(x), w, h)
	e.buf.WriteByte(CR)
}

// Image emits the image as per-row hex graphics records, 8 dots packed per
// byte, anchored at the given dot position.
func (e *Encoder) Image(x, y int, img image.Image) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	bytesPerRow := (width + 7) / 8

	bitmap := imageToBitmap(img)

	for row := 0; row < height; row++ {
		line := bitmap[row*bytesPerRow : (row+1)*bytesPerRow]

		// Skip blank rows, the printer leaves them white anyway.
		if isBlank(line) {
			continue
		}

		fmt.Fprintf(e.buf, "G%04d%04d%X", clampCoord(y+row), clampCoord(x), line)
		e.buf.WriteByte(CR)
	}
}

// Quantity sets the number of copies for this label.
func (e *Encoder) Quantity(copies int) {
	if copies < 1 {
		copies = 1
	}

	fmt.Fprintf(e.buf, "Q%04d", copies)
	e.buf.WriteByte(CR)
}

// EndLabel terminates the label and triggers printing.
func (e *Encoder) EndLabel() {
	e.buf.WriteByte('E')
	e.buf.WriteByte(CR)
}

// Bytes returns the generated command stream.
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Reset clears the buffer.
func (e *Encoder) Reset() {
	e.buf.Reset()
}

// JobOptions carries the per-job setup emitted before the label format.
// Zero darkness and speed keep the printer's stored values.
type JobOptions struct {
	Copies   int
	Darkness int  // 1-20
	Speed    byte // 'A' fastest through 'K' slowest
	Inch     bool // inch coordinate mode instead of metric
}

// EncodeJob builds a complete single-label job from a rendered image,
// applying the job setup ahead of the label format.
func EncodeJob(img image.Image, opts JobOptions) []byte {
	e := NewEncoder()
	if opts.Inch {
		e.SetInch()
	} else {
		e.SetMetric()
	}
	if opts.Darkness > 0 {
		e.SetDarkness(opts.Darkness)
	}
	if opts.Speed != 0 {
		e.SetSpeed(opts.Speed)
	}
	e.StartLabel()
	e.Image(0, 0, img)
	e.Quantity(opts.Copies)
	e.EndLabel()
	return e.Bytes()
}

// EncodeImage builds a job with default setup.
func EncodeImage(img image.Image, copies int) []byte {
	return EncodeJob(img, JobOptions{Copies: copies})
}

func clampDigit(v int) int {
	if v < 1 {
		return 1
	}
	if v > 9 {
		return 9
	}
	return v
}

func clampCoord(v int) int {
	if v < 0 {
		return 0
	}
	if v > 9999 {
		return 9999
	}
	return v
}

func isBlank(line []byte) bool {
	for _, b := range line {
		if b != 0 {
			return false
		}
	}
	return true
}

// imageToBitmap converts an image to a 1-bit bitmap, 8 dots per byte, MSB
// first, dark pixels set.
func imageToBitmap(img image.Image) []byte {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	bytesPerRow := (width + 7) / 8
	bitmap := make([]byte, bytesPerRow*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()

			// Threshold at 50% grayscale
			gray := (r + g + b) / 3
			if gray < 32768 {
				byteIndex := y*bytesPerRow + x/8
				bitIndex := 7 - (x % 8)
				bitmap[byteIndex] |= 1 << bitIndex
			}
		}
	}

	return bitmap
}
