// Package label renders .label documents to monochrome images for print
// jobs and previews.
package label

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/labelbridge/ppla-engine/pkg/labelformat"
)

const (
	defaultWidthMM  = 104
	defaultHeightMM = 74
	defaultDPI      = 203

	lineHeight = 20.0
	margin     = 5.0
)

// Renderer converts label commands to an image sized to the label media.
type Renderer struct {
	label  *labelformat.Label
	width  int // media width in dots
	height int // media height in dots
	ctx    *gg.Context
	y      float64 // flow cursor for commands without an absolute position
}

// New creates a renderer for the given label document.
func New(l *labelformat.Label) (*Renderer, error) {
	dpi := l.DPI
	if dpi == 0 {
		dpi = defaultDPI
	}

	widthMM := l.WidthMM
	if widthMM == 0 {
		widthMM = defaultWidthMM
	}
	heightMM := l.HeightMM
	if heightMM == 0 {
		heightMM = defaultHeightMM
	}

	width := mmToDots(widthMM, dpi)
	height := mmToDots(heightMM, dpi)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("label size %.2fx%.2f mm at %d dpi is below one dot", widthMM, heightMM, dpi)
	}

	ctx := gg.NewContext(width, height)
	ctx.SetColor(color.White)
	ctx.Clear()
	ctx.SetColor(color.Black)

	return &Renderer{
		label:  l,
		width:  width,
		height: height,
		ctx:    ctx,
		y:      margin,
	}, nil
}

// Render renders a complete label document.
func Render(l *labelformat.Label) (image.Image, error) {
	r, err := New(l)
	if err != nil {
		return nil, err
	}

	for i := range l.Commands {
		if err := r.renderCommand(&l.Commands[i]); err != nil {
			return nil, fmt.Errorf("failed to render command[%d]: %w", i, err)
		}
	}

	return r.ctx.Image(), nil
}

// Size returns the media size in dots.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

func (r *Renderer) renderCommand(cmd *labelformat.Command) error {
	switch cmd.Type {
	case "text":
		return r.renderText(cmd)
	case "barcode":
		return r.renderBarcode(cmd)
	case "qrcode":
		return r.renderQRCode(cmd)
	case "image":
		return r.renderImage(cmd)
	case "line":
		return r.renderLine(cmd)
	case "box":
		return r.renderBox(cmd)
	case "feed":
		return r.renderFeed(cmd)
	default:
		return fmt.Errorf("unsupported command type: %s", cmd.Type)
	}
}

// anchorY returns the command's vertical position: the absolute Y when
// set, the flow cursor otherwise.
func (r *Renderer) anchorY(cmd *labelformat.Command) float64 {
	if cmd.Y > 0 {
		return float64(cmd.Y)
	}
	return r.y
}

// advance moves the flow cursor past content of the given height, unless
// the command was absolutely positioned.
func (r *Renderer) advance(cmd *labelformat.Command, contentHeight float64) {
	if cmd.Y > 0 {
		return
	}
	r.y += contentHeight
}

func (r *Renderer) renderLine(cmd *labelformat.Command) error {
	length := cmd.Length
	if length == 0 {
		length = r.width - int(2*margin)
	}
	thickness := cmd.Thickness
	if thickness == 0 {
		thickness = 2
	}

	x := float64(cmd.X)
	if x == 0 {
		x = margin
	}
	y := r.anchorY(cmd)

	r.ctx.SetLineWidth(float64(thickness))
	r.ctx.DrawLine(x, y, x+float64(length), y)
	r.ctx.Stroke()

	r.advance(cmd, float64(thickness)+8)
	return nil
}

func (r *Renderer) renderBox(cmd *labelformat.Command) error {
	length := cmd.Length
	if length == 0 {
		length = r.width - int(2*margin)
	}
	height := cmd.Height
	if height == 0 {
		height = 40
	}
	thickness := cmd.Thickness
	if thickness == 0 {
		thickness = 2
	}

	x := float64(cmd.X)
	if x == 0 {
		x = margin
	}
	y := r.anchorY(cmd)

	r.ctx.SetLineWidth(float64(thickness))
	r.ctx.DrawRectangle(x, y, float64(length), float64(height))
	r.ctx.Stroke()

	r.advance(cmd, float64(height)+8)
	return nil
}

func (r *Renderer) renderFeed(cmd *labelformat.Command) error {
	lines := cmd.Lines
	if lines == 0 {
		lines = 1
	}

	r.y += float64(lines) * lineHeight
	return nil
}

func mmToDots(mm float64, dpi int) int {
	return int(mm / 25.4 * float64(dpi))
}
