package label

import (
	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/ean"
	"github.com/skip2/go-qrcode"

	"github.com/labelbridge/ppla-engine/pkg/labelformat"
)

func (r *Renderer) renderBarcode(cmd *labelformat.Command) error {
	format := cmd.Format
	if format == "" {
		format = "CODE128"
	}

	height := cmd.Height
	if height == 0 {
		height = 80
	}

	var code barcode.Barcode
	var err error

	switch format {
	case "CODE39":
		code, err = code39.Encode(cmd.Value, false, false)
	case "EAN13", "EAN8":
		code, err = ean.Encode(cmd.Value)
	default:
		code, err = code128.Encode(cmd.Value)
	}
	if err != nil {
		return err
	}

	targetWidth := cmd.Width
	if targetWidth == 0 {
		targetWidth = r.width - int(4*margin)
	}

	code, err = barcode.Scale(code, targetWidth, height)
	if err != nil {
		return err
	}

	x := cmd.X
	if x == 0 {
		x = (r.width - code.Bounds().Dx()) / 2
	}
	y := int(r.anchorY(cmd))

	r.ctx.DrawImage(code, x, y)

	r.advance(cmd, float64(code.Bounds().Dy())+8)
	return nil
}

func (r *Renderer) renderQRCode(cmd *labelformat.Command) error {
	level := qrcode.Medium
	switch cmd.ErrorCorrection {
	case "L":
		level = qrcode.Low
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	}

	qr, err := qrcode.New(cmd.Value, level)
	if err != nil {
		return err
	}

	size := cmd.Size
	if size == 0 {
		size = r.height / 3
	}
	if size > r.height {
		size = r.height
	}

	img := qr.Image(size)

	x := cmd.X
	if x == 0 {
		x = (r.width - img.Bounds().Dx()) / 2
	}
	y := int(r.anchorY(cmd))

	r.ctx.DrawImage(img, x, y)

	r.advance(cmd, float64(img.Bounds().Dy())+8)
	return nil
}
