package label

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/disintegration/imaging"

	"github.com/labelbridge/ppla-engine/pkg/labelformat"
)

func (r *Renderer) renderImage(cmd *labelformat.Command) error {
	img, err := loadImage(cmd)
	if err != nil {
		return err
	}

	// Shrink to fit the media width
	if img.Bounds().Dx() > r.width {
		img = imaging.Resize(img, r.width, 0, imaging.Lanczos)
	}

	threshold := cmd.Threshold
	if threshold == 0 {
		threshold = 128
	}
	bw := convertToBlackWhite(img, uint8(threshold))

	x := cmd.X
	y := int(r.anchorY(cmd))

	r.ctx.DrawImage(bw, x, y)

	r.advance(cmd, float64(bw.Bounds().Dy()))
	return nil
}

func loadImage(cmd *labelformat.Command) (image.Image, error) {
	if cmd.Base64 != "" {
		data, err := base64.StdEncoding.DecodeString(cmd.Base64)
		if err != nil {
			return nil, err
		}

		img, _, err := image.Decode(bytes.NewReader(data))
		return img, err
	}

	file, err := os.Open(cmd.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	return img, err
}

// convertToBlackWhite thresholds an image to pure black and white for the
// thermal head.
func convertToBlackWhite(img image.Image, threshold uint8) image.Image {
	bounds := img.Bounds()
	bw := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()

			gray := uint8((cr + cg + cb) / 3 / 256)

			if gray < threshold {
				bw.SetGray(x, y, color.Gray{Y: 0})
			} else {
				bw.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	return bw
}
