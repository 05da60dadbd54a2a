package label

import (
	"os"

	"github.com/labelbridge/ppla-engine/pkg/labelformat"
)

func (r *Renderer) renderText(cmd *labelformat.Command) error {
	size := float64(cmd.Size)
	if size == 0 {
		size = 24
	}

	align := cmd.Align
	if align == "" {
		align = "left"
	}

	r.loadFont(size)

	textWidth, textHeight := r.ctx.MeasureString(cmd.Value)

	var x float64
	switch {
	case cmd.X > 0:
		x = float64(cmd.X)
	case align == "center":
		x = float64(r.width)/2 - textWidth/2
	case align == "right":
		x = float64(r.width) - textWidth - margin
	default:
		x = margin
	}

	y := r.anchorY(cmd)
	r.ctx.DrawString(cmd.Value, x, y+textHeight)

	r.advance(cmd, textHeight+8)
	return nil
}

// loadFont loads the first available system font at the given size. When
// none loads, gg falls back to its built-in face.
func (r *Renderer) loadFont(size float64) {
	systemFonts := []string{
		"C:\\Windows\\Fonts\\arial.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
		"/System/Library/Fonts/Supplemental/Arial.ttf",
	}

	for _, font := range systemFonts {
		if _, err := os.Stat(font); err == nil {
			if err := r.ctx.LoadFontFace(font, size); err == nil {
				return
			}
		}
	}
}
