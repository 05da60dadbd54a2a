// Package labelformat defines the types for the .label file format
package labelformat

// Label represents the root structure of a .label file
type Label struct {
	Version     string  `json:"version"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	WidthMM     float64 `json:"width_mm,omitempty"`
	HeightMM    float64 `json:"height_mm,omitempty"`
	DPI         int     `json:"dpi,omitempty"`      // 203 or 300
	Unit        string  `json:"unit,omitempty"`     // mm (default) or inch
	Darkness    int     `json:"darkness,omitempty"` // 0-20
	Speed       string  `json:"speed,omitempty"`    // vendor speed class A-K
	Copies      int     `json:"copies,omitempty"`

	Commands []Command `json:"commands"`
}

// Command represents any label command
type Command struct {
	Type string `json:"type"`

	// Position in dots; zero means flow layout below the previous command
	X int `json:"x,omitempty"`
	Y int `json:"y,omitempty"`

	// Text command
	Value string `json:"value,omitempty"`
	Size  int    `json:"size,omitempty"`
	Align string `json:"align,omitempty"`

	// Barcode command
	Format string `json:"format,omitempty"`
	Height int    `json:"height,omitempty"`
	Width  int    `json:"width,omitempty"`

	// QR code command
	ErrorCorrection string `json:"error_correction,omitempty"`

	// Image command
	Path      string `json:"path,omitempty"`
	Base64    string `json:"base64,omitempty"`
	Threshold int    `json:"threshold,omitempty"`

	// Line command
	Length    int `json:"length,omitempty"`
	Thickness int `json:"thickness,omitempty"`

	// Feed command
	Lines int `json:"lines,omitempty"`
}
