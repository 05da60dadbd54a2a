package labelformat

import "fmt"

// Validate validates a Label structure
func Validate(l *Label) error {
	// Validate version
	if l.Version == "" {
		return fmt.Errorf("version is required")
	}
	if l.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected 1.0)", l.Version)
	}

	if l.WidthMM < 0 || l.HeightMM < 0 {
		return fmt.Errorf("media size must not be negative")
	}

	if l.DPI != 0 && l.DPI != 203 && l.DPI != 300 {
		return fmt.Errorf("invalid dpi: %d (must be 203 or 300)", l.DPI)
	}

	if l.Unit != "" && l.Unit != "mm" && l.Unit != "inch" {
		return fmt.Errorf("invalid unit: %s (must be mm or inch)", l.Unit)
	}

	if l.Darkness < 0 || l.Darkness > 20 {
		return fmt.Errorf("invalid darkness: %d (must be 0-20)", l.Darkness)
	}

	if l.Speed != "" {
		if len(l.Speed) != 1 || l.Speed[0] < 'A' || l.Speed[0] > 'K' {
			return fmt.Errorf("invalid speed: %s (must be A-K)", l.Speed)
		}
	}

	if l.Copies < 0 {
		return fmt.Errorf("copies must not be negative")
	}

	// Validate commands
	if len(l.Commands) == 0 {
		return fmt.Errorf("at least one command is required")
	}

	for i, cmd := range l.Commands {
		if err := validateCommand(&cmd); err != nil {
			return fmt.Errorf("command[%d]: %w", i, err)
		}
	}

	return nil
}

func validateCommand(cmd *Command) error {
	if cmd.Type == "" {
		return fmt.Errorf("command type is required")
	}

	if cmd.X < 0 || cmd.Y < 0 {
		return fmt.Errorf("position must not be negative")
	}

	switch cmd.Type {
	case "text":
		return validateTextCommand(cmd)
	case "barcode":
		return validateBarcodeCommand(cmd)
	case "qrcode":
		return validateQRCodeCommand(cmd)
	case "image":
		return validateImageCommand(cmd)
	case "line", "feed", "box":
		// These are valid command types with flexible properties
		return nil
	default:
		return fmt.Errorf("unknown command type: %s", cmd.Type)
	}
}

func validateTextCommand(cmd *Command) error {
	if cmd.Value == "" {
		return fmt.Errorf("text command requires value")
	}

	if cmd.Align != "" {
		switch cmd.Align {
		case "left", "center", "right":
		default:
			return fmt.Errorf("invalid align '%s' (must be left, center, or right)", cmd.Align)
		}
	}

	return nil
}

func validateBarcodeCommand(cmd *Command) error {
	if cmd.Value == "" {
		return fmt.Errorf("barcode command requires value")
	}

	if cmd.Format != "" {
		validFormats := []string{"CODE128", "CODE39", "EAN13", "EAN8"}
		valid := false
		for _, f := range validFormats {
			if cmd.Format == f {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid barcode format '%s'", cmd.Format)
		}
	}

	return nil
}

func validateQRCodeCommand(cmd *Command) error {
	if cmd.Value == "" {
		return fmt.Errorf("qrcode command requires value")
	}

	if cmd.ErrorCorrection != "" {
		switch cmd.ErrorCorrection {
		case "L", "M", "Q", "H":
		default:
			return fmt.Errorf("invalid error_correction '%s' (must be L, M, Q, or H)", cmd.ErrorCorrection)
		}
	}

	return nil
}

func validateImageCommand(cmd *Command) error {
	if cmd.Path == "" && cmd.Base64 == "" {
		return fmt.Errorf("image command requires either path or base64")
	}
	if cmd.Path != "" && cmd.Base64 != "" {
		return fmt.Errorf("image command cannot have both path and base64")
	}
	return nil
}
