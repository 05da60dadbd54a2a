package label

import (
	"github.com/labelbridge/ppla-engine/internal/ppla"
	"github.com/labelbridge/ppla-engine/pkg/labelformat"
)

// Options derives the print job setup from a label document. copies
// overrides the document's count when positive.
func Options(doc *labelformat.Label, copies int) ppla.JobOptions {
	if copies < 1 {
		copies = doc.Copies
	}

	opts := ppla.JobOptions{
		Copies:   copies,
		Darkness: doc.Darkness,
		Inch:     doc.Unit == "inch",
	}
	if doc.Speed != "" {
		opts.Speed = doc.Speed[0]
	}

	return opts
}
