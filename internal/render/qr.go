package render

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/recipe"
)

// maxQRPayload keeps the schedule inside a medium-recovery QR code.
const maxQRPayload = 2000

// Schedule is the compact text encoded in a recipe label: the recipe name,
// then one "HH:MM name" line per keyframe.
func Schedule(doc recipe.Document) string {
	var b strings.Builder
	b.WriteString(doc.Metadata.Name)
	for i, kf := range doc.Keyframes {
		line := fmt.Sprintf("\n%s %s", kf.TimeFormatted, kf.Name)
		if kf.TimeFormatted == "" {
			line = fmt.Sprintf("\n%d %s", kf.Time, kf.Name)
		}
		if b.Len()+len(line) > maxQRPayload {
			fmt.Fprintf(&b, "\n+%d more", len(doc.Keyframes)-i)
			break
		}
		b.WriteString(line)
	}
	return b.String()
}

// QRLabel renders the recipe schedule as a size x size PNG QR code.
func QRLabel(doc recipe.Document, size int) ([]byte, error) {
	png, err := qrcode.Encode(Schedule(doc), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr label: %w", err)
	}
	return png, nil
}
