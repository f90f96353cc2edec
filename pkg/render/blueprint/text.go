package blueprint

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

const (
	nameMaxChars   = 20
	numberFontMin  = 10.0
	numberFontMax  = 16.0
	numberFontStep = 8.0
)

// NumberFontSize scales the room number with the room width.
func NumberFontSize(width float64) float64 {
	return min(numberFontMax, max(numberFontMin, width/numberFontStep))
}

// TruncateName shortens long room names to fit under the number.
func TruncateName(name string) string {
	r := []rune(name)
	if len(r) <= nameMaxChars {
		return name
	}
	return string(r[:nameMaxChars]) + "..."
}

// Feet formats a length for the dimension overlay.
func Feet(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "ft"
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
