package blueprint

import "github.com/matzehuels/facilitymap/pkg/floor"

// Status colors.
const (
	ColorPending    = "#FFD700"
	ColorInProgress = "#FF8C00"
	ColorCompleted  = "#4CAF50"
	ColorNoRequest  = "#E5E7EB"
)

const (
	colorBackground = "#0B1220"
	colorPaper      = "#F8FBFD"
	colorLine       = "#0A0A0A"
	colorLabel      = "#1E3A8A"
	colorText       = "#374151"
	colorMuted      = "#64748B"
	colorGrid       = "#3B82F6"
	colorSelected   = "#3B82F6"
	colorHallway    = "#DBEAFE"
	colorStairs     = "#BFDBFE"
	colorTread      = "#93C5FD"
	colorRestroom   = "#E0F2FE"
	colorBadge      = "#EF4444"
)

// StatusColor returns the color used for st.
func StatusColor(st floor.Status) string {
	switch st {
	case floor.StatusPending:
		return ColorPending
	case floor.StatusInProgress:
		return ColorInProgress
	case floor.StatusCompleted:
		return ColorCompleted
	default:
		return ColorNoRequest
	}
}

// FillColor returns the fill for a room of kind k.
func FillColor(k floor.Kind) string {
	switch k {
	case floor.KindStairs:
		return colorStairs
	case floor.KindHallway:
		return colorHallway
	case floor.KindRestroom:
		return colorRestroom
	default:
		return colorPaper
	}
}
