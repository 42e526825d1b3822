package lotto

// Ball colours per number band.
const (
	ColorYellow = "#eab308"
	ColorBlue   = "#3b82f6"
	ColorRed    = "#ef4444"
	ColorGray   = "#4b5563"
	ColorGreen  = "#22c55e"
	ColorOther  = "#6b7280"
	ColorBonus  = "#172554"
)

// BallColor returns the hex colour of the ball for n.
func BallColor(n int) string {
	switch {
	case n >= 1 && n <= 10:
		return ColorYellow
	case n >= 11 && n <= 20:
		return ColorBlue
	case n >= 21 && n <= 30:
		return ColorRed
	case n >= 31 && n <= 40:
		return ColorGray
	case n >= 41 && n <= 45:
		return ColorGreen
	}
	return ColorOther
}
