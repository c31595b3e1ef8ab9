package entities

// ansiColors are the foreground colors used for log labels.
var ansiColors = []string{"36", "90", "31", "33", "35", "34", "32"} //nolint:gochecknoglobals // palette

// ColorCycle hands out log label colors so that two consecutive labels never
// share a color. It is not safe for concurrent use.
type ColorCycle struct {
	next    int
	enabled bool
}

// NewColorCycle creates a cycle starting at seed. A disabled cycle returns
// labels unchanged.
func NewColorCycle(seed int, enabled bool) *ColorCycle {
	if seed < 0 {
		seed = -seed
	}
	return &ColorCycle{next: seed % len(ansiColors), enabled: enabled}
}

// Paint wraps label in the next color of the cycle.
func (c *ColorCycle) Paint(label string) string {
	if c == nil || !c.enabled {
		return label
	}
	color := ansiColors[c.next]
	c.next = (c.next + 1) % len(ansiColors)
	return "\x1b[" + color + "m" + label + "\x1b[0m"
}
