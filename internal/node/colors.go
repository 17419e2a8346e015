package node

import "github.com/fatih/color"

type colorAttr int

const (
	markerColor colorAttr = iota
	fieldColor
	refColor
	tagColor
)

// Colors maps markup elements to terminal color functions.
type Colors struct {
	Default func(string, ...any) string
	Map     map[colorAttr]func(string, ...any) string
}

// NewColors returns the default terminal palette.
func NewColors() *Colors {
	return &Colors{
		Default: colorDefault,
		Map: map[colorAttr]func(string, ...any) string{
			markerColor: color.RGB(255, 0, 196).SprintfFunc(),
			fieldColor:  color.RGB(196, 96, 16).SprintfFunc(),
			refColor:    color.RGB(128, 216, 236).SprintfFunc(),
			tagColor:    color.RGB(74, 92, 138).SprintfFunc(),
		},
	}
}

func (c *Colors) sprint(attr colorAttr, s string) string {
	if f, ok := c.Map[attr]; ok {
		return f("%s", s)
	}
	if c.Default != nil {
		return c.Default("%s", s)
	}
	return s
}

func colorDefault(format string, args ...any) string {
	return color.New(color.Reset).Sprintf(format, args...)
}
