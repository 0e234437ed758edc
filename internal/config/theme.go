package config

import "sort"

var themes = map[string]Theme{
	"default": {
		Primary:     "213", // Purple
		Focus:       "10",  // Light green
		Border:      "245", // Grey
		HighlightBg: "11",  // Yellow
		HighlightFg: "0",   // Black
		Success:     "114", // Green
		Error:       "196", // Red
		Muted:       "241", // Dim grey
	},
	"dark": {
		Primary:     "105",
		Focus:       "78",
		Border:      "238",
		HighlightBg: "105",
		HighlightFg: "231",
		Success:     "78",
		Error:       "160",
		Muted:       "240",
	},
	"light": {
		Primary:     "135",
		Focus:       "28",
		Border:      "250",
		HighlightBg: "153",
		HighlightFg: "16",
		Success:     "28",
		Error:       "124",
		Muted:       "246",
	},
	"monochrome": {
		Primary:     "255",
		Focus:       "255",
		Border:      "245",
		HighlightBg: "252",
		HighlightFg: "232",
		Success:     "252",
		Error:       "255",
		Muted:       "241",
	},
}

func knownTheme(name string) bool {
	_, ok := themes[name]
	return ok
}

// GetTheme returns a predefined theme by name, or the default theme.
func GetTheme(name string) Theme {
	t, ok := themes[name]
	if !ok {
		name = "default"
		t = themes[name]
	}
	t.Name = name
	return t
}

// ApplyTheme fills any color not set explicitly from the named palette.
// An unknown name is kept so that Validate can report it.
func (c *Config) ApplyTheme(name string) {
	if name == "" {
		name = "default"
	}
	base := GetTheme(name)
	t := &c.Theme
	t.Name = name
	fill(&t.Primary, base.Primary)
	fill(&t.Focus, base.Focus)
	fill(&t.Border, base.Border)
	fill(&t.HighlightBg, base.HighlightBg)
	fill(&t.HighlightFg, base.HighlightFg)
	fill(&t.Success, base.Success)
	fill(&t.Error, base.Error)
	fill(&t.Muted, base.Muted)
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// ListThemes returns the available theme names.
func ListThemes() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
