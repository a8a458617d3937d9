package config

var defaultConfig = Config{
	ID:            "",
	Tags:          7,
	Anchor:        "top",
	Orientation:   "horizontal",
	IconSize:      60,
	HighlightSize: 20,
	Border:        2,
	Margin:        10,
	Spacing:       0,
	HideAfter:     "",
	Hidden:        false,
	Command:       "riverctl set-focused-tags %d",
	Colors: Colors{
		Background: "#262525",
		Bar:        "#333232",
		Frame:      "#403e3e",
		Focused:    "#c6aa82",
		Occupied:   "#98967e",
		Urgent:     "#b76666",
		Pressed:    "#98967e",
	},
}

// Default returns the configuration written to new config files.
func Default() Config {
	return defaultConfig
}

type Config struct {
	ID            string `json:"id" yaml:"id"`
	Tags          int    `json:"tags" yaml:"tags"`
	Anchor        string `json:"anchor" yaml:"anchor"`           // [top, bottom, left, right, center]
	Orientation   string `json:"orientation" yaml:"orientation"` // [horizontal, vertical]
	IconSize      int    `json:"icon_size" yaml:"icon_size"`
	HighlightSize int    `json:"highlight_size" yaml:"highlight_size"`
	Border        int    `json:"border" yaml:"border"`
	Margin        int    `json:"margin" yaml:"margin"`
	Spacing       int    `json:"spacing" yaml:"spacing"`
	HideAfter     string `json:"hide_after" yaml:"hide_after"`
	Hidden        bool   `json:"hidden" yaml:"hidden"`
	Command       string `json:"command" yaml:"command"`
	Colors        Colors `json:"colors" yaml:"colors"`
}

type Colors struct {
	Background string `json:"background" yaml:"background"`
	Bar        string `json:"bar" yaml:"bar"`
	Frame      string `json:"frame" yaml:"frame"`
	Focused    string `json:"focused" yaml:"focused"`
	Occupied   string `json:"occupied" yaml:"occupied"`
	Urgent     string `json:"urgent" yaml:"urgent"`
	Pressed    string `json:"pressed" yaml:"pressed"`
}
