package config

import "flag"

// Flags are the command-line overrides. Zero values leave the config alone.
type Flags struct {
	Config     string
	Debug      bool
	Windowed   bool
	Fullscreen bool
	Width      int
	Height     int
	Watch      bool
	NoFlipUVs  bool
	MaxTexture int

	fs *flag.FlagSet
}

// RegisterFlags defines the viewer flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.Windowed, "windowed", false, "Run in windowed mode")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	fs.BoolVar(&f.Watch, "watch", false, "Reload the model when it changes on disk")
	fs.BoolVar(&f.NoFlipUVs, "no-flip-uvs", false, "Keep texture coordinates as stored")
	fs.IntVar(&f.MaxTexture, "max-texture", 0, "Downscale textures larger than this")
	return f
}

// ModelPath returns the first positional argument.
func (f *Flags) ModelPath() string {
	if f.fs == nil {
		return ""
	}
	return f.fs.Arg(0)
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Windowed {
		cfg.Window.Fullscreen = false
	}
	if f.Fullscreen {
		cfg.Window.Fullscreen = true
	}
	if f.Width > 0 {
		cfg.Window.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Window.Height = f.Height
	}
	if f.Watch {
		cfg.Model.Watch = true
	}
	if f.NoFlipUVs {
		cfg.Model.FlipUVs = false
	}
	if f.MaxTexture > 0 {
		cfg.Texture.MaxSize = f.MaxTexture
	}
	if p := f.ModelPath(); p != "" {
		cfg.Model.Path = p
	}
}
