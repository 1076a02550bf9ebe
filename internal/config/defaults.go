package config

const (
	defaultBinary      = "ffmpeg"
	defaultFormat      = "mp4"
	defaultActivityLog = "conversion_log.txt"
	defaultStartDir    = "~"
	defaultLockDirName = "vidconv-locks"
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"
	binaryEnvOverride  = "VIDCONV_FFMPEG"
	defaultConfigPath  = "~/.config/vidconv/config.toml"
	projectConfigName  = "vidconv.toml"
)

func defaultFormats() []string {
	return []string{"mp4", "mov", "avi", "mkv", "webm"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Encoder: Encoder{Binary: defaultBinary},
		Formats: Formats{
			Allowed: defaultFormats(),
			Default: defaultFormat,
		},
		Paths: Paths{
			ActivityLog: defaultActivityLog,
			StartDir:    defaultStartDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
