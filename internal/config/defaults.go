package config

const (
	defaultDataDir             = "~/.local/share/minutes"
	defaultExportDir           = "~/Documents/meeting-transcripts"
	defaultLogDir              = "~/.local/share/minutes/logs"
	defaultFormat              = "md"
	defaultFilenamePattern     = "{date}_{time}_{title}_{attendees}"
	defaultMaxSessions         = 10
	defaultMaxScreenshots      = 20
	defaultTranscriptChunkSize = 100
	defaultNotifyTimeout       = 10
	defaultNotifyDedupSeconds  = 60
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

func defaultFormats() []string {
	return []string{"md", "txt"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			ExportDir: defaultExportDir,
			LogDir:    defaultLogDir,
		},
		Export: Export{
			Formats:         defaultFormats(),
			DefaultFormat:   defaultFormat,
			FilenamePattern: defaultFilenamePattern,
			AttendeeSummary: true,
		},
		Capture: Capture{
			AutoSave:                 true,
			MaxSessions:              defaultMaxSessions,
			MaxScreenshotsPerMeeting: defaultMaxScreenshots,
			TranscriptChunkSize:      defaultTranscriptChunkSize,
		},
		Notify: Notify{
			Enabled:            false,
			RequestTimeout:     defaultNotifyTimeout,
			DedupWindowSeconds: defaultNotifyDedupSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DeclaredDefaults lists the settings reconciled into the persisted settings
// store at startup. Keys map to the values the daemon treats as canonical.
func (c *Config) DeclaredDefaults() map[string]string {
	return map[string]string{
		"default_format":   c.Export.DefaultFormat,
		"filename_pattern": c.Export.FilenamePattern,
		"auto_save":        boolSetting(c.Capture.AutoSave),
		"attendee_summary": boolSetting(c.Export.AttendeeSummary),
	}
}

func boolSetting(value bool) string {
	if value {
		return "true"
	}
	return "false"
}
