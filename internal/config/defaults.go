package config

const (
	defaultCacheDir         = "~/.local/share/mindex/cache"
	defaultLogDir           = "~/.local/share/mindex/logs"
	defaultExportDir        = "~/.local/share/mindex/exports"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultThreshold        = 75
	defaultMaxCandidates    = 25
	defaultPrefilterLimit   = 5000
	defaultPrefilterMinRows = 10000
	defaultWorkers          = 4
	defaultBatchSize        = 500
	defaultMinScore         = 80
	defaultScoreTolerance   = 5
)

var defaultFormatPreference = []string{"flac", "mp3", "m4a", "aac", "wav"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir:  defaultCacheDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
		},
		Scan: Scan{
			Recursive: true,
		},
		Index: Index{
			FullTags:  true,
			Workers:   defaultWorkers,
			BatchSize: defaultBatchSize,
		},
		Matching: Matching{
			Threshold:        defaultThreshold,
			MaxCandidates:    defaultMaxCandidates,
			PrefilterLimit:   defaultPrefilterLimit,
			PrefilterMinRows: defaultPrefilterMinRows,
		},
		Selection: Selection{
			Enabled:             true,
			MinScore:            defaultMinScore,
			ScoreTolerance:      defaultScoreTolerance,
			FormatPreference:    append([]string(nil), defaultFormatPreference...),
			PreferHigherBitrate: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
