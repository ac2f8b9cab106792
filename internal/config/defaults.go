package config

const (
	defaultLogDir       = "~/.local/share/vidpack/logs"
	defaultManifestPath = "~/.local/share/vidpack/manifest.db"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"

	defaultCRF          = 30
	defaultDeadline     = "good"
	defaultCPUUsed      = 4
	defaultAudioBitrate = 128

	defaultMinFreeMiB = 512
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Encoder: Encoder{
			CRF:          defaultCRF,
			Deadline:     defaultDeadline,
			CPUUsed:      defaultCPUUsed,
			AudioBitrate: defaultAudioBitrate,
		},
		Manifest: Manifest{
			Enabled: true,
			Path:    defaultManifestPath,
		},
		Preflight: Preflight{
			MinFreeMiB: defaultMinFreeMiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
