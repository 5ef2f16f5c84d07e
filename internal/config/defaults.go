package config

const (
	defaultSheetTab             = "ImportadosBlogger2"
	defaultQueuedColumn         = "Enfileirado_Videos"
	defaultPublishedColumn      = "Publicado_Youtube"
	defaultVaultTab             = "Credenciais_Rede"
	defaultMaxPerRun            = 10
	defaultItemPauseSeconds     = 2.0
	defaultChannelGapSeconds    = 1.0
	defaultTimezone             = "America/Sao_Paulo"
	defaultTokenURL             = "https://oauth2.googleapis.com/token"
	defaultAPIEndpoint          = "https://youtube.googleapis.com/"
	defaultTokenTimeoutSeconds  = 30
	defaultUploadTimeoutSeconds = 1800
	defaultOutputDir            = "output"
	defaultFFmpegBinary         = "ffmpeg"
	defaultVideoSeconds         = 8
	defaultStateDir             = "~/.local/share/lotoqueue"
	defaultLogDir               = "~/.local/share/lotoqueue/logs"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 30
	defaultNotifyTimeout        = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Sheet: Sheet{
			Tab:             defaultSheetTab,
			QueuedColumn:    defaultQueuedColumn,
			PublishedColumn: defaultPublishedColumn,
		},
		Vault: Vault{
			Tab: defaultVaultTab,
		},
		Queue: Queue{
			MaxPerRun:         defaultMaxPerRun,
			ItemPauseSeconds:  defaultItemPauseSeconds,
			ChannelGapSeconds: defaultChannelGapSeconds,
			Timezone:          defaultTimezone,
		},
		YouTube: YouTube{
			TokenURL:             defaultTokenURL,
			APIEndpoint:          defaultAPIEndpoint,
			TokenTimeoutSeconds:  defaultTokenTimeoutSeconds,
			UploadTimeoutSeconds: defaultUploadTimeoutSeconds,
		},
		Render: Render{
			OutputDir:    defaultOutputDir,
			FFmpegBinary: defaultFFmpegBinary,
			VideoSeconds: defaultVideoSeconds,
			Logos:        true,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
	}
}
