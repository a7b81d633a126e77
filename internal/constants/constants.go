package constants

import "time"

const (
	AppName            = "standup"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/standup"
	DefaultConfigPath  = "~/.config/standup/config.yaml"
	DefaultDBPath      = "~/.config/standup/standup.db"
	Version            = "v0.3.0"

	// DateFormat is the calendar day format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat is a fixed-width UTC timestamp layout. SQLite compares
	// entry_date as text, so every stored value must have the same width.
	TimestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

	// Environment variables
	EnvDBConnection = "STANDUP_DB_CONNECTION"
	EnvOwner        = "STANDUP_OWNER"

	// Engine defaults
	DefaultTimezone       = "America/Chicago"
	DefaultSameDayPolicy  = "keep"
	DefaultStorageTimeout = 5 * time.Second
	DefaultMaxRetries     = 3
	DefaultQuantity       = 1

	// MomentumWindowDays is the length of the trailing momentum window, today included
	MomentumWindowDays = 7

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "standup-"
	BackupFileSuffix = ".db"
)
