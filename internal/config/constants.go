package config

import "bankscli/pkg/contracts"

// Application constants
const (
	AppName    = "Banks ETL"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable (BANKS_SOURCE_URL, ...)
	EnvPrefix = "BANKS"

	// Source defaults
	DefaultSourceURL  = "https://web.archive.org/web/20230908091635/https://en.wikipedia.org/wiki/List_of_largest_banks"
	DefaultRatesFile  = "exchange_rate.csv"
	FetchModeHTTP     = "http"
	FetchModeBrowser  = "browser"
	DefaultFetchMode  = FetchModeHTTP
	DefaultTableIndex = 0

	// Output defaults (relative to the output directory)
	DefaultOutputDir   = "."
	DefaultCSVFile     = "Largest_banks_data.csv"
	DefaultXLSXFile    = "Largest_banks_data.xlsx"
	DefaultProgressLog = "code_log.txt"

	// Database defaults
	DefaultDatabaseFile = "Banks.db"
	DefaultTableName    = "Largest_banks"

	// Log settings
	DefaultLogLevel   = "info"
	DefaultLogOutput  = "console"
	DefaultLogFile    = "logs/banks.log"
	MaxLogFileSizeMB  = 100
	MaxLogFileAgeDays = 30
	MaxLogFileBackups = 10

	// Telemetry
	DefaultServiceName = "banks-etl"
)
