package sheets

// Config holds configuration for the spreadsheet API client.
type Config struct {
	// CredentialsFile is the path to the service account JSON key.
	CredentialsFile string `mapstructure:"credentials_file" default:"credentials.json"`
	// SpreadsheetID is the master workbook holding the statistics sheets.
	SpreadsheetID string `mapstructure:"spreadsheet_id" default:""`
	// RequestsPerMinute caps outbound API calls per 60s window.
	RequestsPerMinute int `mapstructure:"requests_per_minute" default:"50"`
	// MaxRetries bounds retry attempts after quota errors.
	MaxRetries int `mapstructure:"max_retries" default:"5"`
}
