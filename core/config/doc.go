// Package config provides configuration management for the statistics sync
// service.
//
// It utilizes Viper for loading configuration from environment variables and
// a .env file (via godotenv), with defaults declared as struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: statistics store connection details (mysql or sqlite)
//   - Sheets: spreadsheet API credentials, workbook ID and rate limits
//   - Storage: S3/MinIO snapshot archive settings
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sheets.SpreadsheetID)
package config
