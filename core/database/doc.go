// Package database manages the relational store connection.
//
// It wraps GORM connection setup for the statistics store. MySQL is the
// production driver; sqlite is supported for local runs and tests. The
// connector applies pool limits and verifies the connection with a ping
// before handing it out, so a misconfigured store fails at startup instead
// of mid-sync.
package database
