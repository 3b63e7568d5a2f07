// Package models defines the persisted and transient data types of the
// statistics sync feature: the Dependencia and Estadistica GORM models, the
// ParsedStatistic intermediate record, and the run result aggregates.
package models
