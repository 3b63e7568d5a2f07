// Package utils provides defensive type conversion helpers.
//
// The sheets API returns untyped cell values (string, float64 or empty
// depending on the cell), so every numeric read in the parsers goes through
// these helpers. The conversions never fail: non-numeric input coerces to
// zero values, which matches how the ingestion pipeline treats malformed
// cells (skip or count as zero, never abort).
package utils
