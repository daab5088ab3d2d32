// Package files locates and reads the single input table of a pipeline run.
//
// Locator resolves a user-supplied path. A path whose file name carries the
// input marker (by default "csv") is read directly; any other path is treated
// as a directory and scanned, non-recursively, for files carrying the marker.
// Exactly one candidate must exist.
//
// ReadTable turns the located file into a Table of raw string cells. CSV files
// may start with a UTF-8 byte order mark; XLSX files are read from their first
// worksheet.
//
// Example usage:
//
//	locator := files.NewLocator("csv", logger)
//	table, err := locator.Load("exports/")
//	if err != nil {
//	    // NOT_FOUND, AMBIGUOUS_INPUT, PARSING or STORAGE
//	}
package files
