// Package files finds spreadsheet inputs on disk for the command line
// tools.
//
// Discovery lists the spreadsheets in a directory and expands a mix of file
// and directory arguments into a flat, ordered list of inputs:
//
//	discovery := files.NewDiscovery(".xlsx", ".csv")
//	inputs, err := discovery.Expand([]string{"january.csv", "reports/"})
//
// Office lock files (~$name.xlsx) and hidden files are skipped.
package files
