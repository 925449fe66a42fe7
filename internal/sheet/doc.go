// Package sheet extracts Marathi–English sentence pairs from spreadsheets.
//
// Reading happens in three steps: Read loads the raw header and rows from an
// .xlsx or .csv file, InferColumns picks the source and target columns from
// the header, and Normalize turns rows into trimmed core.TranslationPair
// values. Load runs all three.
package sheet
