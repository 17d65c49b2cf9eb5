// Package importer turns spreadsheet exports, statements and free text into
// validated game purchases.
//
// The pipeline is strictly staged: raw text is split into rows by
// ReadDelimited, the header row is resolved to canonical fields by
// MapColumns, every data row is normalized by a Validator, and a Session
// drives the Upload, Preview and Result steps before handing error-free rows
// to a Writer in one commit.
package importer
