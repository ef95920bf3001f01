// Package export writes result tables to a spreadsheet, one sheet per
// category, with a formatted frozen header row, auto-sized columns and
// column auto-filters. It is a pure consumer of the table schema.
package export
