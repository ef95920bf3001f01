// Package table aggregates decoded records into column-stable tables, one
// per media category. The column set of each table is fixed: downstream
// consumers index columns unconditionally, so an empty input still yields
// the full schema with zero rows.
package table
