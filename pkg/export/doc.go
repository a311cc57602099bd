// Package export renders the building report outputs: the sorted workbook,
// the bar chart and map images, the interactive web map, the PDF summary and
// the run manifest.
//
// Each output follows the same shape: an XConfig with DefaultXConfig, a
// builder created from it, and an ExportXToFile convenience function that
// overwrites the destination.
package export
