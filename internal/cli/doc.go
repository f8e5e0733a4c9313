// Package cli implements the explorastur command: load the source
// configuration, run the aggregation pipeline and write the rendered report.
package cli
