// Package search resolves parsed track references against the catalog:
// keyword prefilter, concurrent scoring, threshold filtering, and
// classification of each entry as missing, found, or multiple.
package search
