// Package aggregate groups normalized rows by specialty, survey
// source, provider type, and region, and merges their variable
// metrics. Within a group the first source to report a nonzero
// median owns that variable; later duplicates do not displace it.
// Variables with no real observations are dropped from the output.
package aggregate
