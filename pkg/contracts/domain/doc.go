// Package domain holds the shared survey benchmark types: sources,
// raw and normalized rows, mapping entries, discovered variables, and
// aggregated records. These types cross package boundaries and carry
// no behavior beyond small accessors.
package domain
