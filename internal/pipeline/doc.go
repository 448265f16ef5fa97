// Package pipeline turns raw survey extract rows into normalized
// rows. It detects the row format, resolves labels through the
// normalizers, coerces currency and count strings into numbers, and
// emits one NormalizedRow per input row with its variables resolved
// to canonical keys.
//
// Coercion accepts accounting notation: "$250,000" parses as 250000,
// "(1,200)" as -1200, and suppression markers such as "***" or "N/A"
// as zero.
package pipeline
