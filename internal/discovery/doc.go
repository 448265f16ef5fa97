// Package discovery scans survey sources for compensation variables
// and resolves the raw labels it finds into a deduplicated catalog.
// Scanning and resolution are separate passes so a mapping change can
// re-resolve cached scan results without re-reading the corpus.
package discovery
