// Package naming normalizes user-facing names into the keys used to index
// tasks, data sources and their configurations.
//
// A normalized name is trimmed, lower-cased and has every space replaced by
// an underscore:
//
//	naming.Normalize("  Sales Input ") // "sales_input"
//
// The same rule is applied when a task is constructed and when one of its
// references is looked up, so callers may use either spelling.
package naming
