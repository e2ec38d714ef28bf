// Package settings models the jrnl settings document and answers per-journal
// configuration queries.
//
// A document holds a schema version and a root CommonConfig. The root's
// journals table maps names either to a bare file path or to an override
// table with its own settings and a single "journal" path. Queries resolve
// a value from the journal's override, then the root, then [Defaults].
//
// Command-line overrides are collected into a [Patch], which is merged into
// the parsed YAML tree before it is decoded, so overrides are validated by
// the same schema as the file.
package settings
