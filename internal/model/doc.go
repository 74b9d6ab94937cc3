// Package model provides the schema-resolution contract used by mapping rules.
//
// Schemas form a single-inheritance tree. A rule names its source and
// destination schemas by canonical base name (snake_case of the schema name),
// and the Catalog answers "which descendant of this schema has that name".
//
// Schemas may also expose named methods, which rules use as derived-value
// callables for "through" declarations.
package model
