// A library for interpolating typed arguments into SQL text.
//
// A template is opaque SQL text with placeholders and conditional blocks:
//
//	?    a scalar: numbers verbatim, booleans as 1/0, nil as NULL, strings
//	     quoted and escaped
//	?d   an integer; any argument is coerced, booleans become 1/0
//	?f   a float; any argument is coerced, and NULL is written when the
//	     coerced value is not finite (an overflowing "1e999", for instance)
//	?a   a list (comma separated scalars) or a map (`key` = value pairs)
//	?#   an identifier or a list of identifiers, backtick quoted
//	{ }  a conditional block: it is dropped, braces included, when one of its
//	     placeholders is bound to Skip(); otherwise only the braces are
//	     removed.  Blocks do not nest.
//
// The type tag is the whole run of ASCII letters and '#' after the '?', so
// "?dx" is a single unknown placeholder rather than "?d" followed by "x".
// Templates that need a letter right after a placeholder separate the two,
// as in "?d x".  Unknown placeholders fail the build unless they sit in a
// block dropped before they are reached.
//
// Arguments are consumed left to right, one per placeholder, including the
// placeholders of blocks.  A placeholder bound to Skip() is removed from the
// output and consumes its argument.
//
// Example:
//
//	db := sqltemplate.New(sqltypes.MySQLEscaper)
//	query, err := db.BuildQuery(
//		"SELECT ?# FROM users WHERE name = ?{ AND block = ?d}",
//		[]string{"name", "email"},
//		"Jack",
//		db.Skip())
//	// SELECT `name`, `email` FROM users WHERE name = 'Jack'
//
// SQL COMPATIBILITY NOTE: identifiers are quoted with backticks, so the
// generated statements target MySQL.  The templates themselves are never
// parsed as SQL; a '?' or '{' inside a string literal of the template is
// still treated as syntax.
package sqltemplate
