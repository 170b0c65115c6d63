package sqltemplate

import (
	"bytes"

	"github.com/fpdb/fpdb/database/sqltypes"
	"github.com/fpdb/fpdb/stats"
)

// Database builds SQL text from templates.  It never talks to a database: the
// only thing it needs from the connectivity layer is an Escaper.
//
// A Database is safe for concurrent use as long as its Escaper is.
type Database struct {
	escaper   sqltypes.Escaper
	fmt       formatter
	cache     *scanCache
	cacheSize int
	stats     *buildStats
}

type Option func(*Database)

// WithScanCacheSize keeps the scan results of the size most recently built
// templates.  A size of zero or less disables the cache.
func WithScanCacheSize(size int) Option {
	return func(db *Database) {
		db.cacheSize = size
	}
}

// WithStatsFactory reports build metrics to factory.
func WithStatsFactory(factory stats.StatsFactory) Option {
	return func(db *Database) {
		db.stats = newBuildStats(factory)
	}
}

// New returns a Database that escapes strings and identifiers with escaper.
// A nil escaper means sqltypes.MySQLEscaper.
func New(escaper sqltypes.Escaper, opts ...Option) *Database {
	if escaper == nil {
		escaper = sqltypes.MySQLEscaper
	}
	db := &Database{
		escaper: escaper,
		fmt:     formatter{esc: escaper},
	}
	for _, opt := range opts {
		opt(db)
	}
	if db.stats == nil {
		db.stats = newBuildStats(stats.NoOpStatsFactory)
	}
	if db.cacheSize > 0 {
		// lru.New only fails for non positive sizes
		db.cache, _ = newScanCache(db.cacheSize)
	}
	return db
}

var defaultDatabase = New(nil)

// BuildQuery builds template with args using the MySQL escaper.
func BuildQuery(template string, args ...interface{}) (string, error) {
	return defaultDatabase.BuildQuery(template, args...)
}

// Skip returns the marker that omits a placeholder, or its enclosing block.
func Skip() sqltypes.Value {
	return sqltypes.SKIP
}

// Skip returns the marker that omits a placeholder, or its enclosing block.
func (db *Database) Skip() sqltypes.Value {
	return sqltypes.SKIP
}

// BuildQuery converts args with sqltypes.BuildValue and builds template.
// An argument that cannot be converted is a type mismatch.
func (db *Database) BuildQuery(
	template string,
	args ...interface{}) (string, error) {

	values := make([]sqltypes.Value, len(args))
	for i, arg := range args {
		v, err := sqltypes.BuildValue(arg)
		if err != nil {
			terr := newTemplateError(
				ErrTypeMismatch,
				Token{Start: -1},
				i,
				err,
				"argument %d cannot be bound",
				i)
			db.stats.recordError(terr)
			return "", terr
		}
		values[i] = v
	}
	return db.BuildQueryValues(template, values)
}

// BuildQueryValues substitutes args into the placeholders and blocks of
// template, in order, and returns the resulting SQL.  Templates without
// placeholders or blocks are returned unchanged.
func (db *Database) BuildQueryValues(
	template string,
	args []sqltypes.Value) (string, error) {

	db.stats.builds.Inc()

	tokens := db.Scan(template)
	if len(tokens) == 0 {
		db.stats.queryBytes.Observe(float64(len(template)))
		db.stats.argsConsumed.Observe(0)
		return template, nil
	}

	cursor := &argCursor{args: args}
	b := newBinder(template, db.fmt, cursor)
	query, err := b.bind(tokens)
	if err != nil {
		db.stats.recordError(err)
		return "", err
	}

	db.stats.skipped.Add(float64(b.skipped))
	db.stats.elided.Add(float64(b.elided))
	db.stats.queryBytes.Observe(float64(len(query)))
	db.stats.argsConsumed.Observe(float64(cursor.consumed()))
	return query, nil
}

// Scan returns the tokens of template, from the scan cache when enabled.
func (db *Database) Scan(template string) []Token {
	if db.cache == nil {
		return Scan(template)
	}
	tokens, hit := db.cache.scan(template)
	if hit {
		db.stats.scanCacheHits.Inc()
	} else {
		db.stats.scanCacheMisses.Inc()
	}
	return tokens
}

// FormatValue renders a single value as placeholder p would.
func (db *Database) FormatValue(p Placeholder, v sqltypes.Value) (string, error) {
	tok := Token{
		Kind:        PlaceholderToken,
		Start:       -1,
		Text:        p.String(),
		Placeholder: p,
	}
	out := bytes.NewBuffer(nil)
	if err := db.fmt.format(out, tok, v, 0, true); err != nil {
		return "", err
	}
	return out.String(), nil
}
