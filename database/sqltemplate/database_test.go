package sqltemplate

import (
	"strings"
	"sync"
	"testing"

	. "gopkg.in/check.v1"

	"github.com/fpdb/fpdb/database/sqltypes"
	. "github.com/fpdb/fpdb/gocheck2"
	"github.com/fpdb/fpdb/stats"
)

func Test(t *testing.T) {
	TestingT(t)
}

type DatabaseSuite struct {
	db *Database
}

var _ = Suite(&DatabaseSuite{})

func (s *DatabaseSuite) SetUpTest(c *C) {
	s.db = New(sqltypes.MySQLEscaper)
}

func (s *DatabaseSuite) build(c *C, template string, args ...interface{}) string {
	query, err := s.db.BuildQuery(template, args...)
	c.Assert(err, IsNil)
	return query
}

func (s *DatabaseSuite) TestNoPlaceholders(c *C) {
	template := "SELECT name FROM users WHERE user_id = 1"
	c.Assert(s.build(c, template), TextEquals, template)
	c.Assert(s.build(c, template, 1, "unused"), TextEquals, template)
	c.Assert(s.build(c, ""), TextEquals, "")
}

func (s *DatabaseSuite) TestScalar(c *C) {
	c.Assert(
		s.build(c, "SELECT * FROM users WHERE name = ? AND block = 0", "Jack"),
		TextEquals,
		"SELECT * FROM users WHERE name = 'Jack' AND block = 0")

	c.Assert(
		s.build(c, "SELECT ?, ?, ?, ?, ?", 1, 2.5, true, false, nil),
		TextEquals,
		"SELECT 1, 2.5, 1, 0, NULL")
}

func (s *DatabaseSuite) TestMixed(c *C) {
	query := s.build(
		c,
		"SELECT ?# FROM users WHERE user_id = ?d AND block = ?d",
		[]string{"name", "email"},
		2,
		true)
	c.Assert(
		query,
		TextEquals,
		"SELECT `name`, `email` FROM users WHERE user_id = 2 AND block = 1")
}

func (s *DatabaseSuite) TestUpdateWithMap(c *C) {
	m := sqltypes.NewMap()
	c.Assert(m.Set("name", "Jack"), IsNil)
	c.Assert(m.Set("email", nil), IsNil)

	query := s.build(c, "UPDATE users SET ?a WHERE user_id = -1", m)
	c.Assert(
		query,
		TextEquals,
		"UPDATE users SET `name` = 'Jack', `email` = NULL WHERE user_id = -1")
}

func (s *DatabaseSuite) TestUpdateWithMapValue(c *C) {
	var m sqltypes.Map
	c.Assert(m.Set("name", "Bob"), IsNil)

	c.Assert(s.build(c, "SET ?a", m), TextEquals, "SET `name` = 'Bob'")
}

func (s *DatabaseSuite) TestNilMap(c *C) {
	nilMap := sqltypes.MakeMap(nil)
	c.Assert(nilMap.IsNull(), IsTrue)

	for _, arg := range []sqltypes.Value{nilMap, {Inner: (*sqltypes.Map)(nil)}} {
		query, err := s.db.BuildQueryValues("x = ?d AND y = ?f", []sqltypes.Value{arg, arg})
		c.Assert(err, IsNil)
		c.Assert(query, TextEquals, "x = 0 AND y = 0")

		_, err = s.db.BuildQueryValues("SET ?a", []sqltypes.Value{arg})
		c.Assert(err, ErrorIs, ErrTypeMismatch)
	}
}

func (s *DatabaseSuite) TestGoMapKeysSorted(c *C) {
	query := s.build(
		c,
		"UPDATE t SET ?a",
		map[string]interface{}{"name": "Bob", "age": 25})
	c.Assert(query, TextEquals, "UPDATE t SET `age` = 25, `name` = 'Bob'")
}

func (s *DatabaseSuite) TestArrayList(c *C) {
	query := s.build(
		c,
		"SELECT name FROM users WHERE ?# IN (?a)",
		"user_id",
		[]int{1, 2, 3})
	c.Assert(
		query,
		TextEquals,
		"SELECT name FROM users WHERE `user_id` IN (1, 2, 3)")
}

func (s *DatabaseSuite) TestIdentifiers(c *C) {
	c.Assert(
		s.build(c, "SELECT ?# FROM t", []string{"id", "name"}),
		TextEquals,
		"SELECT `id`, `name` FROM t")
}

func (s *DatabaseSuite) TestIntCoercion(c *C) {
	c.Assert(s.build(c, "LIMIT ?d", "3.9"), TextEquals, "LIMIT 3")
	c.Assert(s.build(c, "LIMIT ?d", true), TextEquals, "LIMIT 1")
	c.Assert(s.build(c, "LIMIT ?d", nil), TextEquals, "LIMIT 0")
	c.Assert(s.build(c, "LIMIT ?d"), TextEquals, "LIMIT 0")
}

func (s *DatabaseSuite) TestFloat(c *C) {
	c.Assert(s.build(c, "x = ?f", "1.25"), TextEquals, "x = 1.25")
	c.Assert(s.build(c, "x = ?f", 2), TextEquals, "x = 2")
	c.Assert(s.build(c, "x = ?f"), TextEquals, "x = 0")
	c.Assert(s.build(c, "x = ?f", "1e999"), TextEquals, "x = NULL")
	c.Assert(s.build(c, "x = ?f", "-1e999"), TextEquals, "x = NULL")
}

func (s *DatabaseSuite) TestSkipOutsideBlock(c *C) {
	c.Assert(
		s.build(c, "WHERE id = ?", s.db.Skip()),
		TextEquals,
		"WHERE id = ")
}

func (s *DatabaseSuite) TestBlockElided(c *C) {
	c.Assert(
		s.build(c, "SELECT * FROM t {WHERE id = ?d}", Skip()),
		TextEquals,
		"SELECT * FROM t ")
}

func (s *DatabaseSuite) TestBlockRetained(c *C) {
	c.Assert(
		s.build(c, "SELECT * FROM t {WHERE id = ?d}", 5),
		TextEquals,
		"SELECT * FROM t WHERE id = 5")
}

func (s *DatabaseSuite) TestBlockClassic(c *C) {
	template := "SELECT name FROM users WHERE ?# IN (?a){ AND block = ?d}"
	c.Assert(
		s.build(c, template, "user_id", []int{1, 2, 3}, s.db.Skip()),
		TextEquals,
		"SELECT name FROM users WHERE `user_id` IN (1, 2, 3)")
	c.Assert(
		s.build(c, template, "user_id", []int{1, 2, 3}, true),
		TextEquals,
		"SELECT name FROM users WHERE `user_id` IN (1, 2, 3) AND block = 1")
}

func (s *DatabaseSuite) TestBlockWithoutPlaceholders(c *C) {
	c.Assert(
		s.build(c, "SELECT 1{ FROM dual} WHERE a = ?", 7),
		TextEquals,
		"SELECT 1 FROM dual WHERE a = 7")
}

func (s *DatabaseSuite) TestBlockSkipDropsLaterInnerArgs(c *C) {
	// Placeholders after the skipped one in the same block consume nothing.
	query := s.build(
		c,
		"SELECT * FROM t{ WHERE a = ? AND b = ?} AND c = ?",
		Skip(),
		"c")
	c.Assert(query, TextEquals, "SELECT * FROM t AND c = 'c'")
}

func (s *DatabaseSuite) TestBlockSkipAfterEarlierInnerArgs(c *C) {
	query := s.build(
		c,
		"SELECT * FROM t{ WHERE a = ? AND b = ?} AND c = ?",
		"a",
		Skip(),
		"c")
	c.Assert(query, TextEquals, "SELECT * FROM t AND c = 'c'")
}

func (s *DatabaseSuite) TestMultipleBlocks(c *C) {
	query := s.build(
		c,
		"SELECT * FROM t WHERE 1{ AND a = ?d}{ AND b = ?}{ AND c = ?d}",
		Skip(),
		"x",
		Skip())
	c.Assert(query, TextEquals, "SELECT * FROM t WHERE 1 AND b = 'x'")
}

func (s *DatabaseSuite) TestSubstitutedTextIsNotRescanned(c *C) {
	query := s.build(c, "SELECT ?, ?d", "?d {x}", 3)
	c.Assert(query, TextEquals, "SELECT '?d {x}', 3")
}

func (s *DatabaseSuite) TestEscaping(c *C) {
	c.Assert(
		s.build(c, "WHERE name = ?", "O'Reilly \\ \"x\""),
		TextEquals,
		`WHERE name = 'O\'Reilly \\ \"x\"'`)

	ansi := New(sqltypes.ANSIEscaper)
	query, err := ansi.BuildQuery("WHERE name = ?", "O'Reilly")
	c.Assert(err, IsNil)
	c.Assert(query, TextEquals, "WHERE name = 'O''Reilly'")
}

func (s *DatabaseSuite) TestUnknownPlaceholder(c *C) {
	_, err := s.db.BuildQuery("SELECT ?x", 1)
	c.Assert(err, ErrorIs, ErrUnknownPlaceholder)

	templateErr, ok := err.(*TemplateError)
	c.Assert(ok, IsTrue)
	c.Assert(templateErr.Placeholder, Equals, "?x")
	c.Assert(templateErr.Offset, Equals, 7)
	c.Assert(templateErr.ArgIndex, Equals, 0)
	c.Assert(templateErr.Error(), Equals, "unknown placeholder: ?x at offset 7")
}

func (s *DatabaseSuite) TestTagAbsorbsTrailingLetters(c *C) {
	_, err := s.db.BuildQuery("LIMIT ?dx", 1)
	c.Assert(err, ErrorIs, ErrUnknownPlaceholder)
	c.Assert(err.(*TemplateError).Placeholder, Equals, "?dx")

	c.Assert(s.build(c, "LIMIT ?d x", 1), TextEquals, "LIMIT 1 x")
	c.Assert(s.build(c, "LIMIT ?d,x", 1), TextEquals, "LIMIT 1,x")
}

func (s *DatabaseSuite) TestUnknownPlaceholderInElidedBlock(c *C) {
	query := s.build(c, "SELECT 1{ AND a = ?d AND b = ?x}", Skip())
	c.Assert(query, TextEquals, "SELECT 1")

	_, err := s.db.BuildQuery("SELECT 1{ AND a = ?d AND b = ?x}", 1, 2)
	c.Assert(err, ErrorIs, ErrUnknownPlaceholder)
}

func (s *DatabaseSuite) TestTypeMismatch(c *C) {
	_, err := s.db.BuildQuery("SELECT * FROM t WHERE id IN (?a)", "1, 2")
	c.Assert(err, ErrorIs, ErrTypeMismatch)

	templateErr := err.(*TemplateError)
	c.Assert(templateErr.Placeholder, Equals, "?a")
	c.Assert(templateErr.Offset, Equals, 29)
	c.Assert(
		templateErr.GetMessage(),
		Equals,
		"?a at offset 29 expects a list or map, got string (argument 0)")

	_, err = s.db.BuildQuery("SELECT ?#", 1)
	c.Assert(err, ErrorIs, ErrTypeMismatch)

	_, err = s.db.BuildQuery("SELECT ?", []int{1})
	c.Assert(err, ErrorIs, ErrTypeMismatch)
}

func (s *DatabaseSuite) TestMissingArgument(c *C) {
	for _, template := range []string{"SELECT ?", "SELECT ?a", "SELECT ?#"} {
		_, err := s.db.BuildQuery(template)
		c.Assert(err, ErrorIs, ErrTypeMismatch)
		c.Assert(
			strings.Contains(err.Error(), "missing argument"),
			IsTrue,
			Commentf("%s", err))
	}
}

func (s *DatabaseSuite) TestUnsupportedArgument(c *C) {
	_, err := s.db.BuildQuery("SELECT ?, ?", 1, make(chan int))
	c.Assert(err, ErrorIs, ErrTypeMismatch)

	templateErr := err.(*TemplateError)
	c.Assert(templateErr.ArgIndex, Equals, 1)
	c.Assert(templateErr.Offset, Equals, -1)
}

func (s *DatabaseSuite) TestErrorHasStack(c *C) {
	_, err := s.db.BuildQuery("SELECT ?x")
	templateErr := err.(*TemplateError)
	c.Assert(
		strings.Contains(templateErr.GetStack(), "sqltemplate"),
		IsTrue,
		Commentf("%s", templateErr.GetStack()))
}

func (s *DatabaseSuite) TestBuildQueryValues(c *C) {
	query, err := s.db.BuildQueryValues(
		"INSERT INTO t VALUES (?a)",
		[]sqltypes.Value{
			sqltypes.MakeList(
				sqltypes.MakeInt(1),
				sqltypes.MakeBytes([]byte("\x00\x01")),
				sqltypes.NULL),
		})
	c.Assert(err, IsNil)
	c.Assert(query, TextEquals, "INSERT INTO t VALUES (1, X'0001', NULL)")
}

func (s *DatabaseSuite) TestPackageBuildQuery(c *C) {
	query, err := BuildQuery("SELECT ?# FROM t WHERE a = ?", "col", "v")
	c.Assert(err, IsNil)
	c.Assert(query, TextEquals, "SELECT `col` FROM t WHERE a = 'v'")
}

func (s *DatabaseSuite) TestSkipIsDistinctFromNull(c *C) {
	c.Assert(Skip().IsSkip(), IsTrue)
	c.Assert(Skip().IsNull(), IsFalse)
	c.Assert(s.db.Skip(), Equals, Skip())
	c.Assert(s.build(c, "a = ?", nil), TextEquals, "a = NULL")
}

func (s *DatabaseSuite) TestScanCache(c *C) {
	factory := stats.NewMemoryStatsFactory()
	db := New(nil, WithScanCacheSize(2), WithStatsFactory(factory))

	for i := 0; i < 3; i++ {
		query, err := db.BuildQuery("SELECT ?d", i)
		c.Assert(err, IsNil)
		c.Assert(query, Equals, "SELECT "+string(rune('0'+i)))
	}
	c.Assert(db.cache.len(), Equals, 1)

	_, err := db.BuildQuery("SELECT 1")
	c.Assert(err, IsNil)
	_, err = db.BuildQuery("SELECT 2")
	c.Assert(err, IsNil)
	c.Assert(db.cache.len(), Equals, 2)

	snap := factory.Snapshot()
	c.Assert(snap.Counters["sqltemplate.builds"], Equals, 5.0)
	c.Assert(snap.Counters["sqltemplate.scan_cache_hits"], Equals, 2.0)
	c.Assert(snap.Counters["sqltemplate.scan_cache_misses"], Equals, 3.0)
}

func (s *DatabaseSuite) TestCacheDisabled(c *C) {
	db := New(nil, WithScanCacheSize(0))
	c.Assert(db.cache, IsNil)

	query, err := db.BuildQuery("SELECT ?", "x")
	c.Assert(err, IsNil)
	c.Assert(query, Equals, "SELECT 'x'")
}

func (s *DatabaseSuite) TestStats(c *C) {
	factory := stats.NewMemoryStatsFactory()
	db := New(nil, WithStatsFactory(factory))

	_, err := db.BuildQuery("SELECT ?{ WHERE a = ?d}", Skip(), Skip())
	c.Assert(err, IsNil)
	_, err = db.BuildQuery("SELECT ?x")
	c.Assert(err, NotNil)
	_, err = db.BuildQuery("SELECT ?a", 1)
	c.Assert(err, NotNil)

	snap := factory.Snapshot()
	c.Assert(snap.Counters["sqltemplate.builds"], Equals, 3.0)
	c.Assert(snap.Counters["sqltemplate.skipped_placeholders"], Equals, 1.0)
	c.Assert(snap.Counters["sqltemplate.elided_blocks"], Equals, 1.0)
	c.Assert(
		snap.Counters["sqltemplate.errors{kind=unknown_placeholder}"],
		Equals,
		1.0)
	c.Assert(
		snap.Counters["sqltemplate.errors{kind=type_mismatch}"],
		Equals,
		1.0)
	c.Assert(snap.Summaries["sqltemplate.query_bytes"].Count, Equals, int64(1))
	c.Assert(snap.Summaries["sqltemplate.query_bytes"].Sum, Equals, 7.0)
	c.Assert(snap.Summaries["sqltemplate.args_consumed"].Count, Equals, int64(1))
	c.Assert(snap.Summaries["sqltemplate.args_consumed"].Sum, Equals, 2.0)
}

func (s *DatabaseSuite) TestArgsConsumedStats(c *C) {
	factory := stats.NewMemoryStatsFactory()
	db := New(nil, WithStatsFactory(factory))

	// The skip stops the block; b consumes nothing and c takes the third
	// argument.
	query, err := db.BuildQuery(
		"SELECT * FROM t{ WHERE a = ? AND b = ?} AND c = ?",
		"a",
		Skip(),
		"c",
		"unused")
	c.Assert(err, IsNil)
	c.Assert(query, TextEquals, "SELECT * FROM t AND c = 'c'")

	_, err = db.BuildQuery("SELECT 1", "unused")
	c.Assert(err, IsNil)

	summary := factory.Snapshot().Summaries["sqltemplate.args_consumed"]
	c.Assert(summary.Count, Equals, int64(2))
	c.Assert(summary.Sum, Equals, 3.0)
	c.Assert(summary.Min, Equals, 0.0)
	c.Assert(summary.Max, Equals, 3.0)
}

func (s *DatabaseSuite) TestConcurrentBuilds(c *C) {
	db := New(nil, WithScanCacheSize(8))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, err := db.BuildQuery(
					"SELECT ?# FROM t WHERE id = ?d{ AND x = ?}",
					"col",
					i*j,
					Skip())
				if err != nil {
					errs <- err
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		c.Assert(err, IsNil)
	}
}
