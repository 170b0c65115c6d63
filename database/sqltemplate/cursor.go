package sqltemplate

import (
	"github.com/fpdb/fpdb/database/sqltypes"
)

// argCursor hands out arguments in order.  It is shared by the placeholders
// of the whole template, blocks included.
type argCursor struct {
	args []sqltypes.Value
	pos  int
}

// next returns the next argument and advances.  present is false once the
// arguments are exhausted; the cursor still advances so that consumed keeps
// counting placeholders.
func (c *argCursor) next() (v sqltypes.Value, index int, present bool) {
	index = c.pos
	c.pos++
	if index < len(c.args) {
		return c.args[index], index, true
	}
	return sqltypes.NULL, index, false
}

// consumed is the number of argument positions handed out so far.
func (c *argCursor) consumed() int {
	return c.pos
}
