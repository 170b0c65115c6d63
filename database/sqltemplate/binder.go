package sqltemplate

import (
	"bytes"
)

// binder rebuilds a template in a single pass, copying the literal text
// between tokens and splicing in formatted arguments.
type binder struct {
	template string
	fmt      formatter
	args     *argCursor
	out      bytes.Buffer

	skipped int
	elided  int
}

func newBinder(template string, f formatter, args *argCursor) *binder {
	b := &binder{
		template: template,
		fmt:      f,
		args:     args,
	}
	b.out.Grow(len(template) + 16*len(args.args))
	return b
}

// bind substitutes every token, in order.  Nothing is returned on error.
func (b *binder) bind(tokens []Token) (string, error) {
	last := 0
	for _, tok := range tokens {
		b.out.WriteString(b.template[last:tok.Start])
		last = tok.End

		if tok.Kind == BlockToken {
			if err := b.resolveBlock(tok); err != nil {
				return "", err
			}
			continue
		}

		if err := b.bindPlaceholder(tok); err != nil {
			return "", err
		}
	}
	b.out.WriteString(b.template[last:])
	return b.out.String(), nil
}

// bindPlaceholder consumes one argument for tok.  Nothing is written when the
// argument is the skip marker.
func (b *binder) bindPlaceholder(tok Token) error {
	arg, index, present := b.args.next()
	if present && arg.IsSkip() {
		b.skipped++
		return nil
	}
	return b.fmt.format(&b.out, tok, arg, index, present)
}
