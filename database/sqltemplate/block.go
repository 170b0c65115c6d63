package sqltemplate

// resolveBlock writes the inner text of block with its placeholders bound.
// When one of them is bound to the skip marker, everything written for the
// block is discarded and the placeholders after it consume nothing.
func (b *binder) resolveBlock(block Token) error {
	mark := b.out.Len()
	last := block.Start + 1
	for _, tok := range block.Inner {
		b.out.WriteString(b.template[last:tok.Start])
		last = tok.End

		arg, index, present := b.args.next()
		if present && arg.IsSkip() {
			b.out.Truncate(mark)
			b.elided++
			return nil
		}
		if err := b.fmt.format(&b.out, tok, arg, index, present); err != nil {
			return err
		}
	}
	b.out.WriteString(b.template[last : block.End-1])
	return nil
}
