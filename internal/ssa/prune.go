package ssa

// RemoveUnreachable deletes the blocks of f that no path from the entry
// reaches, detaching their edges into live blocks. It returns the number
// of blocks removed.
func RemoveUnreachable(f *Func) int {
	if f.Entry == nil {
		return 0
	}
	live := make(map[*Block]bool, len(f.Blocks))
	stack := []*Block{f.Entry}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if live[b] {
			continue
		}
		live[b] = true
		stack = append(stack, b.Succs...)
	}

	kept := f.Blocks[:0]
	removed := 0
	for _, b := range f.Blocks {
		if live[b] {
			kept = append(kept, b)
			continue
		}
		removed++
		for _, s := range b.Succs {
			if live[s] {
				s.removePred(b)
			}
		}
		for _, v := range b.Values {
			for _, a := range v.Args {
				if a != nil {
					a.Uses--
				}
			}
		}
		for _, c := range b.Controls {
			if c != nil {
				c.Uses--
			}
		}
	}
	clear(f.Blocks[len(kept):])
	f.Blocks = kept
	return removed
}
