package ssa

// ReversePostOrder returns the blocks of f reachable from f.Entry in
// reverse post-order.
func ReversePostOrder(f *Func) []*Block {
	if f.Entry == nil {
		return nil
	}
	seen := make(map[*Block]bool, len(f.Blocks))
	post := make([]*Block, 0, len(f.Blocks))

	var dfs func(b *Block)
	dfs = func(b *Block) {
		seen[b] = true
		for _, s := range b.Succs {
			if !seen[s] {
				dfs(s)
			}
		}
		post = append(post, b)
	}
	dfs(f.Entry)

	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

// ComputeDom fills Block.Idom and Block.Dominees for every block
// reachable from the entry, following Cooper, Harvey and Kennedy,
// "A Simple, Fast Dominance Algorithm". Unreachable blocks get a nil Idom.
func ComputeDom(f *Func) {
	for _, b := range f.Blocks {
		b.Idom = nil
		b.Dominees = nil
	}
	rpo := ReversePostOrder(f)
	if len(rpo) == 0 {
		return
	}

	// Work on RPO indices; idom[i] == -1 means not yet known.
	num := make(map[*Block]int, len(rpo))
	for i, b := range rpo {
		num[b] = i
	}
	idom := make([]int, len(rpo))
	for i := range idom {
		idom[i] = -1
	}
	idom[0] = 0

	intersect := func(a, b int) int {
		for a != b {
			for a > b {
				a = idom[a]
			}
			for b > a {
				b = idom[b]
			}
		}
		return a
	}

	for changed := true; changed; {
		changed = false
		for i := 1; i < len(rpo); i++ {
			nd := -1
			for _, p := range rpo[i].Preds {
				pi, ok := num[p]
				if !ok || idom[pi] < 0 {
					continue // unreachable or not processed yet
				}
				if nd < 0 {
					nd = pi
				} else {
					nd = intersect(pi, nd)
				}
			}
			if nd >= 0 && idom[i] != nd {
				idom[i] = nd
				changed = true
			}
		}
	}

	for i := 1; i < len(rpo); i++ {
		b, d := rpo[i], rpo[idom[i]]
		b.Idom = d
		d.Dominees = append(d.Dominees, b)
	}
}

// ComputeDomFrontier returns the dominance frontier of each block.
// ComputeDom must have been called first.
func ComputeDomFrontier(f *Func) map[*Block][]*Block {
	df := make(map[*Block][]*Block)
	for _, b := range f.Blocks {
		if len(b.Preds) < 2 {
			continue
		}
		for _, p := range b.Preds {
			for r := p; r != nil && r != b.Idom; r = r.Idom {
				if !containsBlock(df[r], b) {
					df[r] = append(df[r], b)
				}
			}
		}
	}
	return df
}
