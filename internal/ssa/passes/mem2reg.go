package passes

import (
	"github.com/you-not-fish/minicc/internal/ctypes"
	"github.com/you-not-fish/minicc/internal/ssa"
)

// Mem2Reg promotes stack slots to SSA values, inserting phis at the
// iterated dominance frontier of each slot's stores. A slot is promoted
// only if it is used solely as the address of loads and stores.
// A load with no reaching store sees the zero value.
func Mem2Reg(f *ssa.Func) {
	ssa.RemoveUnreachable(f)
	ssa.ComputeDom(f)

	slots := promotable(f)
	if len(slots) == 0 {
		return
	}

	p := &promoter{
		f:      f,
		slots:  make(map[*ssa.Value]bool, len(slots)),
		phis:   make(map[*ssa.Block]map[*ssa.Value]*ssa.Value),
		stacks: make(map[*ssa.Value][]*ssa.Value, len(slots)),
		dead:   make(map[*ssa.Value]bool),
	}
	for _, a := range slots {
		p.slots[a] = true
	}

	df := ssa.ComputeDomFrontier(f)
	for _, a := range slots {
		p.placePhis(a, df)
	}
	zeros := make(map[*ssa.Value]bool, len(slots))
	for _, a := range slots {
		z := zeroValue(f, a.Elem())
		zeros[z] = true
		p.stacks[a] = []*ssa.Value{z}
	}
	p.rename(f.Entry)
	p.sweep()
	simplifyPhis(f)

	// Drop the zero values no load ended up reading.
	live := f.Entry.Values[:0]
	for _, v := range f.Entry.Values {
		if zeros[v] && v.Uses == 0 {
			continue
		}
		live = append(live, v)
	}
	f.Entry.Values = live
}

type promoter struct {
	f      *ssa.Func
	slots  map[*ssa.Value]bool
	phis   map[*ssa.Block]map[*ssa.Value]*ssa.Value // block -> slot -> phi
	stacks map[*ssa.Value][]*ssa.Value              // reaching definitions
	dead   map[*ssa.Value]bool                      // loads and stores to drop
}

// promotable returns the allocas whose address never escapes.
func promotable(f *ssa.Func) []*ssa.Value {
	var slots []*ssa.Value
	escapes := make(map[*ssa.Value]bool)
	for _, b := range f.Blocks {
		for _, v := range b.Values {
			if v.Op == ssa.OpAlloca {
				slots = append(slots, v)
			}
			for i, arg := range v.Args {
				if arg.Op != ssa.OpAlloca {
					continue
				}
				addrUse := i == 0 && (v.Op == ssa.OpLoad || v.Op == ssa.OpStore)
				if !addrUse {
					escapes[arg] = true
				}
			}
		}
		for _, c := range b.Controls {
			if c != nil && c.Op == ssa.OpAlloca {
				escapes[c] = true
			}
		}
	}
	kept := slots[:0]
	for _, a := range slots {
		if !escapes[a] {
			kept = append(kept, a)
		}
	}
	return kept
}

// placePhis inserts an empty phi for slot at every block of the
// iterated dominance frontier of the blocks storing to it.
func (p *promoter) placePhis(slot *ssa.Value, df map[*ssa.Block][]*ssa.Block) {
	var work []*ssa.Block
	queued := make(map[*ssa.Block]bool)
	for _, b := range p.f.Blocks {
		for _, v := range b.Values {
			if v.Op == ssa.OpStore && v.Args[0] == slot && !queued[b] {
				queued[b] = true
				work = append(work, b)
			}
		}
	}

	placed := make(map[*ssa.Block]bool)
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		for _, d := range df[b] {
			if placed[d] {
				continue
			}
			placed[d] = true
			phi := p.f.NewValueAtFront(d, ssa.OpPhi, slot.Elem())
			phi.Args = make([]*ssa.Value, len(d.Preds))
			if p.phis[d] == nil {
				p.phis[d] = make(map[*ssa.Value]*ssa.Value)
			}
			p.phis[d][slot] = phi
			if !queued[d] {
				queued[d] = true
				work = append(work, d)
			}
		}
	}
}

func (p *promoter) top(slot *ssa.Value) *ssa.Value {
	s := p.stacks[slot]
	return s[len(s)-1]
}

// rename walks the dominator tree in preorder, replacing each load by
// the reaching definition and filling phi operands of successors.
func (p *promoter) rename(b *ssa.Block) {
	pushed := make(map[*ssa.Value]int)
	push := func(slot, v *ssa.Value) {
		p.stacks[slot] = append(p.stacks[slot], v)
		pushed[slot]++
	}

	for slot, phi := range p.phis[b] {
		push(slot, phi)
	}
	for _, v := range b.Values {
		if len(v.Args) == 0 || !p.slots[v.Args[0]] {
			continue
		}
		switch v.Op {
		case ssa.OpLoad:
			p.f.ReplaceUses(v, p.top(v.Args[0]))
			p.dead[v] = true
		case ssa.OpStore:
			push(v.Args[0], v.Args[1])
			p.dead[v] = true
		}
	}

	for _, s := range b.Succs {
		i := -1
		for j, pred := range s.Preds {
			if pred == b {
				i = j
				break
			}
		}
		for slot, phi := range p.phis[s] {
			val := p.top(slot)
			phi.Args[i] = val
			val.Uses++
		}
	}

	for _, c := range b.Dominees {
		p.rename(c)
	}

	for slot, n := range pushed {
		p.stacks[slot] = p.stacks[slot][:len(p.stacks[slot])-n]
	}
}

// sweep deletes the rewritten loads and stores, then the slots.
func (p *promoter) sweep() {
	for _, b := range p.f.Blocks {
		live := b.Values[:0]
		for _, v := range b.Values {
			if p.dead[v] {
				for _, a := range v.Args {
					a.Uses--
				}
				continue
			}
			live = append(live, v)
		}
		b.Values = live
	}
	for _, b := range p.f.Blocks {
		live := b.Values[:0]
		for _, v := range b.Values {
			if p.slots[v] && v.Uses == 0 {
				continue
			}
			live = append(live, v)
		}
		b.Values = live
	}
}

// zeroValue places the zero of t at the top of the entry block.
func zeroValue(f *ssa.Func, t ctypes.Type) *ssa.Value {
	switch {
	case ctypes.IsBoolean(t):
		return f.NewValueAtFront(f.Entry, ssa.OpConstBool, t)
	case ctypes.IsFloat(t):
		return f.NewValueAtFront(f.Entry, ssa.OpConstFloat, t)
	case ctypes.IsString(t):
		v := f.NewValueAtFront(f.Entry, ssa.OpConstString, t)
		v.Aux = ""
		return v
	}
	return f.NewValueAtFront(f.Entry, ssa.OpConstInt, t)
}

// simplifyPhis replaces phis whose operands are all one value (or the
// phi itself) by that value, until none remain.
func simplifyPhis(f *ssa.Func) {
	for changed := true; changed; {
		changed = false
		for _, b := range f.Blocks {
			for _, v := range b.Values {
				if v.Op != ssa.OpPhi || v.Uses == 0 {
					continue
				}
				if same := uniqueArg(v); same != nil {
					f.ReplaceUses(v, same)
					changed = true
				}
			}
		}
		for _, b := range f.Blocks {
			live := b.Values[:0]
			for _, v := range b.Values {
				if v.Op == ssa.OpPhi && v.Uses == 0 {
					for _, a := range v.Args {
						if a != nil {
							a.Uses--
						}
					}
					changed = true
					continue
				}
				live = append(live, v)
			}
			b.Values = live
		}
	}
}

func uniqueArg(phi *ssa.Value) *ssa.Value {
	var same *ssa.Value
	for _, a := range phi.Args {
		if a == nil || a == phi || a == same {
			continue
		}
		if same != nil {
			return nil
		}
		same = a
	}
	return same
}
