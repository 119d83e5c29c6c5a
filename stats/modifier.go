package stats

import (
	"github.com/KirkDiggler/rpg-protocol/internal/errors"
)

// Op identifies how a modifier combines with the value it adjusts.
type Op string

// Modifier operations
const (
	OpAdd      Op = "add"
	OpMultiply Op = "multiply"
)

// Modifier is a reversible adjustment layered onto a stat's resolved value.
// Modifiers form an ordered sequence applied in insertion order, later
// modifiers applied to the result of earlier ones. Additive and
// multiplicative modifiers do not commute, so the order is part of the
// contract.
type Modifier struct {
	Op    Op
	Value float64
}

type appliedModifier struct {
	id  string
	mod Modifier
}

// ApplyModifier appends a modifier to the named stat's sequence and returns
// the ID used to remove it later. Returns errors.CodeNotFound for unknown
// stats and errors.CodeInvalidArgument for unknown ops.
func (g *Graph) ApplyModifier(name string, mod Modifier) (string, error) {
	if mod.Op != OpAdd && mod.Op != OpMultiply {
		return "", errors.InvalidArgumentf("unknown modifier op %q", mod.Op)
	}

	g.mu.Lock()

	n, ok := g.nodes[name]
	if !ok {
		g.mu.Unlock()
		return "", errors.NotFoundf("stat %q not registered", name)
	}

	id := g.idGen.Generate()
	n.mods = append(n.mods, appliedModifier{id: id, mod: mod})
	g.invalidate()
	g.mu.Unlock()

	g.publishChanged(name)
	return id, nil
}

// RemoveModifier removes a previously applied modifier by ID. The remaining
// modifiers keep their relative order. Returns errors.CodeNotFound when the
// stat or the modifier ID is unknown.
func (g *Graph) RemoveModifier(name, id string) error {
	g.mu.Lock()

	n, ok := g.nodes[name]
	if !ok {
		g.mu.Unlock()
		return errors.NotFoundf("stat %q not registered", name)
	}

	idx := -1
	for i, am := range n.mods {
		if am.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		g.mu.Unlock()
		return errors.NotFoundf("modifier %q not applied to stat %q", id, name)
	}

	n.mods = append(n.mods[:idx], n.mods[idx+1:]...)
	g.invalidate()
	g.mu.Unlock()

	g.publishChanged(name)
	return nil
}

// Modifiers returns the named stat's modifier sequence in application order.
func (g *Graph) Modifiers(name string) ([]Modifier, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[name]
	if !ok {
		return nil, errors.NotFoundf("stat %q not registered", name)
	}

	mods := make([]Modifier, len(n.mods))
	for i, am := range n.mods {
		mods[i] = am.mod
	}
	return mods, nil
}

func applyModifiers(v float64, mods []appliedModifier) float64 {
	for _, am := range mods {
		switch am.mod.Op {
		case OpAdd:
			v += am.mod.Value
		case OpMultiply:
			v *= am.mod.Value
		}
	}
	return v
}
