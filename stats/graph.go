// Package stats maintains the directed acyclic dependency relation among
// stats and resolves derived values from their sources.
//
// A base stat has no dependency and its stored value is authoritative. A
// derived stat references exactly one source stat and computes its value by
// passing the source's resolved value through a derive function. A base stat
// may be the source for many derived stats, but each derived stat has exactly
// one source, so the relation is a forest of chains with fan-out.
//
// Resolution is pull-based: SetBaseValue has no immediate side effect on
// derived stats, and FullValue recomputes along the chain at read time. This
// keeps derived values consistent with current base values without reverse
// subscriber lists, at the cost of a chain walk per read. An optional LRU
// cache of resolved values, purged wholesale on any mutation, covers the
// hot-read case; correctness is identical with or without it.
package stats

import (
	"context"
	"sort"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/events"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/KirkDiggler/rpg-protocol/internal/errors"
	"github.com/KirkDiggler/rpg-protocol/internal/pkg/idgen"
)

// EventStatChanged is published on the configured event bus whenever a base
// value or modifier set changes. The affected stat name is carried in the
// event context under ContextKeyStat.
const EventStatChanged = "stat.changed"

// ContextKeyStat is the event context key holding the mutated stat's name.
const ContextKeyStat = "stat"

// DeriveFunc transforms a source stat's resolved value into the derived
// stat's value.
type DeriveFunc func(float64) float64

// Identity is the derive function that passes the source value through
// unchanged.
func Identity(v float64) float64 { return v }

type node struct {
	name   string
	base   float64
	source string // empty for base stats
	derive DeriveFunc
	mods   []appliedModifier
}

// Config contains configuration for creating a new Graph
type Config struct {
	// EventBus receives EventStatChanged events on mutation. Optional.
	EventBus events.EventBus

	// AllowForwardRefs permits derived stats to reference sources that are
	// not registered yet. Dangling references are reported by Finalize and
	// by FullValue. When false, CreateDerivedStat rejects unknown sources
	// immediately.
	AllowForwardRefs bool

	// CacheSize bounds the resolved-value cache. Zero disables caching.
	CacheSize int

	// IDGenerator mints modifier IDs. Defaults to a UUID generator.
	IDGenerator idgen.Generator
}

// Graph holds the full set of stat definitions for a game session.
//
// Mutations are serialized per Graph instance; FullValue calls may run
// concurrently. Each game session owns an independent Graph with no sharing.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*node

	bus              events.EventBus
	allowForwardRefs bool
	cache            *lru.Cache[string, float64]
	idGen            idgen.Generator
}

// New creates a new Graph. A nil config uses defaults: no event bus, strict
// reference resolution, no cache.
func New(cfg *Config) (*Graph, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	g := &Graph{
		nodes:            make(map[string]*node),
		bus:              cfg.EventBus,
		allowForwardRefs: cfg.AllowForwardRefs,
		idGen:            cfg.IDGenerator,
	}
	if g.idGen == nil {
		g.idGen = idgen.NewUUID("mod")
	}

	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, float64](cfg.CacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create value cache")
		}
		g.cache = cache
	}

	return g, nil
}

// CreateBaseStat registers a new base stat with the given stored value.
// Returns errors.CodeAlreadyExists if the name is already registered; the
// first registration is unaffected.
func (g *Graph) CreateBaseStat(name string, value float64) error {
	if name == "" {
		return errors.InvalidArgument("stat name cannot be empty")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[name]; ok {
		return errors.AlreadyExistsf("stat %q already registered", name)
	}

	g.nodes[name] = &node{name: name, base: value}
	return nil
}

// CreateDerivedStat registers a new derived stat whose value is computed as
// fn applied to the source's resolved value.
//
// Returns errors.CodeAlreadyExists if the name is taken, errors.CodeNotFound
// if the source is unregistered and forward references are disabled, and
// errors.CodeCycle if the edge would close a cycle. Cycle detection walks the
// recorded source chain from source back toward name.
func (g *Graph) CreateDerivedStat(name, source string, fn DeriveFunc) error {
	if name == "" {
		return errors.InvalidArgument("stat name cannot be empty")
	}
	if source == "" {
		return errors.InvalidArgument("source stat name cannot be empty")
	}
	if fn == nil {
		fn = Identity
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[name]; ok {
		return errors.AlreadyExistsf("stat %q already registered", name)
	}
	if name == source {
		return errors.Cyclef("stat %q cannot derive from itself", name)
	}
	if _, ok := g.nodes[source]; !ok && !g.allowForwardRefs {
		return errors.NotFoundf("source stat %q not registered", source)
	}
	for cur := source; cur != ""; {
		if cur == name {
			return errors.Cyclef("deriving %q from %q would close a cycle", name, source)
		}
		n, ok := g.nodes[cur]
		if !ok {
			break
		}
		cur = n.source
	}

	g.nodes[name] = &node{name: name, source: source, derive: fn}
	return nil
}

// Finalize validates that every recorded source reference resolves.
// Only meaningful when forward references are enabled; a strict graph is
// always final.
func (g *Graph) Finalize() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, n := range g.nodes {
		if n.source == "" {
			continue
		}
		if _, ok := g.nodes[n.source]; !ok {
			return errors.NotFoundf("stat %q derives from unregistered stat %q", n.name, n.source)
		}
	}
	return nil
}

// FullValue resolves the current value of the named stat: for a base stat,
// the stored value through its own modifiers; for a derived stat, the
// source's full value through the derive function, then through its own
// modifiers. Returns errors.CodeNotFound for unknown stats, including
// dangling forward references hit along the chain.
func (g *Graph) FullValue(name string) (float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.resolve(name)
}

// resolve walks the source chain. Callers hold at least the read lock.
func (g *Graph) resolve(name string) (float64, error) {
	if g.cache != nil {
		if v, ok := g.cache.Get(name); ok {
			return v, nil
		}
	}

	n, ok := g.nodes[name]
	if !ok {
		return 0, errors.NotFoundf("stat %q not registered", name)
	}

	var v float64
	if n.source == "" {
		v = n.base
	} else {
		src, err := g.resolve(n.source)
		if err != nil {
			return 0, err
		}
		v = n.derive(src)
	}
	v = applyModifiers(v, n.mods)

	if g.cache != nil {
		g.cache.Add(name, v)
	}
	return v, nil
}

// SetBaseValue updates a base stat's stored value. Derived stats are not
// recomputed eagerly; subsequent FullValue reads observe the change.
// Returns errors.CodeInvalidArgument for derived stats.
func (g *Graph) SetBaseValue(name string, value float64) error {
	g.mu.Lock()

	n, ok := g.nodes[name]
	if !ok {
		g.mu.Unlock()
		return errors.NotFoundf("stat %q not registered", name)
	}
	if n.source != "" {
		g.mu.Unlock()
		return errors.InvalidArgumentf("stat %q is derived from %q and has no settable base value", name, n.source)
	}

	n.base = value
	g.invalidate()
	g.mu.Unlock()

	g.publishChanged(name)
	return nil
}

// BaseValue returns a base stat's stored value without modifiers.
func (g *Graph) BaseValue(name string) (float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[name]
	if !ok {
		return 0, errors.NotFoundf("stat %q not registered", name)
	}
	if n.source != "" {
		return 0, errors.InvalidArgumentf("stat %q is derived and has no base value", name)
	}
	return n.base, nil
}

// Source returns the source stat name for a derived stat, or "" for a base
// stat.
func (g *Graph) Source(name string) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[name]
	if !ok {
		return "", errors.NotFoundf("stat %q not registered", name)
	}
	return n.source, nil
}

// Names returns all registered stat names in sorted order.
func (g *Graph) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// invalidate drops the resolved-value cache. Callers hold the write lock.
// Any mutation may shift every descendant, so the whole cache goes.
func (g *Graph) invalidate() {
	if g.cache != nil {
		g.cache.Purge()
	}
}

// publishChanged emits EventStatChanged for the mutated stat. Event delivery
// is best effort; mutation has already succeeded.
func (g *Graph) publishChanged(name string) {
	if g.bus == nil {
		return
	}
	evt := events.NewGameEvent(EventStatChanged, nil, nil)
	evt.Context().Set(ContextKeyStat, name)
	_ = g.bus.Publish(context.Background(), evt)
}
