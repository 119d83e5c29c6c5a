// Package world holds the session-scoped registry of everything a game
// defines: the stat graph, skills, entities, items, portals, and areas.
//
// A World replaces module-level game-data globals with an explicit context
// object: built once at session start, torn down at session end, one
// instance per concurrent game session. References between definitions are
// resolved by name in the registry rather than by captured object handles,
// so definition order cannot produce dangling references.
package world

import (
	"context"
	"log/slog"
	"sort"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-protocol/internal/errors"
	"github.com/KirkDiggler/rpg-protocol/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-protocol/stats"
)

// Config contains configuration for creating a new World
type Config struct {
	// EventBus carries stat-change events. When set, the world subscribes
	// and refreshes every entity's stat snapshot on each change (push
	// refresh). Without a bus, snapshots refresh only on explicit
	// RefreshSnapshots or Entity.RefreshStats calls (pull refresh).
	EventBus events.EventBus

	// IDGenerator mints entity instance IDs. Defaults to a UUID generator.
	IDGenerator idgen.Generator

	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// StatCacheSize bounds the graph's resolved-value cache. Zero disables
	// caching.
	StatCacheSize int
}

// World is the explicit session context owning all game definitions.
type World struct {
	graph    *stats.Graph
	skills   map[string]*Skill
	entities map[string]*Entity
	areas    map[string]*Area

	bus   events.EventBus
	idGen idgen.Generator
	log   *slog.Logger
	subID string
}

// New creates an empty World. A nil config uses defaults: no event bus, UUID
// instance IDs, no stat cache.
func New(cfg *Config) (*World, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	graph, err := stats.New(&stats.Config{
		EventBus:         cfg.EventBus,
		AllowForwardRefs: true,
		CacheSize:        cfg.StatCacheSize,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create stat graph")
	}

	w := &World{
		graph:    graph,
		skills:   make(map[string]*Skill),
		entities: make(map[string]*Entity),
		areas:    make(map[string]*Area),
		bus:      cfg.EventBus,
		idGen:    cfg.IDGenerator,
		log:      cfg.Logger,
	}
	if w.idGen == nil {
		w.idGen = idgen.NewUUID("entity")
	}
	if w.log == nil {
		w.log = slog.Default()
	}

	if w.bus != nil {
		w.subID = w.bus.SubscribeFunc(stats.EventStatChanged, 0, w.onStatChanged)
	}

	return w, nil
}

// Graph returns the session's stat graph.
func (w *World) Graph() *stats.Graph {
	return w.graph
}

// Close unsubscribes the world from the event bus. Call at session end when
// a bus was configured.
func (w *World) Close() error {
	if w.bus == nil || w.subID == "" {
		return nil
	}
	if err := w.bus.Unsubscribe(w.subID); err != nil {
		return errors.Wrap(err, "failed to unsubscribe from event bus")
	}
	w.subID = ""
	return nil
}

// onStatChanged refreshes every entity snapshot after a graph mutation.
func (w *World) onStatChanged(_ context.Context, evt events.Event) error {
	if err := w.RefreshSnapshots(); err != nil {
		statName, _ := evt.Context().Get(stats.ContextKeyStat)
		w.log.Error("failed to refresh entity snapshots",
			"stat", statName,
			"error", err)
		return err
	}
	return nil
}

// AddSkill registers a skill. Returns errors.CodeAlreadyExists on
// re-registration; the first registration is unaffected.
func (w *World) AddSkill(skill *Skill) error {
	if skill == nil {
		return errors.InvalidArgument("skill cannot be nil")
	}
	if _, ok := w.skills[skill.Name]; ok {
		return errors.AlreadyExistsf("skill %q already registered", skill.Name)
	}
	w.skills[skill.Name] = skill
	return nil
}

// Skill looks up a registered skill by name.
func (w *World) Skill(name string) (*Skill, error) {
	skill, ok := w.skills[name]
	if !ok {
		return nil, errors.NotFoundf("skill %q not registered", name)
	}
	return skill, nil
}

// EntitySpec describes an entity to create.
type EntitySpec struct {
	// ID is the instance identifier. Empty means generate one.
	ID          string
	Name        string
	Description string
	Kind        Kind

	// Skills lists registered skill names the entity advances.
	Skills []string

	// Experience maps skill name to starting accumulated experience.
	Experience map[string]int

	KillReward int
}

// CreateEntity builds and registers an entity from a spec, resolving skill
// references against the registry and snapshotting its stats.
func (w *World) CreateEntity(spec EntitySpec) (*Entity, error) {
	if spec.Name == "" {
		return nil, errors.InvalidArgument("entity name cannot be empty")
	}
	if !spec.Kind.Valid() {
		return nil, errors.InvalidArgumentf("unknown entity kind %q", spec.Kind)
	}

	id := spec.ID
	if id == "" {
		id = w.idGen.Generate()
	}
	if _, ok := w.entities[id]; ok {
		return nil, errors.AlreadyExistsf("entity %q already registered", id)
	}

	skills := make(map[string]*Skill, len(spec.Skills))
	exp := make(map[string]int, len(spec.Skills))
	for _, skillName := range spec.Skills {
		skill, err := w.Skill(skillName)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create entity %q", spec.Name)
		}
		skills[skillName] = skill
		exp[skillName] = 0
	}
	for skillName, amount := range spec.Experience {
		if _, ok := skills[skillName]; !ok {
			return nil, errors.NotFoundf("entity %q has experience in unknown skill %q", spec.Name, skillName)
		}
		if amount < 0 {
			return nil, errors.InvalidArgumentf("entity %q has negative experience in skill %q", spec.Name, skillName)
		}
		exp[skillName] = amount
	}

	e := &Entity{
		ID:              id,
		Name:            spec.Name,
		Description:     spec.Description,
		Kind:            spec.Kind,
		Skills:          skills,
		SkillExperience: exp,
		Stats:           make(map[string]float64),
		KillReward:      spec.KillReward,
	}
	if err := e.RefreshStats(w.graph); err != nil {
		return nil, err
	}

	w.entities[id] = e
	return e, nil
}

// Entity looks up a registered entity by instance ID.
func (w *World) Entity(id string) (*Entity, error) {
	e, ok := w.entities[id]
	if !ok {
		return nil, errors.NotFoundf("entity %q not registered", id)
	}
	return e, nil
}

// EntityIDs returns all registered entity instance IDs in sorted order.
func (w *World) EntityIDs() []string {
	ids := make([]string, 0, len(w.entities))
	for id := range w.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AddArea registers an area.
func (w *World) AddArea(area *Area) error {
	if area == nil {
		return errors.InvalidArgument("area cannot be nil")
	}
	if _, ok := w.areas[area.Name]; ok {
		return errors.AlreadyExistsf("area %q already registered", area.Name)
	}
	w.areas[area.Name] = area
	return nil
}

// Area looks up a registered area by name.
func (w *World) Area(name string) (*Area, error) {
	area, ok := w.areas[name]
	if !ok {
		return nil, errors.NotFoundf("area %q not registered", name)
	}
	return area, nil
}

// AreaNames returns all registered area names in sorted order.
func (w *World) AreaNames() []string {
	names := make([]string, 0, len(w.areas))
	for name := range w.areas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LinkPortal attaches a portal to a named item in the from area, leading to
// the to area and optionally gated by a key item. Each direction of a
// two-way passage is linked explicitly, so a reciprocal pair takes two
// calls, one per carrying item.
func (w *World) LinkPortal(fromArea, itemName, toArea string, key *Item) error {
	from, err := w.Area(fromArea)
	if err != nil {
		return errors.Wrapf(err, "failed to link portal %q", itemName)
	}
	to, err := w.Area(toArea)
	if err != nil {
		return errors.Wrapf(err, "failed to link portal %q", itemName)
	}
	item, ok := from.Items[itemName]
	if !ok {
		return errors.NotFoundf("area %q does not contain item %q", fromArea, itemName)
	}

	item.Portal = &Portal{
		IsFrom:  from,
		LeadsTo: to,
		Key:     key,
	}
	return nil
}

// Finalize validates deferred stat references and refreshes every entity
// snapshot. Call once the full definition set is registered.
func (w *World) Finalize() error {
	if err := w.graph.Finalize(); err != nil {
		return err
	}
	return w.RefreshSnapshots()
}

// RefreshSnapshots re-queries the graph for every registered entity.
func (w *World) RefreshSnapshots() error {
	for _, e := range w.entities {
		if err := e.RefreshStats(w.graph); err != nil {
			return err
		}
	}
	return nil
}
