package world

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-protocol/internal/errors"
	"github.com/KirkDiggler/rpg-protocol/stats"
)

// Definition is the declarative form of a game world, loaded from a YAML
// content file. Definitions reference each other by name only; resolution
// happens in Build, so declaration order does not matter.
type Definition struct {
	// BaseStatMinimum, when set, is the floor every base stat value must
	// meet.
	BaseStatMinimum *float64 `yaml:"base_stat_minimum"`

	Stats    []StatDef   `yaml:"stats"`
	Skills   []SkillDef  `yaml:"skills"`
	Entities []EntityDef `yaml:"entities"`
	Areas    []AreaDef   `yaml:"areas"`
}

// StatDef declares a base stat (no derived_from) or a derived stat.
type StatDef struct {
	Name        string     `yaml:"name"`
	Value       float64    `yaml:"value"`
	DerivedFrom string     `yaml:"derived_from"`
	Derive      *DeriveDef `yaml:"derive"`
}

// DeriveDef is the declarative derive function: source value times Scale
// plus Offset. Omitted fields default to the identity (scale 1, offset 0).
type DeriveDef struct {
	Scale  *float64 `yaml:"scale"`
	Offset *float64 `yaml:"offset"`
}

// Func returns the derive function the definition describes.
func (d *DeriveDef) Func() stats.DeriveFunc {
	scale := 1.0
	offset := 0.0
	if d != nil {
		if d.Scale != nil {
			scale = *d.Scale
		}
		if d.Offset != nil {
			offset = *d.Offset
		}
	}
	if scale == 1.0 && offset == 0.0 {
		return stats.Identity
	}
	return func(v float64) float64 {
		return v*scale + offset
	}
}

// SkillDef declares a skill with its involved stats and leveling table.
type SkillDef struct {
	Name        string   `yaml:"name"`
	Stats       []string `yaml:"stats"`
	Experience  []int    `yaml:"experience"`
	PerkPoints  []int    `yaml:"perk_points"`
	PerkCredits []int    `yaml:"perk_credits"`
}

// EntityDef declares an entity. Count > 1 fans out into numbered instances
// sharing the same display name, like the sample world's five kitchen
// spiders.
type EntityDef struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Kind        string         `yaml:"kind"`
	Count       int            `yaml:"count"`
	Area        string         `yaml:"area"`
	Skills      []string       `yaml:"skills"`
	Experience  map[string]int `yaml:"experience"`
	KillReward  int            `yaml:"kill_reward"`
}

// AreaDef declares an area and the items placed in it.
type AreaDef struct {
	Name  string    `yaml:"name"`
	Items []ItemDef `yaml:"items"`
}

// ItemDef declares an item, optionally carrying a portal.
type ItemDef struct {
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description"`
	HasInventory bool       `yaml:"has_inventory"`
	Portal       *PortalDef `yaml:"portal"`
}

// PortalDef declares a portal on its carrying item. The is_from side is the
// area the item sits in; only the destination is named.
type PortalDef struct {
	LeadsTo string   `yaml:"leads_to"`
	Key     *ItemDef `yaml:"key"`
}

// LoadDefinition reads and parses a world definition file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- content file path comes from the host
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read definition file %s", path)
	}
	return ParseDefinition(data)
}

// ParseDefinition parses a world definition document. Unknown fields are
// rejected so typos in content files surface instead of silently dropping
// data.
func ParseDefinition(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if err == io.EOF {
			return nil, errors.InvalidArgument("definition document is empty")
		}
		return nil, errors.Wrap(err, "failed to parse definition")
	}
	return &def, nil
}

// Validate checks the definition for data mistakes, collecting every
// problem rather than stopping at the first. Structural stat problems
// (duplicate names, cycles, unknown sources) are reported by Build through
// the graph; Validate covers everything name resolution alone can catch.
func (d *Definition) Validate() error {
	vb := errors.NewValidationBuilder()

	statNames := make(map[string]struct{})
	for i, s := range d.Stats {
		field := fmt.Sprintf("stats[%d]", i)
		if s.Name == "" {
			vb.RequiredField(field + ".name")
			continue
		}
		if _, ok := statNames[s.Name]; ok {
			vb.Fieldf(field, "stat %q declared more than once", s.Name)
		}
		statNames[s.Name] = struct{}{}
		if s.DerivedFrom == "" && d.BaseStatMinimum != nil && s.Value < *d.BaseStatMinimum {
			vb.Fieldf(field+".value", "base stat %q value %v is below the minimum %v", s.Name, s.Value, *d.BaseStatMinimum)
		}
		if s.DerivedFrom == "" && s.Derive != nil {
			vb.Fieldf(field+".derive", "base stat %q cannot have a derive function", s.Name)
		}
	}

	skillNames := make(map[string]struct{})
	for i, s := range d.Skills {
		field := fmt.Sprintf("skills[%d]", i)
		if s.Name == "" {
			vb.RequiredField(field + ".name")
			continue
		}
		if _, ok := skillNames[s.Name]; ok {
			vb.Fieldf(field, "skill %q declared more than once", s.Name)
		}
		skillNames[s.Name] = struct{}{}
		for _, statName := range s.Stats {
			if _, ok := statNames[statName]; !ok {
				vb.Fieldf(field+".stats", "skill %q references undeclared stat %q", s.Name, statName)
			}
		}
	}

	areaNames := make(map[string]struct{})
	for i, a := range d.Areas {
		field := fmt.Sprintf("areas[%d]", i)
		if a.Name == "" {
			vb.RequiredField(field + ".name")
			continue
		}
		if _, ok := areaNames[a.Name]; ok {
			vb.Fieldf(field, "area %q declared more than once", a.Name)
		}
		areaNames[a.Name] = struct{}{}
	}
	for i, a := range d.Areas {
		for j, item := range a.Items {
			if item.Name == "" {
				vb.RequiredField(fmt.Sprintf("areas[%d].items[%d].name", i, j))
			}
			if item.Portal != nil {
				field := fmt.Sprintf("areas[%d].items[%d].portal", i, j)
				if item.Portal.LeadsTo == "" {
					vb.RequiredField(field + ".leads_to")
				} else if _, ok := areaNames[item.Portal.LeadsTo]; !ok {
					vb.Fieldf(field+".leads_to", "portal %q leads to undeclared area %q", item.Name, item.Portal.LeadsTo)
				}
				if item.Portal.Key != nil && item.Portal.Key.Name == "" {
					vb.RequiredField(field + ".key.name")
				}
			}
		}
	}

	entityIDs := make(map[string]struct{})
	for i, e := range d.Entities {
		field := fmt.Sprintf("entities[%d]", i)
		if e.ID == "" {
			vb.RequiredField(field + ".id")
			continue
		}
		if _, ok := entityIDs[e.ID]; ok {
			vb.Fieldf(field, "entity %q declared more than once", e.ID)
		}
		entityIDs[e.ID] = struct{}{}
		if e.Name == "" {
			vb.RequiredField(field + ".name")
		}
		if !Kind(e.Kind).Valid() {
			vb.Fieldf(field+".kind", "unknown entity kind %q", e.Kind)
		}
		if e.Count < 0 {
			vb.Fieldf(field+".count", "count cannot be negative")
		}
		if e.Area != "" {
			if _, ok := areaNames[e.Area]; !ok {
				vb.Fieldf(field+".area", "entity %q placed in undeclared area %q", e.ID, e.Area)
			}
		}
		for _, skillName := range e.Skills {
			if _, ok := skillNames[skillName]; !ok {
				vb.Fieldf(field+".skills", "entity %q references undeclared skill %q", e.ID, skillName)
			}
		}
		for skillName, amount := range e.Experience {
			if _, ok := skillNames[skillName]; !ok {
				vb.Fieldf(field+".experience", "entity %q has experience in undeclared skill %q", e.ID, skillName)
			}
			if amount < 0 {
				vb.Fieldf(field+".experience", "entity %q has negative experience in skill %q", e.ID, skillName)
			}
		}
	}

	return vb.Build()
}

// Build validates the definition and constructs a World from it. The
// returned error carries every validation problem found, or the first
// structural error the registries reject.
func (d *Definition) Build(cfg *Config) (*World, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	w, err := New(cfg)
	if err != nil {
		return nil, err
	}

	// Stats first so entity snapshots resolve. The graph accepts forward
	// references, so derived stats may precede their sources in the file.
	for _, s := range d.Stats {
		if s.DerivedFrom == "" {
			err = w.graph.CreateBaseStat(s.Name, s.Value)
		} else {
			err = w.graph.CreateDerivedStat(s.Name, s.DerivedFrom, s.Derive.Func())
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to define stat %q", s.Name)
		}
	}
	if err = w.graph.Finalize(); err != nil {
		return nil, err
	}

	for _, s := range d.Skills {
		table, terr := NewTable(s.Experience, s.PerkPoints, s.PerkCredits)
		if terr != nil {
			return nil, errors.Wrapf(terr, "failed to define skill %q", s.Name)
		}
		skill, serr := NewSkill(s.Name, s.Stats, table)
		if serr != nil {
			return nil, serr
		}
		if err = w.AddSkill(skill); err != nil {
			return nil, err
		}
	}

	for _, a := range d.Areas {
		area, aerr := NewArea(a.Name)
		if aerr != nil {
			return nil, aerr
		}
		for _, itemDef := range a.Items {
			if err = area.AddItem(buildItem(itemDef)); err != nil {
				return nil, err
			}
		}
		if err = w.AddArea(area); err != nil {
			return nil, err
		}
	}

	// Portals link after all areas exist, so a door can lead to an area
	// declared later in the file.
	for _, a := range d.Areas {
		for _, itemDef := range a.Items {
			if itemDef.Portal == nil {
				continue
			}
			var key *Item
			if itemDef.Portal.Key != nil {
				key = buildItem(*itemDef.Portal.Key)
			}
			if err = w.LinkPortal(a.Name, itemDef.Name, itemDef.Portal.LeadsTo, key); err != nil {
				return nil, err
			}
		}
	}

	for _, e := range d.Entities {
		if err = buildEntities(w, e); err != nil {
			return nil, err
		}
	}

	return w, nil
}

func buildItem(def ItemDef) *Item {
	return &Item{
		Name:         def.Name,
		Description:  def.Description,
		HasInventory: def.HasInventory,
	}
}

// buildEntities creates one entity per def, or Count numbered instances
// ("spider_1" through "spider_5") sharing the def.
func buildEntities(w *World, def EntityDef) error {
	count := def.Count
	if count <= 0 {
		count = 1
	}

	for i := 1; i <= count; i++ {
		id := def.ID
		if def.Count > 1 {
			id = fmt.Sprintf("%s_%d", def.ID, i)
		}

		e, err := w.CreateEntity(EntitySpec{
			ID:          id,
			Name:        def.Name,
			Description: def.Description,
			Kind:        Kind(def.Kind),
			Skills:      def.Skills,
			Experience:  def.Experience,
			KillReward:  def.KillReward,
		})
		if err != nil {
			return err
		}

		if def.Area != "" {
			area, aerr := w.Area(def.Area)
			if aerr != nil {
				return aerr
			}
			if err = area.AddEntity(e); err != nil {
				return err
			}
		}
	}
	return nil
}
