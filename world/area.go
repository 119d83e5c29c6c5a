package world

import (
	"github.com/KirkDiggler/rpg-protocol/internal/errors"
)

// Item is an inanimate object. A portal-bearing item links two areas; a key
// item opens a gated portal.
type Item struct {
	Name         string
	Description  string
	HasInventory bool
	Portal       *Portal
}

// Portal links two areas through the item that carries it. Linkage is
// established explicitly in each direction: the sample world's kitchen door
// and its return door are two items forming a reciprocal pair. An optional
// key item gates passage.
type Portal struct {
	LeadsTo *Area
	IsFrom  *Area
	Key     *Item
}

// Locked reports whether the portal requires a key.
func (p *Portal) Locked() bool {
	return p.Key != nil
}

// Unlocks reports whether the given item opens this portal. Key identity is
// by name; traversal and inventory checks live in the host engine.
func (p *Portal) Unlocks(item *Item) bool {
	return p.Key != nil && item != nil && item.Name == p.Key.Name
}

// Area is a location owning the items and entities present in it.
type Area struct {
	Name     string
	Items    map[string]*Item
	Entities map[string]*Entity
}

// NewArea creates an empty area.
func NewArea(name string) (*Area, error) {
	if name == "" {
		return nil, errors.InvalidArgument("area name cannot be empty")
	}
	return &Area{
		Name:     name,
		Items:    make(map[string]*Item),
		Entities: make(map[string]*Entity),
	}, nil
}

// AddItem places an item in the area. Item names are unique per area.
func (a *Area) AddItem(item *Item) error {
	if item == nil {
		return errors.InvalidArgument("item cannot be nil")
	}
	if _, ok := a.Items[item.Name]; ok {
		return errors.AlreadyExistsf("area %q already contains item %q", a.Name, item.Name)
	}
	a.Items[item.Name] = item
	return nil
}

// AddEntity places an entity in the area, keyed by instance ID.
func (a *Area) AddEntity(e *Entity) error {
	if e == nil {
		return errors.InvalidArgument("entity cannot be nil")
	}
	if _, ok := a.Entities[e.ID]; ok {
		return errors.AlreadyExistsf("area %q already contains entity %q", a.Name, e.ID)
	}
	a.Entities[e.ID] = e
	return nil
}

// RemoveEntity takes an entity out of the area, typically on traversal or
// death handled by the host engine.
func (a *Area) RemoveEntity(id string) error {
	if _, ok := a.Entities[id]; !ok {
		return errors.NotFoundf("area %q does not contain entity %q", a.Name, id)
	}
	delete(a.Entities, id)
	return nil
}

// Portals returns the area's portal-bearing items.
func (a *Area) Portals() []*Item {
	var portals []*Item
	for _, item := range a.Items {
		if item.Portal != nil {
			portals = append(portals, item)
		}
	}
	return portals
}
