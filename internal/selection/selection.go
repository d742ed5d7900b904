// Package selection holds the user's in-progress item and room quantities and
// persists them to the local cache between sessions.
package selection

import (
	"sort"

	"github.com/flinthills/movequote/internal/catalog"
)

// Kind distinguishes moving items from packed rooms in the persisted table.
type Kind string

const (
	KindMove Kind = "move"
	KindPack Kind = "pack"
)

// ItemKey identifies a selected item. Names are unique in the catalog, the
// category is kept so the presentation layer can place the row on its tab.
type ItemKey struct {
	Name     string
	Category catalog.Category
}

// Entry is one persisted selection row.
type Entry struct {
	Name     string
	Kind     Kind
	Category catalog.Category
	Count    int
}

// Selection maps items and rooms to non-negative quantities. Zero quantities
// are never stored.
type Selection struct {
	Items map[ItemKey]int
	Rooms map[string]int
}

// New returns an empty selection.
func New() Selection {
	return Selection{
		Items: make(map[ItemKey]int),
		Rooms: make(map[string]int),
	}
}

func (s *Selection) init() {
	if s.Items == nil {
		s.Items = make(map[ItemKey]int)
	}
	if s.Rooms == nil {
		s.Rooms = make(map[string]int)
	}
}

// SetItem records count for an item; counts <= 0 remove it.
func (s *Selection) SetItem(name string, category catalog.Category, count int) {
	s.init()
	key := ItemKey{Name: name, Category: category}
	if count <= 0 {
		delete(s.Items, key)
		return
	}
	s.Items[key] = count
}

// SetRoom records count for a room; counts <= 0 remove it.
func (s *Selection) SetRoom(name string, count int) {
	s.init()
	if count <= 0 {
		delete(s.Rooms, name)
		return
	}
	s.Rooms[name] = count
}

// Item returns the selected quantity of an item.
func (s Selection) Item(name string, category catalog.Category) int {
	return s.Items[ItemKey{Name: name, Category: category}]
}

// Room returns the selected quantity of a room.
func (s Selection) Room(name string) int {
	return s.Rooms[name]
}

// Clear resets every quantity to zero.
func (s *Selection) Clear() {
	s.Items = make(map[ItemKey]int)
	s.Rooms = make(map[string]int)
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s.Items) == 0 && len(s.Rooms) == 0
}

// Entries flattens the selection into rows: items first, ordered by category
// then name, followed by rooms ordered by name.
func (s Selection) Entries() []Entry {
	entries := make([]Entry, 0, len(s.Items)+len(s.Rooms))
	for key, count := range s.Items {
		if count > 0 {
			entries = append(entries, Entry{Name: key.Name, Kind: KindMove, Category: key.Category, Count: count})
		}
	}
	for name, count := range s.Rooms {
		if count > 0 {
			entries = append(entries, Entry{Name: name, Kind: KindPack, Count: count})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Kind != b.Kind {
			return a.Kind == KindMove
		}
		if a.Category != b.Category {
			return a.Category.Order() < b.Category.Order()
		}
		return a.Name < b.Name
	})
	return entries
}

// FromEntries rebuilds a selection from persisted rows.
func FromEntries(entries []Entry) Selection {
	s := New()
	for _, e := range entries {
		switch e.Kind {
		case KindMove:
			s.SetItem(e.Name, e.Category, e.Count)
		case KindPack:
			s.SetRoom(e.Name, e.Count)
		}
	}
	return s
}
