package catalog

// Category is the inventory tab an item is listed under. The string value is
// what the items.item_tab column stores.
type Category string

const (
	CategoryKitchen    Category = "Kitchen"
	CategoryBedroom    Category = "Bedroom"
	CategoryLivingRoom Category = "Living Room"
	CategoryOutside    Category = "Outside"
	CategoryOffice     Category = "Office"
	CategoryBoxes      Category = "Boxes"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryKitchen,
	CategoryBedroom,
	CategoryLivingRoom,
	CategoryOutside,
	CategoryOffice,
	CategoryBoxes,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c.Order() >= 0
}

// Order returns the display position of c, or -1 when c is unknown.
func (c Category) Order() int {
	for i, known := range Categories {
		if known == c {
			return i
		}
	}
	return -1
}

// Item is a movable inventory entry. HiddenValue is a tier marker, not a price.
type Item struct {
	ID          int64
	Name        string
	HiddenValue int
	Category    Category
}

// Formula is a stored pricing rule. Numbers holds the raw dash-joined
// parameters exactly as persisted.
type Formula struct {
	ID      int64
	Name    string
	Numbers string
}

// Supply is a packing consumable (or the labor rate entry).
type Supply struct {
	ID          int64
	Name        string
	Supplier    string
	OrderPrice  float64
	ResellPrice float64
}

// Room holds per-unit material and labor consumption for packing one room.
type Room struct {
	ID                int64
	Name              string
	SmallBoxQuantity  float64
	MediumBoxQuantity float64
	LargeBoxQuantity  float64
	PaperRollQuantity float64
	TapeRollQuantity  float64
	LaborHours        float64
}

// Snapshot is a full copy of the four catalog tables.
type Snapshot struct {
	Items    []Item
	Formulas []Formula
	Supplies []Supply
	Rooms    []Room
}

// FindItem returns the first item named name.
func (s Snapshot) FindItem(name string) (Item, bool) {
	for _, it := range s.Items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

// FindRoom returns the room named name.
func (s Snapshot) FindRoom(name string) (Room, bool) {
	for _, r := range s.Rooms {
		if r.Name == name {
			return r, true
		}
	}
	return Room{}, false
}
