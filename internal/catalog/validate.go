package catalog

import (
	"fmt"
	"strings"
)

// Validate checks an item before it is written.
func (it Item) Validate() error {
	if strings.TrimSpace(it.Name) == "" {
		return fmt.Errorf("%w: item name is required", ErrInvalid)
	}
	if !it.Category.Valid() {
		return fmt.Errorf("%w: unknown item category %q", ErrInvalid, it.Category)
	}
	return nil
}

// Validate checks a supply before it is written.
func (sp Supply) Validate() error {
	if strings.TrimSpace(sp.Name) == "" {
		return fmt.Errorf("%w: supply name is required", ErrInvalid)
	}
	if sp.OrderPrice < 0 || sp.ResellPrice < 0 {
		return fmt.Errorf("%w: supply prices must be >= 0", ErrInvalid)
	}
	return nil
}

// Validate checks a room before it is written.
func (r Room) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: room name is required", ErrInvalid)
	}
	for _, q := range []float64{r.SmallBoxQuantity, r.MediumBoxQuantity, r.LargeBoxQuantity,
		r.PaperRollQuantity, r.TapeRollQuantity, r.LaborHours} {
		if q < 0 {
			return fmt.Errorf("%w: room quantities must be >= 0", ErrInvalid)
		}
	}
	return nil
}
