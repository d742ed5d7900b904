package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/flinthills/movequote/internal/catalog"
	"github.com/flinthills/movequote/internal/formula"
	"github.com/flinthills/movequote/internal/pricing"
	"github.com/flinthills/movequote/internal/selection"
)

// PartialImportMessage is shown when some imported names are not in the catalog.
const PartialImportMessage = "Some items couldn't be imported."

// ImportFormatError reports a CSV that does not follow the export layout.
// Row is the 1-based line number, or 0 when the problem is a missing row.
type ImportFormatError struct {
	Row    int
	Reason string
}

func (e *ImportFormatError) Error() string {
	if e.Row == 0 {
		return "import: " + e.Reason
	}
	return fmt.Sprintf("import: line %d: %s", e.Row, e.Reason)
}

// Line is an imported (name, quantity) pair.
type Line struct {
	Name  string
	Count int
}

// Imported is what a CSV export carries back in.
type Imported struct {
	Input    pricing.EstimateInput
	PackTier int
	Items    []Line
	Rooms    []Line
	Note     string
}

// WriteCSV writes q in the DETAILS/OUTPUT layout.
func WriteCSV(w io.Writer, q Quote) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.WriteAll(Records(q)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

type section int

const (
	sectionDetails section = iota
	sectionItems
	sectionRooms
	sectionNote
)

// ReadCSV parses an exported quote. It never returns partial data: any
// layout problem yields an *ImportFormatError.
func ReadCSV(r io.Reader) (Imported, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil || len(header) < 2 || header[0] != headerDetails || header[1] != headerOutput {
		return Imported{}, &ImportFormatError{Row: 1, Reason: "headers must be 'DETAILS' and 'OUTPUT'"}
	}

	imp := Imported{PackTier: formula.TierMid}
	var (
		seen    = map[string]bool{}
		current = sectionDetails
		noteSet bool
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			row := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				row = pe.Line
			}
			return Imported{}, &ImportFormatError{Row: row, Reason: err.Error()}
		}
		line, _ := cr.FieldPos(0)
		first := rec[0]

		if current == sectionNote {
			if !noteSet {
				imp.Note = first
				noteSet = true
			}
			continue
		}

		switch {
		case first == headerItems:
			current = sectionItems
			seen[headerItems] = true
			continue
		case first == headerRooms:
			current = sectionRooms
			continue
		case first == headerNote && len(rec) == 1:
			current = sectionNote
			seen[headerNote] = true
			continue
		}

		switch current {
		case sectionDetails:
			if err := readDetail(first, line, &imp, seen); err != nil {
				return Imported{}, err
			}
		case sectionItems, sectionRooms:
			l, err := readLine(rec, line)
			if err != nil {
				return Imported{}, err
			}
			if current == sectionItems {
				imp.Items = append(imp.Items, l)
			} else {
				imp.Rooms = append(imp.Rooms, l)
			}
		}
	}

	for _, key := range []string{keyDistance, keyFortRiley, keyAdjustment, keyScale, headerItems, headerNote} {
		if !seen[key] {
			return Imported{}, &ImportFormatError{Reason: fmt.Sprintf("missing %q row", strings.TrimSuffix(key, "="))}
		}
	}
	if err := imp.Input.Validate(); err != nil {
		return Imported{}, &ImportFormatError{Reason: err.Error()}
	}
	if !formula.ValidTier(imp.PackTier) {
		return Imported{}, &ImportFormatError{Reason: fmt.Sprintf("packing tier %d is outside 1-5", imp.PackTier)}
	}
	return imp, nil
}

func readDetail(label string, line int, imp *Imported, seen map[string]bool) error {
	value, key, ok := embedded(label)
	if !ok {
		return nil
	}
	bad := func(what string) error {
		return &ImportFormatError{Row: line, Reason: fmt.Sprintf("%s %q is not valid", what, value)}
	}
	switch key {
	case keyDistance:
		n, err := strconv.Atoi(value)
		if err != nil {
			return bad("distance")
		}
		imp.Input.Distance = n
	case keyFortRiley:
		switch value {
		case "Yes":
			imp.Input.FortRiley = true
		case "No":
			imp.Input.FortRiley = false
		default:
			return bad("Fort Riley flag")
		}
	case keyAdjustment:
		n, err := strconv.Atoi(value)
		if err != nil {
			return bad("estimator adjustment")
		}
		imp.Input.Adjustment = n
	case keyScale:
		n, err := strconv.Atoi(value)
		if err != nil {
			return bad("scale")
		}
		imp.Input.Tier = n
	case keyPackScale:
		n, err := strconv.Atoi(value)
		if err != nil {
			return bad("packing scale")
		}
		imp.PackTier = n
	}
	seen[key] = true
	return nil
}

// embedded extracts the value of a "(KEY=value):" label.
func embedded(label string) (value, key string, ok bool) {
	open := strings.LastIndex(label, "(")
	if open < 0 || !strings.HasSuffix(label, "):") {
		return "", "", false
	}
	inner := label[open+1 : len(label)-2]
	for _, k := range []string{keyPackScale, keyDistance, keyFortRiley, keyAdjustment, keyScale} {
		if strings.HasPrefix(inner, k) {
			return strings.TrimPrefix(inner, k), k, true
		}
	}
	return "", "", false
}

func readLine(rec []string, line int) (Line, error) {
	if len(rec) < 2 {
		return Line{}, &ImportFormatError{Row: line, Reason: fmt.Sprintf("%q has no quantity", rec[0])}
	}
	n, err := strconv.Atoi(strings.TrimSpace(rec[1]))
	if err != nil || n < 0 {
		return Line{}, &ImportFormatError{Row: line, Reason: fmt.Sprintf("quantity %q for %q is not valid", rec[1], rec[0])}
	}
	return Line{Name: rec[0], Count: n}, nil
}

// Resolve matches imported names exactly against the current catalog and
// returns the rebuilt selection plus every name that could not be placed.
func Resolve(imp Imported, items []catalog.Item, rooms []catalog.Room) (selection.Selection, []string) {
	byName := make(map[string]catalog.Item, len(items))
	for _, it := range items {
		if _, dup := byName[it.Name]; !dup {
			byName[it.Name] = it
		}
	}
	roomNames := make(map[string]bool, len(rooms))
	for _, r := range rooms {
		roomNames[r.Name] = true
	}

	sel := selection.New()
	var skipped []string
	for _, l := range imp.Items {
		it, ok := byName[l.Name]
		if !ok {
			skipped = append(skipped, l.Name)
			continue
		}
		sel.SetItem(it.Name, it.Category, l.Count)
	}
	for _, l := range imp.Rooms {
		if !roomNames[l.Name] {
			skipped = append(skipped, l.Name)
			continue
		}
		sel.SetRoom(l.Name, l.Count)
	}
	return sel, skipped
}
