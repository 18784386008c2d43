// icons.go — Dietary flag to icon mapping and icon assets.
package cards

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/xob0t/laylacards/pkg/dish"
)

// IconID names one of the six dietary icons. Icon files are <id>.png.
type IconID string

const (
	IconGluten     IconID = "gluten"
	IconGlutenFree IconID = "gluten_free"
	IconVeg        IconID = "veg"
	IconMeat       IconID = "meat"
	IconDairy      IconID = "dairy"
	IconDairyFree  IconID = "dairy_free"
)

// AllIcons lists every identifier in category order.
var AllIcons = []IconID{IconGluten, IconGlutenFree, IconVeg, IconMeat, IconDairy, IconDairyFree}

// MapFlags returns the icons for a dish in the fixed order gluten, protein,
// dairy. It is total over the enum values and rejects anything else.
func MapFlags(g dish.Gluten, p dish.Protein, d dish.Dairy) ([3]IconID, error) {
	var ids [3]IconID
	switch g {
	case dish.GlutenContains:
		ids[0] = IconGluten
	case dish.GlutenFree:
		ids[0] = IconGlutenFree
	default:
		return ids, &UnknownFlagError{Category: "gluten", Value: string(g)}
	}
	switch p {
	case dish.ProteinVeg:
		ids[1] = IconVeg
	case dish.ProteinMeat:
		ids[1] = IconMeat
	default:
		return ids, &UnknownFlagError{Category: "protein_type", Value: string(p)}
	}
	switch d {
	case dish.DairyContains:
		ids[2] = IconDairy
	case dish.DairyFree:
		ids[2] = IconDairyFree
	default:
		return ids, &UnknownFlagError{Category: "dairy", Value: string(d)}
	}
	return ids, nil
}

// IconSet holds one image per identifier. It is read-only after loading.
type IconSet map[IconID]image.Image

// NewIconSet checks that every identifier has an image.
func NewIconSet(images map[IconID]image.Image) (IconSet, error) {
	set := make(IconSet, len(AllIcons))
	for _, id := range AllIcons {
		img, ok := images[id]
		if !ok || img == nil {
			return nil, &ConfigurationError{Op: "icon " + string(id), Err: fmt.Errorf("no image")}
		}
		set[id] = img
	}
	return set, nil
}

// LoadIcons decodes <dir>/<id>.png for all six identifiers.
func LoadIcons(dir string) (IconSet, error) {
	images := make(map[IconID]image.Image, len(AllIcons))
	for _, id := range AllIcons {
		path := filepath.Join(dir, string(id)+".png")
		img, err := imaging.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				err = fmt.Errorf("missing %s", path)
			}
			return nil, &ConfigurationError{Op: "load icon " + string(id), Err: err}
		}
		images[id] = img
	}
	tracer().Infof("loaded %d icons from %s", len(images), dir)
	return NewIconSet(images)
}

func (s IconSet) validate() error {
	for _, id := range AllIcons {
		if s[id] == nil {
			return &ConfigurationError{Op: "icon " + string(id), Err: fmt.Errorf("no image")}
		}
	}
	return nil
}
