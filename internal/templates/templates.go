// Package templates is the static catalog of card visual styles. It is an
// external collaborator of the card service: consumed read-only by viewers
// and never consulted when a card is created.
package templates

type Template struct {
	ID              string
	Name            string
	Description     string
	BackgroundColor string
	TextColor       string
	AccentColor     string
	Pattern         string
}

var catalog = []Template{
	{
		ID:              "template1",
		Name:            "シンプル",
		Description:     "白を基調とした清潔感のあるデザイン",
		BackgroundColor: "#FFFFFF",
		TextColor:       "#2C2C2C",
		AccentColor:     "#D4A373",
		Pattern:         "simple",
	},
	{
		ID:              "template2",
		Name:            "エレガント",
		Description:     "淡いピンクと花モチーフの優雅なデザイン",
		BackgroundColor: "#FFF5F7",
		TextColor:       "#4A3C3C",
		AccentColor:     "#E8B4BC",
		Pattern:         "elegant",
	},
	{
		ID:              "template3",
		Name:            "モダン",
		Description:     "グレーと幾何学模様の洗練されたデザイン",
		BackgroundColor: "#F5F5F5",
		TextColor:       "#1A1A1A",
		AccentColor:     "#8B8B8B",
		Pattern:         "modern",
	},
}

// All returns the catalog in display order.
func All() []Template {
	out := make([]Template, len(catalog))
	copy(out, catalog)
	return out
}

func GetByID(id string) (Template, bool) {
	for _, t := range catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
