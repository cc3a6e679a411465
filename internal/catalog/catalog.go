// Package catalog lists the interaction demos and filters them for the
// gallery screens.
package catalog

// Category groups demos in the filter bar.
type Category int

const (
	Animation Category = iota
	Interaction
	Background
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{Animation, Interaction, Background}
}

func (c Category) String() string {
	switch c {
	case Animation:
		return "Animation"
	case Interaction:
		return "Interaction"
	case Background:
		return "Background"
	default:
		return "Unknown"
	}
}

// Icon is a single-cell glyph shown next to the category.
func (c Category) Icon() string {
	switch c {
	case Animation:
		return "▶"
	case Interaction:
		return "☝"
	case Background:
		return "✦"
	default:
		return "?"
	}
}

// Destination names the screen an item opens.
type Destination int

const (
	FitVolume Destination = iota
	SlidePay
	BlinkStar
)

func (d Destination) String() string {
	switch d {
	case FitVolume:
		return "fit-volume"
	case SlidePay:
		return "slide-pay"
	case BlinkStar:
		return "blink-star"
	default:
		return "unknown"
	}
}

// Item is one entry in a gallery.
type Item struct {
	ID          string
	Title       string
	Description string
	Category    Category
	Tags        []string
	Destination Destination
}

// Gallery holds the finished demos.
func Gallery() []Item {
	return []Item{
		{
			ID:          "fit-volume",
			Title:       "Match the volume",
			Description: "Step the volume toward a recommended level; the two readouts merge into one once they agree.",
			Category:    Animation,
			Tags:        []string{"UX", "volume", "merge"},
			Destination: FitVolume,
		},
		{
			ID:          "slide-pay",
			Title:       "Slide to pay",
			Description: "Drag the handle across the track to confirm a payment, with a pulse when crossing the commit point.",
			Category:    Interaction,
			Tags:        []string{"gesture", "haptics", "payment"},
			Destination: SlidePay,
		},
		{
			ID:          "blink-star",
			Title:       "Twinkling stars",
			Description: "A field of randomly placed stars that fade in and out at their own pace.",
			Category:    Background,
			Tags:        []string{"background", "stars", "ambient"},
			Destination: BlinkStar,
		},
	}
}

// Archive holds retired demos. It is empty for now.
func Archive() []Item {
	return nil
}
