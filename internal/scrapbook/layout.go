package scrapbook

// PageSplitX is the x threshold that decides which physical half of the
// two-sided spread an element renders on. Elements at or past it go to the
// right half with their x rebased to that half's own origin.
const PageSplitX = 400.0

// PlacedElement is an element positioned in side-local coordinates, ready
// to render.
type PlacedElement struct {
	Element Element
	X       float64
	Y       float64
}

// PageView is one rendered spread: the left and right element groups plus
// the 1-based page number shown on the right half.
type PageView struct {
	Number int
	Left   []PlacedElement
	Right  []PlacedElement
}

// RenderPages rebuilds the view for every page of the book. It is a full
// rebuild each time; page counts stay small enough that incremental
// patching is not worth having.
func RenderPages(b *Book) []PageView {
	views := make([]PageView, 0, len(b.Pages))
	for i, page := range b.Pages {
		view := PageView{
			Number: i + 1,
			Left:   []PlacedElement{},
			Right:  []PlacedElement{},
		}
		for _, el := range page.Elements {
			el.Normalize()
			if el.X < PageSplitX {
				view.Left = append(view.Left, PlacedElement{Element: el, X: el.X, Y: el.Y})
			} else {
				view.Right = append(view.Right, PlacedElement{Element: el, X: el.X - PageSplitX, Y: el.Y})
			}
		}
		views = append(views, view)
	}
	return views
}
