package scrapbook

// CapturePage snapshots the editor's working set back into a canonical
// Page. It is a wholesale replacement of the page's elements, not a diff:
// only the fields that belong to each element's type are carried over, and
// the implicit text defaults are re-applied so a page survives a capture
// even when the in-editor state lost its styling.
func CapturePage(ed *Editor) Page {
	page := Page{Elements: make([]Element, 0, len(ed.elements))}
	for _, el := range ed.elements {
		out := Element{
			Type:   el.Type,
			X:      el.X,
			Y:      el.Y,
			Width:  el.Width,
			Height: el.Height,
		}
		switch el.Type {
		case TypeText:
			out.Content = el.Content
			out.FontSize = el.FontSize
			out.Color = el.Color
			out.Normalize()
		case TypeImage:
			out.Src = el.Src
			out.Alt = el.Alt
		case TypeVideo:
			out.Src = el.Src
		}
		page.Elements = append(page.Elements, out)
	}
	return page
}
