package scrapbook

import "time"

type ElementType string

const (
	TypeText  ElementType = "text"
	TypeImage ElementType = "image"
	TypeVideo ElementType = "video"
)

type CoverPhotoType string

const (
	CoverImage CoverPhotoType = "image"
	CoverVideo CoverPhotoType = "video"
)

// Defaults applied whenever an element is constructed or deserialized, so
// documents saved without the optional fields still render.
const (
	DefaultFontSize  = 16.0
	DefaultTextColor = "#333"
)

// Element is a positioned item on a page. Exactly one of the type-specific
// field groups is meaningful: Content/FontSize/Color for text, Src/Alt for
// image, Src for video. Coordinates are page-local, top-left origin.
type Element struct {
	Type     ElementType `json:"type"`
	Content  string      `json:"content,omitempty"`
	Src      string      `json:"src,omitempty"`
	Alt      string      `json:"alt,omitempty"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	FontSize float64     `json:"fontSize,omitempty"`
	Color    string      `json:"color,omitempty"`
}

// Normalize fills the implicit defaults in place. It is the single place
// those defaults live; render, capture, and validation all see fully
// populated records.
func (e *Element) Normalize() {
	if e.Type == TypeText {
		if e.FontSize <= 0 {
			e.FontSize = DefaultFontSize
		}
		if e.Color == "" {
			e.Color = DefaultTextColor
		}
	}
}

// NewTextElement returns a fresh text block at the editor's standard drop
// position.
func NewTextElement(content string) Element {
	e := Element{
		Type:    TypeText,
		Content: content,
		X:       100, Y: 100,
		Width: 200, Height: 80,
	}
	e.Normalize()
	return e
}

func NewImageElement(src, alt string) Element {
	return Element{
		Type: TypeImage,
		Src:  src,
		Alt:  alt,
		X:    100, Y: 100,
		Width: 200, Height: 150,
	}
}

func NewVideoElement(src string) Element {
	return Element{
		Type: TypeVideo,
		Src:  src,
		X:    100, Y: 100,
		Width: 200, Height: 150,
	}
}

type Page struct {
	Elements []Element `json:"elements"`
}

type CoverStyle struct {
	TitleColor string  `json:"titleColor"`
	TextColor  string  `json:"textColor"`
	Background string  `json:"background"`
	TitleSize  float64 `json:"titleSize"`
}

// Book is the root per-user document. Version is bumped by the store on
// every successful write; clients never set it.
type Book struct {
	Title          string         `json:"title"`
	CoverPhoto     string         `json:"coverPhoto,omitempty"`
	CoverPhotoType CoverPhotoType `json:"coverPhotoType"`
	CoverText      string         `json:"coverText"`
	CoverStyle     CoverStyle     `json:"coverStyle"`
	Pages          []Page         `json:"pages"`
	UserID         string         `json:"userId"`
	Version        int64          `json:"version"`
	CreatedAt      time.Time      `json:"createdAt,omitempty"`
	UpdatedAt      time.Time      `json:"updatedAt,omitempty"`
}

// Normalize applies element defaults across the whole document and fills
// the cover defaults for documents written by older clients.
func (b *Book) Normalize() {
	if b.CoverPhotoType == "" {
		b.CoverPhotoType = CoverImage
	}
	if b.CoverStyle.TitleColor == "" {
		b.CoverStyle.TitleColor = "#FFD700"
	}
	if b.CoverStyle.TextColor == "" {
		b.CoverStyle.TextColor = "#FFD700"
	}
	if b.CoverStyle.Background == "" {
		b.CoverStyle.Background = "classic"
	}
	if b.CoverStyle.TitleSize <= 0 {
		b.CoverStyle.TitleSize = 2.8
	}
	for pi := range b.Pages {
		for ei := range b.Pages[pi].Elements {
			b.Pages[pi].Elements[ei].Normalize()
		}
	}
}

// DefaultBook seeds the single-page document a user gets on first read.
func DefaultBook(userID string) *Book {
	b := &Book{
		Title:     "Nossa História",
		CoverText: "Uma jornada de amor e momentos especiais...",
		Pages: []Page{{
			Elements: []Element{{
				Type:    TypeText,
				Content: "Era uma vez...",
				X:       50, Y: 100,
				Width: 300, Height: 100,
				FontSize: DefaultFontSize,
				Color:    DefaultTextColor,
			}},
		}},
		UserID: userID,
	}
	b.Normalize()
	return b
}

// AddPage appends an empty page and returns its index.
func (b *Book) AddPage() int {
	b.Pages = append(b.Pages, Page{Elements: []Element{}})
	return len(b.Pages) - 1
}

// DeletePage removes the page at idx. The last remaining page cannot be
// deleted; the call reports whether anything changed.
func (b *Book) DeletePage(idx int) bool {
	if len(b.Pages) <= 1 || idx < 0 || idx >= len(b.Pages) {
		return false
	}
	b.Pages = append(b.Pages[:idx], b.Pages[idx+1:]...)
	return true
}
