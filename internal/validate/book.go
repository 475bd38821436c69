package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/evfilters/scrapbook-api/internal/scrapbook"
	"golang.org/x/text/unicode/norm"
)

// Boundary caps. The editor enforces stricter interactive minimums (50x30);
// the API only rejects geometry that could not have come from any client.
const (
	MaxTitleLen     = 200
	MaxCoverTextLen = 2000
	MaxContentLen   = 10000
	MaxAltLen       = 300
	MaxColorLen     = 50
	MaxSrcLen       = 4 << 20 // per data-URI payload
	MaxPages        = 200
	MaxPageElements = 100

	MinFontSize = 8
	MaxFontSize = 72
	MinSize     = 10
)

var coverBackgrounds = map[string]struct{}{
	"classic": {},
	"vintage": {},
	"modern":  {},
	"night":   {},
	"floral":  {},
}

// BoundedText NFC-normalizes and trims s, then enforces a rune-count cap.
func BoundedText(name, s string, max int) (string, error) {
	s = strings.TrimSpace(norm.NFC.String(s))
	if utf8.RuneCountInString(s) > max {
		return "", errors.New(name + " must be at most " + strconv.Itoa(max) + " characters")
	}
	return s, nil
}

// Book checks a full document against the boundary caps and, where valid,
// normalizes its text fields in place. It does not touch version or
// timestamps; the store owns those.
func Book(b *scrapbook.Book) error {
	var err error
	if b.Title, err = BoundedText("title", b.Title, MaxTitleLen); err != nil {
		return err
	}
	if b.CoverText, err = BoundedText("coverText", b.CoverText, MaxCoverTextLen); err != nil {
		return err
	}
	if len(b.CoverPhoto) > MaxSrcLen {
		return errors.New("coverPhoto exceeds maximum size")
	}
	switch b.CoverPhotoType {
	case scrapbook.CoverImage, scrapbook.CoverVideo:
	default:
		return fmt.Errorf("invalid coverPhotoType %q", b.CoverPhotoType)
	}
	if err := coverStyle(b.CoverStyle); err != nil {
		return err
	}
	if len(b.Pages) == 0 {
		return errors.New("book must have at least one page")
	}
	if len(b.Pages) > MaxPages {
		return errors.New("too many pages")
	}
	for pi := range b.Pages {
		if err := Page(&b.Pages[pi]); err != nil {
			return fmt.Errorf("page %d: %w", pi, err)
		}
	}
	return nil
}

// Page checks one page's elements.
func Page(p *scrapbook.Page) error {
	if len(p.Elements) > MaxPageElements {
		return errors.New("too many elements")
	}
	for ei := range p.Elements {
		if err := Element(&p.Elements[ei]); err != nil {
			return fmt.Errorf("element %d: %w", ei, err)
		}
	}
	return nil
}

// Element checks one element. Callers normalize first so text defaults are
// already in place.
func Element(e *scrapbook.Element) error {
	if e.X < 0 || e.Y < 0 {
		return errors.New("position must be non-negative")
	}
	if e.Width < MinSize || e.Height < MinSize {
		return errors.New("width and height must be at least " + strconv.Itoa(MinSize))
	}

	switch e.Type {
	case scrapbook.TypeText:
		var err error
		if e.Content, err = BoundedText("content", e.Content, MaxContentLen); err != nil {
			return err
		}
		if e.FontSize < MinFontSize || e.FontSize > MaxFontSize {
			return fmt.Errorf("fontSize must be between %d and %d", MinFontSize, MaxFontSize)
		}
		if len(e.Color) > MaxColorLen {
			return errors.New("color too long")
		}
	case scrapbook.TypeImage:
		if len(e.Src) > MaxSrcLen {
			return errors.New("src exceeds maximum size")
		}
		var err error
		if e.Alt, err = BoundedText("alt", e.Alt, MaxAltLen); err != nil {
			return err
		}
	case scrapbook.TypeVideo:
		if len(e.Src) > MaxSrcLen {
			return errors.New("src exceeds maximum size")
		}
	default:
		return fmt.Errorf("invalid element type %q", e.Type)
	}
	return nil
}

func coverStyle(cs scrapbook.CoverStyle) error {
	if len(cs.TitleColor) > MaxColorLen || len(cs.TextColor) > MaxColorLen {
		return errors.New("cover color too long")
	}
	if _, ok := coverBackgrounds[cs.Background]; !ok {
		return fmt.Errorf("unknown cover background %q", cs.Background)
	}
	if cs.TitleSize <= 0 || cs.TitleSize > 10 {
		return errors.New("titleSize out of range")
	}
	return nil
}
