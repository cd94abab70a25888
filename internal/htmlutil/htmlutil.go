// Package htmlutil provides the reusable HTML-parsing primitives consumed
// by scraper plugins: labelled-section extraction and safe text extraction
// with tag assertions, both built on goquery selections.
package htmlutil

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/marmitar/busca-fuzzy/internal/normalize"
)

// ErrMissingElement is returned by GetText when node is empty.
var ErrMissingElement = fmt.Errorf("htmlutil: element not found")

// ErrDuplicateHeader is returned by ParseSections when two headers under
// container collapse to the same normalized text.
type ErrDuplicateHeader struct {
	Header string
}

func (e *ErrDuplicateHeader) Error() string {
	return fmt.Sprintf("htmlutil: duplicate section header %q", e.Header)
}

// ErrUnexpectedTag is returned by GetText when expectedTag is non-empty and
// does not match node's actual tag.
type ErrUnexpectedTag struct {
	Expected string
	Got      string
}

func (e *ErrUnexpectedTag) Error() string {
	return fmt.Sprintf("htmlutil: expected <%s>, got <%s>", e.Expected, e.Got)
}

// ErrNodeHasChildren is returned by GetText when allowChildren is false and
// node contains child elements.
var ErrNodeHasChildren = fmt.Errorf("htmlutil: element has unexpected child elements")

// ErrUnparseableText is returned by ParseText when parser rejects the
// extracted text.
type ErrUnparseableText struct {
	Text string
}

func (e *ErrUnparseableText) Error() string {
	return fmt.Sprintf("htmlutil: could not parse text %q", e.Text)
}

// ParseSections iterates over every descendant of container whose tag
// equals headerTag, calling extractBody on each header. Headers for which
// extractBody returns a nil selection are skipped; the rest are recorded
// under their collapsed-whitespace header text. Duplicate header text is an
// error: the caller is expected to treat it as a fatal parse failure for
// the enclosing plugin.
func ParseSections(
	container *goquery.Selection,
	headerTag string,
	extractBody func(header *goquery.Selection) *goquery.Selection,
) (map[string]*goquery.Selection, error) {
	sections := make(map[string]*goquery.Selection)
	var firstErr error

	container.Find(headerTag).EachWithBreak(func(_ int, header *goquery.Selection) bool {
		body := extractBody(header)
		if body == nil {
			return true
		}
		key := normalize.CollapseWhitespace(header.Text())
		if _, exists := sections[key]; exists {
			firstErr = &ErrDuplicateHeader{Header: key}
			return false
		}
		sections[key] = body
		return true
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return sections, nil
}

// GetText extracts node's own text, asserting it is non-empty, optionally
// matching expectedTag, and optionally free of child elements.
func GetText(node *goquery.Selection, expectedTag string, allowChildren bool) (string, error) {
	if node == nil || node.Length() == 0 {
		return "", ErrMissingElement
	}
	if expectedTag != "" {
		if tag := goquery.NodeName(node); tag != expectedTag {
			return "", &ErrUnexpectedTag{Expected: expectedTag, Got: tag}
		}
	}
	if !allowChildren && node.Children().Length() > 0 {
		return "", ErrNodeHasChildren
	}
	return normalize.CollapseWhitespace(node.Text()), nil
}

// ParseText composes GetText with a caller-supplied parser: parser returning
// ok=false turns into ErrUnparseableText.
func ParseText[T any](
	node *goquery.Selection,
	expectedTag string,
	allowChildren bool,
	parser func(string) (T, bool),
) (T, error) {
	var zero T
	text, err := GetText(node, expectedTag, allowChildren)
	if err != nil {
		return zero, err
	}
	v, ok := parser(text)
	if !ok {
		return zero, &ErrUnparseableText{Text: text}
	}
	return v, nil
}
