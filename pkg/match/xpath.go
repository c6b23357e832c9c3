package match

import (
	"strings"

	"github.com/beevik/etree"
)

type xpathMatcher struct {
	conditions map[string]string
}

// XPath matches an XML document (the raw request body) when the text at each
// path equals the expected value. A path ending in /@name selects an
// attribute. Paths use etree's XPath subset.
func XPath(conditions map[string]string) Matcher {
	return &xpathMatcher{conditions: conditions}
}

func (x *xpathMatcher) Match(actual any) bool {
	s, ok := actual.(string)
	if !ok {
		b, isBytes := actual.([]byte)
		if !isBytes {
			return false
		}
		s = string(b)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		return false
	}

	for path, expected := range x.conditions {
		actualValue, found := extractXPath(doc, path)
		if !found || actualValue != expected {
			return false
		}
	}
	return true
}

// extractXPath returns the trimmed text (or attribute value) at path.
func extractXPath(doc *etree.Document, path string) (string, bool) {
	if attrIdx := strings.LastIndex(path, "/@"); attrIdx >= 0 {
		elem := findElement(doc, path[:attrIdx])
		if elem == nil {
			return "", false
		}
		attr := elem.SelectAttr(path[attrIdx+2:])
		if attr == nil {
			return "", false
		}
		return attr.Value, true
	}

	elem := findElement(doc, path)
	if elem == nil {
		return "", false
	}
	return strings.TrimSpace(elem.Text()), true
}

// findElement compiles path before searching; etree panics on invalid paths
// passed to FindElement directly.
func findElement(doc *etree.Document, path string) *etree.Element {
	compiled, err := etree.CompilePath(path)
	if err != nil {
		return nil
	}
	return doc.FindElementPath(compiled)
}
