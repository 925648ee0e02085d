package colour

import (
	"fmt"
	"strings"
)

// Level is a WCAG conformance level.
type Level string

// Category distinguishes text from non-text (graphical) content.
type Category string

// Element is the size class of a text element.
type Element string

const (
	LevelAA  Level = "AA"
	LevelAAA Level = "AAA"

	CategoryText     Category = "text"
	CategoryGraphics Category = "graphics"

	ElementNormal Element = "normal"
	ElementLarge  Element = "large"
)

// ParseLevel parses a WCAG level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AA":
		return LevelAA, nil
	case "AAA":
		return LevelAAA, nil
	default:
		return "", fmt.Errorf("invalid WCAG level: %s (valid: AA, AAA)", s)
	}
}

// ParseCategory parses a content category name.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return CategoryText, nil
	case "graphics", "ui", "non-text":
		return CategoryGraphics, nil
	default:
		return "", fmt.Errorf("invalid content category: %s (valid: text, graphics)", s)
	}
}

// ParseElement parses a text element size class.
func ParseElement(s string) (Element, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "":
		return ElementNormal, nil
	case "large":
		return ElementLarge, nil
	default:
		return "", fmt.Errorf("invalid element type: %s (valid: normal, large)", s)
	}
}

// ContrastThreshold returns the minimum contrast ratio required for the given
// level, category and element type.
//
//	AA  text normal 4.5   AA  text large 3.0
//	AAA text normal 7.0   AAA text large 4.5
//	graphics at either level 3.0 (WCAG 2.1 SC 1.4.11)
func ContrastThreshold(level Level, category Category, element Element) (float64, error) {
	if category == CategoryGraphics {
		if level != LevelAA && level != LevelAAA {
			return 0, fmt.Errorf("unknown WCAG level: %q", level)
		}
		return 3.0, nil
	}
	if category != CategoryText {
		return 0, fmt.Errorf("unknown content category: %q", category)
	}

	large := false
	switch element {
	case ElementNormal:
	case ElementLarge:
		large = true
	default:
		return 0, fmt.Errorf("unknown element type: %q", element)
	}

	switch level {
	case LevelAA:
		if large {
			return 3.0, nil
		}
		return 4.5, nil
	case LevelAAA:
		if large {
			return 4.5, nil
		}
		return 7.0, nil
	default:
		return 0, fmt.Errorf("unknown WCAG level: %q", level)
	}
}
