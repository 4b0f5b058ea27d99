package enums

import "fmt"

// ItemKind names the catalog table an order line item points at.
type ItemKind string

const (
	ItemKindProduct ItemKind = "product"
	ItemKindEvent   ItemKind = "event"
)

var validItemKinds = []ItemKind{
	ItemKindProduct,
	ItemKindEvent,
}

// String implements fmt.Stringer.
func (k ItemKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known ItemKind.
func (k ItemKind) IsValid() bool {
	for _, candidate := range validItemKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseItemKind converts raw input into an ItemKind.
func ParseItemKind(value string) (ItemKind, error) {
	for _, candidate := range validItemKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item kind %q", value)
}
