package enums

import "fmt"

// ProductCategory separates reproducible prints from one-off originals.
type ProductCategory string

const (
	ProductCategoryPrint    ProductCategory = "print"
	ProductCategoryOriginal ProductCategory = "original"
)

var validProductCategories = []ProductCategory{
	ProductCategoryPrint,
	ProductCategoryOriginal,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
