package orders

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/atelier-backend/pkg/enums"
)

// ItemRef points a line item at exactly one catalog entity. The zero value
// is invalid; build refs with ProductRef or EventRef.
type ItemRef struct {
	kind enums.ItemKind
	id   uuid.UUID
}

func ProductRef(id uuid.UUID) ItemRef {
	return ItemRef{kind: enums.ItemKindProduct, id: id}
}

func EventRef(id uuid.UUID) ItemRef {
	return ItemRef{kind: enums.ItemKindEvent, id: id}
}

func (r ItemRef) Kind() enums.ItemKind { return r.kind }

func (r ItemRef) ID() uuid.UUID { return r.id }

// Valid reports whether the ref names a known kind and a non-nil id.
func (r ItemRef) Valid() bool {
	return r.kind.IsValid() && r.id != uuid.Nil
}

func (r ItemRef) String() string {
	return fmt.Sprintf("%s:%s", r.kind, r.id)
}

// columns maps the ref onto the nullable product_id / event_id pair.
func (r ItemRef) columns() (productID, eventID *uuid.UUID) {
	id := r.id
	switch r.kind {
	case enums.ItemKindProduct:
		return &id, nil
	case enums.ItemKindEvent:
		return nil, &id
	}
	return nil, nil
}

// refFromColumns is the inverse of columns; rows violating the
// one-of constraint are reported as errors.
func refFromColumns(productID, eventID *uuid.UUID) (ItemRef, error) {
	switch {
	case productID != nil && eventID == nil:
		return ProductRef(*productID), nil
	case productID == nil && eventID != nil:
		return EventRef(*eventID), nil
	case productID != nil:
		return ItemRef{}, fmt.Errorf("line item references both product %s and event %s", productID, eventID)
	default:
		return ItemRef{}, fmt.Errorf("line item references neither a product nor an event")
	}
}
