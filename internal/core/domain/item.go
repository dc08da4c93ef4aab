package domain

import (
	"github.com/shopspring/decimal"
)

// SortField enumerates the item attributes the catalog can order by.
type SortField string

const (
	SortByName  SortField = "name"
	SortByPrice SortField = "price"
	SortByStock SortField = "stock"
)

// SortOrder is the direction of a catalog sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Claim marks an item as exclusively held by one session owner.
type Claim struct {
	Holder Identity `json:"holder" bson:"holder"`
}

// Item is a catalog entry. All fields except Claim are read-only after
// provisioning; Claim is written exclusively by the claim coordinator.
type Item struct {
	ID          int64           `json:"id" bson:"_id"`
	Name        string          `json:"name" bson:"name"`
	Description string          `json:"description" bson:"description"`
	Price       decimal.Decimal `json:"price" bson:"-"`
	Stock       int             `json:"stock" bson:"stock"`
	Claim       *Claim          `json:"claim,omitempty" bson:"claim,omitempty"`
}

// HeldBy reports whether the item is currently claimed by username.
func (i *Item) HeldBy(username string) bool {
	return i.Claim != nil && i.Claim.Holder.Username == username
}

// Clone returns a deep copy so callers can hand out snapshots that later
// claim transitions cannot mutate.
func (i *Item) Clone() *Item {
	clone := *i
	if i.Claim != nil {
		c := *i.Claim
		clone.Claim = &c
	}
	return &clone
}
