package domain

import "time"

// MovementKind is the direction of a stock movement.
type MovementKind string

const (
	MovementAdd  MovementKind = "add"
	MovementTake MovementKind = "take"
)

// Valid reports whether k is one of the known movement kinds.
func (k MovementKind) Valid() bool {
	return k == MovementAdd || k == MovementTake
}

type User struct {
	ID                string
	Email             string
	PasswordHash      string
	Verified          bool
	VerificationToken string
	CreatedAt         time.Time
}

// Item is a trackable inventory SKU owned by a single user.
// Quantity is never negative.
type Item struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Category    string
	SKU         string
	Quantity    int
	Price       float64
	DateAdded   time.Time
	LastUpdated time.Time
}

// Transaction records one quantity change applied to an item. The item's
// name, SKU, category and price are denormalized onto the record at
// transaction time, so the record stays readable after the item changes or
// is deleted. Editing or deleting a transaction does not adjust the
// referenced item's quantity; transactions are an audit trail, not the
// system of record for stock levels.
type Transaction struct {
	ID           string
	UserID       string
	ItemID       string
	ItemName     string
	ItemSKU      string
	ItemCategory string
	ItemPrice    float64
	Kind         MovementKind
	Quantity     int
	Reason       string
	Date         time.Time
}

// ItemPatch enumerates the mutable fields of an Item. A nil field is left
// unchanged.
type ItemPatch struct {
	Name        *string
	Description *string
	Category    *string
	SKU         *string
	Quantity    *int
	Price       *float64
}

// TransactionPatch enumerates the mutable fields of a Transaction. A nil
// field is left unchanged.
type TransactionPatch struct {
	ItemID       *string
	ItemName     *string
	ItemSKU      *string
	ItemCategory *string
	ItemPrice    *float64
	Kind         *MovementKind
	Quantity     *int
	Reason       *string
}
