package domain

// ItemStatus is the catalog item status as observed by this subsystem. The
// catalog service owns the value; moderation only reads it and requests
// transitions out of StatusPending.
type ItemStatus string

const (
	StatusPending  ItemStatus = "PENDING"
	StatusApproved ItemStatus = "APPROVED"
	StatusRejected ItemStatus = "REJECTED"
)

// Valid reports whether the status is one of the known catalog states.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined out of s.
func (s ItemStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Item is the catalog entry shape this subsystem consumes. The catalog
// service remains the source of truth for every field.
type Item struct {
	ID       ItemID     `json:"id"`
	Name     string     `json:"name"`
	Status   ItemStatus `json:"status"`
	ShopID   int64      `json:"shopId,omitempty"`
	SellerID int64      `json:"sellerId,omitempty"`
	Price    float64    `json:"price,omitempty"`
}

// PagedItems is one page of a catalog listing.
type PagedItems struct {
	Items    []Item `json:"items"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Total    int64  `json:"total"`
}
