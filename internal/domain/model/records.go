package model

import "time"

// Persisted records. These are created once at flow completion and are owned
// by the remote document store; field names follow the store's JSON shape.

type Product struct {
	ID          string    `json:"-"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	PhotoURL    string    `json:"photo"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Blog struct {
	ID          string    `json:"-"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	ReadTime    int       `json:"read_time"`
	Description string    `json:"description"`
	CoverURL    string    `json:"cover,omitempty"`
	Blocks      []Block   `json:"blocks"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Feedback struct {
	ID        string    `json:"-"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type Order struct {
	ID          string    `json:"-"`
	UserID      int64     `json:"userId,omitempty"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	PriceEach   int64     `json:"price_each"`
	Quantity    int64     `json:"quantity"`
	Total       int64     `json:"total"`
	BuyerName   string    `json:"name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Handle      string    `json:"handle,omitempty"`
	ReceiptURL  string    `json:"receipt"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Category struct {
	ID   string
	Name string
}

// Rates is the current exchange-rate record kept under settings/rates. The
// same shape is appended to settings/rates_history on every save.
type Rates struct {
	USD       int64     `json:"usd,omitempty"`
	EUR       int64     `json:"eur,omitempty"`
	Gold      int64     `json:"gold,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
