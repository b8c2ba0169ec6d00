package domain

// Product is a marketplace listing. Label is assigned by the image
// classifier before the row is inserted and is never reassigned.
type Product struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description string  `db:"description" json:"description"`
	Price       float64 `db:"price" json:"price"`
	Seller      string  `db:"seller" json:"seller"`
	ImageURL    string  `db:"image_url" json:"imageUrl"`
	Label       string  `db:"label" json:"label"`
	SoldOut     bool    `db:"sold_out" json:"soldOut"`
	CreatedAt   int64   `db:"created_at" json:"createdAt"`
}

type Banner struct {
	ID       int64  `db:"id" json:"id"`
	ImageURL string `db:"image_url" json:"imageUrl"`
	Href     string `db:"href" json:"href"`
}
