package dto

type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Seller      string  `json:"seller"`
	ImageURL    string  `json:"imageUrl"`
	Label       string  `json:"label"`
	SoldOut     bool    `json:"soldOut"`
	CreatedAt   int64   `json:"createdAt"`
}

type ImageUploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

type BannerResponse struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"imageUrl"`
	Href     string `json:"href"`
}
