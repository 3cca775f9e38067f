package model

// Category mirrors the `categories` table.  Categories form a tree via
// ParentID; a nil ParentID means a root category.
type Category struct {
    ID       uint64  `json:"id"`
    Name     string  `json:"name"`
    ParentID *uint64 `json:"parent_id"`
    IsActive bool    `json:"is_active"`
}

// Product mirrors the `products` table.  Price is the DECIMAL(10,2) column
// scanned as float64; Rating is the average grade of active reviews and is
// recomputed whenever a review is created or removed.
type Product struct {
    ID          uint64  `json:"id"`
    Name        string  `json:"name"`
    Description *string `json:"description"`
    Price       float64 `json:"price"`
    ImageURL    *string `json:"image_url"`
    Stock       uint32  `json:"stock"`
    CategoryID  uint64  `json:"category_id"`
    SellerID    uint64  `json:"seller_id"`
    Rating      float64 `json:"rating"`
    IsActive    bool    `json:"is_active"`
}

// ProductPage is one page of a filtered product listing.  Total counts the
// full matching set regardless of pagination.
type ProductPage struct {
    Items    []Product `json:"items"`
    Total    int64     `json:"total"`
    Page     int       `json:"page"`
    PageSize int       `json:"page_size"`
}
