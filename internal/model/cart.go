package model

// CartItem is one row of `cart_items` joined with its product.  The
// (user_id, product_id) pair is unique; adding an existing product merges
// quantities instead of inserting a duplicate row.
type CartItem struct {
    ID       uint64  `json:"id"`
    Quantity uint32  `json:"quantity"`
    Product  Product `json:"product"`
}

// Cart is the computed view of a user's cart.
type Cart struct {
    UserID        uint64     `json:"user_id"`
    Items         []CartItem `json:"items"`
    TotalQuantity uint32     `json:"total_quantity"`
    TotalPrice    float64    `json:"total_price"`
}
