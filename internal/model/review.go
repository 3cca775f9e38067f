package model

import "time"

// Review mirrors the `reviews` table.  Grade is constrained to 1..5 at the
// boundary and by a database check constraint.
type Review struct {
    ID          uint64    `json:"id"`
    UserID      uint64    `json:"user_id"`
    ProductID   uint64    `json:"product_id"`
    Comment     *string   `json:"comment"`
    CommentDate time.Time `json:"comment_date"`
    Grade       uint8     `json:"grade"`
    IsActive    bool      `json:"is_active"`
}
