package model

import (
    "fmt"
    "strings"
    "time"
)

// Role is the closed set of account roles.  Values are stored verbatim in
// users.role and embedded in JWT claims; anything outside the set is
// rejected at the deserialization boundary rather than by pattern matching.
type Role string

const (
    RoleBuyer  Role = "buyer"
    RoleSeller Role = "seller"
    RoleAdmin  Role = "admin"
)

// ParseRole normalizes and validates a role string.  An empty input maps to
// the default buyer role; any other unknown value is an error.
func ParseRole(s string) (Role, error) {
    switch Role(strings.ToLower(strings.TrimSpace(s))) {
    case "":
        return RoleBuyer, nil
    case RoleBuyer:
        return RoleBuyer, nil
    case RoleSeller:
        return RoleSeller, nil
    case RoleAdmin:
        return RoleAdmin, nil
    }
    return "", fmt.Errorf("unknown role %q", s)
}

// User represents an application user record as stored in the `users` table.
// PasswordHash holds the bcrypt digest; IsActive soft-disables login without
// deleting the row.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.hashed_password
    Role         Role      // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// Principal is the authenticated identity derived from a verified access
// token.  It carries only what authorization decisions need; handlers use
// ID for ownership checks and Role for role gates.
type Principal struct {
    ID    uint64
    Email string
    Role  Role
}
