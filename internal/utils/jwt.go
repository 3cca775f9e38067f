package utils // package utils provides helper functions for token issuing and hashing

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens

    "github.com/iliyamo/online-market/internal/model"
)

// KindRefresh is the token_kind claim value that marks a refresh token.
// Access tokens carry no token_kind claim at all.
const KindRefresh = "refresh"

// Sentinel errors returned by ParseToken.  Handlers map these onto the 401
// responses of the refresh state machine; everything structural or
// signature-related collapses into ErrTokenInvalid.
var (
    ErrTokenExpired = errors.New("token expired")
    ErrTokenInvalid = errors.New("token invalid")
)

// SignedToken is a serialized HS256 JWT together with its expiry.  Neither
// access nor refresh tokens are persisted server-side; validity is decided
// purely by signature and expiry at parse time.
type SignedToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// TokenClaims is the decoded claim set shared by access and refresh tokens:
// subject (email), role, numeric user id and expiry.  Kind is empty for
// access tokens and KindRefresh for refresh tokens.
type TokenClaims struct {
    UserID uint64
    Email  string
    Role   model.Role
    Kind   string
    Exp    time.Time
}

// NewAccessToken builds and signs a short-lived HS256 JWT for a principal.
// The claim set is {sub: email, role, id, exp, iat}.
func NewAccessToken(secret string, p model.Principal, ttlMin int) (SignedToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  p.Email,
        "role": string(p.Role),
        "id":   p.ID,
        "exp":  exp.Unix(),
        "iat":  time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SignedToken{}, err
    }
    return SignedToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs a long-lived HS256 JWT carrying the same
// identity claims as an access token plus token_kind=refresh.  Possession of
// an unexpired, correctly signed refresh token is sufficient for rotation;
// there is no server-side list to check against.
func NewRefreshToken(secret string, p model.Principal, ttlDays int) (SignedToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
    claims := jwt.MapClaims{
        "sub":        p.Email,
        "role":       string(p.Role),
        "id":         p.ID,
        "exp":        exp.Unix(),
        "iat":        time.Now().UTC().Unix(),
        "token_kind": KindRefresh,
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SignedToken{}, err
    }
    return SignedToken{Token: signed, Exp: exp}, nil
}

// ParseToken verifies signature and expiry of a serialized token and decodes
// its claims.  Expiry is reported as ErrTokenExpired so callers can
// distinguish it; any other failure (bad signature, wrong algorithm, missing
// or malformed claims) is ErrTokenInvalid.
func ParseToken(secret, raw string) (TokenClaims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with anything but HMAC.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return TokenClaims{}, ErrTokenExpired
        }
        return TokenClaims{}, ErrTokenInvalid
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return TokenClaims{}, ErrTokenInvalid
    }

    email, ok := mc["sub"].(string)
    if !ok || email == "" {
        return TokenClaims{}, ErrTokenInvalid
    }
    roleStr, ok := mc["role"].(string)
    if !ok || roleStr == "" {
        return TokenClaims{}, ErrTokenInvalid
    }
    role, err := model.ParseRole(roleStr)
    if err != nil {
        return TokenClaims{}, ErrTokenInvalid
    }
    // JSON numbers decode as float64.
    idF, ok := mc["id"].(float64)
    if !ok || idF < 0 {
        return TokenClaims{}, ErrTokenInvalid
    }
    expT, err := mc.GetExpirationTime()
    if err != nil || expT == nil {
        return TokenClaims{}, ErrTokenInvalid
    }

    out := TokenClaims{
        UserID: uint64(idF),
        Email:  email,
        Role:   role,
        Exp:    expT.Time,
    }
    if kind, ok := mc["token_kind"].(string); ok {
        out.Kind = kind
    }
    return out, nil
}
