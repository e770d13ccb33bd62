package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenPayload captures the data available when minting a design
// session token.
type SessionTokenPayload struct {
	SessionID uuid.UUID
	ProductID uuid.UUID
	JTI       string
}

// SessionTokenClaims represents the typed JWT handed to the editor client.
type SessionTokenClaims struct {
	SessionID uuid.UUID `json:"session_id"`
	ProductID uuid.UUID `json:"product_id"`
	jwt.RegisteredClaims
}
