package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for Syncwire.
// It includes standard claims required by the JWT specification and the identity
// claim used to authorize a participant on the realtime and REST surfaces.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// Identity is the opaque identifier of the participant the token was issued for.
	// Syncwire keeps no participant attributes beyond this identifier.
	Identity string `json:"identity"`
}
