// Package common contains shared constants and sentinel errors used across
// gane components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authentication scheme expected in AuthorizationHeaderName.
const BearerScheme = "Bearer"
