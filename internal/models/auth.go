package models

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are the claims carried by admin bearer tokens
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AdminRole is the only role accepted on admin routes
const AdminRole = "admin"
