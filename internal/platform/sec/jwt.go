// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec holds the security primitives: RS256 access tokens, password
// and token hashing, and the role hierarchy used for authorization.
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/mangashelf/pkg/uuid"
)

// clockSkew is tolerated between the API replicas that sign and verify.
const clockSkew = 30 * time.Second

var errClaims = errors.New("sec: token carries no usable claims")

// AuthClaims is the access-token payload. The principal travels inside the
// token so [middleware.Authenticate] never hits the database.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   string `json:"uid"`
	Username string `json:"unm"`
	Role     string `json:"rol"`
}

// Actor converts the claims into the principal passed to services.
func (claims *AuthClaims) Actor() Actor {
	return Actor{UserID: claims.UserID, Username: claims.Username, Role: UserRole(claims.Role)}
}

// TokenService signs and verifies RS256 access tokens for one issuer.
type TokenService struct {
	signingKey *rsa.PrivateKey
	parser     *jwt.Parser
	verifyKey  *rsa.PublicKey
	issuer     string
}

/*
NewTokenService loads a PEM key pair from disk.

Parameters:
  - privateKeyPath: PKCS#1 or PKCS#8 RSA private key
  - publicKeyPath: PKIX RSA public key
  - issuer: Written to and required on every token

Returns:
  - *TokenService
  - error: Unreadable or unparsable key files
*/
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKey, err := readKey(privateKeyPath, jwt.ParseRSAPrivateKeyFromPEM)
	if err != nil {
		return nil, err
	}
	publicKey, err := readKey(publicKeyPath, jwt.ParseRSAPublicKeyFromPEM)
	if err != nil {
		return nil, err
	}
	return newTokenService(privateKey, publicKey, issuer), nil
}

// NewTokenServiceFromKey uses an in-memory key; the public half verifies.
func NewTokenServiceFromKey(privateKey *rsa.PrivateKey, issuer string) *TokenService {
	return newTokenService(privateKey, &privateKey.PublicKey, issuer)
}

func newTokenService(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) *TokenService {
	return &TokenService{
		signingKey: privateKey,
		verifyKey:  publicKey,
		issuer:     issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithIssuedAt(),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(clockSkew),
		),
	}
}

func readKey[K any](path string, parse func([]byte) (K, error)) (K, error) {
	var zero K
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("sec: read key %s: %w", path, err)
	}
	key, err := parse(data)
	if err != nil {
		return zero, fmt.Errorf("sec: parse key %s: %w", path, err)
	}
	return key, nil
}

// GenerateAccessToken signs a token for the user that expires after
// timeToLive. Each token gets its own jti.
func (service *TokenService) GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(timeToLive)),
		},
		UserID:   userID,
		Username: username,
		Role:     role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(service.signingKey)
	if err != nil {
		return "", fmt.Errorf("sec: sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature, algorithm, issuer and expiry.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := service.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return service.verifyKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}
	if !token.Valid || claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, errClaims
	}
	return claims, nil
}
