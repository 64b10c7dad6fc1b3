package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService manages JWT token generation and validation for the
// WebSocket stream.
type AuthService struct {
	secretKey   string
	tokenExpiry time.Duration
}

// CustomClaims represents the JWT claims structure
type CustomClaims struct {
	ClientName string `json:"client_name"`
	jwt.RegisteredClaims
}

var authService *AuthService

// InitAuthService initializes the authentication service. With no secret
// configured, a generated key is persisted next to the user's home
// directory so tokens survive restarts.
func InitAuthService(secretKey string, tokenExpiry time.Duration) *AuthService {
	if secretKey == "" {
		homeDir, _ := os.UserHomeDir()
		keyFile := filepath.Join(homeDir, ".netgauge-secret-key")
		if homeDir == "" {
			keyFile = filepath.Join(os.TempDir(), ".netgauge-secret-key")
		}

		if data, err := os.ReadFile(keyFile); err == nil && len(data) > 0 {
			secretKey = strings.TrimSpace(string(data))
			log.Printf("Loaded persisted secret key from %s", keyFile)
		} else {
			hostname, err := os.Hostname()
			if err != nil {
				hostname = "netgauge-agent"
			}

			randomBytes := make([]byte, 16)
			if _, err := rand.Read(randomBytes); err != nil {
				secretKey = fmt.Sprintf("netgauge-%s-%d", hostname, time.Now().UnixNano())
				log.Printf("Warning: random generation failed, using fallback key")
			} else {
				secretKey = fmt.Sprintf("netgauge-%s-%s", hostname, hex.EncodeToString(randomBytes))
			}

			if err := os.WriteFile(keyFile, []byte(secretKey), 0600); err != nil {
				log.Printf("Warning: could not persist secret key to %s: %v", keyFile, err)
			} else {
				log.Printf("Generated and persisted secret key to %s", keyFile)
			}
		}
	}

	if tokenExpiry == 0 {
		tokenExpiry = 90 * 24 * time.Hour
	}

	secretKey = strings.TrimSpace(secretKey)

	// HMAC-SHA256 wants at least 32 bytes of key material
	if len(secretKey) < 32 {
		needed := 32 - len(secretKey)
		paddingBytes := make([]byte, needed)
		_, _ = rand.Read(paddingBytes)
		secretKey = secretKey + hex.EncodeToString(paddingBytes)
	}

	authService = &AuthService{
		secretKey:   secretKey,
		tokenExpiry: tokenExpiry,
	}

	return authService
}

// GenerateToken creates a new JWT token for a named client
func GenerateToken(clientName string) (string, error) {
	if authService == nil {
		return "", fmt.Errorf("auth service not initialized")
	}

	now := time.Now()
	claims := CustomClaims{
		ClientName: clientName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(authService.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "netgauge-agent",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(authService.secretKey))
}

// ValidateToken verifies and parses a JWT token
func ValidateToken(tokenString string) (*CustomClaims, error) {
	if authService == nil {
		return nil, fmt.Errorf("auth service not initialized")
	}

	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(authService.secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// GetAuthService returns the initialized auth service
func GetAuthService() *AuthService {
	return authService
}
