package utils

import (
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var JWTSecret []byte

// InitJWTSecret 從環境變數載入 JWT 簽章金鑰
func InitJWTSecret() {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		log.Fatalf("JWT_SECRET_KEY environment variable is not set")
	}
	JWTSecret = []byte(secret)
	log.Println("JWT secret initialized successfully")
}

// GenerateToken 為會員簽發 JWT，有效期 24 小時
func GenerateToken(memberID int, email string) (string, error) {
	claims := jwt.MapClaims{
		"member_id": memberID,
		"email":     email,
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
		"iat":       time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}
