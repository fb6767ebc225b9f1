package routes

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"carvalet/handlers"
	"carvalet/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware 驗證 JWT token，並提取 member_id
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "缺少 Authorization 標頭",
				"error":   "Authorization header is required",
				"code":    "ERR_NO_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的 Authorization 格式",
				"error":   "Authorization header must be in the format 'Bearer <token>'",
				"code":    "ERR_INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		// 明確要求檢查 exp 字段
		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return utils.JWTSecret, nil
		}, jwt.WithExpirationRequired())

		if err != nil {
			log.Printf("Token parsing error: %v", err)
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  false,
					"message": "token 已過期",
					"error":   "Token has expired",
					"code":    "ERR_TOKEN_EXPIRED",
				})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"status":  false,
					"message": "無效的 token",
					"error":   err.Error(),
					"code":    "ERR_INVALID_TOKEN",
				})
			}
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的 token 內容",
				"error":   "Invalid token claims or token is not valid",
				"code":    "ERR_INVALID_CLAIMS",
			})
			c.Abort()
			return
		}

		// 確認 member_id 字段
		memberID, ok := claims["member_id"].(float64)
		if !ok {
			log.Printf("Missing or invalid member_id in token")
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  false,
				"message": "無效的會員 ID",
				"error":   "Invalid member_id in token",
				"code":    "ERR_INVALID_MEMBER_ID",
			})
			c.Abort()
			return
		}

		c.Set("member_id", int(memberID))
		c.Next()
	}
}

func Path(router *gin.RouterGroup) {
	// 版本控制
	v1 := router.Group("/v1")
	{
		// 測試路由
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(200, gin.H{"message": "pong"})
		})

		// 會員路由
		members := v1.Group("/members")
		{
			// 公開路由：不需要 token 驗證
			members.POST("/register", handlers.RegisterMember) // 註冊會員
			members.POST("/login", handlers.LoginMember)       // 登入會員並獲取 token

			// 受保護路由：需要 token 驗證
			membersWithAuth := members.Group("")
			membersWithAuth.Use(AuthMiddleware())
			{
				membersWithAuth.GET("/profile", handlers.GetMemberProfile)
			}
		}

		// 搜尋路由：首頁與位置條件搜尋皆為公開
		spaces := v1.Group("/spaces")
		{
			spaces.GET("/landing", handlers.LandingSearch)              // 首頁搜尋（可選座標過濾）
			spaces.GET("/search", handlers.SearchSpaces)                // 郵遞區號／地址文字搜尋
			spaces.GET("/property/:prefix", handlers.GetSpacesByProperty) // 特定物業的車位

			spacesWithAuth := spaces.Group("")
			spacesWithAuth.Use(AuthMiddleware())
			{
				spacesWithAuth.GET("/mine", handlers.GetMySpaces) // 擁有者名下車位
			}
		}

		// 預約路由
		bookings := v1.Group("/bookings")
		{
			bookingsWithAuth := bookings.Group("")
			bookingsWithAuth.Use(AuthMiddleware())
			{
				bookingsWithAuth.POST("", handlers.BookSpace)              // 預約車位
				bookingsWithAuth.GET("/history", handlers.GetBookingHistory) // 查詢預約歷史
			}
		}
	}
}
