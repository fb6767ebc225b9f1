package main

import (
	"log"
	"os"

	"carvalet/database"
	"carvalet/models"
	"carvalet/routes"
	"carvalet/services"
	"carvalet/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// 載入 .env 檔案
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using default environment variables: %v", err)
	}

	// 初始化 JWTSecret
	utils.InitJWTSecret()

	// 初始化資料庫
	database.InitDB()

	// 執行資料庫遷移
	database.DB.AutoMigrate(
		&models.Member{},
		&models.Property{},
		&models.ParkingSpace{},
		&models.Booking{},
		&models.PaymentTransaction{},
	)
	log.Println("Database migration completed")

	// 設置 Gin 模式
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "" {
		ginMode = gin.ReleaseMode
	}
	gin.SetMode(ginMode)
	log.Printf("Gin mode set to %s", ginMode)

	// 初始化 Gin 路由器
	r := gin.Default()

	// 創建一個 API 路由組
	api := r.Group("/api")
	{
		routes.Path(api)
	}

	// 啟動定時任務
	c := cron.New()

	// 清除過期佔用旗標定時任務（每 5 分鐘執行一次）
	_, err := c.AddFunc("*/5 * * * *", func() {
		log.Println("Releasing expired bookings...")
		if err := services.ReleaseExpiredBookings(); err != nil {
			log.Printf("Failed to release expired bookings: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule expired bookings cron job: %v", err)
	}

	c.Start()
	log.Println("Cron jobs started")

	// 啟動伺服器
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
