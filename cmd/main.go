package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/surveybot/config"
	"github.com/vnkhanh/surveybot/logger"
	"github.com/vnkhanh/surveybot/middleware"
	"github.com/vnkhanh/surveybot/routes"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.Init(settings.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Kết nối DB + AutoMigrate
	if err := config.ConnectDB(settings); err != nil {
		log.Fatal("database init failed", "error", err)
	}

	if settings.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Tạo instance router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	origins := make(map[string]bool, len(settings.CORSOrigins))
	for _, o := range settings.CORSOrigins {
		origins[o] = true
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return origins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		panic(err)
	}

	routes.SetupRoutes(r)

	log.Info("server listening", "port", settings.Port, "timezone", settings.Timezone)
	if err := r.Run(":" + settings.Port); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
