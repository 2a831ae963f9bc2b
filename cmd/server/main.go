package main

import (
	"time"

	"unafeed/pkg/ai"
	"unafeed/pkg/cache"
	"unafeed/pkg/config"
	"unafeed/pkg/database"
	"unafeed/pkg/handlers"
	"unafeed/pkg/media"
	"unafeed/pkg/middleware"
	"unafeed/pkg/repository"
	"unafeed/pkg/server"
	"unafeed/pkg/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	cfg := config.FromEnv()

	db := database.Connect(cfg.DatabaseURL)
	defer db.Close()
	database.Migrate(db)

	log.Info("[SERVER] connecting to Redis...")
	redis := cache.New(cfg.RedisURL)
	defer redis.Close()
	log.Info("[SERVER] Redis connected")

	aiClient := ai.NewClient(ai.Config{
		BaseURL: cfg.AIBaseURL,
		APIKey:  cfg.AIKey,
		Model:   cfg.AIModel,
	})

	store, err := media.NewStore(cfg.UploadsDir)
	if err != nil {
		log.Fatalf("[SERVER] uploads dir: %v", err)
	}
	cloudinary := media.NewCloudinary(media.CloudinaryConfig{
		CloudName: cfg.CloudinaryCloud,
		APIKey:    cfg.CloudinaryKey,
		APISecret: cfg.CloudinarySecret,
		Folder:    cfg.CloudinaryFolder,
	})

	postsRepo := repository.NewPostsRepository(db)
	commentsRepo := repository.NewCommentsRepository(db)

	postsService := services.NewPostsService(postsRepo, aiClient, redis)
	commentsService := services.NewCommentsService(commentsRepo, postsRepo, aiClient, aiClient, redis)

	posts := handlers.NewPosts(postsService)
	comments := handlers.NewComments(commentsService)
	aiHandler := handlers.NewAI(aiClient)
	uploads := handlers.NewUploads(store, cloudinary)

	app := server.NewApp("unafeed")
	app.Use(middleware.DeviceIdentity(cfg.CookieSecret))
	app.Static("/public/uploads", cfg.UploadsDir)

	writeLimit := limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	})
	// AI calls are slow and billed per request, so the budget is tighter.
	aiLimit := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	})

	postsGroup := app.Group("/posts")
	postsGroup.Get("/", posts.Feed)
	postsGroup.Post("/", writeLimit, posts.Create)
	postsGroup.Get("/:id", posts.Get)
	postsGroup.Patch("/:id", writeLimit, posts.Update)
	postsGroup.Delete("/:id", posts.Delete)
	postsGroup.Post("/:id/reactions", writeLimit, posts.ToggleReaction)
	postsGroup.Post("/:id/rsvp", writeLimit, posts.SetRSVP)
	postsGroup.Get("/:id/comments", comments.List)
	postsGroup.Post("/:id/comments", writeLimit, comments.Create)
	postsGroup.Post("/:id/comments/:commentId/reactions", writeLimit, comments.ToggleReaction)
	postsGroup.Delete("/:id/comments/:commentId", comments.Delete)

	app.Post("/classify", aiLimit, aiHandler.Classify)
	app.Post("/ai/meme", aiLimit, aiHandler.MemePreview)

	app.Post("/uploads/image", writeLimit, uploads.Image)
	app.Post("/uploads/pdf", writeLimit, uploads.PDF)
	app.Post("/cloudinary/signature", uploads.CloudinarySignature)
	app.Post("/cloudinary/upload", writeLimit, uploads.CloudinaryUpload)

	addr := "0.0.0.0:" + cfg.Port
	log.Infof("[SERVER] starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("[SERVER] failed to start: %v", err)
	}
}
