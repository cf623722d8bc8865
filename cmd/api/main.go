package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medivault/medivault-api/internal/config"
	"github.com/medivault/medivault-api/internal/handlers"
	"github.com/medivault/medivault-api/internal/middleware"
	"github.com/medivault/medivault-api/internal/models"
	"github.com/medivault/medivault-api/internal/services"
	"github.com/medivault/medivault-api/internal/store"
	"github.com/medivault/medivault-api/internal/token"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Database Connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	db := client.Database(cfg.MongoDatabase)
	log.Println("Successfully connected to MongoDB!")

	// --- Stores and Services ---
	identities := store.NewMongoIdentityStore(db)
	if err := identities.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	treatments := store.NewMongoTreatmentStore(db)
	tokens := token.NewService(cfg)
	notifier := services.NewNotificationService(cfg.TextbeltAPIKey)

	h := handlers.NewHandler(cfg, identities, treatments, tokens, notifier)

	// --- Gin Router ---
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// --- Routes ---
	requireAuth := middleware.RequireAuth(identities, tokens)

	users := r.Group("/api/v1/users")
	{
		users.POST("/register-patient", h.Register(models.RolePatient))
		users.POST("/register-doctor", h.Register(models.RoleDoctor))

		users.POST("/login-patient", h.Login(models.RolePatient))
		users.POST("/login-doctor", h.Login(models.RoleDoctor))

		users.POST("/logout-patient", requireAuth, middleware.RequirePatient(), h.Logout(models.RolePatient))
		users.POST("/logout-doctor", requireAuth, middleware.RequireDoctor(), h.Logout(models.RoleDoctor))

		users.GET("/refresh-patient-token", h.Refresh(models.RolePatient))
		users.GET("/refresh-doctor-token", h.Refresh(models.RoleDoctor))
	}

	treatment := r.Group("/api/v1/treatment")
	treatment.Use(requireAuth, middleware.RequireDoctor())
	{
		treatment.POST("/create-treatment", h.CreateTreatment)
		treatment.GET("/get-patient-details", h.GetPatientDetails)
		treatment.POST("/add-report", h.AddReport)
		treatment.GET("/get-treatment-details/:treatmentId", h.GetTreatmentDetails)
	}

	r.POST("/api/v1/chat/send", h.HandleChat)

	log.Printf("Starting server on port %s", cfg.Port)
	r.Run(":" + cfg.Port)
}
