package main

import (
	"fmt"
	"log"
	"net/http"

	"studyquiz/config"
	"studyquiz/db"
	"studyquiz/handlers"
	"studyquiz/middleware"
	"studyquiz/services"
	"studyquiz/services/docindex"
	"studyquiz/services/llm"

	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DB_URL environment variable is required")
	}

	userRepo, err := db.NewPostgresUserRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize user database: %v", err)
	}
	defer userRepo.Close()

	courseRepo, err := db.NewPostgresCourseRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize course database: %v", err)
	}
	defer courseRepo.Close()

	materialRepo, err := db.NewPostgresMaterialRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize material database: %v", err)
	}
	defer materialRepo.Close()

	quizRepo, err := db.NewPostgresQuizRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize quiz database: %v", err)
	}
	defer quizRepo.Close()

	analyticsRepo, err := db.NewPostgresAnalyticsRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize analytics database: %v", err)
	}
	defer analyticsRepo.Close()

	// The document index is optional; without Pinecone credentials, topic
	// focus falls back to prompting over the full materials.
	var docindexService *docindex.Service
	if cfg.PineconeAPIKey != "" && cfg.OpenAIAPIKey != "" {
		docindexService, err = docindex.NewService(cfg.PineconeAPIKey, cfg.OpenAIAPIKey, cfg.PineconeIndexName)
		if err != nil {
			log.Fatalf("Failed to initialize document index service: %v", err)
		}
	} else {
		log.Println("Pinecone or OpenAI credentials missing, document indexing disabled")
	}

	llmService, err := llm.NewService(cfg.LLMProvider, cfg.AnthropicAPIKey, cfg.OpenAIAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize LLM service: %v", err)
	}

	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	authHandler := handlers.NewAuthHandler(authService)

	courseService := services.NewCourseService(courseRepo)
	courseHandler := handlers.NewCourseHandler(courseService)

	materialService := services.NewMaterialService(materialRepo, docindexService)
	materialHandler := handlers.NewMaterialHandler(materialService, courseService)

	analyticsService := services.NewAnalyticsService(analyticsRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, courseService)

	quizService := services.NewQuizService(quizRepo, materialService, analyticsService, llmService, docindexService)
	quizHandler := handlers.NewQuizHandler(quizService, courseService)

	router := mux.NewRouter()

	router.Use(corsMiddleware)

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	authHandler.RegisterRoutes(router)
	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	protected := router.NewRoute().Subrouter()
	protected.Use(middleware.Auth(authService))

	courseHandler.RegisterRoutes(protected)
	materialHandler.RegisterRoutes(protected)
	quizHandler.RegisterRoutes(protected)
	analyticsHandler.RegisterRoutes(protected)

	addr := ":" + cfg.Port
	fmt.Printf("Server starting on port %s\n", cfg.Port)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}
