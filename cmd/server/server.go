package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/Ak1ra777/LeadFlow-demo/config"
	"github.com/Ak1ra777/LeadFlow-demo/db"
	"github.com/Ak1ra777/LeadFlow-demo/handlers"
	"github.com/Ak1ra777/LeadFlow-demo/services"
	"github.com/Ak1ra777/LeadFlow-demo/services/agent"
	"github.com/Ak1ra777/LeadFlow-demo/services/policy"

	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DB_URL environment variable is required")
	}

	if cfg.AnthropicAPIKey == "" {
		log.Fatal("ANTHROPIC_API_KEY environment variable is required")
	}

	if cfg.PineconeAPIKey == "" {
		log.Fatal("PINECONE_API_KEY environment variable is required")
	}

	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	if cfg.VapiPublicKey == "" || cfg.VapiAssistantID == "" {
		log.Fatal("VAPI_PUBLIC_KEY and VAPI_ASSISTANT_ID environment variables are required")
	}

	leadRepo, err := db.NewPostgresLeadRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize lead database: %v", err)
	}
	defer leadRepo.Close()

	policyService, err := policy.NewService(cfg.PineconeAPIKey, cfg.OpenAIAPIKey, cfg.PineconeIndexName)
	if err != nil {
		log.Fatalf("Failed to initialize policy retrieval service: %v", err)
	}

	leadService := services.NewLeadService(leadRepo)
	agentService := agent.NewService(cfg.AnthropicAPIKey, cfg.CompanyName, cfg.CompanyCity, policyService, leadService)

	chatHandler := handlers.NewChatHandler(agentService, cfg.CompanyName)
	leadHandler := handlers.NewLeadHandler(leadService)

	router := mux.NewRouter()

	router.Use(corsMiddleware)

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	chatHandler.RegisterRoutes(router)
	leadHandler.RegisterRoutes(router)

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.HandleFunc("/vapi-config", vapiConfigHandler(cfg)).Methods("GET")

	addr := ":" + cfg.Port
	fmt.Printf("Server starting on port %s\n", cfg.Port)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
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
	w.Write([]byte(`{"ok": true}`))
}

func vapiConfigHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"publicKey":   cfg.VapiPublicKey,
			"assistantId": cfg.VapiAssistantID,
		})
	}
}
