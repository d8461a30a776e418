package main

import (
	"context"
	"log"

	"github.com/jonboulle/clockwork"

	"go-safetyboard/analysis"
	"go-safetyboard/config"
	"go-safetyboard/cronjobs"
	"go-safetyboard/dashboard"
	"go-safetyboard/db"
	"go-safetyboard/handlers"
	"go-safetyboard/observability"
	"go-safetyboard/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	ctx := context.Background()

	// Init firestore
	firestoreClient, err := db.InitFirestore(ctx, cfg.FirebaseCredentials)
	if err != nil {
		log.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer db.CloseFirestore()

	metrics := observability.NewMetrics()
	store := db.NewIncidentStore(firestoreClient, cfg.Collection)
	board := dashboard.NewBoard(store, clockwork.NewRealClock(), metrics)
	sessions := dashboard.NewSessions(clockwork.NewRealClock(), cfg.SessionTTL, metrics)

	// Views report loading until the first fetch completes.
	go func() {
		if _, err := board.Load(ctx, dashboard.TriggerStartup); err != nil {
			log.Printf("Dashboard starts with no incidents: %v", err)
		}
	}()

	var analyzer *analysis.Analyzer
	if cfg.AIEnabled() {
		log.Println("OPENAI_API_KEY loaded")
		analyzer = analysis.NewAnalyzer(analysis.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL), cfg.OpenAIModel, clockwork.NewRealClock(), metrics)
	} else {
		log.Println("OPENAI_API_KEY not set, AI analysis disabled")
	}

	scheduler, err := cronjobs.InitCronJobs(board, sessions, cfg.ReloadSchedule)
	if err != nil {
		log.Fatalf("Failed to start cron jobs: %v", err)
	}
	defer scheduler.Stop()

	r := routes.SetupRouter(board, sessions, analyzer, handlers.Branding{Title: cfg.Title, Subtitle: cfg.Subtitle})
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
