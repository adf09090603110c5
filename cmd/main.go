package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ngfenglong/JiakAIBot/bot"
	"github.com/ngfenglong/JiakAIBot/config"
	"github.com/ngfenglong/JiakAIBot/routes"
	"github.com/ngfenglong/JiakAIBot/services"
	"github.com/ngfenglong/JiakAIBot/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()
	utils.InitSES()

	analyzer := buildAnalyzer()
	nutrition := services.NewNutritionixService()
	pendingStore := services.NewMemoryPendingStore(30 * time.Minute)
	portions := services.NewPortionEngine(nutrition)
	meals := services.NewMealService()
	access := services.NewAccessService()
	flow := services.NewMealFlowService(analyzer, nutrition, pendingStore, portions, meals)

	hub := services.NewRealtimeHub()
	services.InitEventDeps(hub)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		tg, err := bot.New(token, flow, meals, access)
		if err != nil {
			log.Fatalf("telegram bot init failed: %v", err)
		}
		go tg.Run(ctx)
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, running REST API only")
	}

	r := routes.SetupRouter(flow, meals, access, hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func buildAnalyzer() services.AnalysisGateway {
	openai := services.NewOpenAIService()
	rek, err := services.NewRekognitionService()
	if err != nil {
		log.Printf("rekognition unavailable, photo analysis has no fallback: %v", err)
		rek = nil
	}
	return services.NewAnalysisService(openai, rek)
}
