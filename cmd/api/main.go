package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quizmed/leadgen/internal/infra/cache"
	"github.com/quizmed/leadgen/internal/infra/database"
	"github.com/quizmed/leadgen/internal/infra/http/handlers"
	"github.com/quizmed/leadgen/internal/infra/http/middleware"
	"github.com/quizmed/leadgen/internal/infra/integration/openrouter"
	"github.com/quizmed/leadgen/internal/infra/integration/resend"
	"github.com/quizmed/leadgen/internal/infra/integration/shortlink"
	"github.com/quizmed/leadgen/internal/infra/integration/twilio"
	"github.com/quizmed/leadgen/internal/infra/mail"
	"github.com/quizmed/leadgen/internal/infra/queue"
	"github.com/quizmed/leadgen/internal/infra/worker"
	"github.com/quizmed/leadgen/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(os.Getenv("RABBITMQ_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositories
	leadRepo := database.NewLeadRepository(db)
	doctorRepo := database.NewDoctorRepository(db)
	commRepo := database.NewCommunicationRepository(db)
	contactRepo := database.NewContactRepository(db)
	quizRepo := database.NewCustomQuizRepository(db)

	// 2. Cache (Redis when configured, in-memory otherwise)
	var kv cache.KV
	var redisKV *cache.RedisKV
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		redisKV, err = cache.NewRedisKV(addr, os.Getenv("REDIS_PASSWORD"), redisDB)
		if err != nil {
			log.Fatal(err)
		}
		defer redisKV.Close()
		kv = redisKV
	} else {
		log.Println("⚠️ REDIS_ADDR not set, dashboard cache runs in-memory")
		kv = cache.NewMemoryKV()
	}
	cacheStore := cache.NewStore(kv)

	// 3. Providers
	smsClient := twilio.NewClient()
	shortlinkClient := shortlink.NewClient()

	var emailService usecase.EmailService
	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		emailService = resend.NewClient(apiKey, os.Getenv("RESEND_FROM"))
	} else if host := os.Getenv("MAIL_HOST"); host != "" {
		port, _ := strconv.Atoi(os.Getenv("MAIL_PORT"))
		if port == 0 {
			port = 587
		}
		emailService = mail.NewSMTPSender(host, port,
			os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"), os.Getenv("MAIL_FROM"))
	} else {
		log.Println("⚠️ no email provider configured, email notifications disabled")
	}

	var summarizer usecase.LeadSummarizer
	if apiKey := os.Getenv("OPENROUTER_API_KEY"); apiKey != "" {
		summarizer = openrouter.NewClient(apiKey, os.Getenv("OPENROUTER_MODEL"))
	}

	// 4. UseCases
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	submitUC := usecase.NewSubmitLeadUseCase(leadRepo, doctorRepo, producer)
	statusUC := usecase.NewUpdateLeadStatusUseCase(leadRepo)
	analyticsUC := usecase.NewAnalyticsUseCase(leadRepo)
	notifyUC := usecase.NewNotifyLeadUseCase(doctorRepo, commRepo, emailService, smsClient, summarizer)

	// 5. Workers (fan-out consumer + stale-lead follow-up)
	notificationWorker := queue.NewWorker(rabbitMQ.Ch, notifyUC)
	go notificationWorker.Start(queue.QueueName)

	var followupEmail worker.EmailSender = worker.NoopEmailSender{}
	if emailService != nil {
		followupEmail = emailService
	}
	followup := worker.NewFollowupWorker(leadRepo, doctorRepo, commRepo, followupEmail)
	go followup.Start(context.Background())

	// 6. Handlers
	leadHandler := handlers.NewLeadHandler(submitUC, statusUC, leadRepo, commRepo)
	webhookHandler := handlers.NewWebhookHandler(submitUC)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsUC, cacheStore)
	doctorHandler := handlers.NewDoctorHandler(doctorRepo, cacheStore)
	contactHandler := handlers.NewContactHandler(contactRepo)
	quizHandler := handlers.NewQuizHandler(quizRepo)
	smsAdminHandler := handlers.NewSMSAdminHandler(doctorRepo, smsClient)
	shortlinkHandler := handlers.NewShortlinkHandler(shortlinkClient)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, redisKV)

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Post("/leads", leadHandler.HandleSubmit)
	r.Get("/leads", leadHandler.HandleList)
	r.Patch("/leads/{leadID}/status", leadHandler.HandleUpdateStatus)
	r.Get("/leads/{leadID}/communications", leadHandler.HandleCommunications)
	r.Post("/webhook/lead", webhookHandler.Handle)

	r.Get("/analytics/{doctorID}", analyticsHandler.Handle)
	r.Get("/doctors/{doctorID}", doctorHandler.HandleGet)
	r.Put("/doctors/{doctorID}", doctorHandler.HandleUpsert)

	r.Get("/contacts", contactHandler.HandleList)
	r.Post("/contacts", contactHandler.HandleCreate)
	r.Delete("/contacts/{contactID}", contactHandler.HandleDelete)

	r.Get("/quizzes/definitions", quizHandler.HandleDefinitions)
	r.Get("/quizzes", quizHandler.HandleList)
	r.Post("/quizzes", quizHandler.HandleCreate)
	r.Get("/quizzes/share/{shareKey}", quizHandler.HandleGetByShareKey)

	r.Post("/sms/test", smsAdminHandler.HandleTest)
	r.Post("/shorten", shortlinkHandler.Handle)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🔥 Lead API listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
