package server

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/buskinglive/backend/internal/chat"
	"github.com/buskinglive/backend/internal/database"
	"github.com/buskinglive/backend/internal/handlers"
	"github.com/buskinglive/backend/internal/provision"
	"github.com/buskinglive/backend/internal/services"
	"github.com/buskinglive/backend/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Chat       *chat.Service

	janitorCancel context.CancelFunc
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(
		os.Getenv("JWT_SECRET"),
		24*time.Hour,
	)

	chatSvc := newChatService(dbConn)

	notifier := services.NewNotifier(dbConn)
	paymentSvc := services.NewPaymentService(dbConn)
	adSvc := services.NewAdService(dbConn)

	authH := handlers.NewAuthHandler(dbConn, jwtMgr, rdb)
	userH := handlers.NewUserHandler(dbConn)
	eventH := handlers.NewEventHandler(dbConn, notifier)
	venueH := handlers.NewVenueHandler(dbConn)
	paymentH := handlers.NewPaymentHandler(dbConn, paymentSvc)
	adH := handlers.NewAdHandler(dbConn, adSvc)
	socialH := handlers.NewSocialHandler(dbConn, notifier)
	roomH := handlers.NewChatRoomHandler(chatSvc, dbConn, rdb)
	messageH := handlers.NewChatMessageHandler(chatSvc)
	wsH := handlers.NewWebSocketHandler(chatSvc)

	janitorCtx, janitorCancel := context.WithCancel(context.Background())
	go chatSvc.Rooms.RunJanitor(janitorCtx, time.Minute)

	router := gin.Default()
	APIEndpoints(router, jwtMgr, rdb, authH, userH, eventH, venueH, paymentH, adH, socialH, roomH, messageH, wsH)

	return &Server{
		Router:        router,
		DB:            dbConn,
		Redis:         rdb,
		JWTManager:    jwtMgr,
		Chat:          chatSvc,
		janitorCancel: janitorCancel,
	}
}

// newChatService выбирает рантайм комнат: ECS Fargate при наличии
// настроек кластера, иначе локальный для разработки
func newChatService(dbConn *database.Database) *chat.Service {
	var prov chat.Provisioner

	ecsCfg := provision.ECSConfigFromEnv()
	if ecsCfg.Cluster != "" {
		runner, err := provision.NewECSRunner(context.Background(), ecsCfg)
		if err != nil {
			log.Fatalf("ECS runner init failed: %v", err)
		}
		prov = runner
		log.Printf("Chat runtime: ECS cluster %s", ecsCfg.Cluster)
	} else {
		baseURL := os.Getenv("PUBLIC_WS_URL")
		if baseURL == "" {
			baseURL = "ws://localhost:8080"
		}
		prov = provision.NewLocal(baseURL)
		log.Println("Chat runtime: local (no ECS cluster configured)")
	}

	billing := services.NewRoomUsageBilling(dbConn)
	return chat.NewService(dbConn, dbConn, dbConn, prov, billing, chat.DefaultManagerConfig())
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := s.Router.Run(":" + port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}

func (s *Server) Shutdown() {
	if s.janitorCancel != nil {
		s.janitorCancel()
	}
	s.Redis.Close()
}
