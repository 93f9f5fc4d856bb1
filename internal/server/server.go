package server

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"canvas-backend/internal/ai"
	"canvas-backend/internal/auth"
	"canvas-backend/internal/cache"
	"canvas-backend/internal/config"
	"canvas-backend/internal/handler"
	"canvas-backend/internal/metrics"
	"canvas-backend/internal/middleware"
	"canvas-backend/internal/persistence"
	"canvas-backend/internal/session"
)

// Server Fiber 서버 래퍼
type Server struct {
	app             *fiber.App
	cfg             *config.Config
	db              *gorm.DB
	redis           *cache.RedisClient
	sessions        *session.Manager
	authHandler     *handler.AuthHandler
	userHandler     *handler.UserHandler
	boardHandler    *handler.BoardHandler
	contentHandler  *handler.ContentHandler
	imageHandler    *handler.ImageHandler
	canvasWSHandler *handler.CanvasWSHandler
	healthHandler   *handler.HealthHandler
	boardMW         *middleware.BoardMiddleware
	jwtManager      *auth.JWTManager
}

// New 새 서버 인스턴스 생성
func New(cfg *config.Config, db *gorm.DB, redis *cache.RedisClient) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "Canvas Studio API",
		ServerHeader:          "Fiber",
		StrictRouting:         true,
		CaseSensitive:         true,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           cfg.Server.IdleTimeout,
		Prefork:               false, // WebSocket과 호환성 문제로 비활성화
		ReadBufferSize:        16384, // 16KB - 큰 헤더 허용
		WriteBufferSize:       16384,
		BodyLimit:             cfg.Server.BodyLimit,
		DisableStartupMessage: false,
	})

	// Auth 초기화
	jwtManager := auth.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenExpiry,
		cfg.Auth.RefreshTokenExpiry,
	)
	authHandler := handler.NewAuthHandler(db, jwtManager, cfg.Auth.GoogleClientID, cfg.Auth.SecureCookie)

	// 보드 세션 (인메모리 엔진 + DB/Redis 영속화)
	store := persistence.NewBoardStore(db, redis)
	sessions := session.NewManager(store)

	// 이미지 생성 클라이언트 (API 키 없으면 비활성)
	imageClient := ai.NewImageClient(cfg.Image.APIKey, cfg.Image.BaseURL, cfg.Image.Model)
	if imageClient.Enabled() {
		log.Println("✅ Image generation API configured")
	} else {
		log.Println("ℹ️ Image generation not configured (IMAGE_API_KEY not set)")
	}

	metrics.Register()

	return &Server{
		app:             app,
		cfg:             cfg,
		db:              db,
		redis:           redis,
		sessions:        sessions,
		authHandler:     authHandler,
		userHandler:     handler.NewUserHandler(db),
		boardHandler:    handler.NewBoardHandler(db, store, sessions),
		contentHandler:  handler.NewContentHandler(db, sessions),
		imageHandler:    handler.NewImageHandler(imageClient, sessions),
		canvasWSHandler: handler.NewCanvasWSHandler(sessions),
		healthHandler:   handler.NewHealthHandler(db, redis, imageClient),
		boardMW:         middleware.NewBoardMiddleware(db),
		jwtManager:      jwtManager,
	}
}

// SetupMiddleware 미들웨어 설정
func (s *Server) SetupMiddleware() {
	// 패닉 복구
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// 로깅
	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Seoul",
	}))

	// CORS
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.CORS.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// HTTP 메트릭 수집
	s.app.Use(metrics.Middleware())
}

// SetupRoutes 라우트 설정
func (s *Server) SetupRoutes() {
	// 헬스체크/메트릭 엔드포인트
	s.app.Get("/health", s.healthHandler.Check)
	s.app.Get("/health/live", s.healthHandler.Liveness)
	s.app.Get("/health/ready", s.healthHandler.Readiness)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Rate Limiter 설정 (인증 엔드포인트용 - Brute Force 방지)
	authLimiter := limiter.New(limiter.Config{
		Max:        10,              // 최대 10회
		Expiration: 1 * time.Minute, // 1분당
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() // IP 기반 제한
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests, please try again later",
			})
		},
	})

	// Auth 라우트 그룹
	authGroup := s.app.Group("/auth")
	authGroup.Post("/google", authLimiter, s.authHandler.GoogleLogin)
	authGroup.Post("/refresh", authLimiter, s.authHandler.RefreshToken)
	authGroup.Post("/logout", auth.AuthMiddleware(s.jwtManager), s.authHandler.Logout) // 인증된 사용자만
	authGroup.Get("/me", auth.AuthMiddleware(s.jwtManager), s.authHandler.GetMe)
	authGroup.Put("/me", auth.AuthMiddleware(s.jwtManager), s.userHandler.UpdateMe)

	// Board 라우트 그룹 (인증 필요)
	boardGroup := s.app.Group("/api/boards", auth.AuthMiddleware(s.jwtManager))
	boardGroup.Post("/", s.boardHandler.CreateBoard)
	boardGroup.Get("/", s.boardHandler.ListBoards)

	// 보드 단건 라우트 (소유자 확인)
	ownBoard := s.boardMW.RequireOwnership()
	boardGroup.Get("/:id", ownBoard, s.boardHandler.GetBoard)
	boardGroup.Delete("/:id", ownBoard, s.boardHandler.DeleteBoard)

	// 캔버스 편집 (커밋 단위 연산)
	boardGroup.Post("/:id/items", ownBoard, s.boardHandler.AddItem)
	boardGroup.Patch("/:id/items/:itemId", ownBoard, s.boardHandler.UpdateItem)
	boardGroup.Delete("/:id/items/:itemId", ownBoard, s.boardHandler.DeleteItem)
	boardGroup.Post("/:id/items/:itemId/front", ownBoard, s.boardHandler.BringToFront)
	boardGroup.Post("/:id/items/:itemId/select", ownBoard, s.boardHandler.SelectItem)
	boardGroup.Post("/:id/deselect", ownBoard, s.boardHandler.Deselect)
	boardGroup.Post("/:id/undo", ownBoard, s.boardHandler.Undo)
	boardGroup.Post("/:id/redo", ownBoard, s.boardHandler.Redo)
	boardGroup.Post("/:id/zoom", ownBoard, s.boardHandler.Zoom)
	boardGroup.Post("/:id/clear", ownBoard, s.boardHandler.Clear)
	boardGroup.Post("/:id/generate-image", ownBoard, s.imageHandler.GenerateImage)

	// Snapshot 라우트 (보드 하위)
	boardGroup.Get("/:id/snapshots", ownBoard, s.boardHandler.ListSnapshots)
	boardGroup.Post("/:id/snapshots", ownBoard, s.boardHandler.SaveSnapshot)
	boardGroup.Post("/:id/snapshots/:snapshotId/load", ownBoard, s.boardHandler.LoadSnapshot)
	boardGroup.Delete("/:id/snapshots/:snapshotId", ownBoard, s.boardHandler.DeleteSnapshot)

	// Content 라우트 그룹 (인증 필요)
	contentGroup := s.app.Group("/api/contents", auth.AuthMiddleware(s.jwtManager))
	contentGroup.Post("/", s.contentHandler.CreateContent)
	contentGroup.Get("/", s.contentHandler.ListContents)
	contentGroup.Get("/:id", s.contentHandler.GetContent)
	contentGroup.Post("/:id/pin", s.contentHandler.PinContent)
	contentGroup.Delete("/:id", s.contentHandler.DeleteContent)

	// WebSocket 업그레이드 체크 미들웨어
	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// WebSocket 캔버스 포인터 스트림 엔드포인트
	s.app.Get("/ws/canvas/:boardId", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// 쿠키에서 JWT 토큰 추출
		accessToken := c.Cookies("access_token")
		if accessToken == "" {
			accessToken = c.Query("token")
		}
		if accessToken == "" {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		// JWT 검증
		claims, err := s.jwtManager.ValidateAccessToken(accessToken)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		boardID, err := c.ParamsInt("boardId")
		if err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}

		// 소유자 확인
		ok, err := auth.CanAccessBoard(s.db, int64(boardID), claims.UserID)
		if err != nil || !ok {
			return c.SendStatus(fiber.StatusForbidden)
		}

		c.Locals("boardId", int64(boardID))
		c.Locals("userId", claims.UserID)

		return c.Next()
	}, websocket.New(s.canvasWSHandler.HandleWebSocket, websocket.Config{
		ReadBufferSize:  s.cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: s.cfg.WebSocket.WriteBufferSize,
	}))
}

// Start 서버 시작 (Graceful Shutdown 지원)
func (s *Server) Start() error {
	// Graceful Shutdown 설정
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("🛑 Shutting down server...")
		if err := s.app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Fatalf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("🚀 Canvas Studio API starting on %s", s.cfg.Server.Port)
	log.Printf("📡 WebSocket endpoint: ws://localhost%s/ws/canvas/:boardId", s.cfg.Server.Port)

	return s.app.Listen(s.cfg.Server.Port)
}

// Shutdown 서버 종료
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(30 * time.Second)
}
