package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/MmmDelicious/lovememory-gameserver/internal/economy"
	"github.com/MmmDelicious/lovememory-gameserver/internal/events"
	"github.com/MmmDelicious/lovememory-gameserver/internal/room"
	"github.com/MmmDelicious/lovememory-gameserver/logger"
)

type config struct {
	port         string
	jwtSecret    string
	redisAddr    string
	natsURL      string
	turnTimeout  time.Duration
	startBalance int
}

func loadConfig() config {
	cfg := config{
		port:         envOr("PORT", "3000"),
		jwtSecret:    os.Getenv("JWT_SECRET"),
		redisAddr:    os.Getenv("REDIS_ADDR"),
		natsURL:      os.Getenv("NATS_URL"),
		turnTimeout:  30 * time.Second,
		startBalance: 5000,
	}
	if v := os.Getenv("TURN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.turnTimeout = d
		}
	}
	if v := os.Getenv("START_BALANCE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.startBalance = n
		}
	}
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	cfg := loadConfig()
	defer logger.Sync()

	var wallet economy.Wallet
	if cfg.redisAddr != "" {
		wallet = economy.NewRedisWallet(cfg.redisAddr, cfg.startBalance)
		logger.Info("wallet: redis at %s", cfg.redisAddr)
	} else {
		wallet = economy.NewMemoryWallet(cfg.startBalance)
		logger.Info("wallet: in-memory, starting balance %d", cfg.startBalance)
	}

	var pub events.Publisher = events.Nop{}
	if cfg.natsURL != "" {
		np, err := events.ConnectNATS(cfg.natsURL)
		if err != nil {
			logger.Error("nats disabled: %v", err)
		} else {
			pub = np
			logger.Info("events: nats at %s", cfg.natsURL)
		}
	}
	defer pub.Close()

	rm := room.NewRoomManager(wallet, pub, cfg.turnTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rm.StartSweeper(ctx, time.Minute, 10*time.Minute)

	app := fiber.New(fiber.Config{AppName: "lovememory-gameserver"})
	app.Use(cors.New())

	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if cfg.jwtSecret != "" {
		app.Use(jwtware.New(jwtware.Config{
			SigningKey:  jwtware.SigningKey{Key: []byte(cfg.jwtSecret)},
			TokenLookup: "header:Authorization,query:token",
		}))
	} else {
		logger.Error("JWT_SECRET not set, running without authentication")
	}

	app.Post("/rooms", rm.CreateRoomHandler)
	app.Get("/rooms", rm.ListRoomsHandler)
	app.Get("/rooms/:roomId", rm.RoomInfoHandler)
	app.Get("/stats", rm.StatsHandler)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/:roomId", websocket.New(rm.ServeWS))

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		rm.Shutdown()
		app.ShutdownWithTimeout(5 * time.Second)
	}()

	logger.Info("listening on :%s", cfg.port)
	if err := app.Listen(":" + cfg.port); err != nil {
		logger.Error("listen: %v", err)
	}
}
