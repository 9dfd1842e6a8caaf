package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kavehram/rms-auth/internal/auth"
	"github.com/kavehram/rms-auth/internal/config"
	"github.com/kavehram/rms-auth/internal/database"
	"github.com/kavehram/rms-auth/internal/handler"
	"github.com/kavehram/rms-auth/internal/repository"
	"github.com/kavehram/rms-auth/internal/router"
	"github.com/kavehram/rms-auth/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	// Optional: caching degrades to pass-through when Redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, user list caching disabled")
	}

	codec := auth.NewCodec(cfg.JWTSecret, cfg.JWTRefreshSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour)

	users := repository.NewUserRepo(db, cfg.EmployeeIDPrefix, cfg.EmployeeIDFloor)
	tokens := repository.NewTokenRepo(db)

	sessions := service.NewSession(users, tokens, codec)
	admin := service.NewUserAdmin(users, tokens)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e,
		handler.NewAuthHandler(sessions, users, rdb),
		handler.NewUserHandler(admin, rdb),
		codec, tokens, users, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
