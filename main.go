package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tandem/config"
	_ "tandem/docs"
	"tandem/internal/repository"
	"tandem/internal/service"
	"tandem/internal/storage"
	"tandem/internal/transport/rest"
	"tandem/pkg/database"
	"tandem/pkg/logger"
)

// @title Tandem API
// @version 1.0
// @description Сервис окон доступности для подбора партнеров по встречам

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(cfg.Postgres)
	if err != nil {
		log.Fatal("не удалось подключиться к базе данных", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db, "./migrations", log); err != nil {
		log.Fatal("не удалось применить миграции", zap.Error(err))
	}

	var fileStorage storage.FileStorage
	if cfg.S3.Endpoint != "" {
		s3, err := storage.NewS3Storage(cfg.S3)
		if err != nil {
			log.Fatal("не удалось подключиться к хранилищу файлов", zap.Error(err))
		}
		fileStorage = s3
	} else {
		log.Warn("хранилище файлов не настроено, загрузка фотографий отключена")
	}

	repos := repository.NewRepositories(db)

	services := service.NewServices(service.Deps{
		Repos:       repos,
		Logger:      log,
		Config:      cfg,
		FileStorage: fileStorage,
	})

	handler := rest.NewHandler(services, log, cfg)

	server := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        handler.InitRoutes(),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderMB << 20,
	}

	go func() {
		log.Info("сервер запущен", zap.String("port", cfg.HTTP.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ошибка запуска сервера", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("остановка сервера")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("ошибка остановки сервера", zap.Error(err))
	}

	log.Info("сервер остановлен")
}
