// Package main (in api-subfolder) provides launch of the whole application except worker
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnendingLoop/Imagen/internal/gallery"
	"github.com/UnendingLoop/Imagen/internal/imageproc"
	"github.com/UnendingLoop/Imagen/internal/kafka"
	"github.com/UnendingLoop/Imagen/internal/model"
	"github.com/UnendingLoop/Imagen/internal/mwlogger"
	"github.com/UnendingLoop/Imagen/internal/repository"
	"github.com/UnendingLoop/Imagen/internal/service"
	"github.com/UnendingLoop/Imagen/internal/session"
	"github.com/UnendingLoop/Imagen/internal/storage"
	"github.com/UnendingLoop/Imagen/internal/transport"
	"github.com/spf13/cast"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/ginext"
	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/zlog"
)

const (
	defaultDisplayWidth  = 1080
	defaultDisplayHeight = 1920
	defaultSessionIdle   = 15 * time.Minute
	defaultMigrations    = "./migrations"
)

func main() {
	// инициализировать конфиг/ считать энвы
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Fatalf("Failed to load envs: %s\nExiting app...", err)
	}

	// стартуем логгер
	zlog.InitConsole()
	err := zlog.SetLevel("info")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	// готовим заранее слушатель прерываний - контекст для всего приложения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// подключитсья к базе
	dbConn := repository.ConnectWithRetries(appConfig, 5, 10*time.Second)
	// накатываем миграцию
	migrations := appConfig.GetString("MIGRATIONS_PATH")
	if migrations == "" {
		migrations = defaultMigrations
	}
	repository.MigrateWithRetries(dbConn.Master, migrations, 10, 15*time.Second)

	// подключиться к хранилищу
	strg := storage.NewImgStorage(appConfig, 10*time.Second)
	// создаем экземпляр репо
	repo := repository.NewPostgresMediaRepo(dbConn)

	// ждем пока кафка раздуплится
	broker := appConfig.GetString("KAFKA_BROKER")
	kafka.WaitKafkaReady(broker)
	scanTopic := appConfig.GetString("KAFKA_SCAN_TOPIC")
	shareTopic := appConfig.GetString("KAFKA_SHARE_TOPIC")
	kafka.InitKafkaTopics(ctx, broker, 10*time.Second, scanTopic, shareTopic)
	scanPub := wbfkafka.NewProducer([]string{broker}, scanTopic)
	sharePub := wbfkafka.NewProducer([]string{broker}, shareTopic)

	// бюджет экрана и надпись
	budget := model.Dimensions{
		Width:  intOr(appConfig.GetString("DISPLAY_WIDTH"), defaultDisplayWidth),
		Height: intOr(appConfig.GetString("DISPLAY_HEIGHT"), defaultDisplayHeight),
	}
	text := appConfig.GetString("WATERMARK_TEXT")
	if text == "" {
		text = imageproc.DefaultText
	}

	// создаем экземпляры сервисов
	var editor EditorAPIService = service.NewEditorService(session.NewStore(), gallery.NewSaver(strg), scanPub, sharePub, budget, text)
	var gal GalleryAPIService = service.NewGalleryService(repo, strg)
	// cоздаем экземпляр хендлера HTTP
	handlers := transport.NewImageHandler(editor, gal)
	// сетапим сервер
	mode := appConfig.GetString("GIN_MODE")
	engine := ginext.New(mode)

	engine.GET("/ping", handlers.SimplePinger)
	engine.POST("/sessions", handlers.CreateSession)             // новая сессия редактора
	engine.DELETE("/sessions/:id", handlers.CloseSession)        // закрыть и освободить картинку
	engine.POST("/sessions/:id/image", handlers.LoadImage)       // загрузка + надпись
	engine.GET("/sessions/:id/image", handlers.Render)           // текущая картинка
	engine.POST("/sessions/:id/save", handlers.SaveAndShare)     // сохранить, проиндексировать, поделиться
	engine.GET("/gallery", handlers.GetAllImages)                // список с пагинацией и сортировкой
	engine.GET("/gallery/:id/thumbnail", handlers.LoadThumbnail) // превью
	engine.GET("/gallery/:id", handlers.LoadFile)                // оригинал
	engine.DELETE("/gallery/:id", handlers.Delete)               // удаление

	srv := &http.Server{
		Addr:    ":" + appConfig.GetString("APP_PORT"),
		Handler: mwlogger.NewMWLogger(engine),
	}

	// Server launch
	go func() {
		log.Printf("Server running on http://localhost%s\n", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil {
			switch {
			case errors.Is(err, http.ErrServerClosed):
				log.Println("Server gracefully stopping...")
			default:
				log.Printf("Server stopped: %v", err)
				stop()
			}
		}
	}()

	// фоновая уборка брошенных сессий
	idle := cast.ToDuration(appConfig.GetString("SESSION_IDLE"))
	if idle <= 0 {
		idle = defaultSessionIdle
	}
	go sweepLoop(ctx, editor, idle)

	// ждем отмены контекста для запуска грейсфул закрытия соединений
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Failed to shutdown HTTP-server:", err)
	}

	shutdown(dbConn, scanPub, sharePub)
	log.Println("Exiting API...")
}

func intOr(raw string, def int) int {
	if v := cast.ToInt(raw); v > 0 {
		return v
	}
	return def
}

func sweepLoop(ctx context.Context, svc EditorAPIService, idle time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Session sweep loop crashed:", r)
		}
	}()

	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.SweepIdle(context.Background(), idle)
		}
	}
}

func shutdown(dbConn *dbpg.DB, pubs ...*wbfkafka.Producer) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	// Closing Kafka connections:
	for _, p := range pubs {
		if err := p.Close(); err != nil {
			log.Println("Failed to close Kafka-writer:", err)
		}
	}
	log.Println("Kafka-producer connections closed.")

	// Closing DB connection
	if err := dbConn.Master.Close(); err != nil {
		log.Println("Failed to close DB-conn correctly:", err)
		return
	}
	log.Println("DBconn closed")
}
