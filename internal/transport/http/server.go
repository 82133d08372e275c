package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "studybuddy/internal/app"
	"studybuddy/internal/bootstrap"
	"studybuddy/internal/cache"
	rabbitmqClient "studybuddy/internal/platform/rabbitmq"
	"studybuddy/internal/repository"
	"studybuddy/internal/transport/http/handler"
	"studybuddy/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.BodyLimit(app.Config.MaxBodyBytes()))

	roomRepo := repository.NewRoomRepository(app.DB)
	docRepo := repository.NewDocumentRepository(app.DB)
	exchangeRepo := repository.NewExchangeRepository(app.DB)

	var publisher appsvc.AsyncExchangePublisher
	if app.MQConn != nil {
		publisher = rabbitmqClient.NewExchangePublisher(app.MQConn, app.Config.RabbitMQ.ExchangePersistQueue)
	}
	var historyCache appsvc.HistoryCache
	if app.Redis != nil {
		historyCache = cache.NewHistoryCache(
			app.Redis,
			time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
			time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
		)
	}

	roomService := appsvc.NewRoomService(roomRepo)
	documentService := appsvc.NewDocumentService(docRepo)
	studyService := appsvc.NewStudyService(docRepo, exchangeRepo, app.Gateway, publisher, historyCache)

	roomHandler := handler.NewRoomHandler(roomService)
	documentHandler := handler.NewDocumentHandler(documentService)
	studyHandler := handler.NewStudyHandler(studyService)
	healthHandler := handler.NewHealthHandler(app)

	router.GET("/healthz", healthHandler.Check)

	router.POST("/room", roomHandler.CreateOrGet)
	router.POST("/upload_pdf", documentHandler.UploadPDF)
	router.GET("/documents", documentHandler.List)

	router.POST("/ask_pdf", studyHandler.AskPDF)
	router.POST("/ask_text", studyHandler.AskText)
	router.POST("/ask_image", studyHandler.AskImage)
	router.POST("/ask_voice", studyHandler.AskVoice)
	router.POST("/flashcards", studyHandler.Flashcards)
	router.POST("/summarize", studyHandler.Summarize)
	router.POST("/quiz", studyHandler.Quiz)
	router.GET("/history", studyHandler.History)

	return router
}
