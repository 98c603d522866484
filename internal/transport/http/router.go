package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/anthonyadade/FakeStack/internal/application/message"
	"github.com/anthonyadade/FakeStack/internal/application/notification"
	"github.com/anthonyadade/FakeStack/internal/application/subscription"
	"github.com/anthonyadade/FakeStack/internal/config"
	"github.com/anthonyadade/FakeStack/internal/transport/http/handler"
	appmiddleware "github.com/anthonyadade/FakeStack/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 10 requests/second, burst of 20. Applied to write endpoints only; reads
	// and the socket handshake stay unthrottled.
	writeRL := appmiddleware.NewRateLimiter(rate.Limit(10), 20)

	notifSvc := notification.NewService(deps.NotificationRepo, deps.Hub)
	subSvc := subscription.NewService(deps.SubscriptionRepo, deps.ThreadRepo, deps.ChatRepo)
	msgSvc := message.NewService(deps.MessageRepo, deps.Hub)

	healthH := handler.NewHealthHandler(deps.Hub)
	notifH := handler.NewNotificationHandler(notifSvc)
	subH := handler.NewSubscriptionHandler(subSvc)
	msgH := handler.NewMessageHandler(msgSvc)

	r.Get("/health", healthH.Ping)
	r.Get("/ws", deps.Hub.ServeWS)

	r.Route("/notification", func(r chi.Router) {
		r.With(writeRL.Limit).Post("/addNotification", notifH.Add)
		r.Get("/getNotification/{notificationId}", notifH.Get)
		r.Get("/getNotisByUser/{username}", notifH.ListByUser)
		r.Patch("/markNotiRead/{notificationId}", notifH.MarkRead)
		r.Patch("/markAllNotisRead/{username}", notifH.MarkAllRead)
	})

	r.Route("/subscription", func(r chi.Router) {
		r.With(writeRL.Limit).Post("/addSubscription", subH.Add)
		r.Get("/getSubscription/{subscriptionId}", subH.Get)
		r.Delete("/removeSubscription/{subscriptionId}", subH.Remove)
	})

	r.Route("/messaging", func(r chi.Router) {
		r.With(writeRL.Limit).Post("/addMessage", msgH.Add)
		r.Get("/getMessages", msgH.List)
		r.Patch("/updateMessage/{id}", msgH.Update)
	})

	return r
}
