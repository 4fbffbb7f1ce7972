package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authsvc "swaply/internal/services/auth"
	chatsvc "swaply/internal/services/chat"
	feedsvc "swaply/internal/services/feed"
	itemsvc "swaply/internal/services/items"
	matchessvc "swaply/internal/services/matches"
	swipesvc "swaply/internal/services/swipes"
	tradesvc "swaply/internal/services/trade"
	"swaply/internal/transport/http/handlers"
)

type Dependencies struct {
	AuthService    *authsvc.Service
	ItemsService   *itemsvc.Service
	FeedService    *feedsvc.Service
	SwipesService  *swipesvc.Service
	TradeService   *tradesvc.Service
	MatchesService *matchessvc.Service
	ChatService    *chatsvc.Service
	Logger         *zap.Logger
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	itemsHandler := handlers.NewItemsHandler(deps.ItemsService)
	feedHandler := handlers.NewFeedHandler(deps.FeedService)
	sessionHandler := handlers.NewSessionHandler(deps.TradeService)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipesService, deps.TradeService, deps.Logger)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchesService)
	messagesHandler := handlers.NewMessagesHandler(deps.ChatService)
	authMW := AuthMiddleware(deps.AuthService, deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.With(authMW).Post("/logout", authHandler.Logout)
	})

	r.Route("/items", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", itemsHandler.Create)
		r.Get("/mine", itemsHandler.ListMine)
		r.Post("/{itemID}/photos", itemsHandler.UploadPhoto)
	})

	r.With(authMW).Get("/feed", feedHandler.Next)

	r.Route("/sessions", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/", sessionHandler.Start)
		r.Post("/{sessionID}/anchor", sessionHandler.SetAnchor)
		r.Delete("/{sessionID}", sessionHandler.End)
	})

	r.With(authMW).Post("/swipes", swipeHandler.Swipe)
	r.With(authMW).Post("/swipes/undo", swipeHandler.Undo)

	r.Route("/matches", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/", matchesHandler.List)
		r.Delete("/{matchID}", matchesHandler.Unmatch)
		r.Get("/{matchID}/messages", messagesHandler.History)
		r.Post("/{matchID}/messages", messagesHandler.Send)
	})
}
