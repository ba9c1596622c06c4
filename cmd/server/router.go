package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/buskinglive/backend/internal/handlers"
	"github.com/buskinglive/backend/internal/middleware"
	"github.com/buskinglive/backend/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	authH *handlers.AuthHandler,
	userH *handlers.UserHandler,
	eventH *handlers.EventHandler,
	venueH *handlers.VenueHandler,
	paymentH *handlers.PaymentHandler,
	adH *handlers.AdHandler,
	socialH *handlers.SocialHandler,
	roomH *handlers.ChatRoomHandler,
	messageH *handlers.ChatMessageHandler,
	wsH *handlers.WebSocketHandler,
) {
	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", authH.Logout)
	}

	// Callback платежного шлюза приходит без пользовательского токена
	r.POST("/payments/confirm", paymentH.ConfirmPayment)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtMgr, rdb))
	{
		// Users
		api.GET("/users/me", userH.GetMe)
		api.PATCH("/users/me", userH.UpdateMe)
		api.GET("/users/search", userH.SearchUsers)
		api.GET("/users/:id", userH.GetUser)
		api.POST("/users/:id/follow", socialH.Follow)
		api.DELETE("/users/:id/follow", socialH.Unfollow)
		api.GET("/users/me/following", socialH.GetFollowing)
		api.GET("/users/me/followers", socialH.GetFollowers)

		// Events
		api.POST("/events", eventH.CreateEvent)
		api.GET("/events", eventH.ListEvents)
		api.GET("/events/mine", eventH.GetMyEvents)
		api.GET("/events/:id", eventH.GetEvent)
		api.PATCH("/events/:id", eventH.UpdateEvent)
		api.POST("/events/:id/start", eventH.StartEvent)
		api.POST("/events/:id/end", eventH.EndEvent)
		api.POST("/events/:id/cancel", eventH.CancelEvent)
		api.POST("/events/:id/chat", eventH.EnableChat)
		api.GET("/events/:id/chat-room", roomH.GetRoomByEvent)
		api.POST("/events/:id/favorite", socialH.FavoriteEvent)
		api.DELETE("/events/:id/favorite", socialH.UnfavoriteEvent)
		api.GET("/favorites", socialH.GetMyFavorites)

		// Venues and bookings
		api.POST("/venues", venueH.CreateVenue)
		api.GET("/venues", venueH.ListVenues)
		api.GET("/venues/:id", venueH.GetVenue)
		api.PATCH("/venues/:id", venueH.UpdateVenue)
		api.POST("/bookings", venueH.CreateBooking)
		api.GET("/bookings/mine", venueH.GetMyBookings)
		api.POST("/bookings/:id/confirm", venueH.ConfirmBooking)
		api.POST("/bookings/:id/cancel", venueH.CancelBooking)

		// Payments
		api.POST("/payments", paymentH.CreatePayment)
		api.GET("/payments/mine", paymentH.GetMyPayments)
		api.POST("/payments/:id/cancel", paymentH.CancelPayment)

		// Ads
		api.POST("/ads", adH.CreateAd)
		api.GET("/ads/mine", adH.GetMyAds)
		api.GET("/ads/serve", adH.ServeAd)
		api.POST("/ads/:id/pause", adH.PauseAd)
		api.POST("/ads/:id/resume", adH.ResumeAd)
		api.POST("/ads/:id/click", adH.ClickAd)

		// Notifications
		api.GET("/notifications", socialH.GetNotifications)
		api.POST("/notifications/:id/read", socialH.MarkNotificationRead)

		// Chat rooms
		api.POST("/chat/rooms", roomH.CreateRoom)
		api.GET("/chat/rooms/:id", roomH.GetRoom)
		api.POST("/chat/rooms/:id/join", roomH.JoinRoom)
		api.POST("/chat/rooms/:id/leave", roomH.LeaveRoom)
		api.POST("/chat/rooms/:id/close", roomH.CloseRoom)
		api.GET("/chat/rooms/:id/cost", roomH.GetRoomCost)
		api.GET("/chat/rooms/:id/endpoint", roomH.GetRoomEndpoint)
		api.GET("/chat/rooms/:id/runtime", roomH.GetRuntimeStatus)
		api.GET("/chat/rooms/:id/messages", messageH.GetMessages)
		api.POST("/chat/rooms/:id/messages", messageH.SendMessage)
		api.DELETE("/chat/rooms/:id/messages/:messageId", messageH.DeleteMessage)
	}

	// WebSocket поток комнаты; токен принимается и в query
	ws := r.Group("/ws")
	ws.Use(middleware.WSAuthMiddleware(jwtMgr, rdb))
	{
		ws.GET("/rooms/:id", wsH.HandleRoomSocket)
	}
}
