package routes

import (
	"github.com/gorilla/mux"

	"github.com/brickfolio/marketplace-backend/controllers"
	"github.com/brickfolio/marketplace-backend/middleware"
	"github.com/brickfolio/marketplace-backend/storage"
)

// Deps carries everything the route table wires together.
type Deps struct {
	Store       storage.Store
	Auth        controllers.AuthDeps
	Cache       *controllers.PropertyCache
	RateLimiter *middleware.RateLimiter
}

func Routes(router *mux.Router, deps Deps) {
	// Auth routes, rate limited per client IP
	authLimited := router.NewRoute().Subrouter()
	authLimited.Use(deps.RateLimiter.Handler)
	authLimited.HandleFunc("/register", controllers.RegisterUser(deps.Auth)).Methods("POST")
	authLimited.HandleFunc("/login", controllers.LoginUser(deps.Auth)).Methods("POST")
	authLimited.HandleFunc("/otp/request", controllers.RequestOTP(deps.Auth)).Methods("POST")
	authLimited.HandleFunc("/otp/verify", controllers.VerifyOTP(deps.Auth)).Methods("POST")

	// Public listing reads
	router.HandleFunc("/api/properties", controllers.GetAllProperties(deps.Store, deps.Cache)).Methods("GET")
	router.HandleFunc("/api/properties/{id}", controllers.GetPropertyByID(deps.Store)).Methods("GET")

	// Public lead intake (contact form)
	router.HandleFunc("/api/leads", controllers.CreateLead(deps.Store)).Methods("POST")

	// Routes that require authentication
	authenticated := router.PathPrefix("/api").Subrouter()
	authenticated.Use(middleware.AuthMiddleware(deps.Auth.JWTKey, deps.Auth.Sessions))

	authenticated.HandleFunc("/auth/logout", controllers.LogoutUser(deps.Auth)).Methods("POST")

	// Property routes
	authenticated.HandleFunc("/properties", controllers.CreateProperty(deps.Store, deps.Cache)).Methods("POST")
	authenticated.HandleFunc("/properties/{id}", controllers.UpdateProperty(deps.Store, deps.Cache)).Methods("PATCH")
	authenticated.HandleFunc("/properties/{id}/status", controllers.UpdatePropertyStatus(deps.Store, deps.Cache)).Methods("PATCH")
	authenticated.HandleFunc("/properties/{id}", controllers.DeleteProperty(deps.Store, deps.Cache)).Methods("DELETE")

	// Wallet routes
	authenticated.HandleFunc("/wallet", controllers.GetWallet(deps.Store)).Methods("GET")
	authenticated.HandleFunc("/wallet/add-credits", controllers.AddCredits(deps.Store)).Methods("POST")
	authenticated.HandleFunc("/wallet/transactions", controllers.GetTransactions(deps.Store)).Methods("GET")

	// Lead routes
	authenticated.HandleFunc("/leads", controllers.GetLeads(deps.Store)).Methods("GET")
	authenticated.HandleFunc("/leads/{id}/unlock", controllers.UnlockLead(deps.Store)).Methods("POST")
	authenticated.HandleFunc("/leads/{id}", controllers.UpdateLead(deps.Store)).Methods("PATCH")
}
