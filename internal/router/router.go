package router

import (
	"net/http"

	"mini-mercado/internal/handler"
	"mini-mercado/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
//
// Auth policy: every mutating product operation (POST, PUT, PATCH,
// DELETE) requires a valid bearer token; reads and the auth endpoints
// are public.
func New(
	productHandler *handler.ProductHandler,
	authHandler *handler.AuthHandler,
	verifier middleware.TokenVerifier,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(verifier, logger)

	// Root endpoint (the ServeMux "/" pattern catches everything, so
	// unknown paths 404 here)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message": "Welcome to the Mini-Mercado API"}`))
	})

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	// Collection routes: GET list is public, POST create needs a token
	collectionHandler := func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			productHandler.GetAll(w, r)
		case http.MethodPost:
			requireAuth(productHandler.Create)(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}

	// Item routes: GET is public, mutations need a token
	itemHandler := func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			productHandler.GetByID(w, r)
		case http.MethodPut:
			requireAuth(productHandler.Update)(w, r)
		case http.MethodPatch:
			requireAuth(productHandler.Patch)(w, r)
		case http.MethodDelete:
			requireAuth(productHandler.Delete)(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}

	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Check if this is a request for a specific product ID
		if r.URL.Path != "/products" && r.URL.Path != "/products/" {
			itemHandler(w, r)
			return
		}
		collectionHandler(w, r)
	}

	// Register product routes (both with and without trailing slash)
	mux.HandleFunc("/products", productRouteHandler)
	mux.HandleFunc("/products/", productRouteHandler)

	// Registration and login
	mux.HandleFunc("/users", authHandler.Register)
	mux.HandleFunc("/users/", authHandler.Register)
	mux.HandleFunc("/token", authHandler.Token)

	// Apply middleware in order: Recovery -> Logging -> CORS
	var h http.Handler = mux
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
