// Package routes wires controllers onto the chi router.
package routes

import (
	"net/http"

	"github.com/danuartha/kopistore/app/controllers"
	"github.com/danuartha/kopistore/app/services"
	"github.com/danuartha/kopistore/pkg/metrics"
	"github.com/danuartha/kopistore/pkg/middleware"
	"github.com/danuartha/kopistore/pkg/reqid"
	"github.com/danuartha/kopistore/pkg/response"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// New builds the full API router with the standard middleware chain.
func New(db *gorm.DB) http.Handler {
	catalog := services.NewCatalogService(db)
	inventory := services.NewInventoryService(db)
	carts := services.NewCartService(db)
	orders := services.NewOrderService(db)
	users := services.NewUserService(db)

	authCtl := controllers.NewAuthController(users)
	productCtl := controllers.NewProductController(catalog)
	stockCtl := controllers.NewStockController(inventory)
	cartCtl := controllers.NewCartController(carts)
	trxCtl := controllers.NewTransactionController(orders)

	r := chi.NewRouter()
	r.Use(reqid.Middleware())
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.SuccessMessage(w, "ok")
	})
	r.Get("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", authCtl.Register)
		r.Post("/auth/login", authCtl.Login)

		r.Get("/products", productCtl.List)
		r.Get("/products/categories", productCtl.Categories)
		r.Get("/products/{id}", productCtl.Get)

		// Authenticated.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/auth/profile", authCtl.Profile)
			r.Put("/auth/profile", authCtl.UpdateProfile)

			r.Get("/cart", cartCtl.View)
			r.Delete("/cart", cartCtl.Clear)
			r.Post("/cart/items", cartCtl.AddItem)
			r.Put("/cart/items/{id}", cartCtl.UpdateItem)
			r.Delete("/cart/items/{id}", cartCtl.RemoveItem)

			r.Post("/transactions/checkout", trxCtl.Checkout)
			r.Get("/transactions", trxCtl.ListMine)
			r.Get("/transactions/{id}", trxCtl.Get)
		})

		// Admin.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth, middleware.RequireAdmin)

			r.Get("/users", authCtl.ListUsers)

			r.Post("/products", productCtl.Create)
			r.Put("/products/{id}", productCtl.Update)
			r.Delete("/products/{id}", productCtl.Delete)

			r.Get("/stocks", stockCtl.List)
			r.Get("/stocks/low", stockCtl.Low)
			r.Get("/stocks/{id}", stockCtl.Get)
			r.Post("/stocks", stockCtl.Create)
			r.Post("/stocks/restock", stockCtl.Restock)
			r.Put("/stocks/{id}", stockCtl.Update)
			r.Delete("/stocks/{id}", stockCtl.Delete)

			r.Get("/admin/transactions", trxCtl.ListAll)
			r.Put("/transactions/{id}/status", trxCtl.UpdateStatus)
			r.Delete("/transactions/{id}", trxCtl.Delete)
		})
	})

	return r
}
