package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/spendlog/internal/http/expense"
	"github.com/MrJamesThe3rd/spendlog/internal/http/export"
	"github.com/MrJamesThe3rd/spendlog/internal/http/respond"
)

type Options struct {
	AllowedOrigins []string
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func New(
	opts Options,
	expensesV1 *expense.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", TraceHeader},
		ExposedHeaders: []string{TraceHeader},
		MaxAge:         300,
	}))
	router.Use(middleware.RequestID)
	router.Use(Trace)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(Metrics)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusOK, healthResponse{Status: "ok", Timestamp: time.Now().UTC()})
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/expenses", func(r chi.Router) {
		r.Route("/export", exportV1.Routes)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			expensesV1.Routes(r)
		})
	})

	return router
}
