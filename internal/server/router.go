package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"stockroom/internal/product"
	"stockroom/internal/stock"
)

func NewRouter(products *product.Module, stocks *stock.Module, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", products.Controller.List)
		r.Post("/", products.Controller.Create)
		r.Get("/{sku}", products.Controller.Get)
		r.Put("/{sku}", products.Controller.Update)
		r.Delete("/{sku}", products.Controller.Delete)
		r.Get("/{sku}/movements", stocks.Inventory.Movements)
	})

	r.Route("/inventory", func(r chi.Router) {
		r.Post("/transfer", stocks.Inventory.Transfer)
		r.Get("/alerts", stocks.Inventory.Alerts)
	})

	r.Route("/stores", func(r chi.Router) {
		r.Get("/", stocks.Stores.List)
		r.Get("/{id}/inventory", stocks.Stores.Inventory)
	})

	return otelhttp.NewHandler(r, "stockroom",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
