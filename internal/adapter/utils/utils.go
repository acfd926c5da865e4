package utils

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func GetNewUUID() string {
	return uuid.New().String()
}

type RouterClient struct {
	Router *chi.Mux
}

func GetChiURLParam(request *http.Request, key string) string {
	return chi.URLParam(request, key)
}

// NewRouter installs middlewares, then registers the prometheus endpoint.
// chi rejects middlewares added after the first route.
func NewRouter(middlewares ...func(http.Handler) http.Handler) RouterClient {
	router := chi.NewRouter()
	router.Use(middlewares...)
	router.Handle("/metrics", promhttp.Handler())
	return RouterClient{Router: router}
}
