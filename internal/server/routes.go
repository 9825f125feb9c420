package server

import (
	"net/http"

	"github.com/charmbracelet/log"
)

// NewAppRouter wires the relay's routes and middleware onto a [BasicRouter].
func NewAppRouter(recommendations *RecommendationHandler, static *StaticHandler, logger *log.Logger) *BasicRouter {
	router := NewBasicRouter()
	router.Use(RequestID(), Logging(logger), Recover(logger))

	for _, route := range recommendations.Routes() {
		router.Handle(http.MethodPost, route, recommendations)
	}
	router.Handler(static)

	return router
}
