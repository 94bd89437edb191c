package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"grounded-chat/internal/handlers"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(router *mux.Router, chat *handlers.ChatHandler) {
	router.HandleFunc("/health", chat.Health).Methods(http.MethodGet)

	router.HandleFunc("/generate_ans", chat.GenerateAnswer).Methods(http.MethodPost)
	router.HandleFunc("/build_context", chat.BuildContext).Methods(http.MethodPost)
	router.HandleFunc("/stream", chat.Stream).Methods(http.MethodPost)
	router.HandleFunc("/evaluate_response", chat.EvaluateResponse).Methods(http.MethodPost)
}
