package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/KyleAdjei/Operating-Sytem/memoria/models"
	"github.com/KyleAdjei/Operating-Sytem/utils/web/server"
)

// FrameSource es lo que necesita el endpoint para describir la memoria física.
type FrameSource interface {
	Frames() []models.FrameInfo
}

type FramesResponse struct {
	Total  int                `json:"total"`
	Libres int                `json:"libres"`
	Marcos []models.FrameInfo `json:"marcos"`
}

// GetFramesHandler devuelve el estado de cada marco. Con ?owner=<pid> filtra
// los marcos de ese proceso.
func GetFramesHandler(source FrameSource) func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		owner := models.NoOwner
		if ownerStr := request.URL.Query().Get("owner"); ownerStr != "" {
			parsed, err := strconv.Atoi(ownerStr)
			if err != nil {
				http.Error(writer, fmt.Sprintf("owner inválido: %q", ownerStr), http.StatusBadRequest)
				return
			}
			owner = parsed
		}

		frames := source.Frames()
		response := FramesResponse{Total: len(frames), Marcos: make([]models.FrameInfo, 0, len(frames))}
		for _, frame := range frames {
			if frame.Free {
				response.Libres++
			}
			if owner == models.NoOwner || frame.Owner == owner {
				response.Marcos = append(response.Marcos, frame)
			}
		}

		slog.Debug(fmt.Sprintf("Se envían %d marcos", len(response.Marcos)))
		server.SendJsonResponse(writer, response)
	}
}
