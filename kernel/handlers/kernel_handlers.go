package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/KyleAdjei/Operating-Sytem/kernel/models"
	"github.com/KyleAdjei/Operating-Sytem/utils/web/server"
)

// ProcessSource es lo que necesita el endpoint para listar procesos.
type ProcessSource interface {
	Processes() ([]models.ProcessInfo, error)
}

// GetProcessesHandler lista los procesos vivos. Con ?estado=<ESTADO> filtra por estado.
func GetProcessesHandler(source ProcessSource) func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		processes, err := source.Processes()
		if errors.Is(err, models.ErrShutdown) {
			http.Error(writer, err.Error(), http.StatusServiceUnavailable)
			return
		}
		if err != nil {
			slog.Error(fmt.Sprintf("No se pudo listar los procesos: %v", err))
			http.Error(writer, err.Error(), http.StatusInternalServerError)
			return
		}

		if state := strings.ToUpper(request.URL.Query().Get("estado")); state != "" {
			filtered := make([]models.ProcessInfo, 0, len(processes))
			for _, process := range processes {
				if process.State == state {
					filtered = append(filtered, process)
				}
			}
			processes = filtered
		}

		server.SendJsonResponse(writer, processes)
	}
}
