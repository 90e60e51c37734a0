package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// NewServer arma el servidor HTTP del módulo sin levantarlo.
//
// Parámetros:
//   - port: puerto donde se iniciará el servidor
//   - handler: router con los endpoints registrados
//
// Ejemplo:
//
//	func main() {
//		mux := http.NewServeMux()
//		mux.HandleFunc("GET /", handlers.HandshakeHandler("hola"))
//		srv := server.NewServer(8001, mux)
//		go server.InitServer(srv)
//	}
func NewServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// InitServer levanta el servidor, en caso de no poder levantarlo retorna un error.
// Un cierre ordenado (Shutdown) no se considera error.
func InitServer(srv *http.Server) error {
	slog.Info("Servidor HTTP iniciado", "direccion", srv.Addr)

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	if err != nil {
		slog.Error("Error al escuchar en el puerto", "direccion", srv.Addr, "error", err)
	}
	return err
}

// SendJsonResponse retorna la respues del servidor en formato JSON
//
// Parámetros:
//   - writer: el http.ResponseWriter con el que se escribe la respuesta HTTP
//   - data: cualquier estructura de datos que querés enviar al cliente, se convierte automáticamente a JSON.
func SendJsonResponse(writer http.ResponseWriter, data any) {
	response, err := json.Marshal(data)
	if err != nil {
		http.Error(writer, "Error al convertir datos a JSON", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusOK)
	writer.Write(response)
}
