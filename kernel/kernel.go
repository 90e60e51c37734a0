package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	kernelHandler "github.com/KyleAdjei/Operating-Sytem/kernel/handlers"
	"github.com/KyleAdjei/Operating-Sytem/kernel/models"
	"github.com/KyleAdjei/Operating-Sytem/kernel/processes"
	"github.com/KyleAdjei/Operating-Sytem/kernel/services"
	memoriaHandler "github.com/KyleAdjei/Operating-Sytem/memoria/handlers"
	"github.com/KyleAdjei/Operating-Sytem/utils/config"
	"github.com/KyleAdjei/Operating-Sytem/utils/log"
	"github.com/KyleAdjei/Operating-Sytem/utils/web/client"
	"github.com/KyleAdjei/Operating-Sytem/utils/web/handlers"
	"github.com/KyleAdjei/Operating-Sytem/utils/web/server"
)

const ConfigPath = "kernel/configs/kernel.json"

// Uso:
//
//	go run ./kernel [archivo_config]
//	go run ./kernel status [archivo_config]
func main() {
	args := os.Args[1:]
	statusOnly := len(args) > 0 && args[0] == "status"
	if statusOnly {
		args = args[1:]
	}
	configPath := ConfigPath
	if len(args) > 0 {
		configPath = args[0]
	}

	kernelConfig := models.DefaultConfig()
	config.InitConfig(configPath, &kernelConfig)

	if statusOnly {
		if err := printStatus(kernelConfig.PortKernel); err != nil {
			fmt.Fprintf(os.Stderr, "No se pudo consultar el kernel: %v\n", err)
			os.Exit(1)
		}
		return
	}

	log.InitLogger(kernelConfig.LogPath, kernelConfig.LogLevel)
	slog.Debug(fmt.Sprintf("Port Kernel: %d", kernelConfig.PortKernel))

	system, err := services.Startup(kernelConfig)
	if err != nil {
		slog.Error("Error al iniciar el sistema", "err", err)
		os.Exit(1)
	}

	for _, name := range kernelConfig.Workload {
		sample, err := processes.Lookup(name)
		if err != nil {
			slog.Warn("Proceso de ejemplo desconocido", "nombre", name)
			continue
		}
		if _, err := system.CreateProcess(sample.Name, sample.Priority, sample.Body); err != nil {
			slog.Error("Error al crear proceso", "nombre", name, "err", err)
		}
	}

	var srv *http.Server
	if kernelConfig.PortKernel > 0 {
		/* ----------> ENDPOINTS <----------*/
		mux := http.NewServeMux()
		mux.HandleFunc("GET /", handlers.HandshakeHandler("Bienvenido al módulo de Kernel"))
		mux.HandleFunc("GET /kernel", handlers.HandshakeHandler("Kernel en funcionamiento 🚀"))
		mux.HandleFunc("GET /kernel/procesos", kernelHandler.GetProcessesHandler(system))
		mux.HandleFunc("GET /memoria/marcos", memoriaHandler.GetFramesHandler(system))

		srv = server.NewServer(kernelConfig.PortKernel, mux)
		go server.InitServer(srv)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}
	system.Shutdown()
}

func printStatus(port int) error {
	response, err := client.DoRequest(port, "127.0.0.1", "GET", "kernel/procesos")
	if response != nil {
		defer response.Body.Close()
	}
	if err != nil {
		return err
	}

	var infos []models.ProcessInfo
	if err := json.NewDecoder(response.Body).Decode(&infos); err != nil {
		return err
	}

	fmt.Printf("%-5s %-14s %-12s %-11s %s\n", "PID", "NOMBRE", "PRIORIDAD", "ESTADO", "MENSAJES")
	for _, process := range infos {
		fmt.Printf("%-5d %-14s %-12s %-11s %d\n",
			process.PID, process.Name, process.Priority, process.State, process.PendingMessages)
	}
	return nil
}
