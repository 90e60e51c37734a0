package main

import (
	"fmt"
	"os"

	"github.com/KyleAdjei/Operating-Sytem/kernel/models"
	"github.com/KyleAdjei/Operating-Sytem/utils/config"
)

// Se ejecuta desde la raíz del repo:
// > go run ./scripts quantum_ms 100 physical_pages 64
// > go run ./scripts log_level DEBUG workload '["ping","pong"]'

const ConfigPath = "kernel/configs/kernel.json"

func main() {
	// Verificar que se pasen argumentos en pares: clave1 valor1 clave2 valor2 ...
	if len(os.Args) < 3 || len(os.Args)%2 != 1 {
		fmt.Println("Uso: update_config <clave_1> <valor_1> [<clave_2> <valor_2> ...]")
		fmt.Println("Ejemplo: update_config quantum_ms 100 physical_pages 64")
		return
	}

	updates := make(map[string]string)
	for i := 1; i < len(os.Args); i += 2 {
		updates[os.Args[i]] = os.Args[i+1]
	}

	kernelConfig := models.DefaultConfig()
	keys, err := config.UpdateConfig(ConfigPath, updates, &kernelConfig)
	if err != nil {
		fmt.Printf("Error al actualizar %s: %v\n", ConfigPath, err)
		os.Exit(1)
	}
	if len(keys) == 0 {
		fmt.Printf("No se encontraron claves a actualizar en %s.\n", ConfigPath)
		return
	}

	for _, key := range keys {
		fmt.Printf("  Modificada '%s' a '%s'\n", key, updates[key])
	}
	fmt.Printf("El archivo %s ha sido actualizado correctamente.\n", ConfigPath)
}
