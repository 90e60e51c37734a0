package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// InitConfig lee el archivo de configuración y vuelca sus valores sobre config.
// Los campos que no aparecen en el archivo conservan el valor que ya tenía la
// estructura, así se pueden cargar valores por defecto antes de llamarla.
// En caso de error finaliza con panic.
//
// Parámetros:
//   - filePath: ubicacion donde se encuentra el archivo de configuracion
//   - config: puntero a cualquier tipo de estructura
//
// Ejemplo:
//
//	type TestConfig struct {
//		Name  string `json:"name"`
//		Value int    `json:"value"`
//	}
//	func main() {
//		testConfig := TestConfig{Value: 10}
//		config.InitConfig("./test.json", &testConfig)
//	}
func InitConfig(filePath string, config any) {
	if err := setupConfig(filePath, config); err != nil {
		panic(fmt.Errorf("error al configurar el archivo %s: %w", filePath, err))
	}
}

func setupConfig(filePath string, config any) error {
	configFile, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer configFile.Close()

	jsonParser := json.NewDecoder(configFile)
	jsonParser.DisallowUnknownFields()

	if err := jsonParser.Decode(config); err != nil {
		return err
	}

	return nil
}
