package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// UpdateConfig reemplaza en el archivo los valores de las claves que ya existen.
// Cada valor se interpreta como JSON (números, booleanos, listas) y, si no lo es,
// como string. Antes de escribir se valida que el resultado siga decodificando
// en config. Retorna las claves modificadas, ordenadas.
//
// Ejemplo:
//
//	kernelConfig := models.DefaultConfig()
//	keys, err := config.UpdateConfig("kernel/configs/kernel.json", map[string]string{"quantum_ms": "100"}, &kernelConfig)
func UpdateConfig(filePath string, updates map[string]string, config any) ([]string, error) {
	fileContent, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := json.Unmarshal(fileContent, &data); err != nil {
		return nil, fmt.Errorf("error al parsear %s: %w", filePath, err)
	}

	var modified []string
	for key, valueStr := range updates {
		if _, ok := data[key]; !ok {
			continue
		}
		var parsedValue any
		if err := json.Unmarshal([]byte(valueStr), &parsedValue); err != nil {
			// no es JSON válido: se guarda como string
			parsedValue = valueStr
		}
		data[key] = parsedValue
		modified = append(modified, key)
	}
	sort.Strings(modified)
	if len(modified) == 0 {
		return nil, nil
	}

	newJSON, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(bytes.NewReader(newJSON))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("la configuración resultante no es válida: %w", err)
	}

	if err := os.WriteFile(filePath, newJSON, 0644); err != nil {
		return nil, err
	}
	return modified, nil
}
