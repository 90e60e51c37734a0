package models

import "errors"

// MaxOpenDevices es la cantidad de handles que puede tener abiertos cada dispositivo.
const MaxOpenDevices = 10

// Tipos de dispositivo que entiende el VFS ("<tipo> <detalle>").
const (
	DeviceRandom = "random"
	DeviceFile   = "file"
)

// Device es el contrato de cualquier dispositivo de almacenamiento.
// Un handle inválido nunca produce error: Read devuelve vacío, Write devuelve 0
// y Close/Seek no hacen nada.
type Device interface {
	Open(details string) (int, error)
	Close(id int)
	Read(id int, size int) []byte
	Write(id int, data []byte) int
	Seek(id int, to int)
}

// DEFINICION DE ERRORES
var (
	ErrNoFreeHandle  = errors.New("no free device handle")
	ErrInvalidSpec   = errors.New("invalid device spec")
	ErrUnknownDevice = errors.New("unknown device type")
)
