package models

import "fmt"

type KernelMessage struct {
	SenderPID int    `json:"sender_pid"`
	TargetPID int    `json:"target_pid"`
	What      int    `json:"what"`
	Data      []byte `json:"data"`
}

// Clone hace una copia profunda. Se usa cada vez que el mensaje cambia de dueño.
func (m KernelMessage) Clone() KernelMessage {
	clone := m
	if m.Data != nil {
		clone.Data = make([]byte, len(m.Data))
		copy(clone.Data, m.Data)
	}
	return clone
}

func (m KernelMessage) String() string {
	return fmt.Sprintf("from %d to %d what %d (%d bytes)", m.SenderPID, m.TargetPID, m.What, len(m.Data))
}
