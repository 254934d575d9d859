package repository

import (
	"context"
	"errors"
)

// Slot names used by the classroom core.
const (
	SlotSite    = "site"
	SlotUsers   = "users"
	SlotSession = "session"
)

// ErrSlotEmpty is returned by Read when nothing has been written to the slot.
var ErrSlotEmpty = errors.New("slot is empty")

// SlotStore persists named opaque byte payloads. Writes replace the whole slot.
type SlotStore interface {
	Read(ctx context.Context, slot string) ([]byte, error)
	Write(ctx context.Context, slot string, payload []byte) error
	Clear(ctx context.Context, slot string) error
	Close() error
}
