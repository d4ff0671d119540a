package store

import (
	"github.com/google/uuid"

	"github.com/flowtide/flowtide/internal/model"
)

// EnsureDeviceID returns settings guaranteed to carry a device id, plus a
// flag telling the caller whether one was created and needs persisting. The
// function is pure; the caller decides what to do with the flag.
func EnsureDeviceID(settings model.Settings) (model.Settings, bool) {
	if settings.DeviceID != "" {
		return settings, false
	}
	settings.DeviceID = uuid.NewString()
	return settings, true
}
