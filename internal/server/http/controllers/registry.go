package controllers

import (
	"net/http"

	"github.com/rzbill/cmdring/internal/runtime"
	commandsvc "github.com/rzbill/cmdring/internal/services/commands"
	logpkg "github.com/rzbill/cmdring/pkg/log"
)

// ControllerRegistry manages all HTTP controllers.
//
// It provides a centralized way to register all controller routes
// and manages the lifecycle of individual controllers.
type ControllerRegistry struct {
	general *GeneralController
	device  *DeviceController
	archive *ArchiveController
}

// NewControllerRegistry creates a new controller registry.
//
// It initializes all controllers with the provided runtime and service.
func NewControllerRegistry(rt *runtime.Runtime, svc *commandsvc.Service, logger logpkg.Logger) *ControllerRegistry {
	if logger == nil {
		logger = rt.Logger()
	}
	logger = logger.With(logpkg.Component("http"))
	return &ControllerRegistry{
		general: NewGeneralController(rt, svc),
		device:  NewDeviceController(svc, logger),
		archive: NewArchiveController(svc),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
//
// This method sets up the health endpoint, the device endpoints
// (write, read, follow, seekto, size, commands) and the archive listing.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.device.RegisterRoutes(mux)
	r.archive.RegisterRoutes(mux)
}
