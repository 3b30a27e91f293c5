package bootstrap

import (
	"github.com/vtjnash/whedon-api/internal/bootstrap/config"
)

// App aggregates what a command needs after bootstrap: the loaded
// settings and the initialized journal registry.
type App struct {
	Config   config.Config
	Registry *config.Registry
}
