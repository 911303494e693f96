package ports

import (
	"context"

	"shopping-tour-service/internal/domain"
)

// Port: a boundary for loading one complete shopping scenario (shops,
// shopping list, travel network, origin) from a data source.
type ScenarioRepository interface {
	// Assemble the world model for the stored scenario.
	LoadWorld(ctx context.Context) (*domain.World, error)
}
