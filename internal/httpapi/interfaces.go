package httpapi

import (
	"context"

	"github.com/google/uuid"

	"github.com/rfarias/partida/internal/budget"
	"github.com/rfarias/partida/internal/ledger"
)

// SettingsStore reads and writes the settings blob.
type SettingsStore interface {
	Settings(ctx context.Context) (ledger.Settings, error)
	SaveSettings(ctx context.Context, cfg ledger.Settings) error
}

// BudgetStore reads and writes budgets.
type BudgetStore interface {
	Budgets(ctx context.Context) ([]budget.Budget, error)
	BudgetByID(ctx context.Context, id uuid.UUID) (budget.Budget, error)
	SaveBudget(ctx context.Context, b budget.Budget) (budget.Budget, error)
	DeleteBudget(ctx context.Context, id uuid.UUID) error
}

// ReadyChecker is implemented by stores that can report their health.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}
