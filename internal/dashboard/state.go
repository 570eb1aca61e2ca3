package dashboard

import (
	"time"

	"github.com/ksahdev/stockdeck/internal/models"
)

// View names the screen region the controller is focused on.
type View string

const (
	ViewOverview        View = "overview"
	ViewPortfolioList   View = "portfolio-list"
	ViewPortfolioDetail View = "portfolio-detail"
)

// Modal names. The open set is an ordered stack: scroll stays locked
// until the last one closes.
const (
	ModalCreatePortfolio = "create-portfolio"
	ModalDeletePortfolio = "delete-portfolio"
	ModalStockSelection  = "stock-selection"
)

// State is the controller's full mutable state. It is owned by the
// controller and mutated only under its lock; renders work from
// copies taken under the same lock.
type State struct {
	View View

	Market            models.MarketSnapshot
	MarketOpen        bool
	News              models.NewsFeed
	Portfolios        []models.Portfolio
	PortfoliosUpdated time.Time
	Current           *models.PortfolioDetail

	Suggestions     []models.SearchResult
	ShowSuggestions bool

	// stock-selection modal transient state
	TargetPortfolioID string
	SelectedStock     *models.SearchResult

	// delete confirmation transient state
	PendingDeleteID string

	Modals       []string
	ScrollLocked bool

	Notifications []models.Notification
}

// modalOpen reports whether the named modal is on the stack.
func (s *State) modalOpen(name string) bool {
	for _, m := range s.Modals {
		if m == name {
			return true
		}
	}
	return false
}
