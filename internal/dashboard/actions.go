package dashboard

import "context"

// ActionKind identifies a user interaction routed to the controller.
type ActionKind int

const (
	ActionRefreshMarket ActionKind = iota
	ActionLoadMoreNews
	ActionShowPortfolios
	ActionOpenPortfolio
	ActionCreatePortfolio
	ActionRequestDeletePortfolio
	ActionConfirmDelete
	ActionDeleteHolding
	ActionSearchInput
	ActionOpenStockModal
	ActionSelectStock
	ActionSubmitHolding
	ActionCloseModal
	ActionEscape
	ActionDismissNotification
	ActionActivity
	ActionSignOut
)

// Action is one dispatched interaction. Fields beyond Kind are
// populated per kind; unused fields stay zero.
type Action struct {
	Kind ActionKind

	ID          string // portfolio, holding, or notification id
	Name        string // portfolio name, modal name, stock name
	Description string
	Query       string
	Symbol      string
	Quantity    float64
	Price       float64
}

// Dispatch routes an action to its handler. Unknown kinds are ignored.
func (c *Controller) Dispatch(ctx context.Context, action Action) {
	c.Touch()

	switch action.Kind {
	case ActionRefreshMarket:
		c.RefreshMarketData(ctx, true)
	case ActionLoadMoreNews:
		c.LoadNews(ctx, false)
	case ActionShowPortfolios:
		c.ShowPortfolios(ctx, false)
	case ActionOpenPortfolio:
		c.OpenPortfolio(ctx, action.ID)
	case ActionCreatePortfolio:
		c.CreatePortfolio(ctx, action.Name, action.Description)
	case ActionRequestDeletePortfolio:
		c.RequestDeletePortfolio(action.ID)
	case ActionConfirmDelete:
		c.ConfirmDeletePortfolio(ctx)
	case ActionDeleteHolding:
		c.DeleteHolding(ctx, action.ID)
	case ActionSearchInput:
		c.Search(ctx, action.Query)
	case ActionOpenStockModal:
		c.OpenStockModal(action.ID)
	case ActionSelectStock:
		c.SelectStock(action.Symbol, action.Name)
	case ActionSubmitHolding:
		c.SubmitHolding(ctx, action.Quantity, action.Price)
	case ActionCloseModal:
		c.CloseModal(action.Name)
	case ActionEscape:
		c.CloseAllModals()
	case ActionDismissNotification:
		c.DismissNotification(action.ID)
	case ActionActivity:
		// Touch already recorded the activity
	case ActionSignOut:
		c.SignOut(ctx)
	default:
		c.logger.Debug().Int("kind", int(action.Kind)).Msg("unhandled action")
	}
}
