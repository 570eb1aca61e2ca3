// Package dashboard holds the application controller: session-aware
// state, cached market/news/portfolio data, in-flight fetch tracking,
// and the timers that keep the view current.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ksahdev/stockdeck/internal/common"
	"github.com/ksahdev/stockdeck/internal/forms"
	"github.com/ksahdev/stockdeck/internal/interfaces"
	"github.com/ksahdev/stockdeck/internal/models"
	"github.com/ksahdev/stockdeck/internal/scheduler"
)

// Operation keys for in-flight fetch de-duplication.
const (
	opMarketData = "market-data"
	opNewsData   = "news-data"
	opPortfolios = "portfolios"
	opDetail     = "portfolio-detail"
)

const notificationTTL = 5 * time.Second

// ErrLoginRequired is returned by Init when no valid session exists.
var ErrLoginRequired = errors.New("login required")

// Controller orchestrates fetches and owns all dashboard state. It is
// constructed once at startup; nothing about it is global.
type Controller struct {
	cfg    common.DashboardConfig
	api    interfaces.BackendAPI
	auth   interfaces.AuthService
	screen interfaces.Screen
	logger *common.Logger

	clock    *Clock
	sched    *scheduler.Scheduler
	debounce *Debouncer
	searches *searchCache

	mu           sync.Mutex
	state        State
	inFlight     map[string]bool
	gen          map[string]uint64
	online       bool
	visible      bool
	lastActivity time.Time
	unsubscribe  func()
	now          func() time.Time
}

// NewController wires the controller. It does not touch the network;
// call Init to load data and start timers.
func NewController(cfg common.DashboardConfig, api interfaces.BackendAPI, auth interfaces.AuthService, screen interfaces.Screen, logger *common.Logger) (*Controller, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	clock, err := NewClock(cfg.GetExchangeTimezone())
	if err != nil {
		return nil, err
	}

	sched, err := scheduler.New(logger)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:      cfg,
		api:      api,
		auth:     auth,
		screen:   screen,
		logger:   logger,
		clock:    clock,
		sched:    sched,
		debounce: newDebouncer(cfg.GetDebounceDelay()),
		searches: newSearchCache(cfg.SearchCacheSize, cfg.GetCacheTimeout()),
		inFlight: make(map[string]bool),
		gen:      make(map[string]uint64),
		online:   true,
		visible:  true,
		now:      time.Now,
	}
	c.state.View = ViewOverview
	c.state.News.Reset()
	c.lastActivity = c.now()
	return c, nil
}

// Init verifies the session, renders the authenticated frame, loads
// market data and the first news page concurrently, and starts the
// refresh and market-clock timers.
func (c *Controller) Init(ctx context.Context) error {
	user := c.auth.GetCurrentUser()
	if user == nil {
		c.screen.SignedOut("Please log in to view your dashboard.")
		return ErrLoginRequired
	}

	c.screen.RenderView("nav", renderNav(user))
	c.updateMarketStatus()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.RefreshMarketData(ctx, true)
	}()
	go func() {
		defer wg.Done()
		c.LoadNews(ctx, true)
	}()
	wg.Wait()

	if err := c.sched.NewIntervalJob("auto-refresh", c.autoRefresh, c.cfg.GetAutoRefreshInterval(), false); err != nil {
		return err
	}
	if err := c.sched.NewIntervalJob("market-clock", c.marketClockTick, time.Minute, false); err != nil {
		return err
	}
	c.sched.Start()

	c.unsubscribe = c.auth.OnAuthStateChange(func(session *models.Session) {
		if session == nil {
			c.screen.SignedOut("Your session has ended. Please log in again.")
		}
	})

	return nil
}

// Close stops timers and drops the auth subscription.
func (c *Controller) Close() {
	c.debounce.Cancel()
	c.sched.Stop()
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// Snapshot returns a copy of the current state for inspection.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Touch records user activity for the auto-refresh gate.
func (c *Controller) Touch() {
	c.mu.Lock()
	c.lastActivity = c.now()
	c.mu.Unlock()
}

// SetOnline flips the connectivity flag.
func (c *Controller) SetOnline(online bool) {
	c.mu.Lock()
	c.online = online
	c.mu.Unlock()
}

// SetVisible flips the visibility flag. Hiding pauses the timers;
// showing resumes them and refreshes market data if it went stale
// while hidden.
func (c *Controller) SetVisible(ctx context.Context, visible bool) {
	c.mu.Lock()
	c.visible = visible
	stale := common.IsStale(c.state.Market.LastUpdated, c.cfg.GetCacheTimeout())
	c.mu.Unlock()

	if !visible {
		c.sched.Pause()
		return
	}
	c.sched.Start()
	if stale {
		c.RefreshMarketData(ctx, false)
	}
}

// begin reserves an operation key and allocates a generation for the
// fetch. Returns ok=false when a fetch for the key is already running.
func (c *Controller) begin(key string) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[key] {
		return 0, false
	}
	c.inFlight[key] = true
	c.gen[key]++
	return c.gen[key], true
}

// end releases an operation key.
func (c *Controller) end(key string) {
	c.mu.Lock()
	delete(c.inFlight, key)
	c.mu.Unlock()
}

// currentGen reports whether gen is still the newest fetch for key.
// Results from superseded fetches must not mutate state.
func (c *Controller) currentGen(key string, gen uint64) bool {
	return c.gen[key] == gen
}

// RefreshMarketData fetches trends and popular stocks together. No-op
// while a market fetch is in flight, or when the cached snapshot is
// still fresh and force is false. Returns whether a fetch was issued.
func (c *Controller) RefreshMarketData(ctx context.Context, force bool) bool {
	c.mu.Lock()
	fresh := common.IsFresh(c.state.Market.LastUpdated, c.cfg.GetCacheTimeout())
	c.mu.Unlock()
	if !force && fresh {
		return false
	}

	gen, ok := c.begin(opMarketData)
	if !ok {
		return false
	}
	defer c.end(opMarketData)

	var (
		wg       sync.WaitGroup
		trends   *models.MarketTrends
		popular  []models.Quote
		trendErr error
		popErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		trends, trendErr = c.api.GetMarketTrends(ctx)
	}()
	go func() {
		defer wg.Done()
		popular, popErr = c.api.GetPopularStocks(ctx)
	}()
	wg.Wait()

	if trendErr != nil || popErr != nil {
		err := trendErr
		if err == nil {
			err = popErr
		}
		c.logger.Warn().Err(err).Msg("market data refresh failed")
		c.Notify(models.NotifyError, "Could not refresh market data.")
		return true
	}
	if trends == nil && popular == nil {
		// swallowed call: offline or signed out
		return true
	}

	c.mu.Lock()
	if !c.currentGen(opMarketData, gen) {
		c.mu.Unlock()
		return true
	}
	c.state.Market = models.MarketSnapshot{
		Trends:      trends,
		Popular:     popular,
		LastUpdated: c.now(),
	}
	snapshot := c.state.Market
	open := c.state.MarketOpen
	c.mu.Unlock()

	c.screen.RenderView("market", renderMarket(snapshot, open))
	return true
}

// LoadNews fetches one page of news. reset starts the feed over;
// otherwise the next page is appended, deduplicated by article URL,
// with the offset advanced to the total loaded count.
func (c *Controller) LoadNews(ctx context.Context, reset bool) bool {
	gen, ok := c.begin(opNewsData)
	if !ok {
		return false
	}
	defer c.end(opNewsData)

	c.mu.Lock()
	if reset {
		c.state.News.Reset()
	}
	offset := c.state.News.Offset
	c.mu.Unlock()

	items, hasMore, err := c.api.GetBusinessNews(ctx, c.cfg.GetNewsLimit(), offset)
	if err != nil {
		c.logger.Warn().Err(err).Msg("news fetch failed")
		c.Notify(models.NotifyError, "Could not load news.")
		return true
	}
	if items == nil && !hasMore {
		return true
	}

	c.mu.Lock()
	if !c.currentGen(opNewsData, gen) {
		c.mu.Unlock()
		return true
	}
	c.state.News.Append(items, hasMore)
	feed := c.state.News
	c.mu.Unlock()

	c.screen.RenderView("news", renderNews(feed))
	return true
}

// ShowPortfolios switches to the portfolio list, re-fetching it when
// stale or forced.
func (c *Controller) ShowPortfolios(ctx context.Context, force bool) bool {
	c.mu.Lock()
	c.state.View = ViewPortfolioList
	c.state.Current = nil
	fresh := common.IsFresh(c.state.PortfoliosUpdated, c.cfg.GetCacheTimeout())
	portfolios := c.state.Portfolios
	c.mu.Unlock()

	if !force && fresh {
		c.screen.RenderView("portfolios", renderPortfolios(portfolios))
		return false
	}

	gen, ok := c.begin(opPortfolios)
	if !ok {
		return false
	}
	defer c.end(opPortfolios)

	fetched, err := c.api.GetPortfolios(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("portfolio list fetch failed")
		c.Notify(models.NotifyError, "Could not load portfolios.")
		return true
	}
	if fetched == nil {
		return true
	}

	c.mu.Lock()
	if !c.currentGen(opPortfolios, gen) {
		c.mu.Unlock()
		return true
	}
	c.state.Portfolios = fetched
	c.state.PortfoliosUpdated = c.now()
	portfolios = c.state.Portfolios
	c.mu.Unlock()

	c.screen.RenderView("portfolios", renderPortfolios(portfolios))
	return true
}

// CreatePortfolio validates the name, creates the portfolio, and adds
// it to the in-memory list without a re-fetch.
func (c *Controller) CreatePortfolio(ctx context.Context, name, description string) {
	if errs := forms.ValidatePortfolioName(name); !errs.Valid() {
		c.Notify(models.NotifyError, errs.First())
		return
	}

	portfolio, err := c.api.CreatePortfolio(ctx, name, description)
	if err != nil {
		c.logger.Warn().Err(err).Msg("portfolio create failed")
		c.Notify(models.NotifyError, "Could not create portfolio.")
		return
	}
	if portfolio == nil {
		return
	}

	c.mu.Lock()
	c.state.Portfolios = append(c.state.Portfolios, *portfolio)
	portfolios := c.state.Portfolios
	c.mu.Unlock()

	c.CloseModal(ModalCreatePortfolio)
	c.screen.RenderView("portfolios", renderPortfolios(portfolios))
	c.Notify(models.NotifySuccess, "Portfolio created.")
}

// RequestDeletePortfolio opens the confirmation modal for a portfolio.
func (c *Controller) RequestDeletePortfolio(id string) {
	c.mu.Lock()
	c.state.PendingDeleteID = id
	c.mu.Unlock()
	c.OpenModal(ModalDeletePortfolio)
}

// ConfirmDeletePortfolio performs the delete confirmed in the modal.
// Deleting the currently open portfolio returns the view to the list.
func (c *Controller) ConfirmDeletePortfolio(ctx context.Context) {
	c.mu.Lock()
	id := c.state.PendingDeleteID
	c.mu.Unlock()
	if id == "" {
		c.CloseModal(ModalDeletePortfolio)
		return
	}

	deleted, err := c.api.DeletePortfolio(ctx, id)
	c.CloseModal(ModalDeletePortfolio)
	if err != nil {
		c.logger.Warn().Err(err).Str("portfolio_id", id).Msg("portfolio delete failed")
		c.Notify(models.NotifyError, "Could not delete portfolio.")
		return
	}
	if !deleted {
		return
	}

	c.mu.Lock()
	c.state.PendingDeleteID = ""
	kept := c.state.Portfolios[:0:0]
	for _, p := range c.state.Portfolios {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.state.Portfolios = kept
	if c.state.Current != nil && c.state.Current.ID == id {
		c.state.Current = nil
		c.state.View = ViewPortfolioList
	}
	portfolios := c.state.Portfolios
	c.mu.Unlock()

	c.screen.RenderView("portfolios", renderPortfolios(portfolios))
	c.Notify(models.NotifySuccess, "Portfolio deleted.")
}

// OpenPortfolio loads the detail view: holdings, then one batched
// quote request for the distinct symbols, joined back by symbol. A
// newer OpenPortfolio supersedes an older one still in flight.
func (c *Controller) OpenPortfolio(ctx context.Context, id string) {
	c.mu.Lock()
	var target *models.Portfolio
	for i := range c.state.Portfolios {
		if c.state.Portfolios[i].ID == id {
			target = &c.state.Portfolios[i]
			break
		}
	}
	if target == nil {
		c.mu.Unlock()
		c.Notify(models.NotifyError, "Portfolio not found.")
		return
	}
	c.state.View = ViewPortfolioDetail
	c.gen[opDetail]++
	gen := c.gen[opDetail]
	portfolio := *target
	c.mu.Unlock()

	holdings, err := c.api.GetHoldings(ctx, id)
	if err != nil {
		c.logger.Warn().Err(err).Str("portfolio_id", id).Msg("holdings fetch failed")
		c.Notify(models.NotifyError, "Could not load holdings.")
		return
	}
	if holdings == nil {
		holdings = []models.Holding{}
	}

	joinQuotes(ctx, c.api, holdings, c.logger)

	detail := &models.PortfolioDetail{Portfolio: portfolio, Holdings: holdings}

	c.mu.Lock()
	if !c.currentGen(opDetail, gen) {
		c.mu.Unlock()
		return
	}
	c.state.Current = detail
	c.mu.Unlock()

	c.screen.RenderView("portfolio-detail", renderPortfolioDetail(detail))
}

// joinQuotes fetches one batched quote request for the holdings'
// distinct symbols and attaches matches. A holding whose quote did not
// resolve keeps a nil quote and values at its purchase price.
func joinQuotes(ctx context.Context, api interfaces.BackendAPI, holdings []models.Holding, logger *common.Logger) {
	if len(holdings) == 0 {
		return
	}

	seen := make(map[string]bool, len(holdings))
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if !seen[h.Symbol] {
			seen[h.Symbol] = true
			symbols = append(symbols, h.Symbol)
		}
	}

	quotes, err := api.GetQuotes(ctx, symbols)
	if err != nil {
		logger.Warn().Err(err).Msg("quote join failed, valuing at purchase price")
		return
	}

	bySymbol := make(map[string]*models.Quote, len(quotes))
	for i := range quotes {
		bySymbol[quotes[i].Symbol] = &quotes[i]
	}
	for i := range holdings {
		holdings[i].Quote = bySymbol[holdings[i].Symbol]
	}
}

// DeleteHolding removes a holding from the open portfolio. The host
// confirms with the user before dispatching this.
func (c *Controller) DeleteHolding(ctx context.Context, id string) {
	deleted, err := c.api.DeleteHolding(ctx, id)
	if err != nil {
		c.logger.Warn().Err(err).Str("holding_id", id).Msg("holding delete failed")
		c.Notify(models.NotifyError, "Could not remove holding.")
		return
	}
	if !deleted {
		return
	}

	c.mu.Lock()
	detail := c.state.Current
	if detail != nil {
		kept := detail.Holdings[:0:0]
		for _, h := range detail.Holdings {
			if h.ID != id {
				kept = append(kept, h)
			}
		}
		detail.Holdings = kept
	}
	c.mu.Unlock()

	if detail != nil {
		c.screen.RenderView("portfolio-detail", renderPortfolioDetail(detail))
	}
	c.Notify(models.NotifySuccess, "Holding removed.")
}

// Search debounces the query. Queries under two characters after
// normalization clear any open suggestion list immediately.
func (c *Controller) Search(ctx context.Context, query string) {
	normalized := normalizeQuery(query)
	if len(normalized) < 2 {
		c.debounce.Cancel()
		c.mu.Lock()
		c.state.Suggestions = nil
		c.state.ShowSuggestions = false
		c.mu.Unlock()
		c.screen.RenderView("suggestions", "")
		return
	}

	c.debounce.Do(func() {
		c.runSearch(ctx, normalized)
	})
}

// runSearch resolves a normalized query, from cache when fresh.
func (c *Controller) runSearch(ctx context.Context, query string) {
	results, cached := c.searches.get(query)
	if !cached {
		var err error
		results, err = c.api.Search(ctx, query)
		if err != nil {
			c.logger.Warn().Err(err).Str("query", query).Msg("search failed")
			return
		}
		if results == nil {
			return
		}
		c.searches.put(query, results)
	}

	c.mu.Lock()
	c.state.Suggestions = results
	c.state.ShowSuggestions = true
	c.mu.Unlock()

	c.screen.RenderView("suggestions", renderSuggestions(results))
}

// OpenStockModal opens the stock-selection modal targeting a portfolio.
func (c *Controller) OpenStockModal(portfolioID string) {
	c.mu.Lock()
	c.state.TargetPortfolioID = portfolioID
	c.state.SelectedStock = nil
	c.mu.Unlock()
	c.OpenModal(ModalStockSelection)
}

// SelectStock records the chosen search result in the stock modal.
func (c *Controller) SelectStock(symbol, name string) {
	c.mu.Lock()
	c.state.SelectedStock = &models.SearchResult{Symbol: symbol, Name: name}
	c.mu.Unlock()
}

// SubmitHolding creates a holding from the stock modal's selection.
func (c *Controller) SubmitHolding(ctx context.Context, quantity, price float64) {
	c.mu.Lock()
	target := c.state.TargetPortfolioID
	selected := c.state.SelectedStock
	c.mu.Unlock()

	symbol := ""
	if selected != nil {
		symbol = selected.Symbol
	}
	if errs := forms.ValidateHolding(symbol, quantity, price); !errs.Valid() {
		c.Notify(models.NotifyError, errs.First())
		return
	}

	holding, err := c.api.CreateHolding(ctx, target, symbol, quantity, price)
	if err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("holding create failed")
		c.Notify(models.NotifyError, "Could not add the stock.")
		return
	}
	if holding == nil {
		return
	}

	c.mu.Lock()
	for i := range c.state.Portfolios {
		if c.state.Portfolios[i].ID == target {
			c.state.Portfolios[i].HoldingsCount++
		}
	}
	if c.state.Current != nil && c.state.Current.ID == target {
		c.state.Current.Holdings = append(c.state.Current.Holdings, *holding)
	}
	detail := c.state.Current
	c.mu.Unlock()

	c.CloseModal(ModalStockSelection)
	if detail != nil && detail.ID == target {
		c.screen.RenderView("portfolio-detail", renderPortfolioDetail(detail))
	}
	c.Notify(models.NotifySuccess, "Stock added to portfolio.")
}

// OpenModal pushes a modal onto the stack and locks scrolling.
func (c *Controller) OpenModal(name string) {
	c.mu.Lock()
	if !c.state.modalOpen(name) {
		c.state.Modals = append(c.state.Modals, name)
	}
	c.state.ScrollLocked = true
	c.mu.Unlock()
}

// CloseModal removes a modal. Scroll unlocks only when no modal
// remains open; the stock modal also clears its transient selection.
func (c *Controller) CloseModal(name string) {
	c.mu.Lock()
	kept := c.state.Modals[:0:0]
	for _, m := range c.state.Modals {
		if m != name {
			kept = append(kept, m)
		}
	}
	c.state.Modals = kept
	c.state.ScrollLocked = len(kept) > 0
	if name == ModalStockSelection {
		c.state.TargetPortfolioID = ""
		c.state.SelectedStock = nil
	}
	if name == ModalDeletePortfolio {
		c.state.PendingDeleteID = ""
	}
	c.mu.Unlock()
}

// CloseAllModals is the Escape handler: every open modal closes.
func (c *Controller) CloseAllModals() {
	c.mu.Lock()
	open := append([]string(nil), c.state.Modals...)
	c.mu.Unlock()
	for i := len(open) - 1; i >= 0; i-- {
		c.CloseModal(open[i])
	}
}

// Notify shows a toast notification that auto-dismisses.
func (c *Controller) Notify(kind models.NotificationType, message string) {
	n := models.Notification{
		ID:        uuid.NewString(),
		Type:      kind,
		Message:   message,
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	c.state.Notifications = append(c.state.Notifications, n)
	c.mu.Unlock()

	c.screen.RenderNotification(n)
	time.AfterFunc(notificationTTL, func() {
		c.DismissNotification(n.ID)
	})
}

// DismissNotification drops a notification by id.
func (c *Controller) DismissNotification(id string) {
	c.mu.Lock()
	kept := c.state.Notifications[:0:0]
	for _, n := range c.state.Notifications {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	c.state.Notifications = kept
	c.mu.Unlock()
}

// SignOut ends the session; the auth subscription signals the screen.
func (c *Controller) SignOut(ctx context.Context) {
	c.auth.SignOut(ctx)
}

// autoRefresh is the interval job: refresh market data only when the
// view is visible, the client is online, and the user was active
// within the activity window.
func (c *Controller) autoRefresh(ctx context.Context) error {
	c.mu.Lock()
	eligible := c.visible && c.online && c.now().Sub(c.lastActivity) <= c.cfg.GetActivityWindow()
	c.mu.Unlock()
	if !eligible {
		return nil
	}
	c.RefreshMarketData(ctx, false)
	return nil
}

// marketClockTick recomputes the open/closed flag once a minute.
func (c *Controller) marketClockTick(ctx context.Context) error {
	c.updateMarketStatus()
	return nil
}

func (c *Controller) updateMarketStatus() {
	open := c.clock.OpenAt(c.now())

	c.mu.Lock()
	changed := c.state.MarketOpen != open
	c.state.MarketOpen = open
	c.mu.Unlock()

	if changed {
		c.screen.RenderView("market-status", renderMarketStatus(open))
	}
}
