package dashboard

import (
	"fmt"
	"strings"

	"github.com/ksahdev/stockdeck/internal/format"
	"github.com/ksahdev/stockdeck/internal/models"
)

// The render functions build markdown fragments for the screen. Each
// fragment fully replaces its named view; there is no diffing.

func renderNav(user *models.User) string {
	name := user.FullName
	if name == "" {
		name = user.Email
	}
	return fmt.Sprintf("# StockDeck\n\nSigned in as **%s**\n", name)
}

func renderMarketStatus(open bool) string {
	if open {
		return "**Market Open**\n"
	}
	return "**Market Closed**\n"
}

func renderMarket(snapshot models.MarketSnapshot, open bool) string {
	var sb strings.Builder

	sb.WriteString("## Market\n\n")
	sb.WriteString(renderMarketStatus(open))
	sb.WriteString("\n")

	if snapshot.Trends != nil {
		sb.WriteString("### Top Gainers\n\n")
		writeMovers(&sb, snapshot.Trends.Gainers)
		sb.WriteString("### Top Losers\n\n")
		writeMovers(&sb, snapshot.Trends.Losers)
	}

	if len(snapshot.Popular) > 0 {
		sb.WriteString("### Popular Stocks\n\n")
		sb.WriteString("| Symbol | Price | Change |\n")
		sb.WriteString("|--------|-------|--------|\n")
		for _, q := range snapshot.Popular {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
				q.Symbol, format.Currency(q.Price), format.Percent(q.ChangePercent, 2)))
		}
		sb.WriteString("\n")
	}

	if !snapshot.LastUpdated.IsZero() {
		sb.WriteString(fmt.Sprintf("_Updated %s_\n", format.DateTime(snapshot.LastUpdated)))
	}
	return sb.String()
}

func writeMovers(sb *strings.Builder, movers []models.Mover) {
	if len(movers) == 0 {
		sb.WriteString("_No data available._\n\n")
		return
	}
	sb.WriteString("| Symbol | Name | Change |\n")
	sb.WriteString("|--------|------|--------|\n")
	for _, m := range movers {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
			m.Symbol, format.Truncate(m.Name, 30), format.Percent(m.ChangePercent, 2)))
	}
	sb.WriteString("\n")
}

func renderNews(feed models.NewsFeed) string {
	var sb strings.Builder

	sb.WriteString("## Business News\n\n")
	if len(feed.Items) == 0 {
		sb.WriteString("_No news right now._\n")
		return sb.String()
	}

	for _, item := range feed.Items {
		sb.WriteString(fmt.Sprintf("- **%s**", format.Truncate(item.Title, 80)))
		if item.Source != "" {
			sb.WriteString(fmt.Sprintf(" — %s", item.Source))
		}
		sb.WriteString(fmt.Sprintf(" (%s)\n", format.Date(item.PostTimeUTC)))
		if item.URL != "" {
			sb.WriteString(fmt.Sprintf("  <%s>\n", item.URL))
		}
	}
	if feed.HasMore {
		sb.WriteString("\n_More stories available — load more._\n")
	}
	return sb.String()
}

func renderPortfolios(portfolios []models.Portfolio) string {
	var sb strings.Builder

	sb.WriteString("## Portfolios\n\n")
	if len(portfolios) == 0 {
		sb.WriteString("_No portfolios yet. Create one to get started._\n")
		return sb.String()
	}

	sb.WriteString("| Name | Holdings | Created |\n")
	sb.WriteString("|------|----------|--------|\n")
	for _, p := range portfolios {
		sb.WriteString(fmt.Sprintf("| %s | %d | %s |\n",
			p.Name, p.HoldingsCount, format.DateTime(p.CreatedAt)))
	}
	return sb.String()
}

func renderPortfolioDetail(detail *models.PortfolioDetail) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## %s\n\n", detail.Name))
	if detail.Description != "" {
		sb.WriteString(detail.Description + "\n\n")
	}

	if len(detail.Holdings) == 0 {
		sb.WriteString("_No holdings in this portfolio._\n")
		return sb.String()
	}

	sb.WriteString("| Symbol | Qty | Buy Price | Price | Value | Gain/Loss | Gain % |\n")
	sb.WriteString("|--------|-----|-----------|-------|-------|-----------|--------|\n")
	for _, h := range detail.Holdings {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s |\n",
			h.Symbol,
			fmt.Sprintf("%.2f", h.Quantity),
			format.Currency(h.PurchasePrice),
			format.Currency(h.CurrentPrice()),
			format.Currency(h.MarketValue()),
			format.CurrencySigned(h.GainLoss(), true),
			format.Percent(h.GainLossPercent(), 2)))
	}

	sb.WriteString(fmt.Sprintf("\n**Invested:** %s  \n", format.Currency(detail.TotalInvestment())))
	sb.WriteString(fmt.Sprintf("**Current Value:** %s  \n", format.Currency(detail.CurrentValue())))
	sb.WriteString(fmt.Sprintf("**Total Gain/Loss:** %s (%s)\n",
		format.CurrencySigned(detail.TotalGainLoss(), true),
		format.Percent(detail.TotalGainLossPercent(), 2)))
	return sb.String()
}

func renderSuggestions(results []models.SearchResult) string {
	if len(results) == 0 {
		return "_No matches._\n"
	}

	var sb strings.Builder
	sb.WriteString("### Matches\n\n")
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("- **%s** %s", r.Symbol, format.Truncate(r.Name, 40)))
		if r.Exchange != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", r.Exchange))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
