package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/efi-capital/portfolio-tracker/internal/activity"
	"github.com/efi-capital/portfolio-tracker/internal/config"
	"github.com/efi-capital/portfolio-tracker/internal/logger"
	"github.com/efi-capital/portfolio-tracker/internal/model"
	"github.com/efi-capital/portfolio-tracker/internal/store"
	"github.com/efi-capital/portfolio-tracker/internal/valuation"
)

const (
	_flashCookie      = "flash"
	_expirationLayout = "2006-01-02"
)

type Store interface {
	GetSettings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, originalCapital float64) error

	ListEquities(ctx context.Context) ([]model.EquityPosition, error)
	GetEquity(ctx context.Context, ticker string) (model.EquityPosition, error)
	UpsertEquity(ctx context.Context, p model.EquityPosition) error
	DeleteEquity(ctx context.Context, ticker string) error

	ListOptions(ctx context.Context) ([]model.OptionPosition, error)
	GetOption(ctx context.Context, id int64) (model.OptionPosition, error)
	InsertOption(ctx context.Context, p model.OptionPosition) (int64, error)
	UpdateOption(ctx context.Context, p model.OptionPosition) error
	DeleteOption(ctx context.Context, id int64) error

	ListPerformance(ctx context.Context) ([]model.PerformanceSnapshot, error)
	RecentActivity(ctx context.Context, limit int) ([]model.ActivityEntry, error)
	InsertActivity(ctx context.Context, message string) error
}

type EquityQuoter interface {
	LastClose(ctx context.Context, ticker string) (float64, error)
}

type OptionQuoter interface {
	MidPrice(ctx context.Context, symbol, expiration string, strike float64, callPut model.CallPut) (float64, error)
}

type Refresher interface {
	RunOnce(ctx context.Context) error
}

type Handlers struct {
	store     Store
	equity    EquityQuoter
	chain     OptionQuoter
	refresher Refresher
	sessions  *SessionManager
	formatter *activity.Formatter
	cfg       config.Config
	logger    logger.Logger
}

func NewHandlers(
	store Store,
	equity EquityQuoter,
	chain OptionQuoter,
	refresher Refresher,
	sessions *SessionManager,
	formatter *activity.Formatter,
	cfg config.Config,
	logger logger.Logger,
) *Handlers {
	return &Handlers{
		store:     store,
		equity:    equity,
		chain:     chain,
		refresher: refresher,
		sessions:  sessions,
		formatter: formatter,
		cfg:       cfg,
		logger:    logger,
	}
}

// equityRow adds the derived display columns next to the stored position.
type equityRow struct {
	model.EquityPosition
	PositionValue  float64
	Invested       float64
	PctOfPortfolio float64
}

type optionRow struct {
	model.OptionPosition
	PositionValue  float64
	Invested       float64
	PctOfPortfolio float64
}

func (h *Handlers) dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	flash, isErr := h.takeFlash(c)

	if session := sessionFrom(c); session != nil && session.BeginRefresh() {
		if err := h.refresher.RunOnce(ctx); err != nil {
			h.logger.Errorf("%s: session refresh failed", err)
			if flash == "" {
				flash, isErr = "Price refresh failed, showing stored values.", true
			}
		}
	}

	settings, err := h.store.GetSettings(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}
	equities, err := h.store.ListEquities(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}
	options, err := h.store.ListOptions(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}
	entries, err := h.store.RecentActivity(ctx, h.cfg.Activity.DisplayLimit)
	if err != nil {
		h.renderError(c, err)
		return
	}
	performance, err := h.store.ListPerformance(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}

	totals := valuation.Totals(equities, options, settings.OriginalCapital)

	equityRows := make([]equityRow, 0, len(equities))
	for _, p := range equities {
		row := equityRow{
			EquityPosition: p,
			PositionValue:  p.SharesHeld * p.CurrentPrice,
			Invested:       p.SharesHeld * p.AvgCost,
		}
		if totals.TotalValue > 0 {
			row.PctOfPortfolio = row.PositionValue / totals.TotalValue * 100
		}
		equityRows = append(equityRows, row)
	}

	optionRows := make([]optionRow, 0, len(options))
	for _, p := range options {
		row := optionRow{
			OptionPosition: p,
			PositionValue:  p.ContractsHeld * model.ContractMultiplier * p.CurrentPrice,
			Invested:       p.ContractsHeld * model.ContractMultiplier * p.AvgCost,
		}
		if totals.TotalValue > 0 {
			row.PctOfPortfolio = row.PositionValue / totals.TotalValue * 100
		}
		optionRows = append(optionRows, row)
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Settings":    settings,
		"Totals":      totals,
		"Equities":    equityRows,
		"Options":     optionRows,
		"Activity":    entries,
		"Performance": performance,
		"Flash":       flash,
		"FlashIsErr":  isErr,
	})
}

func (h *Handlers) saveSettings(c *gin.Context) {
	capital, err := strconv.ParseFloat(c.PostForm("original_capital"), 64)
	if err != nil {
		h.redirectFlash(c, "Original capital must be a number.", true)
		return
	}

	if err := h.store.SaveSettings(c.Request.Context(), capital); err != nil {
		h.logger.Errorf("%s: can't save settings", err)
		h.redirectFlash(c, "Saving settings failed.", true)
		return
	}
	h.redirectFlash(c, "Saved original capital.", false)
}

func (h *Handlers) submitEquity(c *gin.Context) {
	ctx := c.Request.Context()

	ticker := strings.ToUpper(strings.TrimSpace(c.PostForm("ticker")))
	if ticker == "" {
		h.redirectFlash(c, "Ticker is required.", true)
		return
	}
	delta, err := strconv.ParseFloat(c.PostForm("delta"), 64)
	if err != nil {
		h.redirectFlash(c, "Shares to add must be a number.", true)
		return
	}
	fillPrice, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || fillPrice < 0 {
		h.redirectFlash(c, "Fill price must be a non-negative number.", true)
		return
	}

	old, err := h.store.GetEquity(ctx, ticker)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.renderError(c, err)
		return
	}

	newQty, newAvg, closed, err := valuation.ApplyDelta(old.SharesHeld, old.AvgCost, delta, fillPrice)
	if errors.Is(err, valuation.ErrNegativeQuantity) {
		h.redirectFlash(c, "Cannot have negative total shares.", true)
		return
	}

	if closed {
		if delta == 0 {
			h.redirectFlash(c, "Nothing to update for "+ticker+".", false)
			return
		}
		if err := h.store.DeleteEquity(ctx, ticker); err != nil {
			h.renderError(c, err)
			return
		}
		h.logTrade(ctx, h.formatter.EquityTrade(ticker, delta, fillPrice))
		h.redirectFlash(c, "Position closed for "+ticker+".", false)
		return
	}

	currentPrice, err := h.equity.LastClose(ctx, ticker)
	if err != nil {
		h.logger.Warnf("%s: can't price %s on submit", err, ticker)
		h.redirectFlash(c, "Could not fetch a current price for "+ticker+", nothing saved.", true)
		return
	}

	if err := h.store.UpsertEquity(ctx, model.EquityPosition{
		Ticker:       ticker,
		SharesHeld:   newQty,
		AvgCost:      newAvg,
		CurrentPrice: currentPrice,
		UnrealizedPL: valuation.UnrealizedPL(currentPrice, newAvg, newQty, 1),
	}); err != nil {
		h.renderError(c, err)
		return
	}

	if delta != 0 {
		h.logTrade(ctx, h.formatter.EquityTrade(ticker, delta, fillPrice))
	}
	h.redirectFlash(c, "Updated "+ticker+".", false)
}

func (h *Handlers) deleteEquity(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.PostForm("ticker")))
	if ticker == "" {
		h.redirectFlash(c, "Ticker is required.", true)
		return
	}
	if err := h.store.DeleteEquity(c.Request.Context(), ticker); err != nil {
		h.renderError(c, err)
		return
	}
	h.redirectFlash(c, "Deleted "+ticker+" position.", false)
}

func (h *Handlers) submitOption(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		position model.OptionPosition
		isNew    bool
	)

	if idField := strings.TrimSpace(c.PostForm("id")); idField != "" {
		id, err := strconv.ParseInt(idField, 10, 64)
		if err != nil {
			h.redirectFlash(c, "Bad option id.", true)
			return
		}
		position, err = h.store.GetOption(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			h.redirectFlash(c, "Option not found.", true)
			return
		}
		if err != nil {
			h.renderError(c, err)
			return
		}
	} else {
		isNew = true
		position.Symbol = strings.ToUpper(strings.TrimSpace(c.PostForm("symbol")))
		position.CallPut = model.CallPut(strings.ToUpper(c.PostForm("call_put")))
		position.Expiration = strings.TrimSpace(c.PostForm("expiration"))

		strike, err := strconv.ParseFloat(c.PostForm("strike"), 64)
		if err != nil || strike <= 0 {
			h.redirectFlash(c, "Strike must be a positive number.", true)
			return
		}
		position.Strike = strike

		if position.Symbol == "" {
			h.redirectFlash(c, "Symbol is required.", true)
			return
		}
		if !position.CallPut.Valid() {
			h.redirectFlash(c, "Side must be CALL or PUT.", true)
			return
		}
		if _, err := time.Parse(_expirationLayout, position.Expiration); err != nil {
			h.redirectFlash(c, "Expiration must be YYYY-MM-DD.", true)
			return
		}
	}

	delta, err := strconv.ParseFloat(c.PostForm("delta"), 64)
	if err != nil {
		h.redirectFlash(c, "Contracts to add must be a number.", true)
		return
	}
	fillPrice, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil || fillPrice < 0 {
		h.redirectFlash(c, "Fill price must be a non-negative number.", true)
		return
	}

	newQty, newAvg, closed, err := valuation.ApplyDelta(position.ContractsHeld, position.AvgCost, delta, fillPrice)
	if errors.Is(err, valuation.ErrNegativeQuantity) {
		h.redirectFlash(c, "Cannot have negative total contracts.", true)
		return
	}

	if closed {
		if isNew || delta == 0 {
			h.redirectFlash(c, "Nothing to update.", false)
			return
		}
		if err := h.store.DeleteOption(ctx, position.ID); err != nil {
			h.renderError(c, err)
			return
		}
		h.logTrade(ctx, h.formatter.OptionTrade(
			position.Symbol, position.CallPut, position.Expiration, position.Strike, delta, fillPrice,
		))
		h.redirectFlash(c, "Option closed out entirely.", false)
		return
	}

	// mid-price failures block the edit: a row priced off a missing or
	// crossed quote is worse than no row
	currentPrice, err := h.chain.MidPrice(ctx, position.Symbol, position.Expiration, position.Strike, position.CallPut)
	if err != nil {
		h.logger.Warnf("%s: can't price option %s on submit", err, position.Symbol)
		h.redirectFlash(c, "Option quote lookup failed: "+err.Error(), true)
		return
	}

	position.ContractsHeld = newQty
	position.AvgCost = newAvg
	position.CurrentPrice = currentPrice
	position.UnrealizedPL = valuation.UnrealizedPL(currentPrice, newAvg, newQty, model.ContractMultiplier)

	if isNew {
		if _, err := h.store.InsertOption(ctx, position); err != nil {
			h.renderError(c, err)
			return
		}
	} else {
		if err := h.store.UpdateOption(ctx, position); err != nil {
			h.renderError(c, err)
			return
		}
	}

	if delta != 0 {
		h.logTrade(ctx, h.formatter.OptionTrade(
			position.Symbol, position.CallPut, position.Expiration, position.Strike, delta, fillPrice,
		))
	}
	h.redirectFlash(c, "Updated option "+position.Symbol+".", false)
}

func (h *Handlers) deleteOption(c *gin.Context) {
	id, err := strconv.ParseInt(c.PostForm("id"), 10, 64)
	if err != nil {
		h.redirectFlash(c, "Bad option id.", true)
		return
	}
	if err := h.store.DeleteOption(c.Request.Context(), id); err != nil {
		h.renderError(c, err)
		return
	}
	h.redirectFlash(c, "Deleted option.", false)
}

// logTrade is best-effort: a failed audit write shouldn't undo a trade
// that already committed.
func (h *Handlers) logTrade(ctx context.Context, message string) {
	if err := h.store.InsertActivity(ctx, message); err != nil {
		h.logger.Errorf("%s: can't log activity", err)
	}
}

func (h *Handlers) renderError(c *gin.Context, err error) {
	h.logger.Errorf("%s: request failed", err)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Error": "The store is unreachable, nothing was saved. Try again.",
	})
}

func (h *Handlers) redirectFlash(c *gin.Context, message string, isErr bool) {
	if isErr {
		message = "!" + message
	}
	c.SetCookie(_flashCookie, message, 30, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handlers) takeFlash(c *gin.Context) (string, bool) {
	value, err := c.Cookie(_flashCookie)
	if err != nil {
		return "", false
	}
	c.SetCookie(_flashCookie, "", -1, "/", "", false, true)

	if strings.HasPrefix(value, "!") {
		return strings.TrimPrefix(value, "!"), true
	}
	return value, false
}
