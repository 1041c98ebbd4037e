package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/quantumauth-io/ledger-client/internal/ledger-client/chains"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/ledger"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/snapshot"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/txflow"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/wallet"
)

type SnapshotSource interface {
	Snapshot() snapshot.Snapshot
}

type Refresher interface {
	RefreshAfterConfirmation(ctx context.Context)
}

type Transactions interface {
	Start(ctx context.Context, req txflow.Request) (txflow.Record, error)
	Records() []txflow.Record
}

type NotificationFeed interface {
	List() []txflow.Notification
}

type WalletConnector interface {
	Connect(req wallet.ConnectRequest) (common.Address, error)
	Disconnect()
	Account() (common.Address, bool)
}

type Deps struct {
	Profile       chains.Profile
	Snapshots     SnapshotSource
	Refresher     Refresher
	Transactions  Transactions
	Notifications NotificationFeed
	Wallet        WalletConnector
}

type Handler struct {
	// ctx outlives requests; transaction attempts run on it.
	ctx  context.Context
	deps Deps
}

func NewHandler(ctx context.Context, deps Deps) *Handler {
	return &Handler{ctx: ctx, deps: deps}
}

// -------- DTOs --------

type networkRes struct {
	Selector      string `json:"selector"`
	ChainID       uint64 `json:"chainId"`
	NativeSymbol  string `json:"nativeSymbol"`
	ExplorerTxURL string `json:"explorerTxUrl"`
}

type walletRes struct {
	Connected bool            `json:"connected"`
	Account   *common.Address `json:"account,omitempty"`
}

type planRes struct {
	ledger.Plan
	ProjectedReturn *decimal.Decimal `json:"projectedReturn,omitempty"`
}

type investReq struct {
	PlanID   *int   `json:"planId"`
	Amount   string `json:"amount"`
	Referrer string `json:"referrer"`
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api/network
func (h *Handler) Network(c *gin.Context) {
	p := h.deps.Profile
	c.JSON(http.StatusOK, networkRes{
		Selector:      p.Selector,
		ChainID:       p.ChainID,
		NativeSymbol:  p.NativeSymbol,
		ExplorerTxURL: p.ExplorerTxURL,
	})
}

// GET /api/plans[?amount=1.5]
// With an amount, each plan carries its projected total return for it.
func (h *Handler) Plans(c *gin.Context) {
	raw, withAmount := c.GetQuery("amount")
	var amount decimal.Decimal
	if withAmount {
		var err error
		amount, err = decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil || amount.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a non-negative decimal"})
			return
		}
	}

	plans := ledger.Plans()
	out := make([]planRes, 0, len(plans))
	for _, p := range plans {
		res := planRes{Plan: p}
		if withAmount {
			projected := p.ProjectedReturn(amount)
			res.ProjectedReturn = &projected
		}
		out = append(out, res)
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/snapshot
func (h *Handler) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Snapshots.Snapshot())
}

// POST /api/refresh
func (h *Handler) Refresh(c *gin.Context) {
	h.deps.Refresher.RefreshAfterConfirmation(c.Request.Context())
	c.JSON(http.StatusOK, h.deps.Snapshots.Snapshot())
}

// POST /api/wallet/connect
func (h *Handler) ConnectWallet(c *gin.Context) {
	var req wallet.ConnectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	addr, err := h.deps.Wallet.Connect(req)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, wallet.ErrNoSigner) || errors.Is(err, wallet.ErrPassphraseRequired) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, walletRes{Connected: true, Account: &addr})
}

// POST /api/wallet/disconnect
func (h *Handler) DisconnectWallet(c *gin.Context) {
	h.deps.Wallet.Disconnect()
	c.JSON(http.StatusOK, walletRes{Connected: false})
}

// POST /api/tx/invest
func (h *Handler) Invest(c *gin.Context) {
	var req investReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.start(c, txflow.Request{
		Kind:     txflow.KindInvest,
		PlanID:   req.PlanID,
		Amount:   req.Amount,
		Referrer: req.Referrer,
	})
}

// POST /api/tx/withdraw/:kind where kind is roi, referral or rewards.
func (h *Handler) Withdraw(c *gin.Context) {
	kind, err := txflow.ParseKind("withdraw_" + c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.start(c, txflow.Request{Kind: kind})
}

// GET /api/tx
func (h *Handler) Transactions(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Transactions.Records())
}

// GET /api/tx/:kind
func (h *Handler) Transaction(c *gin.Context) {
	kind, err := txflow.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	for _, rec := range h.deps.Transactions.Records() {
		if rec.Kind == kind {
			c.JSON(http.StatusOK, rec)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "no record"})
}

// GET /api/notifications
func (h *Handler) Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Notifications.List())
}

func (h *Handler) start(c *gin.Context, req txflow.Request) {
	rec, err := h.deps.Transactions.Start(h.ctx, req)
	switch {
	case errors.Is(err, txflow.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "record": rec})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusAccepted, rec)
	}
}
