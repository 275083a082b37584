// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Open(ctx context.Context, arg domain.OpenAccountParams) (domain.Account, error)
	Get(ctx context.Context, number string) (domain.Account, error)
	Balance(ctx context.Context, number string) (domain.Money, error)
	Deposit(ctx context.Context, number string, amount domain.Money) (domain.Money, error)
	Withdraw(ctx context.Context, number string, amount domain.Money) (domain.Money, error)
	Count(ctx context.Context) (int, error)
	History(ctx context.Context, number string, limit int) ([]domain.Transaction, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) Handler {
	return Handler{service: as}
}

type data struct {
	Account domain.Account `json:"account"`
}

type balanceData struct {
	Number    string       `json:"number"`
	Balance   domain.Money `json:"balance"`
	Formatted string       `json:"formatted"`
}

type countData struct {
	Count int `json:"count"`
}

type historyData struct {
	Transactions []domain.Transaction `json:"transactions"`
}

func badRequest(gctx *gin.Context, err error) {
	zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
	gctx.JSON(http.StatusBadRequest, web.Response{Error: web.ValidationError(err)})
}

func fail(gctx *gin.Context, err error) {
	status, res := web.StatusFromError(err)

	l := zerolog.Ctx(gctx.Request.Context())
	if status == http.StatusInternalServerError {
		l.Error().Err(err).Send()
	} else {
		l.Info().Err(err).Send()
	}

	gctx.JSON(status, res)
}

type openRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Type           string `json:"type" binding:"omitempty,accounttype"`
	InitialDeposit string `json:"initial_deposit" binding:"omitempty,money"`
}

// Open handles http request to open an account.
func (h *Handler) Open(gctx *gin.Context) {
	var req openRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	typ, err := domain.ParseAccountType(req.Type)
	if err != nil {
		fail(gctx, err)
		return
	}

	arg := domain.OpenAccountParams{
		Customer: domain.Customer{FirstName: req.FirstName, LastName: req.LastName},
		Type:     typ,
	}

	if req.InitialDeposit != "" {
		deposit, err := domain.ParseMoney(req.InitialDeposit)
		if err != nil {
			fail(gctx, err)
			return
		}

		arg.InitialDeposit = &deposit
	}

	account, err := h.service.Open(gctx.Request.Context(), arg)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: data{account}})
}

type numberRequest struct {
	Number string `uri:"number" binding:"required"`
}

// Get handles http request to get account.
func (h *Handler) Get(gctx *gin.Context) {
	var req numberRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	account, err := h.service.Get(gctx.Request.Context(), req.Number)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{account}})
}

// Balance handles http request to get account balance.
func (h *Handler) Balance(gctx *gin.Context) {
	var req numberRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	balance, err := h.service.Balance(gctx.Request.Context(), req.Number)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: balanceData{
		Number:    req.Number,
		Balance:   balance,
		Formatted: balance.Formatted(),
	}})
}

type amountRequest struct {
	Amount string `json:"amount" binding:"required,money"`
}

func (h *Handler) move(gctx *gin.Context, apply func(ctx context.Context, number string, amount domain.Money) (domain.Money, error)) {
	var uri numberRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		badRequest(gctx, err)
		return
	}

	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	amount, err := domain.ParseMoney(req.Amount)
	if err != nil {
		fail(gctx, err)
		return
	}

	balance, err := apply(gctx.Request.Context(), uri.Number, amount)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: balanceData{
		Number:    uri.Number,
		Balance:   balance,
		Formatted: balance.Formatted(),
	}})
}

// Deposit handles http request to deposit money to the account.
func (h *Handler) Deposit(gctx *gin.Context) {
	h.move(gctx, h.service.Deposit)
}

// Withdraw handles http request to withdraw money from the account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	h.move(gctx, h.service.Withdraw)
}

// Count handles http request to count accounts.
func (h *Handler) Count(gctx *gin.Context) {
	n, err := h.service.Count(gctx.Request.Context())
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: countData{n}})
}

type historyRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// History handles http request to list recent account transactions.
func (h *Handler) History(gctx *gin.Context) {
	var uri numberRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		badRequest(gctx, err)
		return
	}

	var req historyRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	transactions, err := h.service.History(gctx.Request.Context(), uri.Number, req.Limit)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: historyData{transactions}})
}
