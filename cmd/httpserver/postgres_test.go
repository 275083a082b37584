//go:build integration

package httpserver_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/integrationtest"
)

func TestPostgresTransfer(t *testing.T) {
	server := integrationtest.SetupServer(t)

	from := integrationtest.SeedAccount(t, server.DB, domain.Checking, "200")
	to := integrationtest.SeedAccount(t, server.DB, domain.Checking, "100")

	code, res := call[any](t, server, http.MethodPost, "/transfers", gin.H{
		"from_account_number": from.Number,
		"to_account_number":   to.Number,
		"amount":              "75",
	})
	require.Equal(t, http.StatusOK, code, res.Error)

	fromBalance, err := server.Ledger.Balance(context.Background(), from.Number)
	require.NoError(t, err)
	require.Equal(t, "125.00", fromBalance.String())

	toBalance, err := server.Ledger.Balance(context.Background(), to.Number)
	require.NoError(t, err)
	require.Equal(t, "175.00", toBalance.String())

	code, res = call[any](t, server, http.MethodPost, "/transfers", gin.H{
		"from_account_number": from.Number,
		"to_account_number":   "0",
		"amount":              "10",
	})
	require.Equal(t, http.StatusNotFound, code, res.Error)
}

func TestPostgresConcurrentOppositeTransfers(t *testing.T) {
	server := integrationtest.SetupServer(t)

	a := integrationtest.SeedAccount(t, server.DB, domain.Business, "1000")
	b := integrationtest.SeedAccount(t, server.DB, domain.Business, "1000")

	const n = 20

	var wg sync.WaitGroup

	wg.Add(n)

	for i := 0; i < n; i++ {
		from, to := a.Number, b.Number
		if i%2 == 1 {
			from, to = to, from
		}

		go func() {
			defer wg.Done()

			_, err := server.Ledger.Transfer(context.Background(), domain.TransferParams{
				FromAccountNumber: from,
				ToAccountNumber:   to,
				Amount:            domain.MustParseMoney("10"),
			})
			require.NoError(t, err)
		}()
	}

	wg.Wait()

	balanceA, err := server.Ledger.Balance(context.Background(), a.Number)
	require.NoError(t, err)
	require.Equal(t, "1000.00", balanceA.String())
}
