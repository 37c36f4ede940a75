package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paydrop/paydrop-backend/internal/adapter/httpapi"
	"github.com/paydrop/paydrop-backend/internal/adapter/ledger/memory"
	"github.com/paydrop/paydrop-backend/internal/domain"
	"github.com/paydrop/paydrop-backend/internal/usecase/disburse"
	"github.com/paydrop/paydrop-backend/internal/usecase/gate"
	"github.com/paydrop/paydrop-backend/internal/usecase/sweep"
)

const adminToken = "integration-token"

// env is a full in-process stack: HTTP router, use cases and an in-memory
// ledger, wired the same way cmd/server does it.
type env struct {
	server *httptest.Server
	ledger *memory.Ledger
	owner  uuid.UUID
	engine uuid.UUID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	owner := uuid.New()
	engine := uuid.New()
	ledger := memory.New()
	g := gate.New(owner)

	handler := httpapi.NewHandler(
		disburse.NewService(g, ledger, engine),
		sweep.NewService(g, ledger, engine),
		g,
		logger,
	)
	router := httpapi.NewRouter(handler, adminToken, logger)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &env{server: server, ledger: ledger, owner: owner, engine: engine}
}

func (e *env) post(t *testing.T, path string, body any, token string) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, e.server.URL+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// TestE2E_DisbursementLifecycle runs the full flow: fund a payer, disburse a
// token batch with an over-declared total, let excess native value strand on
// the engine, then pause, verify rejection, resume, and sweep both assets.
func TestE2E_DisbursementLifecycle(t *testing.T) {
	e := newEnv(t)

	native := domain.NativeAsset()
	tokenID := uuid.New()
	token := domain.FungibleAsset(tokenID)

	payer := uuid.New()
	alice, bob := uuid.New(), uuid.New()

	e.ledger.Credit(native, payer, dec(1000))
	e.ledger.Credit(token, payer, dec(500))
	e.ledger.Approve(token, payer, e.engine, dec(500))

	// Token batch: total 300 declared, only 250 distributed; 50 strands.
	resp := e.post(t, "/api/transfers/token", gin.H{
		"caller_id":    payer.String(),
		"token_id":     tokenID.String(),
		"recipients":   []string{alice.String(), bob.String()},
		"amounts":      []string{"100", "150"},
		"total_amount": "300",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.True(t, e.ledger.BalanceOf(token, alice).Equal(dec(100)))
	assert.True(t, e.ledger.BalanceOf(token, bob).Equal(dec(150)))
	assert.True(t, e.ledger.BalanceOf(token, e.engine).Equal(dec(50)))
	assert.True(t, e.ledger.BalanceOf(token, payer).Equal(dec(200)))
	assert.True(t, e.ledger.AllowanceOf(token, payer, e.engine).Equal(dec(200)))

	// Native batch: 100 attached, 80 distributed; 20 strands.
	resp = e.post(t, "/api/transfers/native", gin.H{
		"caller_id":  payer.String(),
		"recipients": []string{alice.String()},
		"amounts":    []string{"80"},
		"value":      "100",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.True(t, e.ledger.BalanceOf(native, alice).Equal(dec(80)))
	assert.True(t, e.ledger.BalanceOf(native, e.engine).Equal(dec(20)))

	// Pause, then a transfer is rejected without touching balances.
	resp = e.post(t, "/api/admin/pause", gin.H{"caller_id": e.owner.String()}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.post(t, "/api/transfers/native", gin.H{
		"caller_id":  payer.String(),
		"recipients": []string{bob.String()},
		"amounts":    []string{"10"},
		"value":      "10",
	}, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.True(t, e.ledger.BalanceOf(native, payer).Equal(dec(900)))

	// Deposits keep working while paused.
	resp = e.post(t, "/api/deposits", gin.H{
		"from_id": payer.String(),
		"amount":  "30",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, e.ledger.BalanceOf(native, e.engine).Equal(dec(50)))

	// Sweeping also works while paused; the owner claims both assets.
	resp = e.post(t, "/api/admin/claim", gin.H{
		"caller_id": e.owner.String(),
		"asset":     tokenID.String(),
	}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, e.ledger.BalanceOf(token, e.owner).Equal(dec(50)))
	assert.True(t, e.ledger.BalanceOf(token, e.engine).IsZero())

	resp = e.post(t, "/api/admin/claim", gin.H{
		"caller_id": e.owner.String(),
		"asset":     "native",
	}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, e.ledger.BalanceOf(native, e.owner).Equal(dec(50)))

	// Resume and verify transfers work again.
	resp = e.post(t, "/api/admin/resume", gin.H{"caller_id": e.owner.String()}, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.post(t, "/api/transfers/native", gin.H{
		"caller_id":  payer.String(),
		"recipients": []string{bob.String()},
		"amounts":    []string{"10"},
		"value":      "10",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, e.ledger.BalanceOf(native, bob).Equal(dec(10)))
}

// TestE2E_CombinedRollback verifies that a combined disbursement failing on
// its native leg undoes the token legs of earlier iterations too.
func TestE2E_CombinedRollback(t *testing.T) {
	e := newEnv(t)

	native := domain.NativeAsset()
	tokenID := uuid.New()
	token := domain.FungibleAsset(tokenID)

	payer := uuid.New()
	alice, bob := uuid.New(), uuid.New()

	e.ledger.Credit(token, payer, dec(100))
	e.ledger.Approve(token, payer, e.engine, dec(100))
	e.ledger.Credit(native, payer, dec(10))

	// Native value 10 covers alice's 10 but not bob's 10 as well.
	resp := e.post(t, "/api/transfers/combined", gin.H{
		"caller_id":      payer.String(),
		"token_id":       tokenID.String(),
		"recipients":     []string{alice.String(), bob.String()},
		"token_amounts":  []string{"40", "40"},
		"total_amount":   "80",
		"native_amounts": []string{"10", "10"},
		"value":          "10",
	}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Nothing moved: token pull, native pull and alice's sends all rolled back.
	assert.True(t, e.ledger.BalanceOf(token, payer).Equal(dec(100)))
	assert.True(t, e.ledger.AllowanceOf(token, payer, e.engine).Equal(dec(100)))
	assert.True(t, e.ledger.BalanceOf(native, payer).Equal(dec(10)))
	assert.True(t, e.ledger.BalanceOf(token, alice).IsZero())
	assert.True(t, e.ledger.BalanceOf(native, alice).IsZero())
	assert.True(t, e.ledger.BalanceOf(token, e.engine).IsZero())
}
