package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	mrand "math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablescore/internal/access"
	"github.com/playmatatu/tablescore/internal/backgammon"
	"github.com/playmatatu/tablescore/internal/game"
	"github.com/playmatatu/tablescore/internal/roster"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{game.ErrTableNotFound, http.StatusNotFound},
		{game.ErrTableFinished, http.StatusConflict},
		{game.ErrRackOver, http.StatusConflict},
		{game.ErrTooManyTables, http.StatusServiceUnavailable},
		{game.ErrWrongPIN, http.StatusForbidden},
		{fmt.Errorf("%w: %q", roster.ErrNameTooShort, "a"), http.StatusBadRequest},
		{access.ErrPINRequired, http.StatusBadRequest},
		{access.ErrPINTooLong, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestBackgammonOpeningDeterministic(t *testing.T) {
	seeded := func() *mrand.Rand { return mrand.New(mrand.NewPCG(11, 7)) }
	r := gin.New()
	r.POST("/opening", BackgammonOpening(seeded))

	call := func() []byte {
		body, _ := json.Marshal(gin.H{"players": []string{"Ana", "Beto"}})
		req := httptest.NewRequest(http.MethodPost, "/opening", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status %d: %s", w.Code, w.Body.String())
		}
		return w.Body.Bytes()
	}

	first := call()
	if !bytes.Equal(first, call()) {
		t.Error("same seed should give the same opening")
	}

	var out struct {
		Colors  map[string]backgammon.Color `json:"colors"`
		Opening backgammon.Opening          `json:"opening"`
		Starter string                      `json:"starter"`
		Dice    [2]int                      `json:"dice"`
	}
	if err := json.Unmarshal(first, &out); err != nil {
		t.Fatal(err)
	}
	if out.Colors["Ana"] == out.Colors["Beto"] {
		t.Errorf("players share a color: %v", out.Colors)
	}
	if out.Colors[out.Starter] != out.Opening.Starter {
		t.Errorf("starter %s has color %s, opening says %s", out.Starter, out.Colors[out.Starter], out.Opening.Starter)
	}
	if out.Dice[0] <= out.Dice[1] {
		t.Errorf("starter should hold the higher die: %v", out.Dice)
	}
}

func TestBackgammonOpeningRejectsSameName(t *testing.T) {
	r := gin.New()
	r.POST("/opening", BackgammonOpening(DefaultRand))
	body, _ := json.Marshal(gin.H{"players": []string{"Ana", " ana "}})
	req := httptest.NewRequest(http.MethodPost, "/opening", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status %d, want 400", w.Code)
	}
}
