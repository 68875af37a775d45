package calculator

import (
	"net/http"
	"testing"

	"kidcalc/internal/testutil"

	"github.com/go-chi/chi/v5"
)

func newRouter() http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r)
	return r
}

func TestHandleBinaryOperations(t *testing.T) {
	tests := []struct {
		path    string
		a, b    float64
		want    float64
		display string
	}{
		{"/calculator/add", 2, 3, 5, "5"},
		{"/calculator/subtract", 2, 3, -1, "-1"},
		{"/calculator/multiply", 6, 7, 42, "42"},
		{"/calculator/divide", 1, 4, 0.25, "0.25"},
		{"/calculator/power", 2, 10, 1024, "1024"},
		{"/calculator/percentage", 200, 15, 30, "30"},
	}
	h := newRouter()
	for _, tt := range tests {
		req := testutil.JSONRequest(t, http.MethodPost, tt.path, CalcRequest{A: tt.a, B: tt.b})
		rr := testutil.ExecuteRequest(req, h)
		testutil.CheckResponseCode(t, http.StatusOK, rr.Code)

		var resp CalcResponse
		testutil.DecodeJSONBody(t, rr.Body, &resp)
		if resp.Result != tt.want || resp.Display != tt.display {
			t.Fatalf("%s: expected %v (%q), got %v (%q)", tt.path, tt.want, tt.display, resp.Result, resp.Display)
		}
		if resp.B == nil || *resp.B != tt.b {
			t.Fatalf("%s: expected b to be echoed", tt.path)
		}
	}
}

func TestHandleDivideByZero(t *testing.T) {
	req := testutil.JSONRequest(t, http.MethodPost, "/calculator/divide", CalcRequest{A: 1, B: 0})
	rr := testutil.ExecuteRequest(req, newRouter())
	testutil.CheckResponseCode(t, http.StatusBadRequest, rr.Code)

	var body map[string]string
	testutil.DecodeJSONBody(t, rr.Body, &body)
	if body["error"] != FriendlyMessage(ErrDivisionByZero) {
		t.Fatalf("expected friendly message, got %q", body["error"])
	}
}

func TestHandleUnaryOperations(t *testing.T) {
	h := newRouter()

	req := testutil.JSONRequest(t, http.MethodPost, "/calculator/sqrt", UnaryRequest{Value: 81})
	rr := testutil.ExecuteRequest(req, h)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)

	var resp CalcResponse
	testutil.DecodeJSONBody(t, rr.Body, &resp)
	if resp.Result != 9 || resp.B != nil {
		t.Fatalf("expected 9 with no b, got %+v", resp)
	}

	req = testutil.JSONRequest(t, http.MethodPost, "/calculator/sqrt", UnaryRequest{Value: -1})
	testutil.CheckResponseCode(t, http.StatusBadRequest, testutil.ExecuteRequest(req, h).Code)

	req = testutil.JSONRequest(t, http.MethodPost, "/calculator/reciprocal", UnaryRequest{Value: 0})
	testutil.CheckResponseCode(t, http.StatusBadRequest, testutil.ExecuteRequest(req, h).Code)
}

func TestHandleInvalidBody(t *testing.T) {
	req := testutil.JSONRequest(t, http.MethodPost, "/calculator/add", "{not json")
	rr := testutil.ExecuteRequest(req, newRouter())
	testutil.CheckResponseCode(t, http.StatusBadRequest, rr.Code)

	var body map[string]string
	testutil.DecodeJSONBody(t, rr.Body, &body)
	if body["error"] != "invalid request body" {
		t.Fatalf("expected invalid request body, got %q", body["error"])
	}
}

func TestHandleChain(t *testing.T) {
	req := testutil.JSONRequest(t, http.MethodPost, "/calculator/chain", ChainRequest{
		Initial: 10,
		Steps: []ChainStep{
			{Op: "add", Value: 5},
			{Op: "×", Value: 2},
			{Op: "/", Value: 4},
		},
	})
	rr := testutil.ExecuteRequest(req, newRouter())
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)

	var resp ChainResponse
	testutil.DecodeJSONBody(t, rr.Body, &resp)
	if resp.Result != 7.5 || resp.Display != "7.5" {
		t.Fatalf("expected 7.5, got %+v", resp)
	}
	if len(resp.Steps) != 3 || resp.Steps[1].Op != string(OpMultiply) || resp.Steps[1].Result != 30 {
		t.Fatalf("unexpected steps %+v", resp.Steps)
	}
}

func TestHandleChainErrors(t *testing.T) {
	h := newRouter()

	req := testutil.JSONRequest(t, http.MethodPost, "/calculator/chain", ChainRequest{Initial: 1})
	testutil.CheckResponseCode(t, http.StatusBadRequest, testutil.ExecuteRequest(req, h).Code)

	req = testutil.JSONRequest(t, http.MethodPost, "/calculator/chain", ChainRequest{
		Initial: 1,
		Steps:   []ChainStep{{Op: "modulo", Value: 2}},
	})
	testutil.CheckResponseCode(t, http.StatusBadRequest, testutil.ExecuteRequest(req, h).Code)

	req = testutil.JSONRequest(t, http.MethodPost, "/calculator/chain", ChainRequest{
		Initial: 1,
		Steps:   []ChainStep{{Op: "add", Value: 1}, {Op: "÷", Value: 0}},
	})
	rr := testutil.ExecuteRequest(req, h)
	testutil.CheckResponseCode(t, http.StatusBadRequest, rr.Code)

	var body map[string]string
	testutil.DecodeJSONBody(t, rr.Body, &body)
	if body["error"] != FriendlyMessage(ErrDivisionByZero) {
		t.Fatalf("expected friendly message, got %q", body["error"])
	}
}

func TestHandleEvaluate(t *testing.T) {
	h := newRouter()

	req := testutil.JSONRequest(t, http.MethodPost, "/calculator/evaluate", EvaluateRequest{Expression: "12 × (3 + 4)"})
	rr := testutil.ExecuteRequest(req, h)
	testutil.CheckResponseCode(t, http.StatusOK, rr.Code)

	var resp EvaluateResponse
	testutil.DecodeJSONBody(t, rr.Body, &resp)
	if resp.Result != 84 || resp.Display != "84" || resp.Expression != "12 × (3 + 4)" {
		t.Fatalf("unexpected response %+v", resp)
	}

	req = testutil.JSONRequest(t, http.MethodPost, "/calculator/evaluate", EvaluateRequest{Expression: "2 ^ 8"})
	rr = testutil.ExecuteRequest(req, h)
	testutil.CheckResponseCode(t, http.StatusBadRequest, rr.Code)

	var body map[string]string
	testutil.DecodeJSONBody(t, rr.Body, &body)
	if body["error"] != FriendlyMessage(ErrSyntax) {
		t.Fatalf("expected syntax message, got %q", body["error"])
	}
}
