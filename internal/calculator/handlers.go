package calculator

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"kidcalc/internal/handlers"
	"kidcalc/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// ---------------------------------------------------------------------------
// Binary operations
// ---------------------------------------------------------------------------

// HandleAdd handles POST /calculator/add
func HandleAdd(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, "add", func(a, b float64) (float64, error) {
		return Add(a, b), nil
	})
}

// HandleSubtract handles POST /calculator/subtract
func HandleSubtract(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, "subtract", func(a, b float64) (float64, error) {
		return Subtract(a, b), nil
	})
}

// HandleMultiply handles POST /calculator/multiply
func HandleMultiply(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, "multiply", func(a, b float64) (float64, error) {
		return Multiply(a, b), nil
	})
}

// HandleDivide handles POST /calculator/divide
func HandleDivide(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, "divide", Divide)
}

// HandlePower handles POST /calculator/power
func HandlePower(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, "power", func(a, b float64) (float64, error) {
		return Power(a, b), nil
	})
}

// HandlePercentage handles POST /calculator/percentage (b percent of a).
func HandlePercentage(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, "percentage", func(a, b float64) (float64, error) {
		return Percentage(a, b), nil
	})
}

// ---------------------------------------------------------------------------
// Unary operations
// ---------------------------------------------------------------------------

// HandleSquareRoot handles POST /calculator/sqrt
func HandleSquareRoot(w http.ResponseWriter, r *http.Request) {
	handleUnaryOp(w, r, "sqrt", SquareRoot)
}

// HandleReciprocal handles POST /calculator/reciprocal
func HandleReciprocal(w http.ResponseWriter, r *http.Request) {
	handleUnaryOp(w, r, "reciprocal", Reciprocal)
}

// HandleNegate handles POST /calculator/negate
func HandleNegate(w http.ResponseWriter, r *http.Request) {
	handleUnaryOp(w, r, "negate", func(v float64) (float64, error) {
		return Negate(v), nil
	})
}

// handleBinaryOp is the shared implementation for all binary calculator operations.
func handleBinaryOp(w http.ResponseWriter, r *http.Request, opName string, compute func(float64, float64) (float64, error)) {
	var req CalcRequest
	handleOp(w, r, opName, &req, func() ([]float64, float64, error) {
		v, err := compute(req.A, req.B)
		return []float64{req.A, req.B}, v, err
	})
}

func handleUnaryOp(w http.ResponseWriter, r *http.Request, opName string, compute func(float64) (float64, error)) {
	var req UnaryRequest
	handleOp(w, r, opName, &req, func() ([]float64, float64, error) {
		v, err := compute(req.Value)
		return []float64{req.Value}, v, err
	})
}

// handleOp decodes the body into req, runs compute and writes the result
// with a child span, metrics and a trace-correlated log line.
func handleOp(w http.ResponseWriter, r *http.Request, opName string, req any, compute func() ([]float64, float64, error)) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	start := time.Now()
	operands, result, err := compute()
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	for _, v := range operands {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid numeric input", fmt.Errorf("operands %v", operands), http.StatusBadRequest, w)
			return
		}
	}
	for i, v := range operands {
		span.SetAttributes(attribute.Float64(fmt.Sprintf("calculator.operand.%d", i), v))
	}

	if err == nil {
		result, err = CheckFinite(result)
	}
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, FriendlyMessage(err), err, http.StatusBadRequest, w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", opName), attribute.String("source", "api"))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result, attrs)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("result", result),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.Float64("calculator.result", result))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", opName),
		zap.Float64s("operands", operands),
		zap.Float64("result", result),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	resp := CalcResponse{
		Operation: opName,
		A:         operands[0],
		Result:    result,
		Display:   FormatNumber(result),
	}
	if len(operands) > 1 {
		resp.B = &operands[1]
	}
	handlers.WriteJSON(w, resp)
}

// ---------------------------------------------------------------------------
// Chained operations and free-form expressions
// ---------------------------------------------------------------------------

// HandleChain handles POST /calculator/chain. Steps fold into a running
// total, one child span per step; the first failing step aborts the chain.
func HandleChain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.chain",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req ChainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "chain", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Steps) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "chain", "no steps provided", fmt.Errorf("steps array is empty"), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.Float64("chain.initial", req.Initial),
		attribute.Int("chain.steps_count", len(req.Steps)),
	)

	running := req.Initial
	results := make([]ChainResult, 0, len(req.Steps))

	for i, step := range req.Steps {
		_, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.chain.step.%d.%s", i, step.Op),
			trace.WithAttributes(
				attribute.Int("chain.step.index", i),
				attribute.String("chain.step.operation", step.Op),
				attribute.Float64("chain.step.input", running),
				attribute.Float64("chain.step.value", step.Value),
			),
		)

		stepStart := time.Now()
		prev := running

		op, err := ParseOp(step.Op)
		if err == nil {
			running, err = Apply(running, step.Value, op)
		}
		if err == nil {
			running, err = CheckFinite(running)
		}

		stepElapsed := float64(time.Since(stepStart).Microseconds()) / 1000.0

		if err != nil {
			err = fmt.Errorf("step %d: %w", i, err)
			stepSpan.RecordError(err)
			stepSpan.SetStatus(codes.Error, err.Error())
			stepSpan.End()

			observability.RecordError(ctx, span, logger, errorCounter, step.Op, FriendlyMessage(err), err, http.StatusBadRequest, w)
			return
		}

		attrs := metric.WithAttributes(attribute.String("operation", op.Name()), attribute.String("source", "api"))
		opsCounter.Add(ctx, 1, attrs)
		opsHistogram.Record(ctx, stepElapsed, attrs)

		stepSpan.AddEvent("step.complete", trace.WithAttributes(
			attribute.Float64("input", prev),
			attribute.Float64("result", running),
		))
		stepSpan.SetStatus(codes.Ok, "")
		stepSpan.End()

		results = append(results, ChainResult{
			Op:     string(op),
			Value:  step.Value,
			Result: running,
		})
	}

	resultGauge.Record(ctx, running, metric.WithAttributes(attribute.String("operation", "chain")))
	span.SetAttributes(attribute.Float64("chain.result", running))
	span.SetStatus(codes.Ok, "")

	logger.Info("chained calculation completed",
		zap.Float64("initial", req.Initial),
		zap.Float64("result", running),
		zap.Int("steps", len(req.Steps)),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, ChainResponse{
		Initial: req.Initial,
		Steps:   results,
		Result:  running,
		Display: FormatNumber(running),
	})
}

// HandleEvaluate handles POST /calculator/evaluate.
func HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate")
	defer span.End()

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	span.SetAttributes(attribute.String("calculator.expression", req.Expression))

	result, err := Evaluate(req.Expression)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", FriendlyMessage(err), err, http.StatusBadRequest, w)
		return
	}

	opsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "evaluate"), attribute.String("source", "api")))
	span.SetStatus(codes.Ok, "")

	handlers.WriteJSON(w, EvaluateResponse{
		Expression: req.Expression,
		Result:     result,
		Display:    FormatNumber(result),
	})
}
