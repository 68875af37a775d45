package calculator

// CalcRequest is the JSON body for binary operations.
type CalcRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// UnaryRequest is the JSON body for sqrt, reciprocal and negate.
type UnaryRequest struct {
	Value float64 `json:"value"`
}

// CalcResponse is the JSON response for the arithmetic endpoints. The
// request ID travels in the X-Request-ID header only.
type CalcResponse struct {
	Operation string   `json:"operation"`
	A         float64  `json:"a"`
	B         *float64 `json:"b,omitempty"`
	Result    float64  `json:"result"`
	Display   string   `json:"display"`
}

// ChainStep describes a single step in a chained calculation.
type ChainStep struct {
	Op    string  `json:"op"`    // "add", "subtract", "multiply", "divide" or a keypad glyph
	Value float64 `json:"value"` // the operand applied with the running total
}

// ChainRequest is the JSON body for POST /calculator/chain.
type ChainRequest struct {
	Initial float64     `json:"initial"` // starting value
	Steps   []ChainStep `json:"steps"`
}

// ChainResponse is the JSON response for POST /calculator/chain.
type ChainResponse struct {
	Initial float64       `json:"initial"`
	Steps   []ChainResult `json:"steps"`
	Result  float64       `json:"result"`
	Display string        `json:"display"`
}

// ChainResult records one executed step.
type ChainResult struct {
	Op     string  `json:"op"`
	Value  float64 `json:"value"`
	Result float64 `json:"result"`
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Expression string  `json:"expression"`
	Result     float64 `json:"result"`
	Display    string  `json:"display"`
}
