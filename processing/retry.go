package processing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wbryon/wink-ai-hackathon/errs"
)

// DefaultBudgets is the output-token ladder for JSON completions. The
// first rung fits a typical scene document; the later rungs exist
// because truncated output is retried rather than failed.
var DefaultBudgets = []int{1500, 2500, 4000}

// completeJSON runs one prompt through the budget ladder until an
// attempt yields a balanced, decodable JSON payload. Each attempt
// cleans the raw output, extracts the outermost object or array and
// checks delimiter balance before decoding into dst. When every budget
// is exhausted the caller gets a PipelineError naming the step, the
// budgets tried and the last cause.
func completeJSON(ctx context.Context, llm Completer, step, prompt string, budgets []int, audit *Audit, auditKey string, dst any) error {
	if len(budgets) == 0 {
		budgets = DefaultBudgets
	}
	var lastErr error
	for _, budget := range budgets {
		raw, err := llm.CompleteJSON(ctx, prompt, budget)
		if err != nil {
			lastErr = err
			continue
		}
		if audit != nil {
			audit.Record(auditKey, step, raw)
		}
		cleaned := CleanModelOutput(raw)
		candidate, err := ExtractJSON(cleaned)
		if err != nil {
			lastErr = err
			continue
		}
		if !Balanced(candidate) {
			lastErr = fmt.Errorf("unbalanced JSON at %d output tokens, likely truncated", budget)
			continue
		}
		if err := json.Unmarshal([]byte(candidate), dst); err != nil {
			lastErr = fmt.Errorf("decode %s output: %w", step, err)
			continue
		}
		return nil
	}
	return &errs.PipelineError{Step: step, Budgets: budgets, Cause: lastErr}
}
