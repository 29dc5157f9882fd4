package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/essaydesk/internal/common"
	"github.com/dmitrijs2005/essaydesk/internal/logging"
	"github.com/dmitrijs2005/essaydesk/internal/server/models"
	"github.com/dmitrijs2005/essaydesk/internal/server/oracle"
	"golang.org/x/sync/errgroup"
)

// essayPrefixRunes is how much of the essay goes into each oracle prompt.
const essayPrefixRunes = 500

var criterionInstructions = map[models.Criterion]string{
	models.CriterionArgument:    "Rate the argumentation (1-5):",
	models.CriterionLogic:       "Rate the logic (1-5):",
	models.CriterionClarity:     "Rate the clarity (1-5):",
	models.CriterionOriginality: "Rate the originality (1-5):",
}

// Evaluator turns essay text into rubric scores by asking the oracle once
// per criterion.
type Evaluator struct {
	oracle  oracle.Oracle
	timeout time.Duration
	logger  logging.Logger
}

// NewEvaluator builds an Evaluator. A zero timeout leaves oracle calls bounded
// only by the caller's context.
func NewEvaluator(o oracle.Oracle, timeout time.Duration, l logging.Logger) *Evaluator {
	return &Evaluator{
		oracle:  o,
		timeout: timeout,
		logger:  l.With("module", "evaluator"),
	}
}

// ScoreFromConfidence maps an oracle confidence in [0, 1] onto the 1..5
// scale: c*5 rounded half-to-even to one decimal, then clamped. The decimal
// step rounds the exact binary value of c*5; scaling by 10 first would round
// twice.
func ScoreFromConfidence(c float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(c*5, 'f', 1, 64), 64)
	return math.Min(5, math.Max(1, v))
}

// Feedback renders one "Label: x.x/5.0" line per criterion in rubric order.
func Feedback(scores models.ScoreSet) string {
	lines := make([]string, 0, len(models.Criteria))
	for _, c := range models.Criteria {
		lines = append(lines, fmt.Sprintf("%s: %.1f/5.0", c.Label(), scores.Get(c)))
	}
	return strings.Join(lines, "\n")
}

// Prompt builds the oracle input for one criterion.
func Prompt(c models.Criterion, essay string) string {
	return criterionInstructions[c] + " " + essayPrefix(essay)
}

func essayPrefix(essay string) string {
	r := []rune(essay)
	if len(r) <= essayPrefixRunes {
		return essay
	}
	return string(r[:essayPrefixRunes])
}

// Evaluate scores essay on every criterion. Any oracle failure, including a
// timeout or a NaN answer, fails the whole evaluation with
// common.ErrorEvaluationFailed; no criterion ever gets a default score.
func (e *Evaluator) Evaluate(ctx context.Context, essay string) (models.ScoreSet, string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	results := make([]float64, len(models.Criteria))
	g, gctx := errgroup.WithContext(ctx)

	for i, c := range models.Criteria {
		g.Go(func() error {
			v, err := e.oracle.Score(gctx, Prompt(c, essay))
			if err != nil {
				return fmt.Errorf("%s: %w", c, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%s: oracle returned %v", c, v)
			}
			results[i] = ScoreFromConfidence(v)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.logger.Warn(ctx, "evaluation failed", "error", err)
		return models.ScoreSet{}, "", fmt.Errorf("%w: %v", common.ErrorEvaluationFailed, err)
	}

	var scores models.ScoreSet
	for i, c := range models.Criteria {
		scores.Set(c, results[i])
	}

	return scores, Feedback(scores), nil
}
