package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/minibot"
	"github.com/aretw0/minibot/pkg/calc"
	"github.com/aretw0/minibot/pkg/intents"
	"github.com/aretw0/minibot/pkg/runner"
)

// Calc evaluates expr once and prints the result the way the bot would.
// With tree set, the parsed expression is printed fully parenthesized first.
// Evaluation failures are printed, not returned; the returned error reports IO and
// expressions over the input size limit.
func Calc(ctx context.Context, w io.Writer, expr string, tree bool) error {
	if len(expr) > runner.MaxInputSize() {
		return fmt.Errorf("expression rejected: %w", runner.ErrInputTooLarge)
	}
	if tree {
		parsed, err := calc.Parse(expr)
		if err != nil {
			_, werr := fmt.Fprintf(w, "Hesaplanamadı: %s\n", intents.DescribeEvalError(err))
			return werr
		}
		if _, err := fmt.Fprintln(w, calc.String(parsed)); err != nil {
			return err
		}
	}

	v, err := minibot.New().Evaluate(ctx, expr)
	if err != nil {
		_, werr := fmt.Fprintf(w, "Hesaplanamadı: %s\n", intents.DescribeEvalError(err))
		return werr
	}
	_, err = fmt.Fprintf(w, "Sonuç: %s\n", calc.Format(v))
	return err
}
