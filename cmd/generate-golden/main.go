// Command generate-golden regenerates the evaluator golden file. Each case
// is evaluated at twice the target precision and then rounded back, so the
// stored decimal strings are correct roundings of the true values.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agbru/mpcalc/internal/bigfloat"
	"github.com/agbru/mpcalc/internal/eval"
)

// GoldenData represents a single test case in the golden file.
type GoldenData struct {
	Expression string `json:"expression"`
	Prec       uint   `json:"prec"`
	Result     string `json:"result"`
}

func main() {
	outputDir := flag.String("out", "internal/eval/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "eval_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	// A mix of exact rational results and transcendental values across a
	// few precisions. Exact cases guard the parser and the basic
	// operations; the rest guard the correctly rounded function results.
	expressions := []string{
		"6*7",
		"1/4",
		"3/2",
		"2^-3",
		"sqrt(16)",
		"10/4",
		"7 % 3",
		"1e3 + 1",
		"(2+3)*4",
		"sqrt(2)",
		"pi",
		"exp(1)",
		"log(2)",
		"sin(1)",
		"atan(1)*4",
	}
	precisions := []uint{64, 128, 256}

	var data []GoldenData

	fmt.Println("Generating golden data...")

	for _, src := range expressions {
		for _, prec := range precisions {
			res, err := oracle(src, prec)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error evaluating %q: %v\n", src, err)
				os.Exit(1)
			}
			data = append(data, GoldenData{
				Expression: src,
				Prec:       prec,
				Result:     res,
			})
			fmt.Printf("Generated %q at %d bits\n", src, prec)
		}
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated golden file at %s\n", filename)
}

// oracle evaluates the expression at doubled working precision and rounds
// the value back to the target precision. The guard bits absorb the
// per-node rounding of the evaluator, so the decimal string round-trips to
// the correctly rounded result.
func oracle(src string, prec uint) (string, error) {
	ev := eval.NewEvaluator(2*prec, bigfloat.ToNearestEven, nil)
	wide, err := ev.Evaluate(src)
	if err != nil {
		return "", err
	}
	rounded := bigfloat.New(prec).Set(wide)
	return rounded.Text('g', -1), nil
}
