// Command mpcalc evaluates arithmetic expressions with correctly rounded
// arbitrary-precision binary floating-point arithmetic. It can run as a
// one-shot CLI evaluator, an interactive REPL, or an HTTP server.
package main

import (
	"context"
	"os"

	"github.com/agbru/mpcalc/internal/app"
	apperrors "github.com/agbru/mpcalc/internal/errors"
)

func main() {
	os.Exit(run())
}

func run() int {
	// --version works in any argument position
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return apperrors.ExitSuccess
	}

	a, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			return apperrors.ExitSuccess
		}
		return apperrors.ExitErrorConfig
	}

	return a.Run(context.Background(), os.Stdout)
}
