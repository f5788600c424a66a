package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Gunvolt24/rocketshoes_cart/pkg/validate"
)

// CLI для проверки дампов слота корзины (.json) и выгрузок корзин (.jsonl).
func main() {
	inputPath := flag.String("in", "", "path to input (.json or .jsonl). If empty, reads from stdin.")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	strict := flag.Bool("strict", false, "exit with code 1 if any jsonl line is invalid")
	flag.Parse()

	ctx := context.Background()
	cartValidator := validate.NewCartValidator()
	format := validate.InputFormat(*formatStr)

	var (
		summary validate.Summary
		err     error
	)
	if *inputPath == "" {
		// stdin: по умолчанию это дамп одного слота
		if format == validate.FormatAuto {
			format = validate.FormatJSON
		}
		summary, err = validate.ValidateReader(ctx, cartValidator, os.Stdin, format, os.Stdout)
	} else {
		summary, err = validate.ValidateFile(ctx, cartValidator, *inputPath, format, os.Stdout)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "validation: %v (%s)\n", err, summary)
		os.Exit(1)
	}
	if *strict && summary.Invalid > 0 {
		fmt.Fprintf(os.Stderr, "validation failed in strict mode (%s)\n", summary)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "validation ok (%s)\n", summary)
}
