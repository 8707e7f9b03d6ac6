// Command jp evaluates a JMESPath expression against a JSON document,
// in the two-binary-per-concern style of the teacher's cmd/rq / cmd/pm2rq
// layout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/theory/jsonpath"

	"github.com/jacoelho/jmespath/internal/ast"
	"github.com/jacoelho/jmespath/internal/cliconfig"
	"github.com/jacoelho/jmespath/internal/exit"
	"github.com/jacoelho/jmespath/internal/interp"
	"github.com/jacoelho/jmespath/internal/parser"
	"github.com/jacoelho/jmespath/internal/ratelimit"
	"github.com/jacoelho/jmespath/internal/value"
)

func main() {
	result := run(os.Args[1:])
	result.Print()
	os.Exit(result.ExitCode)
}

func run(args []string) *exit.Result {
	var (
		expression   string
		configPath   string
		queryName    string
		jsonpathExpr string
		stream       bool
		rate         float64
	)

	var result *exit.Result

	cmd := &cobra.Command{
		Use:   "jp [file.json]",
		Short: "Evaluate a JMESPath expression against a JSON document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result = execute(cmd, args, expression, configPath, queryName, jsonpathExpr, stream, rate)
			return nil
		},
	}
	cmd.SetArgs(args)

	cmd.Flags().StringVarP(&expression, "expression", "e", "", "JMESPath expression to evaluate")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML file of named saved queries")
	cmd.Flags().StringVarP(&queryName, "query", "q", "", "name of a saved query from --config")
	cmd.Flags().StringVar(&jsonpathExpr, "jsonpath", "", "evaluate as a JSONPath expression instead of JMESPath")
	cmd.Flags().BoolVar(&stream, "stream", false, "read newline-delimited JSON from the file argument or stdin, evaluating the expression against each line")
	cmd.Flags().Float64Var(&rate, "rate", 0, "maximum evaluations per second in --stream mode (0 = unlimited)")

	if err := cmd.Execute(); err != nil {
		return exit.Errorf("%v", err)
	}
	if result == nil {
		return exit.Errorf("no expression evaluated")
	}
	return result
}

func execute(cmd *cobra.Command, args []string, expression, configPath, queryName, jsonpathExpr string, stream bool, requestRate float64) *exit.Result {
	input := io.Reader(cmd.InOrStdin())
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return exit.Errorf("open %s: %v", args[0], err)
		}
		defer f.Close()
		input = f
	}

	if jsonpathExpr != "" {
		return runJSONPath(jsonpathExpr, input, cmd.OutOrStdout())
	}

	if queryName != "" {
		if configPath == "" {
			return exit.Errorf("--query requires --config")
		}
		cfg, err := cliconfig.Load(configPath)
		if err != nil {
			return exit.Errorf("%v", err)
		}
		resolved, err := cfg.Lookup(queryName)
		if err != nil {
			return exit.Errorf("%v", err)
		}
		expression = resolved
	}

	if expression == "" {
		return exit.Errorf("an expression is required: pass -e or -c/-q")
	}

	node, err := parser.Parse(expression)
	if err != nil {
		return exit.ParseFailure(err.Error())
	}

	if stream {
		return runStream(node, input, cmd.OutOrStdout(), requestRate)
	}
	return runOnce(node, input, cmd.OutOrStdout())
}

func runOnce(node ast.Node, input io.Reader, out io.Writer) *exit.Result {
	data, err := value.DecodeJSON(input)
	if err != nil {
		return exit.Errorf("decode JSON input: %v", err)
	}

	result, err := interp.New(nil).Eval(node, data)
	if err != nil {
		return exit.RuntimeFailure(err.Error())
	}

	encoded, err := value.MarshalOrdered(result)
	if err != nil {
		return exit.Errorf("encode result: %v", err)
	}
	fmt.Fprintln(out, string(encoded))
	return exit.Success("")
}

func runJSONPath(expr string, input io.Reader, out io.Writer) *exit.Result {
	path, err := jsonpath.Parse(expr)
	if err != nil {
		return exit.ParseFailure(fmt.Sprintf("invalid JSONPath %q: %v", expr, err))
	}

	var data any
	dec := json.NewDecoder(input)
	if err := dec.Decode(&data); err != nil {
		return exit.Errorf("decode JSON input: %v", err)
	}

	results := path.Select(data)
	encoded, err := json.Marshal(results)
	if err != nil {
		return exit.Errorf("encode result: %v", err)
	}
	fmt.Fprintln(out, string(encoded))
	return exit.Success("")
}

// runStream evaluates node against each newline-delimited JSON document read
// from input, rate-limited to requestRate evaluations per second (0 means
// unlimited), writing one JSON-encoded result per line to out.
func runStream(node ast.Node, input io.Reader, out io.Writer, requestRate float64) *exit.Result {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	limiter := ratelimit.New(requestRate)
	if err := ratelimit.RunStream(ctx, limiter, node, input, out); err != nil {
		var evalErr *ratelimit.EvalError
		if errors.As(err, &evalErr) {
			return exit.RuntimeFailure(err.Error())
		}
		return exit.Errorf("%v", err)
	}
	return exit.Success("")
}
