package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	through "github.com/imishinist/go-through"
	"github.com/imishinist/go-through/codec"
	ext "github.com/imishinist/go-through/extension"
)

var (
	jqOutput        string
	jqHighWaterMark int
)

var jqCmd = &cobra.Command{
	Use:   "jq <filter>",
	Short: "Apply a jq filter to every input value",
	Long: `Apply a jq filter to every JSON value read from stdin, one value per line.

Every result of the filter is written to stdout. A filter error stops the
stream and is reported after the values already written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := gojq.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid jq expression %q: %w", args[0], err)
		}
		code, err := gojq.Compile(query)
		if err != nil {
			return fmt.Errorf("compile jq expression %q: %w", args[0], err)
		}
		format, err := codec.ParseFormat(jqOutput)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return through.Pipeline(ctx,
			ext.NewReaderSource(ctx, cmd.InOrStdin()),
			codec.Lines(),
			codec.Decode(codec.JSON),
			jqUnit(ctx, code, jqHighWaterMark),
			codec.Encode(format),
			ext.NewWriterSink(cmd.OutOrStdout()),
		)
	},
}

// jqUnit runs code on every chunk and pushes each result. Null results are
// not pushed.
func jqUnit(ctx context.Context, code *gojq.Code, highWaterMark int) *through.DestroyableTransform {
	return through.WithConfig(through.Config{Name: "jq", HighWaterMark: highWaterMark}, func(chunk any, _ string, next through.Callback) {
		var out []any
		iter := code.RunWithContext(ctx, chunk)
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			if err, ok := v.(error); ok {
				next(fmt.Errorf("jq error: %w", err))
				return
			}
			out = append(out, v)
		}
		if IsVerbose() {
			slog.Debug("jq: results", "count", len(out))
		}
		next(nil, out...)
	}, nil)
}

func init() {
	jqCmd.Flags().StringVarP(&jqOutput, "output", "o", "json", "output format (json, yaml, msgpack)")
	jqCmd.Flags().IntVar(&jqHighWaterMark, "high-water-mark", through.DefaultHighWaterMark, "values buffered by the filter stage")
	rootCmd.AddCommand(jqCmd)
}
