package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"voiceforge/internal/bootstrap"
	"voiceforge/internal/domain/sample"
)

const usage = `voiceforge - voice sample validation and training readiness

Usage:
  voiceforge validate <file>          dry-run validation, store nothing
  voiceforge add <user> <file>        validate and store a sample
  voiceforge list <user>              list stored samples
  voiceforge delete <user> <record>   delete a sample
  voiceforge status <user>            training readiness verdict
  voiceforge guidelines               recording guidance
  voiceforge stats                    storage statistics

Configuration is read from config.yaml or $VOICEFORGE_CONFIG.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	app, err := bootstrap.Build(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "voiceforge: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := run(ctx, app, os.Args[1], os.Args[2:]); err != nil {
		if code, ok := sample.IsRejection(err); ok {
			printJSON(map[string]interface{}{
				"accepted": false,
				"code":     string(code),
				"reason":   err.Error(),
			})
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "voiceforge: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, app *bootstrap.App, command string, args []string) error {
	engine := app.Engine

	switch command {
	case "validate":
		if len(args) != 1 {
			return fmt.Errorf("usage: voiceforge validate <file>")
		}
		report, err := engine.ValidateFile(args[0])
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{
			"accepted": true,
			"report":   report,
		})

	case "add":
		if len(args) != 2 {
			return fmt.Errorf("usage: voiceforge add <user> <file>")
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		rec, report, err := engine.AddSample(ctx, args[0], filepath.Base(args[1]), data)
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{
			"accepted": true,
			"record":   rec,
			"report":   report,
		})

	case "list":
		if len(args) != 1 {
			return fmt.Errorf("usage: voiceforge list <user>")
		}
		records, err := engine.ListSamples(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(records)

	case "delete":
		if len(args) != 2 {
			return fmt.Errorf("usage: voiceforge delete <user> <record>")
		}
		existed, err := engine.DeleteSample(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{"deleted": existed})

	case "status":
		if len(args) != 1 {
			return fmt.Errorf("usage: voiceforge status <user>")
		}
		verdict, err := engine.CheckReadiness(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(verdict)

	case "guidelines":
		return printJSON(engine.Guidelines())

	case "stats":
		stats, err := engine.Stats(ctx)
		if err != nil {
			return err
		}
		return printJSON(stats)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func printJSON(v interface{}) error {
	out, err := sonic.ConfigDefault.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
