package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestInitGraphOrder(t *testing.T) {
	steps := InitGraph()
	want := []string{
		"config:load",
		"logging:init",
		"storage:open-database",
		"events:register-handlers",
		"engine:init",
	}
	if len(steps) != len(want) {
		t.Fatalf("unexpected step count: got %d want %d", len(steps), len(want))
	}

	seen := make(map[string]bool, len(steps))
	for i, step := range steps {
		if step.ID != want[i] {
			t.Errorf("step %d is %s, want %s", i, step.ID, want[i])
		}
		for _, dep := range step.DependsOn {
			if !seen[dep] {
				t.Errorf("step %s depends on %s, which has not run yet", step.ID, dep)
			}
		}
		seen[step.ID] = true
	}
}

func TestExecuteInitSteps_MissingDependency(t *testing.T) {
	steps := []initStep{
		{
			ID:        "second",
			DependsOn: []string{"first"},
			Execute:   func(context.Context, *appState) error { return nil },
		},
	}
	if err := executeInitSteps(context.Background(), steps, &appState{}); err == nil {
		t.Fatal("expected unsatisfied dependency error")
	}
}

func TestSmokeBuild(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf(`log:
  log_dir: %q
storage:
  data_dir: %q
  db_file: %q
`,
		filepath.Join(dir, "logs"),
		filepath.Join(dir, "user_data"),
		filepath.Join(dir, "index.db"),
	)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("VOICEFORGE_CONFIG", cfgPath)

	app, err := Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer app.Close()

	if app.Engine == nil {
		t.Fatal("engine is nil")
	}
	if app.Config.Storage.DataDir != filepath.Join(dir, "user_data") {
		t.Errorf("data dir %q not taken from config", app.Config.Storage.DataDir)
	}
}
