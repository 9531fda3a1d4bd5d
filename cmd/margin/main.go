package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"

	"margin/pkg/ai"
	_ "margin/pkg/ai/providers"
	"margin/pkg/assistant"
	"margin/pkg/config"
	"margin/pkg/explorer"
	"margin/pkg/keymap"
	"margin/pkg/logging"
	"margin/pkg/sidebar"
	"margin/pkg/surface"
	"margin/pkg/ui"
	"margin/pkg/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("margin %s %s\n", version.Summary(), version.Platform())
		return
	}

	configPath := config.GetConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if _, err := logging.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
	}
	slog.Info("margin_started", "version", version.Summary(), "config_path", configPath)

	sf := surface.New("")
	reg := sidebar.NewRegistry()

	session := assistant.NewSession(ai.DefaultRegistry,
		assistant.WithTemperature(cfg.Generation.Temperature),
		assistant.WithMaxTokens(cfg.Generation.MaxTokens),
		assistant.WithTimeout(cfg.Generation.APITimeoutSeconds),
	)

	if err := reg.RegisterPanel(explorer.PanelSpec()); err != nil {
		fatal("register explorer panel", err)
	}
	if err := reg.RegisterPanel(assistant.PanelSpec(session)); err != nil {
		fatal("register assistant panel", err)
	}

	exts := []surface.Extension{explorer.Extension(), assistant.Extension()}
	for _, sb := range cfg.Sidebars {
		exts = append(exts, sidebar.New(reg, sb.ID, sidebarOptions(sb)...))
	}
	sf.Use(exts...)

	router := keymap.NewRouter(reg)
	for _, sb := range cfg.Sidebars {
		router.Bind(keymap.Binding{
			Chord:     sb.Keymap.Chord,
			Mac:       sb.Keymap.Mac,
			Win:       sb.Keymap.Win,
			SidebarID: sb.ID,
		})
	}

	seedWorkspace(sf, cfg)

	workdir, err := os.Getwd()
	if err != nil {
		workdir = "."
	}

	m := ui.New(sf, reg, router, workdir)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		slog.Error("program_failed", "error", err)
		fmt.Fprintf(os.Stderr, "error running program: %v\n", err)
		os.Exit(1)
	}

	reg.Dispose()
	slog.Info("margin_stopped")
}

func fatal(what string, err error) {
	slog.Error("startup_failed", "step", what, "error", err)
	fmt.Fprintf(os.Stderr, "failed to %s: %v\n", what, err)
	os.Exit(1)
}

func sidebarOptions(sb config.SidebarConfig) []sidebar.Option {
	opts := []sidebar.Option{sidebar.WithDock(sidebar.Dock(sb.Dock))}
	if sb.WidthPx != 0 {
		opts = append(opts, sidebar.WithWidth(sb.WidthPx))
	}
	if sb.Overlay != nil {
		opts = append(opts, sidebar.WithOverlay(*sb.Overlay))
	}
	if sb.InitiallyOpen {
		opts = append(opts, sidebar.WithInitiallyOpen(true))
	}
	if sb.InitialPanel != "" {
		opts = append(opts, sidebar.WithInitialPanel(sb.InitialPanel))
	}
	return opts
}

// seedWorkspace loads the demo project, the configured model, and any stored
// API keys into the surface.
func seedWorkspace(sf *surface.Surface, cfg config.Config) {
	var effects []surface.Effect

	effects = append(effects,
		explorer.SetProjectNameEffect{Name: "margin"},
		explorer.UpdateFilesEffect{Files: demoFiles()},
	)

	if model := ai.ModelID(cfg.DefaultModel); model != "" {
		if _, ok := ai.LookupModel(model); ok {
			effects = append(effects, assistant.SelectModelEffect{Model: model})
		} else {
			slog.Warn("unknown_default_model", "model", cfg.DefaultModel)
		}
	}

	for name, key := range cfg.APIKeys {
		pt, ok := ai.ValidateProviderType(name)
		if !ok {
			slog.Warn("unknown_provider_key", "provider", name)
			continue
		}
		effects = append(effects, assistant.SetAPIKeyEffect{Provider: pt, Key: key})
	}

	sf.Dispatch(surface.Transaction{Effects: effects})
	explorer.OpenFile(sf, "main.go")
}

func demoFiles() []explorer.File {
	return []explorer.File{
		{Name: "main.go", Content: "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hello from margin\")\n}\n"},
		{Name: "notes.md", Content: "# Notes\n\nOpen the assistant with the right sidebar chord.\n"},
		{Name: "src/parser.go", Content: "package src\n\n// Parse splits the input into fields.\nfunc Parse(s string) []string {\n\treturn nil\n}\n"},
		{Name: "src/parser_test.go", Content: "package src\n\nimport \"testing\"\n\nfunc TestParse(t *testing.T) {}\n"},
	}
}
