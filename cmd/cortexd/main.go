// Package main implements the cortexd CLI: a thin cobra front end over the
// engine facade, exposing the daemon loop and one-shot autonomous-layer
// operations (rule derivation, schema discovery, gap analysis).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cortexd/internal/agent"
	"cortexd/internal/config"
	"cortexd/internal/engine"
	"cortexd/internal/gap"
	"cortexd/internal/logging"
	"cortexd/internal/rules"
	"cortexd/internal/schema"
	"cortexd/internal/store"
	"cortexd/internal/vsa"
)

var (
	workspace string
	verbose   bool
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cortexd",
	Short: "cortexd - a neuro-symbolic knowledge engine daemon",
	Long: `cortexd fuses a vector-symbolic knowledge graph with a forward-chaining
rule engine and an OODA-loop agent that reasons over it. Run "serve" to start
the daemon, or use the one-shot subcommands to drive a single pass.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}

		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "warning: file logging not initialized: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "workspace directory (default: current)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level process logging")

	rulesCmd.AddCommand(rulesRunCmd)
	schemaCmd.AddCommand(schemaDiscoverCmd)
	gapCmd.AddCommand(gapAnalyzeCmd)
	rootCmd.AddCommand(serveCmd, rulesCmd, schemaCmd, gapCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the agent daemon: OODA cycles and trigger evaluation",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, st, cfg, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()

		tools := agent.NewToolRegistry()
		a := agent.NewAgent(e, cfg.Agent.WorkingMemoryCapacity, tools)
		triggerStore := agent.NewTriggerStore(st)
		daemon := agent.NewDaemon(a, triggerStore, cfg.AgentDaemonConfig(), func() uint64 { return uint64(nowUnix()) })

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		logger.Info("cortexd daemon starting", zap.String("workspace", workspace))
		if err := daemon.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("daemon exited with error", zap.Error(err))
			return err
		}
		logger.Info("cortexd daemon stopped cleanly")
		return nil
	},
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "forward-chaining rule engine operations",
}

var rulesRunCmd = &cobra.Command{
	Use:   "run",
	Short: "run one forward-chaining pass over the knowledge graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, st, cfg, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := rules.New(cfg.Rules).Run(e)
		if err != nil {
			return fmt.Errorf("run rules: %w", err)
		}
		fmt.Printf("derived %d triples over %d iterations (fixpoint=%v)\n", len(result.Derived), result.Iterations, result.ReachedFixpoint)
		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "schema discovery operations",
}

var schemaDiscoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "discover type clusters, co-occurrences, and hierarchies",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, st, cfg, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := schema.Discover(e, cfg.Schema)
		if err != nil {
			return fmt.Errorf("discover schema: %w", err)
		}
		fmt.Printf("discovered %d types, %d co-occurrences, %d hierarchies\n",
			len(result.Types), len(result.CoOccurringPredicates), len(result.RelationHierarchies))
		return nil
	},
}

var gapCmd = &cobra.Command{
	Use:   "gap",
	Short: "gap analysis operations",
}

var gapAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "analyze the graph for dead ends and missing predicates",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, st, cfg, err := openEngine()
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := gap.Analyze(e, nil, cfg.Gap)
		if err != nil {
			return fmt.Errorf("analyze gaps: %w", err)
		}
		fmt.Printf("analyzed %d entities, %d dead ends, coverage=%.2f, %d gaps\n",
			result.EntitiesAnalyzed, result.DeadEnds, result.CoverageScore, len(result.Gaps))
		return nil
	},
}

func openEngine() (*engine.Engine, *store.Store, config.Config, error) {
	ws := workspace
	if ws == "" {
		ws, _ = os.Getwd()
	}
	cfg, err := config.Load(config.WorkspaceConfigPath(ws))
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("load config: %w", err)
	}

	st, err := store.Open(filepath.Join(ws, cfg.Store.Path))
	if err != nil {
		return nil, nil, cfg, fmt.Errorf("open store: %w", err)
	}

	ops := vsa.NewDefault(vsa.Dimension(cfg.VSA.Dimension), cfg.Encoding())
	return engine.New(ops, st), st, cfg, nil
}

func nowUnix() int64 { return time.Now().Unix() }

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
