package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/partnerpay/partnerpay/internal/config"
	"github.com/partnerpay/partnerpay/internal/log"
	"github.com/partnerpay/partnerpay/internal/partners"
	"github.com/partnerpay/partnerpay/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string
	var seed bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new partnerpay project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, name, seed)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "dashboard name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().BoolVar(&seed, "seed", false, "add the sample partners")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir, name string, seed bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	// Create directory structure.
	dirs := []string{
		"data",
		"exports",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write partnerpay.yaml.
	cfg := config.Default(name)
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write .gitignore.
	gitignore := "data/\nexports/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	// Create the database.
	st, err := store.Open(ctx, cfg.DBPath(dir), log.Discard())
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	defer st.Close()

	seeded := 0
	if seed {
		for _, p := range partners.SamplePartners() {
			if _, err := st.CreatePartner(ctx, p); err != nil {
				return fmt.Errorf("seeding partners: %w", err)
			}
			seeded++
		}
	}

	fmt.Fprintf(out, "Initialized partnerpay project at %s\n", dir)
	if seeded > 0 {
		fmt.Fprintf(out, "Added %d sample partners\n", seeded)
	}
	return nil
}
