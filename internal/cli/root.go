// Package cli implementa o comando menutree, que roda as transformações da
// árvore de menus sobre um JSON exportado da API do backend.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/menu"
)

// NewRootCmd cria o comando "menutree" com todos os subcomandos.
func NewRootCmd() *cobra.Command {
	var file string

	root := &cobra.Command{
		Use:           "menutree",
		Short:         "Menu and permission tree tools for the admin console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&file, "file", "f", "-", "flat menu list JSON file, - for stdin")

	load := func(cmd *cobra.Command) (*menu.Tree, error) {
		flat, err := readFlat(cmd.InOrStdin(), file)
		if err != nil {
			return nil, err
		}
		tree := menu.Build(flat)
		if orphans := tree.Orphans(); len(orphans) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: unknown parent for %v\n", orphans)
		}
		return tree, nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "build",
			Short: "Print the nested tree",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				tree, err := load(cmd)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), tree.Forest())
			},
		},
		&cobra.Command{
			Use:   "flatten",
			Short: "Print the tree as a pre-order flat list",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				tree, err := load(cmd)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), tree.Flatten())
			},
		},
		&cobra.Command{
			Use:   "find <id>",
			Short: "Print a single menu",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				tree, err := load(cmd)
				if err != nil {
					return err
				}
				node, ok := tree.FindByID(args[0])
				if !ok {
					return fmt.Errorf("menu %s not found", args[0])
				}
				return writeJSON(cmd.OutOrStdout(), node)
			},
		},
		&cobra.Command{
			Use:   "path <id>",
			Short: "Print the chain from the root to a menu",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				tree, err := load(cmd)
				if err != nil {
					return err
				}
				path := tree.PathTo(args[0])
				if len(path) == 0 {
					return fmt.Errorf("menu %s not found", args[0])
				}
				return writeJSON(cmd.OutOrStdout(), path)
			},
		},
		newExportCmd(load),
	)

	return root
}

func newExportCmd(load func(*cobra.Command) (*menu.Tree, error)) *cobra.Command {
	var selectAll, clearAll bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the CRUD permission flags sent to the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if selectAll && clearAll {
				return fmt.Errorf("--select-all and --clear-all are mutually exclusive")
			}
			tree, err := load(cmd)
			if err != nil {
				return err
			}
			switch {
			case selectAll:
				tree = tree.SelectAll()
			case clearAll:
				tree = tree.ClearAll()
			}
			return writeJSON(cmd.OutOrStdout(), tree.ExportForAPI())
		},
	}
	cmd.Flags().BoolVar(&selectAll, "select-all", false, "select every permission before exporting")
	cmd.Flags().BoolVar(&clearAll, "clear-all", false, "clear every selection before exporting")
	return cmd
}

func readFlat(stdin io.Reader, file string) ([]menu.Node, error) {
	r := stdin
	if file != "-" && file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", file, err)
		}
		defer f.Close()
		r = f
	}

	var flat []menu.Node
	if err := json.NewDecoder(r).Decode(&flat); err != nil {
		return nil, fmt.Errorf("decoding menu list: %w", err)
	}
	return flat, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
