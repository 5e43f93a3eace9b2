package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/agenda/internal/model"
	"github.com/idilsaglam/agenda/internal/ui"
)

// agendaFile is the YAML layout used by import and export.
type agendaFile struct {
	Topics []model.AgendaItem `yaml:"topics"`
}

func newImportCommand(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Replace the agenda with topics from a YAML file",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			items, err := decodeAgenda(raw)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			if err := getApp().book.Replace(items); err != nil {
				return err
			}
			ui.OK(fmt.Sprintf("imported %d topics", len(items)))
			return nil
		},
	}
}

func newExportCommand(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the agenda as YAML to a file or stdout",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := encodeAgenda(getApp().book.Items())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err = cmd.OutOrStdout().Write(raw)
				return err
			}
			if err := os.WriteFile(args[0], raw, 0o644); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			ui.OK("exported to " + args[0])
			return nil
		},
	}
}

func decodeAgenda(raw []byte) ([]model.AgendaItem, error) {
	var f agendaFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return f.Topics, nil
}

func encodeAgenda(items []model.AgendaItem) ([]byte, error) {
	if items == nil {
		items = []model.AgendaItem{}
	}
	return yaml.Marshal(agendaFile{Topics: items})
}
