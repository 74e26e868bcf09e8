package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arent-kient/api-key-dashboard/internal/keycodec"
	"github.com/arent-kient/api-key-dashboard/internal/models"
	"github.com/arent-kient/api-key-dashboard/internal/services/keymanager"
)

// ---------- list ----------

func newListCmd(a *app) *cobra.Command {
	var (
		reveal     []string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all API keys",
		Example: `  keyctl list
  keyctl list --reveal 3f1c...,9a2b...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.manager()
			if result := m.Refresh(cmd.Context()); !result.Success {
				return errors.New(result.Error)
			}
			for _, id := range reveal {
				m.ToggleVisibility(strings.TrimSpace(id))
			}
			return printKeys(cmd.OutOrStdout(), m, jsonOutput)
		},
	}

	cmd.Flags().StringSliceVar(&reveal, "reveal", nil, "IDs of keys to show unmasked")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

type keyRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Usage        int    `json:"usage"`
	MonthlyLimit *int   `json:"monthly_limit"`
	Key          string `json:"key"`
}

func printKeys(w io.Writer, m *keymanager.Manager, jsonOutput bool) error {
	snap := m.Snapshot()
	rows := make([]keyRow, len(snap.Keys))
	for i, k := range snap.Keys {
		rows[i] = keyRow{
			ID:           k.ID,
			Name:         k.Name,
			Type:         k.Type,
			Usage:        k.Usage,
			MonthlyLimit: k.MonthlyLimit,
			Key:          m.DisplayValue(k.Key, k.ID),
		}
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No API keys found. Use 'keyctl create' to create one.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-20s  %-4s  %-12s  %s\n", "ID", "NAME", "TYPE", "USAGE", "KEY")
	for _, k := range rows {
		fmt.Fprintf(w, "%-36s  %-20s  %-4s  %-12s  %s\n", k.ID, k.Name, k.Type, usage(k.Usage, k.MonthlyLimit), k.Key)
	}
	fmt.Fprintf(w, "\nTotal usage: %d\n", snap.TotalUsage())
	return nil
}

func usage(used int, limit *int) string {
	if limit == nil {
		return fmt.Sprintf("%d", used)
	}
	return fmt.Sprintf("%d/%d", used, *limit)
}

// ---------- get ----------

func newGetCmd(a *app) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.client().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printKey(cmd.OutOrStdout(), key, reveal)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "Show the key unmasked")

	return cmd
}

func printKey(w io.Writer, key *models.APIKey, reveal bool) {
	value := keycodec.Mask(key.Key)
	if reveal {
		value = key.Key
	}
	fmt.Fprintf(w, "  ID:      %s\n", key.ID)
	fmt.Fprintf(w, "  Name:    %s\n", key.Name)
	fmt.Fprintf(w, "  Type:    %s\n", key.Type)
	fmt.Fprintf(w, "  Usage:   %s\n", usage(key.Usage, key.MonthlyLimit))
	fmt.Fprintf(w, "  Key:     %s\n", value)
	fmt.Fprintf(w, "  Created: %s\n", key.CreatedAt.Format("2006-01-02 15:04:05"))
}

// ---------- create ----------

func newCreateCmd(a *app) *cobra.Command {
	var (
		name    string
		keyType string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new API key",
		Long:  "Generate a new API key. Without --limit the key has no monthly limit.",
		Example: `  keyctl create --name "CI pipeline" --type production --limit 1000
  keyctl create`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := a.manager()
			result := m.Create(cmd.Context(), name, keyType, limit > 0, limit)
			if !result.Success {
				return fmt.Errorf("failed to create API key: %s", result.Error)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key created successfully")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Key name (default \""+models.DefaultKeyName+"\")")
	cmd.Flags().StringVar(&keyType, "type", "development", "Key type: development or production")
	cmd.Flags().IntVar(&limit, "limit", 0, "Monthly usage limit (0 for none)")

	return cmd
}

// ---------- rename ----------

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename an API key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := a.manager().Rename(cmd.Context(), args[0], args[1])
			if !result.Success {
				return fmt.Errorf("failed to update API key: %s", result.Error)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key updated successfully")
			return nil
		},
	}
}

// ---------- delete ----------

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an API key",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := a.manager().Remove(cmd.Context(), args[0])
			if !result.Success {
				return fmt.Errorf("failed to delete API key: %s", result.Error)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key deleted successfully")
			return nil
		},
	}
}

// ---------- export ----------

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download all API keys as an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := a.client().Export(cmd.Context(), f); err != nil {
				f.Close()
				os.Remove(output)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported API keys to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "api_keys.xlsx", "Output file")

	return cmd
}
