// Package cli implements keyctl, a command line client for the key dashboard API.
package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arent-kient/api-key-dashboard/internal/client"
	"github.com/arent-kient/api-key-dashboard/internal/services/keymanager"
)

// Execute creates the root command tree and runs it.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds keyctl with its own configuration
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "keyctl",
		Short: "Manage Arent Kient API keys from the command line",
		Long: `keyctl lists, creates, renames, deletes and exports API keys through the
dashboard REST API. Keys are masked unless revealed explicitly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				return v.ReadInConfig()
			}
			v.SetConfigName("keyctl")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
			v.AddConfigPath("$HOME/.keyctl")
			v.ReadInConfig() // Ignore error - config file is optional
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./keyctl.yaml)")
	flags.String("base-url", "http://localhost:8080", "dashboard server URL")
	flags.String("token", "", "session token sent as a Bearer token")
	flags.Duration("timeout", client.DefaultTimeout, "request timeout")

	v.SetEnvPrefix("KEYCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.BindPFlag("base-url", flags.Lookup("base-url"))
	v.BindPFlag("token", flags.Lookup("token"))
	v.BindPFlag("timeout", flags.Lookup("timeout"))

	app := &app{v: v}
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newGetCmd(app))
	cmd.AddCommand(newCreateCmd(app))
	cmd.AddCommand(newRenameCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newExportCmd(app))

	return cmd
}

// app resolves the configured client once flags and env are parsed
type app struct {
	v *viper.Viper
}

func (a *app) client() *client.Client {
	return client.New(a.v.GetString("base-url"), a.v.GetString("token"), a.v.GetDuration("timeout"))
}

func (a *app) manager() *keymanager.Manager {
	return keymanager.New(a.client())
}
