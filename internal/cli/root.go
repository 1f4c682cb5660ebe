// Package cli implements the filectl command line client
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"fileupload/internal/client"
	"fileupload/internal/entity"
	"fileupload/internal/logging"
	"fileupload/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix     = "FILEUPLOAD"
	defaultAPIURL = "http://localhost:8080"

	apiURLKey  = "api_url"
	verboseKey = "verbose"
)

// app carries what every command needs once flags are parsed
type app struct {
	out    io.Writer
	in     io.Reader
	log    logging.Logger
	client *client.Client
}

func (a *app) init(cmd *cobra.Command, v *viper.Viper) error {
	apiURL := strings.TrimSpace(v.GetString(apiURLKey))
	if apiURL == "" {
		return fmt.Errorf("api url is empty, set --api-url or %s_API_URL", envPrefix)
	}

	level := slog.LevelWarn
	if v.GetBool(verboseKey) {
		level = slog.LevelDebug
	}

	a.out = cmd.OutOrStdout()
	a.in = cmd.InOrStdin()
	a.log = logging.NewTextLogger(cmd.ErrOrStderr(), level)
	a.client = client.New(apiURL, client.WithLogger(a.log))
	return nil
}

func (a *app) slice(kind entity.Kind) *store.Slice {
	return store.New(kind, a.client.Resource(kind), a.log)
}

// NewRootCommand builds the filectl command tree
func NewRootCommand() *cobra.Command {
	v := viper.New()
	a := &app{}

	root := &cobra.Command{
		Use:   "filectl",
		Short: "Manage File and File Content entities of a fileupload server",
		Long: `filectl lists, creates, edits and deletes File and File Content entities.

The server address is taken from --api-url or the FILEUPLOAD_API_URL environment
variable.

Examples:
  filectl menu
  filectl file list
  filectl file create --name report --file ./report.pdf
  filectl file-content edit <id> --clear-content --file ./new.png
  filectl nav /entity/file/<id>`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, v)
		},
	}

	flags := root.PersistentFlags()
	flags.String("api-url", defaultAPIURL, "Base URL of the fileupload API")
	flags.BoolP("verbose", "v", false, "Log API traffic to stderr")
	_ = v.BindPFlag(apiURLKey, flags.Lookup("api-url"))
	_ = v.BindPFlag(verboseKey, flags.Lookup("verbose"))
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	for _, kind := range entity.Kinds() {
		root.AddCommand(newKindCommand(a, kind))
	}
	root.AddCommand(newNavCommand(a), newMenuCommand(a))
	return root
}
