package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/suretydesk/suretydesk/internal/config"
	"github.com/suretydesk/suretydesk/internal/logging"
)

// offlineAnnotation marks commands that need neither the store nor the LLM.
const offlineAnnotation = "suretydesk/offline"

type globalOptions struct {
	configFile string
	envFile    string
	logLevel   string
	logFormat  string
}

func (o *globalOptions) bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.configFile, "config", "", "config file (default ./suretydesk.yaml or the user config dir)")
	fs.StringVar(&o.envFile, "env-file", "", "dotenv file to load (default .env)")
	fs.StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&o.logFormat, "log-format", "", "log format: auto, console, json")
}

// NewRootCmd creates the top-level "suretydesk" command. When app is not
// yet wired, the pre-run loads configuration and wires it.
func NewRootCmd(app *App) *cobra.Command {
	var opts globalOptions

	root := &cobra.Command{
		Use:           "suretydesk",
		Short:         "Guarantee-bond application intake and underwriting review",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if app.ready() || cmd.Annotations[offlineAnnotation] == "true" {
				return nil
			}
			cfg, err := config.Load(config.Options{ConfigFile: opts.configFile, EnvFile: opts.envFile})
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}
			if opts.logFormat != "" {
				cfg.Log.Format = opts.logFormat
			}
			log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			return app.wire(cmd.Context(), *cfg, log)
		},
	}
	opts.bind(root.PersistentFlags())

	root.AddCommand(
		newChecklistCmd(app),
		newReviewCmd(app),
		newReportCmd(app),
		newProjectCmd(app),
		newServeCmd(app),
	)
	return root
}
