package modpilot

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/modpilot/modpilot/internal/version"
	"github.com/modpilot/modpilot/pkg/commands"
	"github.com/modpilot/modpilot/pkg/display"
	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/paths"
	"github.com/modpilot/modpilot/pkg/profile"
	"github.com/modpilot/modpilot/pkg/types"
)

// rootFlags holds the persistent flag values shared by all commands.
type rootFlags struct {
	verbosity   int
	dryRun      bool
	profileName string
	typeName    string
	formatName  string
}

func (f *rootFlags) contentType() (types.ContentType, error) {
	ct, ok := types.ParseContentType(f.typeName)
	if !ok {
		return "", errors.Newf(errors.ErrInvalidInput, "unknown content type %q", f.typeName)
	}
	return ct, nil
}

func (f *rootFlags) format() (display.Format, error) {
	format, err := display.ParseFormat(f.formatName)
	if err != nil {
		return display.FormatAuto, errors.Wrapf(err, errors.ErrInvalidInput, "invalid format %q", f.formatName)
	}
	if format == display.FormatAuto {
		format = display.DetectFormat(os.Stdout)
	}
	return format, nil
}

func (f *rootFlags) renderer() (*display.TerminalRenderer, error) {
	format, err := f.format()
	if err != nil {
		return nil, err
	}
	return display.NewTerminalRenderer(format), nil
}

func (f *rootFlags) env(cmd *cobra.Command) (*commands.Env, error) {
	ct, err := f.contentType()
	if err != nil {
		return nil, err
	}
	return commands.NewEnv(cmd.Context(), commands.EnvOptions{
		ProfileName: f.profileName,
		ContentType: ct,
	})
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "modpilot",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVarP(&flags.profileName, "profile", "p", "default", MsgFlagProfile)
	rootCmd.PersistentFlags().StringVarP(&flags.typeName, "type", "t", "mods", MsgFlagType)
	rootCmd.PersistentFlags().StringVar(&flags.formatName, "format", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newListCmd(flags))
	rootCmd.AddCommand(newToggleCmd(flags))
	rootCmd.AddCommand(newDeleteCmd(flags))
	rootCmd.AddCommand(newCheckCmd(flags))
	rootCmd.AddCommand(newUpdateCmd(flags))
	rootCmd.AddCommand(newVersionsCmd(flags))
	rootCmd.AddCommand(newSwitchCmd(flags))
	rootCmd.AddCommand(newInfoCmd(flags))
	rootCmd.AddCommand(newLoadersCmd(flags))
	rootCmd.AddCommand(newOpenCmd(flags))
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newListCmd(flags *rootFlags) *cobra.Command {
	var (
		query        string
		checkUpdates bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		Long:    MsgListLong,
		Example: MsgListExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.env(cmd)
			if err != nil {
				return err
			}
			renderer, err := flags.renderer()
			if err != nil {
				return err
			}

			result, err := commands.List(cmd.Context(), commands.ListOptions{
				Env:          env,
				Query:        query,
				CheckUpdates: checkUpdates,
			})
			if err != nil {
				return err
			}

			if format, _ := flags.format(); format == display.FormatJSON {
				out, err := display.ItemsJSON(result.Items, result.Updates)
				if err != nil {
					return err
				}
				fmt.Println(out)
				return nil
			}

			fmt.Println(renderer.RenderItemList(result.Items, result.Updates))
			if result.UpdateErr != nil {
				fmt.Fprintln(os.Stderr, renderer.RenderError(result.UpdateErr))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter items by name")
	cmd.Flags().BoolVar(&checkUpdates, "updates", false, "Also check for updates")
	return cmd
}

func newToggleCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <file>...",
		Short:   MsgToggleShort,
		Long:    MsgToggleLong,
		Example: MsgToggleExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := flags.renderer()
			if err != nil {
				return err
			}
			if flags.dryRun {
				for _, name := range args {
					fmt.Printf("would toggle %s\n", name)
				}
				fmt.Println(MsgDryRunNotice)
				return nil
			}

			env, err := flags.env(cmd)
			if err != nil {
				return err
			}
			result, err := commands.Toggle(commands.ToggleOptions{Env: env, Filenames: args})
			if err != nil {
				return err
			}
			fmt.Println(renderer.RenderBatchResult(result))
			return batchErr(result)
		},
	}
}

func newDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <file>...",
		Short:   MsgDeleteShort,
		Long:    MsgDeleteLong,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := flags.renderer()
			if err != nil {
				return err
			}
			if flags.dryRun {
				for _, name := range args {
					fmt.Printf("would delete %s\n", name)
				}
				fmt.Println(MsgDryRunNotice)
				return nil
			}

			env, err := flags.env(cmd)
			if err != nil {
				return err
			}
			result, err := commands.Delete(commands.DeleteOptions{Env: env, Filenames: args})
			if err != nil {
				return err
			}
			fmt.Println(renderer.RenderBatchResult(result))
			return batchErr(result)
		},
	}
}

func newCheckCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "check",
		Short:   MsgCheckShort,
		Long:    MsgCheckLong,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.env(cmd)
			if err != nil {
				return err
			}
			renderer, err := flags.renderer()
			if err != nil {
				return err
			}

			spinner, _ := pterm.DefaultSpinner.Start("Checking for updates...")
			result, err := commands.Check(cmd.Context(), commands.CheckOptions{Env: env})
			if spinner != nil {
				_ = spinner.Stop()
			}
			if err != nil {
				return err
			}

			if format, _ := flags.format(); format == display.FormatJSON {
				out, jerr := display.ItemsJSON(result.Items, result.Updates)
				if jerr != nil {
					return jerr
				}
				fmt.Println(out)
				if result.Err != nil {
					fmt.Fprintln(os.Stderr, renderer.RenderError(result.Err))
				}
				return nil
			}

			fmt.Println(renderer.RenderUpdateSummary(result.Items, result.Updates))
			if result.Err != nil {
				fmt.Fprintln(os.Stderr, renderer.RenderError(result.Err))
			}
			return nil
		},
	}
}

func newUpdateCmd(flags *rootFlags) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "update [file]...",
		Short:   MsgUpdateShort,
		Long:    MsgUpdateLong,
		Example: MsgUpdateExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return errors.New(errors.ErrInvalidInput, "name items to update or pass --all")
			}
			renderer, err := flags.renderer()
			if err != nil {
				return err
			}
			if flags.dryRun {
				fmt.Println("would apply pending updates")
				fmt.Println(MsgDryRunNotice)
				return nil
			}

			env, err := flags.env(cmd)
			if err != nil {
				return err
			}

			spinner, _ := pterm.DefaultSpinner.Start("Applying updates...")
			result, err := commands.Update(cmd.Context(), commands.UpdateOptions{
				Env:       env,
				Filenames: args,
				All:       all,
			})
			if spinner != nil {
				_ = spinner.Stop()
			}
			if err != nil {
				return err
			}
			fmt.Println(renderer.RenderBatchResult(result))
			return batchErr(result)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Update everything with a pending update")
	return cmd
}

func newVersionsCmd(flags *rootFlags) *cobra.Command {
	var changelog bool
	cmd := &cobra.Command{
		Use:     "versions <file>",
		Short:   MsgVersionsShort,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.env(cmd)
			if err != nil {
				return err
			}
			renderer, err := flags.renderer()
			if err != nil {
				return err
			}

			result, err := commands.Versions(cmd.Context(), commands.VersionsOptions{
				Env:      env,
				Filename: args[0],
			})
			if err != nil {
				return err
			}

			fmt.Println(renderer.RenderVersionList(result.Session))
			if changelog && len(result.Session.Versions) > 0 {
				fmt.Println()
				fmt.Println(renderer.RenderChangelog(result.Session.Versions[0].Version.Changelog))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&changelog, "changelog", false, "Show the newest version's changelog")
	return cmd
}

func newSwitchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "switch <file> <version>",
		Short:   MsgSwitchShort,
		Long:    MsgSwitchLong,
		Example: MsgSwitchExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.dryRun {
				fmt.Printf("would switch %s to %s\n", args[0], args[1])
				fmt.Println(MsgDryRunNotice)
				return nil
			}

			env, err := flags.env(cmd)
			if err != nil {
				return err
			}
			result, err := commands.Switch(cmd.Context(), commands.SwitchOptions{
				Env:      env,
				Filename: args[0],
				Version:  args[1],
			})
			if err != nil {
				return err
			}
			fmt.Printf("Switched %s to %s (%s)\n", result.From, result.Version.VersionNumber, result.To)
			return nil
		},
	}
}

func newInfoCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "info <file>",
		Short:   MsgInfoShort,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.env(cmd)
			if err != nil {
				return err
			}
			renderer, err := flags.renderer()
			if err != nil {
				return err
			}

			result, err := commands.Info(cmd.Context(), commands.InfoOptions{
				Env:      env,
				Filename: args[0],
			})
			if err != nil {
				return err
			}
			fmt.Println(renderer.RenderItemInfo(result.Item, result.Project, result.HasProject))
			return nil
		},
	}
}

func newLoadersCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "loaders [name]...",
		Short:   MsgLoadersShort,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := flags.renderer()
			if err != nil {
				return err
			}

			result, err := commands.Loaders(cmd.Context(), commands.LoadersOptions{Names: args})
			if err != nil {
				return err
			}

			for _, loader := range result.Loaders {
				fmt.Printf("%s: latest %s", loader.Name, loader.Latest)
				if loader.Release != "" && loader.Release != loader.Latest {
					fmt.Printf(", release %s", loader.Release)
				}
				fmt.Println()
			}
			for name, ferr := range result.Failures {
				fmt.Fprintln(os.Stderr, renderer.RenderError(
					errors.Wrapf(ferr, errors.ErrRegistryFetch, "loader %s", name)))
			}
			return nil
		},
	}
}

func newOpenCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "open [file]",
		Short:   MsgOpenShort,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.env(cmd)
			if err != nil {
				return err
			}

			filename := ""
			if len(args) == 1 {
				filename = args[0]
			}
			result, err := commands.Open(commands.OpenOptions{Env: env, Filename: filename})
			if err != nil {
				return err
			}

			fmt.Println(result.Target)
			if flags.dryRun {
				return nil
			}
			return browse(result.Target)
		},
	}
}

func newProfileCmd() *cobra.Command {
	profileCmd := &cobra.Command{
		Use:     "profile",
		Short:   MsgProfileShort,
		GroupID: "misc",
	}

	var (
		instance    string
		loader      string
		gameVersion string
	)
	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := paths.New("")
			if err != nil {
				return err
			}
			prof := profile.New(args[0], instance, loader, gameVersion)
			if err := prof.Save(p.ProfilesDir()); err != nil {
				return err
			}
			fmt.Printf("Created profile %q (loader %s, game %s)\n", prof.Name, prof.Loader, prof.GameVersion)
			return nil
		},
	}
	createCmd.Flags().StringVar(&instance, "instance", "", "Instance directory name")
	createCmd.Flags().StringVar(&loader, "loader", "fabric", "Mod loader")
	createCmd.Flags().StringVar(&gameVersion, "game-version", "", "Game version to filter registry lookups by")
	_ = createCmd.MarkFlagRequired("instance")
	_ = createCmd.MarkFlagRequired("game-version")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := paths.New("")
			if err != nil {
				return err
			}
			names, err := profile.List(p.ProfilesDir())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("No profiles found.")
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	profileCmd.AddCommand(createCmd)
	profileCmd.AddCommand(listCmd)
	return profileCmd
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion script",
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
}

// batchErr maps a partially failed batch to a non-zero exit without
// re-printing the failures the renderer already showed.
func batchErr(result *types.BatchResult) error {
	if result.Ok() {
		return nil
	}
	return errors.Newf(errors.ErrInternal, "%d item(s) failed", len(result.Failed))
}

// browse opens a URL or directory with the platform's opener,
// best-effort.
func browse(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	if err := cmd.Start(); err != nil {
		log.Warn().Err(err).Str("target", target).Msg("Failed to launch opener")
		return nil
	}
	return nil
}
