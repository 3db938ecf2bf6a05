package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/autoblock/blocker"
	"github.com/ayoisaiah/autoblock/credential"
	"github.com/ayoisaiah/autoblock/internal/apperr"
	"github.com/ayoisaiah/autoblock/internal/config"
	"github.com/ayoisaiah/autoblock/internal/logging"
	"github.com/ayoisaiah/autoblock/internal/osutil"
	"github.com/ayoisaiah/autoblock/internal/pathutil"
	"github.com/ayoisaiah/autoblock/internal/schedule"
	"github.com/ayoisaiah/autoblock/internal/ui"
	"github.com/ayoisaiah/autoblock/launchagent"
	"github.com/ayoisaiah/autoblock/report"
)

const (
	envNoColor          = "NO_COLOR"
	envAutoblockNoColor = "AUTOBLOCK_NO_COLOR"
)

var (
	errNotDarwin = &apperr.Error{
		Message: "SelfControl is only available on macOS",
	}

	errNoDuration = &apperr.Error{
		Message: "specify how long to block with --minutes or --until",
	}

	errEditor = &apperr.Error{
		Message: "unable to parse editor command %q",
	}
)

var logCloser io.Closer

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

func configPath(ctx *cli.Context) string {
	return firstNonEmptyString(ctx.String("config"), pathutil.ConfigFilePath())
}

func loadConfig(ctx *cli.Context, opts ...config.Option) (*config.Config, error) {
	path := configPath(ctx)

	opts = append(opts, config.WithViperConfig(path), config.WithCLIConfig(ctx))

	return config.New(opts...)
}

func newTool(cfg *config.Config) *blocker.Tool {
	return blocker.New(
		cfg.Paths.SelfControl,
		blocker.NewDefaults(blocker.PreferenceDomain),
	)
}

// executeAction starts SelfControl for the rest of the current block, if
// any. It is what the launch agent runs.
func executeAction(ctx *cli.Context) error {
	if !osutil.IsDarwin() {
		return errNotDarwin
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if err = cfg.ValidatePaths(); err != nil {
		return err
	}

	block, ok := schedule.Resolve(cfg.Schedule, time.Now())
	if !ok {
		slog.Debug("no block scheduled")
		clearRearm(ctx.Context, cfg.Paths.LaunchAgents)
		report.NoBlock()

		return nil
	}

	slog.Info(
		"block scheduled",
		slog.Time("start", block.Start),
		slog.Time("end", block.End),
	)

	return newActivator(cfg, "execute", ctx.String("config")).run(ctx.Context, block.End)
}

// startAction keeps SelfControl active for an ad-hoc period.
func startAction(ctx *cli.Context) error {
	if !osutil.IsDarwin() {
		return errNotDarwin
	}

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if err = cfg.ValidatePaths(); err != nil {
		return err
	}

	target := cfg.CLI.Until
	if cfg.CLI.Minutes > 0 {
		target = time.Now().Add(time.Duration(cfg.CLI.Minutes) * time.Minute)
	}

	if target.IsZero() {
		return errNoDuration
	}

	return newActivator(cfg, "start", ctx.String("config")).run(ctx.Context, target)
}

// statusAction prints the state of SelfControl, the current block and the
// installed launch agents.
func statusAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	now := time.Now()

	if block, ok := schedule.Resolve(cfg.Schedule, now); ok {
		pterm.Info.Printfln(
			"scheduled block: %s to %s",
			ui.Cyan(block.Start.Format("Mon 15:04")),
			ui.Cyan(block.End.Format("Mon 15:04")),
		)
	} else {
		report.NoBlock()
	}

	installer := launchagent.NewInstaller(cfg.Paths.LaunchAgents)

	for _, label := range []string{launchagent.MainLabel, launchagent.RearmLabel} {
		state := ui.Red("not installed")
		if installer.Installed(label) {
			state = ui.Green("installed")
		}

		pterm.Info.Printfln("%s: %s", label, state)
	}

	if !osutil.IsDarwin() {
		return nil
	}

	state, err := newTool(cfg).CurrentState(ctx.Context)
	if err != nil {
		return err
	}

	if state.Active {
		report.Active(state.Until)
	} else {
		pterm.Info.Println("SelfControl is " + ui.Yellow(state))
	}

	return nil
}

// deployAction installs the launch agent that runs execute every
// check_interval and at the start of every block.
func deployAction(ctx *cli.Context) error {
	path := configPath(ctx)

	cfg, err := loadConfig(ctx, config.WithPromptConfig(path))
	if err != nil {
		return err
	}

	if err = cfg.ValidatePaths(); err != nil {
		return err
	}

	p, err := executePlist(ctx, launchagent.MainLabel)
	if err != nil {
		return err
	}

	p.Interval = cfg.Settings.CheckInterval
	p.Calendar = cfg.Schedule.Starts()
	p.RunAtLoad = true

	installer := launchagent.NewInstaller(cfg.Paths.LaunchAgents)

	if err = installer.Install(ctx.Context, p); err != nil {
		return err
	}

	report.Installed(p.Label, installer.Path(p.Label))

	return nil
}

// removeAction uninstalls both launch agents.
func removeAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	installer := launchagent.NewInstaller(cfg.Paths.LaunchAgents)

	labels := []string{launchagent.RearmLabel, launchagent.MainLabel}

	for _, label := range labels {
		if err := installer.Remove(ctx.Context, label); err != nil {
			return err
		}
	}

	report.Removed(labels...)

	return nil
}

// executePlist returns an agent that runs this binary's execute command
// with the same config file.
func executePlist(ctx *cli.Context, label string) (*launchagent.Plist, error) {
	program, err := os.Executable()
	if err != nil {
		return nil, err
	}

	return &launchagent.Plist{
		Label:   label,
		Program: program,
		Args:    executeArgs(ctx.String("config")),
	}, nil
}

// setPasswordAction stores or deletes the login password in the keychain.
func setPasswordAction(ctx *cli.Context) error {
	ks, err := credential.NewStore()
	if err != nil {
		return err
	}

	if ctx.Bool("delete") {
		if err := ks.Delete(); err != nil {
			return err
		}

		pterm.Success.Println("password removed from the keychain")

		return nil
	}

	password, err := config.PromptPassword()
	if err != nil {
		return err
	}

	if err := ks.Set(password); err != nil {
		return err
	}

	report.PasswordSaved()

	return nil
}

// writeConfigAction writes the annotated example config.
func writeConfigAction(ctx *cli.Context) error {
	path := configPath(ctx)

	if err := config.WriteExample(path, ctx.Bool("force")); err != nil {
		return err
	}

	report.ConfigWritten(path)

	return nil
}

// editConfigAction handles the edit-config command which opens the config
// file in the user's default text editor.
func editConfigAction(ctx *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == osutil.Windows {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	args, err := shellquote.Split(editor)
	if err != nil || len(args) == 0 {
		return errEditor.Fmt(editor)
	}

	args = append(args, configPath(ctx))

	cmd := exec.Command(args[0], args[1:]...)

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	// Override the default version printer
	oldVersionPrinter := cli.VersionPrinter
	cli.VersionPrinter = func(c *cli.Context) {
		oldVersionPrinter(c)
		fmt.Printf(
			"https://github.com/ayoisaiah/autoblock/releases/%s\n",
			c.App.Version,
		)
	}

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	_, noColor := os.LookupEnv(envNoColor)
	_, autoblockNoColor := os.LookupEnv(envAutoblockNoColor)

	if noColor || autoblockNoColor || ctx.Bool("no-color") {
		ui.DisableStyling()
	}

	if err := pathutil.Initialize(); err != nil {
		return err
	}

	closer, err := logging.Setup(logging.Options{
		Path:  pathutil.LogFilePath(),
		Debug: ctx.Bool("debug"),
	})
	if err != nil {
		// logging is best effort when the data directory is not writable
		pterm.Warning.Printfln("unable to open log file: %v", err)
		return nil
	}

	logCloser = closer

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.DebugContext(ctx.Context, "exiting autoblock")

	if logCloser == nil {
		return nil
	}

	err := logCloser.Close()
	if errors.Is(err, os.ErrClosed) {
		return nil
	}

	return err
}
