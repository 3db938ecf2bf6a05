package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/autoblock/activation"
	"github.com/ayoisaiah/autoblock/blocker"
	"github.com/ayoisaiah/autoblock/credential"
	"github.com/ayoisaiah/autoblock/internal/config"
	"github.com/ayoisaiah/autoblock/internal/pathutil"
	"github.com/ayoisaiah/autoblock/internal/timeutil"
	"github.com/ayoisaiah/autoblock/launchagent"
	"github.com/ayoisaiah/autoblock/report"
	"github.com/ayoisaiah/autoblock/store"
	"github.com/ayoisaiah/autoblock/watcher"
)

// historyRetention is how long activation records are kept.
const historyRetention = 90 * 24 * time.Hour

// activator runs one activation and everything that follows it.
type activator struct {
	cfg     *config.Config
	tool    *blocker.Tool
	now     func() time.Time
	trigger string
	// configFile is passed on to the re-arm agent when set.
	configFile string
}

func newActivator(cfg *config.Config, trigger, configFile string) *activator {
	return &activator{
		cfg:        cfg,
		tool:       newTool(cfg),
		now:        time.Now,
		trigger:    trigger,
		configFile: configFile,
	}
}

// run keeps the tool active until target and records the activation.
func (a *activator) run(ctx context.Context, target time.Time) error {
	rec := &store.Activation{
		StartedAt: a.now(),
		Target:    target,
		Trigger:   a.trigger,
	}

	opts := []activation.Option{
		activation.WithAttemptTimeout(a.cfg.Settings.AttemptTimeout),
		activation.WithRetryDelay(a.cfg.Settings.RetryDelay),
		activation.WithObserver(func(o blocker.Outcome) {
			rec.Attempts++
			rec.Minutes = o.Minutes
		}),
	}

	opts = append(opts, a.credentialOptions()...)

	c := activation.New(a.tool, pathutil.LockFilePath(), opts...)

	err := c.EnsureActiveUntil(ctx, target)
	if errors.Is(err, activation.ErrAlreadyRunning) {
		return err
	}

	rec.EndedAt = a.now()
	rec.Result, rec.Error = classify(rec.Attempts, err)

	a.record(rec)
	a.notify(rec)

	if errors.Is(err, activation.ErrTargetPassed) {
		slog.Info("no block started before target", slog.Time("target", target))
		return nil
	}

	if err != nil {
		return err
	}

	if rec.Result == store.ResultStarted {
		if err := runBlockCmd(a.cfg.Settings.Cmd); err != nil {
			pterm.Warning.Printfln("unable to run block command: %v", err)
		}
	}

	return a.followUp(ctx, target)
}

// credentialOptions enables password injection when auto_password is set
// and a password is stored. A missing password only disables injection.
func (a *activator) credentialOptions() []activation.Option {
	if !a.cfg.Settings.AutoPassword {
		return nil
	}

	ks, err := credential.NewStore()
	if err != nil {
		slog.Warn("keychain unavailable", slog.Any("error", err))
		return nil
	}

	secret, err := ks.Get()
	if err != nil {
		slog.Warn("no stored password, prompt will not be answered", slog.Any("error", err))
		pterm.Warning.Println("auto_password is enabled but no password is stored: run set-password")

		return nil
	}

	creds := &credential.State{}

	w := watcher.New(watcher.NewFrontmost(), watcher.NewKeystrokes(), creds)
	w.HelperApp = a.cfg.Settings.HelperApp
	w.SettleDelay = a.cfg.Settings.SettleDelay

	return []activation.Option{
		activation.WithCredential(creds, secret),
		activation.WithConsumer(w),
	}
}

// classify maps the result of an activation to a history record.
func classify(attempts int, err error) (store.Result, string) {
	switch {
	case errors.Is(err, activation.ErrTargetPassed):
		return store.ResultTargetPassed, ""
	case err == nil && attempts == 0:
		return store.ResultAlreadyActive, ""
	case err == nil:
		return store.ResultStarted, ""
	case errors.Is(err, context.Canceled):
		return store.ResultInterrupted, err.Error()
	default:
		return store.ResultFailed, err.Error()
	}
}

// record saves rec and prunes old records. History is best effort.
func (a *activator) record(rec *store.Activation) {
	db, err := store.NewClient(pathutil.DBFilePath())
	if err != nil {
		slog.Warn("unable to open history", slog.Any("error", err))
		return
	}

	defer db.Close()

	if err = db.SaveActivation(rec); err != nil {
		slog.Warn("unable to save activation", slog.Any("error", err))
		return
	}

	n, err := db.DeleteActivations(a.now().Add(-historyRetention))
	if err != nil {
		slog.Warn("unable to prune history", slog.Any("error", err))
		return
	}

	if n > 0 {
		slog.Debug("pruned history", slog.Int("count", n))
	}
}

func (a *activator) notify(rec *store.Activation) {
	if !a.cfg.Notifications.Enabled {
		return
	}

	title, msg := notification(rec)
	if title == "" {
		return
	}

	err := beeep.Notify(title, msg, "")
	if err != nil {
		pterm.Error.Printfln("unable to display notification: %v", err)
	}
}

// notification returns the title and body to show for rec, or an empty
// title if nothing changed.
func notification(rec *store.Activation) (title, msg string) {
	switch rec.Result {
	case store.ResultStarted:
		return "Block started", fmt.Sprintf(
			"SelfControl is blocking until %s",
			rec.Target.Format("15:04"),
		)
	case store.ResultFailed:
		return "Block not started", rec.Error
	}

	return "", ""
}

// runBlockCmd executes the command set in settings.cmd.
func runBlockCmd(blockCmd string) error {
	if blockCmd == "" {
		return nil
	}

	cmdSlice, err := shellquote.Split(blockCmd)
	if err != nil {
		return fmt.Errorf("unable to parse cmd option: %w", err)
	}

	if len(cmdSlice) == 0 {
		return nil
	}

	cmd := exec.Command(cmdSlice[0], cmdSlice[1:]...)

	return cmd.Run()
}

// followUp probes the tool after a successful activation and schedules a
// re-arm if its block ends before target.
func (a *activator) followUp(ctx context.Context, target time.Time) error {
	state, err := a.tool.CurrentState(ctx)
	if err != nil {
		return err
	}

	if !state.Active {
		slog.Info("tool inactive after activation", slog.Time("target", target))
		return nil
	}

	report.Active(state.Until)

	at, ok := rearmAt(state, target)
	if !ok {
		clearRearm(ctx, a.cfg.Paths.LaunchAgents)
		return nil
	}

	p, err := rearmPlist(timeutil.ClockOf(at), a.configFile)
	if err != nil {
		return err
	}

	installer := launchagent.NewInstaller(a.cfg.Paths.LaunchAgents)

	if err := installer.Install(ctx, p); err != nil {
		return err
	}

	slog.Info(
		"re-arm scheduled",
		slog.Time("tool_end", state.Until),
		slog.Time("target", target),
		slog.Time("at", at),
	)

	report.Rearm(at)

	return nil
}

// clearRearm removes a leftover re-arm agent. Calendar agents fire every
// day, so it must not outlive the block it was installed for.
func clearRearm(ctx context.Context, dir string) {
	removed, err := launchagent.NewInstaller(dir).RemoveIfInstalled(ctx, launchagent.RearmLabel)
	if err != nil {
		slog.Warn("unable to remove re-arm agent", slog.Any("error", err))
		return
	}

	if removed {
		slog.Info("re-arm agent removed")
	}
}

// rearmAt returns the start of the minute after the tool's block ends, if
// that block ends before target.
func rearmAt(state blocker.State, target time.Time) (time.Time, bool) {
	if !state.Active || !state.Until.Before(target) {
		return time.Time{}, false
	}

	return state.Until.Truncate(time.Minute).Add(time.Minute), true
}

// rearmPlist returns the calendar agent that runs execute at the given
// time of day.
func rearmPlist(at timeutil.Clock, configFile string) (*launchagent.Plist, error) {
	program, err := os.Executable()
	if err != nil {
		return nil, err
	}

	return &launchagent.Plist{
		Label:    launchagent.RearmLabel,
		Program:  program,
		Args:     executeArgs(configFile),
		Calendar: []timeutil.Clock{at},
	}, nil
}

// executeArgs returns the arguments that run the execute command with
// configFile, or the default config if it is empty.
func executeArgs(configFile string) []string {
	if configFile == "" {
		return []string{"execute"}
	}

	return []string{"--config", configFile, "execute"}
}
