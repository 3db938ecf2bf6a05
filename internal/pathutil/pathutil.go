// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

const (
	appDir = "autoblock"
	envVar = "AUTOBLOCK_ENV"
)

// Paths holds all application path configurations.
type Paths struct {
	configFileName string
	dbFileName     string
	logFileName    string
	lockFileName   string

	// Computed absolute paths
	configFilePath string
	dbFilePath     string
	logFilePath    string
	lockFilePath   string
}

var (
	paths *Paths
	once  sync.Once
)

// Initialize must be called once at program startup.
func Initialize() error {
	var initErr error

	once.Do(func() {
		paths, initErr = newPaths(os.Getenv(envVar))
	})

	return initErr
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

func newPaths(env string) (*Paths, error) {
	p := &Paths{
		configFileName: "config.yml",
		dbFileName:     "autoblock.db",
		logFileName:    "autoblock.log",
		lockFileName:   "autoblock.lock",
	}

	p.applyEnvironmentOverrides(env)

	if err := p.computePaths(); err != nil {
		return nil, err
	}

	return p, nil
}

func ConfigFilePath() string {
	return Must().configFilePath
}

func DBFilePath() string {
	return Must().dbFilePath
}

func LogFilePath() string {
	return Must().logFilePath
}

// LockFilePath is the file that serialises activations.
func LockFilePath() string {
	return Must().lockFilePath
}

// applyEnvironmentOverrides suffixes every file name with env.
func (p *Paths) applyEnvironmentOverrides(env string) {
	env = strings.TrimSpace(env)
	if env == "" {
		return
	}

	p.configFileName = fmt.Sprintf("config_%s.yml", env)
	p.dbFileName = fmt.Sprintf("autoblock_%s.db", env)
	p.logFileName = fmt.Sprintf("autoblock_%s.log", env)
	p.lockFileName = fmt.Sprintf("autoblock_%s.lock", env)
}

func (p *Paths) computePaths() error {
	var err error

	p.configFilePath, err = xdg.ConfigFile(filepath.Join(appDir, p.configFileName))
	if err != nil {
		return err
	}

	p.dbFilePath, err = xdg.DataFile(filepath.Join(appDir, p.dbFileName))
	if err != nil {
		return err
	}

	dataDir := filepath.Dir(p.dbFilePath)

	p.lockFilePath = filepath.Join(dataDir, p.lockFileName)
	p.logFilePath = filepath.Join(dataDir, "log", p.logFileName)

	return nil
}
