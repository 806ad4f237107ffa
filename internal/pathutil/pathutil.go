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

const appDir = "cadence"

// Paths holds all application path configurations.
type Paths struct {
	configFileName string
	dbFileName     string
	statusFileName string
	logFileName    string

	// Computed absolute paths
	configFilePath string
	dbFilePath     string
	statusFilePath string
	logFilePath    string
}

var (
	paths *Paths
	once  sync.Once
)

// Initialize must be called once at program startup.
func Initialize() error {
	var initErr error

	once.Do(func() {
		paths, initErr = newPaths()
	})

	return initErr
}

func newPaths() (*Paths, error) {
	p := &Paths{
		configFileName: "config.yml",
		dbFileName:     "cadence.db",
		statusFileName: "status.json",
		logFileName:    "cadence.log",
	}

	p.applyEnvironmentOverrides()

	return p, p.computePaths()
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

func ConfigFilePath() string {
	return Must().configFilePath
}

func DBFilePath() string {
	return Must().dbFilePath
}

func StatusFilePath() string {
	return Must().statusFilePath
}

func LogFilePath() string {
	return Must().logFilePath
}

// applyEnvironmentOverrides keeps the files of a named environment (e.g.
// CADENCE_ENV=dev) apart from the default ones.
func (p *Paths) applyEnvironmentOverrides() {
	env := strings.TrimSpace(os.Getenv("CADENCE_ENV"))
	if env == "" {
		return
	}

	p.configFileName = fmt.Sprintf("config_%s.yml", env)
	p.dbFileName = fmt.Sprintf("cadence_%s.db", env)
	p.statusFileName = fmt.Sprintf("status_%s.json", env)
	p.logFileName = fmt.Sprintf("cadence_%s.log", env)
}

func (p *Paths) computePaths() error {
	var err error

	p.configFilePath, err = xdg.ConfigFile(filepath.Join(appDir, p.configFileName))
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	p.dbFilePath, err = xdg.DataFile(filepath.Join(appDir, p.dbFileName))
	if err != nil {
		return fmt.Errorf("resolving data path: %w", err)
	}

	dataDir := filepath.Dir(p.dbFilePath)

	p.statusFilePath = filepath.Join(dataDir, p.statusFileName)

	p.logFilePath = filepath.Join(dataDir, "log", p.logFileName)

	return nil
}
