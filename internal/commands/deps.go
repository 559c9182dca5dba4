package commands

import (
	"fmt"
	"os"

	"github.com/diogo/dualchat/internal/config"
	"github.com/diogo/dualchat/internal/history"
	"github.com/diogo/dualchat/internal/logging"
	"github.com/diogo/dualchat/internal/storage"
	"github.com/diogo/dualchat/internal/tui"
)

// runSelector launches the interactive picker. A variable so tests can
// substitute a canned result.
var runSelector = func(store *history.Store) (tui.SelectorResult, error) {
	return tui.RunSelector(store)
}

// openStore opens the persistent backend and loads the conversation store.
// The returned closer must be called before the process exits.
func openStore() (*history.Store, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		// A broken config file should not lock users out of their data
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}

	path, err := config.StatePath(cfg)
	if err != nil {
		return nil, nil, err
	}

	backend, err := storage.OpenBolt(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open state database: %w", err)
	}

	log := logging.New(verboseFlag || cfg.Verbose)
	store := history.NewStore(backend, log)

	closer := func() {
		if err := backend.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close state database: %v\n", err)
		}
	}
	return store, closer, nil
}

// reportPersistWarning prints a non-fatal notice when the last write to the
// backend failed. The in-memory operation already succeeded.
func reportPersistWarning(store *history.Store) {
	if err := store.PersistWarning(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: changes may not be saved: %v\n", err)
	}
}
