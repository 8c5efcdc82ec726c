/*
DESCRIPTION
  plugin_loader.go implements driver discovery: given a driver name and a
  platform path-list, probe each directory for a file matching the
  platform's shared-library template and load the first readable match
  using Go's plugin package. A version mismatch against the symbol the
  plugin exports is a fatal load error.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"plugin"
	"runtime"
	"strings"
)

// fileTemplate returns the platform's shared-library filename for a
// driver name: "atmo_<name>_driver.so" on unix-like platforms, the
// Windows ".dll" equivalent otherwise. Go's plugin package only
// supports linux/darwin/freebsd at build time; callers on other
// platforms will simply never find a match and get a clear error.
func fileTemplate(name string) string {
	ext := ".so"
	if runtime.GOOS == "windows" {
		ext = ".dll"
	}
	return "atmo_" + name + "_driver" + ext
}

// PluginFactory is the symbol every dynamically loaded driver plugin
// must export: a zero-argument constructor plus the ABI version it was
// built against.
type PluginFactory interface {
	New() Driver
	ABIVersion() int
}

// loadPlugin searches path (a platform path-list, os.PathListSeparator
// separated) for the first readable file matching fileTemplate(name),
// opens it as a Go plugin, and resolves its "Factory" symbol.
func loadPlugin(name, path string) (Driver, error) {
	tmpl := fileTemplate(name)
	for _, dir := range strings.Split(path, string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}
		full := filepath.Join(dir, tmpl)
		if _, err := os.Stat(full); err != nil {
			continue
		}

		p, err := plugin.Open(full)
		if err != nil {
			return nil, fmt.Errorf("driver: plugin %q failed to load: %w", full, err)
		}
		sym, err := p.Lookup("Factory")
		if err != nil {
			return nil, fmt.Errorf("driver: plugin %q has no Factory symbol: %w", full, err)
		}
		factory, ok := sym.(PluginFactory)
		if !ok {
			return nil, fmt.Errorf("driver: plugin %q Factory has the wrong type", full)
		}
		if factory.ABIVersion() != Version {
			return nil, fmt.Errorf("driver: plugin %q ABI version %d, want %d", full, factory.ABIVersion(), Version)
		}
		return factory.New(), nil
	}
	return nil, fmt.Errorf("driver: no plugin named %q found in %q", name, path)
}
