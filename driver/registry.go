/*
DESCRIPTION
  registry.go is the driver-selection front door: the reserved "null"
  name and a small set of built-ins resolve without touching disk;
  anything else is probed for as a dynamically loaded Go plugin along
  driver_path, per the discovery rule in the plugin host design.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package driver

import "fmt"

// builtins is the registry of drivers that resolve without going through
// the dynamic loader. "null" is reserved by the spec and always present;
// the rest ship in this module but are still ordinary entries.
var builtins = map[string]Factory{
	"null":   newNullDriver,
	"file":   newFileDriver,
	"serial": newSerialDriver,
	"i2c":    newI2CDriver,
}

// Open resolves name to a fresh, unopened Driver: a built-in first, then
// a dynamically loaded plugin found by searching path (platform path-list
// separator, e.g. ":" on unix, ";" on windows). An empty or "null" name
// always yields the built-in no-op driver.
func Open(name, path string) (Driver, error) {
	if name == "" {
		name = "null"
	}
	if f, ok := builtins[name]; ok {
		return f(), nil
	}
	return loadPlugin(name, path)
}
