// Package templates embeds the starter configuration written by
// `evalgroups init`.
package templates

import _ "embed"

// ConfigFileName is the file init writes when no path is given.
const ConfigFileName = "evalgroups.yaml"

//go:embed config.yaml
var Config []byte
