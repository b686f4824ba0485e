// Package file loads the application configuration from a YAML file.
//
// Loading happens once at startup; the resulting domain.Config value
// is injected into services. There is no global configuration state.
package file
