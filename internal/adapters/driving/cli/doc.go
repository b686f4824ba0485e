// Package cli implements the ublkit command line interface.
//
// Commands are thin adapters: they parse flags, load configuration,
// construct core services and render results. All conversion logic
// lives in internal/core/services.
package cli
