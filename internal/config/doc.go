// Package config loads ffdash's TOML configuration file.
//
// Key types:
//   - Config: top-level configuration (paths, logging, hardware, scheduler, tools, profiles)
//   - Profile: one named encoding profile, later snapshotted into an encodeconfig.Config
//
// Primary entry points:
//   - Default: repository defaults
//   - Load: locate, parse, normalize, and validate a config file
//   - CreateSample: write the embedded sample config to disk
package config
