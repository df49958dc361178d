// Package config resolves the environment-specific configuration of a
// multi-application process and checks its shape before anything else uses
// it. Process settings (environment name, working directory) are resolved with
// precedence: CLI flags > Environment variables > Defaults. The configuration
// itself is read from "<workingDirectory>/config.<environment>.<ext>" once per
// Loader and cached for the Loader's lifetime.
package config
