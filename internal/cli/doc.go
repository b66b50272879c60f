// Package cli turns the dagcd command line into an app.Config.
//
// Settings are layered: config.Default, then the HCL settings file (-config,
// or dagcd.hcl in the working directory), then the flags that were given
// explicitly. Usage mistakes come back as an *ExitError with code 2.
package cli
