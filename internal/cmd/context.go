package cmd

import (
	"github.com/spf13/cobra"
)

// CommandContext holds the global flag values of one invocation
type CommandContext struct {
	ConfigFile string
	Format     string
	LogLevel   string
	LogFormat  string
	NoColor    bool
	APIURL     string

	// Changed records which of the flags above were set explicitly
	Changed map[string]bool
}

// NewCommandContext extracts the persistent flags from a command
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := &CommandContext{Changed: map[string]bool{}}

	flags := cmd.Flags()
	ctx.ConfigFile, _ = flags.GetString("config")
	ctx.Format, _ = flags.GetString("format")
	ctx.LogLevel, _ = flags.GetString("log-level")
	ctx.LogFormat, _ = flags.GetString("log-format")
	ctx.NoColor, _ = flags.GetBool("no-color")
	ctx.APIURL, _ = flags.GetString("api-url")

	for _, name := range []string{"format", "log-level", "log-format", "no-color", "api-url"} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			ctx.Changed[name] = true
		}
	}

	return ctx
}
