// Package config resolves per-invocation options with Viper.
//
// Options are separate from the journal settings document handled by package
// settings. They control where that document lives and how the program logs.
// Each option is resolved from, in order of precedence:
//
//  1. a command-line flag (--config-file, --log-format, --log-file)
//  2. an environment variable (JRNL_CONFIG_FILE, JRNL_LOG_FORMAT, JRNL_LOG_FILE)
//  3. a built-in default
//
// Typical use:
//
//	v := viper.New()
//	config.Init(v)
//	if err := config.BindFlags(v, cmd.Flags()); err != nil {
//	    return err
//	}
//	opts, err := config.Load(v)
package config
