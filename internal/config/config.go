package config

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/thoreinstein/jrnl/internal/logging"
	"github.com/thoreinstein/jrnl/internal/paths"
)

// EnvPrefix prefixes the environment variables that set options, as in
// JRNL_CONFIG_FILE.
const EnvPrefix = "JRNL"

// Option keys.
const (
	KeyConfigFile = "config_file"
	KeyLogFormat  = "log_format"
	KeyLogFile    = "log_file"
	KeyBackupDir  = "backup_dir"
)

// flagNames maps option keys to the command-line flags that set them.
var flagNames = map[string]string{
	KeyConfigFile: "config-file",
	KeyLogFormat:  "log-format",
	KeyLogFile:    "log-file",
	KeyBackupDir:  "backup-dir",
}

// Options are the per-invocation settings that live outside the journal
// settings document.
type Options struct {
	// ConfigFile is the path of the journal settings document.
	ConfigFile string `mapstructure:"config_file"`

	// LogFormat is the format of log output on stderr: text or json.
	LogFormat string `mapstructure:"log_format"`

	// LogFile, when set, also receives JSON logs.
	LogFile string `mapstructure:"log_file"`

	// BackupDir holds journal snapshots taken before editing.
	BackupDir string `mapstructure:"backup_dir"`
}

// Init registers defaults and environment lookup on v.
func Init(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyConfigFile, paths.DefaultConfigFile())
	v.SetDefault(KeyLogFormat, string(logging.FormatText))
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyBackupDir, filepath.Join(paths.DataDir(), "backups"))
}

// BindFlags binds the option flags present in flags to v. Flags that were
// set on the command line take precedence over the environment.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagNames {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "binding flag --%s", name)
		}
	}
	return nil
}

// Load resolves the options held by v.
func Load(v *viper.Viper) (*Options, error) {
	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return nil, errors.Wrap(err, "unmarshaling options")
	}

	if errs := Validate(&opts); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	configFile, err := paths.Expand(opts.ConfigFile)
	if err != nil {
		return nil, errors.Wrapf(err, "expanding config file path %q", opts.ConfigFile)
	}
	opts.ConfigFile = configFile

	backupDir, err := paths.Expand(opts.BackupDir)
	if err != nil {
		return nil, errors.Wrapf(err, "expanding backup directory %q", opts.BackupDir)
	}
	opts.BackupDir = backupDir
	return &opts, nil
}
