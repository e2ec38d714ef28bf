package config

import (
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/thoreinstein/jrnl/internal/paths"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	Init(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	opts, err := Load(newViper(t))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if opts.ConfigFile != paths.DefaultConfigFile() {
		t.Errorf("ConfigFile = %q, want %q", opts.ConfigFile, paths.DefaultConfigFile())
	}
	if opts.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", opts.LogFormat)
	}
	if opts.LogFile != "" {
		t.Errorf("LogFile = %q, want empty", opts.LogFile)
	}
	if want := filepath.Join(paths.DataDir(), "backups"); opts.BackupDir != want {
		t.Errorf("BackupDir = %q, want %q", opts.BackupDir, want)
	}
}

func TestLoad_Env(t *testing.T) {
	want := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv("JRNL_CONFIG_FILE", want)
	t.Setenv("JRNL_LOG_FORMAT", "json")

	opts, err := Load(newViper(t))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if opts.ConfigFile != want {
		t.Errorf("ConfigFile = %q, want %q", opts.ConfigFile, want)
	}
	if opts.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", opts.LogFormat)
	}
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("JRNL_CONFIG_FILE", "/from/env.yaml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config-file", "", "")
	flags.String("log-format", "text", "")
	if err := flags.Parse([]string{"--config-file", "/from/flag.yaml"}); err != nil {
		t.Fatal(err)
	}

	v := newViper(t)
	if err := BindFlags(v, flags); err != nil {
		t.Fatalf("BindFlags() error: %v", err)
	}

	opts, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if opts.ConfigFile != "/from/flag.yaml" {
		t.Errorf("ConfigFile = %q, want /from/flag.yaml", opts.ConfigFile)
	}
}

func TestLoad_UnchangedFlagKeepsEnv(t *testing.T) {
	t.Setenv("JRNL_CONFIG_FILE", "/from/env.yaml")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config-file", "", "")
	if err := flags.Parse(nil); err != nil {
		t.Fatal(err)
	}

	v := newViper(t)
	if err := BindFlags(v, flags); err != nil {
		t.Fatal(err)
	}

	opts, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if opts.ConfigFile != "/from/env.yaml" {
		t.Errorf("ConfigFile = %q, want /from/env.yaml", opts.ConfigFile)
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.Reset()
	t.Cleanup(homedir.Reset)
	t.Setenv("JRNL_CONFIG_FILE", "~/jrnl.yaml")

	opts, err := Load(newViper(t))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if want := filepath.Join(home, "jrnl.yaml"); opts.ConfigFile != want {
		t.Errorf("ConfigFile = %q, want %q", opts.ConfigFile, want)
	}
}

func TestLoad_BackupDirFromEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.Reset()
	t.Cleanup(homedir.Reset)
	t.Setenv("JRNL_BACKUP_DIR", "~/snapshots")

	opts, err := Load(newViper(t))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if want := filepath.Join(home, "snapshots"); opts.BackupDir != want {
		t.Errorf("BackupDir = %q, want %q", opts.BackupDir, want)
	}
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("JRNL_LOG_FORMAT", "xml")

	_, err := Load(newViper(t))
	if !errors.Is(err, ErrInvalidLogFormat) {
		t.Fatalf("Load() error = %v, want ErrInvalidLogFormat", err)
	}

	var oe *OptionError
	if !errors.As(err, &oe) || oe.Key != KeyLogFormat {
		t.Errorf("expected *OptionError for %s, got %v", KeyLogFormat, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		opts     *Options
		wantErrs int
	}{
		{"valid", &Options{ConfigFile: "/a.yaml", LogFormat: "text", BackupDir: "/b"}, 0},
		{"json", &Options{ConfigFile: "/a.yaml", LogFormat: "json", BackupDir: "/b"}, 0},
		{"empty config file", &Options{LogFormat: "text", BackupDir: "/b"}, 1},
		{"empty backup dir", &Options{ConfigFile: "/a.yaml", LogFormat: "text"}, 1},
		{"everything wrong", &Options{LogFormat: "xml"}, 3},
		{"nil", nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if errs := Validate(tt.opts); len(errs) != tt.wantErrs {
				t.Errorf("Validate() = %v, want %d errors", errs, tt.wantErrs)
			}
		})
	}
}
