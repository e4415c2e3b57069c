package lexstat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsEmptyModes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Modes = nil
	err := cfg.Validate()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestValidateRejectsZeroRatio(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ratio = [2]int{0, 0}
	err := cfg.Validate()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestValidateRejectsUnknownMethod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Method = "not-a-method"
	err := cfg.Validate()
	require.Error(t, err)

	var invalid *InvalidParameterError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "method", invalid.Parameter)
}

func TestValidateRejectsUnknownClusterMethod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClusterMethod = "not-a-cluster-method"
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = "not-a-mode"
	require.Error(t, cfg.Validate())
}

func TestSignatureIsStableForIdenticalConfig(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	require.Equal(t, a.Signature(), b.Signature())
	require.Equal(t, a.SignatureHash(), b.SignatureHash())
}

func TestSignatureChangesWithParameters(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	b.Factor = a.Factor + 0.1
	require.NotEqual(t, a.Signature(), b.Signature())
	require.NotEqual(t, a.SignatureHash(), b.SignatureHash())
}

func TestLoadConfigOverridesDefaultsFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	contents := "threshold: 0.45\nmethod: lexstat\nmodes:\n  - mode: global\n    gop: -3\n    scale: 0.4\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 0.45, cfg.Threshold)
	require.Equal(t, MethodLexstat, cfg.Method)
	require.Len(t, cfg.Modes, 1)
	require.Equal(t, ModeGlobal, cfg.Modes[0].Mode)
	// fields not present in the file keep their DefaultConfig value.
	require.Equal(t, DefaultConfig().Ratio, cfg.Ratio)
}

func TestLoadConfigRejectsInvalidOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("method: bogus\n"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
