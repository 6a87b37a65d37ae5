package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestStruct struct {
	InertString       string
	ExpandString      string
	ExpandStringSlice []string
	Inner             TestStructInner
}

type TestStructInner struct {
	InertString       string
	ExpandString      string
	ExpandStringSlice []string
}

func TestExpandConfig(t *testing.T) {
	inert := "DO_NOT_CHANGE"
	outerEnvVarName := "_OUTER_ENV_VAR"
	outerEnvVarValue := "OUTER_VALUE"
	innerEnvVarName := "_INNER_ENV_VAR"
	innerEnvVarValue := "INNER_VALUE"
	test := TestStruct{
		InertString:       inert,
		ExpandString:      "$" + outerEnvVarName,
		ExpandStringSlice: []string{"$" + outerEnvVarName, inert},
	}
	innerStruct := TestStructInner{
		InertString:       inert,
		ExpandString:      "$" + innerEnvVarName,
		ExpandStringSlice: []string{"$" + innerEnvVarName, inert},
	}
	test.Inner = innerStruct

	t.Setenv(outerEnvVarName, outerEnvVarValue)
	t.Setenv(innerEnvVarName, innerEnvVarValue)
	expandConfig(reflect.ValueOf(&test).Elem())

	assert.Equal(t, inert, test.InertString)
	assert.Equal(t, outerEnvVarValue, test.ExpandString)
	assert.Equal(t, []string{outerEnvVarValue, inert}, test.ExpandStringSlice)
	assert.Equal(t, innerEnvVarValue, test.Inner.ExpandString)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", "/home/analyst")

	conf, err := LoadConfig("")
	require.Nil(t, err)

	assert.Equal(t, 2, conf.S.Log.LogLevel)
	assert.Equal(t, "/home/analyst/.fwgraph/hostnames.db", conf.R.Hostname.CachePath)
	assert.Equal(t, time.Second, conf.R.Hostname.LookupTimeout)
	assert.Equal(t, 2*time.Second, conf.R.Hostname.PreCacheTimeout)
	assert.Equal(t, 50, conf.R.Hostname.Workers)
	assert.Equal(t, "sophos_data.csv", conf.S.Input.DefaultInput)
}

func TestGetConfigMissingExplicitPath(t *testing.T) {
	_, err := GetConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadConfigRejectsBadWorkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, os.WriteFile(path, []byte("Hostname:\n    Workers: 0\n"), 0644))

	_, err := LoadConfig(path)
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Hostname.Workers", verr.Field)
}

func TestLoadTestingConfig(t *testing.T) {
	conf, err := LoadTestingConfig()
	require.Nil(t, err)
	assert.Equal(t, 50*time.Millisecond, conf.R.Hostname.LookupTimeout)
	assert.Equal(t, 4, conf.R.Hostname.Workers)
	assert.True(t, conf.S.HostnameLabels.ShowBoth)
}
