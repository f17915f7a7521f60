package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadSpecsSelectsTargets(t *testing.T) {
	cfg := Config{Duration: "20", Retries: 10, OutputDir: "out", Targets: []string{"rocksdb", "trinvrfc"}}
	specs, err := loadSpecs(cfg, "db")
	require.Nil(t, err)
	require.Len(t, specs, 1)
	require.Equal(t, "trinvrfc", specs[0].Targets[0].Name)
	require.Equal(t, "rocksdb", specs[0].Targets[1].Name)

	cfg.Targets = []string{"leveldb"}
	_, err = loadSpecs(cfg, "db")
	require.NotNil(t, err)
}

func TestLoadSpecsRejectsSharedResultFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweeps.hcl")
	require.Nil(t, os.WriteFile(path, []byte(`
sweep "first" {
  command = "bin/{name}"
  target "a" {
    output = "/tmp/shared.txt"
  }
}
sweep "second" {
  command = "bin/{name} --again"
  target "b" {
    output = "/tmp/shared.txt"
  }
}
`), 0o644))
	_, err := loadSpecs(Config{OutputDir: "."}, path)
	require.ErrorContains(t, err, "/tmp/shared.txt")
}

func TestPrintPlan(t *testing.T) {
	specs, err := loadSpecs(Config{Duration: "20", OutputDir: "out", Targets: []string{"pmemkv"}}, "ycsb")
	require.Nil(t, err)

	var out bytes.Buffer
	require.Nil(t, printPlan(&out, specs))
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 1+18)
	require.Equal(t, "# ycsb/pmemkv -> "+filepath.Join("out", "results-ycsb-pmemkv.txt"), lines[0])
	require.Equal(t, "bin/ycsb_pmemkv 1 workloads/1m/a", lines[1])
	require.Equal(t, "bin/ycsb_pmemkv 40 workloads/1m/b", lines[18])
}

func TestPlanCommand(t *testing.T) {
	cfg := Config{Duration: "5", OutputDir: "."}
	root := rootCommand(&cfg)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"plan", "seq", "--targets", "oflf"})
	require.Nil(t, root.Execute())
	require.Contains(t, out.String(), "# seq/oflf -> console\n")
	require.Contains(t, out.String(), "taskset 0x1 bin/psps-integer-seq-oflf 5\n")
}
