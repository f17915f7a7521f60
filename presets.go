package main

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

type Settings struct {
	Duration  string
	RetryCap  int
	Cooldown  time.Duration
	OutputDir string
	// Aggregate records interactive presets into result files too.
	Aggregate bool
}

var concBenchmarks = []string{
	"pq-ll-",
	"pq-fat-",
	"pstack-ll-",
	"pstack-fat-",
	"pset-hash-1m-",
	"pset-tree-1m-",
	"pset-ll-10k-",
	"psps-integer-",
	"pset-btree-1m-",
	"pset-hashfixed-1m-",
	"pset-ziptree-1m-",
	"pset-ravl-1m-",
	"pset-skiplist-1m-",
}

var concPTMs = []string{
	"undologfc",
	"redologfc",
	"romlogfc",
	"quadrafc",
	"quadravrfc",
	"trinityfc",
	"trinityvrfc",
	"trinitytl2",
	"trinityvrtl2",
	"trinityvrtl2pl",
	"undologseqfc",
}

var seqBenchmarks = []string{
	"pq-ll-seq-",
	"pset-btree-1m-seq-",
	"pset-hash-1m-seq-",
	"pset-ll-10k-seq-",
	"pset-tree-1m-seq-",
	"psps-integer-seq-",
}

var seqPTMs = []string{
	"oflf",
	"pmdk",
	"romlogfc",
	"trinityfc",
	"trinityvrfc",
	"quadrafc",
	"quadravrfc",
}

// pmemkv needs /mnt/pmem0/pmemkv/ to exist before the sweep.
var dbTargets = []BenchmarkTarget{
	{Name: "trinvrtl2", Bin: "bin/db_bench_trinvrtl2"},
	{Name: "trinvrfc", Bin: "bin/db_bench_trinvrfc"},
	{Name: "redoopt", Bin: "otherdb/redodb/bin/db_bench_redoopt"},
	{Name: "pmemkv", Bin: "~/pmemkv-tools/pmemkv_bench --db_size_in_gb=32 --db=/mnt/pmem0/pmemkv"},
	{Name: "rocksdb", Bin: "~/rocksdb/db_bench --db=/mnt/pmem0/rocksdb --sync"},
}

var dbBenchmarks = []string{
	" --benchmarks=fillrandom,overwrite,fillseq,readrandom,readwhilewriting",
	" --benchmarks=fillseekseq --reads=1000",
}

var dbThreads = []string{"1", "2", "4", "8", "10", "16", "20", "24", "32", "40"}

var ycsbTargets = []BenchmarkTarget{
	{Name: "trinvrtl2", Bin: "bin/ycsb_trinvrtl2"},
	{Name: "trinvrfc", Bin: "bin/ycsb_trinvrfc"},
	{Name: "redodb", Bin: "bin/ycsb_redodb"},
	{Name: "pmemkv", Bin: "bin/ycsb_pmemkv"},
}

var ycsbWorkloads = []string{"workloads/1m/a", "workloads/1m/b"}

var ycsbThreads = []string{"1", "2", "4", "8", "16", "20", "24", "32", "40"}

type preset struct {
	description string
	build       func(Settings) (SweepSpec, error)
}

var presets = map[string]preset{
	"conc": {"concurrent data-structure microbenchmarks, every PTM", ConcSweep},
	"seq":  {"sequential microbenchmarks pinned to the first core", SeqSweep},
	"db":   {"db_bench over every key-value store and thread count", DBSweep},
	"ycsb": {"YCSB workloads A and B over every key-value store", YCSBSweep},
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func Preset(name string, settings Settings) (SweepSpec, error) {
	p, ok := presets[name]
	if !ok {
		return SweepSpec{}, fmt.Errorf("unknown preset %v, expected one of %v", name, strings.Join(PresetNames(), ", "))
	}
	return p.build(settings)
}

func ptmTargets(names []string) []BenchmarkTarget {
	targets := make([]BenchmarkTarget, 0, len(names))
	for _, name := range names {
		targets = append(targets, BenchmarkTarget{Name: name})
	}
	return targets
}

// withResultFiles assigns results-<sweep>-<target>.txt to every target that
// has no result file yet.
func withResultFiles(sweep string, dir string, targets []BenchmarkTarget) []BenchmarkTarget {
	result := slices.Clone(targets)
	for i := range result {
		if result[i].ResultFile == "" {
			result[i].ResultFile = filepath.Join(dir, fmt.Sprintf("results-%v-%v.txt", sweep, result[i].Name))
		}
	}
	return result
}

func ConcSweep(settings Settings) (SweepSpec, error) {
	targets := ptmTargets(concPTMs)
	if settings.Aggregate {
		targets = withResultFiles("conc", settings.OutputDir, targets)
	}
	return NewSweepSpec(
		"conc",
		"bin/{benchmark}{name} {duration}",
		targets,
		[]Dimension{{Name: "benchmark", Values: concBenchmarks}},
		settings.Duration,
		settings.RetryCap,
		settings.Cooldown,
	)
}

func SeqSweep(settings Settings) (SweepSpec, error) {
	targets := ptmTargets(seqPTMs)
	if settings.Aggregate {
		targets = withResultFiles("seq", settings.OutputDir, targets)
	}
	return NewSweepSpec(
		"seq",
		"taskset 0x1 bin/{benchmark}{name} {duration}",
		targets,
		[]Dimension{{Name: "benchmark", Values: seqBenchmarks}},
		settings.Duration,
		settings.RetryCap,
		settings.Cooldown,
	)
}

func DBSweep(settings Settings) (SweepSpec, error) {
	return NewSweepSpec(
		"db",
		"{bin}{bench} --num=1000000 --threads={threads}",
		withResultFiles("db", settings.OutputDir, dbTargets),
		[]Dimension{
			{Name: "bench", Values: dbBenchmarks},
			{Name: "threads", Values: dbThreads},
		},
		settings.Duration,
		settings.RetryCap,
		settings.Cooldown,
	)
}

func YCSBSweep(settings Settings) (SweepSpec, error) {
	return NewSweepSpec(
		"ycsb",
		"{bin} {threads} {workload}",
		withResultFiles("ycsb", settings.OutputDir, ycsbTargets),
		[]Dimension{
			{Name: "workload", Values: ycsbWorkloads},
			{Name: "threads", Values: ycsbThreads},
		},
		settings.Duration,
		settings.RetryCap,
		settings.Cooldown,
	)
}
