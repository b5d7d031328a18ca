// Package config holds the settings of a training run and parses them from
// the command line.
//
// The command line takes optional flags followed by up to seven optional
// positional arguments:
//
//	digitnet [flags] [dataPath] [numEpochs] [numHidden] [learningRate] [momentum] [useDefaultSeed] [writePlotData]
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/born-ml/digitnet/internal/rng"
)

// Data file names under Config.DataPath.
const (
	TrainCSVName = "mnist_train.csv"
	TestCSVName  = "mnist_test.csv"
	TrainBinName = "mnist_train.bin"
	TestBinName  = "mnist_test.bin"
)

// Defaults.
const (
	DefaultDataPath     = "../../data/"
	DefaultEpochs       = 50
	DefaultHidden       = 20
	DefaultLearningRate = 0.1
	DefaultMomentum     = 0.9
)

// Config is the full configuration of a run.
type Config struct {
	DataPath       string  // Directory holding the data files; always ends in a separator
	Epochs         int     // Number of epochs (> 0)
	Hidden         int     // Hidden nodes (> 0)
	LearningRate   float64 // Learning rate (> 0)
	Momentum       float64 // Coefficient of the previous delta, [0, 1)
	UseDefaultSeed bool    // Seed with rng.DefaultSeed instead of the clock
	WritePlotData  bool    // Write plot data to PlotPath

	Seed        uint64 // Explicit seed, used when SeedSet
	SeedSet     bool
	SaveWeights string // Write trained weights here if non-empty
	LoadWeights string // Start from these weights if non-empty
	Parallel    bool   // Fan evaluation out across CPUs
	Synthetic   int    // Records per digit of synthetic data to use instead of the data files; 0 = off
}

// Default returns the configuration used when no arguments are given.
func Default() Config {
	return Config{
		DataPath:     DefaultDataPath,
		Epochs:       DefaultEpochs,
		Hidden:       DefaultHidden,
		LearningRate: DefaultLearningRate,
		Momentum:     DefaultMomentum,
		Parallel:     true,
	}
}

// ArgError reports a positional argument that could not be parsed.
type ArgError struct {
	Position int // 1-based position among the positional arguments
	Value    string
}

// Error implements the error interface.
func (e *ArgError) Error() string {
	return fmt.Sprintf("Unable to parse argument %d: %s", e.Position, e.Value)
}

// ErrUsage is returned by Parse when -h or -help was requested. The usage
// text has already been written.
var ErrUsage = flag.ErrHelp

// Parse parses flags and positional arguments (without the program name).
//
// Every unparsable positional argument is reported; the returned error joins
// one *ArgError per bad argument. Usage text is written to output on any
// error.
func Parse(args []string, output io.Writer) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("digitnet", flag.ContinueOnError)
	fs.SetOutput(output)
	seed := fs.String("seed", "", "explicit random `seed` (decimal or 0x hex); overrides useDefaultSeed")
	fs.StringVar(&cfg.SaveWeights, "save-weights", "", "write trained weights to `path`")
	fs.StringVar(&cfg.LoadWeights, "load-weights", "", "initialize the network from weights at `path`")
	fs.BoolVar(&cfg.Parallel, "parallel", cfg.Parallel, "evaluate accuracy on all CPUs")
	fs.IntVar(&cfg.Synthetic, "synthetic", 0, "train on `n` synthetic records per digit instead of the data files")
	fs.Usage = func() { WriteUsage(fs.Output(), fs) }

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	var errs []error
	if *seed != "" {
		v, err := strconv.ParseUint(*seed, 0, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid -seed %q: %w", *seed, err))
		} else {
			cfg.Seed, cfg.SeedSet = v, true
		}
	}
	if err := cfg.ApplyArgs(fs.Args()); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		fmt.Fprintf(output, "%v\n\n", err)
		WriteUsage(output, fs)
		return Config{}, err
	}
	return cfg, nil
}

// ApplyArgs overwrites cfg fields from positional arguments. Arguments beyond
// the seventh are ignored.
func (c *Config) ApplyArgs(args []string) error {
	var errs []error
	bad := func(pos int) {
		errs = append(errs, &ArgError{Position: pos, Value: args[pos-1]})
	}

	if len(args) > 0 {
		c.DataPath = withTrailingSeparator(args[0])
	}
	if len(args) > 1 {
		if v, err := strconv.ParseUint(args[1], 10, 31); err == nil {
			c.Epochs = int(v)
		} else {
			bad(2)
		}
	}
	if len(args) > 2 {
		if v, err := strconv.ParseUint(args[2], 10, 31); err == nil {
			c.Hidden = int(v)
		} else {
			bad(3)
		}
	}
	if len(args) > 3 {
		if v, err := strconv.ParseFloat(args[3], 64); err == nil {
			c.LearningRate = v
		} else {
			bad(4)
		}
	}
	if len(args) > 4 {
		if v, err := strconv.ParseFloat(args[4], 64); err == nil {
			c.Momentum = v
		} else {
			bad(5)
		}
	}
	if len(args) > 5 {
		if v, err := strconv.Atoi(args[5]); err == nil {
			c.UseDefaultSeed = v != 0
		} else {
			bad(6)
		}
	}
	if len(args) > 6 {
		if v, err := strconv.Atoi(args[6]); err == nil {
			c.WritePlotData = v != 0
		} else {
			bad(7)
		}
	}
	return errors.Join(errs...)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Epochs < 1 {
		errs = append(errs, fmt.Errorf("numEpochs must be > 0, got %d", c.Epochs))
	}
	if c.Hidden < 1 {
		errs = append(errs, fmt.Errorf("numHidden must be > 0, got %d", c.Hidden))
	}
	if !(c.LearningRate > 0) {
		errs = append(errs, fmt.Errorf("learningRate must be > 0, got %v", c.LearningRate))
	}
	if !(c.Momentum >= 0 && c.Momentum < 1) {
		errs = append(errs, fmt.Errorf("momentum must be in [0, 1), got %v", c.Momentum))
	}
	if c.Synthetic < 0 {
		errs = append(errs, fmt.Errorf("-synthetic must be >= 0, got %d", c.Synthetic))
	}
	return errors.Join(errs...)
}

// Source returns the random source for the run: the explicit seed if one was
// given, rng.DefaultSeed if UseDefaultSeed, the clock otherwise.
func (c *Config) Source() *rng.Source {
	switch {
	case c.SeedSet:
		return rng.New(c.Seed)
	case c.UseDefaultSeed:
		return rng.NewDefault()
	default:
		return rng.NewFromClock()
	}
}

// TrainCSV returns the path of the training set text file.
func (c *Config) TrainCSV() string { return c.DataPath + TrainCSVName }

// TestCSV returns the path of the test set text file.
func (c *Config) TestCSV() string { return c.DataPath + TestCSVName }

// TrainBin returns the path of the training set binary cache.
func (c *Config) TrainBin() string { return c.DataPath + TrainBinName }

// TestBin returns the path of the test set binary cache.
func (c *Config) TestBin() string { return c.DataPath + TestBinName }

func withTrailingSeparator(path string) string {
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, `\`) || strings.HasSuffix(path, string(filepath.Separator)) {
		return path
	}
	return path + "/"
}

// WriteUsage writes the command line help to w.
func WriteUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprint(w, `Usage:
digitnet [flags] [dataPath] [numEpochs] [numHidden] [learningRate] [momentum] [useDefaultSeed] [writePlotData]

    dataPath       - Path to data file directory. Type: string. Default: "../../data/"
    numEpochs      - Number of epochs. Type: unsigned. Range: >0. Default: 50
    numHidden      - Number of nodes in the hidden layer. Type: unsigned. Range: >0. Default: 20
    learningRate   - The learning rate. Type: double. Range: >0. Default: 0.1
    momentum       - Coefficient of previous weight change. Range: [0, ~0.97]. Default: 0.9
    useDefaultSeed - Helps with reproducibility when debugging. 1: use default seed. 0: use clock. Default: 0
    writePlotData  - Write plot data to file "plotdata.csv". 0: don't write. 1: write. Default: 0
`)
	if fs != nil {
		fmt.Fprint(w, "\nFlags:\n")
		out := fs.Output()
		fs.SetOutput(w)
		fs.PrintDefaults()
		fs.SetOutput(out)
	}
}
