// Command digitnet trains a single-hidden-layer network to classify
// handwritten digits and reports its accuracy.
//
// Usage:
//
//	digitnet [flags] [dataPath] [numEpochs] [numHidden] [learningRate] [momentum] [useDefaultSeed] [writePlotData]
//
// dataPath must contain mnist_train.csv and mnist_test.csv (lines of
// "label,p1,...,p784"). Binary caches mnist_train.bin and mnist_test.bin are
// written next to them after the first run.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/born-ml/digitnet/internal/checkpoint"
	"github.com/born-ml/digitnet/internal/config"
	"github.com/born-ml/digitnet/internal/dataset"
	"github.com/born-ml/digitnet/internal/network"
	"github.com/born-ml/digitnet/internal/parallel"
	"github.com/born-ml/digitnet/internal/report"
	"github.com/born-ml/digitnet/internal/trainer"
)

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Stdout)
	if errors.Is(err, config.ErrUsage) {
		return
	}
	if err != nil {
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("%v\n\n", err)
		config.WriteUsage(os.Stdout, nil)
		os.Exit(1)
	}

	rawTrain, rawTest, err := loadData(&cfg)
	if err != nil {
		fmt.Printf("%v\n\n", err)
		config.WriteUsage(os.Stdout, nil)
		os.Exit(1)
	}

	fmt.Print("Converting data into internal representation...")
	trainSet := dataset.ToRecords(rawTrain)
	testSet := dataset.ToRecords(rawTest)
	fmt.Println("Done")
	fmt.Printf("    Training records per digit: %v\n", dataset.CountByTarget(trainSet))
	fmt.Printf("    Test records per digit    : %v\n", dataset.CountByTarget(testSet))

	src := cfg.Source()
	var net *network.Network
	if cfg.LoadWeights != "" {
		var header checkpoint.Header
		net, header, err = network.Load(cfg.LoadWeights)
		if err != nil {
			log.Fatalf("Failed to load weights: %v", err)
		}
		cfg.Hidden = net.Hidden()
		fmt.Printf("Loaded weights from %s (%d hidden nodes, written %s)\n",
			cfg.LoadWeights, net.Hidden(), header.CreatedAt.Format("2006-01-02 15:04:05"))
	} else {
		net = network.New(cfg.Hidden, src)
	}

	displayParams(&cfg, src.Seed())

	par := parallel.Sequential()
	if cfg.Parallel {
		par = parallel.DefaultConfig()
	}

	fmt.Println("\nInitial accuracy evaluation...")
	history := trainer.RunTraining(net, trainSet, testSet, trainer.RunConfig{
		Epochs:       cfg.Epochs,
		LearningRate: cfg.LearningRate,
		Momentum:     cfg.Momentum,
		Source:       src,
		Parallel:     par,
		OnEpoch: func(s trainer.EpochStats) {
			if s.Epoch > 0 {
				fmt.Printf("\nEnd of Epoch %d of %d. Evaluating accuracy...\n", s.Epoch, cfg.Epochs)
			}
			fmt.Printf("    Training Set Accuracy : %s\n", report.FormatPercent(s.TrainAccuracy))
			fmt.Printf("    Test Set Accuracy     : %s\n", report.FormatPercent(s.TestAccuracy))
		},
	})

	if cfg.WritePlotData {
		if err := report.SavePlotCSV(report.PlotFile, history); err != nil {
			log.Printf("Failed to write plot data: %v", err)
		} else {
			fmt.Printf("\nPlot data written to %s\n", report.PlotFile)
		}
	}

	if cfg.SaveWeights != "" {
		final := history.Final()
		err := net.Save(cfg.SaveWeights, &checkpoint.Training{
			Hidden:        net.Hidden(),
			Epochs:        cfg.Epochs,
			LearningRate:  cfg.LearningRate,
			Momentum:      cfg.Momentum,
			Seed:          src.Seed(),
			TrainAccuracy: final.TrainAccuracy,
			TestAccuracy:  final.TestAccuracy,
		})
		if err != nil {
			log.Fatalf("Failed to save weights: %v", err)
		}
		fmt.Printf("\nWeights saved to %s\n", cfg.SaveWeights)
	}

	displayParams(&cfg, src.Seed())

	confusion := trainer.BuildConfusionMatrixWith(net, testSet, par)
	fmt.Println()
	if err := report.WriteConfusion(os.Stdout, &confusion); err != nil {
		log.Fatalf("Failed to print confusion matrix: %v", err)
	}

	fmt.Println("\nEnd of program.")
}

func displayParams(cfg *config.Config, seed uint64) {
	fmt.Println()
	fmt.Println("Training Parameters:")
	fmt.Printf("    num hidden nodes = %d\n", cfg.Hidden)
	fmt.Printf("    learning rate = %g\n", cfg.LearningRate)
	fmt.Printf("    momentum = %g\n", cfg.Momentum)
	fmt.Printf("    random seed = 0x%x\n", seed)
}
