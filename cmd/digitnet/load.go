package main

import (
	"errors"
	"fmt"

	"github.com/born-ml/digitnet/internal/config"
	"github.com/born-ml/digitnet/internal/dataset"
	"github.com/born-ml/digitnet/internal/rng"
)

// loadData returns normalized training and test records for cfg.
//
// The binary caches are tried first. If either cannot be loaded, both sets
// are read from the text files, normalized and written back as caches; a
// failed cache write is reported and otherwise ignored. The canonical MNIST
// sets are then spot checked.
func loadData(cfg *config.Config) (train, test []dataset.RawRecord, err error) {
	if cfg.Synthetic > 0 {
		return loadSynthetic(cfg)
	}

	fmt.Println("Loading preprocessed data.")
	train, test, binErr := loadBinaryPair(cfg)
	if binErr == nil {
		fmt.Println("Preprocessed data successfully loaded.")
	} else {
		fmt.Printf("Unable to load preprocessed data (%v).\n", dataset.ResultOf(binErr))
		fmt.Println("Must load data from CSV. Binary files will be generated after loading to speed up future loading.")

		train, test, err = loadTextPair(cfg)
		if err != nil {
			return nil, nil, err
		}

		fmt.Print("Processing data...")
		if err := dataset.Normalize(train); err != nil {
			fmt.Println("Failed!")
			return nil, nil, fmt.Errorf("training set: %w", err)
		}
		if err := dataset.Normalize(test); err != nil {
			fmt.Println("Failed!")
			return nil, nil, fmt.Errorf("test set: %w", err)
		}
		fmt.Println("Done.")

		fmt.Print("Saving processed data for faster load next time...")
		if err := errors.Join(dataset.SaveBinary(cfg.TrainBin(), train), dataset.SaveBinary(cfg.TestBin(), test)); err != nil {
			fmt.Printf("Failed!\nUnable to save processed data (%v). Program can still continue.\n", err)
		} else {
			fmt.Println("Done.")
		}
	}

	if len(train) != dataset.MNISTTrainSize || len(test) != dataset.MNISTTestSize {
		fmt.Printf("Skipping load validation: %d/%d records is not the canonical MNIST set.\n", len(train), len(test))
		return train, test, nil
	}
	fmt.Print("Validating load...")
	if err := verifyMNIST(train, test); err != nil {
		fmt.Println("Failed!")
		return nil, nil, err
	}
	fmt.Println("Done.")
	return train, test, nil
}

func loadBinaryPair(cfg *config.Config) (train, test []dataset.RawRecord, err error) {
	fmt.Printf("Loading: %s\n", cfg.TrainBin())
	train, err = dataset.LoadBinary(cfg.TrainBin())
	if err != nil {
		return nil, nil, err
	}
	fmt.Printf("Loading: %s\n", cfg.TestBin())
	test, err = dataset.LoadBinary(cfg.TestBin())
	if err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

func loadTextPair(cfg *config.Config) (train, test []dataset.RawRecord, err error) {
	progress := func(rows int) { fmt.Printf("    Loaded: %d\n", rows) }

	fmt.Printf("Loading: %s\n", cfg.TrainCSV())
	train, err = dataset.LoadTextWithOptions(cfg.TrainCSV(), dataset.TextOptions{
		RowsHint: dataset.MNISTTrainSize,
		Progress: progress,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load file %s (%v): %w", cfg.TrainCSV(), dataset.ResultOf(err), err)
	}

	fmt.Printf("Loading: %s\n", cfg.TestCSV())
	test, err = dataset.LoadTextWithOptions(cfg.TestCSV(), dataset.TextOptions{
		RowsHint: dataset.MNISTTestSize,
		Progress: progress,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load file %s (%v): %w", cfg.TestCSV(), dataset.ResultOf(err), err)
	}
	return train, test, nil
}

func verifyMNIST(train, test []dataset.RawRecord) error {
	if err := dataset.VerifySpotChecks(train, dataset.MNISTTrainSize, dataset.MNISTTrainChecks); err != nil {
		return fmt.Errorf("training set: %w", err)
	}
	if err := dataset.VerifySpotChecks(test, dataset.MNISTTestSize, dataset.MNISTTestChecks); err != nil {
		return fmt.Errorf("test set: %w", err)
	}
	return nil
}

// loadSynthetic generates both sets from a source independent of the
// training source, so the data does not shift the training sequence.
func loadSynthetic(cfg *config.Config) (train, test []dataset.RawRecord, err error) {
	fmt.Printf("Using %d synthetic records per digit.\n", cfg.Synthetic)
	//nolint:gosec // G115: Synthetic is validated non-negative
	src := rng.New(uint64(cfg.Synthetic))
	train = dataset.Synthetic(cfg.Synthetic, src)
	test = dataset.Synthetic(max(cfg.Synthetic/5, 1), src)
	if err := errors.Join(dataset.Normalize(train), dataset.Normalize(test)); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}
