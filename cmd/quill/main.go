// Package main provides the quill CLI: train a character-level LSTM on
// a text corpus and generate text from a saved checkpoint.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/quill-ml/quill/internal/config"
	"github.com/quill-ml/quill/internal/corpus"
	"github.com/quill-ml/quill/internal/dataset"
	"github.com/quill-ml/quill/internal/generate"
	"github.com/quill-ml/quill/internal/nn"
	"github.com/quill-ml/quill/internal/train"
	"github.com/quill-ml/quill/internal/vocab"
)

const version = "v0.1.0"

func main() {
	log.SetFlags(0)
	log.SetPrefix("quill: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "train":
		err = runTrain(os.Args[2:])
	case "generate":
		err = runGenerate(os.Args[2:])
	case "version":
		fmt.Printf("quill %s\n", version)
	case "help", "-h", "--help":
		usage()
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "quill - character-level LSTM text generation")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  train     Train a model on a text corpus")
	fmt.Fprintln(os.Stderr, "  generate  Generate text from a checkpoint")
	fmt.Fprintln(os.Stderr, "  version   Show version")
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file (optional)")
	corpusPath := fs.String("corpus", "", "text corpus (overrides config)")
	checkpoint := fs.String("checkpoint", "", "checkpoint path (overrides config)")
	artifacts := fs.String("artifacts", "", "encoded-dataset export path (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *corpusPath != "" {
		cfg.Corpus = *corpusPath
	}
	if *checkpoint != "" {
		cfg.Checkpoint = *checkpoint
	}
	if *artifacts != "" {
		cfg.Artifacts = *artifacts
	}
	if cfg.Corpus == "" {
		return fmt.Errorf("train: no corpus given; use -corpus or set corpus: in the config file")
	}

	c, err := corpus.Load(cfg.Corpus)
	if err != nil {
		return err
	}
	log.Printf("corpus %s: %d characters after normalization", cfg.Corpus, c.Len())

	v, err := vocab.Build(c.Runes())
	if err != nil {
		return err
	}
	log.Printf("vocabulary: %d distinct characters", v.Size())

	windows, err := dataset.Windows(c.Runes(), cfg.WindowLen)
	if err != nil {
		return err
	}
	ds, err := dataset.Encode(windows, v)
	if err != nil {
		return err
	}
	log.Printf("dataset: %d windows of %d characters", ds.NumExamples, ds.WindowLen)

	if cfg.Artifacts != "" {
		if err := train.ExportArtifacts(cfg.Artifacts, ds, v); err != nil {
			return err
		}
		log.Printf("exported encoded dataset to %s", cfg.Artifacts)
	}

	tr, err := train.New(cfg.TrainConfig(), v)
	if err != nil {
		return err
	}

	// Preview seed: the first window of the corpus.
	seed := string(c.Runes()[:cfg.WindowLen])
	tr.SetEpochHook(func(stats train.EpochStats, model *nn.CharLSTM) {
		marker := ""
		if stats.Improved {
			marker = " *"
		}
		log.Printf("epoch %d/%d: train loss %.4f, val loss %.4f%s",
			stats.Epoch, cfg.Epochs, stats.TrainLoss, stats.ValLoss, marker)

		if cfg.Preview.Chars == 0 {
			return
		}
		gen := generate.NewGenerator(model, v, generate.NewSampler(cfg.Seed))
		preview, err := gen.Generate(seed, cfg.Preview.Chars, cfg.Preview.Temperature)
		if err != nil {
			log.Printf("preview failed: %v", err)
			return
		}
		log.Printf("preview: %q", preview[len(seed):])
	})

	if err := tr.Run(ds); err != nil {
		return err
	}
	log.Printf("done; best checkpoint at %s", cfg.Checkpoint)
	return nil
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	checkpoint := fs.String("checkpoint", "quill-best.qlm", "model checkpoint to load")
	seed := fs.String("seed", "", "seed text, at least one window long")
	chars := fs.Int("chars", 300, "number of characters to generate")
	temperature := fs.Float64("temperature", 1.0, "sampling temperature (> 0)")
	samplerSeed := fs.Int64("sampler-seed", -1, "random seed for sampling, -1 for random")
	if err := fs.Parse(args); err != nil {
		return err
	}

	model, v, err := nn.LoadCheckpoint(*checkpoint)
	if err != nil {
		return err
	}

	// The seed goes through the same normalization as training text so
	// casing and stray punctuation cannot poison the window encoding.
	normalized := corpus.Normalize(*seed).String()

	gen := generate.NewGenerator(model, v, generate.NewSampler(*samplerSeed))

	// Echo the seed, then stream each character as it is drawn.
	fmt.Print(normalized)
	if _, err := gen.Stream(os.Stdout, normalized, *chars, *temperature); err != nil {
		fmt.Println()
		return err
	}
	fmt.Println()
	return nil
}
