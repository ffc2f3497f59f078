package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"myccg/supertagger/supertag"
)

type cliOptions struct {
	configPath string
	modelDir   string
	backend    string
	inputPath  string
	outputPath string
	outputDir  string
	topK       int
	stdout     bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("supertag-cli: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("supertag-cli: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	flag.StringVar(&opts.modelDir, "model", "", "Model directory (overrides config)")
	flag.StringVar(&opts.backend, "backend", "", "Backend kind: onnx or lexicon (overrides config)")
	flag.StringVar(&opts.inputPath, "input", "", "File of pre-tokenized sentences, one per line, tokens separated by spaces")
	flag.StringVar(&opts.outputPath, "output", "", "TSV file to write results (default uses --output-dir/tags_*.tsv)")
	flag.StringVar(&opts.outputDir, "output-dir", "out", "Directory for result files when --output is omitted")
	flag.IntVar(&opts.topK, "top", 0, "Number of categories per token (overrides config)")
	flag.BoolVar(&opts.stdout, "stdout", false, "Print a preview of the results to STDOUT")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --input FILE [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.configPath = strings.TrimSpace(opts.configPath)
	opts.modelDir = strings.TrimSpace(opts.modelDir)
	opts.backend = strings.TrimSpace(opts.backend)
	opts.inputPath = strings.TrimSpace(opts.inputPath)
	opts.outputPath = strings.TrimSpace(opts.outputPath)
	opts.outputDir = strings.TrimSpace(opts.outputDir)

	if opts.inputPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --input file")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	cfg, err := supertag.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.modelDir != "" {
		cfg.Backend.ModelDir = opts.modelDir
	}
	if opts.backend != "" {
		cfg.Backend.Kind = opts.backend
	}
	if opts.topK > 0 {
		cfg.TopK = opts.topK
	}
	if cfg.Backend.ModelDir == "" {
		return errors.New("no model directory: pass --model or set backend.modelDir in config.json")
	}

	tagger, err := supertag.New(cfg.Backend)
	if err != nil {
		return fmt.Errorf("init tagger: %w", err)
	}
	logger := log.New(os.Stderr, "", log.LstdFlags)
	service, err := supertag.NewService(tagger, cfg, logger)
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}
	defer service.Close()

	sentences, err := readSentences(opts.inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if len(sentences) == 0 {
		return errors.New("input file does not contain any sentences")
	}

	ctx := context.Background()
	bar := progressbar.Default(int64(len(sentences)), "tagging")
	results := make([][]supertag.TokenTags, 0, len(sentences))
	for i, sentence := range sentences {
		rows, err := service.TagSentence(ctx, sentence)
		if err != nil {
			return fmt.Errorf("sentence %d: %w", i+1, err)
		}
		results = append(results, rows)
		_ = bar.Add(1)
	}

	outputPath, err := resolveOutputPath(opts.outputPath, opts.outputDir)
	if err != nil {
		return err
	}
	if err := writeResultTSV(outputPath, results); err != nil {
		return err
	}
	fmt.Printf("wrote %d tagged sentences to %s\n", len(results), outputPath)

	if opts.stdout {
		printPreview(results)
	}
	return nil
}

func readSentences(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sentences [][]string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		tokens := strings.Fields(sc.Text())
		if len(tokens) == 0 {
			continue
		}
		sentences = append(sentences, tokens)
	}
	return sentences, sc.Err()
}

func resolveOutputPath(path, dir string) (string, error) {
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve output path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
		return absPath, nil
	}
	if dir == "" {
		dir = "out"
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	filename := fmt.Sprintf("tags_%s.tsv", time.Now().Format("20060102150405"))
	return filepath.Join(absDir, filename), nil
}

func writeResultTSV(path string, results [][]supertag.TokenTags) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, "sentence\tposition\ttoken\tcategory\tscore"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for si, rows := range results {
		for ti, row := range rows {
			for _, tag := range row.Tags {
				_, err := fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%.4f\n",
					si+1, ti+1, row.Token, tag.Category, tag.Score)
				if err != nil {
					return fmt.Errorf("write sentence %d: %w", si+1, err)
				}
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush result: %w", err)
	}
	return nil
}

func printPreview(results [][]supertag.TokenTags) {
	fmt.Println()
	for si, rows := range results {
		fmt.Printf("%d.\n", si+1)
		for _, row := range rows {
			parts := make([]string, 0, len(row.Tags))
			for _, tag := range row.Tags {
				parts = append(parts, fmt.Sprintf("%s=%.3f", tag.Category, tag.Score))
			}
			fmt.Printf("    %-15s %s\n", row.Token, strings.Join(parts, "  "))
		}
	}
}
