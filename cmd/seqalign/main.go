// Command seqalign aligns pairs of protein or nucleotide sequences.
//
// Usage:
//
//	seqalign [command] [options]
//
// Commands:
//
//	align       Align two sequences
//	search      Align a query against every record of a FASTA file
//	info        Show sequence information
//	matrix      List or print substitution matrices
//	version     Show version information
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/aria-lang/seqalign-go/internal/alignment"
	"github.com/aria-lang/seqalign-go/internal/config"
	"github.com/aria-lang/seqalign-go/internal/kmer"
	"github.com/aria-lang/seqalign-go/internal/pvalue"
	"github.com/aria-lang/seqalign-go/internal/retrieve"
	"github.com/aria-lang/seqalign-go/internal/sequence"
	"github.com/aria-lang/seqalign-go/internal/stats"
	"github.com/aria-lang/seqalign-go/pkg/seqalign"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "align":
		err = alignCmd(os.Args[2:])
	case "search":
		err = searchCmd(os.Args[2:])
	case "info":
		err = infoCmd(os.Args[2:])
	case "matrix":
		err = matrixCmd(os.Args[2:])
	case "version":
		fmt.Println(seqalign.Info())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`seqalign - Pairwise Sequence Alignment Tool

Usage:
  seqalign <command> [options]

Commands:
  align     Align two sequences
  search    Align a query against every record of a FASTA file
  info      Show sequence information
  matrix    List or print substitution matrices
  version   Show version information
  help      Show this help message

Use "seqalign <command> -h" for more information about a command.`)
}

// alignFlags are the settings shared by align and search. Each one that is
// set on the command line overrides the configuration file.
type alignFlags struct {
	config    *string
	mode      *string
	matrix    *string
	matrixDir *string
	gap       *int
	width     *int
}

func addAlignFlags(fs *flag.FlagSet) *alignFlags {
	return &alignFlags{
		config:    fs.String("config", "", "YAML configuration file"),
		mode:      fs.String("mode", config.DefaultMode, "Alignment mode: local or global"),
		matrix:    fs.String("matrix", config.DefaultMatrix, "Substitution matrix name"),
		matrixDir: fs.String("matrix-dir", "", "Directory searched for <name>.txt matrices before the built-ins"),
		gap:       fs.Int("gap", config.DefaultGapCost, "Gap cost, zero or negative"),
		width:     fs.Int("width", config.DefaultBlockWidth, "Alignment columns per output block"),
	}
}

// load reads the configuration file, if any, and applies the flags that were
// set explicitly.
func (f *alignFlags) load(fs *flag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if *f.config != "" {
		var err error
		if cfg, err = config.Load(*f.config); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "mode":
			cfg.Mode = *f.mode
		case "matrix":
			cfg.Matrix = *f.matrix
		case "matrix-dir":
			cfg.MatrixDir = *f.matrixDir
		case "gap":
			cfg.GapCost = *f.gap
		case "width":
			cfg.BlockWidth = *f.width
		}
	})
	return cfg, cfg.Validate()
}

func params(cfg *config.Config) seqalign.Params {
	return seqalign.Params{Mode: cfg.AlignmentMode(), Matrix: cfg.Matrix, GapCost: cfg.GapCost}
}

func alignCmd(args []string) error {
	fs := flag.NewFlagSet("align", flag.ExitOnError)
	af := addAlignFlags(fs)
	sequences := fs.String("sequences", "", "Two comma-separated sequences, e.g. HEAGAWGHEE,PAWHEAE")
	accessions := fs.String("accessions", "", "Two comma-separated accessions, read from -seq-dir or downloaded")
	seqDir := fs.String("seq-dir", "", "Directory holding <accession>.fasta files")
	baseURL := fs.String("base-url", "", "Where missing accessions are downloaded from; empty keeps the configured one")
	full := fs.String("full", "", "Write the full scoring matrix as CSV to this file")
	pValue := fs.Bool("pvalue", false, "Estimate the p-value of the score from shuffled sequences")
	trials := fs.Int("trials", config.DefaultTrials, "Number of shuffled trials for -pvalue")
	workers := fs.Int("workers", 1, "Trials run at once for -pvalue")
	seed := fs.Int64("seed", 0, "Seed for -pvalue; 0 picks one from the clock")
	progress := fs.Bool("progress", false, "Show a progress bar for -pvalue")
	cpuProfile := fs.Bool("cpuprofile", false, "Write a CPU profile to the current directory")
	memProfile := fs.Bool("memprofile", false, "Write a memory profile to the current directory")
	fs.Parse(args)

	cfg, err := af.load(fs)
	if err != nil {
		return err
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "seq-dir":
			cfg.Sequences.Dir = *seqDir
		case "base-url":
			cfg.Sequences.BaseURL = *baseURL
		case "trials":
			cfg.PValue.Trials = *trials
		case "workers":
			cfg.PValue.Workers = *workers
		case "seed":
			cfg.PValue.Seed = *seed
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	} else if *memProfile {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var a, b *seqalign.Sequence
	switch {
	case *sequences != "" && *accessions != "":
		return fmt.Errorf("use either -sequences or -accessions, not both")
	case *sequences != "":
		a, b, err = retrieve.LiteralPair(splitList(*sequences))
	case *accessions != "":
		r := retrieve.New(cfg.Sequences.Dir, cfg.Sequences.BaseURL)
		a, b, err = r.Pair(ctx, splitList(*accessions))
	default:
		fs.Usage()
		return fmt.Errorf("either -sequences or -accessions is required")
	}
	if err != nil {
		return err
	}

	svc := seqalign.NewService(cfg.MatrixDir)
	al, err := svc.Aligner(params(cfg))
	if err != nil {
		return err
	}

	var (
		result *seqalign.Result
		m      *seqalign.Matrix
	)
	if *full != "" {
		result, m, err = al.AlignMatrix(a, b, true)
	} else {
		result, err = al.Align(a, b, true)
	}
	if err != nil {
		return err
	}

	var est *pvalue.Estimate
	if *pValue {
		if est, err = estimatePValue(ctx, al, a, b, result.Score, cfg.PValue, *progress); err != nil {
			return err
		}
	}

	if m != nil {
		if err := writeMatrix(*full, m); err != nil {
			return err
		}
		rows, cols := m.Dims()
		fmt.Fprintf(os.Stderr, "Wrote %s cells to %s\n", humanize.Comma(int64(rows*cols)), *full)
	}

	out, err := result.Format(cfg.BlockWidth)
	if err != nil {
		return err
	}
	fmt.Print(out)
	fmt.Printf("Score: %d\n", result.Score)

	if est == nil {
		return nil
	}
	return printPValue(est)
}

func writeMatrix(path string, m *seqalign.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := m.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func estimatePValue(ctx context.Context, al alignment.Aligner, a, b *seqalign.Sequence, observed int, pc config.PValueConfig, showProgress bool) (*pvalue.Estimate, error) {
	opts := pvalue.Options{Trials: pc.Trials, Workers: pc.Workers, Seed: pc.Seed}

	var pbs *mpb.Progress
	if showProgress {
		pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar := pbs.AddBar(int64(pc.Trials),
			mpb.PrependDecorators(
				decor.Name("shuffled trials: ", decor.WC{W: len("shuffled trials: "), C: decor.DindentRight}),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.AverageETA(decor.ET_STYLE_GO),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)
		opts.Progress = func() { bar.Increment() }
	}

	calc, err := pvalue.New(al, opts)
	if err != nil {
		return nil, err
	}
	est, err := calc.Estimate(ctx, a, b, observed)
	if pbs != nil {
		if err != nil {
			pbs.Shutdown()
		} else {
			pbs.Wait()
		}
	}
	return est, err
}

func printPValue(est *pvalue.Estimate) error {
	fmt.Printf("P-value: %.4g (%s of %s shuffled trials scored %d or more, seed %d)\n",
		est.PValue, humanize.Comma(int64(est.Hits)), humanize.Comma(int64(est.Trials)), est.Observed, est.Seed)

	summary, err := est.Summary()
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(summary.String())
	if z := summary.ZScore(est.Observed); !isInf(z) {
		fmt.Printf("Z-score of observed: %.2f\n", z)
	}

	hist, err := stats.NewHistogram(est.Null, 10)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(hist.String())
	lo, hi := hist.ModeBin()
	fmt.Printf("Most shuffled scores fall in %d..%d\n", lo, hi)
	return nil
}

func searchCmd(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	af := addAlignFlags(fs)
	query := fs.String("query", "", "Query sequence")
	file := fs.String("file", "", "FASTA file of targets")
	top := fs.Int("top", 10, "Number of best hits to show")
	k := fs.Int("kmer", 0, "Word length of the k-mer prefilter; 0 aligns every target")
	candidates := fs.Int("candidates", 50, "Targets kept by the k-mer prefilter")
	fs.Parse(args)

	if *query == "" || *file == "" {
		fs.Usage()
		return fmt.Errorf("both -query and -file are required")
	}
	cfg, err := af.load(fs)
	if err != nil {
		return err
	}

	q, err := seqalign.SequenceFromLiteral("query", *query)
	if err != nil {
		return err
	}
	targets, err := seqalign.ReadFASTA(*file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *file, err)
	}

	al, err := seqalign.NewService(cfg.MatrixDir).Aligner(params(cfg))
	if err != nil {
		return err
	}

	total := len(targets)
	if *k > 0 {
		if targets, _, err = kmer.Select(q, targets, *k, *candidates); err != nil {
			return err
		}
	}
	results, err := alignment.AlignAgainstMultiple(al, q, targets, false)
	if err != nil {
		return err
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Result.Score > results[j].Result.Score
	})
	if *top > 0 && len(results) > *top {
		results = results[:*top]
	}

	fmt.Printf("%s alignment of query (%s) against %s of %s targets\n", cfg.AlignmentMode(),
		humanize.Comma(int64(q.Len())), humanize.Comma(int64(len(targets))), humanize.Comma(int64(total)))
	fmt.Println(strings.Repeat("-", 40))
	for i, r := range results {
		fmt.Printf("%2d. %-20s %6d\n", i+1, targets[r.Index].ID(), r.Result.Score)
	}

	// Only the listed hits are retraced.
	hits := make([]*seqalign.Sequence, len(results))
	for i, r := range results {
		hits[i] = targets[r.Index]
	}
	best, err := alignment.FindBest(al, q, hits, true)
	if err != nil {
		return err
	}
	full := best.Result
	out, err := full.Format(cfg.BlockWidth)
	if err != nil {
		return err
	}
	fmt.Printf("\nBest hit: %s\n\n%s", hits[best.Index].ID(), out)
	fmt.Printf("Score: %d  Identity: %.1f%%  Gap openings: %d  CIGAR: %s\n",
		full.Score, full.Identity()*100, full.GapOpenings(), full.CIGAR())
	return nil
}

func infoCmd(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	file := fs.String("file", "", "FASTA file to analyze")
	seq := fs.String("seq", "", "Sequence string to analyze")
	k := fs.Int("kmer", 0, "Also report k-mer statistics for this word length")
	out := fs.String("fasta", "", "Write the normalized records to this FASTA file")
	fs.Parse(args)

	if *file == "" && *seq == "" {
		fs.Usage()
		return fmt.Errorf("either -file or -seq is required")
	}

	var sequences []*seqalign.Sequence
	if *file != "" {
		var err error
		sequences, err = seqalign.ReadFASTA(*file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", *file, err)
		}
	} else {
		s, err := seqalign.SequenceFromLiteral("sequence", *seq)
		if err != nil {
			return err
		}
		sequences = []*seqalign.Sequence{s}
	}

	for i, s := range sequences {
		fmt.Printf("Sequence %d:\n", i+1)
		fmt.Printf("  ID: %s\n", s.ID())
		if s.Description() != "" {
			fmt.Printf("  Description: %s\n", s.Description())
		}
		fmt.Printf("  Length: %s\n", humanize.Comma(int64(s.Len())))
		fmt.Printf("  Composition: %s\n", formatComposition(s.Composition()))
		if *k > 0 {
			words, err := formatKMers(s, *k, 5)
			if err != nil {
				return err
			}
			fmt.Printf("  %s\n", words)
		}
		fmt.Println()
	}

	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		if err := sequence.WriteFASTA(f, sequences); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("Wrote %d records to %s\n", len(sequences), *out)
	}
	return nil
}

func matrixCmd(args []string) error {
	fs := flag.NewFlagSet("matrix", flag.ExitOnError)
	name := fs.String("name", "", "Matrix to print; empty lists the available ones")
	dir := fs.String("matrix-dir", "", "Directory searched for <name>.txt matrices before the built-ins")
	fs.Parse(args)

	svc := seqalign.NewService(*dir)
	if *name == "" {
		names, err := svc.Matrices()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	}

	m, err := svc.Matrix(*name)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%d symbols, symmetric: %t)\n", m.Name(), len(m.Alphabet()), m.Symmetric())
	fmt.Print(m.String())
	return nil
}
