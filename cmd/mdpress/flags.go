package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// styleFlags holds visual styling flags.
type styleFlags struct {
	theme string
	css   string
}

// pageFlags holds page geometry flags.
type pageFlags struct {
	size         string
	margin       string // shorthand for all four sides
	marginTop    string
	marginBottom string
	marginLeft   string
	marginRight  string
}

// pageNumberFlags holds footer numbering flags.
type pageNumberFlags struct {
	enabled  bool
	position string
	format   string
}

// metadataFlags holds document metadata flags.
type metadataFlags struct {
	title    string
	author   string
	subject  string
	keywords string
}

// cliFlags holds all flags for the mdpress command.
type cliFlags struct {
	output            string
	preserveStructure bool
	config            string
	workers           int
	timeout           string
	merge             bool
	toc               bool
	cover             bool
	style             styleFlags
	page              pageFlags
	pageNumbers       pageNumberFlags
	metadata          metadataFlags
	quiet             bool
	verbose           bool
	version           bool
}

// parseFlags parses command-line flags and returns positional args.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("mdpress", flag.ContinueOnError)
	f := &cliFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.BoolVar(&f.preserveStructure, "preserve-structure", false, "mirror input directory layout under the output directory")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-file conversion timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.merge, "merge", false, "join all discovered files into a single PDF")

	// Document features
	fs.BoolVar(&f.toc, "toc", false, "include a table of contents")
	fs.BoolVar(&f.cover, "cover", false, "include a cover page")

	// Styling
	fs.StringVar(&f.style.theme, "theme", "", "built-in theme name")
	fs.StringVar(&f.style.css, "css", "", "custom CSS file path")

	// Page geometry
	fs.StringVarP(&f.page.size, "page-size", "p", "", "page size: a4, a3, a5, letter, legal")
	fs.StringVar(&f.page.margin, "margin", "", "margin for all sides (CSS length, e.g. 2cm)")
	fs.StringVar(&f.page.marginTop, "margin-top", "", "top margin")
	fs.StringVar(&f.page.marginBottom, "margin-bottom", "", "bottom margin")
	fs.StringVar(&f.page.marginLeft, "margin-left", "", "left margin")
	fs.StringVar(&f.page.marginRight, "margin-right", "", "right margin")

	// Page numbers
	fs.BoolVar(&f.pageNumbers.enabled, "page-numbers", false, "show page numbers in the footer")
	fs.StringVar(&f.pageNumbers.position, "page-number-position", "", "footer position: left, center, right")
	fs.StringVar(&f.pageNumbers.format, "page-number-format", "", "footer template with {page} and {pages}")

	// Metadata
	fs.StringVar(&f.metadata.title, "title", "", "document title (default: source file name)")
	fs.StringVar(&f.metadata.author, "author", "", "document author")
	fs.StringVar(&f.metadata.subject, "subject", "", "document subject")
	fs.StringVar(&f.metadata.keywords, "keywords", "", "document keywords (comma-separated)")

	// Output control
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timing and page counts")
	fs.BoolVar(&f.version, "version", false, "show version and exit")

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
