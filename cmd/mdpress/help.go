package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdpress [flags] <input>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown files to PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>            Output file or directory")
	fmt.Fprintln(w, "      --preserve-structure       Mirror input directory layout")
	fmt.Fprintln(w, "  -c, --config <name>            Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>              Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <dur>            Per-file timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --merge                    Join all files into a single PDF")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Features:")
	fmt.Fprintln(w, "      --toc                      Include a table of contents")
	fmt.Fprintln(w, "      --cover                    Include a cover page")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --theme <name>             Built-in theme: github, minimal, academic, dark, modern")
	fmt.Fprintln(w, "      --css <path>               Custom CSS file (mutually exclusive with --theme)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>            Page size: a4, a3, a5, letter, legal")
	fmt.Fprintln(w, "      --margin <len>             Margin for all sides (e.g., 2cm, 0.75in)")
	fmt.Fprintln(w, "      --margin-top <len>         Top margin")
	fmt.Fprintln(w, "      --margin-bottom <len>      Bottom margin")
	fmt.Fprintln(w, "      --margin-left <len>        Left margin")
	fmt.Fprintln(w, "      --margin-right <len>       Right margin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page Numbers:")
	fmt.Fprintln(w, "      --page-numbers             Show page numbers in the footer")
	fmt.Fprintln(w, "      --page-number-position <s> Position: left, center, right")
	fmt.Fprintln(w, "      --page-number-format <s>   Template with {page} and {pages}")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Metadata:")
	fmt.Fprintln(w, "      --title <s>                Document title (default: file name)")
	fmt.Fprintln(w, "      --author <s>               Document author")
	fmt.Fprintln(w, "      --subject <s>              Document subject")
	fmt.Fprintln(w, "      --keywords <s>             Comma-separated keywords")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                    Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                  Show timing and page counts")
	fmt.Fprintln(w, "      --version                  Show version and exit")
}
