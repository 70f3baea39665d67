package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/blogsum/internal/parser"
)

func newTextCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "text [file]",
		Short: "Summarize a file, or standard input when no file is given",
		Long: `Summarize a local document. Supported formats are plain text, Markdown,
HTML, PDF and DOCX; the format is chosen by file extension. Without a file
argument the text is read from standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			} else {
				doc, err := parseFile(args[0], opts)
				if err != nil {
					return err
				}
				if opts.explain && doc.Title != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "title: %s\n", doc.Title)
				}
				text = doc.Text
			}

			printSummary(cmd.OutOrStdout(), text, opts)
			return nil
		},
	}
}

func parseFile(path string, opts *options) (*parser.Document, error) {
	p, err := parser.ForFile(path, parser.Options{PDFFallbackPdftotext: opts.cfg.PDFFallbackPdftotext})
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := p.Parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}
