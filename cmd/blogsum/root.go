package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dgallion1/blogsum/internal/config"
	"github.com/dgallion1/blogsum/internal/summarizer"
)

// options holds the flags shared by every subcommand.
type options struct {
	sentences int
	explain   bool
	cfg       config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "blogsum",
		Short: "Extractive summaries of blog posts and documents",
		Long: `blogsum picks the most representative sentences of a text by word
frequency and prints them in their original order.

Available commands:
  text  - summarize a file or standard input
  url   - fetch a blog post and summarize it`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.cfg = config.Load()
			if opts.sentences <= 0 {
				return fmt.Errorf("--sentences must be positive, got %d", opts.sentences)
			}
			return nil
		},
	}

	cmd.PersistentFlags().IntVarP(&opts.sentences, "sentences", "n", summarizer.DefaultSentenceCount, "number of sentences in the summary")
	cmd.PersistentFlags().BoolVar(&opts.explain, "explain", false, "print every candidate sentence with its score")

	cmd.AddCommand(newTextCmd(opts))
	cmd.AddCommand(newURLCmd(opts))
	return cmd
}

// printSummary writes the summary of text and, with --explain, the scored
// candidates it was chosen from.
func printSummary(w io.Writer, text string, opts *options) {
	ranked := summarizer.Rank(text)
	picked := summarizer.Select(ranked, opts.sentences)

	if opts.explain {
		chosen := make(map[int]bool, len(picked))
		for _, s := range picked {
			chosen[s.Index] = true
		}
		fmt.Fprintf(w, "%d candidate sentences:\n", len(ranked))
		for _, s := range ranked {
			mark := " "
			if chosen[s.Index] {
				mark = "*"
			}
			fmt.Fprintf(w, "%s %3d  score=%-4d %s\n", mark, s.Index, s.Score, truncate(s.Text, 80))
		}
		fmt.Fprintln(w)
	}

	summary := ""
	if text != "" {
		summary = summarizer.Render(picked)
	}
	fmt.Fprintln(w, summary)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
