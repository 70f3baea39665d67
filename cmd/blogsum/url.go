package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/blogsum/internal/scrape"
	"github.com/dgallion1/blogsum/internal/summarizer"
	"github.com/dgallion1/blogsum/internal/translate"
)

func newURLCmd(opts *options) *cobra.Command {
	var translateTo string

	cmd := &cobra.Command{
		Use:   "url <url>",
		Short: "Fetch a blog post and summarize it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			fetcher := scrape.NewFetcher(scrape.Options{
				UserAgent:    cfg.UserAgent,
				Timeout:      cfg.FetchTimeout,
				MaxBodyBytes: cfg.MaxFetchBytes,
				MinTextChars: cfg.MinArticleText,
			})
			defer fetcher.Close()

			page, err := fetcher.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if page.Title != "" {
				fmt.Fprintf(out, "%s\n\n", page.Title)
			}
			printSummary(out, page.Text, opts)

			if translateTo == "" {
				return nil
			}
			tr := translate.New(translate.Options{
				AnthropicAPIKey: cfg.AnthropicAPIKey,
				AnthropicModel:  cfg.AnthropicModel,
			})
			summary := summarizer.Summarize(page.Text, opts.sentences)
			translated, err := tr.Translate(cmd.Context(), summary, translateTo)
			if err != nil {
				return fmt.Errorf("translate with %s: %w", tr.Name(), err)
			}
			fmt.Fprintf(out, "\n[%s] %s\n", translateTo, translated)
			return nil
		},
	}

	cmd.Flags().StringVar(&translateTo, "translate", "", "also print the summary translated into this language code (e.g. ur)")
	return cmd
}
