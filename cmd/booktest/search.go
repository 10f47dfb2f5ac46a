package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"pollex.nl/shelf/booktest"
)

func newSearchCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <tag>",
		Short: "List the books carrying a tag, with their authors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rootOpts.openDB(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			results, err := rootOpts.newStore(db).AuthorBookResultsByTag(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printResults(cmd.OutOrStdout(), results)
			return nil
		},
	}
}

func printResults(w io.Writer, results []booktest.AuthorBookResult) {
	for _, ab := range results {
		fmt.Fprintf(w, "Book %d: %q, Author: %q, ISBN: %q Tags: %q\n", ab.BookID, ab.BookTitle, ab.AuthorName, ab.BookISBN, ab.BookTags)
	}
}
