package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var hashCost int

var hashPhraseCmd = &cobra.Command{
	Use:   "hash-phrase [phrase]",
	Short: "Print a bcrypt hash for admin.access_phrase_hash",
	Long: `Print a bcrypt hash of the admin access phrase.

The phrase is taken from the argument, or read from the first line of stdin
when no argument is given. Put the output in admin.access_phrase_hash
(or SHIFT_ADMIN_ACCESS_PHRASE_HASH) and drop the plain phrase.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		phrase := ""
		if len(args) == 1 {
			phrase = args[0]
		} else {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read phrase: %w", err)
			}
			phrase = strings.TrimRight(line, "\r\n")
		}
		if phrase == "" {
			return errors.New("empty phrase")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(phrase), hashCost)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(hash))
		return nil
	},
}

func init() {
	hashPhraseCmd.Flags().IntVar(&hashCost, "cost", bcrypt.DefaultCost, "bcrypt cost")
}
