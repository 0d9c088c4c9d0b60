package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagCreditsAdd int

var creditsCmd = &cobra.Command{
	Use:   "credits",
	Short: "Show or top up level credits",
	Long: `Each level built by a paid backend costs credits from the player's
wallet. New wallets start with the configured initial balance.

Examples:
  stubro credits
  stubro credits --add 50
  stubro credits --user ada --add 20`,
	Args: cobra.NoArgs,
	RunE: runCredits,
}

func init() {
	creditsCmd.Flags().IntVar(&flagCreditsAdd, "add", 0, "Credits to add to the wallet")
}

func runCredits(_ *cobra.Command, _ []string) error {
	cfg, store, err := openConfiguredStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if flagCreditsAdd != 0 {
		balance, err := store.Credit(flagUser, flagCreditsAdd)
		if err != nil {
			return err
		}
		newLogger().Info("wallet topped up", "user", flagUser, "added", flagCreditsAdd, "balance", balance)
		fmt.Printf("%s now has %d credits\n", flagUser, balance)
		return nil
	}

	balance, err := store.Balance(flagUser)
	if err != nil {
		return err
	}
	fmt.Printf("%s has %d credits\n", flagUser, balance)
	if !cfg.Credits.Enabled {
		fmt.Println("Credits are disabled in the config; levels are free.")
		return nil
	}
	fmt.Printf("Each generated level costs %d credits\n", cfg.Credits.LevelCost)
	return nil
}
