package main

import (
	"bufio"
	"fmt"
	"strings"

	"legitapply/internal/secrets"

	"github.com/spf13/cobra"
)

var setPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Store the LinkedIn password in the OS keychain",
	Long:  "Reads the password from stdin and stores it in the OS keychain under the given account. Set linkedin.keyring_account (or use the login email as account) to pick it up.",
	RunE:  runSetPassword,
}

var (
	passwordAccount string
	passwordDelete  bool
)

func init() {
	setPasswordCmd.Flags().StringVarP(&passwordAccount, "account", "a", "", "Keychain account name, usually the LinkedIn email (required)")
	setPasswordCmd.Flags().BoolVar(&passwordDelete, "delete", false, "Remove the stored password instead")

	if err := setPasswordCmd.MarkFlagRequired("account"); err != nil {
		panic(fmt.Sprintf("failed to mark account flag as required: %v", err))
	}

	rootCmd.AddCommand(setPasswordCmd)
}

func runSetPassword(cmd *cobra.Command, _ []string) error {
	if passwordDelete {
		if err := secrets.DeleteLinkedInPassword(passwordAccount); err != nil {
			return fmt.Errorf("failed to delete password: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️ Password for %s removed from keychain.\n", passwordAccount)
		return nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "LinkedIn password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("failed to read password from stdin: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")

	if err := secrets.SetLinkedInPassword(passwordAccount, password); err != nil {
		return fmt.Errorf("failed to store password: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "🔐 Password for %s stored in keychain.\n", passwordAccount)
	return nil
}
