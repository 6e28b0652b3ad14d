package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
	}

	cmd.AddCommand(newKeysCreateCmd())
	cmd.AddCommand(newKeysListCmd())
	cmd.AddCommand(newKeysRevokeCmd())

	return cmd
}

func newKeysCreateCmd() *cobra.Command {
	var name string
	var configID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new API key bound to a project config",
		Long: `Create a new API key bound to a project config.

The raw key is shown exactly once - only its hash is stored.

EXAMPLES:
  # Create a key and display it
  monopay-gateway keys create --name "shop-prod" --config cfg-id

  # Pipe the key straight into a secrets manager
  monopay-gateway keys create --name "shop-prod" --config cfg-id | gh secret set MONOPAY_API_KEY
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeysCreate(name, configID)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "name/label for the key (required)")
	cmd.Flags().StringVar(&configID, "config", "", "project config ID to bind the key to (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func newKeysListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeysList()
		},
	}
}

func newKeysRevokeCmd() *cobra.Command {
	var keyID string

	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke an API key",
		Long: `Revoke an API key to prevent further use.

Revocation takes effect on the next request; there is no cache to expire.
Use 'monopay-gateway keys list' to find the key ID.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeysRevoke(keyID)
		},
	}

	cmd.Flags().StringVar(&keyID, "id", "", "key ID to revoke (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runKeysCreate(name, configID string) error {
	store, err := quietStore()
	if err != nil {
		return err
	}
	defer store.Close()

	key, err := store.CreateAPIKey(context.Background(), name, configID)
	if err != nil {
		return fmt.Errorf("creating API key: %w", err)
	}

	// When piped, emit only the key so it lands in the consumer unadorned.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(key)
		return nil
	}

	fmt.Printf("API key created: %s\n", name)
	fmt.Println()
	fmt.Println("   ", key)
	fmt.Println()
	fmt.Println("This key cannot be retrieved later. Keep it safe!")
	return nil
}

func runKeysList() error {
	store, err := quietStore()
	if err != nil {
		return err
	}
	defer store.Close()

	keys, err := store.ListAPIKeys(context.Background())
	if err != nil {
		return fmt.Errorf("listing API keys: %w", err)
	}

	if len(keys) == 0 {
		fmt.Println("No API keys found")
		fmt.Println()
		fmt.Println(`Create one with: monopay-gateway keys create --name "my-key" --config <config-id>`)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCONFIG\tCREATED\tLAST USED\tREVOKED")
	for _, k := range keys {
		lastUsed := "never"
		if k.LastUsedAt != "" {
			lastUsed = k.LastUsedAt
		}
		revoked := "-"
		if k.RevokedAt != "" {
			revoked = k.RevokedAt
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", shortID(k.ID), k.Name, shortID(k.ProjectConfigID), k.CreatedAt, lastUsed, revoked)
	}
	w.Flush()

	return nil
}

func runKeysRevoke(keyID string) error {
	store, err := quietStore()
	if err != nil {
		return err
	}
	defer store.Close()

	keys, err := store.ListAPIKeys(context.Background())
	if err != nil {
		return fmt.Errorf("listing API keys: %w", err)
	}

	// Accept a truncated ID as shown by 'keys list'.
	var fullKeyID string
	for _, k := range keys {
		if k.ID == keyID || (len(keyID) >= 8 && k.ID[:8] == keyID[:8]) {
			fullKeyID = k.ID
			break
		}
	}
	if fullKeyID == "" {
		return fmt.Errorf("key not found: %s", keyID)
	}

	if err := store.RevokeAPIKey(context.Background(), fullKeyID); err != nil {
		return fmt.Errorf("revoking API key: %w", err)
	}

	fmt.Printf("API key revoked: %s\n", keyID)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}
