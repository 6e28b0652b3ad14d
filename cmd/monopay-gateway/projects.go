package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/monopay/gateway/internal/storage"
	"github.com/monopay/gateway/internal/validation"
)

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage merchant projects and service configs",
	}

	cmd.AddCommand(newProjectsCreateCmd())
	cmd.AddCommand(newProjectsListCmd())
	cmd.AddCommand(newProjectsImportCmd())

	return cmd
}

func newProjectsCreateCmd() *cobra.Command {
	var name, network, wallet string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a merchant project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectsCreate(name, network, wallet)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "project name (required)")
	cmd.Flags().StringVar(&network, "network", "mainnet-beta", "Solana network")
	cmd.Flags().StringVar(&wallet, "wallet", "", "payout wallet address (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("wallet")

	return cmd
}

func newProjectsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List merchant projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectsList()
		},
	}
}

func newProjectsImportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import projects, configs, and keys from a YAML seed file",
		Long: `Import projects, configs, and keys from a YAML seed file.

SEED FORMAT:
  projects:
    - name: Demo Shop
      network: mainnet-beta
      payoutWallet: 7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU
      configs:
        - serviceId: svc-search
          allowedRoutes: ["/api/search"]
          priceLamports: 10000000
          keys: ["shop-prod"]

Raw keys for any declared key names are printed once, one per line.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectsImport(file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "seed file path (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// seedFile mirrors the YAML bootstrap document.
type seedFile struct {
	Projects []seedProject `yaml:"projects"`
}

type seedProject struct {
	Name         string       `yaml:"name"`
	Network      string       `yaml:"network"`
	PayoutWallet string       `yaml:"payoutWallet"`
	Configs      []seedConfig `yaml:"configs"`
}

type seedConfig struct {
	ServiceID     string   `yaml:"serviceId"`
	AllowedRoutes []string `yaml:"allowedRoutes"`
	PriceLamports uint64   `yaml:"priceLamports"`
	Keys          []string `yaml:"keys"`
}

func runProjectsCreate(name, network, wallet string) error {
	if err := validation.ValidateWallet(wallet); err != nil {
		return fmt.Errorf("invalid wallet: %w", err)
	}

	store, err := quietStore()
	if err != nil {
		return err
	}
	defer store.Close()

	p := &storage.Project{
		Name:         name,
		Network:      network,
		PayoutWallet: wallet,
	}
	if err := store.CreateProject(context.Background(), p); err != nil {
		return fmt.Errorf("creating project: %w", err)
	}

	fmt.Printf("Project created: %s (%s)\n", p.Name, p.ID)
	return nil
}

func runProjectsList() error {
	store, err := quietStore()
	if err != nil {
		return err
	}
	defer store.Close()

	projects, err := store.ListProjects(context.Background())
	if err != nil {
		return fmt.Errorf("listing projects: %w", err)
	}

	if len(projects) == 0 {
		fmt.Println("No projects found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tNETWORK\tPAYOUT WALLET\tCREATED")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", shortID(p.ID), p.Name, p.Network, p.PayoutWallet, p.CreatedAt)
	}
	w.Flush()

	return nil
}

func runProjectsImport(file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parsing seed file: %w", err)
	}

	store, err := quietStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	for _, sp := range seed.Projects {
		if err := validation.ValidateWallet(sp.PayoutWallet); err != nil {
			return fmt.Errorf("project %q: invalid wallet: %w", sp.Name, err)
		}
		network := sp.Network
		if network == "" {
			network = "mainnet-beta"
		}

		p := &storage.Project{
			Name:         sp.Name,
			Network:      network,
			PayoutWallet: sp.PayoutWallet,
		}
		if err := store.CreateProject(ctx, p); err != nil {
			return fmt.Errorf("creating project %q: %w", sp.Name, err)
		}
		fmt.Printf("Project created: %s (%s)\n", p.Name, p.ID)

		for _, sc := range sp.Configs {
			cfg := &storage.ProjectConfig{
				ProjectID:     p.ID,
				ServiceID:     sc.ServiceID,
				AllowedRoutes: sc.AllowedRoutes,
				PriceLamports: sc.PriceLamports,
			}
			if err := store.CreateProjectConfig(ctx, cfg); err != nil {
				return fmt.Errorf("creating config %q: %w", sc.ServiceID, err)
			}
			fmt.Printf("  Config created: %s (%s)\n", cfg.ServiceID, cfg.ID)

			for _, keyName := range sc.Keys {
				key, err := store.CreateAPIKey(ctx, keyName, cfg.ID)
				if err != nil {
					return fmt.Errorf("creating key %q: %w", keyName, err)
				}
				fmt.Printf("    Key %s: %s\n", keyName, key)
			}
		}
	}

	return nil
}
