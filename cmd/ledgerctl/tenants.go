package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dafibh/fortuna/ledger-backend/internal/domain"
	"github.com/dafibh/fortuna/ledger-backend/internal/repository/postgres"
	"github.com/dafibh/fortuna/ledger-backend/internal/service"
	"github.com/spf13/cobra"
)

func tenantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "Manage tenants",
		Long: `Provision and inspect tenants, or toggle their access.

A tenant key is the authenticated subject of its owner, e.g. "auth0|abc123".
Deactivating a tenant rejects its requests but keeps its data.`,
	}

	cmd.AddCommand(tenantCmd("provision", "Create a tenant and seed its default categories", provisionTenant))
	cmd.AddCommand(tenantCmd("show", "Show a tenant", showTenant))
	cmd.AddCommand(tenantCmd("deactivate", "Reject further requests of a tenant", setTenantActive(false)))
	cmd.AddCommand(tenantCmd("activate", "Accept requests of a deactivated tenant again", setTenantActive(true)))

	return cmd
}

type tenantAction func(ctx context.Context, svc *service.TenantService, repo domain.TenantRepository, tenantKey string) (*domain.Tenant, error)

func tenantCmd(use, short string, action tenantAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <tenant-key>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			repo := postgres.NewTenantRepository(pool)
			tenant, err := action(ctx, service.NewTenantService(repo), repo, args[0])
			if err != nil {
				return err
			}
			return printTenant(cmd.OutOrStdout(), tenant)
		},
	}
}

func provisionTenant(ctx context.Context, svc *service.TenantService, _ domain.TenantRepository, tenantKey string) (*domain.Tenant, error) {
	return svc.Provision(ctx, tenantKey)
}

func showTenant(ctx context.Context, _ *service.TenantService, repo domain.TenantRepository, tenantKey string) (*domain.Tenant, error) {
	return repo.GetByKey(ctx, strings.TrimSpace(tenantKey))
}

func setTenantActive(active bool) tenantAction {
	return func(ctx context.Context, svc *service.TenantService, _ domain.TenantRepository, tenantKey string) (*domain.Tenant, error) {
		return svc.SetActive(ctx, tenantKey, active)
	}
}

func printTenant(w io.Writer, tenant *domain.Tenant) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKEY\tACTIVE\tCREATED")
	fmt.Fprintf(tw, "%d\t%s\t%t\t%s\n", tenant.ID, tenant.TenantKey, tenant.IsActive, tenant.CreatedAt.Format(time.RFC3339))
	return tw.Flush()
}
