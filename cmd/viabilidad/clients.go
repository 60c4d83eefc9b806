package main

import (
	"fmt"
	"strconv"

	"viabilidad/internal/clients"
	"viabilidad/internal/config"
	"viabilidad/internal/logging"
	"viabilidad/pkg/constants"
	"viabilidad/pkg/format"
	"github.com/spf13/cobra"
)

func clientsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Manage the client pipeline",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", constants.DefaultDatabasePath, "path to the pipeline database")

	openStore := func() (*clients.Store, error) {
		logger, err := logging.NewLogger(config.LoggingConfig{Format: "console"}, logLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		return clients.NewStore(dbPath, logger)
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List clients in pipeline order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			list, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(list) == 0 {
				fmt.Println("No hay clientes en el pipeline.")
				return nil
			}

			fmt.Printf("%-5s | %-24s | %-14s | %-9s | %s\n", "ID", "Nombre", "Teléfono", "Estado", "Precio máximo")
			for _, client := range list {
				fmt.Printf("%-5d | %-24s | %-14s | %-9s | %s\n",
					client.ID, client.Name, client.Phone, client.Status,
					format.Euro(client.MaxPurchasePrice))
			}
			return nil
		},
	}

	setStatusCmd := &cobra.Command{
		Use:   "set-status <id> <default|arras|2visita>",
		Short: "Move a client to another pipeline column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid client id %q", args[0])
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return store.UpdateStatus(cmd.Context(), id, clients.Status(args[1]))
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a client from the pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid client id %q", args[0])
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return store.Delete(cmd.Context(), id)
		},
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(setStatusCmd)
	cmd.AddCommand(deleteCmd)
	return cmd
}
