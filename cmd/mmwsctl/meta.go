package main

import (
	"fmt"
	"strings"

	"github.com/jroosing/mmws/internal/entity"
	"github.com/jroosing/mmws/internal/resources"
	"github.com/jroosing/mmws/internal/snapshot"
	"github.com/spf13/cobra"
)

func (a *app) accessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "access <ref>",
		Short: "Show who may do what with an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			access, err := a.client.GetAccess(cmd.Context(), entity.Ref(args[0]), nil)
			if err != nil {
				return fmt.Errorf("access %s: %w", args[0], err)
			}
			if a.jsonOut {
				return a.printJSON(access)
			}
			identities := access.List("identityAccess")
			rows := make([][]string, 0, len(identities))
			for _, ia := range identities {
				entries := ia.List("accessEntries")
				perms := make([]string, 0, len(entries))
				for _, e := range entries {
					perms = append(perms, e.String("name")+"="+e.String("access"))
				}
				who := ia.String("identityName")
				if who == "" {
					who = ia.String("identityRef")
				}
				rows = append(rows, []string{who, strings.Join(perms, ", ")})
			}
			renderTable(a.out, []string{"IDENTITY", "ACCESS"}, rows)
			return nil
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <ref>",
		Short: "Show the change history of an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := a.client.GetHistory(cmd.Context(), entity.Ref(args[0]), nil)
			if err != nil {
				return fmt.Errorf("history %s: %w", args[0], err)
			}
			if a.jsonOut {
				return a.printJSON(events)
			}
			rows := make([][]string, 0, len(events))
			for _, ev := range events {
				when := ev.String("timestamp")
				if t, ok := resources.EventTime(ev); ok {
					when = t.Local().Format("2006-01-02 15:04:05")
				}
				rows = append(rows, []string{
					when, ev.String("eventType"), ev.String("username"), ev.String("saveComment"),
				})
			}
			renderTable(a.out, []string{"TIME", "EVENT", "USER", "COMMENT"}, rows)
			return nil
		},
	}
}

func (a *app) propdefsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "propdefs <ref|kind> [name]",
		Short: "List custom property definitions",
		Long: `Propdefs lists the custom property definitions of a kind or an object.

Example:
  mmwsctl propdefs Ranges
  mmwsctl propdefs Ranges Location`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := args[0]
			if d, ok := resources.Lookup(scope); ok {
				scope = d.Path
			}
			var name string
			if len(args) == 2 {
				name = args[1]
			}
			defs, err := a.client.PropertyDefinitions(cmd.Context(), entity.Ref(scope), name)
			if err != nil {
				return fmt.Errorf("property definitions of %s: %w", scope, err)
			}
			return a.printEntities(defs)
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file> <kind>...",
		Short: "Save objects into a local SQLite snapshot",
		Long: `Export lists every object of the given kinds and stores them in a SQLite
file. Exporting again refreshes rows with the same reference.

Example:
  mmwsctl export snapshot.db DNSZones Ranges`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := snapshot.Open(args[0])
			if err != nil {
				return err
			}
			defer snap.Close()

			ctx := cmd.Context()
			for _, kind := range args[1:] {
				svc, err := a.service(kind)
				if err != nil {
					return err
				}
				path := svc.Descriptor().Path
				entities, err := svc.List(ctx, nil)
				if err != nil {
					return fmt.Errorf("list %s: %w", path, err)
				}
				n, err := snap.Write(ctx, path, entities)
				if err != nil {
					return fmt.Errorf("export %s: %w", path, err)
				}
				a.logger.Info("exported", "kind", path, "objects", n)
				fmt.Fprintf(a.out, "%s: %d\n", path, n)
			}

			total, err := snap.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s holds %d objects\n", args[0], total)
			return nil
		},
	}
}
