package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jroosing/mmws/internal/entity"
	"github.com/jroosing/mmws/internal/resources"
	"github.com/jroosing/mmws/internal/service"
	"github.com/jroosing/mmws/internal/transport"
	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	var (
		filter string
		limit  int
		offset int
	)
	cmd := &cobra.Command{
		Use:   "list <kind> [key=value...]",
		Short: "List objects of a kind",
		Long: `List fetches the objects of one kind. Extra key=value arguments are sent
as query parameters.

Example:
  mmwsctl list DNSZones
  mmwsctl list dnsZones --filter name:example --limit 20
  mmwsctl list Ranges folderRef=Folders/2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(args[0])
			if err != nil {
				return err
			}
			q, err := parseQuery(args[1:])
			if err != nil {
				return err
			}
			if filter != "" {
				q["filter"] = filter
			}
			if limit > 0 {
				q["limit"] = limit
			}
			if offset > 0 {
				q["offset"] = offset
			}
			entities, err := svc.List(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("list %s: %w", svc.Descriptor().Path, err)
			}
			return a.printEntities(entities)
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "server-side filter expression")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of objects")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of objects to skip")
	return cmd
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <ref>",
		Short: "Show one object",
		Long: `Get fetches one object by reference. The part after the kind may also be
the object's name.

Example:
  mmwsctl get Users/3
  mmwsctl get DNSZones/example.com.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.serviceForRef(args[0])
			if err != nil {
				return err
			}
			got, err := svc.Get(cmd.Context(), entity.Ref(args[0]), nil)
			if err != nil {
				return fmt.Errorf("get %s: %w", args[0], err)
			}
			if len(got) == 0 {
				return fmt.Errorf("get %s: %w", args[0], service.ErrNotFound)
			}
			if a.jsonOut {
				return a.printJSON(got[0])
			}
			return a.printFields(got[0])
		},
	}
}

func (a *app) updateCmd() *cobra.Command {
	var (
		comment           string
		deleteUnspecified bool
	)
	cmd := &cobra.Command{
		Use:   "update <ref> key=value...",
		Short: "Change fields of an object",
		Long: `Update sends the given fields as a partial update. Values that parse as
JSON (numbers, true, false, lists) are sent as such, everything else as a
string. Empty values, false and 0 are not sent.

Example:
  mmwsctl update Users/3 fullName="Jane Doe" email=jane@example.com
  mmwsctl update DNSZones/7 dynamic=true --comment "enable DDNS"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := args[0]
			desc, ok := resources.LookupRef(ref)
			if !ok {
				return fmt.Errorf("unknown kind in reference %q", ref)
			}
			fields, err := parseAssignments(args[1:])
			if err != nil {
				return err
			}
			for name := range fields {
				if _, ok := desc.Schema.Field(name); !ok {
					return fmt.Errorf("%s has no field %q", desc.ObjType, name)
				}
			}
			if err := a.client.Update(cmd.Context(), entity.Ref(ref), fields, desc.ObjType, comment, deleteUnspecified); err != nil {
				return fmt.Errorf("update %s: %w", ref, err)
			}
			fmt.Fprintln(a.out, "updated", ref)
			return nil
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "save comment recorded in the history")
	cmd.Flags().BoolVar(&deleteUnspecified, "delete-unspecified", false, "clear every field not given")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   "delete <ref>",
		Short: "Delete an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Delete(cmd.Context(), entity.Ref(args[0]), transport.Query{"saveComment": comment}); err != nil {
				return fmt.Errorf("delete %s: %w", args[0], err)
			}
			fmt.Fprintln(a.out, "deleted", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "save comment recorded in the history")
	return cmd
}

func (a *app) kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "kinds",
		Short:       "List the resource kinds mmwsctl knows",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{offline: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalogue := resources.Catalogue()
			if a.jsonOut {
				out := make([]map[string]string, 0, len(catalogue))
				for _, d := range catalogue {
					out = append(out, map[string]string{
						"path": d.Path, "objType": d.ObjType,
						"itemKey": d.ItemKey, "collectionKey": d.CollectionKey,
						"refField": d.Schema.RefField(),
					})
				}
				return a.printJSON(out)
			}
			rows := make([][]string, 0, len(catalogue))
			for _, d := range catalogue {
				rows = append(rows, []string{d.Path, d.ObjType, d.ItemKey, d.CollectionKey, d.Schema.RefField()})
			}
			renderTable(a.out, []string{"PATH", "OBJTYPE", "ITEM", "COLLECTION", "REF"}, rows)
			return nil
		},
	}
}

func (a *app) service(kind string) (*service.Service, error) {
	svc, ok := a.client.Service(kind)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q (see mmwsctl kinds)", kind)
	}
	return svc, nil
}

func (a *app) serviceForRef(ref string) (*service.Service, error) {
	svc, ok := a.client.ServiceForRef(ref)
	if !ok {
		return nil, fmt.Errorf("unknown kind in reference %q (want <Kind>/<id or name>)", ref)
	}
	return svc, nil
}

// printFields prints every set field of e, one per line.
func (a *app) printFields(e *entity.Entity) error {
	wire := e.Wire()
	rows := make([][]string, 0, len(wire))
	for _, name := range e.Schema().Fields() {
		v, ok := wire[name]
		if !ok {
			continue
		}
		rows = append(rows, []string{name, formatValue(v)})
	}
	renderTable(a.out, []string{"FIELD", "VALUE"}, rows)
	return nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

// parseAssignments turns key=value arguments into update fields. Values
// that parse as JSON keep their type.
func parseAssignments(args []string) (entity.Fields, error) {
	fields := entity.Fields{}
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q (expected key=value)", arg)
		}
		fields[key] = parseValue(raw)
	}
	return fields, nil
}

func parseValue(raw string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	if _, isObject := v.(map[string]any); isObject {
		return raw
	}
	return v
}

// parseQuery turns key=value arguments into query parameters. Repeated
// keys become lists.
func parseQuery(args []string) (transport.Query, error) {
	q := transport.Query{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query parameter %q (expected key=value)", arg)
		}
		switch prev := q[key].(type) {
		case nil:
			q[key] = value
		case string:
			q[key] = []string{prev, value}
		case []string:
			q[key] = append(prev, value)
		}
	}
	return q, nil
}
