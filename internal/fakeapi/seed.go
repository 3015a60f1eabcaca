package fakeapi

import (
	"fmt"

	"github.com/jroosing/mmws/internal/fakeapi/store"
)

const seedUser = "system"

type seedObject struct {
	path string
	obj  map[string]any
}

// sampleObjects is a small but connected data set: a group with a role
// and a member, a zone with records, and a folder holding a range.
var sampleObjects = []seedObject{
	{"Users", map[string]any{"name": "alice", "fullName": "Alice Admin", "email": "alice@example.com", "authenticationType": "Internal"}},
	{"Users", map[string]any{"name": "bob", "fullName": "Bob Builder", "authenticationType": "Internal"}},
	{"Groups", map[string]any{"name": "netops", "description": "Network operations"}},
	{"Roles", map[string]any{"name": "DNS Administrators", "description": "Full DNS access"}},
	{"DNSViews", map[string]any{"name": "internal", "recursion": true}},
	{"DNSZones", map[string]any{"name": "example.com.", "type": "Master", "authority": "ns1.example.com.", "dynamic": false}},
	{"DNSRecords", map[string]any{"name": "www", "type": "A", "data": "192.0.2.10", "ttl": "3600", "enabled": true, "dnsZoneRef": "DNSZones/1"}},
	{"DNSRecords", map[string]any{"name": "mail", "type": "MX", "data": "10 mx.example.com.", "enabled": true, "dnsZoneRef": "DNSZones/1"}},
	{"Folders", map[string]any{"name": "Datacenter"}},
	{"Ranges", map[string]any{"name": "192.0.2.0/24", "from": "192.0.2.0", "to": "192.0.2.255", "subnet": true, "locked": false}},
	{"IPAMRecords", map[string]any{"address": "192.0.2.10", "claimed": true, "dnsHosts": []any{"www.example.com."}}},
	{"Devices", map[string]any{"name": "core-sw-1"}},
}

var sampleLinks = [][2]string{
	{"Groups/1", "Users/1"},
	{"Groups/1", "Roles/1"},
	{"Users/2", "Roles/1"},
}

// Seed fills st with sample objects. It expects an empty store.
func Seed(st *store.Store) error {
	for _, s := range sampleObjects {
		if _, err := st.Create(s.path, s.obj, seedUser, "sample data"); err != nil {
			return fmt.Errorf("seed %s: %w", s.path, err)
		}
	}
	for _, l := range sampleLinks {
		if err := st.Link(l[0], l[1], seedUser, "sample data"); err != nil {
			return fmt.Errorf("seed link %s -> %s: %w", l[0], l[1], err)
		}
	}
	if err := st.CreatePropertyDefinition("Ranges", map[string]any{
		"name": "Location", "type": "String", "mandatory": false, "defaultValue": "",
	}); err != nil {
		return fmt.Errorf("seed property definition: %w", err)
	}
	return nil
}
