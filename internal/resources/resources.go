// Package resources holds the schemas and service descriptors of every MMWS
// resource kind. It is configuration data: the behaviour lives in the
// entity and service packages.
package resources

import (
	"strings"

	"github.com/jroosing/mmws/internal/entity"
	"github.com/jroosing/mmws/internal/service"
)

// Descriptor is re-exported so the catalogue reads as plain data.
type Descriptor = service.Descriptor

// Catalogue returns the descriptors of all top-level resource kinds in a
// stable order.
func Catalogue() []Descriptor {
	return []Descriptor{
		Users, Groups, Roles,
		DNSZones, DNSRecords, DNSViews,
		Folders, IPAMRecords, Ranges,
		Interfaces, Devices, ChangeRequests,
	}
}

// Lookup finds a descriptor by API path ("DNSZones"), object type
// ("DNSZone") or collection key ("dnsZones"), ignoring case.
func Lookup(name string) (Descriptor, bool) {
	for _, d := range Catalogue() {
		if strings.EqualFold(name, d.Path) ||
			strings.EqualFold(name, d.ObjType) ||
			strings.EqualFold(name, d.CollectionKey) {
			return d, true
		}
	}
	return Descriptor{}, false
}

// LookupRef finds the descriptor owning a reference such as "Users/3" or
// "DNSZones/example.com.".
func LookupRef(ref string) (Descriptor, bool) {
	kind, _, ok := strings.Cut(ref, "/")
	if !ok {
		return Descriptor{}, false
	}
	for _, d := range Catalogue() {
		if d.Path == kind {
			return d, true
		}
	}
	return Descriptor{}, false
}

var schemas = map[string]*entity.Schema{}

func init() {
	for _, s := range []*entity.Schema{
		User, Group, Role,
		DNSZone, DNSRecord, DNSView, DNSZoneOptions, DNSGenerateDirective,
		Folder, IPAMRecord, Range, Interface, Device, ChangeRequest,
		Discovery, AddressBlock, RangeStatistics,
		AccessEntry, IdentityAccess, ObjectAccess, Event, PropertyDefinition,
	} {
		schemas[strings.ToLower(s.Kind())] = s
	}
}

// Schema returns the schema of any known kind, nested ones included.
func Schema(kind string) (*entity.Schema, bool) {
	s, ok := schemas[strings.ToLower(kind)]
	return s, ok
}
