package resources

import "github.com/jroosing/mmws/internal/entity"

// DNSView is a view on a DNS server.
var DNSView = entity.NewSchema("DNSView").
	Declare("ref", nil).
	Declare("name", nil).
	Declare("userDefinedName", nil).
	Declare("dnsServerRef", nil).
	Declare("forwardingMode", nil).
	DeclareValue("forwarders", nil).
	DeclareValue("matchClients", nil).
	DeclareValue("matchDestinations", nil).
	Declare("recursion", nil).
	Declare("orderNum", nil)

// DNSZoneOptions holds the server options of a zone.
var DNSZoneOptions = entity.NewSchema("DNSZoneOptions").
	Declare("ref", nil).
	Declare("name", nil).
	DeclareValue("options", nil)

// DNSGenerateDirective is a BIND $GENERATE directive in a zone.
var DNSGenerateDirective = entity.NewSchema("DNSGenerateDirective").
	Declare("ref", nil).
	Declare("dnsZoneRef", nil).
	Declare("rangeStart", nil).
	Declare("rangeEnd", nil).
	Declare("rangeStep", nil).
	Declare("lhs", nil).
	Declare("type", nil).
	Declare("rhs", nil).
	Declare("ttl", nil).
	Declare("comment", nil)

// DNSZone is an authoritative or forwarded zone.
var DNSZone = entity.NewSchema("DNSZone").
	Declare("ref", nil).
	Declare("name", nil).
	Declare("displayName", nil).
	Declare("dynamic", nil).
	Declare("adIntegrated", nil).
	Declare("dnsViewRef", nil).
	DeclareValue("dnsViewRefs", nil).
	Declare("authority", nil).
	Declare("type", nil).
	Declare("dnssecSigned", nil).
	DeclareValue("kskIDs", nil).
	DeclareValue("zskIDs", nil).
	Declare("adReplicationType", nil).
	Declare("adPartition", nil).
	Declare("created", nil).
	Declare("lastModified", nil).
	DeclareValue("customProperties", nil)

// DNSRecord is one resource record in a zone.
var DNSRecord = entity.NewSchema("DNSRecord").
	Declare("ref", nil).
	Declare("name", nil).
	Declare("type", nil).
	Declare("ttl", nil).
	Declare("data", nil).
	Declare("comment", nil).
	Declare("aging", nil).
	Declare("enabled", nil).
	Declare("dnsZoneRef", nil)

// Descriptors of the DNS kinds.
var (
	DNSZones   = Descriptor{Path: "DNSZones", ObjType: "DNSZone", ItemKey: "dnsZone", CollectionKey: "dnsZones", Schema: DNSZone}
	DNSRecords = Descriptor{Path: "DNSRecords", ObjType: "DNSRecord", ItemKey: "dnsRecord", CollectionKey: "dnsRecords", Schema: DNSRecord}
	DNSViews   = Descriptor{Path: "DNSViews", ObjType: "DNSView", ItemKey: "dnsView", CollectionKey: "dnsViews", Schema: DNSView}
)
