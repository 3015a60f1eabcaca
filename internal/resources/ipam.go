package resources

import "github.com/jroosing/mmws/internal/entity"

// Folder groups ranges and zones.
var Folder = entity.NewSchema("Folder").
	Declare("ref", nil).
	Declare("name", nil).
	Declare("parentRef", nil)

// Discovery holds the discovery schedule of a range.
var Discovery = entity.NewSchema("Discovery").
	Declare("interval", nil).
	Declare("unit", nil).
	Declare("enabled", nil).
	Declare("startTime", nil)

// AddressBlock is a from/to address span.
var AddressBlock = entity.NewSchema("AddressBlock").
	Declare("from", nil).
	Declare("to", nil)

// RangeStatistics counts the used and free addresses of a range.
var RangeStatistics = entity.NewSchema("RangeStatistics").
	Declare("used", nil).
	Declare("free", nil).
	Declare("numInSubranges", nil).
	Declare("numInDhcpScopes", nil)

// Range is an IP range or subnet.
var Range = entity.NewSchema("Range").
	Declare("ref", nil).
	Declare("name", nil).
	Declare("from", nil).
	Declare("to", nil).
	Declare("parentRef", nil).
	Declare("adSiteRef", nil).
	DeclareList("childRanges", AddressBlock).
	DeclareList("dhcpScopes", AddressBlock).
	Declare("subnet", nil).
	Declare("locked", nil).
	Declare("autoAssign", nil).
	Declare("hasSchedule", nil).
	Declare("hasMonitor", nil).
	DeclareValue("customProperties", nil).
	Declare("inheritAccess", nil).
	Declare("isContainer", nil).
	Declare("utilizationPercentage", nil).
	Declare("hasRogueAddresses", nil).
	Declare("cloudNetworkRef", nil).
	DeclareValue("cloudAllocationPools", nil).
	DeclareObject("discoveryProperties", Discovery)

// IPAMRecord is a single IP address. Its reference field is addrRef.
var IPAMRecord = entity.NewSchema("IPAMRecord").WithRefField("addrRef").
	Declare("addrRef", nil).
	Declare("address", nil).
	Declare("claimed", nil).
	DeclareValue("dnsHosts", nil).
	DeclareValue("customProperties", nil).
	Declare("ptrStatus", nil).
	Declare("extraneousPTR", nil).
	Declare("state", nil).
	Declare("usage", nil).
	Declare("deviceRef", nil).
	Declare("interfaceRef", nil).
	Declare("discoveryType", nil).
	Declare("lastSeenDate", nil).
	Declare("lastDiscoveryDate", nil).
	Declare("lastKnownClientIdentifier", nil)

// Interface is a network interface of a device.
var Interface = entity.NewSchema("Interface").
	Declare("ref", nil).
	Declare("name", nil).
	Declare("deviceRef", nil).
	DeclareValue("addresses", nil)

// Device is a host holding interfaces.
var Device = entity.NewSchema("Device").
	Declare("ref", nil).
	Declare("name", nil).
	DeclareValue("customProperties", nil).
	DeclareList("interfaces", Interface)

// ChangeRequest is a pending change awaiting approval.
var ChangeRequest = entity.NewSchema("ChangeRequest").
	Declare("ref", nil).
	Declare("objType", nil).
	Declare("objRef", nil).
	Declare("objName", nil).
	Declare("actionType", nil).
	Declare("state", nil).
	Declare("requester", nil).
	Declare("comment", nil).
	Declare("created", nil).
	DeclareValue("properties", nil)

// Descriptors of the IPAM and change request kinds.
var (
	Folders        = Descriptor{Path: "Folders", ObjType: "Folder", ItemKey: "folder", CollectionKey: "folders", Schema: Folder}
	IPAMRecords    = Descriptor{Path: "IPAMRecords", ObjType: "IPAMRecord", ItemKey: "ipamRecord", CollectionKey: "ipamRecords", Schema: IPAMRecord}
	Ranges         = Descriptor{Path: "Ranges", ObjType: "Range", ItemKey: "range", CollectionKey: "ranges", Schema: Range}
	Interfaces     = Descriptor{Path: "Interfaces", ObjType: "Interface", ItemKey: "interface", CollectionKey: "interfaces", Schema: Interface}
	Devices        = Descriptor{Path: "Devices", ObjType: "Device", ItemKey: "device", CollectionKey: "devices", Schema: Device}
	ChangeRequests = Descriptor{Path: "ChangeRequests", ObjType: "ChangeRequest", ItemKey: "changeRequest", CollectionKey: "changeRequests", Schema: ChangeRequest}
)
