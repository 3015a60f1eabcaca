package client

import (
	"fmt"

	"github.com/jroosing/mmws/internal/entity"
	"github.com/jroosing/mmws/internal/resources"
)

// NewEntity returns an empty entity of any known kind, nested kinds such
// as "AccessEntry" included.
func NewEntity(kind string) (*entity.Entity, error) {
	s, ok := resources.Schema(kind)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	return s.New(), nil
}

func NewUser() *entity.Entity                 { return resources.User.New() }
func NewGroup() *entity.Entity                { return resources.Group.New() }
func NewRole() *entity.Entity                 { return resources.Role.New() }
func NewDNSZone() *entity.Entity              { return resources.DNSZone.New() }
func NewDNSRecord() *entity.Entity            { return resources.DNSRecord.New() }
func NewDNSView() *entity.Entity              { return resources.DNSView.New() }
func NewDNSZoneOptions() *entity.Entity       { return resources.DNSZoneOptions.New() }
func NewDNSGenerateDirective() *entity.Entity { return resources.DNSGenerateDirective.New() }
func NewFolder() *entity.Entity               { return resources.Folder.New() }
func NewIPAMRecord() *entity.Entity           { return resources.IPAMRecord.New() }
func NewRange() *entity.Entity                { return resources.Range.New() }
func NewDiscovery() *entity.Entity            { return resources.Discovery.New() }
func NewAddressBlock() *entity.Entity         { return resources.AddressBlock.New() }
func NewRangeStatistics() *entity.Entity      { return resources.RangeStatistics.New() }
func NewInterface() *entity.Entity            { return resources.Interface.New() }
func NewDevice() *entity.Entity               { return resources.Device.New() }
func NewChangeRequest() *entity.Entity        { return resources.ChangeRequest.New() }
func NewObjectAccess() *entity.Entity         { return resources.ObjectAccess.New() }
func NewIdentityAccess() *entity.Entity       { return resources.IdentityAccess.New() }
func NewAccessEntry() *entity.Entity          { return resources.AccessEntry.New() }
func NewEvent() *entity.Entity                { return resources.Event.New() }
func NewPropertyDefinition() *entity.Entity   { return resources.PropertyDefinition.New() }
