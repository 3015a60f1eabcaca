package resources

import (
	"time"

	"github.com/jroosing/mmws/internal/entity"
)

// AccessEntry is one permission and whether it is allowed or denied.
var AccessEntry = entity.NewSchema("AccessEntry").
	Declare("name", nil).
	Declare("access", nil)

// IdentityAccess holds the permissions of one user or group on an object.
var IdentityAccess = entity.NewSchema("IdentityAccess").
	Declare("identityRef", nil).
	Declare("identityName", nil).
	DeclareList("accessEntries", AccessEntry)

// ObjectAccess is the access control list of an object, as returned by "<ref>/Access".
var ObjectAccess = entity.NewSchema("ObjectAccess").
	Declare("ref", nil).
	Declare("name", nil).
	DeclareList("identityAccess", IdentityAccess)

// Event is one entry of an object's change history.
var Event = entity.NewSchema("Event").
	Declare("eventType", nil).
	Declare("objType", nil).
	Declare("objRef", nil).
	Declare("objName", nil).
	Declare("timestamp", nil).
	Declare("username", nil).
	Declare("saveComment", nil).
	Declare("eventText", nil)

// PropertyDefinition describes a custom property of a kind.
var PropertyDefinition = entity.NewSchema("PropertyDefinition").
	Declare("name", nil).
	Declare("type", nil).
	Declare("system", nil).
	Declare("mandatory", nil).
	Declare("readOnly", nil).
	Declare("multiLine", nil).
	Declare("defaultValue", nil).
	DeclareValue("listItems", nil).
	Declare("parentProperty", nil)

// Timestamp layouts seen in event history, most specific first.
var eventTimeLayouts = []string{
	time.RFC3339Nano,
	"Jan 2, 2006 15:04:05",
	"2006-01-02 15:04:05",
}

// EventTime parses the timestamp of an Event entity. ok is false when the
// field is unset or in an unknown layout.
func EventTime(ev *entity.Entity) (t time.Time, ok bool) {
	s := ev.String("timestamp")
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
