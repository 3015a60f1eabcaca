package resources

import "github.com/jroosing/mmws/internal/entity"

// User, Group and Role reference each other, so the schemas are allocated
// first and their fields declared afterwards.
var (
	User  = entity.NewSchema("User")
	Group = entity.NewSchema("Group")
	Role  = entity.NewSchema("Role")
)

func init() {
	User.Declare("ref", nil).
		Declare("name", nil).
		Declare("password", nil).
		Declare("fullName", nil).
		Declare("description", nil).
		Declare("email", nil).
		Declare("authenticationType", nil).
		DeclareList("roles", Role).
		DeclareList("groups", Group)

	Group.Declare("ref", nil).
		Declare("name", nil).
		Declare("description", nil).
		Declare("adIntegrated", nil).
		DeclareList("groupMembers", User).
		DeclareList("roles", Role)

	Role.Declare("ref", nil).
		Declare("name", nil).
		Declare("description", nil).
		DeclareList("users", User).
		DeclareList("groups", Group)
}

// Descriptors of the user management kinds.
var (
	Users  = Descriptor{Path: "Users", ObjType: "User", ItemKey: "user", CollectionKey: "users", Schema: User}
	Groups = Descriptor{Path: "Groups", ObjType: "Group", ItemKey: "group", CollectionKey: "groups", Schema: Group}
	Roles  = Descriptor{Path: "Roles", ObjType: "Role", ItemKey: "role", CollectionKey: "roles", Schema: Role}
)
