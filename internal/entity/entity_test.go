package entity_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jroosing/mmws/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchemas() (user, role *entity.Schema) {
	user = entity.NewSchema("User")
	role = entity.NewSchema("Role")
	user.Declare("ref", nil).
		Declare("name", nil).
		Declare("authenticationType", "Internal").
		Declare("enabled", nil).
		DeclareValue("tags", nil).
		DeclareObject("manager", user).
		DeclareList("roles", role)
	role.Declare("ref", nil).
		Declare("name", nil).
		DeclareList("users", user)
	return user, role
}

func TestNew_HasNoFieldsSet(t *testing.T) {
	user, _ := testSchemas()
	u := user.New()

	assert.False(t, u.Has("name"))
	assert.Equal(t, "", u.Ref())
	assert.Empty(t, u.Wire())
}

func TestGet_ReturnsDefaultWhenUnset(t *testing.T) {
	user, _ := testSchemas()
	u := user.New()

	assert.Equal(t, "Internal", u.Get("authenticationType"))
	assert.Nil(t, u.Object("manager"))

	roles := u.List("roles")
	require.NotNil(t, roles)
	assert.Empty(t, roles)
}

func TestWire_OnlyContainsSetFields(t *testing.T) {
	user, role := testSchemas()
	u := user.New().Set("name", "alice")

	assert.Equal(t, map[string]any{"name": "alice"}, u.Wire())

	// A non-empty default never leaks into the wire form.
	_, ok := u.Wire()["authenticationType"]
	assert.False(t, ok)

	u.Append("roles", role.New().Set("name", "admin"))
	assert.Equal(t, map[string]any{
		"name":  "alice",
		"roles": []any{map[string]any{"name": "admin"}},
	}, u.Wire())

	u.Unset("roles")
	assert.Equal(t, map[string]any{"name": "alice"}, u.Wire())
}

func TestWire_KeepsExplicitlySetFalsyValues(t *testing.T) {
	user, _ := testSchemas()
	u := user.New().Set("enabled", false).Set("name", "")

	assert.Equal(t, map[string]any{"enabled": false, "name": ""}, u.Wire())
}

func TestWire_ReturnsFreshMaps(t *testing.T) {
	user, _ := testSchemas()
	u := user.New().Set("tags", []any{"a", "b"})

	w := u.Wire()
	w["name"] = "mutated"
	w["tags"].([]any)[0] = "z"

	assert.False(t, u.Has("name"))
	assert.Equal(t, []string{"a", "b"}, u.Strings("tags"))
}

func TestUndeclaredField_Panics(t *testing.T) {
	user, _ := testSchemas()
	u := user.New()

	assert.Panics(t, func() { u.Get("nope") })
	assert.Panics(t, func() { u.Set("nope", 1) })
	assert.Panics(t, func() { u.Has("nope") })
}

func TestSet_KindMismatchPanics(t *testing.T) {
	user, _ := testSchemas()
	u := user.New()

	assert.Panics(t, func() { u.Set("roles", "admin") })
	assert.Panics(t, func() { u.Set("manager", "bob") })
	assert.Panics(t, func() { u.Set("name", []string{"x"}) })
}

func TestDecode_SetsOnlyPresentFields(t *testing.T) {
	user, _ := testSchemas()
	u, err := entity.DecodeJSON(user, []byte(`{
		"ref": "Users/3",
		"name": "alice",
		"unknownField": 12,
		"roles": [{"ref": "Roles/1", "name": "admin"}],
		"manager": {"ref": "Users/1"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Users/3", u.Ref())
	assert.Equal(t, "alice", u.String("name"))
	assert.False(t, u.Has("authenticationType"))
	require.Len(t, u.List("roles"), 1)
	assert.Equal(t, "Roles/1", u.List("roles")[0].Ref())
	assert.Equal(t, "Users/1", u.Object("manager").Ref())

	_, hasAuth := u.Wire()["authenticationType"]
	assert.False(t, hasAuth)
}

func TestDecode_NumbersKeepPrecision(t *testing.T) {
	s := entity.NewSchema("Range").Declare("ref", nil).Declare("size", nil)
	r, err := entity.DecodeJSON(s, []byte(`{"size": 9007199254740993}`))
	require.NoError(t, err)

	assert.Equal(t, int64(9007199254740993), r.Int("size"))
	assert.Equal(t, "9007199254740993", r.String("size"))
}

func TestDecode_ShapeMismatch(t *testing.T) {
	user, _ := testSchemas()

	tests := []struct {
		name string
		doc  string
		path string
	}{
		{name: "list-given-scalar", doc: `{"roles": "admin"}`, path: "User.roles"},
		{name: "list-item-scalar", doc: `{"roles": [{"name":"a"}, 3]}`, path: "User.roles[1]"},
		{name: "object-given-array", doc: `{"manager": []}`, path: "User.manager"},
		{name: "scalar-given-object", doc: `{"name": {"first": "a"}}`, path: "User.name"},
		{name: "nested", doc: `{"roles": [{"users": 5}]}`, path: "User.roles[0].users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := entity.DecodeJSON(user, []byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, entity.ErrDecode))

			var de *entity.DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.path, de.Path)
		})
	}
}

func TestDecode_SingleObjectForListBecomesOneElement(t *testing.T) {
	user, _ := testSchemas()
	u, err := entity.DecodeJSON(user, []byte(`{"roles": {"name": "admin"}}`))
	require.NoError(t, err)

	require.Len(t, u.List("roles"), 1)
	assert.Equal(t, "admin", u.List("roles")[0].String("name"))
}

func TestDecode_NullListIsEmptyButPresent(t *testing.T) {
	user, _ := testSchemas()
	u, err := entity.DecodeJSON(user, []byte(`{"roles": null}`))
	require.NoError(t, err)

	assert.True(t, u.Has("roles"))
	assert.NotNil(t, u.List("roles"))
	assert.Empty(t, u.List("roles"))
}

func TestDecodeMany(t *testing.T) {
	user, _ := testSchemas()

	many, err := entity.DecodeMany(user, []byte(`[{"name":"a"},{"name":"b"}]`))
	require.NoError(t, err)
	assert.Len(t, many, 2)

	one, err := entity.DecodeMany(user, []byte(`{"name":"a"}`))
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "a", one[0].String("name"))

	none, err := entity.DecodeMany(user, []byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = entity.DecodeMany(user, []byte(`"Users/1"`))
	assert.ErrorIs(t, err, entity.ErrDecode)
}

func TestMarshalJSON_RoundTripsSparseForm(t *testing.T) {
	user, _ := testSchemas()
	u := user.New().Set("ref", "Users/3").Set("name", "alice")

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ref":"Users/3","name":"alice"}`, string(b))

	back := user.New()
	require.NoError(t, json.Unmarshal(b, back))
	assert.Equal(t, u.Wire(), back.Wire())
}

func TestTypedGetters(t *testing.T) {
	s := entity.NewSchema("Thing").
		Declare("n", nil).
		Declare("flag", nil).
		Declare("text", nil)
	e, err := entity.DecodeJSON(s, []byte(`{"n": 42, "flag": "true", "text": 7}`))
	require.NoError(t, err)

	assert.Equal(t, int64(42), e.Int("n"))
	assert.True(t, e.Bool("flag"))
	assert.Equal(t, "7", e.String("text"))
}

func TestNumericGetters_ClampAndConvert(t *testing.T) {
	s := entity.NewSchema("DNSRecord").
		Declare("ttl", nil).
		Declare("utilizationPercentage", nil).
		Declare("data", nil)
	e, err := entity.DecodeJSON(s, []byte(`{"ttl": 99999999999, "utilizationPercentage": 37.5, "data": "10.0.0.1"}`))
	require.NoError(t, err)

	assert.Equal(t, uint32(4294967295), e.Uint32("ttl"))
	assert.InDelta(t, 37.5, e.Float("utilizationPercentage"), 1e-9)
	assert.Zero(t, e.Uint32("data"))
	assert.Zero(t, e.Float("data"))

	e.Set("ttl", -5)
	assert.Zero(t, e.Uint32("ttl"))
}

func TestWireOf_NilPayloads(t *testing.T) {
	user, _ := testSchemas()
	var unsaved *entity.Entity
	var fields entity.Fields

	assert.Equal(t, map[string]any{}, entity.WireOf(nil))
	assert.Equal(t, map[string]any{}, entity.WireOf(unsaved))
	assert.Equal(t, map[string]any{}, entity.WireOf(fields))
	assert.Equal(t, map[string]any{"name": "bob"}, entity.WireOf(user.New().Set("name", "bob")))
}

func TestFieldsWire_IsDeepCopy(t *testing.T) {
	nested := map[string]any{"a": ""}
	f := entity.Fields{"name": "x", "nested": nested}

	w := f.Wire()
	delete(w["nested"].(map[string]any), "a")

	assert.Contains(t, nested, "a")
}

func TestSchemaFields_DeclarationOrder(t *testing.T) {
	user, _ := testSchemas()
	assert.Equal(t,
		[]string{"ref", "name", "authenticationType", "enabled", "tags", "manager", "roles"},
		user.Fields())
}

func TestSchema_DuplicateDeclarationPanics(t *testing.T) {
	assert.Panics(t, func() {
		entity.NewSchema("X").Declare("a", nil).Declare("a", nil)
	})
}
