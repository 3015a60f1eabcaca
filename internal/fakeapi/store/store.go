// Package store is the in-memory object database behind the fake MMWS API.
// Objects are kept as decoded JSON maps keyed by reference, together with
// memberships, access lists, change history and property definitions.
package store

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jroosing/mmws/internal/resources"
	"github.com/jroosing/mmws/internal/service"
)

// Error is a failure the handlers turn into an MMWS error envelope.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

func notFound(format string, args ...any) *Error {
	return &Error{Status: http.StatusNotFound, Code: "ObjectNotFound", Message: fmt.Sprintf(format, args...)}
}

func badRequest(format string, args ...any) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "InvalidRequest", Message: fmt.Sprintf(format, args...)}
}

type kindState struct {
	desc   service.Descriptor
	nextID int
	order  []string
}

// Store holds all fake server state. It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	kinds   map[string]*kindState // by API path
	objects map[string]map[string]any
	links   map[string][]string
	access  map[string][]any
	history map[string][]map[string]any
	propDef map[string][]map[string]any

	now func() time.Time
}

// New returns an empty store serving every kind in the resource catalogue.
func New() *Store {
	s := &Store{
		kinds:   make(map[string]*kindState),
		objects: make(map[string]map[string]any),
		links:   make(map[string][]string),
		access:  make(map[string][]any),
		history: make(map[string][]map[string]any),
		propDef: make(map[string][]map[string]any),
		now:     time.Now,
	}
	for _, d := range resources.Catalogue() {
		s.kinds[d.Path] = &kindState{desc: d, nextID: 1}
	}
	return s
}

// SetClock replaces the time source used for history timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Kind returns the descriptor served under path.
func (s *Store) Kind(path string) (service.Descriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.kinds[path]
	if !ok {
		return service.Descriptor{}, false
	}
	return k.desc, true
}

// Count returns the number of stored objects.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Create stores obj as a new object of kind path and returns its reference.
func (s *Store) Create(path string, obj map[string]any, user, comment string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, ok := s.kinds[path]
	if !ok {
		return "", notFound("unknown object type %s", path)
	}
	if obj == nil {
		return "", badRequest("missing %s", k.desc.ItemKey)
	}
	if name, _ := obj["name"].(string); name != "" {
		if _, taken := s.findByNameLocked(k, name); taken {
			return "", &Error{Status: http.StatusConflict, Code: "ObjectExists", Message: fmt.Sprintf("%s %q already exists", k.desc.ObjType, name)}
		}
	}

	ref := path + "/" + strconv.Itoa(k.nextID)
	k.nextID++

	stored := clone(obj).(map[string]any)
	stored[k.desc.Schema.RefField()] = ref
	s.objects[ref] = stored
	k.order = append(k.order, ref)

	s.recordLocked(ref, k.desc.ObjType, "Created", user, comment)
	return ref, nil
}

// Get returns a copy of the object addressed by ref, which is either a
// reference or "<Path>/<name>".
func (s *Store) Get(ref string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resolved, err := s.resolveLocked(ref)
	if err != nil {
		return nil, err
	}
	return clone(s.objects[resolved]).(map[string]any), nil
}

// ListOptions filters and pages a listing.
type ListOptions struct {
	Filter string // "field=value", "field:value" or a substring of the name
	Offset int
	Limit  int // 0 means no limit
}

// List returns copies of the objects of kind path and the total number of
// matches before paging.
func (s *Store) List(path string, opts ListOptions) ([]map[string]any, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	k, ok := s.kinds[path]
	if !ok {
		return nil, 0, notFound("unknown object type %s", path)
	}
	matched := make([]map[string]any, 0, len(k.order))
	for _, ref := range k.order {
		obj := s.objects[ref]
		if matches(obj, opts.Filter) {
			matched = append(matched, obj)
		}
	}
	total := len(matched)

	if opts.Offset > 0 {
		matched = matched[min(opts.Offset, len(matched)):]
	}
	if opts.Limit > 0 && opts.Limit < len(matched) {
		matched = matched[:opts.Limit]
	}
	out := make([]map[string]any, len(matched))
	for i, obj := range matched {
		out[i] = clone(obj).(map[string]any)
	}
	return out, total, nil
}

// Update applies properties to the object at ref. With deleteUnspecified
// the object is replaced by properties; otherwise they are merged in.
func (s *Store) Update(ref, objType string, properties map[string]any, deleteUnspecified bool, user, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolved, err := s.resolveLocked(ref)
	if err != nil {
		return err
	}
	k := s.kinds[kindOf(resolved)]
	if objType != "" && objType != k.desc.ObjType {
		return badRequest("objType %s does not match %s", objType, k.desc.ObjType)
	}

	refField := k.desc.Schema.RefField()
	current := s.objects[resolved]
	if deleteUnspecified {
		current = map[string]any{refField: resolved}
	}
	for key, v := range properties {
		if key == refField {
			continue
		}
		current[key] = clone(v)
	}
	s.objects[resolved] = current

	s.recordLocked(resolved, k.desc.ObjType, "Modified", user, comment)
	return nil
}

// Delete removes the object at ref and every membership it takes part in.
func (s *Store) Delete(ref, user, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolved, err := s.resolveLocked(ref)
	if err != nil {
		return err
	}
	k := s.kinds[kindOf(resolved)]
	s.recordLocked(resolved, k.desc.ObjType, "Removed", user, comment)
	delete(s.objects, resolved)
	k.order = slices.DeleteFunc(k.order, func(r string) bool { return r == resolved })

	for _, other := range s.links[resolved] {
		s.links[other] = slices.DeleteFunc(s.links[other], func(r string) bool { return r == resolved })
	}
	delete(s.links, resolved)
	delete(s.access, resolved)
	return nil
}

// Link records a membership between owner and target in both directions.
func (s *Store) Link(owner, target, user, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, t, err := s.pairLocked(owner, target)
	if err != nil {
		return err
	}
	if !slices.Contains(s.links[o], t) {
		s.links[o] = append(s.links[o], t)
		s.links[t] = append(s.links[t], o)
	}
	s.recordLocked(o, s.kinds[kindOf(o)].desc.ObjType, "Modified", user, comment)
	return nil
}

// Unlink removes a membership. Removing one that does not exist is an error.
func (s *Store) Unlink(owner, target, user, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, t, err := s.pairLocked(owner, target)
	if err != nil {
		return err
	}
	if !slices.Contains(s.links[o], t) {
		return notFound("%s is not linked to %s", t, o)
	}
	s.links[o] = slices.DeleteFunc(s.links[o], func(r string) bool { return r == t })
	s.links[t] = slices.DeleteFunc(s.links[t], func(r string) bool { return r == o })
	s.recordLocked(o, s.kinds[kindOf(o)].desc.ObjType, "Modified", user, comment)
	return nil
}

// Related returns copies of the objects of kind sub linked to owner.
func (s *Store) Related(owner, sub string) ([]map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, err := s.resolveLocked(owner)
	if err != nil {
		return nil, err
	}
	if _, ok := s.kinds[sub]; !ok {
		return nil, notFound("unknown object type %s", sub)
	}
	out := []map[string]any{}
	for _, ref := range s.links[o] {
		if kindOf(ref) == sub {
			out = append(out, clone(s.objects[ref]).(map[string]any))
		}
	}
	return out, nil
}

// Access returns the object access document of ref.
func (s *Store) Access(ref string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resolved, err := s.resolveLocked(ref)
	if err != nil {
		return nil, err
	}
	identities, _ := clone(s.access[resolved]).([]any)
	if identities == nil {
		identities = []any{}
	}
	return map[string]any{
		"ref":            resolved,
		"name":           s.objects[resolved]["name"],
		"identityAccess": identities,
	}, nil
}

// SetAccess replaces the identity access list of ref.
func (s *Store) SetAccess(ref, objType string, identities []any, user, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resolved, err := s.resolveLocked(ref)
	if err != nil {
		return err
	}
	k := s.kinds[kindOf(resolved)]
	if objType != "" && objType != k.desc.ObjType {
		return badRequest("objType %s does not match %s", objType, k.desc.ObjType)
	}
	s.access[resolved], _ = clone(identities).([]any)
	s.recordLocked(resolved, k.desc.ObjType, "AccessChanged", user, comment)
	return nil
}

// History returns the events recorded for ref, oldest first.
func (s *Store) History(ref string) ([]map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resolved, err := s.resolveLocked(ref)
	if err != nil {
		if _, seen := s.history[ref]; !seen {
			return nil, err
		}
		resolved = ref // deleted objects keep their history
	}
	out := make([]map[string]any, 0, len(s.history[resolved]))
	for _, ev := range s.history[resolved] {
		out = append(out, clone(ev).(map[string]any))
	}
	return out, nil
}

// PropertyDefinitions returns the definitions of scope, optionally only the
// one called name. scope is a kind path or an object reference.
func (s *Store) PropertyDefinitions(scope, name string) ([]map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, err := s.scopeLocked(scope)
	if err != nil {
		return nil, err
	}
	out := []map[string]any{}
	for _, def := range s.propDef[key] {
		if name == "" || def["name"] == name {
			out = append(out, clone(def).(map[string]any))
		}
	}
	if name != "" && len(out) == 0 {
		return nil, notFound("no property definition %q", name)
	}
	return out, nil
}

// CreatePropertyDefinition adds def to scope.
func (s *Store) CreatePropertyDefinition(scope string, def map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.scopeLocked(scope)
	if err != nil {
		return err
	}
	name, _ := def["name"].(string)
	if name == "" {
		return badRequest("property definition needs a name")
	}
	if s.propIndexLocked(key, name) >= 0 {
		return &Error{Status: http.StatusConflict, Code: "ObjectExists", Message: fmt.Sprintf("property %q already exists", name)}
	}
	s.propDef[key] = append(s.propDef[key], clone(def).(map[string]any))
	return nil
}

// UpdatePropertyDefinition merges def into the definition called name.
func (s *Store) UpdatePropertyDefinition(scope, name string, def map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.scopeLocked(scope)
	if err != nil {
		return err
	}
	i := s.propIndexLocked(key, name)
	if i < 0 {
		return notFound("no property definition %q", name)
	}
	for k, v := range def {
		s.propDef[key][i][k] = clone(v)
	}
	return nil
}

// DeletePropertyDefinition removes the definition called name.
func (s *Store) DeletePropertyDefinition(scope, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, err := s.scopeLocked(scope)
	if err != nil {
		return err
	}
	i := s.propIndexLocked(key, name)
	if i < 0 {
		return notFound("no property definition %q", name)
	}
	s.propDef[key] = slices.Delete(s.propDef[key], i, i+1)
	return nil
}

func (s *Store) propIndexLocked(key, name string) int {
	return slices.IndexFunc(s.propDef[key], func(def map[string]any) bool { return def["name"] == name })
}

func (s *Store) scopeLocked(scope string) (string, error) {
	if _, ok := s.kinds[scope]; ok {
		return scope, nil
	}
	return s.resolveLocked(scope)
}

func (s *Store) pairLocked(owner, target string) (string, string, error) {
	o, err := s.resolveLocked(owner)
	if err != nil {
		return "", "", err
	}
	t, err := s.resolveLocked(target)
	if err != nil {
		return "", "", err
	}
	return o, t, nil
}

// resolveLocked maps a reference or "<Path>/<name>" to a stored reference.
func (s *Store) resolveLocked(ref string) (string, error) {
	if _, ok := s.objects[ref]; ok {
		return ref, nil
	}
	path, name, ok := strings.Cut(ref, "/")
	if !ok {
		return "", notFound("invalid reference %q", ref)
	}
	k, ok := s.kinds[path]
	if !ok {
		return "", notFound("unknown object type %s", path)
	}
	if found, ok := s.findByNameLocked(k, name); ok {
		return found, nil
	}
	return "", notFound("object %s not found", ref)
}

func (s *Store) findByNameLocked(k *kindState, name string) (string, bool) {
	for _, ref := range k.order {
		if n, _ := s.objects[ref]["name"].(string); n == name {
			return ref, true
		}
	}
	return "", false
}

func (s *Store) recordLocked(ref, objType, eventType, user, comment string) {
	obj := s.objects[ref]
	name, _ := obj["name"].(string)
	s.history[ref] = append(s.history[ref], map[string]any{
		"eventType":   eventType,
		"objType":     objType,
		"objRef":      ref,
		"objName":     name,
		"timestamp":   s.now().UTC().Format(time.RFC3339),
		"username":    user,
		"saveComment": comment,
		"eventText":   fmt.Sprintf("%s %s %s", eventType, objType, ref),
	})
}

func kindOf(ref string) string {
	path, _, _ := strings.Cut(ref, "/")
	return path
}

func matches(obj map[string]any, filter string) bool {
	if filter == "" {
		return true
	}
	for _, sep := range []string{"=", ":"} {
		if field, want, ok := strings.Cut(filter, sep); ok {
			return fmt.Sprint(obj[strings.TrimSpace(field)]) == strings.TrimSpace(want)
		}
	}
	name, _ := obj["name"].(string)
	return strings.Contains(strings.ToLower(name), strings.ToLower(filter))
}

func clone(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = clone(item)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = clone(item)
		}
		return out
	default:
		return x
	}
}
