package hub

import "sort"

// DefaultRoom is the permanent room every connection starts in.
// It is never destroyed, even when empty.
const DefaultRoom = "general"

// Registry maps room names to their member connection ids and owns room
// creation and destruction. It is not safe for concurrent use: the
// Coordinator serializes all access under its mutex.
type Registry struct {
	rooms map[string]map[string]struct{}
}

// NewRegistry creates a registry holding only the default room.
func NewRegistry() *Registry {
	return &Registry{
		rooms: map[string]map[string]struct{}{
			DefaultRoom: {},
		},
	}
}

// Exists reports whether the room exists.
func (r *Registry) Exists(name string) bool {
	_, ok := r.rooms[name]
	return ok
}

// Ensure creates the room if it does not exist and reports whether it was
// created.
func (r *Registry) Ensure(name string) bool {
	if _, ok := r.rooms[name]; ok {
		return false
	}
	r.rooms[name] = make(map[string]struct{})
	return true
}

// Add puts a connection into the room's member set.
// The room must already exist.
func (r *Registry) Add(name, connID string) {
	r.rooms[name][connID] = struct{}{}
}

// Remove takes a connection out of the room's member set and reports
// whether the room was destroyed as a result. A room is destroyed exactly
// when its member set becomes empty, unless it is the default room.
func (r *Registry) Remove(name, connID string) bool {
	members, ok := r.rooms[name]
	if !ok {
		return false
	}
	delete(members, connID)

	if len(members) == 0 && name != DefaultRoom {
		delete(r.rooms, name)
		return true
	}
	return false
}

// Members returns the room's member connection ids, sorted.
func (r *Registry) Members(name string) []string {
	members := make([]string, 0, len(r.rooms[name]))
	for id := range r.rooms[name] {
		members = append(members, id)
	}
	sort.Strings(members)
	return members
}

// Names returns all room names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.rooms))
	for name := range r.rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size returns the number of members in the room.
func (r *Registry) Size(name string) int {
	return len(r.rooms[name])
}

// NumRooms returns the number of rooms in existence.
func (r *Registry) NumRooms() int {
	return len(r.rooms)
}
