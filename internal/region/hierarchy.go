// Package region holds the containment hierarchy:
// Country -> State -> City -> {Person, Shop}.
// Nodes live in an arena addressed by NodeID. Leaves carry the entity
// handle of the person or shop they stand for.
package region

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/talgya/mini-market/internal/world"
)

// ErrUnknownNode is returned for ids outside the arena or of the wrong kind.
var ErrUnknownNode = errors.New("unknown region node")

// NodeID addresses a node in the hierarchy arena.
type NodeID int

// NoParent is the parent of every country.
const NoParent NodeID = -1

// Kind is the level of a node in the hierarchy.
type Kind uint8

const (
	KindCountry Kind = iota
	KindState
	KindCity
	KindPerson
	KindShop
)

var kindNames = [...]string{"country", "state", "city", "person", "shop"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// childKind is the only kind each level may own. Cities own two.
func (k Kind) owns(child Kind) bool {
	switch k {
	case KindCountry:
		return child == KindState
	case KindState:
		return child == KindCity
	case KindCity:
		return child == KindPerson || child == KindShop
	}
	return false
}

// Node is one entry in the hierarchy.
type Node struct {
	ID       NodeID         `json:"id"`
	Kind     Kind           `json:"kind"`
	Name     string         `json:"name"`
	Parent   NodeID         `json:"parent"`
	Children []NodeID       `json:"children,omitempty"`
	Position world.Position `json:"position"`
	Terrain  world.Terrain  `json:"terrain"` // states only

	Entity  ecs.Entity `json:"-"` // persons and shops only
	Removed bool       `json:"removed,omitempty"`
}

// Hierarchy is the arena of all nodes.
type Hierarchy struct {
	nodes     []*Node
	byEntity  map[ecs.Entity]NodeID
	countries []NodeID
}

// New creates an empty hierarchy.
func New() *Hierarchy {
	return &Hierarchy{byEntity: make(map[ecs.Entity]NodeID)}
}

func (h *Hierarchy) add(parent NodeID, n *Node) (NodeID, error) {
	if parent != NoParent {
		p, ok := h.live(parent)
		if !ok {
			return 0, fmt.Errorf("%w: parent %d", ErrUnknownNode, parent)
		}
		if !p.Kind.owns(n.Kind) {
			return 0, fmt.Errorf("%w: %s %d cannot own a %s", ErrUnknownNode, p.Kind, parent, n.Kind)
		}
	}
	n.ID = NodeID(len(h.nodes))
	n.Parent = parent
	h.nodes = append(h.nodes, n)
	if parent != NoParent {
		p := h.nodes[parent]
		p.Children = append(p.Children, n.ID)
	}
	return n.ID, nil
}

// AddCountry creates a root node.
func (h *Hierarchy) AddCountry(name string) NodeID {
	id, _ := h.add(NoParent, &Node{Kind: KindCountry, Name: name})
	h.countries = append(h.countries, id)
	return id
}

// AddState creates a state inside country.
func (h *Hierarchy) AddState(country NodeID, name string, pos world.Position, terrain world.Terrain) (NodeID, error) {
	return h.add(country, &Node{Kind: KindState, Name: name, Position: pos, Terrain: terrain})
}

// AddCity creates a city inside state.
func (h *Hierarchy) AddCity(state NodeID, name string, pos world.Position) (NodeID, error) {
	return h.add(state, &Node{Kind: KindCity, Name: name, Position: pos})
}

// AddMember registers a person or shop entity as a child of city.
func (h *Hierarchy) AddMember(city NodeID, kind Kind, name string, e ecs.Entity) (NodeID, error) {
	if kind != KindPerson && kind != KindShop {
		return 0, fmt.Errorf("%w: %s is not a city member", ErrUnknownNode, kind)
	}
	id, err := h.add(city, &Node{Kind: kind, Name: name, Entity: e})
	if err != nil {
		return 0, err
	}
	h.byEntity[e] = id
	return id, nil
}

// RemoveMember drops a person leaf from its city's membership. Shops are
// permanent and are never removed. Reports whether anything was removed.
func (h *Hierarchy) RemoveMember(e ecs.Entity) bool {
	id, ok := h.byEntity[e]
	if !ok {
		return false
	}
	n := h.nodes[id]
	if n.Kind != KindPerson {
		return false
	}
	parent := h.nodes[n.Parent]
	for i, c := range parent.Children {
		if c == id {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			break
		}
	}
	n.Removed = true
	delete(h.byEntity, e)
	return true
}

func (h *Hierarchy) live(id NodeID) (*Node, bool) {
	if id < 0 || int(id) >= len(h.nodes) {
		return nil, false
	}
	n := h.nodes[id]
	if n.Removed {
		return nil, false
	}
	return n, true
}

// Node returns the node for id. Removed nodes are not returned.
func (h *Hierarchy) Node(id NodeID) (*Node, bool) {
	return h.live(id)
}

// NodeOf returns the leaf registered for entity e.
func (h *Hierarchy) NodeOf(e ecs.Entity) (*Node, bool) {
	id, ok := h.byEntity[e]
	if !ok {
		return nil, false
	}
	return h.live(id)
}

// Children returns the ids of id's children. The slice must not be modified.
func (h *Hierarchy) Children(id NodeID) []NodeID {
	n, ok := h.live(id)
	if !ok {
		return nil
	}
	return n.Children
}

// Countries returns the root nodes in creation order.
func (h *Hierarchy) Countries() []NodeID {
	return h.countries
}

// OfKind returns every live node of kind k in creation order.
func (h *Hierarchy) OfKind(k Kind) []NodeID {
	var ids []NodeID
	for _, n := range h.nodes {
		if n.Kind == k && !n.Removed {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Len returns the number of nodes ever created, removed ones included.
func (h *Hierarchy) Len() int {
	return len(h.nodes)
}
