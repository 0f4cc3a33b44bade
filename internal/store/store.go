// Package store keeps persons and shops as entities in an ark ECS world.
// Systems address them by entity handle; the region hierarchy refers to the
// same handles.
package store

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/talgya/mini-market/internal/agents"
	"github.com/talgya/mini-market/internal/economy"
	"github.com/talgya/mini-market/internal/region"
)

// ErrUnknownEntity is returned for handles that are dead or were never
// created by this store.
var ErrUnknownEntity = errors.New("unknown entity")

// Home ties a person or shop to the city that owns it.
type Home struct {
	City region.NodeID
}

// Store owns the ECS world. Not safe for concurrent use, except that
// lookups and counts may run alongside each other: only EachPerson opens
// a query.
type Store struct {
	world ecs.World

	people *ecs.Map2[agents.Person, Home]
	shops  *ecs.Map2[economy.Shop, Home]

	personMap *ecs.Map[agents.Person]
	shopMap   *ecs.Map[economy.Shop]
	homeMap   *ecs.Map[Home]

	personFilter ecs.Filter2[agents.Person, Home]

	// Shops are never removed, so a slice gives stable random access.
	shopIndex []ecs.Entity
	persons   int
}

// New creates an empty store.
func New() *Store {
	s := &Store{world: ecs.NewWorld()}
	w := &s.world
	s.people = ecs.NewMap2[agents.Person, Home](w)
	s.shops = ecs.NewMap2[economy.Shop, Home](w)
	s.personMap = ecs.NewMap[agents.Person](w)
	s.shopMap = ecs.NewMap[economy.Shop](w)
	s.homeMap = ecs.NewMap[Home](w)
	s.personFilter = *ecs.NewFilter2[agents.Person, Home](w)
	return s
}

// AddPerson creates a person entity living in city.
func (s *Store) AddPerson(p agents.Person, city region.NodeID) ecs.Entity {
	s.persons++
	return s.people.NewEntity(&p, &Home{City: city})
}

// AddShop creates a shop entity in city.
func (s *Store) AddShop(shop economy.Shop, city region.NodeID) ecs.Entity {
	e := s.shops.NewEntity(&shop, &Home{City: city})
	s.shopIndex = append(s.shopIndex, e)
	return e
}

// Person returns the person component of e, or nil if e is not a live person.
func (s *Store) Person(e ecs.Entity) *agents.Person {
	if !s.world.Alive(e) || !s.personMap.Has(e) {
		return nil
	}
	return s.personMap.Get(e)
}

// Shop returns the shop component of e, or nil if e is not a shop.
func (s *Store) Shop(e ecs.Entity) *economy.Shop {
	if !s.world.Alive(e) || !s.shopMap.Has(e) {
		return nil
	}
	return s.shopMap.Get(e)
}

// Home returns the owning city of e.
func (s *Store) Home(e ecs.Entity) (region.NodeID, error) {
	if !s.world.Alive(e) || !s.homeMap.Has(e) {
		return 0, fmt.Errorf("%w: %v", ErrUnknownEntity, e)
	}
	return s.homeMap.Get(e).City, nil
}

// EachPerson calls fn for every live person entity. fn must not add or
// remove entities.
func (s *Store) EachPerson(fn func(e ecs.Entity, p *agents.Person, home *Home)) {
	query := s.personFilter.Query()
	for query.Next() {
		p, home := query.Get()
		fn(query.Entity(), p, home)
	}
}

// EachShop calls fn for every shop entity, in creation order.
func (s *Store) EachShop(fn func(e ecs.Entity, shop *economy.Shop)) {
	for _, e := range s.shopIndex {
		fn(e, s.shopMap.Get(e))
	}
}

// PersonCount returns the number of person entities, dead ones not yet
// swept included.
func (s *Store) PersonCount() int {
	return s.persons
}

// ShopCount returns the number of shops.
func (s *Store) ShopCount() int {
	return len(s.shopIndex)
}

// ShopAt returns the i-th shop in creation order.
func (s *Store) ShopAt(i int) (ecs.Entity, *economy.Shop) {
	e := s.shopIndex[i]
	return e, s.shopMap.Get(e)
}

// RemovePerson destroys a person entity. Shops cannot be removed.
func (s *Store) RemovePerson(e ecs.Entity) error {
	if !s.world.Alive(e) || !s.personMap.Has(e) {
		return fmt.Errorf("%w: %v", ErrUnknownEntity, e)
	}
	s.world.RemoveEntity(e)
	s.persons--
	return nil
}
