package ecs

import (
	"fmt"
	"log"

	"github.com/milk9111/kickbomb/ecs/component"
)

// CommandKind tags a deferred structural edit.
type CommandKind uint8

const (
	CommandCreateEntity CommandKind = iota + 1
	CommandDestroyEntity
	CommandInsertComponent
	CommandRemoveComponent
)

func (k CommandKind) String() string {
	switch k {
	case CommandCreateEntity:
		return "create"
	case CommandDestroyEntity:
		return "destroy"
	case CommandInsertComponent:
		return "insert"
	case CommandRemoveComponent:
		return "remove"
	default:
		return fmt.Sprintf("command(%d)", uint8(k))
	}
}

// Command is one queued structural edit.
type Command struct {
	Kind      CommandKind
	Entity    Entity
	Component component.ComponentID
	Value     any
}

// Commands buffers structural edits issued while component stores are being
// iterated. Flush applies them in enqueue order.
type Commands struct {
	world   *World
	pending []Command
}

// Spawn reserves an entity handle that becomes alive when the buffer is
// flushed. Components may be queued against it right away.
func (c *Commands) Spawn() Entity {
	if c == nil || c.world == nil {
		return 0
	}
	e := c.world.entities.reserve()
	c.pending = append(c.pending, Command{Kind: CommandCreateEntity, Entity: e})
	return e
}

// Despawn queues the destruction of e.
func (c *Commands) Despawn(e Entity) {
	if c == nil {
		return
	}
	c.pending = append(c.pending, Command{Kind: CommandDestroyEntity, Entity: e})
}

// Insert queues value to be added to e, replacing any existing component of
// the same kind.
func Insert[T any](c *Commands, e Entity, kind component.ComponentKind[T], value *T) {
	if c == nil || c.world == nil || !kind.Valid() || value == nil {
		return
	}
	storeOf(c.world, kind, true)
	c.pending = append(c.pending, Command{Kind: CommandInsertComponent, Entity: e, Component: kind.ID(), Value: value})
}

// RemoveLater queues the removal of the component of kind from e.
func RemoveLater[T any](c *Commands, e Entity, kind component.ComponentKind[T]) {
	if c == nil || !kind.Valid() {
		return
	}
	c.pending = append(c.pending, Command{Kind: CommandRemoveComponent, Entity: e, Component: kind.ID()})
}

// Pending returns a copy of the queued commands.
func (c *Commands) Pending() []Command {
	if c == nil {
		return nil
	}
	return append([]Command(nil), c.pending...)
}

func (c *Commands) Len() int {
	if c == nil {
		return 0
	}
	return len(c.pending)
}

// Flush applies every queued command in FIFO order. Edits that target an
// entity that died earlier in the same flush are skipped. Commands queued by
// the flush itself are applied in the same call.
func (c *Commands) Flush() int {
	if c == nil || c.world == nil {
		return 0
	}
	w := c.world
	applied := 0
	for len(c.pending) > 0 {
		batch := c.pending
		c.pending = nil
		for _, cmd := range batch {
			if c.apply(w, cmd) {
				applied++
			}
		}
	}
	return applied
}

func (c *Commands) apply(w *World, cmd Command) bool {
	switch cmd.Kind {
	case CommandCreateEntity:
		return w.entities.commit(cmd.Entity)
	case CommandDestroyEntity:
		return DestroyEntity(w, cmd.Entity)
	case CommandInsertComponent:
		if !w.entities.isAlive(cmd.Entity) {
			return false
		}
		store, ok := w.stores[cmd.Component]
		if !ok {
			return false
		}
		if err := store.setAny(cmd.Entity, cmd.Value); err != nil {
			panic("ecs: apply insert on " + cmd.Entity.String() + ": " + err.Error())
		}
		return true
	case CommandRemoveComponent:
		if !w.entities.isAlive(cmd.Entity) {
			return false
		}
		store, ok := w.stores[cmd.Component]
		if !ok || !store.has(cmd.Entity) {
			return false
		}
		if err := store.remove(cmd.Entity); err != nil {
			panic("ecs: apply remove on " + cmd.Entity.String() + ": " + err.Error())
		}
		return true
	default:
		log.Printf("ecs: unknown command kind %s", cmd.Kind)
		return false
	}
}
