package querycache

import (
	"encoding/json"
	"fmt"
)

// ListID identificador del tag colectivo de una colección.
const ListID = "LIST"

// Tag etiqueta bajo la que se archiva un resultado en caché.
// ID vacío es un tag colectivo de tipo (ej. Leases): invalidarlo alcanza a
// todas las entradas que proveen cualquier tag de ese tipo.
type Tag struct {
	Type string
	ID   string
}

// TagOf tag de entidad (tipo + id).
func TagOf(typ string, id any) Tag {
	return Tag{Type: typ, ID: fmt.Sprint(id)}
}

// ListTag tag colectivo LIST de una colección.
func ListTag(typ string) Tag {
	return Tag{Type: typ, ID: ListID}
}

// TypeTag tag que representa al tipo completo.
func TypeTag(typ string) Tag {
	return Tag{Type: typ}
}

func (t Tag) String() string {
	if t.ID == "" {
		return t.Type
	}
	return t.Type + "[" + t.ID + "]"
}

// Key identifica una entrada de caché: operación + parámetros serializados.
type Key string

// KeyOf construye la clave de una operación. Los parámetros se serializan en JSON
// (los mapas quedan con claves ordenadas).
func KeyOf(operation string, arg any) Key {
	if arg == nil {
		return Key(operation + "()")
	}
	b, err := json.Marshal(arg)
	if err != nil {
		return Key(fmt.Sprintf("%s(%v)", operation, arg))
	}
	return Key(operation + "(" + string(b) + ")")
}

// tagIndex índice invertido tipo → id → claves.
type tagIndex map[string]map[string]map[Key]struct{}

func (ix tagIndex) add(t Tag, k Key) {
	ids, ok := ix[t.Type]
	if !ok {
		ids = make(map[string]map[Key]struct{})
		ix[t.Type] = ids
	}
	keys, ok := ids[t.ID]
	if !ok {
		keys = make(map[Key]struct{})
		ids[t.ID] = keys
	}
	keys[k] = struct{}{}
}

func (ix tagIndex) remove(t Tag, k Key) {
	ids, ok := ix[t.Type]
	if !ok {
		return
	}
	if keys, ok := ids[t.ID]; ok {
		delete(keys, k)
		if len(keys) == 0 {
			delete(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		delete(ix, t.Type)
	}
}

// match devuelve las claves alcanzadas por los tags dados.
func (ix tagIndex) match(tags []Tag) map[Key]struct{} {
	out := make(map[Key]struct{})
	for _, t := range tags {
		ids, ok := ix[t.Type]
		if !ok {
			continue
		}
		if t.ID == "" {
			for _, keys := range ids {
				for k := range keys {
					out[k] = struct{}{}
				}
			}
			continue
		}
		for k := range ids[t.ID] {
			out[k] = struct{}{}
		}
	}
	return out
}

func uniqueTags(tags []Tag) []Tag {
	seen := make(map[Tag]struct{}, len(tags))
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if t.Type == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
