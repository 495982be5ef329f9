package source

import "github.com/go-faster/errors"

var ErrNotFound = errors.New("catalog source not found")

// Source identifies an official price-catalog publisher (SINAPI, SICRO, ORSE).
// Created lazily on first import and never mutated by the import engine.
type Source struct {
	id          int32
	name        string
	description string
}

func New(name, description string) Source {
	return Source{name: name, description: description}
}

func Hydrate(id int32, name, description string) Source {
	return Source{id: id, name: name, description: description}
}

func (s Source) ID() int32           { return s.id }
func (s Source) Name() string        { return s.name }
func (s Source) Description() string { return s.description }
func (s Source) IsZero() bool        { return s.id == 0 && s.name == "" }
